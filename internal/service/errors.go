package service

import (
	"context"
	"encoding/json"
	"errors"

	"catalogbooking/internal/apperror"
	"catalogbooking/internal/model"
	"catalogbooking/internal/repository"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// storeError classifies a repository error. A missing record becomes
// notFound; everything else is a transient store failure.
func storeError(err error, notFound apperror.Kind, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.New(notFound, what+" not found")
	}
	return apperror.Transient(err, "failed to load "+what)
}

func parseID(raw, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperror.Wrap(apperror.KindInvalidInput, err, "invalid "+what+" id")
	}
	return id, nil
}

func parseIDs(raw []string, what string) ([]uuid.UUID, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := parseID(r, what)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func writeAudit(ctx context.Context, repo repository.AuditRepository, action, entityID, entityName string, details any) error {
	raw, err := json.Marshal(details)
	if err != nil {
		return apperror.Wrap(apperror.KindInternal, err, "failed to encode audit details")
	}
	entry := &model.AuditLog{
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    datatypes.JSON(raw),
	}
	if err := repo.Log(ctx, entry); err != nil {
		return apperror.Transient(err, "failed to write audit log")
	}
	return nil
}
