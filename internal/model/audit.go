package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	ActionCreateCategory     = "CREATE_CATEGORY"
	ActionUpdateCategory     = "UPDATE_CATEGORY"
	ActionDeactivateCategory = "DEACTIVATE_CATEGORY"
	ActionCreateSubcategory  = "CREATE_SUBCATEGORY"
	ActionCreateItem         = "CREATE_ITEM"
	ActionUpdateItem         = "UPDATE_ITEM"
	ActionDeactivateItem     = "DEACTIVATE_ITEM"
	ActionCreateBooking      = "CREATE_BOOKING"
	ActionCancelBooking      = "CANCEL_BOOKING"
)

// AuditLog records catalog and booking changes. It is written in the same
// transaction as the change it describes.
type AuditLog struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Action     string         `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string         `gorm:"type:varchar(50);index" json:"entity_id"`
	EntityName string         `gorm:"type:varchar(255)" json:"entity_name,omitempty"`
	Details    datatypes.JSON `gorm:"type:jsonb" json:"details"`
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`
}
