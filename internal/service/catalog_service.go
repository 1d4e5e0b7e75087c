package service

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"time"

	"catalogbooking/internal/apperror"
	"catalogbooking/internal/availability"
	"catalogbooking/internal/model"
	"catalogbooking/internal/pricing"
	"catalogbooking/internal/repository"
	"catalogbooking/pkg/pagination"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

var hundred = decimal.NewFromInt(100)

// DTOs
type TaxOverrideRequest struct {
	TaxApplicable *bool            `json:"tax_applicable"`
	TaxPercentage *decimal.Decimal `json:"tax_percentage" swaggertype:"string" example:"5.00"`
}

type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description"`
	TaxOverrideRequest
}

type CreateSubcategoryRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description"`
	TaxOverrideRequest
}

type AddonRequest struct {
	Name        string          `json:"name" binding:"required,max=255"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" swaggertype:"string" example:"50.00"`
	IsMandatory bool            `json:"is_mandatory"`
}

type CreateItemRequest struct {
	CategoryID         string          `json:"category_id" binding:"omitempty,uuid"`
	SubcategoryID      string          `json:"subcategory_id" binding:"omitempty,uuid"`
	Name               string          `json:"name" binding:"required,max=255"`
	Description        string          `json:"description"`
	PricingKind        string          `json:"pricing_kind" binding:"required,oneof=static tiered complimentary discounted dynamic"`
	PricingConfig      json.RawMessage `json:"pricing_config" swaggertype:"object"`
	IsBookable         bool            `json:"is_bookable"`
	AvailabilityConfig json.RawMessage `json:"availability_config" swaggertype:"object"`
	Addons             []AddonRequest  `json:"addons" binding:"omitempty,dive"`
	TaxOverrideRequest
}

// UpdateCategoryRequest changes only the fields that are present.
type UpdateCategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=255"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
	TaxOverrideRequest
}

// UpdateItemRequest changes only the fields that are present. Setting
// category_id or subcategory_id moves the item and clears the other parent.
// A null availability_config removes the restriction; inherit_tax clears the
// item's own tax override.
type UpdateItemRequest struct {
	CategoryID         *string         `json:"category_id" binding:"omitempty,uuid"`
	SubcategoryID      *string         `json:"subcategory_id" binding:"omitempty,uuid"`
	Name               *string         `json:"name" binding:"omitempty,max=255"`
	Description        *string         `json:"description"`
	PricingKind        *string         `json:"pricing_kind" binding:"omitempty,oneof=static tiered complimentary discounted dynamic"`
	PricingConfig      json.RawMessage `json:"pricing_config" swaggertype:"object"`
	IsBookable         *bool           `json:"is_bookable"`
	AvailabilityConfig json.RawMessage `json:"availability_config" swaggertype:"object"`
	IsActive           *bool           `json:"is_active"`
	InheritTax         bool            `json:"inherit_tax"`
	TaxOverrideRequest
}

type CategoryListFilter struct {
	Search string
	Active *bool
}

type ItemListFilter struct {
	CategoryID    string
	SubcategoryID string
	PricingKind   string
	Search        string
	Active        *bool
}

type SubcategoryResponse struct {
	ID            string  `json:"id"`
	CategoryID    string  `json:"category_id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	TaxApplicable *bool   `json:"tax_applicable"`
	TaxPercentage *string `json:"tax_percentage"`
	IsActive      bool    `json:"is_active"`
}

type CategoryResponse struct {
	ID            string                `json:"id"`
	Name          string                `json:"name"`
	Description   string                `json:"description"`
	TaxApplicable *bool                 `json:"tax_applicable"`
	TaxPercentage *string               `json:"tax_percentage"`
	IsActive      bool                  `json:"is_active"`
	Subcategories []SubcategoryResponse `json:"subcategories,omitempty"`
	CreatedAt     string                `json:"created_at"`
}

type AddonResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	IsMandatory bool   `json:"is_mandatory"`
}

// EffectiveTax is the tax policy an item resolves to after inheritance.
type EffectiveTax struct {
	Applicable bool   `json:"applicable"`
	Percentage string `json:"percentage"`
	Source     string `json:"source"`
}

type ItemResponse struct {
	ID                 string          `json:"id"`
	CategoryID         *string         `json:"category_id"`
	SubcategoryID      *string         `json:"subcategory_id"`
	Name               string          `json:"name"`
	Description        string          `json:"description"`
	PricingKind        string          `json:"pricing_kind"`
	PricingConfig      json.RawMessage `json:"pricing_config" swaggertype:"object"`
	TaxApplicable      *bool           `json:"tax_applicable"`
	TaxPercentage      *string         `json:"tax_percentage"`
	EffectiveTax       *EffectiveTax   `json:"effective_tax,omitempty"`
	IsBookable         bool            `json:"is_bookable"`
	AvailabilityConfig json.RawMessage `json:"availability_config,omitempty" swaggertype:"object"`
	IsActive           bool            `json:"is_active"`
	Addons             []AddonResponse `json:"addons"`
	CreatedAt          string          `json:"created_at"`
}

type CatalogService interface {
	CreateCategory(ctx context.Context, req CreateCategoryRequest) (CategoryResponse, error)
	ListCategories(ctx context.Context, filter CategoryListFilter, page pagination.Params) ([]CategoryResponse, int64, error)
	GetCategory(ctx context.Context, id string) (CategoryResponse, error)
	UpdateCategory(ctx context.Context, id string, req UpdateCategoryRequest) (CategoryResponse, error)
	DeactivateCategory(ctx context.Context, id string) (CategoryResponse, error)
	CreateSubcategory(ctx context.Context, categoryID string, req CreateSubcategoryRequest) (SubcategoryResponse, error)
	CreateItem(ctx context.Context, req CreateItemRequest) (ItemResponse, error)
	GetItem(ctx context.Context, id string) (ItemResponse, error)
	UpdateItem(ctx context.Context, id string, req UpdateItemRequest) (ItemResponse, error)
	ListItems(ctx context.Context, filter ItemListFilter, page pagination.Params) ([]ItemResponse, int64, error)
	DeactivateItem(ctx context.Context, id string) (ItemResponse, error)
}

type catalogService struct {
	catalogRepo repository.CatalogRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
}

func NewCatalogService(
	catalogRepo repository.CatalogRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) CatalogService {
	return &catalogService{
		catalogRepo: catalogRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
	}
}

// validateTax enforces the override shape: a percentage needs an explicit
// flag, an applicable tax needs a percentage, and the percentage lies in [0, 100].
func validateTax(t TaxOverrideRequest) error {
	if t.TaxPercentage != nil && t.TaxApplicable == nil {
		return apperror.New(apperror.KindInvalidInput, "tax_percentage requires tax_applicable")
	}
	if t.TaxApplicable != nil && *t.TaxApplicable && t.TaxPercentage == nil {
		return apperror.New(apperror.KindInvalidInput, "tax_percentage is required when tax_applicable is true")
	}
	if p := t.TaxPercentage; p != nil && (p.IsNegative() || p.GreaterThan(hundred)) {
		return apperror.New(apperror.KindInvalidInput, "tax_percentage must be between 0 and 100")
	}
	return nil
}

// mergeTax lays the present fields of update over current.
func mergeTax(current, update TaxOverrideRequest) TaxOverrideRequest {
	if update.TaxApplicable != nil {
		current.TaxApplicable = update.TaxApplicable
	}
	if update.TaxPercentage != nil {
		current.TaxPercentage = update.TaxPercentage
	}
	return current
}

func requireName(name *string) error {
	if name != nil && strings.TrimSpace(*name) == "" {
		return apperror.New(apperror.KindInvalidInput, "name must not be empty")
	}
	return nil
}

func (s *catalogService) CreateCategory(ctx context.Context, req CreateCategoryRequest) (CategoryResponse, error) {
	if err := validateTax(req.TaxOverrideRequest); err != nil {
		return CategoryResponse{}, err
	}
	category := model.Category{
		Name:          req.Name,
		Description:   req.Description,
		TaxApplicable: req.TaxApplicable,
		TaxPercentage: req.TaxPercentage,
		IsActive:      true,
	}
	if category.TaxApplicable == nil {
		no := false
		category.TaxApplicable = &no
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.catalogRepo.CreateCategory(txCtx, &category); err != nil {
			return apperror.Transient(err, "failed to create category")
		}
		return writeAudit(txCtx, s.auditRepo, model.ActionCreateCategory, category.ID.String(), category.Name, req)
	})
	if err != nil {
		return CategoryResponse{}, err
	}
	return toCategoryResponse(&category), nil
}

func (s *catalogService) ListCategories(ctx context.Context, filter CategoryListFilter, page pagination.Params) ([]CategoryResponse, int64, error) {
	categories, total, err := s.catalogRepo.ListCategories(ctx, repository.CategoryFilter{
		IsActive: filter.Active,
		Search:   filter.Search,
	}, page.Offset, page.Limit)
	if err != nil {
		return nil, 0, apperror.Transient(err, "failed to list categories")
	}

	res := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		res = append(res, toCategoryResponse(&categories[i]))
	}
	return res, total, nil
}

func (s *catalogService) GetCategory(ctx context.Context, id string) (CategoryResponse, error) {
	categoryID, err := parseID(id, "category")
	if err != nil {
		return CategoryResponse{}, err
	}
	category, err := s.catalogRepo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		return CategoryResponse{}, storeError(err, apperror.KindNotFound, "category")
	}
	return toCategoryResponse(category), nil
}

func (s *catalogService) UpdateCategory(ctx context.Context, id string, req UpdateCategoryRequest) (CategoryResponse, error) {
	categoryID, err := parseID(id, "category")
	if err != nil {
		return CategoryResponse{}, err
	}
	if err := requireName(req.Name); err != nil {
		return CategoryResponse{}, err
	}

	var category *model.Category
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		found, err := s.catalogRepo.FindCategoryByID(txCtx, categoryID)
		if err != nil {
			return storeError(err, apperror.KindNotFound, "category")
		}

		tax := mergeTax(TaxOverrideRequest{TaxApplicable: found.TaxApplicable, TaxPercentage: found.TaxPercentage}, req.TaxOverrideRequest)
		if err := validateTax(tax); err != nil {
			return err
		}
		found.TaxApplicable, found.TaxPercentage = tax.TaxApplicable, tax.TaxPercentage
		if req.Name != nil {
			found.Name = *req.Name
		}
		if req.Description != nil {
			found.Description = *req.Description
		}
		if req.IsActive != nil {
			found.IsActive = *req.IsActive
		}

		if err := s.catalogRepo.UpdateCategory(txCtx, found); err != nil {
			return apperror.Transient(err, "failed to update category")
		}
		category = found
		return writeAudit(txCtx, s.auditRepo, model.ActionUpdateCategory, found.ID.String(), found.Name, req)
	})
	if err != nil {
		return CategoryResponse{}, err
	}
	return toCategoryResponse(category), nil
}

// DeactivateCategory hides a category from active listings. Its subcategories
// and items are left untouched.
func (s *catalogService) DeactivateCategory(ctx context.Context, id string) (CategoryResponse, error) {
	categoryID, err := parseID(id, "category")
	if err != nil {
		return CategoryResponse{}, err
	}

	var category *model.Category
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		found, err := s.catalogRepo.FindCategoryByID(txCtx, categoryID)
		if err != nil {
			return storeError(err, apperror.KindNotFound, "category")
		}
		category = found
		if !found.IsActive {
			return nil
		}
		found.IsActive = false
		if err := s.catalogRepo.UpdateCategory(txCtx, found); err != nil {
			return apperror.Transient(err, "failed to deactivate category")
		}
		return writeAudit(txCtx, s.auditRepo, model.ActionDeactivateCategory, found.ID.String(), found.Name, nil)
	})
	if err != nil {
		return CategoryResponse{}, err
	}
	return toCategoryResponse(category), nil
}

func (s *catalogService) CreateSubcategory(ctx context.Context, categoryID string, req CreateSubcategoryRequest) (SubcategoryResponse, error) {
	parentID, err := parseID(categoryID, "category")
	if err != nil {
		return SubcategoryResponse{}, err
	}
	if err := validateTax(req.TaxOverrideRequest); err != nil {
		return SubcategoryResponse{}, err
	}

	subcategory := model.Subcategory{
		CategoryID:    parentID,
		Name:          req.Name,
		Description:   req.Description,
		TaxApplicable: req.TaxApplicable,
		TaxPercentage: req.TaxPercentage,
		IsActive:      true,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.catalogRepo.FindCategoryByID(txCtx, parentID); err != nil {
			return storeError(err, apperror.KindNotFound, "category")
		}
		if err := s.catalogRepo.CreateSubcategory(txCtx, &subcategory); err != nil {
			return apperror.Transient(err, "failed to create subcategory")
		}
		return writeAudit(txCtx, s.auditRepo, model.ActionCreateSubcategory, subcategory.ID.String(), subcategory.Name, req)
	})
	if err != nil {
		return SubcategoryResponse{}, err
	}
	return toSubcategoryResponse(&subcategory), nil
}

func (s *catalogService) CreateItem(ctx context.Context, req CreateItemRequest) (ItemResponse, error) {
	if (req.CategoryID == "") == (req.SubcategoryID == "") {
		return ItemResponse{}, apperror.New(apperror.KindInvalidInput, "item must belong to exactly one of category or subcategory")
	}
	if err := validateTax(req.TaxOverrideRequest); err != nil {
		return ItemResponse{}, err
	}

	kind := pricing.Kind(req.PricingKind)
	if _, err := pricing.ParseConfig(kind, req.PricingConfig); err != nil {
		return ItemResponse{}, err
	}
	if _, err := availability.ParseConfig(req.AvailabilityConfig); err != nil {
		return ItemResponse{}, err
	}

	item := model.Item{
		Name:               req.Name,
		Description:        req.Description,
		PricingKind:        kind,
		PricingConfig:      pricingJSON(req.PricingConfig),
		TaxApplicable:      req.TaxApplicable,
		TaxPercentage:      req.TaxPercentage,
		IsBookable:         req.IsBookable,
		AvailabilityConfig: availabilityJSON(req.AvailabilityConfig),
		IsActive:           true,
	}
	for _, a := range req.Addons {
		if a.Price.IsNegative() {
			return ItemResponse{}, apperror.New(apperror.KindInvalidInput, "addon price must not be negative")
		}
		item.Addons = append(item.Addons, model.Addon{
			Name:        a.Name,
			Description: a.Description,
			Price:       a.Price,
			IsMandatory: a.IsMandatory,
			IsActive:    true,
		})
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if req.CategoryID != "" {
			id, err := parseID(req.CategoryID, "category")
			if err != nil {
				return err
			}
			if _, err := s.catalogRepo.FindCategoryByID(txCtx, id); err != nil {
				return storeError(err, apperror.KindNotFound, "category")
			}
			item.CategoryID = &id
		} else {
			id, err := parseID(req.SubcategoryID, "subcategory")
			if err != nil {
				return err
			}
			if _, err := s.catalogRepo.FindSubcategoryByID(txCtx, id); err != nil {
				return storeError(err, apperror.KindNotFound, "subcategory")
			}
			item.SubcategoryID = &id
		}

		if err := s.catalogRepo.CreateItem(txCtx, &item); err != nil {
			return apperror.Transient(err, "failed to create item")
		}
		return writeAudit(txCtx, s.auditRepo, model.ActionCreateItem, item.ID.String(), item.Name, map[string]any{
			"pricing_kind": item.PricingKind,
			"is_bookable":  item.IsBookable,
			"addons":       len(item.Addons),
		})
	})
	if err != nil {
		return ItemResponse{}, err
	}
	return toItemResponse(&item), nil
}

func (s *catalogService) GetItem(ctx context.Context, id string) (ItemResponse, error) {
	itemID, err := parseID(id, "item")
	if err != nil {
		return ItemResponse{}, err
	}
	item, err := s.catalogRepo.FindItemWithAncestors(ctx, itemID)
	if err != nil {
		return ItemResponse{}, storeError(err, apperror.KindItemNotFound, "item")
	}

	res := toItemResponse(item)
	subcategory, category := item.TaxAncestors()
	tax := pricing.ResolveTax(item.TaxOverride(), subcategory, category)
	res.EffectiveTax = &EffectiveTax{
		Applicable: tax.Applicable,
		Percentage: money(tax.Percentage),
		Source:     string(tax.Source),
	}
	return res, nil
}

// UpdateItem applies a partial update. Pricing, availability and tax settings
// are validated against the merged result, so a new pricing_kind must come
// with a config that fits it. Bookings already admitted keep their snapshot.
func (s *catalogService) UpdateItem(ctx context.Context, id string, req UpdateItemRequest) (ItemResponse, error) {
	itemID, err := parseID(id, "item")
	if err != nil {
		return ItemResponse{}, err
	}
	if req.CategoryID != nil && req.SubcategoryID != nil {
		return ItemResponse{}, apperror.New(apperror.KindInvalidInput, "item must belong to exactly one of category or subcategory")
	}
	if err := requireName(req.Name); err != nil {
		return ItemResponse{}, err
	}
	if req.InheritTax && (req.TaxApplicable != nil || req.TaxPercentage != nil) {
		return ItemResponse{}, apperror.New(apperror.KindInvalidInput, "inherit_tax cannot be combined with tax_applicable or tax_percentage")
	}

	var changed []string
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		item, err := s.catalogRepo.FindItemByID(txCtx, itemID)
		if err != nil {
			return storeError(err, apperror.KindItemNotFound, "item")
		}

		if req.CategoryID != nil {
			parentID, err := parseID(*req.CategoryID, "category")
			if err != nil {
				return err
			}
			if _, err := s.catalogRepo.FindCategoryByID(txCtx, parentID); err != nil {
				return storeError(err, apperror.KindNotFound, "category")
			}
			item.CategoryID, item.SubcategoryID = &parentID, nil
			changed = append(changed, "category_id")
		}
		if req.SubcategoryID != nil {
			parentID, err := parseID(*req.SubcategoryID, "subcategory")
			if err != nil {
				return err
			}
			if _, err := s.catalogRepo.FindSubcategoryByID(txCtx, parentID); err != nil {
				return storeError(err, apperror.KindNotFound, "subcategory")
			}
			item.CategoryID, item.SubcategoryID = nil, &parentID
			changed = append(changed, "subcategory_id")
		}

		if req.PricingKind != nil || len(req.PricingConfig) > 0 {
			if req.PricingKind != nil {
				item.PricingKind = pricing.Kind(*req.PricingKind)
				changed = append(changed, "pricing_kind")
			}
			if len(req.PricingConfig) > 0 {
				item.PricingConfig = pricingJSON(req.PricingConfig)
				changed = append(changed, "pricing_config")
			}
			if _, err := item.Pricing(); err != nil {
				return err
			}
		}
		if len(req.AvailabilityConfig) > 0 {
			if _, err := availability.ParseConfig(req.AvailabilityConfig); err != nil {
				return err
			}
			item.AvailabilityConfig = availabilityJSON(req.AvailabilityConfig)
			changed = append(changed, "availability_config")
		}

		switch {
		case req.InheritTax:
			item.TaxApplicable, item.TaxPercentage = nil, nil
			changed = append(changed, "tax")
		case req.TaxApplicable != nil || req.TaxPercentage != nil:
			tax := mergeTax(TaxOverrideRequest{TaxApplicable: item.TaxApplicable, TaxPercentage: item.TaxPercentage}, req.TaxOverrideRequest)
			if err := validateTax(tax); err != nil {
				return err
			}
			item.TaxApplicable, item.TaxPercentage = tax.TaxApplicable, tax.TaxPercentage
			changed = append(changed, "tax")
		}

		if req.Name != nil {
			item.Name = *req.Name
			changed = append(changed, "name")
		}
		if req.Description != nil {
			item.Description = *req.Description
			changed = append(changed, "description")
		}
		if req.IsBookable != nil {
			item.IsBookable = *req.IsBookable
			changed = append(changed, "is_bookable")
		}
		if req.IsActive != nil {
			item.IsActive = *req.IsActive
			changed = append(changed, "is_active")
		}

		if err := s.catalogRepo.UpdateItem(txCtx, item); err != nil {
			return apperror.Transient(err, "failed to update item")
		}
		return writeAudit(txCtx, s.auditRepo, model.ActionUpdateItem, item.ID.String(), item.Name, map[string]any{
			"fields": changed,
		})
	})
	if err != nil {
		return ItemResponse{}, err
	}
	return s.GetItem(ctx, id)
}

func pricingJSON(raw json.RawMessage) datatypes.JSON {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return datatypes.JSON("{}")
	}
	return datatypes.JSON(trimmed)
}

// availabilityJSON returns nil for an absent or null config, which means no
// restriction.
func availabilityJSON(raw json.RawMessage) datatypes.JSON {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	return datatypes.JSON(trimmed)
}

func (s *catalogService) ListItems(ctx context.Context, filter ItemListFilter, page pagination.Params) ([]ItemResponse, int64, error) {
	f := repository.ItemFilter{
		PricingKind: pricing.Kind(filter.PricingKind),
		IsActive:    filter.Active,
		Search:      filter.Search,
	}
	if filter.CategoryID != "" {
		id, err := parseID(filter.CategoryID, "category")
		if err != nil {
			return nil, 0, err
		}
		f.CategoryID = &id
	}
	if filter.SubcategoryID != "" {
		id, err := parseID(filter.SubcategoryID, "subcategory")
		if err != nil {
			return nil, 0, err
		}
		f.SubcategoryID = &id
	}
	if f.PricingKind != "" && !f.PricingKind.Valid() {
		return nil, 0, apperror.Newf(apperror.KindInvalidInput, "unknown pricing_kind %q, expected one of %v", filter.PricingKind, pricing.Kinds)
	}

	items, total, err := s.catalogRepo.ListItems(ctx, f, page.Offset, page.Limit)
	if err != nil {
		return nil, 0, apperror.Transient(err, "failed to list items")
	}
	res := make([]ItemResponse, 0, len(items))
	for i := range items {
		res = append(res, toItemResponse(&items[i]))
	}
	return res, total, nil
}

// DeactivateItem hides an item from pricing and booking. Items are never deleted.
func (s *catalogService) DeactivateItem(ctx context.Context, id string) (ItemResponse, error) {
	itemID, err := parseID(id, "item")
	if err != nil {
		return ItemResponse{}, err
	}

	var item *model.Item
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		found, err := s.catalogRepo.FindItemByID(txCtx, itemID)
		if err != nil {
			return storeError(err, apperror.KindItemNotFound, "item")
		}
		item = found
		if !item.IsActive {
			return nil
		}
		item.IsActive = false
		if err := s.catalogRepo.UpdateItem(txCtx, item); err != nil {
			return apperror.Transient(err, "failed to deactivate item")
		}
		return writeAudit(txCtx, s.auditRepo, model.ActionDeactivateItem, item.ID.String(), item.Name, nil)
	})
	if err != nil {
		return ItemResponse{}, err
	}
	return toItemResponse(item), nil
}

func percentString(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := money(*d)
	return &s
}

func idString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func toSubcategoryResponse(s *model.Subcategory) SubcategoryResponse {
	return SubcategoryResponse{
		ID:            s.ID.String(),
		CategoryID:    s.CategoryID.String(),
		Name:          s.Name,
		Description:   s.Description,
		TaxApplicable: s.TaxApplicable,
		TaxPercentage: percentString(s.TaxPercentage),
		IsActive:      s.IsActive,
	}
}

func toCategoryResponse(c *model.Category) CategoryResponse {
	res := CategoryResponse{
		ID:            c.ID.String(),
		Name:          c.Name,
		Description:   c.Description,
		TaxApplicable: c.TaxApplicable,
		TaxPercentage: percentString(c.TaxPercentage),
		IsActive:      c.IsActive,
		CreatedAt:     c.CreatedAt.Format(time.RFC3339),
	}
	for i := range c.Subcategories {
		res.Subcategories = append(res.Subcategories, toSubcategoryResponse(&c.Subcategories[i]))
	}
	return res
}

func toItemResponse(i *model.Item) ItemResponse {
	res := ItemResponse{
		ID:                 i.ID.String(),
		CategoryID:         idString(i.CategoryID),
		SubcategoryID:      idString(i.SubcategoryID),
		Name:               i.Name,
		Description:        i.Description,
		PricingKind:        string(i.PricingKind),
		PricingConfig:      json.RawMessage(i.PricingConfig),
		TaxApplicable:      i.TaxApplicable,
		TaxPercentage:      percentString(i.TaxPercentage),
		IsBookable:         i.IsBookable,
		AvailabilityConfig: json.RawMessage(i.AvailabilityConfig),
		IsActive:           i.IsActive,
		Addons:             make([]AddonResponse, 0, len(i.Addons)),
		CreatedAt:          i.CreatedAt.Format(time.RFC3339),
	}
	for _, a := range i.Addons {
		if !a.IsActive {
			continue
		}
		res.Addons = append(res.Addons, AddonResponse{
			ID:          a.ID.String(),
			Name:        a.Name,
			Description: a.Description,
			Price:       money(a.Price),
			IsMandatory: a.IsMandatory,
		})
	}
	return res
}
