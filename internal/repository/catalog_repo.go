package repository

import (
	"context"

	"catalogbooking/internal/model"
	"catalogbooking/internal/pricing"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ItemFilter narrows item listings. Nil and empty fields are not applied.
type ItemFilter struct {
	CategoryID    *uuid.UUID
	SubcategoryID *uuid.UUID
	PricingKind   pricing.Kind
	IsActive      *bool
	Search        string
}

type CategoryFilter struct {
	IsActive *bool
	Search   string
}

type CatalogRepository interface {
	CreateCategory(ctx context.Context, category *model.Category) error
	UpdateCategory(ctx context.Context, category *model.Category) error
	FindCategoryByID(ctx context.Context, id uuid.UUID) (*model.Category, error)
	ListCategories(ctx context.Context, filter CategoryFilter, offset, limit int) ([]model.Category, int64, error)
	CreateSubcategory(ctx context.Context, subcategory *model.Subcategory) error
	FindSubcategoryByID(ctx context.Context, id uuid.UUID) (*model.Subcategory, error)

	CreateItem(ctx context.Context, item *model.Item) error
	UpdateItem(ctx context.Context, item *model.Item) error
	FindItemByID(ctx context.Context, id uuid.UUID) (*model.Item, error)
	// FindItemWithAncestors loads the item with its category chain and active addons.
	FindItemWithAncestors(ctx context.Context, id uuid.UUID) (*model.Item, error)
	ListItems(ctx context.Context, filter ItemFilter, offset, limit int) ([]model.Item, int64, error)
	FindActiveAddons(ctx context.Context, itemID uuid.UUID, ids []uuid.UUID) ([]model.Addon, error)
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) CreateCategory(ctx context.Context, category *model.Category) error {
	return GetDB(ctx, r.db).Create(category).Error
}

func (r *catalogRepository) UpdateCategory(ctx context.Context, category *model.Category) error {
	return GetDB(ctx, r.db).Omit("Subcategories").Save(category).Error
}

func (r *catalogRepository) FindCategoryByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	var category model.Category
	err := GetDB(ctx, r.db).
		Preload("Subcategories", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order("name asc")
		}).
		First(&category, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *catalogRepository) ListCategories(ctx context.Context, filter CategoryFilter, offset, limit int) ([]model.Category, int64, error) {
	var categories []model.Category
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Category{})
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	if filter.Search != "" {
		db = db.Where("name ILIKE ?", "%"+filter.Search+"%")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := db.Order("name asc").Offset(offset).Limit(limit).Find(&categories).Error; err != nil {
		return nil, 0, err
	}
	return categories, total, nil
}

func (r *catalogRepository) CreateSubcategory(ctx context.Context, subcategory *model.Subcategory) error {
	return GetDB(ctx, r.db).Create(subcategory).Error
}

func (r *catalogRepository) FindSubcategoryByID(ctx context.Context, id uuid.UUID) (*model.Subcategory, error) {
	var subcategory model.Subcategory
	if err := GetDB(ctx, r.db).Preload("Category").First(&subcategory, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &subcategory, nil
}

func (r *catalogRepository) CreateItem(ctx context.Context, item *model.Item) error {
	return GetDB(ctx, r.db).Omit("Category", "Subcategory").Create(item).Error
}

func (r *catalogRepository) UpdateItem(ctx context.Context, item *model.Item) error {
	return GetDB(ctx, r.db).Omit("Category", "Subcategory", "Addons").Save(item).Error
}

func (r *catalogRepository) FindItemByID(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	var item model.Item
	if err := GetDB(ctx, r.db).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *catalogRepository) FindItemWithAncestors(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	var item model.Item
	err := GetDB(ctx, r.db).
		Preload("Category").
		Preload("Subcategory.Category").
		Preload("Addons", "is_active = ?", true).
		First(&item, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *catalogRepository) ListItems(ctx context.Context, filter ItemFilter, offset, limit int) ([]model.Item, int64, error) {
	var items []model.Item
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Item{})
	if filter.CategoryID != nil {
		db = db.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.SubcategoryID != nil {
		db = db.Where("subcategory_id = ?", *filter.SubcategoryID)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	if filter.PricingKind != "" {
		db = db.Where("pricing_kind = ?", filter.PricingKind)
	}
	if filter.Search != "" {
		db = db.Where("name ILIKE ?", "%"+filter.Search+"%")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// FindActiveAddons returns the active addons of itemID among ids. Unknown or
// inactive ids are silently left out.
func (r *catalogRepository) FindActiveAddons(ctx context.Context, itemID uuid.UUID, ids []uuid.UUID) ([]model.Addon, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var addons []model.Addon
	err := GetDB(ctx, r.db).
		Where("item_id = ? AND id IN ? AND is_active = ?", itemID, ids, true).
		Order("name asc").
		Find(&addons).Error
	if err != nil {
		return nil, err
	}
	return addons, nil
}
