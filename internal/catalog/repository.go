package catalog

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/angelmondragon/boq-builder/internal/repo"
	"github.com/angelmondragon/boq-builder/pkg/db/models"
	"github.com/angelmondragon/boq-builder/pkg/pagination"
)

// Repository wires together all catalog persistence helpers.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: r.Bind(tx)}
}

func preloadDependencies(db *gorm.DB) *gorm.DB {
	return db.Preload("Dependencies", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
}

// FindItem loads an item with its dependencies in declaration order.
func (r *Repository) FindItem(ctx context.Context, id string) (*models.Item, error) {
	var item models.Item
	if err := preloadDependencies(r.DB(ctx)).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateItem inserts a new item row without its dependencies.
func (r *Repository) CreateItem(ctx context.Context, item *models.Item) (*models.Item, error) {
	if err := r.DB(ctx).Omit("Dependencies").Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItem saves every column of an existing item row.
func (r *Repository) UpdateItem(ctx context.Context, item *models.Item) (*models.Item, error) {
	if err := r.DB(ctx).Omit("Dependencies").Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// ReplaceDependencies replaces all declared dependencies of the item.
func (r *Repository) ReplaceDependencies(ctx context.Context, itemID string, deps []models.ItemDependency) error {
	tx := r.DB(ctx)
	if err := tx.Where("item_id = ?", itemID).Delete(&models.ItemDependency{}).Error; err != nil {
		return err
	}
	if len(deps) == 0 {
		return nil
	}
	for i := range deps {
		deps[i].ItemID = itemID
		deps[i].Position = i
	}
	return tx.Create(&deps).Error
}

// DeleteItem removes an item; its dependency rows cascade.
func (r *Repository) DeleteItem(ctx context.Context, id string) (int64, error) {
	tx := r.DB(ctx)
	if err := tx.Where("item_id = ?", id).Delete(&models.ItemDependency{}).Error; err != nil {
		return 0, err
	}
	res := tx.Where("id = ?", id).Delete(&models.Item{})
	return res.RowsAffected, res.Error
}

// AllItems returns the full catalog ordered by name.
func (r *Repository) AllItems(ctx context.Context) ([]models.Item, error) {
	var rows []models.Item
	err := preloadDependencies(r.DB(ctx)).
		Order("name ASC").
		Order("id ASC").
		Find(&rows).
		Error
	return rows, err
}

// ListItems pages through items ordered by (name, id).
func (r *Repository) ListItems(ctx context.Context, input ListItemsInput) ([]models.Item, string, error) {
	pageSize := pagination.NormalizeLimit(input.Pagination.Limit)

	cursor, err := pagination.ParseCursor(input.Pagination.Cursor)
	if err != nil {
		return nil, "", err
	}

	qb := preloadDependencies(r.DB(ctx)).Model(&models.Item{})

	filter := input.Filters
	if category := strings.TrimSpace(filter.Category); category != "" {
		qb = qb.Where("category = ?", category)
	}
	if tag := strings.TrimSpace(filter.Tag); tag != "" {
		// tags are stored as a JSON array of strings
		qb = qb.Where("tags LIKE ?", `%"`+escapeLike(tag)+`"%`)
	}
	if filter.PriceMin != nil {
		qb = qb.Where("unit_price >= ?", filter.PriceMin.InexactFloat64())
	}
	if filter.PriceMax != nil {
		qb = qb.Where("unit_price <= ?", filter.PriceMax.InexactFloat64())
	}
	if search := strings.TrimSpace(filter.Query); search != "" {
		pattern := "%" + strings.ToLower(escapeLike(search)) + "%"
		qb = qb.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)", pattern, pattern)
	}

	if cursor != nil {
		qb = qb.Where("(name > ?) OR (name = ? AND id > ?)", cursor.Key, cursor.Key, cursor.ID)
	}

	var rows []models.Item
	if err := qb.Order("name ASC").Order("id ASC").Limit(pageSize + 1).Find(&rows).Error; err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{Key: last.Name, ID: last.ID})
	}
	return rows, nextCursor, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer("%", "", "_", "").Replace(s)
}

// FindCategory loads a category by id.
func (r *Repository) FindCategory(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	if err := r.DB(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// FindCategoryByName loads a category by its unique name.
func (r *Repository) FindCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	var category models.Category
	if err := r.DB(ctx).First(&category, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// CreateCategory inserts a category row.
func (r *Repository) CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.DB(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// ListCategories returns every category ordered by name.
func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	err := r.DB(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}

// CountItemsInCategory counts items filed under the category name.
func (r *Repository) CountItemsInCategory(ctx context.Context, name string) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Item{}).Where("category = ?", name).Count(&count).Error
	return count, err
}

// DeleteCategory removes a category by id.
func (r *Repository) DeleteCategory(ctx context.Context, id string) error {
	return r.DB(ctx).Where("id = ?", id).Delete(&models.Category{}).Error
}
