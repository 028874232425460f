package inventory

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/greenloop/greenloop/internal/entities"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrItemNotFound     = errors.New("item not found")
	ErrInvalidRoute     = errors.New("invalid route")
	ErrInvalidCondition = errors.New("invalid condition")
)

// CategorySummary is a category with its unprocessed item count.
type CategorySummary struct {
	entities.Category
	PendingItems int64 `json:"pending_items"`
}

// ItemFilter narrows an item listing. Zero values mean "no filter".
type ItemFilter struct {
	Condition entities.ItemCondition
	Route     entities.ItemRoute
	Processed *bool
}

// Repository handles inventory database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new inventory repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetCategories lists all categories with their pending item counts.
func (r *Repository) GetCategories() ([]CategorySummary, error) {
	var categories []entities.Category
	if err := r.db.Order("slug").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	summaries := make([]CategorySummary, 0, len(categories))
	for _, category := range categories {
		var pending int64
		err := r.db.Model(&entities.Item{}).
			Where("category_id = ? AND processed = ?", category.ID, false).
			Count(&pending).Error
		if err != nil {
			return nil, fmt.Errorf("failed to count items for %s: %w", category.Slug, err)
		}
		summaries = append(summaries, CategorySummary{Category: category, PendingItems: pending})
	}

	return summaries, nil
}

// GetCategoryBySlug resolves a category by its API identifier.
func (r *Repository) GetCategoryBySlug(slug string) (*entities.Category, error) {
	var category entities.Category
	err := r.db.Where("slug = ?", slug).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

// GetItems lists a category's items, newest first, narrowed by the filter.
func (r *Repository) GetItems(categoryID uint, filter ItemFilter) ([]entities.Item, error) {
	query := r.db.Where("category_id = ?", categoryID)

	if filter.Condition != "" {
		query = query.Where("condition = ?", filter.Condition)
	}
	if filter.Route != "" {
		query = query.Where("route = ?", filter.Route)
	}
	if filter.Processed != nil {
		query = query.Where("processed = ?", *filter.Processed)
	}

	var items []entities.Item
	err := query.Order("created_at DESC").Find(&items).Error
	return items, err
}

// CreateItem records a newly received item.
func (r *Repository) CreateItem(item *entities.Item) error {
	if !ValidCondition(item.Condition) {
		return ErrInvalidCondition
	}
	if item.Route != "" && !ValidRoute(item.Route) {
		return ErrInvalidRoute
	}
	return r.db.Create(item).Error
}

// GetItemByID retrieves a single item.
func (r *Repository) GetItemByID(id uint) (*entities.Item, error) {
	var item entities.Item
	err := r.db.First(&item, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

// SetItemRoute assigns a disposition route to an item.
func (r *Repository) SetItemRoute(id uint, route entities.ItemRoute) (*entities.Item, error) {
	if !ValidRoute(route) {
		return nil, ErrInvalidRoute
	}

	item, err := r.GetItemByID(id)
	if err != nil {
		return nil, err
	}

	if err := r.db.Model(item).Update("route", route).Error; err != nil {
		return nil, fmt.Errorf("failed to set route: %w", err)
	}
	return item, nil
}

// MarkItemProcessed flags an item as done with its disposition.
func (r *Repository) MarkItemProcessed(id uint) (*entities.Item, error) {
	item, err := r.GetItemByID(id)
	if err != nil {
		return nil, err
	}

	if err := r.db.Model(item).Update("processed", true).Error; err != nil {
		return nil, fmt.Errorf("failed to mark processed: %w", err)
	}
	return item, nil
}

// ValidCondition reports whether the condition is one of the known values.
func ValidCondition(c entities.ItemCondition) bool {
	switch c {
	case entities.ConditionGood, entities.ConditionModerate, entities.ConditionDamaged:
		return true
	}
	return false
}

// ValidRoute reports whether the route is one of the known dispositions.
func ValidRoute(r entities.ItemRoute) bool {
	switch r {
	case entities.RouteResale, entities.RouteRefurbish, entities.RouteDonate, entities.RouteRecycle:
		return true
	}
	return false
}
