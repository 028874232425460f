package inventory

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/greenloop/greenloop/internal/entities"
)

// Controller serves the inventory endpoints. All routes sit behind the
// session middleware: collaborators only.
type Controller struct {
	repo *Repository
}

// NewController creates an inventory controller.
func NewController(repo *Repository) *Controller {
	return &Controller{repo: repo}
}

// RegisterRoutes registers the inventory endpoints on the given group.
func (ic *Controller) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/categories", ic.GetCategories)
	group.GET("/categories/:slug/items", ic.GetItems)
	group.POST("/categories/:slug/items", ic.CreateItem)
	group.PUT("/items/:id/route", ic.SetRoute)
	group.PUT("/items/:id/processed", ic.MarkProcessed)
}

// GetCategories lists all categories with pending item counts.
func (ic *Controller) GetCategories(c *gin.Context) {
	categories, err := ic.repo.GetCategories()
	if err != nil {
		ic.serverError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"categories": categories,
	})
}

// GetItems lists a category's items, optionally filtered by condition,
// route, and processed state.
func (ic *Controller) GetItems(c *gin.Context) {
	category, err := ic.repo.GetCategoryBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			ic.notFound(c, "Category not found")
			return
		}
		ic.serverError(c)
		return
	}

	var filter ItemFilter
	if condition := c.Query("condition"); condition != "" {
		filter.Condition = entities.ItemCondition(condition)
		if !ValidCondition(filter.Condition) {
			ic.badRequest(c, "Unknown condition")
			return
		}
	}
	if route := c.Query("route"); route != "" {
		filter.Route = entities.ItemRoute(route)
		if !ValidRoute(filter.Route) {
			ic.badRequest(c, "Unknown route")
			return
		}
	}
	if processed := c.Query("processed"); processed != "" {
		value, err := strconv.ParseBool(processed)
		if err != nil {
			ic.badRequest(c, "Invalid processed flag")
			return
		}
		filter.Processed = &value
	}

	items, err := ic.repo.GetItems(category.ID, filter)
	if err != nil {
		ic.serverError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"category": category,
		"items":    items,
	})
}

type createItemRequest struct {
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Condition string `json:"condition"`
	Route     string `json:"route"`
}

// CreateItem records a newly received item in a category.
func (ic *Controller) CreateItem(c *gin.Context) {
	category, err := ic.repo.GetCategoryBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			ic.notFound(c, "Category not found")
			return
		}
		ic.serverError(c)
		return
	}

	var req createItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ic.badRequest(c, "Invalid request body")
		return
	}
	if req.Name == "" {
		ic.badRequest(c, "Item name is required")
		return
	}

	item := &entities.Item{
		CategoryID: category.ID,
		SKU:        req.SKU,
		Name:       req.Name,
		Condition:  entities.ItemCondition(req.Condition),
		Route:      entities.ItemRoute(req.Route),
	}

	if err := ic.repo.CreateItem(item); err != nil {
		switch {
		case errors.Is(err, ErrInvalidCondition):
			ic.badRequest(c, "Unknown condition")
		case errors.Is(err, ErrInvalidRoute):
			ic.badRequest(c, "Unknown route")
		default:
			ic.serverError(c)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"item":    item,
	})
}

type setRouteRequest struct {
	Route string `json:"route"`
}

// SetRoute assigns a disposition route to an item.
func (ic *Controller) SetRoute(c *gin.Context) {
	id, ok := ic.itemID(c)
	if !ok {
		return
	}

	var req setRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ic.badRequest(c, "Invalid request body")
		return
	}

	item, err := ic.repo.SetItemRoute(id, entities.ItemRoute(req.Route))
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidRoute):
			ic.badRequest(c, "Unknown route")
		case errors.Is(err, ErrItemNotFound):
			ic.notFound(c, "Item not found")
		default:
			ic.serverError(c)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"item":    item,
	})
}

// MarkProcessed flags an item as done with its disposition.
func (ic *Controller) MarkProcessed(c *gin.Context) {
	id, ok := ic.itemID(c)
	if !ok {
		return
	}

	item, err := ic.repo.MarkItemProcessed(id)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			ic.notFound(c, "Item not found")
			return
		}
		ic.serverError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"item":    item,
	})
}

func (ic *Controller) itemID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		ic.badRequest(c, "Invalid item id")
		return 0, false
	}
	return uint(id), true
}

func (ic *Controller) badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": message})
}

func (ic *Controller) notFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, gin.H{"success": false, "message": message})
}

func (ic *Controller) serverError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
}
