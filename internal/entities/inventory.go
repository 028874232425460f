package entities

import "time"

// ItemCondition describes the assessed state of a returned item.
type ItemCondition string

const (
	ConditionGood     ItemCondition = "good"
	ConditionModerate ItemCondition = "moderate"
	ConditionDamaged  ItemCondition = "damaged"
)

// ItemRoute is the disposition assigned to a returned item.
type ItemRoute string

const (
	RouteResale    ItemRoute = "resale"
	RouteRefurbish ItemRoute = "refurbish"
	RouteDonate    ItemRoute = "donate"
	RouteRecycle   ItemRoute = "recycle"
)

// Category groups inventory items. The slug is the stable identifier used in
// API paths (e.g. "home-kitchen").
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Slug      string    `gorm:"uniqueIndex;size:64" json:"id"`
	Name      string    `gorm:"size:100" json:"name"`
	CreatedAt time.Time `json:"-"`
}

// Item is a returned inventory item tracked through its disposition route.
type Item struct {
	ID         uint          `gorm:"primaryKey" json:"id"`
	CategoryID uint          `gorm:"index" json:"-"`
	Category   Category      `gorm:"foreignKey:CategoryID" json:"-"`
	SKU        string        `gorm:"size:64" json:"sku"`
	Name       string        `gorm:"size:256" json:"name"`
	Condition  ItemCondition `gorm:"index;size:20" json:"condition"`
	Route      ItemRoute     `gorm:"index;size:20" json:"route"`
	Processed  bool          `gorm:"index" json:"processed"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}
