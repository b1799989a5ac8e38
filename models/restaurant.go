package models

import (
	"time"

	"food-ordering-api/pricing"
)

type Restaurant struct {
	ID           uint          `json:"id" gorm:"primaryKey"`
	Name         string        `json:"name" gorm:"not null"`
	Description  string        `json:"description"`
	Cuisine      string        `json:"cuisine" gorm:"not null"`
	Image        string        `json:"image"`
	Rating       float64       `json:"rating" gorm:"default:0"`
	DeliveryTime string        `json:"delivery_time"`
	DeliveryFee  pricing.Cents `json:"delivery_fee" gorm:"not null"`
	// Restaurants are soft-deactivated, never deleted: past orders keep
	// referencing them.
	IsActive  bool       `json:"is_active" gorm:"default:true"`
	MenuItems []MenuItem `json:"menu_items,omitempty" gorm:"foreignKey:RestaurantID"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type MenuItem struct {
	ID           uint          `json:"id" gorm:"primaryKey"`
	RestaurantID uint          `json:"restaurant_id" gorm:"not null;index"`
	Name         string        `json:"name" gorm:"not null"`
	Description  string        `json:"description"`
	Price        pricing.Cents `json:"price" gorm:"not null"`
	Image        string        `json:"image"`
	Category     string        `json:"category"`
	IsAvailable  bool          `json:"is_available" gorm:"default:true"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}
