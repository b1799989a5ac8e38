package storage

import (
	"context"
	"errors"

	"food-ordering-api/models"
	"food-ordering-api/pricing"
)

var (
	// ErrNotFound is returned when an id does not resolve to a live record.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a compare-and-swap status update loses.
	ErrConflict = errors.New("concurrent update conflict")
	// ErrDuplicateKey is returned when a unique constraint is violated.
	ErrDuplicateKey = errors.New("duplicate key")
)

// Stats is the admin dashboard aggregate.
type Stats struct {
	TotalRestaurants int64         `json:"total_restaurants"`
	TotalOrders      int64         `json:"total_orders"`
	TotalUsers       int64         `json:"total_users"`
	TotalRevenue     pricing.Cents `json:"total_revenue"`
}

// Store is the single persistence contract. Production runs it on a sqlite
// file; tests run the same implementation on an in-memory database.
type Store interface {
	// Users
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// Catalog
	ListRestaurants(ctx context.Context, category string) ([]models.Restaurant, error)
	ListAllRestaurants(ctx context.Context) ([]models.Restaurant, error)
	GetRestaurant(ctx context.Context, id uint) (*models.Restaurant, error)
	CreateRestaurant(ctx context.Context, r *models.Restaurant) error
	UpdateRestaurant(ctx context.Context, id uint, fields map[string]interface{}) (*models.Restaurant, error)
	DeactivateRestaurant(ctx context.Context, id uint) error
	ListMenuItems(ctx context.Context, restaurantID uint) ([]models.MenuItem, error)
	GetMenuItem(ctx context.Context, id uint) (*models.MenuItem, error)
	CreateMenuItem(ctx context.Context, item *models.MenuItem) error
	UpdateMenuItem(ctx context.Context, id uint, fields map[string]interface{}) (*models.MenuItem, error)

	// Orders
	CreateOrder(ctx context.Context, o *models.Order) error
	GetOrder(ctx context.Context, id uint) (*models.Order, error)
	FindOrderByIdempotencyKey(ctx context.Context, userID uint, key string) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID uint) ([]models.Order, error)
	ListOrders(ctx context.Context, status string) ([]models.Order, error)
	TransitionStatus(ctx context.Context, orderID uint, from, to models.OrderStatus, changedBy uint, note string) error
	ForceStatus(ctx context.Context, orderID uint, to models.OrderStatus, changedBy uint, note string) error
	SetPaymentIntent(ctx context.Context, orderID uint, intentID string) error
	SetPaymentStatus(ctx context.Context, orderID uint, status models.PaymentStatus) error
	Stats(ctx context.Context) (*Stats, error)
}
