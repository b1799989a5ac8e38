package models

import (
	"time"

	"food-ordering-api/pricing"
)

// OrderStatus represents all possible states of an order
type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusConfirmed      OrderStatus = "confirmed"
	StatusPreparing      OrderStatus = "preparing"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusCancelled      OrderStatus = "cancelled"
	StatusPaymentFailed  OrderStatus = "payment_failed"
)

type PaymentMethod string

const (
	PaymentCard           PaymentMethod = "card"
	PaymentWallet         PaymentMethod = "wallet"
	PaymentCashOnDelivery PaymentMethod = "cash_on_delivery"
)

// RequiresIntent reports whether the method needs an upfront gateway step.
func (m PaymentMethod) RequiresIntent() bool {
	return m == PaymentCard || m == PaymentWallet
}

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCard, PaymentWallet, PaymentCashOnDelivery:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

type Order struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	UserID       uint       `json:"user_id" gorm:"not null;index"`
	User         User       `json:"user,omitempty" gorm:"foreignKey:UserID"`
	RestaurantID uint       `json:"restaurant_id" gorm:"not null;index"`
	Restaurant   Restaurant `json:"restaurant,omitempty" gorm:"foreignKey:RestaurantID"`

	Status          OrderStatus   `json:"status" gorm:"not null;default:'pending'"`
	PaymentMethod   PaymentMethod `json:"payment_method" gorm:"not null"`
	PaymentStatus   PaymentStatus `json:"payment_status" gorm:"not null;default:'pending'"`
	PaymentIntentID string        `json:"payment_intent_id,omitempty"`

	// Money breakdown is frozen at creation. Only Status, PaymentStatus and
	// PaymentIntentID ever change afterwards.
	Subtotal    pricing.Cents `json:"subtotal" gorm:"not null"`
	DeliveryFee pricing.Cents `json:"delivery_fee" gorm:"not null"`
	Tax         pricing.Cents `json:"tax" gorm:"not null"`
	TotalAmount pricing.Cents `json:"total_amount" gorm:"not null"`

	DeliveryAddress string  `json:"delivery_address" gorm:"not null"`
	IdempotencyKey  *string `json:"-" gorm:"uniqueIndex"`

	Items         []OrderItem          `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	StatusHistory []OrderStatusHistory `json:"status_history,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

type OrderItem struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	OrderID    uint `json:"order_id" gorm:"not null;index"`
	MenuItemID uint `json:"menu_item_id" gorm:"not null"`
	Quantity   int  `json:"quantity" gorm:"not null;check:quantity > 0"`
	// Snapshots taken at order time; later menu edits never touch them.
	Price pricing.Cents `json:"price" gorm:"not null"`
	Name  string        `json:"name"`
}

// OrderStatusHistory tracks every status change, including admin overrides.
type OrderStatusHistory struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	OrderID    uint        `json:"order_id" gorm:"not null;index"`
	FromStatus OrderStatus `json:"from_status"`
	ToStatus   OrderStatus `json:"to_status" gorm:"not null"`
	ChangedBy  uint        `json:"changed_by"` // user ID who triggered the transition; 0 for system
	Note       string      `json:"note"`
	CreatedAt  time.Time   `json:"created_at"`
}
