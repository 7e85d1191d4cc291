package models

import "github.com/shopspring/decimal"

const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"

	PaymentStatusUnpaid = "unpaid"
	PaymentStatusPaid   = "paid"
)

type Order struct {
	Base
	OrderItems    []OrderItem     `json:"orderItems" gorm:"foreignKey:OrderID"`
	Total         decimal.Decimal `json:"total" gorm:"type:decimal(12,2);not null"`
	Status        string          `json:"status" gorm:"size:16;index;not null;default:pending"`
	PaymentStatus string          `json:"paymentStatus" gorm:"size:16;not null;default:unpaid"`
	UserID        uint            `json:"user" gorm:"index;not null"`
	FirstName     string          `json:"firstName" gorm:"not null"`
	LastName      string          `json:"lastName" gorm:"not null"`
	Phone         string          `json:"phone" gorm:"not null"`
	Email         string          `json:"email" gorm:"not null"`
	Address       string          `json:"address" gorm:"not null"`
}

// OrderItem is a price snapshot taken when the order was placed.
type OrderItem struct {
	Base
	OrderID   uint            `json:"orderId" gorm:"index;not null"`
	ProductID uint            `json:"productId" gorm:"index;not null"`
	Product   *ProductSummary `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Name      string          `json:"name" gorm:"not null"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	Total     decimal.Decimal `json:"total" gorm:"type:decimal(12,2);not null"`
}

type OrderLineData struct {
	Product  uint `json:"product" binding:"required"`
	Quantity int  `json:"quantity" binding:"required,min=1,max=10000"`
}

type CreateOrderData struct {
	FirstName string          `json:"firstName" binding:"required"`
	LastName  string          `json:"lastName" binding:"required"`
	Phone     string          `json:"phone" binding:"required"`
	Email     string          `json:"email" binding:"required,email"`
	Address   string          `json:"address" binding:"required"`
	CartItem  []OrderLineData `json:"cartItem" binding:"dive"`
}

type UpdateOrderData struct {
	Status        *string `json:"status" binding:"omitempty,oneof=pending processing shipped delivered cancelled"`
	PaymentStatus *string `json:"paymentStatus" binding:"omitempty,oneof=unpaid paid"`
	FirstName     *string `json:"firstName" binding:"omitempty,min=1"`
	LastName      *string `json:"lastName" binding:"omitempty,min=1"`
	Phone         *string `json:"phone" binding:"omitempty,min=1"`
	Email         *string `json:"email" binding:"omitempty,email"`
	Address       *string `json:"address" binding:"omitempty,min=1"`
}
