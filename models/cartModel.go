package models

import "github.com/shopspring/decimal"

// MaxLineQuantity caps the quantity of a single cart or order line.
const MaxLineQuantity = 10000

type Cart struct {
	Base
	UserID uint            `json:"user" gorm:"uniqueIndex;not null"`
	Items  []CartItem      `json:"items" gorm:"foreignKey:CartID"`
	Total  decimal.Decimal `json:"total" gorm:"-"`
}

// CartItem.TotalPrice is Quantity times the product price at the last mutation.
type CartItem struct {
	Base
	CartID     uint            `json:"cartId" gorm:"index;not null"`
	ProductID  uint            `json:"productId" gorm:"index;not null"`
	Product    *ProductSummary `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Quantity   int             `json:"quantity" gorm:"not null"`
	TotalPrice decimal.Decimal `json:"totalPrice" gorm:"type:decimal(12,2);not null"`
}

func (c *Cart) ComputeTotal() {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.TotalPrice)
	}
	c.Total = total
}

type AddCartItemData struct {
	ProductID uint `json:"productId" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1,max=10000"`
}

type UpdateCartItemData struct {
	ProductID uint `json:"productId"`
	Quantity  int  `json:"quantity" binding:"required,min=1,max=10000"`
}
