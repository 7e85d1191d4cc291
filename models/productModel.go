package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

var ProductCategories = []string{"shirt", "t-shirt", "pants", "jacket", "accessories", "shoes", "other"}

type Product struct {
	Base
	Name        string          `json:"name" gorm:"size:191;uniqueIndex;not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	Description string          `json:"description" gorm:"type:text;not null"`
	Images      string          `json:"images,omitempty"`
	Category    string          `json:"category" gorm:"size:32;index;not null"`
	Stock       int             `json:"stock" gorm:"not null;default:0"`
	Colors      datatypes.JSON  `json:"colors,omitempty"`
}

// ProductSummary is the part of a product shown inside cart and order lines.
type ProductSummary struct {
	ID     uint            `json:"id" gorm:"primaryKey"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
	Images string          `json:"images,omitempty"`
}

func (ProductSummary) TableName() string {
	return "products"
}

type CreateProductData struct {
	Name        string           `json:"name" binding:"required,min=3"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
	Description string           `json:"description" binding:"required,min=3"`
	Images      string           `json:"images"`
	Category    string           `json:"category" binding:"required,oneof=shirt t-shirt pants jacket accessories shoes other"`
	Stock       *int             `json:"stock" binding:"omitempty,min=0"`
	Colors      datatypes.JSON   `json:"colors"`
}

type UpdateProductData struct {
	Name        *string          `json:"name" binding:"omitempty,min=3"`
	Price       *decimal.Decimal `json:"price"`
	Description *string          `json:"description" binding:"omitempty,min=3"`
	Images      *string          `json:"images"`
	Category    *string          `json:"category" binding:"omitempty,oneof=shirt t-shirt pants jacket accessories shoes other"`
	Stock       *int             `json:"stock" binding:"omitempty,min=0"`
	Colors      datatypes.JSON   `json:"colors"`
}
