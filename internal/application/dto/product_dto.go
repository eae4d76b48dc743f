package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	CategoryID  string          `json:"category_id,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
	MinStock    decimal.Decimal `json:"min_stock"`
}

// UpdateProductRequest body para PUT /api/products/:id. Campos nil no se modifican.
type UpdateProductRequest struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	CategoryID  *string          `json:"category_id,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Cost        *decimal.Decimal `json:"cost,omitempty"`
	MinStock    *decimal.Decimal `json:"min_stock,omitempty"`
}

// StockByLocationDTO cantidad de un producto en una bodega.
type StockByLocationDTO struct {
	LocationID string          `json:"location_id"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// ProductResponse representación de un producto en la API.
// TotalStock es derivado: suma de las cantidades por bodega.
type ProductResponse struct {
	ID          string               `json:"id"`
	SKU         string               `json:"sku"`
	Name        string               `json:"name"`
	Description string               `json:"description,omitempty"`
	CategoryID  string               `json:"category_id,omitempty"`
	Price       decimal.Decimal      `json:"price"`
	Cost        decimal.Decimal      `json:"cost"`
	MinStock    decimal.Decimal      `json:"min_stock"`
	IsActive    bool                 `json:"is_active"`
	Locations   []StockByLocationDTO `json:"locations,omitempty"`
	TotalStock  decimal.Decimal      `json:"total_stock"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// ProductListResponse respuesta paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
