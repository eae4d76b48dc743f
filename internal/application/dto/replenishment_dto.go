package dto

import "github.com/shopspring/decimal"

// ReplenishmentSuggestionDTO representa una sugerencia de reposición para un SKU
// que se encuentra por debajo de su stock mínimo. Es la fila de la lista de compras.
type ReplenishmentSuggestionDTO struct {
	ProductID          string          `json:"product_id"`
	SKU                string          `json:"sku"`
	ProductName        string          `json:"product_name"`
	CurrentStock       decimal.Decimal `json:"current_stock"`
	MinStock           decimal.Decimal `json:"min_stock"`
	IdealStock         decimal.Decimal `json:"ideal_stock"`          // MinStock * 1.5
	SuggestedOrderQty  decimal.Decimal `json:"suggested_order_qty"`  // IdealStock - CurrentStock
	UnitCost           decimal.Decimal `json:"unit_cost"`
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"` // SuggestedOrderQty * UnitCost
	Priority           int             `json:"priority"`             // 1 = más urgente
}
