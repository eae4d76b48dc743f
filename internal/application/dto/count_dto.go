package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCountSessionRequest body para POST /api/counts.
// location_id vacío inicia un conteo de todas las bodegas.
type CreateCountSessionRequest struct {
	LocationID string `json:"location_id,omitempty"`
}

// RecordCountLineRequest body para POST /api/counts/:id/lines.
type RecordCountLineRequest struct {
	ProductID  string          `json:"product_id"`
	LocationID string          `json:"location_id"`
	Counted    decimal.Decimal `json:"counted"`
}

// CountLineDTO línea de conteo con su diferencia derivada.
type CountLineDTO struct {
	ProductID  string          `json:"product_id"`
	LocationID string          `json:"location_id"`
	Expected   decimal.Decimal `json:"expected"`
	Counted    decimal.Decimal `json:"counted"`
	Difference decimal.Decimal `json:"difference"`
}

// CountSessionResponse representación de una sesión de conteo en la API.
type CountSessionResponse struct {
	ID          string         `json:"id"`
	LocationID  string         `json:"location_id,omitempty"`
	Status      string         `json:"status"`
	Synced      bool           `json:"synced"`
	CreatedBy   string         `json:"created_by"`
	CreatedAt   time.Time      `json:"created_at"`
	ConcludedAt *time.Time     `json:"concluded_at,omitempty"`
	AppliedAt   *time.Time     `json:"applied_at,omitempty"`
	AppliedBy   string         `json:"applied_by,omitempty"`
	Lines       []CountLineDTO `json:"lines"`
}

// OfflineCountLineRequest línea de una sesión capturada sin conexión.
type OfflineCountLineRequest struct {
	ProductID  string          `json:"product_id"`
	LocationID string          `json:"location_id"`
	Expected   decimal.Decimal `json:"expected"`
	Counted    decimal.Decimal `json:"counted"`
}

// OfflineCountSessionRequest body para POST /api/counts/offline: una sesión
// completa capturada en el dispositivo sin conexión. El ID lo genera el
// dispositivo para que los reintentos de subida sean detectables como duplicados.
type OfflineCountSessionRequest struct {
	ID         string                    `json:"id"`
	LocationID string                    `json:"location_id,omitempty"`
	CreatedAt  time.Time                 `json:"created_at"`
	Lines      []OfflineCountLineRequest `json:"lines"`
}

// SyncResultDTO resultado de drenar la cola offline.
type SyncResultDTO struct {
	Uploaded   int `json:"uploaded"`
	Duplicates int `json:"duplicates"`
}

// AdjustmentPreviewDTO fila del reporte de conteo para revisión previa a aplicar.
// Forma tabular serializable: la consumen la UI y los exportadores externos.
type AdjustmentPreviewDTO struct {
	ProductID    string          `json:"product_id"`
	SKU          string          `json:"sku"`
	ProductName  string          `json:"product_name"`
	LocationID   string          `json:"location_id"`
	LocationName string          `json:"location_name"`
	Expected     decimal.Decimal `json:"expected"`
	Counted      decimal.Decimal `json:"counted"`
	Difference   decimal.Decimal `json:"difference"`
}
