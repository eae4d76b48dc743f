package dto

import "time"

// CreateLocationRequest body para POST /api/locations.
type CreateLocationRequest struct {
	Name        string `json:"name"`
	Address     string `json:"address,omitempty"`
	Description string `json:"description,omitempty"`
}

// UpdateLocationRequest body para PUT /api/locations/:id.
type UpdateLocationRequest struct {
	Name        *string `json:"name,omitempty"`
	Address     *string `json:"address,omitempty"`
	Description *string `json:"description,omitempty"`
}

// LocationResponse representación de una bodega en la API.
type LocationResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Address     string    `json:"address,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryRequest body para crear/actualizar categorías.
type CategoryRequest struct {
	Name string `json:"name"`
}

// CategoryResponse representación de una categoría en la API.
type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
