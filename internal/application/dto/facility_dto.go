package dto

import "time"

// CreateFacilityRequest entrada para crear un centro.
type CreateFacilityRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Code    string `json:"code" validate:"required,min=1,max=50"`
	Region  string `json:"region" validate:"max=100"`
	Address string `json:"address"`
}

// UpdateFacilityRequest entrada para actualizar un centro.
type UpdateFacilityRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=200"`
	Code    *string `json:"code" validate:"omitempty,min=1,max=50"`
	Region  *string `json:"region" validate:"omitempty,max=100"`
	Address *string `json:"address"`
}

// FacilityResponse salida de un centro.
type FacilityResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Region    string    `json:"region"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
