package domain

import "time"

// Resource es una publicación del marketplace: herramienta o equipo en
// alquiler, préstamo o venta.
type Resource struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"owner_id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	ListingType string    `json:"listing_type"`
	Condition   string    `json:"condition,omitempty"`
	AgeYears    int       `json:"age_years"`
	Quality     int       `json:"quality"`
	ImageURL    string    `json:"image_url,omitempty"`
	Location    string    `json:"location,omitempty"`
	IsAvailable bool      `json:"is_available"`
	Rating      float64   `json:"rating"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OwnerSummary son los datos de contacto del dueño expuestos en listados.
type OwnerSummary struct {
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
}

// Listing combina un recurso con el resumen de su dueño para el marketplace.
type Listing struct {
	Resource
	Owner OwnerSummary `json:"owner"`
}
