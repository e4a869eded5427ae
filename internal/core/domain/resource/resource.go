package resource

import (
	"time"

	"github.com/google/uuid"
)

// Resource is an emergency resource (shelter, medical point, supply depot)
// published by responders during a disaster.
type Resource struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	DisasterID   *uuid.UUID `json:"disaster_id,omitempty" db:"disaster_id"`
	Name         string     `json:"name" db:"name"`
	Type         Type       `json:"type" db:"type"`
	Description  string     `json:"description" db:"description"`
	LocationName string     `json:"location_name" db:"location_name"`
	Latitude     float64    `json:"latitude" db:"latitude"`
	Longitude    float64    `json:"longitude" db:"longitude"`
	Capacity     int        `json:"capacity" db:"capacity"`
	Available    bool       `json:"available" db:"available"`
	Contact      string     `json:"contact" db:"contact"`
	OwnerID      uuid.UUID  `json:"owner_id" db:"owner_id"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

type Type string

const (
	TypeShelter   Type = "shelter"
	TypeMedical   Type = "medical"
	TypeFood      Type = "food"
	TypeWater     Type = "water"
	TypeTransport Type = "transport"
)

type Filter struct {
	DisasterID *uuid.UUID
	Type       Type
	Available  *bool
	Limit      int
	Offset     int
}

type CreateResourceRequest struct {
	DisasterID   *uuid.UUID `json:"disaster_id,omitempty"`
	Name         string     `json:"name" validate:"required"`
	Type         Type       `json:"type" validate:"required,oneof=shelter medical food water transport"`
	Description  string     `json:"description"`
	LocationName string     `json:"location_name"`
	Latitude     *float64   `json:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude    *float64   `json:"longitude" validate:"omitempty,min=-180,max=180"`
	Capacity     int        `json:"capacity" validate:"omitempty,min=0"`
	Available    bool       `json:"available"`
	Contact      string     `json:"contact"`
}

type UpdateResourceRequest struct {
	Name         *string  `json:"name,omitempty"`
	Type         *Type    `json:"type,omitempty" validate:"omitempty,oneof=shelter medical food water transport"`
	Description  *string  `json:"description,omitempty"`
	LocationName *string  `json:"location_name,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty" validate:"omitempty,min=-90,max=90"`
	Longitude    *float64 `json:"longitude,omitempty" validate:"omitempty,min=-180,max=180"`
	Capacity     *int     `json:"capacity,omitempty" validate:"omitempty,min=0"`
	Available    *bool    `json:"available,omitempty"`
	Contact      *string  `json:"contact,omitempty"`
}
