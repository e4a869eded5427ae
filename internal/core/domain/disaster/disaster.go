package disaster

import (
	"time"

	"github.com/google/uuid"
)

type Disaster struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Title        string    `json:"title" db:"title"`
	Description  string    `json:"description" db:"description"`
	Type         Type      `json:"type" db:"type"`
	Severity     Severity  `json:"severity" db:"severity"`
	Status       Status    `json:"status" db:"status"`
	LocationName string    `json:"location_name" db:"location_name"`
	Latitude     float64   `json:"latitude" db:"latitude"`
	Longitude    float64   `json:"longitude" db:"longitude"`
	RadiusKm     float64   `json:"radius_km" db:"radius_km"`
	OwnerID      uuid.UUID `json:"owner_id" db:"owner_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

type Type string

const (
	TypeEarthquake Type = "earthquake"
	TypeFlood      Type = "flood"
	TypeWildfire   Type = "wildfire"
	TypeHurricane  Type = "hurricane"
	TypeTornado    Type = "tornado"
	TypeOther      Type = "other"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusContained Status = "contained"
	StatusResolved  Status = "resolved"
)

// Filter narrows List queries. Zero values mean "no constraint".
type Filter struct {
	Type     Type
	Severity Severity
	Status   Status
	Limit    int
	Offset   int
}

type CreateDisasterRequest struct {
	Title        string   `json:"title" validate:"required"`
	Description  string   `json:"description"`
	Type         Type     `json:"type" validate:"required,oneof=earthquake flood wildfire hurricane tornado other"`
	Severity     Severity `json:"severity" validate:"required,oneof=low medium high critical"`
	LocationName string   `json:"location_name"`
	Latitude     *float64 `json:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude    *float64 `json:"longitude" validate:"omitempty,min=-180,max=180"`
	RadiusKm     float64  `json:"radius_km" validate:"omitempty,min=0"`
}

type UpdateDisasterRequest struct {
	Title        *string   `json:"title,omitempty"`
	Description  *string   `json:"description,omitempty"`
	Type         *Type     `json:"type,omitempty" validate:"omitempty,oneof=earthquake flood wildfire hurricane tornado other"`
	Severity     *Severity `json:"severity,omitempty" validate:"omitempty,oneof=low medium high critical"`
	Status       *Status   `json:"status,omitempty" validate:"omitempty,oneof=active contained resolved"`
	LocationName *string   `json:"location_name,omitempty"`
	Latitude     *float64  `json:"latitude,omitempty" validate:"omitempty,min=-90,max=90"`
	Longitude    *float64  `json:"longitude,omitempty" validate:"omitempty,min=-180,max=180"`
	RadiusKm     *float64  `json:"radius_km,omitempty" validate:"omitempty,min=0"`
}
