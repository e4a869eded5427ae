package report

import (
	"time"

	"github.com/google/uuid"
)

// Report is a citizen-submitted, social-media-style observation tied to a
// disaster. Reports start unverified; the verify operation attaches an AI
// assessment of the text and any image.
type Report struct {
	ID           uuid.UUID     `json:"id" db:"id"`
	DisasterID   *uuid.UUID    `json:"disaster_id,omitempty" db:"disaster_id"`
	AuthorID     uuid.UUID     `json:"author_id" db:"author_id"`
	Content      string        `json:"content" db:"content"`
	ImageURL     string        `json:"image_url" db:"image_url"`
	LocationName string        `json:"location_name" db:"location_name"`
	Latitude     float64       `json:"latitude" db:"latitude"`
	Longitude    float64       `json:"longitude" db:"longitude"`
	Verified     bool          `json:"verified" db:"verified"`
	Verification *Verification `json:"verification,omitempty" db:"verification"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at" db:"updated_at"`
}

// Verification is the outcome of a post-verification pass.
type Verification struct {
	Credible   bool      `json:"credible"`
	Score      float64   `json:"score"`
	Summary    string    `json:"summary"`
	Image      *ImageCheck `json:"image,omitempty"`
	VerifiedAt time.Time `json:"verified_at"`
}

// ImageCheck is the outcome of image-manipulation analysis.
type ImageCheck struct {
	Manipulated bool    `json:"manipulated"`
	Confidence  float64 `json:"confidence"`
	Details     string  `json:"details"`
}

type Filter struct {
	DisasterID *uuid.UUID
	AuthorID   *uuid.UUID
	Verified   *bool
	Limit      int
	Offset     int
}

type CreateReportRequest struct {
	DisasterID   *uuid.UUID `json:"disaster_id,omitempty"`
	Content      string     `json:"content" validate:"required"`
	ImageURL     string     `json:"image_url" validate:"omitempty,url"`
	LocationName string     `json:"location_name"`
	Latitude     *float64   `json:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude    *float64   `json:"longitude" validate:"omitempty,min=-180,max=180"`
}

type UpdateReportRequest struct {
	Content      *string  `json:"content,omitempty"`
	ImageURL     *string  `json:"image_url,omitempty" validate:"omitempty,url"`
	LocationName *string  `json:"location_name,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty" validate:"omitempty,min=-90,max=90"`
	Longitude    *float64 `json:"longitude,omitempty" validate:"omitempty,min=-180,max=180"`
}
