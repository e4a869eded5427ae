package ports

import (
	"context"

	"github.com/crisisnet/disasterhub/internal/core/domain/disaster"
	"github.com/crisisnet/disasterhub/internal/core/domain/feed"
	"github.com/google/uuid"
)

// DisasterRepository defines datastore operations for disaster records.
type DisasterRepository interface {
	Create(ctx context.Context, d *disaster.Disaster) error
	GetByID(ctx context.Context, id uuid.UUID) (*disaster.Disaster, error)
	Update(ctx context.Context, d *disaster.Disaster) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter disaster.Filter) ([]*disaster.Disaster, error)
	Count(ctx context.Context, filter disaster.Filter) (int, error)
	// Nearby returns disasters within radiusKm of the point. The geospatial
	// match is delegated to the datastore as an opaque capability.
	Nearby(ctx context.Context, lat, lon, radiusKm float64) ([]*disaster.Disaster, error)
}

// DisasterService defines business logic for disaster records.
type DisasterService interface {
	CreateDisaster(ctx context.Context, ownerID uuid.UUID, req *disaster.CreateDisasterRequest) (*disaster.Disaster, error)
	GetDisaster(ctx context.Context, id uuid.UUID) (*disaster.Disaster, error)
	UpdateDisaster(ctx context.Context, id, callerID uuid.UUID, req *disaster.UpdateDisasterRequest) (*disaster.Disaster, error)
	DeleteDisaster(ctx context.Context, id, callerID uuid.UUID) error
	ListDisasters(ctx context.Context, filter disaster.Filter) ([]*disaster.Disaster, int, error)
	NearbyDisasters(ctx context.Context, lat, lon, radiusKm float64) ([]*disaster.Disaster, error)
	// SocialPosts returns cached social-feed chatter about the disaster.
	SocialPosts(ctx context.Context, id uuid.UUID) ([]feed.SocialPost, error)
}
