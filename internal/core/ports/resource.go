package ports

import (
	"context"

	"github.com/crisisnet/disasterhub/internal/core/domain/resource"
	"github.com/google/uuid"
)

// ResourceRepository defines datastore operations for emergency resources.
type ResourceRepository interface {
	Create(ctx context.Context, r *resource.Resource) error
	GetByID(ctx context.Context, id uuid.UUID) (*resource.Resource, error)
	Update(ctx context.Context, r *resource.Resource) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter resource.Filter) ([]*resource.Resource, error)
	Count(ctx context.Context, filter resource.Filter) (int, error)
	Nearby(ctx context.Context, lat, lon, radiusKm float64) ([]*resource.Resource, error)
}

// ResourceService defines business logic for emergency resources.
type ResourceService interface {
	CreateResource(ctx context.Context, ownerID uuid.UUID, req *resource.CreateResourceRequest) (*resource.Resource, error)
	GetResource(ctx context.Context, id uuid.UUID) (*resource.Resource, error)
	UpdateResource(ctx context.Context, id, callerID uuid.UUID, req *resource.UpdateResourceRequest) (*resource.Resource, error)
	DeleteResource(ctx context.Context, id, callerID uuid.UUID) error
	ListResources(ctx context.Context, filter resource.Filter) ([]*resource.Resource, int, error)
	NearbyResources(ctx context.Context, lat, lon, radiusKm float64) ([]*resource.Resource, error)
}
