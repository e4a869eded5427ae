package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/crisisnet/disasterhub/internal/core/domain/apperror"
	"github.com/crisisnet/disasterhub/internal/core/domain/resource"
	"github.com/crisisnet/disasterhub/internal/core/ports"
)

type ResourceService struct {
	repo   ports.ResourceRepository
	events ports.EventPublisher
	logger *logrus.Logger
}

func NewResourceService(repo ports.ResourceRepository, events ports.EventPublisher, logger *logrus.Logger) ports.ResourceService {
	return &ResourceService{
		repo:   repo,
		events: events,
		logger: logger,
	}
}

func (s *ResourceService) CreateResource(ctx context.Context, ownerID uuid.UUID, req *resource.CreateResourceRequest) (*resource.Resource, error) {
	r := &resource.Resource{
		ID:           uuid.New(),
		DisasterID:   req.DisasterID,
		Name:         req.Name,
		Type:         req.Type,
		Description:  req.Description,
		LocationName: req.LocationName,
		Capacity:     req.Capacity,
		Available:    req.Available,
		Contact:      req.Contact,
		OwnerID:      ownerID,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if req.Latitude != nil {
		r.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		r.Longitude = *req.Longitude
	}

	if err := s.repo.Create(ctx, r); err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"name": req.Name}).WithError(err).Error("failed to create resource")
		}
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	s.publish(ports.ChangeCreated, r)
	return r, nil
}

func (s *ResourceService) GetResource(ctx context.Context, id uuid.UUID) (*resource.Resource, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ResourceService) UpdateResource(ctx context.Context, id, callerID uuid.UUID, req *resource.UpdateResourceRequest) (*resource.Resource, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.OwnerID != callerID {
		return nil, apperror.Forbidden("only the owner may modify this resource")
	}

	if req.Name != nil {
		r.Name = *req.Name
	}
	if req.Type != nil {
		r.Type = *req.Type
	}
	if req.Description != nil {
		r.Description = *req.Description
	}
	if req.LocationName != nil {
		r.LocationName = *req.LocationName
	}
	if req.Latitude != nil {
		r.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		r.Longitude = *req.Longitude
	}
	if req.Capacity != nil {
		r.Capacity = *req.Capacity
	}
	if req.Available != nil {
		r.Available = *req.Available
	}
	if req.Contact != nil {
		r.Contact = *req.Contact
	}
	r.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to update resource: %w", err)
	}
	s.publish(ports.ChangeUpdated, r)
	return r, nil
}

func (s *ResourceService) DeleteResource(ctx context.Context, id, callerID uuid.UUID) error {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if r.OwnerID != callerID {
		return apperror.Forbidden("only the owner may delete this resource")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete resource: %w", err)
	}
	s.publish(ports.ChangeDeleted, r)
	return nil
}

func (s *ResourceService) ListResources(ctx context.Context, filter resource.Filter) ([]*resource.Resource, int, error) {
	resources, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	count, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return resources, count, nil
}

func (s *ResourceService) NearbyResources(ctx context.Context, lat, lon, radiusKm float64) ([]*resource.Resource, error) {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, apperror.Validation("coordinates out of range")
	}
	if radiusKm <= 0 {
		return nil, apperror.Validation("radius_km must be positive")
	}
	return s.repo.Nearby(ctx, lat, lon, radiusKm)
}

func (s *ResourceService) publish(changeType string, r *resource.Resource) {
	if s.events == nil {
		return
	}
	s.events.Publish(ports.Event{
		Stream:  ports.StreamResources,
		Name:    ports.EventResourcesUpdated,
		Type:    changeType,
		Payload: r,
	})
}
