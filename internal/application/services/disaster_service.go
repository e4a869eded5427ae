package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/crisisnet/disasterhub/internal/core/domain/apperror"
	"github.com/crisisnet/disasterhub/internal/core/domain/disaster"
	"github.com/crisisnet/disasterhub/internal/core/domain/feed"
	"github.com/crisisnet/disasterhub/internal/core/ports"
)

type DisasterService struct {
	repo   ports.DisasterRepository
	feeds  ports.FeedService
	events ports.EventPublisher
	alerts ports.AlertService
	logger *logrus.Logger
}

func NewDisasterService(repo ports.DisasterRepository, feeds ports.FeedService, events ports.EventPublisher, alerts ports.AlertService, logger *logrus.Logger) ports.DisasterService {
	return &DisasterService{
		repo:   repo,
		feeds:  feeds,
		events: events,
		alerts: alerts,
		logger: logger,
	}
}

func (s *DisasterService) CreateDisaster(ctx context.Context, ownerID uuid.UUID, req *disaster.CreateDisasterRequest) (*disaster.Disaster, error) {
	d := &disaster.Disaster{
		ID:           uuid.New(),
		Title:        req.Title,
		Description:  req.Description,
		Type:         req.Type,
		Severity:     req.Severity,
		Status:       disaster.StatusActive,
		LocationName: req.LocationName,
		RadiusKm:     req.RadiusKm,
		OwnerID:      ownerID,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if req.Latitude != nil {
		d.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		d.Longitude = *req.Longitude
	}

	if err := s.repo.Create(ctx, d); err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"title": req.Title}).WithError(err).Error("failed to create disaster")
		}
		return nil, fmt.Errorf("failed to create disaster: %w", err)
	}
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"id": d.ID, "type": d.Type, "severity": d.Severity}).Info("disaster created")
	}

	s.publish(ports.ChangeCreated, d)
	if d.Severity == disaster.SeverityCritical && s.alerts != nil {
		// Fire-and-forget: alert failures never fail the create.
		if err := s.alerts.SendDisasterAlert(ctx, d); err != nil && s.logger != nil {
			s.logger.WithField("id", d.ID).WithError(err).Warn("disaster alert delivery failed")
		}
	}
	return d, nil
}

func (s *DisasterService) GetDisaster(ctx context.Context, id uuid.UUID) (*disaster.Disaster, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *DisasterService) UpdateDisaster(ctx context.Context, id, callerID uuid.UUID, req *disaster.UpdateDisasterRequest) (*disaster.Disaster, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.OwnerID != callerID {
		return nil, apperror.Forbidden("only the owner may modify this disaster")
	}

	applyDisasterUpdates(d, req)
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to update disaster: %w", err)
	}
	s.publish(ports.ChangeUpdated, d)
	return d, nil
}

func applyDisasterUpdates(d *disaster.Disaster, req *disaster.UpdateDisasterRequest) {
	if req.Title != nil {
		d.Title = *req.Title
	}
	if req.Description != nil {
		d.Description = *req.Description
	}
	if req.Type != nil {
		d.Type = *req.Type
	}
	if req.Severity != nil {
		d.Severity = *req.Severity
	}
	if req.Status != nil {
		d.Status = *req.Status
	}
	if req.LocationName != nil {
		d.LocationName = *req.LocationName
	}
	if req.Latitude != nil {
		d.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		d.Longitude = *req.Longitude
	}
	if req.RadiusKm != nil {
		d.RadiusKm = *req.RadiusKm
	}
	d.UpdatedAt = time.Now()
}

func (s *DisasterService) DeleteDisaster(ctx context.Context, id, callerID uuid.UUID) error {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if d.OwnerID != callerID {
		return apperror.Forbidden("only the owner may delete this disaster")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete disaster: %w", err)
	}
	s.publish(ports.ChangeDeleted, d)
	return nil
}

func (s *DisasterService) ListDisasters(ctx context.Context, filter disaster.Filter) ([]*disaster.Disaster, int, error) {
	disasters, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	count, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return disasters, count, nil
}

func (s *DisasterService) NearbyDisasters(ctx context.Context, lat, lon, radiusKm float64) ([]*disaster.Disaster, error) {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, apperror.Validation("coordinates out of range")
	}
	if radiusKm <= 0 {
		return nil, apperror.Validation("radius_km must be positive")
	}
	return s.repo.Nearby(ctx, lat, lon, radiusKm)
}

// SocialPosts looks up chatter about the disaster using its location name
// (falling back to the title) as the feed query.
func (s *DisasterService) SocialPosts(ctx context.Context, id uuid.UUID) ([]feed.SocialPost, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	query := d.LocationName
	if query == "" {
		query = d.Title
	}
	return s.feeds.SocialPosts(ctx, query)
}

func (s *DisasterService) publish(changeType string, d *disaster.Disaster) {
	if s.events == nil {
		return
	}
	s.events.Publish(ports.Event{
		Stream:  ports.StreamDisasters,
		Name:    ports.EventDisasterUpdated,
		Type:    changeType,
		Payload: d,
	})
}
