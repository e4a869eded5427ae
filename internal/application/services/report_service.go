package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/crisisnet/disasterhub/internal/core/domain/apperror"
	"github.com/crisisnet/disasterhub/internal/core/domain/report"
	"github.com/crisisnet/disasterhub/internal/core/ports"
)

type ReportService struct {
	repo     ports.ReportRepository
	verifier ports.Verifier
	cache    ports.CacheService
	ttl      time.Duration
	events   ports.EventPublisher
	logger   *logrus.Logger
}

func NewReportService(repo ports.ReportRepository, verifier ports.Verifier, cache ports.CacheService, ttl time.Duration, events ports.EventPublisher, logger *logrus.Logger) ports.ReportService {
	return &ReportService{
		repo:     repo,
		verifier: verifier,
		cache:    cache,
		ttl:      ttl,
		events:   events,
		logger:   logger,
	}
}

func (s *ReportService) CreateReport(ctx context.Context, authorID uuid.UUID, req *report.CreateReportRequest) (*report.Report, error) {
	r := &report.Report{
		ID:           uuid.New(),
		DisasterID:   req.DisasterID,
		AuthorID:     authorID,
		Content:      req.Content,
		ImageURL:     req.ImageURL,
		LocationName: req.LocationName,
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
			s.logger.WithField("author_id", authorID).WithError(err).Error("failed to create report")
		}
		return nil, fmt.Errorf("failed to create report: %w", err)
	}
	s.publish(ports.ChangeCreated, r)
	return r, nil
}

func (s *ReportService) GetReport(ctx context.Context, id uuid.UUID) (*report.Report, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ReportService) UpdateReport(ctx context.Context, id, callerID uuid.UUID, req *report.UpdateReportRequest) (*report.Report, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.AuthorID != callerID {
		return nil, apperror.Forbidden("only the author may modify this report")
	}

	if req.Content != nil {
		r.Content = *req.Content
	}
	if req.ImageURL != nil {
		r.ImageURL = *req.ImageURL
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
	// Edited content invalidates any earlier verification verdict.
	r.Verified = false
	r.Verification = nil
	r.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to update report: %w", err)
	}
	s.publish(ports.ChangeUpdated, r)
	return r, nil
}

func (s *ReportService) DeleteReport(ctx context.Context, id, callerID uuid.UUID) error {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if r.AuthorID != callerID {
		return apperror.Forbidden("only the author may delete this report")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	s.publish(ports.ChangeDeleted, r)
	return nil
}

func (s *ReportService) ListReports(ctx context.Context, filter report.Filter) ([]*report.Report, int, error) {
	reports, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	count, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return reports, count, nil
}

// VerifyReport runs the credibility check through the cache so repeated
// verifications of identical content within the TTL reuse one upstream call.
// The cache key covers both the text and the image URL.
func (s *ReportService) VerifyReport(ctx context.Context, id uuid.UUID) (*report.Report, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := CacheKey("verify", r.Content+"\x00"+r.ImageURL)
	raw, err := s.cache.GetOrCompute(ctx, key, s.ttl, func(ctx context.Context) (json.RawMessage, error) {
		verdict, prov, err := s.verifier.VerifyPost(ctx, r.Content, r.ImageURL)
		if err != nil {
			return nil, err
		}
		ObserveAdapterResult("verifier", string(prov))
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"report_id": r.ID, "provenance": prov, "credible": verdict.Credible}).Info("report verified")
		}
		return json.Marshal(verdict)
	})
	if err != nil {
		return nil, err
	}

	var verdict report.Verification
	if err := json.Unmarshal(raw, &verdict); err != nil {
		return nil, fmt.Errorf("decode cached verification: %w", err)
	}

	r.Verified = verdict.Credible
	r.Verification = &verdict
	r.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to store verification: %w", err)
	}
	s.publish(ports.ChangeUpdated, r)
	return r, nil
}

func (s *ReportService) publish(changeType string, r *report.Report) {
	if s.events == nil {
		return
	}
	s.events.Publish(ports.Event{
		Stream:  ports.StreamSocial,
		Name:    ports.EventSocialMediaUpdated,
		Type:    changeType,
		Payload: r,
	})
}
