package ports

import (
	"context"

	"github.com/crisisnet/disasterhub/internal/core/domain/report"
	"github.com/google/uuid"
)

// ReportRepository defines datastore operations for citizen reports.
type ReportRepository interface {
	Create(ctx context.Context, r *report.Report) error
	GetByID(ctx context.Context, id uuid.UUID) (*report.Report, error)
	Update(ctx context.Context, r *report.Report) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter report.Filter) ([]*report.Report, error)
	Count(ctx context.Context, filter report.Filter) (int, error)
}

// ReportService defines business logic for citizen reports.
type ReportService interface {
	CreateReport(ctx context.Context, authorID uuid.UUID, req *report.CreateReportRequest) (*report.Report, error)
	GetReport(ctx context.Context, id uuid.UUID) (*report.Report, error)
	UpdateReport(ctx context.Context, id, callerID uuid.UUID, req *report.UpdateReportRequest) (*report.Report, error)
	DeleteReport(ctx context.Context, id, callerID uuid.UUID) error
	ListReports(ctx context.Context, filter report.Filter) ([]*report.Report, int, error)
	// VerifyReport runs the cached credibility check over the report's
	// content and image, persists the outcome and returns the updated report.
	VerifyReport(ctx context.Context, id uuid.UUID) (*report.Report, error)
}
