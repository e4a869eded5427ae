package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/crisisnet/disasterhub/internal/core/domain/apperror"
	"github.com/crisisnet/disasterhub/internal/core/domain/report"
	"github.com/crisisnet/disasterhub/internal/core/ports"
	"github.com/crisisnet/disasterhub/internal/infrastructure/db"
)

type reportRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

// NewReportRepository creates a Postgres-backed report repository.
func NewReportRepository(database *db.Database, logger *logrus.Logger) ports.ReportRepository {
	return &reportRepository{
		db:     database,
		logger: logger,
	}
}

const reportColumns = `id, disaster_id, author_id, content, image_url, location_name, latitude, longitude, verified, verification, created_at, updated_at`

func (r *reportRepository) Create(ctx context.Context, rep *report.Report) error {
	verification, err := marshalVerification(rep.Verification)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO reports (` + reportColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err = r.db.DB.ExecContext(ctx, query,
		rep.ID, rep.DisasterID, rep.AuthorID, rep.Content, rep.ImageURL,
		rep.LocationName, rep.Latitude, rep.Longitude, rep.Verified,
		verification, rep.CreatedAt, rep.UpdatedAt)
	if err != nil {
		return apperror.Storage("create report", err)
	}
	return nil
}

func (r *reportRepository) GetByID(ctx context.Context, id uuid.UUID) (*report.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id = $1`
	rep, err := scanReport(r.db.DB.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, apperror.NotFound(fmt.Sprintf("report %s not found", id))
	}
	if err != nil {
		return nil, apperror.Storage("get report", err)
	}
	return rep, nil
}

func (r *reportRepository) Update(ctx context.Context, rep *report.Report) error {
	verification, err := marshalVerification(rep.Verification)
	if err != nil {
		return err
	}
	query := `
		UPDATE reports
		SET content = $2, image_url = $3, location_name = $4, latitude = $5,
		    longitude = $6, verified = $7, verification = $8, updated_at = $9
		WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query,
		rep.ID, rep.Content, rep.ImageURL, rep.LocationName, rep.Latitude,
		rep.Longitude, rep.Verified, verification, rep.UpdatedAt)
	if err != nil {
		return apperror.Storage("update report", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperror.Storage("update report rows affected", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound(fmt.Sprintf("report %s not found", rep.ID))
	}
	return nil
}

func (r *reportRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.DB.ExecContext(ctx, `DELETE FROM reports WHERE id = $1`, id)
	if err != nil {
		return apperror.Storage("delete report", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperror.Storage("delete report rows affected", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound(fmt.Sprintf("report %s not found", id))
	}
	return nil
}

func (r *reportRepository) List(ctx context.Context, filter report.Filter) ([]*report.Report, error) {
	where, args := reportFilterClause(filter)
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT ` + reportColumns + ` FROM reports` + where +
		` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, limit, filter.Offset)

	rows, err := r.db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperror.Storage("list reports", err)
	}
	defer rows.Close()

	reports := []*report.Report{}
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, apperror.Storage("scan report", err)
		}
		reports = append(reports, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Storage("list reports", err)
	}
	return reports, nil
}

func (r *reportRepository) Count(ctx context.Context, filter report.Filter) (int, error) {
	where, args := reportFilterClause(filter)
	var count int
	if err := r.db.DB.GetContext(ctx, &count, `SELECT COUNT(*) FROM reports`+where, args...); err != nil {
		return 0, apperror.Storage("count reports", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReport(row rowScanner) (*report.Report, error) {
	var rep report.Report
	var verification []byte
	err := row.Scan(
		&rep.ID, &rep.DisasterID, &rep.AuthorID, &rep.Content, &rep.ImageURL,
		&rep.LocationName, &rep.Latitude, &rep.Longitude, &rep.Verified,
		&verification, &rep.CreatedAt, &rep.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(verification) > 0 {
		var v report.Verification
		if err := json.Unmarshal(verification, &v); err != nil {
			return nil, err
		}
		rep.Verification = &v
	}
	return &rep, nil
}

func marshalVerification(v *report.Verification) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, apperror.Storage("encode verification", err)
	}
	return raw, nil
}

func reportFilterClause(filter report.Filter) (string, []interface{}) {
	var conds []string
	var args []interface{}
	if filter.DisasterID != nil {
		args = append(args, *filter.DisasterID)
		conds = append(conds, "disaster_id = $"+strconv.Itoa(len(args)))
	}
	if filter.AuthorID != nil {
		args = append(args, *filter.AuthorID)
		conds = append(conds, "author_id = $"+strconv.Itoa(len(args)))
	}
	if filter.Verified != nil {
		args = append(args, *filter.Verified)
		conds = append(conds, "verified = $"+strconv.Itoa(len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
