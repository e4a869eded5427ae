package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/crisisnet/disasterhub/internal/core/domain/apperror"
	"github.com/crisisnet/disasterhub/internal/core/domain/disaster"
	"github.com/crisisnet/disasterhub/internal/core/ports"
	"github.com/crisisnet/disasterhub/internal/infrastructure/db"
)

type disasterRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

// NewDisasterRepository creates a Postgres-backed disaster repository.
func NewDisasterRepository(database *db.Database, logger *logrus.Logger) ports.DisasterRepository {
	return &disasterRepository{
		db:     database,
		logger: logger,
	}
}

const disasterColumns = `id, title, description, type, severity, status, location_name, latitude, longitude, radius_km, owner_id, created_at, updated_at`

func (r *disasterRepository) Create(ctx context.Context, d *disaster.Disaster) error {
	query := `
		INSERT INTO disasters (` + disasterColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.db.DB.ExecContext(ctx, query,
		d.ID, d.Title, d.Description, d.Type, d.Severity, d.Status,
		d.LocationName, d.Latitude, d.Longitude, d.RadiusKm, d.OwnerID,
		d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return apperror.Storage("create disaster", err)
	}
	return nil
}

func (r *disasterRepository) GetByID(ctx context.Context, id uuid.UUID) (*disaster.Disaster, error) {
	var d disaster.Disaster
	query := `SELECT ` + disasterColumns + ` FROM disasters WHERE id = $1`

	err := r.db.DB.GetContext(ctx, &d, query, id)
	if err == sql.ErrNoRows {
		return nil, apperror.NotFound(fmt.Sprintf("disaster %s not found", id))
	}
	if err != nil {
		return nil, apperror.Storage("get disaster", err)
	}
	return &d, nil
}

func (r *disasterRepository) Update(ctx context.Context, d *disaster.Disaster) error {
	query := `
		UPDATE disasters
		SET title = $2, description = $3, type = $4, severity = $5, status = $6,
		    location_name = $7, latitude = $8, longitude = $9, radius_km = $10, updated_at = $11
		WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query,
		d.ID, d.Title, d.Description, d.Type, d.Severity, d.Status,
		d.LocationName, d.Latitude, d.Longitude, d.RadiusKm, d.UpdatedAt)
	if err != nil {
		return apperror.Storage("update disaster", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperror.Storage("update disaster rows affected", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound(fmt.Sprintf("disaster %s not found", d.ID))
	}
	return nil
}

func (r *disasterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.DB.ExecContext(ctx, `DELETE FROM disasters WHERE id = $1`, id)
	if err != nil {
		return apperror.Storage("delete disaster", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperror.Storage("delete disaster rows affected", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound(fmt.Sprintf("disaster %s not found", id))
	}
	return nil
}

func (r *disasterRepository) List(ctx context.Context, filter disaster.Filter) ([]*disaster.Disaster, error) {
	where, args := disasterFilterClause(filter)
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT ` + disasterColumns + ` FROM disasters` + where +
		` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, limit, filter.Offset)

	disasters := []*disaster.Disaster{}
	if err := r.db.DB.SelectContext(ctx, &disasters, query, args...); err != nil {
		return nil, apperror.Storage("list disasters", err)
	}
	return disasters, nil
}

func (r *disasterRepository) Count(ctx context.Context, filter disaster.Filter) (int, error) {
	where, args := disasterFilterClause(filter)
	var count int
	if err := r.db.DB.GetContext(ctx, &count, `SELECT COUNT(*) FROM disasters`+where, args...); err != nil {
		return 0, apperror.Storage("count disasters", err)
	}
	return count, nil
}

// Nearby delegates the point+radius match to the datastore. The haversine
// formula runs in SQL; no local geospatial index is maintained.
func (r *disasterRepository) Nearby(ctx context.Context, lat, lon, radiusKm float64) ([]*disaster.Disaster, error) {
	query := `
		SELECT ` + disasterColumns + ` FROM disasters
		WHERE 6371 * 2 * asin(sqrt(
			power(sin(radians(latitude - $1) / 2), 2) +
			cos(radians($1)) * cos(radians(latitude)) *
			power(sin(radians(longitude - $2) / 2), 2)
		)) <= $3
		ORDER BY created_at DESC`

	disasters := []*disaster.Disaster{}
	if err := r.db.DB.SelectContext(ctx, &disasters, query, lat, lon, radiusKm); err != nil {
		return nil, apperror.Storage("nearby disasters", err)
	}
	return disasters, nil
}

func disasterFilterClause(filter disaster.Filter) (string, []interface{}) {
	var conds []string
	var args []interface{}
	if filter.Type != "" {
		args = append(args, filter.Type)
		conds = append(conds, "type = $"+strconv.Itoa(len(args)))
	}
	if filter.Severity != "" {
		args = append(args, filter.Severity)
		conds = append(conds, "severity = $"+strconv.Itoa(len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, "status = $"+strconv.Itoa(len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
