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
	"github.com/crisisnet/disasterhub/internal/core/domain/resource"
	"github.com/crisisnet/disasterhub/internal/core/ports"
	"github.com/crisisnet/disasterhub/internal/infrastructure/db"
)

type resourceRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

// NewResourceRepository creates a Postgres-backed resource repository.
func NewResourceRepository(database *db.Database, logger *logrus.Logger) ports.ResourceRepository {
	return &resourceRepository{
		db:     database,
		logger: logger,
	}
}

const resourceColumns = `id, disaster_id, name, type, description, location_name, latitude, longitude, capacity, available, contact, owner_id, created_at, updated_at`

func (r *resourceRepository) Create(ctx context.Context, res *resource.Resource) error {
	query := `
		INSERT INTO resources (` + resourceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.db.DB.ExecContext(ctx, query,
		res.ID, res.DisasterID, res.Name, res.Type, res.Description,
		res.LocationName, res.Latitude, res.Longitude, res.Capacity,
		res.Available, res.Contact, res.OwnerID, res.CreatedAt, res.UpdatedAt)
	if err != nil {
		return apperror.Storage("create resource", err)
	}
	return nil
}

func (r *resourceRepository) GetByID(ctx context.Context, id uuid.UUID) (*resource.Resource, error) {
	var res resource.Resource
	query := `SELECT ` + resourceColumns + ` FROM resources WHERE id = $1`

	err := r.db.DB.GetContext(ctx, &res, query, id)
	if err == sql.ErrNoRows {
		return nil, apperror.NotFound(fmt.Sprintf("resource %s not found", id))
	}
	if err != nil {
		return nil, apperror.Storage("get resource", err)
	}
	return &res, nil
}

func (r *resourceRepository) Update(ctx context.Context, res *resource.Resource) error {
	query := `
		UPDATE resources
		SET name = $2, type = $3, description = $4, location_name = $5,
		    latitude = $6, longitude = $7, capacity = $8, available = $9,
		    contact = $10, updated_at = $11
		WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query,
		res.ID, res.Name, res.Type, res.Description, res.LocationName,
		res.Latitude, res.Longitude, res.Capacity, res.Available,
		res.Contact, res.UpdatedAt)
	if err != nil {
		return apperror.Storage("update resource", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperror.Storage("update resource rows affected", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound(fmt.Sprintf("resource %s not found", res.ID))
	}
	return nil
}

func (r *resourceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.DB.ExecContext(ctx, `DELETE FROM resources WHERE id = $1`, id)
	if err != nil {
		return apperror.Storage("delete resource", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperror.Storage("delete resource rows affected", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound(fmt.Sprintf("resource %s not found", id))
	}
	return nil
}

func (r *resourceRepository) List(ctx context.Context, filter resource.Filter) ([]*resource.Resource, error) {
	where, args := resourceFilterClause(filter)
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT ` + resourceColumns + ` FROM resources` + where +
		` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, limit, filter.Offset)

	resources := []*resource.Resource{}
	if err := r.db.DB.SelectContext(ctx, &resources, query, args...); err != nil {
		return nil, apperror.Storage("list resources", err)
	}
	return resources, nil
}

func (r *resourceRepository) Count(ctx context.Context, filter resource.Filter) (int, error) {
	where, args := resourceFilterClause(filter)
	var count int
	if err := r.db.DB.GetContext(ctx, &count, `SELECT COUNT(*) FROM resources`+where, args...); err != nil {
		return 0, apperror.Storage("count resources", err)
	}
	return count, nil
}

func (r *resourceRepository) Nearby(ctx context.Context, lat, lon, radiusKm float64) ([]*resource.Resource, error) {
	query := `
		SELECT ` + resourceColumns + ` FROM resources
		WHERE 6371 * 2 * asin(sqrt(
			power(sin(radians(latitude - $1) / 2), 2) +
			cos(radians($1)) * cos(radians(latitude)) *
			power(sin(radians(longitude - $2) / 2), 2)
		)) <= $3
		ORDER BY created_at DESC`

	resources := []*resource.Resource{}
	if err := r.db.DB.SelectContext(ctx, &resources, query, lat, lon, radiusKm); err != nil {
		return nil, apperror.Storage("nearby resources", err)
	}
	return resources, nil
}

func resourceFilterClause(filter resource.Filter) (string, []interface{}) {
	var conds []string
	var args []interface{}
	if filter.DisasterID != nil {
		args = append(args, *filter.DisasterID)
		conds = append(conds, "disaster_id = $"+strconv.Itoa(len(args)))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		conds = append(conds, "type = $"+strconv.Itoa(len(args)))
	}
	if filter.Available != nil {
		args = append(args, *filter.Available)
		conds = append(conds, "available = $"+strconv.Itoa(len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
