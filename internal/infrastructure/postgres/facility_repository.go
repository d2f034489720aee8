package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/dental-ops-api/internal/domain"
	"github.com/jhoicas/dental-ops-api/internal/domain/entity"
	"github.com/jhoicas/dental-ops-api/internal/domain/repository"
)

var _ repository.FacilityRepository = (*FacilityRepo)(nil)

// FacilityRepo implementación del puerto FacilityRepository sobre PostgreSQL.
type FacilityRepo struct {
	q Querier
}

// NewFacilityRepository construye el adaptador de persistencia para centros.
func NewFacilityRepository(q Querier) *FacilityRepo {
	return &FacilityRepo{q: q}
}

// Create persiste un nuevo centro.
func (r *FacilityRepo) Create(ctx context.Context, f *entity.Facility) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	query := `
		INSERT INTO facilities (id, name, code, region, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		f.ID, f.Name, f.Code, f.Region, f.Address, f.CreatedAt, f.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert facility: %w", err)
	}
	return nil
}

// GetByID obtiene un centro por ID.
func (r *FacilityRepo) GetByID(ctx context.Context, id string) (*entity.Facility, error) {
	query := `
		SELECT id, name, code, region, address, created_at, updated_at
		FROM facilities WHERE id = $1`
	var f entity.Facility
	err := r.q.QueryRow(ctx, query, id).Scan(
		&f.ID, &f.Name, &f.Code, &f.Region, &f.Address, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err, "get facility")
	}
	return &f, nil
}

// Update actualiza un centro existente.
func (r *FacilityRepo) Update(ctx context.Context, f *entity.Facility) error {
	query := `
		UPDATE facilities SET name = $2, code = $3, region = $4, address = $5, updated_at = $6
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		f.ID, f.Name, f.Code, f.Region, f.Address, f.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update facility: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista los centros por nombre.
func (r *FacilityRepo) List(ctx context.Context) ([]*entity.Facility, error) {
	query := `
		SELECT id, name, code, region, address, created_at, updated_at
		FROM facilities ORDER BY name`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list facilities: %w", err)
	}
	defer rows.Close()
	var list []*entity.Facility
	for rows.Next() {
		var f entity.Facility
		if err := rows.Scan(&f.ID, &f.Name, &f.Code, &f.Region, &f.Address, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan facility: %w", err)
		}
		list = append(list, &f)
	}
	return list, rows.Err()
}

// Delete elimina un centro por ID.
func (r *FacilityRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM facilities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete facility: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
