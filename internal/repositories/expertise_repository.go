// file: internal/repositories/expertise_repository.go
package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"speakerhub/internal/database"
	"speakerhub/internal/models"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type expertiseRepository struct {
	*BaseRepository
}

// NewExpertiseRepository creates a new instance of ExpertiseRepository
func NewExpertiseRepository(db *database.Manager, logger *zap.Logger) ExpertiseRepository {
	return &expertiseRepository{BaseRepository: NewBaseRepository(db, logger)}
}

// ListSectors returns all active sectors alphabetically.
func (r *expertiseRepository) ListSectors(ctx context.Context) ([]models.Sector, error) {
	rows, err := r.QueryContext(ctx,
		`SELECT id, name, is_active, created_at FROM sectors WHERE is_active = true ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sectors: %w", err)
	}
	defer rows.Close()

	var sectors []models.Sector
	for rows.Next() {
		var s models.Sector
		if err := rows.Scan(&s.ID, &s.Name, &s.IsActive, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sector: %w", err)
		}
		sectors = append(sectors, s)
	}
	return sectors, rows.Err()
}

// ListCategories returns active categories, optionally scoped to one sector.
func (r *expertiseRepository) ListCategories(ctx context.Context, sectorID *int64) ([]models.ExpertiseCategory, error) {
	query := `
		SELECT c.id, c.sector_id, c.name, c.is_active, c.created_at, s.name
		FROM expertise_categories c
		INNER JOIN sectors s ON s.id = c.sector_id
		WHERE c.is_active = true AND ($1::bigint IS NULL OR c.sector_id = $1)
		ORDER BY s.name, c.name`

	rows, err := r.QueryContext(ctx, query, sectorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []models.ExpertiseCategory
	for rows.Next() {
		var c models.ExpertiseCategory
		if err := rows.Scan(&c.ID, &c.SectorID, &c.Name, &c.IsActive, &c.CreatedAt, &c.SectorName); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// ListExpertise returns active expertise tags, optionally scoped to one
// category.
func (r *expertiseRepository) ListExpertise(ctx context.Context, categoryID *int64) ([]models.Expertise, error) {
	query := `
		SELECT e.id, e.category_id, e.name, e.is_active, e.created_at, c.name, s.name
		FROM expertise e
		INNER JOIN expertise_categories c ON c.id = e.category_id
		INNER JOIN sectors s ON s.id = c.sector_id
		WHERE e.is_active = true AND ($1::bigint IS NULL OR e.category_id = $1)
		ORDER BY s.name, c.name, e.name`

	rows, err := r.QueryContext(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expertise: %w", err)
	}
	defer rows.Close()

	return scanExpertiseWithTaxonomy(rows)
}

// GetByIDs resolves a set of expertise IDs, silently dropping inactive or
// unknown ones. Callers compare lengths to detect invalid input.
func (r *expertiseRepository) GetByIDs(ctx context.Context, ids []int64) ([]models.Expertise, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT e.id, e.category_id, e.name, e.is_active, e.created_at, c.name, s.name
		FROM expertise e
		INNER JOIN expertise_categories c ON c.id = e.category_id
		INNER JOIN sectors s ON s.id = c.sector_id
		WHERE e.is_active = true AND e.id = ANY($1)
		ORDER BY e.name`

	rows, err := r.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to get expertise by ids: %w", err)
	}
	defer rows.Close()

	return scanExpertiseWithTaxonomy(rows)
}

// SharedExpertise returns the tags both users carry.
func (r *expertiseRepository) SharedExpertise(ctx context.Context, userA, userB int64) ([]models.Expertise, error) {
	query := `
		SELECT e.id, e.category_id, e.name, e.is_active, e.created_at, c.name, s.name
		FROM expertise e
		INNER JOIN expertise_categories c ON c.id = e.category_id
		INNER JOIN sectors s ON s.id = c.sector_id
		WHERE e.is_active = true
			AND EXISTS (SELECT 1 FROM user_expertise ue WHERE ue.user_id = $1 AND ue.expertise_id = e.id)
			AND EXISTS (SELECT 1 FROM user_expertise ue WHERE ue.user_id = $2 AND ue.expertise_id = e.id)
		ORDER BY e.name`

	rows, err := r.QueryContext(ctx, query, userA, userB)
	if err != nil {
		return nil, fmt.Errorf("failed to get shared expertise: %w", err)
	}
	defer rows.Close()

	return scanExpertiseWithTaxonomy(rows)
}

func scanExpertiseWithTaxonomy(rows *sql.Rows) ([]models.Expertise, error) {
	var tags []models.Expertise
	for rows.Next() {
		var e models.Expertise
		if err := rows.Scan(&e.ID, &e.CategoryID, &e.Name, &e.IsActive, &e.CreatedAt, &e.CategoryName, &e.SectorName); err != nil {
			return nil, fmt.Errorf("failed to scan expertise: %w", err)
		}
		tags = append(tags, e)
	}
	return tags, rows.Err()
}
