// file: internal/services/catalog_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"speakerhub/internal/cache"
	"speakerhub/internal/models"
	"speakerhub/internal/repositories"

	"go.uber.org/zap"
)

// The taxonomy changes rarely, so catalog reads cache aggressively.
const catalogTTL = 10 * time.Minute

// catalogService serves the sector/category/expertise taxonomy
type catalogService struct {
	expertiseRepo repositories.ExpertiseRepository
	cache         cache.Cache
	logger        *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(expertiseRepo repositories.ExpertiseRepository, cache cache.Cache, logger *zap.Logger) CatalogService {
	return &catalogService{
		expertiseRepo: expertiseRepo,
		cache:         cache,
		logger:        logger,
	}
}

func (s *catalogService) ListSectors(ctx context.Context) ([]models.Sector, error) {
	var sectors []models.Sector
	err := s.cached(ctx, "catalog:sectors", &sectors, func() (interface{}, error) {
		return s.expertiseRepo.ListSectors(ctx)
	})
	if err != nil {
		return nil, NewInternalError("failed to list sectors")
	}
	return sectors, nil
}

func (s *catalogService) ListCategories(ctx context.Context, sectorID *int64) ([]models.ExpertiseCategory, error) {
	key := "catalog:categories"
	if sectorID != nil {
		key = fmt.Sprintf("catalog:categories:%d", *sectorID)
	}

	var categories []models.ExpertiseCategory
	err := s.cached(ctx, key, &categories, func() (interface{}, error) {
		return s.expertiseRepo.ListCategories(ctx, sectorID)
	})
	if err != nil {
		return nil, NewInternalError("failed to list categories")
	}
	return categories, nil
}

func (s *catalogService) ListExpertise(ctx context.Context, categoryID *int64) ([]models.Expertise, error) {
	key := "catalog:expertise"
	if categoryID != nil {
		key = fmt.Sprintf("catalog:expertise:%d", *categoryID)
	}

	var tags []models.Expertise
	err := s.cached(ctx, key, &tags, func() (interface{}, error) {
		return s.expertiseRepo.ListExpertise(ctx, categoryID)
	})
	if err != nil {
		return nil, NewInternalError("failed to list expertise")
	}
	return tags, nil
}

// cached fills dest from the cache, falling through to load on a miss. Cache
// failures degrade to direct reads.
func (s *catalogService) cached(ctx context.Context, key string, dest interface{}, load func() (interface{}, error)) error {
	if raw, found := s.cache.Get(ctx, key); found {
		if err := json.Unmarshal(raw, dest); err == nil {
			return nil
		}
		s.logger.Debug("Discarding undecodable catalog cache entry", zap.String("key", key))
	}

	value, err := load()
	if err != nil {
		s.logger.Error("Failed to load catalog data", zap.Error(err), zap.String("key", key))
		return err
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode catalog data: %w", err)
	}
	if err := s.cache.Set(ctx, key, raw, catalogTTL); err != nil {
		s.logger.Debug("Failed to cache catalog data", zap.Error(err), zap.String("key", key))
	}

	return json.Unmarshal(raw, dest)
}
