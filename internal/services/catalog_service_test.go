// file: internal/services/catalog_service_test.go
package services

import (
	"context"
	"testing"

	"speakerhub/internal/cache"
	"speakerhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestListCategories(t *testing.T) {
	ctx := context.Background()
	repo := newFakeExpertiseRepo()
	repo.categories = []models.ExpertiseCategory{
		{ID: 1, SectorID: 1, Name: "Backend", IsActive: true, SectorName: "Technology"},
		{ID: 2, SectorID: 1, Name: "Frontend", IsActive: true, SectorName: "Technology"},
	}
	svc := NewCatalogService(repo, cache.NewMemoryCache(), zap.NewNop())

	categories, err := svc.ListCategories(ctx, nil)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Backend", categories[0].Name)
	assert.Equal(t, "Technology", categories[0].SectorName)

	// A second read is served from the cache, sector names intact.
	categories, err = svc.ListCategories(ctx, nil)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Technology", categories[1].SectorName)
	assert.Equal(t, 1, repo.listCalls)
}

func TestListExpertiseCachesPerCategory(t *testing.T) {
	ctx := context.Background()
	repo := newFakeExpertiseRepo()
	repo.expertise = []models.Expertise{
		{ID: 5, CategoryID: 1, Name: "Go", IsActive: true, CategoryName: "Backend", SectorName: "Technology"},
	}
	svc := NewCatalogService(repo, cache.NewMemoryCache(), zap.NewNop())

	categoryID := int64(1)
	tags, err := svc.ListExpertise(ctx, &categoryID)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "Go", tags[0].Name)

	// Scoped and unscoped reads cache under different keys.
	_, err = svc.ListExpertise(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls)

	_, err = svc.ListExpertise(ctx, &categoryID)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls)
}
