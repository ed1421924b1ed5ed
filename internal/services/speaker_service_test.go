// file: internal/services/speaker_service_test.go
package services

import (
	"context"
	"testing"

	"speakerhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSpeakerServiceForTest(t *testing.T, users ...*models.User) (SpeakerService, *fakeUserRepo) {
	t.Helper()
	userRepo := newFakeUserRepo(users...)
	svc := NewSpeakerService(userRepo, newFakeExpertiseRepo(1, 2, 3), nil, zap.NewNop())
	return svc, userRepo
}

func TestSearchSpeakersPagination(t *testing.T) {
	ctx := context.Background()

	t.Run("empty result still renders page one of one", func(t *testing.T) {
		svc, repo := newSpeakerServiceForTest(t)
		repo.searchTotal = 0

		result, err := svc.SearchSpeakers(ctx, &SearchSpeakersRequest{Page: 5})

		require.NoError(t, err)
		assert.Equal(t, 1, result.Pagination.CurrentPage)
		assert.Equal(t, 1, result.Pagination.TotalPages)
		assert.False(t, result.Pagination.HasNext)
		assert.False(t, result.Pagination.HasPrev)
	})

	t.Run("out of range page clamps to the last page", func(t *testing.T) {
		svc, repo := newSpeakerServiceForTest(t)
		repo.searchTotal = 30 // 3 pages of 12

		result, err := svc.SearchSpeakers(ctx, &SearchSpeakersRequest{Page: 99})

		require.NoError(t, err)
		assert.Equal(t, 3, result.Pagination.CurrentPage)
		assert.Equal(t, 3, result.Pagination.TotalPages)
		assert.Equal(t, 24, repo.lastOffset)
		assert.Equal(t, models.SpeakerPageSize, repo.lastLimit)
		assert.True(t, result.Pagination.HasPrev)
		assert.False(t, result.Pagination.HasNext)
	})

	t.Run("zero and negative pages land on page one", func(t *testing.T) {
		svc, repo := newSpeakerServiceForTest(t)
		repo.searchTotal = 30

		result, err := svc.SearchSpeakers(ctx, &SearchSpeakersRequest{Page: 0})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Pagination.CurrentPage)
		assert.Equal(t, 0, repo.lastOffset)
	})

	t.Run("exact page boundary", func(t *testing.T) {
		svc, _ := newSpeakerServiceForTest(t)
		repo2 := newFakeUserRepo()
		svc = NewSpeakerService(repo2, newFakeExpertiseRepo(), nil, zap.NewNop())
		repo2.searchTotal = 24 // exactly 2 pages

		result, err := svc.SearchSpeakers(ctx, &SearchSpeakersRequest{Page: 2})
		require.NoError(t, err)
		assert.Equal(t, 2, result.Pagination.TotalPages)
		assert.Equal(t, 2, result.Pagination.CurrentPage)
	})
}

func TestSearchSpeakersFilters(t *testing.T) {
	ctx := context.Background()

	t.Run("search term is trimmed", func(t *testing.T) {
		svc, repo := newSpeakerServiceForTest(t)

		_, err := svc.SearchSpeakers(ctx, &SearchSpeakersRequest{SearchTerm: "  fin  "})

		require.NoError(t, err)
		assert.Equal(t, "fin", repo.lastFilter.SearchTerm)
	})

	t.Run("unknown sort falls back to name", func(t *testing.T) {
		svc, repo := newSpeakerServiceForTest(t)

		_, err := svc.SearchSpeakers(ctx, &SearchSpeakersRequest{})

		require.NoError(t, err)
		assert.Equal(t, models.SpeakerSortName, repo.lastFilter.Sort)
	})

	t.Run("duplicate expertise filters collapse", func(t *testing.T) {
		svc, repo := newSpeakerServiceForTest(t)

		_, err := svc.SearchSpeakers(ctx, &SearchSpeakersRequest{ExpertiseIDs: []int64{2, 2, 3}})

		require.NoError(t, err)
		assert.Equal(t, []int64{2, 3}, repo.lastFilter.ExpertiseIDs)
	})

	t.Run("active filters echo back with the page", func(t *testing.T) {
		svc, repo := newSpeakerServiceForTest(t)

		result, err := svc.SearchSpeakers(ctx, &SearchSpeakersRequest{SearchTerm: "fin", Sort: models.SpeakerSortNewest})

		require.NoError(t, err)
		echoed, ok := result.Filters.(models.SpeakerFilter)
		require.True(t, ok)
		assert.Equal(t, repo.lastFilter, echoed)
		assert.Equal(t, "fin", echoed.SearchTerm)
	})

	t.Run("password hashes never leave the service", func(t *testing.T) {
		svc, repo := newSpeakerServiceForTest(t)
		repo.searchTotal = 1
		repo.searchPage = []*models.User{{ID: 1, PasswordHash: "secret"}}

		result, err := svc.SearchSpeakers(ctx, &SearchSpeakersRequest{})

		require.NoError(t, err)
		require.Len(t, result.Data, 1)
		assert.Empty(t, result.Data[0].PasswordHash)
	})
}

func TestBrowseMentors(t *testing.T) {
	ctx := context.Background()

	t.Run("constrains the pool to available experienced mentors", func(t *testing.T) {
		me := newTestMentee(7)
		svc, repo := newSpeakerServiceForTest(t, me)

		_, err := svc.BrowseMentors(ctx, &BrowseMentorsRequest{UserID: 7})

		require.NoError(t, err)
		require.NotNil(t, repo.lastFilter.SpeakerTypeID)
		assert.Equal(t, models.SpeakerTypeExperienced, *repo.lastFilter.SpeakerTypeID)
		require.NotNil(t, repo.lastFilter.ExcludeUserID)
		assert.Equal(t, int64(7), *repo.lastFilter.ExcludeUserID)
		assert.True(t, repo.lastFilter.RequireMentorCapacity)
	})

	t.Run("rejects anonymous browsing", func(t *testing.T) {
		svc, _ := newSpeakerServiceForTest(t)

		_, err := svc.BrowseMentors(ctx, &BrowseMentorsRequest{UserID: 99})

		require.Error(t, err)
		assert.Equal(t, "UNAUTHORIZED", GetServiceError(err).Type)
	})
}

func TestGetSpeaker(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the profile without the password hash", func(t *testing.T) {
		mentor := newTestMentor(1)
		mentor.PasswordHash = "secret"
		svc, _ := newSpeakerServiceForTest(t, mentor)

		speaker, err := svc.GetSpeaker(ctx, 1)

		require.NoError(t, err)
		assert.Equal(t, "Eve Experienced", speaker.FullName())
		assert.Empty(t, speaker.PasswordHash)
	})

	t.Run("unknown and inactive speakers are not found", func(t *testing.T) {
		inactive := newTestMentor(1)
		inactive.IsActive = false
		svc, _ := newSpeakerServiceForTest(t, inactive)

		_, err := svc.GetSpeaker(ctx, 1)
		assert.True(t, IsNotFoundError(err))

		_, err = svc.GetSpeaker(ctx, 42)
		assert.True(t, IsNotFoundError(err))
	})
}

func TestTotalPagesFor(t *testing.T) {
	tests := []struct {
		total    int64
		pageSize int
		want     int
	}{
		{0, 12, 1},
		{1, 12, 1},
		{12, 12, 1},
		{13, 12, 2},
		{24, 12, 2},
		{25, 12, 3},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, totalPagesFor(tt.total, tt.pageSize), "total=%d", tt.total)
	}
}
