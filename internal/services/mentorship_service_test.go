// file: internal/services/mentorship_service_test.go
package services

import (
	"context"
	"testing"
	"time"

	"speakerhub/internal/cache"
	"speakerhub/internal/events"
	"speakerhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestMentee(id int64) *models.User {
	return &models.User{
		ID:            id,
		Email:         "mentee@example.com",
		Username:      "mentee",
		FirstName:     "Nelly",
		LastName:      "New",
		SpeakerTypeID: models.SpeakerTypeNew,
		IsActive:      true,
		MaxMentees:    models.DefaultMaxMentees,
	}
}

func newTestMentor(id int64) *models.User {
	return &models.User{
		ID:                      id,
		Email:                   "mentor@example.com",
		Username:                "mentor",
		FirstName:               "Eve",
		LastName:                "Experienced",
		SpeakerTypeID:           models.SpeakerTypeExperienced,
		IsAvailableForMentoring: true,
		IsActive:                true,
		MaxMentees:              models.DefaultMaxMentees,
	}
}

func newMentorshipServiceForTest(t *testing.T, users ...*models.User) (MentorshipService, *fakeMentorshipRepo, *fakeUserRepo) {
	t.Helper()
	userRepo := newFakeUserRepo(users...)
	mentorshipRepo := newFakeMentorshipRepo()
	svc := NewMentorshipService(
		mentorshipRepo,
		userRepo,
		newFakeExpertiseRepo(1, 2, 3),
		cache.NewMemoryCache(),
		events.NewBus(zap.NewNop()),
		zap.NewNop(),
	)
	return svc, mentorshipRepo, userRepo
}

func TestCreateRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a pending request with derived type", func(t *testing.T) {
		svc, _, _ := newMentorshipServiceForTest(t, newTestMentor(1), newTestMentee(2))

		m, err := svc.CreateRequest(ctx, &CreateMentorshipRequest{
			MenteeID: 2,
			MentorID: 1,
			Message:  "I would love some guidance on conference talks.",
		})

		require.NoError(t, err)
		assert.Equal(t, models.MentorshipPending, m.Status)
		assert.Equal(t, models.MentorshipNewToExperienced, m.Type)
		assert.Equal(t, int64(1), m.MentorID)
		assert.Equal(t, int64(2), m.MenteeID)
	})

	t.Run("experienced mentee yields peer mentorship", func(t *testing.T) {
		mentee := newTestMentee(2)
		mentee.SpeakerTypeID = models.SpeakerTypeExperienced
		svc, _, _ := newMentorshipServiceForTest(t, newTestMentor(1), mentee)

		m, err := svc.CreateRequest(ctx, &CreateMentorshipRequest{
			MenteeID: 2, MentorID: 1, Message: "Peer feedback exchange?",
		})

		require.NoError(t, err)
		assert.Equal(t, models.MentorshipExperiencedToExperienced, m.Type)
	})

	t.Run("rejects self requests", func(t *testing.T) {
		svc, _, _ := newMentorshipServiceForTest(t, newTestMentor(1))

		_, err := svc.CreateRequest(ctx, &CreateMentorshipRequest{
			MenteeID: 1, MentorID: 1, Message: "hello me",
		})

		require.Error(t, err)
		assert.True(t, IsBusinessError(err))
	})

	t.Run("rejects new speakers as mentors", func(t *testing.T) {
		notAMentor := newTestMentee(1)
		notAMentor.Username = "othernew"
		notAMentor.Email = "other@example.com"
		svc, _, _ := newMentorshipServiceForTest(t, notAMentor, newTestMentee(2))

		_, err := svc.CreateRequest(ctx, &CreateMentorshipRequest{
			MenteeID: 2, MentorID: 1, Message: "mentor me",
		})

		require.Error(t, err)
		assert.True(t, IsBusinessError(err))
	})

	t.Run("rejects unavailable mentors", func(t *testing.T) {
		mentor := newTestMentor(1)
		mentor.IsAvailableForMentoring = false
		svc, _, _ := newMentorshipServiceForTest(t, mentor, newTestMentee(2))

		_, err := svc.CreateRequest(ctx, &CreateMentorshipRequest{
			MenteeID: 2, MentorID: 1, Message: "mentor me",
		})

		require.Error(t, err)
		assert.True(t, IsBusinessError(err))
	})

	t.Run("rejects duplicate pending requests", func(t *testing.T) {
		svc, _, _ := newMentorshipServiceForTest(t, newTestMentor(1), newTestMentee(2))

		_, err := svc.CreateRequest(ctx, &CreateMentorshipRequest{
			MenteeID: 2, MentorID: 1, Message: "first",
		})
		require.NoError(t, err)

		_, err = svc.CreateRequest(ctx, &CreateMentorshipRequest{
			MenteeID: 2, MentorID: 1, Message: "second",
		})
		require.Error(t, err)
		assert.True(t, IsConflictError(err))
	})

	t.Run("rejects unknown focus areas", func(t *testing.T) {
		svc, _, _ := newMentorshipServiceForTest(t, newTestMentor(1), newTestMentee(2))

		_, err := svc.CreateRequest(ctx, &CreateMentorshipRequest{
			MenteeID: 2, MentorID: 1, Message: "mentor me", FocusAreaIDs: []int64{1, 99},
		})

		require.Error(t, err)
		assert.True(t, IsValidationError(err))
	})

	t.Run("rejects mentors at capacity", func(t *testing.T) {
		mentor := newTestMentor(1)
		mentor.MaxMentees = 1
		svc, repo, _ := newMentorshipServiceForTest(t, mentor, newTestMentee(2))
		repo.mentorships[100] = &models.Mentorship{
			ID: 100, MentorID: 1, MenteeID: 50, Status: models.MentorshipActive,
		}

		_, err := svc.CreateRequest(ctx, &CreateMentorshipRequest{
			MenteeID: 2, MentorID: 1, Message: "mentor me",
		})

		require.Error(t, err)
		assert.True(t, IsBusinessError(err))
	})
}

func TestRespondToRequest(t *testing.T) {
	ctx := context.Background()

	open := func(t *testing.T) (MentorshipService, int64) {
		svc, _, _ := newMentorshipServiceForTest(t, newTestMentor(1), newTestMentee(2))
		m, err := svc.CreateRequest(ctx, &CreateMentorshipRequest{
			MenteeID: 2, MentorID: 1, Message: "mentor me",
		})
		require.NoError(t, err)
		return svc, m.ID
	}

	t.Run("accept activates the mentorship", func(t *testing.T) {
		svc, id := open(t)

		m, err := svc.RespondToRequest(ctx, &RespondToRequestRequest{
			MentorshipID: id, MentorID: 1, Accept: true,
		})

		require.NoError(t, err)
		assert.Equal(t, models.MentorshipActive, m.Status)
		assert.NotNil(t, m.RespondedAt)
		assert.NotNil(t, m.StartedAt)
	})

	t.Run("decline resolves the request", func(t *testing.T) {
		svc, id := open(t)
		msg := "not taking mentees this quarter"

		m, err := svc.RespondToRequest(ctx, &RespondToRequestRequest{
			MentorshipID: id, MentorID: 1, Accept: false, ResponseMessage: &msg,
		})

		require.NoError(t, err)
		assert.Equal(t, models.MentorshipDeclined, m.Status)
		require.NotNil(t, m.ResponseMessage)
		assert.Equal(t, msg, *m.ResponseMessage)
		assert.Nil(t, m.StartedAt)
	})

	t.Run("only the addressed mentor can respond", func(t *testing.T) {
		svc, id := open(t)

		_, err := svc.RespondToRequest(ctx, &RespondToRequestRequest{
			MentorshipID: id, MentorID: 2, Accept: true,
		})

		require.Error(t, err)
		assert.True(t, IsForbiddenError(err))
	})

	t.Run("second response conflicts", func(t *testing.T) {
		svc, id := open(t)

		_, err := svc.RespondToRequest(ctx, &RespondToRequestRequest{
			MentorshipID: id, MentorID: 1, Accept: true,
		})
		require.NoError(t, err)

		_, err = svc.RespondToRequest(ctx, &RespondToRequestRequest{
			MentorshipID: id, MentorID: 1, Accept: false,
		})
		require.Error(t, err)
		assert.True(t, IsConflictError(err))
	})

	t.Run("unknown mentorship is not found", func(t *testing.T) {
		svc, _ := open(t)

		_, err := svc.RespondToRequest(ctx, &RespondToRequestRequest{
			MentorshipID: 999, MentorID: 1, Accept: true,
		})

		require.Error(t, err)
		assert.True(t, IsNotFoundError(err))
	})
}

func TestCancelMentorship(t *testing.T) {
	ctx := context.Background()

	t.Run("mentee withdraws a pending request", func(t *testing.T) {
		svc, _, _ := newMentorshipServiceForTest(t, newTestMentor(1), newTestMentee(2))
		m, err := svc.CreateRequest(ctx, &CreateMentorshipRequest{
			MenteeID: 2, MentorID: 1, Message: "mentor me",
		})
		require.NoError(t, err)

		cancelled, err := svc.CancelMentorship(ctx, m.ID, 2)
		require.NoError(t, err)
		assert.Equal(t, models.MentorshipCancelled, cancelled.Status)
		assert.Nil(t, cancelled.CompletedAt)
	})

	t.Run("mentor cannot withdraw a pending request", func(t *testing.T) {
		svc, _, _ := newMentorshipServiceForTest(t, newTestMentor(1), newTestMentee(2))
		m, err := svc.CreateRequest(ctx, &CreateMentorshipRequest{
			MenteeID: 2, MentorID: 1, Message: "mentor me",
		})
		require.NoError(t, err)

		_, err = svc.CancelMentorship(ctx, m.ID, 1)
		require.Error(t, err)
		assert.True(t, IsForbiddenError(err))
	})

	t.Run("either participant cancels an active mentorship", func(t *testing.T) {
		svc, _, _ := newMentorshipServiceForTest(t, newTestMentor(1), newTestMentee(2))
		m, err := svc.CreateRequest(ctx, &CreateMentorshipRequest{
			MenteeID: 2, MentorID: 1, Message: "mentor me",
		})
		require.NoError(t, err)
		_, err = svc.RespondToRequest(ctx, &RespondToRequestRequest{
			MentorshipID: m.ID, MentorID: 1, Accept: true,
		})
		require.NoError(t, err)

		cancelled, err := svc.CancelMentorship(ctx, m.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, models.MentorshipCancelled, cancelled.Status)
		// CompletedAt marks completion only; a cancelled mentorship never
		// carries it.
		assert.Nil(t, cancelled.CompletedAt)
		assert.NotNil(t, cancelled.StartedAt)
	})

	t.Run("outsiders are rejected", func(t *testing.T) {
		svc, _, _ := newMentorshipServiceForTest(t, newTestMentor(1), newTestMentee(2))
		m, err := svc.CreateRequest(ctx, &CreateMentorshipRequest{
			MenteeID: 2, MentorID: 1, Message: "mentor me",
		})
		require.NoError(t, err)

		_, err = svc.CancelMentorship(ctx, m.ID, 42)
		require.Error(t, err)
		assert.True(t, IsForbiddenError(err))
	})

	t.Run("terminal mentorships cannot be cancelled again", func(t *testing.T) {
		svc, _, _ := newMentorshipServiceForTest(t, newTestMentor(1), newTestMentee(2))
		m, err := svc.CreateRequest(ctx, &CreateMentorshipRequest{
			MenteeID: 2, MentorID: 1, Message: "mentor me",
		})
		require.NoError(t, err)
		_, err = svc.CancelMentorship(ctx, m.ID, 2)
		require.NoError(t, err)

		_, err = svc.CancelMentorship(ctx, m.ID, 2)
		require.Error(t, err)
		assert.True(t, IsConflictError(err))
	})
}

func TestMentorshipLists(t *testing.T) {
	ctx := context.Background()

	seed := func(repo *fakeMentorshipRepo, id int64, status models.MentorshipStatus, requestedAt time.Time, startedAt *time.Time) {
		repo.mentorships[id] = &models.Mentorship{
			ID:          id,
			MentorID:    1,
			MenteeID:    2,
			Status:      status,
			RequestedAt: requestedAt,
			StartedAt:   startedAt,
		}
	}

	t.Run("outgoing keeps the full history, newest first", func(t *testing.T) {
		svc, repo, _ := newMentorshipServiceForTest(t, newTestMentor(1), newTestMentee(2))
		base := time.Now()
		seed(repo, 10, models.MentorshipCompleted, base.Add(-3*time.Hour), nil)
		seed(repo, 11, models.MentorshipDeclined, base.Add(-2*time.Hour), nil)
		seed(repo, 12, models.MentorshipActive, base.Add(-1*time.Hour), nil)
		seed(repo, 13, models.MentorshipPending, base, nil)

		out, err := svc.ListOutgoingRequests(ctx, 2)
		require.NoError(t, err)
		require.Len(t, out, 4)
		assert.Equal(t, int64(13), out[0].ID)
		assert.Equal(t, int64(12), out[1].ID)
		assert.Equal(t, int64(11), out[2].ID)
		assert.Equal(t, int64(10), out[3].ID)
	})

	t.Run("incoming lists pending only, newest first", func(t *testing.T) {
		svc, repo, _ := newMentorshipServiceForTest(t, newTestMentor(1), newTestMentee(2))
		base := time.Now()
		seed(repo, 20, models.MentorshipPending, base.Add(-time.Hour), nil)
		seed(repo, 21, models.MentorshipDeclined, base.Add(-30*time.Minute), nil)
		seed(repo, 22, models.MentorshipPending, base, nil)

		in, err := svc.ListIncomingRequests(ctx, 1)
		require.NoError(t, err)
		require.Len(t, in, 2)
		assert.Equal(t, int64(22), in[0].ID)
		assert.Equal(t, int64(20), in[1].ID)
	})

	t.Run("active lists longest-running first", func(t *testing.T) {
		svc, repo, _ := newMentorshipServiceForTest(t, newTestMentor(1), newTestMentee(2))
		base := time.Now()
		older := base.Add(-48 * time.Hour)
		newer := base.Add(-2 * time.Hour)
		seed(repo, 30, models.MentorshipActive, base.Add(-72*time.Hour), &older)
		seed(repo, 31, models.MentorshipActive, base.Add(-3*time.Hour), &newer)

		active, err := svc.ListActiveMentorships(ctx, 2)
		require.NoError(t, err)
		require.Len(t, active, 2)
		assert.Equal(t, int64(30), active[0].ID)
		assert.Equal(t, int64(31), active[1].ID)
	})
}

func TestMentorshipLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newMentorshipServiceForTest(t, newTestMentor(1), newTestMentee(2))

	m, err := svc.CreateRequest(ctx, &CreateMentorshipRequest{
		MenteeID: 2, MentorID: 1, Message: "mentor me", FocusAreaIDs: []int64{1, 2},
	})
	require.NoError(t, err)

	count, err := svc.GetPendingCount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	accepted, err := svc.RespondToRequest(ctx, &RespondToRequestRequest{
		MentorshipID: m.ID, MentorID: 1, Accept: true,
	})
	require.NoError(t, err)
	assert.Equal(t, models.MentorshipActive, accepted.Status)

	active, err := svc.ListActiveMentorships(ctx, 2)
	require.NoError(t, err)
	require.Len(t, active, 1)

	count, err = svc.GetPendingCount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	completed, err := svc.CompleteMentorship(ctx, m.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, models.MentorshipCompleted, completed.Status)
	assert.NotNil(t, completed.CompletedAt)

	// Completed is terminal.
	_, err = svc.CompleteMentorship(ctx, m.ID, 1)
	require.Error(t, err)
	assert.True(t, IsConflictError(err))

	// The pair can start over once the old mentorship ended.
	_, err = svc.CreateRequest(ctx, &CreateMentorshipRequest{
		MenteeID: 2, MentorID: 1, Message: "round two",
	})
	require.NoError(t, err)
}
