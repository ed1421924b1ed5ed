// file: internal/services/auth_service_test.go
package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"speakerhub/internal/config"
	"speakerhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeSessionRepo is an in-memory SessionRepository.
type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*models.Session
	nextID   int64
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*models.Session), nextID: 1}
}

func (r *fakeSessionRepo) Create(_ context.Context, session *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	session.ID = r.nextID
	r.nextID++
	session.CreatedAt = time.Now()
	copied := *session
	r.sessions[session.Token] = &copied
	return nil
}

func (r *fakeSessionRepo) GetByToken(_ context.Context, token string) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[token]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeSessionRepo) Delete(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, token)
	return nil
}

func (r *fakeSessionRepo) DeleteByUserID(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for token, s := range r.sessions {
		if s.UserID == userID {
			delete(r.sessions, token)
		}
	}
	return nil
}

func (r *fakeSessionRepo) DeleteExpired(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var reaped int64
	for token, s := range r.sessions {
		if s.Expired() {
			delete(r.sessions, token)
			reaped++
		}
	}
	return reaped, nil
}

func testAuthConfig() *config.AuthConfig {
	return &config.AuthConfig{
		SessionName:   "speakerhub_session",
		SessionExpiry: time.Hour,
		BCryptCost:    4, // minimum cost keeps tests fast
		JWTSecret:     "test-secret",
		JWTExpiry:     time.Hour,
	}
}

func newAuthServiceForTest(t *testing.T) (AuthService, *fakeUserRepo, *fakeSessionRepo) {
	t.Helper()
	userRepo := newFakeUserRepo()
	sessionRepo := newFakeSessionRepo()
	svc := NewAuthService(userRepo, sessionRepo, testAuthConfig(), zap.NewNop())
	return svc, userRepo, sessionRepo
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAuthServiceForTest(t)

	user, err := svc.Register(ctx, &RegisterRequest{
		Email:         "casey@example.com",
		Username:      "casey",
		Password:      "correct-horse",
		FirstName:     "Casey",
		LastName:      "Jones",
		SpeakerTypeID: models.SpeakerTypeNew,
	})
	require.NoError(t, err)
	assert.Empty(t, user.PasswordHash)
	assert.Equal(t, models.DefaultMaxMentees, user.MaxMentees)

	t.Run("login by email", func(t *testing.T) {
		result, err := svc.Login(ctx, &LoginRequest{Identifier: "casey@example.com", Password: "correct-horse"})
		require.NoError(t, err)
		assert.NotEmpty(t, result.SessionToken)
		assert.Equal(t, user.ID, result.User.ID)
	})

	t.Run("login by username", func(t *testing.T) {
		result, err := svc.Login(ctx, &LoginRequest{Identifier: "casey", Password: "correct-horse"})
		require.NoError(t, err)
		assert.NotEmpty(t, result.SessionToken)
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		_, err := svc.Login(ctx, &LoginRequest{Identifier: "casey", Password: "wrong"})
		require.Error(t, err)
		assert.Equal(t, "UNAUTHORIZED", GetServiceError(err).Type)
	})

	t.Run("unknown account is unauthorized not notfound", func(t *testing.T) {
		_, err := svc.Login(ctx, &LoginRequest{Identifier: "nobody", Password: "whatever"})
		require.Error(t, err)
		assert.Equal(t, "UNAUTHORIZED", GetServiceError(err).Type)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		_, err := svc.Register(ctx, &RegisterRequest{
			Email: "casey@example.com", Username: "casey2", Password: "password123",
			FirstName: "C", LastName: "J", SpeakerTypeID: models.SpeakerTypeNew,
		})
		require.Error(t, err)
		assert.True(t, IsBusinessError(err))
	})
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _, sessionRepo := newAuthServiceForTest(t)

	_, err := svc.Register(ctx, &RegisterRequest{
		Email: "s@example.com", Username: "sessions", Password: "password123",
		FirstName: "S", LastName: "S", SpeakerTypeID: models.SpeakerTypeExperienced,
	})
	require.NoError(t, err)

	result, err := svc.Login(ctx, &LoginRequest{Identifier: "sessions", Password: "password123"})
	require.NoError(t, err)

	user, err := svc.GetSessionUser(ctx, result.SessionToken)
	require.NoError(t, err)
	assert.Equal(t, "sessions", user.Username)

	require.NoError(t, svc.Logout(ctx, result.SessionToken))

	_, err = svc.GetSessionUser(ctx, result.SessionToken)
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", GetServiceError(err).Type)

	// Expired sessions get reaped.
	sessionRepo.sessions["stale"] = &models.Session{
		UserID: user.ID, Token: "stale", ExpiresAt: time.Now().Add(-time.Minute),
	}
	reaped, err := svc.ReapExpiredSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), reaped)
}

func TestJWTRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAuthServiceForTest(t)

	token, err := svc.IssueToken(ctx, &models.User{ID: 42, Username: "casey"})
	require.NoError(t, err)

	userID, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)

	_, err = svc.ValidateToken(ctx, token+"tampered")
	require.Error(t, err)

	_, err = svc.ValidateToken(ctx, "not-a-token")
	require.Error(t, err)
}
