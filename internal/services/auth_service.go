// file: internal/services/auth_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"speakerhub/internal/config"
	"speakerhub/internal/models"
	"speakerhub/internal/repositories"
	"speakerhub/internal/validation"

	"github.com/gofrs/uuid"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

const githubUserEndpoint = "https://api.github.com/user"

// authService implements AuthService
type authService struct {
	userRepo    repositories.UserRepository
	sessionRepo repositories.SessionRepository
	cfg         *config.AuthConfig
	oauthConfig *oauth2.Config
	logger      *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repositories.UserRepository,
	sessionRepo repositories.SessionRepository,
	cfg *config.AuthConfig,
	logger *zap.Logger,
) AuthService {
	return &authService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		cfg:         cfg,
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.GitHubClientID,
			ClientSecret: cfg.GitHubClientSecret,
			RedirectURL:  cfg.GitHubRedirectURL,
			Scopes:       []string{"user:email", "read:user"},
			Endpoint:     github.Endpoint,
		},
		logger: logger,
	}
}

// ===============================
// REGISTRATION & LOGIN
// ===============================

// Register creates a new speaker account.
func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid registration", err)
	}

	if existing, _ := s.userRepo.GetByEmail(ctx, req.Email); existing != nil {
		return nil, NewBusinessError("an account with this email already exists", "EMAIL_TAKEN")
	}
	if existing, _ := s.userRepo.GetByUsername(ctx, req.Username); existing != nil {
		return nil, NewBusinessError("this username is already taken", "USERNAME_TAKEN")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BCryptCost)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return nil, NewInternalError("failed to process password")
	}

	user := &models.User{
		Email:         strings.ToLower(req.Email),
		Username:      req.Username,
		PasswordHash:  string(hash),
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		SpeakerTypeID: req.SpeakerTypeID,
		MaxMentees:    models.DefaultMaxMentees,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.Error("Failed to create account", zap.Error(err), zap.String("email", req.Email))
		return nil, NewInternalError("failed to create account")
	}

	s.logger.Info("Account registered",
		zap.Int64("user_id", user.ID),
		zap.String("username", user.Username),
	)

	user.PasswordHash = ""
	return user, nil
}

// Login authenticates by email or username and opens a session.
func (s *authService) Login(ctx context.Context, req *LoginRequest) (*LoginResult, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid login", err)
	}

	user, err := s.lookupByIdentifier(ctx, req.Identifier)
	if err != nil {
		return nil, NewInternalError("failed to look up account")
	}
	if user == nil || !user.IsActive {
		// Burn a hash comparison so missing accounts take as long as wrong
		// passwords.
		_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"), []byte(req.Password))
		return nil, NewUnauthorizedError("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("Failed login attempt", zap.Int64("user_id", user.ID))
		return nil, NewUnauthorizedError("invalid credentials")
	}

	return s.openSession(ctx, user)
}

// Logout destroys the session.
func (s *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessionRepo.Delete(ctx, token); err != nil {
		s.logger.Warn("Failed to delete session", zap.Error(err))
		return NewInternalError("failed to log out")
	}
	return nil
}

// GetSessionUser resolves a session token to its user, nil-safe on expiry.
func (s *authService) GetSessionUser(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, NewUnauthorizedError("not logged in")
	}

	session, err := s.sessionRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, NewInternalError("failed to look up session")
	}
	if session == nil || session.Expired() {
		return nil, NewUnauthorizedError("session expired")
	}

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, NewInternalError("failed to look up account")
	}
	if user == nil || !user.IsActive {
		return nil, NewUnauthorizedError("account is not active")
	}

	user.PasswordHash = ""
	return user, nil
}

// ===============================
// JWT
// ===============================

// IssueToken mints a JWT for API clients.
func (s *authService) IssueToken(ctx context.Context, user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": fmt.Sprintf("%d", user.ID),
		"usr": user.Username,
		"iat": now.Unix(),
		"exp": now.Add(s.cfg.JWTExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		s.logger.Error("Failed to sign token", zap.Error(err))
		return "", NewInternalError("failed to issue token")
	}
	return signed, nil
}

// ValidateToken verifies a JWT and returns the user ID it carries.
func (s *authService) ValidateToken(ctx context.Context, tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, NewUnauthorizedError("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, NewUnauthorizedError("invalid token")
	}
	sub, _ := claims["sub"].(string)

	var userID int64
	if _, err := fmt.Sscanf(sub, "%d", &userID); err != nil || userID <= 0 {
		return 0, NewUnauthorizedError("invalid token")
	}
	return userID, nil
}

// ===============================
// GITHUB OAUTH
// ===============================

// GitHubAuthURL returns the consent URL for the OAuth flow.
func (s *authService) GitHubAuthURL(state string) string {
	return s.oauthConfig.AuthCodeURL(state)
}

// GitHubCallback exchanges the code, resolves or provisions the account, and
// opens a session.
func (s *authService) GitHubCallback(ctx context.Context, code string) (*LoginResult, error) {
	token, err := s.oauthConfig.Exchange(ctx, code)
	if err != nil {
		s.logger.Warn("GitHub token exchange failed", zap.Error(err))
		return nil, NewUnauthorizedError("GitHub sign-in failed")
	}

	ghUser, err := s.fetchGitHubUser(ctx, token)
	if err != nil {
		s.logger.Warn("GitHub profile fetch failed", zap.Error(err))
		return nil, NewUnauthorizedError("GitHub sign-in failed")
	}
	if ghUser.Email == "" {
		return nil, NewBusinessError("your GitHub account has no public email", "GITHUB_EMAIL_MISSING")
	}

	user, err := s.userRepo.GetByEmail(ctx, ghUser.Email)
	if err != nil {
		return nil, NewInternalError("failed to look up account")
	}

	if user == nil {
		user = &models.User{
			Email:         strings.ToLower(ghUser.Email),
			Username:      s.uniqueUsername(ctx, ghUser.Login),
			FirstName:     ghUser.Login,
			LastName:      "",
			SpeakerTypeID: int64(models.SpeakerTypeNew),
			MaxMentees:    models.DefaultMaxMentees,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			s.logger.Error("Failed to provision GitHub account", zap.Error(err))
			return nil, NewInternalError("failed to create account")
		}
		s.logger.Info("Account provisioned from GitHub",
			zap.Int64("user_id", user.ID),
			zap.String("username", user.Username),
		)
	}

	if !user.IsActive {
		return nil, NewUnauthorizedError("account is not active")
	}

	return s.openSession(ctx, user)
}

type githubProfile struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Email string `json:"email"`
}

func (s *authService) fetchGitHubUser(ctx context.Context, token *oauth2.Token) (*githubProfile, error) {
	client := s.oauthConfig.Client(ctx, token)
	resp, err := client.Get(githubUserEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch GitHub profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GitHub profile fetch returned %d", resp.StatusCode)
	}

	var profile githubProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode GitHub profile: %w", err)
	}
	return &profile, nil
}

func (s *authService) uniqueUsername(ctx context.Context, base string) string {
	candidate := base
	for i := 0; i < 5; i++ {
		if existing, _ := s.userRepo.GetByUsername(ctx, candidate); existing == nil {
			return candidate
		}
		suffix, _ := uuid.NewV4()
		candidate = fmt.Sprintf("%s-%s", base, suffix.String()[:8])
	}
	return candidate
}

// ===============================
// SESSIONS
// ===============================

func (s *authService) openSession(ctx context.Context, user *models.User) (*LoginResult, error) {
	tokenID, err := uuid.NewV4()
	if err != nil {
		return nil, NewInternalError("failed to create session")
	}

	session := &models.Session{
		UserID:    user.ID,
		Token:     tokenID.String(),
		ExpiresAt: time.Now().Add(s.cfg.SessionExpiry),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		s.logger.Error("Failed to create session", zap.Error(err), zap.Int64("user_id", user.ID))
		return nil, NewInternalError("failed to create session")
	}

	s.logger.Info("Session opened", zap.Int64("user_id", user.ID))

	user.PasswordHash = ""
	return &LoginResult{
		User:         user,
		SessionToken: session.Token,
		ExpiresAt:    session.ExpiresAt.Unix(),
	}, nil
}

// ReapExpiredSessions removes stale sessions, meant for a periodic sweep.
func (s *authService) ReapExpiredSessions(ctx context.Context) (int64, error) {
	return s.sessionRepo.DeleteExpired(ctx)
}

func (s *authService) lookupByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	if strings.Contains(identifier, "@") {
		return s.userRepo.GetByEmail(ctx, identifier)
	}
	return s.userRepo.GetByUsername(ctx, identifier)
}
