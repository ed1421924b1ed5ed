// file: internal/repositories/session_repository.go
package repositories

import (
	"context"
	"fmt"

	"speakerhub/internal/database"
	"speakerhub/internal/models"

	"go.uber.org/zap"
)

type sessionRepository struct {
	*BaseRepository
}

// NewSessionRepository creates a new instance of SessionRepository
func NewSessionRepository(db *database.Manager, logger *zap.Logger) SessionRepository {
	return &sessionRepository{BaseRepository: NewBaseRepository(db, logger)}
}

func (r *sessionRepository) Create(ctx context.Context, session *models.Session) error {
	err := r.QueryRowContext(ctx,
		`INSERT INTO sessions (user_id, token, expires_at) VALUES ($1, $2, $3) RETURNING id, created_at`,
		session.UserID, session.Token, session.ExpiresAt,
	).Scan(&session.ID, &session.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *sessionRepository) GetByToken(ctx context.Context, token string) (*models.Session, error) {
	var s models.Session
	err := r.QueryRowContext(ctx,
		`SELECT id, user_id, token, expires_at, created_at FROM sessions WHERE token = $1`,
		token,
	).Scan(&s.ID, &s.UserID, &s.Token, &s.ExpiresAt, &s.CreatedAt)
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &s, nil
}

func (r *sessionRepository) Delete(ctx context.Context, token string) error {
	if _, err := r.ExecContext(ctx, `DELETE FROM sessions WHERE token = $1`, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *sessionRepository) DeleteByUserID(ctx context.Context, userID int64) error {
	if _, err := r.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete user sessions: %w", err)
	}
	return nil
}

// DeleteExpired removes stale sessions and returns the number reaped.
func (r *sessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < CURRENT_TIMESTAMP`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected > 0 {
		r.GetLogger().Info("Expired sessions reaped", zap.Int64("count", affected))
	}
	return affected, nil
}
