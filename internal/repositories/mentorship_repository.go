// file: internal/repositories/mentorship_repository.go
package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"speakerhub/internal/database"
	"speakerhub/internal/models"

	"go.uber.org/zap"
)

type mentorshipRepository struct {
	*BaseRepository
}

// NewMentorshipRepository creates a new instance of MentorshipRepository
func NewMentorshipRepository(db *database.Manager, logger *zap.Logger) MentorshipRepository {
	return &mentorshipRepository{BaseRepository: NewBaseRepository(db, logger)}
}

const mentorshipColumns = `
	m.id, m.mentor_id, m.mentee_id, m.status, m.mentorship_type,
	m.request_message, m.response_message, m.notes, m.preferred_frequency,
	m.requested_at, m.responded_at, m.started_at, m.completed_at, m.updated_at`

const mentorshipJoins = `
	mentor.first_name || ' ' || mentor.last_name AS mentor_name,
	mentee.first_name || ' ' || mentee.last_name AS mentee_name,
	mentor.headshot_url, mentee.headshot_url`

// Create inserts the mentorship and its focus-area rows in one transaction.
// Constraint violations map to the package sentinel errors so the service
// layer never inspects pq internals.
func (r *mentorshipRepository) Create(ctx context.Context, m *models.Mentorship, focusAreaIDs []int64) error {
	err := r.WithTransaction(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO mentorships (mentor_id, mentee_id, status, mentorship_type, request_message, preferred_frequency)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, requested_at, updated_at`

		if err := tx.QueryRowContext(
			ctx, query,
			m.MentorID, m.MenteeID, m.Status, m.Type, m.RequestMessage, m.PreferredFrequency,
		).Scan(&m.ID, &m.RequestedAt, &m.UpdatedAt); err != nil {
			return err
		}

		for _, expertiseID := range focusAreaIDs {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO mentorship_expertise (mentorship_id, expertise_id) VALUES ($1, $2)`,
				m.ID, expertiseID,
			); err != nil {
				return fmt.Errorf("failed to add focus area %d: %w", expertiseID, err)
			}
		}
		return nil
	})

	if err != nil {
		switch PGErrorCode(err) {
		case pgUniqueViolation:
			return ErrDuplicatePendingRequest
		case pgCheckViolation:
			if strings.Contains(PGConstraint(err), "no_self_mentorship") {
				return ErrSelfMentorship
			}
		}
		r.GetLogger().Error("Failed to create mentorship request",
			zap.Error(err),
			zap.Int64("mentor_id", m.MentorID),
			zap.Int64("mentee_id", m.MenteeID),
		)
		return fmt.Errorf("failed to create mentorship request: %w", err)
	}

	r.GetLogger().Info("Mentorship request created",
		zap.Int64("mentorship_id", m.ID),
		zap.Int64("mentor_id", m.MentorID),
		zap.Int64("mentee_id", m.MenteeID),
		zap.String("type", string(m.Type)),
	)

	return nil
}

// GetByID retrieves a mentorship with participant names, nil when absent.
func (r *mentorshipRepository) GetByID(ctx context.Context, id int64) (*models.Mentorship, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s
		FROM mentorships m
		INNER JOIN users mentor ON mentor.id = m.mentor_id
		INNER JOIN users mentee ON mentee.id = m.mentee_id
		WHERE m.id = $1`, mentorshipColumns, mentorshipJoins)

	m, err := r.scanMentorship(r.QueryRowContext(ctx, query, id))
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get mentorship: %w", err)
	}
	return m, nil
}

// HasPendingBetween reports whether a pending request already links the pair.
func (r *mentorshipRepository) HasPendingBetween(ctx context.Context, mentorID, menteeID int64) (bool, error) {
	var exists bool
	err := r.QueryRowContext(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM mentorships
			WHERE mentor_id = $1 AND mentee_id = $2 AND status = 'pending'
		)`,
		mentorID, menteeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check pending request: %w", err)
	}
	return exists, nil
}

// UpdateStatus performs a guarded transition. The WHERE status predicate makes
// concurrent responders race on the row: exactly one UPDATE matches, the rest
// see false.
func (r *mentorshipRepository) UpdateStatus(ctx context.Context, id int64, from, to models.MentorshipStatus, update StatusUpdate) (bool, error) {
	query := `
		UPDATE mentorships SET
			status = $3,
			response_message = COALESCE($4, response_message),
			responded_at = COALESCE($5, responded_at),
			started_at = COALESCE($6, started_at),
			completed_at = COALESCE($7, completed_at),
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND status = $2`

	result, err := r.ExecContext(ctx, query,
		id, from, to,
		update.ResponseMessage, update.RespondedAt, update.StartedAt, update.CompletedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update mentorship status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}

	if affected == 0 {
		r.GetLogger().Warn("Mentorship status transition missed",
			zap.Int64("mentorship_id", id),
			zap.String("from", string(from)),
			zap.String("to", string(to)),
		)
		return false, nil
	}

	r.GetLogger().Info("Mentorship status updated",
		zap.Int64("mentorship_id", id),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)
	return true, nil
}

// ListIncoming returns pending requests addressed to the mentor, newest
// first.
func (r *mentorshipRepository) ListIncoming(ctx context.Context, mentorID int64) ([]*models.Mentorship, error) {
	return r.list(ctx,
		`m.mentor_id = $1 AND m.status = 'pending'`,
		`m.requested_at DESC, m.id DESC`,
		mentorID,
	)
}

// ListOutgoing returns every request the mentee ever sent, any status, newest
// first, so the outgoing page shows the full history.
func (r *mentorshipRepository) ListOutgoing(ctx context.Context, menteeID int64) ([]*models.Mentorship, error) {
	return r.list(ctx,
		`m.mentee_id = $1`,
		`m.requested_at DESC, m.id DESC`,
		menteeID,
	)
}

// ListActive returns active mentorships the user participates in on either
// side, longest-running first.
func (r *mentorshipRepository) ListActive(ctx context.Context, userID int64) ([]*models.Mentorship, error) {
	return r.list(ctx,
		`(m.mentor_id = $1 OR m.mentee_id = $1) AND m.status = 'active'`,
		`m.started_at ASC NULLS LAST, m.id ASC`,
		userID,
	)
}

// CountPending returns the mentor's unanswered request count for the badge.
func (r *mentorshipRepository) CountPending(ctx context.Context, mentorID int64) (int64, error) {
	var count int64
	err := r.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM mentorships WHERE mentor_id = $1 AND status = 'pending'`,
		mentorID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending requests: %w", err)
	}
	return count, nil
}

// CountActiveAsMentor returns how many mentees the mentor currently carries.
func (r *mentorshipRepository) CountActiveAsMentor(ctx context.Context, mentorID int64) (int64, error) {
	var count int64
	err := r.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM mentorships WHERE mentor_id = $1 AND status = 'active'`,
		mentorID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active mentorships: %w", err)
	}
	return count, nil
}

// GetFocusAreas returns the expertise tags attached to the request.
func (r *mentorshipRepository) GetFocusAreas(ctx context.Context, mentorshipID int64) ([]models.Expertise, error) {
	query := `
		SELECT e.id, e.category_id, e.name, e.is_active, e.created_at
		FROM mentorship_expertise me
		INNER JOIN expertise e ON e.id = me.expertise_id
		WHERE me.mentorship_id = $1
		ORDER BY e.name`

	rows, err := r.QueryContext(ctx, query, mentorshipID)
	if err != nil {
		return nil, fmt.Errorf("failed to get focus areas: %w", err)
	}
	defer rows.Close()

	var tags []models.Expertise
	for rows.Next() {
		var e models.Expertise
		if err := rows.Scan(&e.ID, &e.CategoryID, &e.Name, &e.IsActive, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan focus area: %w", err)
		}
		tags = append(tags, e)
	}
	return tags, rows.Err()
}

func (r *mentorshipRepository) list(ctx context.Context, where, orderBy string, args ...interface{}) ([]*models.Mentorship, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s
		FROM mentorships m
		INNER JOIN users mentor ON mentor.id = m.mentor_id
		INNER JOIN users mentee ON mentee.id = m.mentee_id
		WHERE %s
		ORDER BY %s`, mentorshipColumns, mentorshipJoins, where, orderBy)

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list mentorships: %w", err)
	}
	defer rows.Close()

	var mentorships []*models.Mentorship
	for rows.Next() {
		m, err := r.scanMentorship(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mentorship: %w", err)
		}
		mentorships = append(mentorships, m)
	}
	return mentorships, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *mentorshipRepository) scanMentorship(row rowScanner) (*models.Mentorship, error) {
	var m models.Mentorship
	err := row.Scan(
		&m.ID, &m.MentorID, &m.MenteeID, &m.Status, &m.Type,
		&m.RequestMessage, &m.ResponseMessage, &m.Notes, &m.PreferredFrequency,
		&m.RequestedAt, &m.RespondedAt, &m.StartedAt, &m.CompletedAt, &m.UpdatedAt,
		&m.MentorName, &m.MenteeName, &m.MentorHeadshotURL, &m.MenteeHeadshotURL,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
