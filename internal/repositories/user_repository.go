// file: internal/repositories/user_repository.go
package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"speakerhub/internal/database"
	"speakerhub/internal/models"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type userRepository struct {
	*BaseRepository
}

// NewUserRepository creates a new instance of UserRepository
func NewUserRepository(db *database.Manager, logger *zap.Logger) UserRepository {
	return &userRepository{BaseRepository: NewBaseRepository(db, logger)}
}

const userColumns = `
	u.id, u.email, u.username, u.password_hash,
	u.first_name, u.last_name, u.phone_number, u.bio, u.goals,
	u.sessionize_url, u.headshot_url,
	u.speaker_type_id, u.is_available_for_mentoring, u.max_mentees,
	u.is_active, u.created_at, u.updated_at`

// Create inserts a new speaker profile.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (
			email, username, password_hash, first_name, last_name,
			phone_number, bio, goals, sessionize_url, headshot_url,
			speaker_type_id, is_available_for_mentoring, max_mentees
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, is_active, created_at, updated_at`

	err := r.QueryRowContext(
		ctx, query,
		user.Email, user.Username, user.PasswordHash, user.FirstName, user.LastName,
		user.PhoneNumber, user.Bio, user.Goals, user.SessionizeURL, user.HeadshotURL,
		user.SpeakerTypeID, user.IsAvailableForMentoring, user.MaxMentees,
	).Scan(&user.ID, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		r.GetLogger().Error("Failed to create user",
			zap.Error(err),
			zap.String("username", user.Username),
		)
		return fmt.Errorf("failed to create user: %w", err)
	}

	r.GetLogger().Info("User created",
		zap.Int64("user_id", user.ID),
		zap.String("username", user.Username),
		zap.Int64("speaker_type_id", user.SpeakerTypeID),
	)

	return nil
}

// GetByID retrieves a speaker by ID, nil when absent.
func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users u WHERE u.id = $1`, userColumns)
	return r.scanOne(r.QueryRowContext(ctx, query, id))
}

// GetByEmail retrieves a speaker by email, nil when absent.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users u WHERE LOWER(u.email) = LOWER($1)`, userColumns)
	return r.scanOne(r.QueryRowContext(ctx, query, email))
}

// GetByUsername retrieves a speaker by username, nil when absent.
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users u WHERE LOWER(u.username) = LOWER($1)`, userColumns)
	return r.scanOne(r.QueryRowContext(ctx, query, username))
}

// Update writes the editable profile fields.
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users SET
			first_name = $2, last_name = $3, phone_number = $4,
			bio = $5, goals = $6, sessionize_url = $7,
			speaker_type_id = $8, is_available_for_mentoring = $9, max_mentees = $10,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING updated_at`

	err := r.QueryRowContext(
		ctx, query,
		user.ID, user.FirstName, user.LastName, user.PhoneNumber,
		user.Bio, user.Goals, user.SessionizeURL,
		user.SpeakerTypeID, user.IsAvailableForMentoring, user.MaxMentees,
	).Scan(&user.UpdatedAt)

	if err != nil {
		if r.IsNotFound(err) {
			return fmt.Errorf("user %d not found", user.ID)
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	return nil
}

// UpdateHeadshot stores the uploaded headshot URL.
func (r *userRepository) UpdateHeadshot(ctx context.Context, userID int64, url string) error {
	_, err := r.ExecContext(ctx,
		`UPDATE users SET headshot_url = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $1`,
		userID, url,
	)
	if err != nil {
		return fmt.Errorf("failed to update headshot: %w", err)
	}
	return nil
}

// SetExpertise replaces the user's expertise tag set in one transaction.
func (r *userRepository) SetExpertise(ctx context.Context, userID int64, expertiseIDs []int64) error {
	return r.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM user_expertise WHERE user_id = $1`, userID); err != nil {
			return fmt.Errorf("failed to clear expertise: %w", err)
		}
		for _, expertiseID := range expertiseIDs {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO user_expertise (user_id, expertise_id) VALUES ($1, $2)`,
				userID, expertiseID,
			); err != nil {
				return fmt.Errorf("failed to add expertise %d: %w", expertiseID, err)
			}
		}
		return nil
	})
}

// GetExpertise returns the user's active expertise tags with taxonomy names.
func (r *userRepository) GetExpertise(ctx context.Context, userID int64) ([]models.Expertise, error) {
	query := `
		SELECT e.id, e.category_id, e.name, e.is_active, e.created_at, c.name, s.name
		FROM user_expertise ue
		INNER JOIN expertise e ON e.id = ue.expertise_id
		INNER JOIN expertise_categories c ON c.id = e.category_id
		INNER JOIN sectors s ON s.id = c.sector_id
		WHERE ue.user_id = $1 AND e.is_active = true
		ORDER BY s.name, c.name, e.name`

	rows, err := r.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user expertise: %w", err)
	}
	defer rows.Close()

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

// ListSocialLinks returns the user's social media links.
func (r *userRepository) ListSocialLinks(ctx context.Context, userID int64) ([]models.SocialMediaLink, error) {
	rows, err := r.QueryContext(ctx,
		`SELECT id, user_id, site_name, url, created_at FROM social_media_links WHERE user_id = $1 ORDER BY site_name`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list social links: %w", err)
	}
	defer rows.Close()

	var links []models.SocialMediaLink
	for rows.Next() {
		var link models.SocialMediaLink
		if err := rows.Scan(&link.ID, &link.UserID, &link.SiteName, &link.URL, &link.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan social link: %w", err)
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

// AddSocialLink inserts a social media link.
func (r *userRepository) AddSocialLink(ctx context.Context, link *models.SocialMediaLink) error {
	err := r.QueryRowContext(ctx,
		`INSERT INTO social_media_links (user_id, site_name, url) VALUES ($1, $2, $3) RETURNING id, created_at`,
		link.UserID, link.SiteName, link.URL,
	).Scan(&link.ID, &link.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to add social link: %w", err)
	}
	return nil
}

// DeleteSocialLink removes a social media link owned by the user.
func (r *userRepository) DeleteSocialLink(ctx context.Context, userID, linkID int64) error {
	result, err := r.ExecContext(ctx,
		`DELETE FROM social_media_links WHERE id = $1 AND user_id = $2`,
		linkID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete social link: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("social link %d not found", linkID)
	}
	return nil
}

// ===============================
// DIRECTORY SEARCH
// ===============================

// buildSpeakerWhere composes the directory filter set into a WHERE clause.
// CountSearch and SearchPage both go through here so totals always match the
// page contents.
func buildSpeakerWhere(filter models.SpeakerFilter) (string, []interface{}) {
	clauses := []string{"u.is_active = true"}
	var args []interface{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if term := strings.TrimSpace(filter.SearchTerm); term != "" {
		p := arg("%" + term + "%")
		clauses = append(clauses, fmt.Sprintf(`(
			u.first_name ILIKE %[1]s OR u.last_name ILIKE %[1]s OR u.bio ILIKE %[1]s
			OR EXISTS (
				SELECT 1 FROM user_expertise ue
				INNER JOIN expertise e ON e.id = ue.expertise_id
				WHERE ue.user_id = u.id AND e.name ILIKE %[1]s
			))`, p))
	}

	if filter.SpeakerTypeID != nil {
		clauses = append(clauses, fmt.Sprintf("u.speaker_type_id = %s", arg(*filter.SpeakerTypeID)))
	}

	if len(filter.ExpertiseIDs) > 0 {
		clauses = append(clauses, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM user_expertise ue WHERE ue.user_id = u.id AND ue.expertise_id = ANY(%s))",
			arg(pq.Array(filter.ExpertiseIDs)),
		))
	}

	if filter.AvailableNow != nil {
		clauses = append(clauses, fmt.Sprintf("u.is_available_for_mentoring = %s", arg(*filter.AvailableNow)))
	}

	if filter.ExcludeUserID != nil {
		clauses = append(clauses, fmt.Sprintf("u.id <> %s", arg(*filter.ExcludeUserID)))
	}

	if filter.RequireMentorCapacity {
		clauses = append(clauses, `u.is_available_for_mentoring = true`)
		clauses = append(clauses, `(
			SELECT COUNT(*) FROM mentorships m
			WHERE m.mentor_id = u.id AND m.status = 'active'
		) < u.max_mentees`)
	}

	return strings.Join(clauses, " AND "), args
}

func speakerOrderBy(sort string) string {
	switch sort {
	case models.SpeakerSortNewest:
		return "u.created_at DESC, u.id"
	case models.SpeakerSortExpertise:
		return "expertise_count DESC, u.first_name ASC, u.last_name ASC, u.id"
	default:
		return "u.first_name ASC, u.last_name ASC, u.id"
	}
}

// CountSearch counts speakers matching the filter.
func (r *userRepository) CountSearch(ctx context.Context, filter models.SpeakerFilter) (int64, error) {
	where, args := buildSpeakerWhere(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM users u WHERE %s`, where)

	var total int64
	if err := r.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count speakers: %w", err)
	}
	return total, nil
}

// SearchPage returns one directory page in the filter's sort order.
func (r *userRepository) SearchPage(ctx context.Context, filter models.SpeakerFilter, limit, offset int) ([]*models.User, error) {
	where, args := buildSpeakerWhere(filter)
	query := fmt.Sprintf(`
		SELECT %s,
			(SELECT COUNT(*) FROM user_expertise ue WHERE ue.user_id = u.id) AS expertise_count
		FROM users u
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`,
		userColumns, where, speakerOrderBy(filter.Sort), len(args)+1, len(args)+2)

	args = append(args, limit, offset)

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search speakers: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(
			&u.ID, &u.Email, &u.Username, &u.PasswordHash,
			&u.FirstName, &u.LastName, &u.PhoneNumber, &u.Bio, &u.Goals,
			&u.SessionizeURL, &u.HeadshotURL,
			&u.SpeakerTypeID, &u.IsAvailableForMentoring, &u.MaxMentees,
			&u.IsActive, &u.CreatedAt, &u.UpdatedAt,
			&u.ExpertiseCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan speaker: %w", err)
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}

func (r *userRepository) scanOne(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Email, &u.Username, &u.PasswordHash,
		&u.FirstName, &u.LastName, &u.PhoneNumber, &u.Bio, &u.Goals,
		&u.SessionizeURL, &u.HeadshotURL,
		&u.SpeakerTypeID, &u.IsAvailableForMentoring, &u.MaxMentees,
		&u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}
