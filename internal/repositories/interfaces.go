// file: internal/repositories/interfaces.go
package repositories

import (
	"context"
	"errors"
	"time"

	"speakerhub/internal/models"
)

// Sentinel errors surfaced by repositories for constraint violations the
// service layer turns into typed conflicts.
var (
	// ErrDuplicatePendingRequest fires when the partial unique index on
	// (mentor_id, mentee_id) WHERE status = 'pending' rejects an insert.
	ErrDuplicatePendingRequest = errors.New("a pending request between these users already exists")

	// ErrSelfMentorship fires when the mentor <> mentee check constraint
	// rejects an insert.
	ErrSelfMentorship = errors.New("mentor and mentee must be different users")
)

// UserRepository persists speaker profiles.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdateHeadshot(ctx context.Context, userID int64, url string) error

	SetExpertise(ctx context.Context, userID int64, expertiseIDs []int64) error
	GetExpertise(ctx context.Context, userID int64) ([]models.Expertise, error)

	ListSocialLinks(ctx context.Context, userID int64) ([]models.SocialMediaLink, error)
	AddSocialLink(ctx context.Context, link *models.SocialMediaLink) error
	DeleteSocialLink(ctx context.Context, userID, linkID int64) error

	// CountSearch and SearchPage implement the directory filter set. The two
	// calls share the same WHERE composition so counts always match pages.
	CountSearch(ctx context.Context, filter models.SpeakerFilter) (int64, error)
	SearchPage(ctx context.Context, filter models.SpeakerFilter, limit, offset int) ([]*models.User, error)
}

// StatusUpdate carries the field changes applied alongside a guarded status
// transition.
type StatusUpdate struct {
	ResponseMessage *string
	RespondedAt     *time.Time
	StartedAt       *time.Time
	CompletedAt     *time.Time
}

// MentorshipRepository persists the mentorship workflow entity.
type MentorshipRepository interface {
	// Create inserts the mentorship and its focus-area rows in one
	// transaction. Returns ErrDuplicatePendingRequest or ErrSelfMentorship
	// on the corresponding constraint violations.
	Create(ctx context.Context, m *models.Mentorship, focusAreaIDs []int64) error

	GetByID(ctx context.Context, id int64) (*models.Mentorship, error)
	HasPendingBetween(ctx context.Context, mentorID, menteeID int64) (bool, error)

	// UpdateStatus performs a guarded transition: the row is only updated when
	// its current status equals from. Returns false when no row matched,
	// which callers treat as a lost race or an illegal transition.
	UpdateStatus(ctx context.Context, id int64, from, to models.MentorshipStatus, update StatusUpdate) (bool, error)

	ListIncoming(ctx context.Context, mentorID int64) ([]*models.Mentorship, error)
	ListOutgoing(ctx context.Context, menteeID int64) ([]*models.Mentorship, error)
	ListActive(ctx context.Context, userID int64) ([]*models.Mentorship, error)
	CountPending(ctx context.Context, mentorID int64) (int64, error)
	CountActiveAsMentor(ctx context.Context, mentorID int64) (int64, error)

	GetFocusAreas(ctx context.Context, mentorshipID int64) ([]models.Expertise, error)
}

// ExpertiseRepository reads the sector/category/expertise taxonomy.
type ExpertiseRepository interface {
	ListSectors(ctx context.Context) ([]models.Sector, error)
	ListCategories(ctx context.Context, sectorID *int64) ([]models.ExpertiseCategory, error)
	ListExpertise(ctx context.Context, categoryID *int64) ([]models.Expertise, error)
	GetByIDs(ctx context.Context, ids []int64) ([]models.Expertise, error)

	// SharedExpertise returns the expertise tags both users carry, used for
	// the request-modal context.
	SharedExpertise(ctx context.Context, userA, userB int64) ([]models.Expertise, error)
}

// SessionRepository persists server-side login sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByToken(ctx context.Context, token string) (*models.Session, error)
	Delete(ctx context.Context, token string) error
	DeleteByUserID(ctx context.Context, userID int64) error
	DeleteExpired(ctx context.Context) (int64, error)
}
