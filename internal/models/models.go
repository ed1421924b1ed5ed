// file: internal/models/models.go
package models

import (
	"strings"
	"time"
)

// ===============================
// SPEAKER TYPES
// ===============================

// Speaker type identifiers. These are seeded rows in the speaker_types table
// and drive mentorship direction and candidate filtering.
const (
	SpeakerTypeNew         int64 = 1
	SpeakerTypeExperienced int64 = 2
)

// SpeakerType is a catalog row describing a speaker classification.
type SpeakerType struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Field length limits enforced on profile and mentorship free-text fields.
const (
	BioMaxLength                = 6000
	GoalsMaxLength              = 2000
	RequestMessageMaxLength     = 2000
	ResponseMessageMaxLength    = 2000
	PreferredFrequencyMaxLength = 100
)

// DefaultMaxMentees is the mentee limit applied to new accounts until the
// speaker tunes it.
const DefaultMaxMentees = 3

// ===============================
// USER (SPEAKER)
// ===============================

// User is a registered speaker profile.
type User struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`

	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	PhoneNumber   *string `json:"phone_number,omitempty"`
	Bio           *string `json:"bio,omitempty"`
	Goals         *string `json:"goals,omitempty"`
	SessionizeURL *string `json:"sessionize_url,omitempty"`
	HeadshotURL   *string `json:"headshot_url,omitempty"`

	SpeakerTypeID           int64 `json:"speaker_type_id"`
	IsAvailableForMentoring bool  `json:"is_available_for_mentoring"`
	MaxMentees              int   `json:"max_mentees"`

	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Populated by joins where the query asks for them.
	ExpertiseCount int               `json:"expertise_count,omitempty"`
	Expertise      []Expertise       `json:"expertise,omitempty"`
	SocialLinks    []SocialMediaLink `json:"social_links,omitempty"`
}

// FullName returns the display name derived from first and last name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// IsExperienced reports whether the user is classified as an experienced speaker.
func (u *User) IsExperienced() bool {
	return u.SpeakerTypeID == SpeakerTypeExperienced
}

// SocialMediaLink is a profile link on a social media site.
type SocialMediaLink struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	SiteName  string    `json:"site_name"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

// ===============================
// EXPERTISE TAXONOMY
// ===============================

// Sector is the top level of the expertise taxonomy.
type Sector struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// ExpertiseCategory groups expertise tags under a sector.
type ExpertiseCategory struct {
	ID        int64     `json:"id"`
	SectorID  int64     `json:"sector_id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`

	// Joined display field.
	SectorName string `json:"sector_name,omitempty"`
}

// Expertise is a leaf tag speakers attach to their profile and mentees attach
// to a mentorship as a focus area.
type Expertise struct {
	ID         int64     `json:"id"`
	CategoryID int64     `json:"category_id"`
	Name       string    `json:"name"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`

	// Joined display fields.
	CategoryName string `json:"category_name,omitempty"`
	SectorName   string `json:"sector_name,omitempty"`
}

// UserExpertise is the (user, expertise) association row.
type UserExpertise struct {
	UserID      int64 `json:"user_id"`
	ExpertiseID int64 `json:"expertise_id"`
}

// ===============================
// SESSIONS
// ===============================

// Session is a server-side login session.
type Session struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the session is past its expiry.
func (s *Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}
