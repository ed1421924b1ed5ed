// file: internal/services/types.go
package services

import (
	"speakerhub/internal/models"
)

// ===============================
// MENTORSHIP SERVICE TYPES
// ===============================

// CreateMentorshipRequest carries a mentee's request to a mentor.
type CreateMentorshipRequest struct {
	MenteeID           int64   `json:"-"`
	MentorID           int64   `json:"mentor_id" validate:"required,gt=0"`
	Message            string  `json:"message" validate:"required,max=2000"`
	PreferredFrequency *string `json:"preferred_frequency,omitempty" validate:"omitempty,max=100"`
	FocusAreaIDs       []int64 `json:"focus_area_ids,omitempty" validate:"omitempty,max=10,dive,gt=0"`
}

// RespondToRequestRequest carries a mentor's accept or decline.
type RespondToRequestRequest struct {
	MentorshipID    int64   `json:"-"`
	MentorID        int64   `json:"-"`
	Accept          bool    `json:"accept"`
	ResponseMessage *string `json:"response_message,omitempty" validate:"omitempty,max=2000"`
}

// RequestContext backs the request modal: the mentor being asked, what the
// pair has in common, and whether a request is already in flight.
type RequestContext struct {
	Mentor          *models.User       `json:"mentor"`
	SharedExpertise []models.Expertise `json:"shared_expertise"`
	HasPending      bool               `json:"has_pending"`
	AtCapacity      bool               `json:"at_capacity"`
}

// ===============================
// SPEAKER SERVICE TYPES
// ===============================

// SearchSpeakersRequest drives the public directory page.
type SearchSpeakersRequest struct {
	SearchTerm    string  `json:"search_term" validate:"omitempty,max=200"`
	SpeakerTypeID *int64  `json:"speaker_type_id,omitempty" validate:"omitempty,oneof=1 2"`
	ExpertiseIDs  []int64 `json:"expertise_ids,omitempty" validate:"omitempty,dive,gt=0"`
	AvailableNow  *bool   `json:"available_now,omitempty"`
	Sort          string  `json:"sort" validate:"omitempty,oneof=name newest expertise"`
	Page          int     `json:"page" validate:"omitempty,gte=0"`
}

// BrowseMentorsRequest drives the mentor browse page. The candidate pool is
// derived from the requesting user's speaker type.
type BrowseMentorsRequest struct {
	UserID       int64   `json:"-"`
	SearchTerm   string  `json:"search_term" validate:"omitempty,max=200"`
	ExpertiseIDs []int64 `json:"expertise_ids,omitempty" validate:"omitempty,dive,gt=0"`
	Sort         string  `json:"sort" validate:"omitempty,oneof=name newest expertise"`
	Page         int     `json:"page" validate:"omitempty,gte=0"`
}

// UpdateProfileRequest carries the editable profile fields.
type UpdateProfileRequest struct {
	UserID                  int64   `json:"-"`
	FirstName               string  `json:"first_name" validate:"required,max=100"`
	LastName                string  `json:"last_name" validate:"required,max=100"`
	PhoneNumber             *string `json:"phone_number,omitempty" validate:"omitempty,max=30"`
	Bio                     *string `json:"bio,omitempty" validate:"omitempty,max=6000"`
	Goals                   *string `json:"goals,omitempty" validate:"omitempty,max=2000"`
	SessionizeURL           *string `json:"sessionize_url,omitempty" validate:"omitempty,url,max=500"`
	SpeakerTypeID           int64   `json:"speaker_type_id" validate:"required,oneof=1 2"`
	IsAvailableForMentoring bool    `json:"is_available_for_mentoring"`
	MaxMentees              int     `json:"max_mentees" validate:"gte=0,lte=20"`
}

// AddSocialLinkRequest attaches a social media link to a profile.
type AddSocialLinkRequest struct {
	UserID   int64  `json:"-"`
	SiteName string `json:"site_name" validate:"required,max=50"`
	URL      string `json:"url" validate:"required,url,max=500"`
}

// ===============================
// AUTH SERVICE TYPES
// ===============================

// RegisterRequest creates a new speaker account.
type RegisterRequest struct {
	Email         string `json:"email" validate:"required,email,max=254"`
	Username      string `json:"username" validate:"required,alphanum,min=3,max=30"`
	Password      string `json:"password" validate:"required,min=8,max=72"`
	FirstName     string `json:"first_name" validate:"required,max=100"`
	LastName      string `json:"last_name" validate:"required,max=100"`
	SpeakerTypeID int64  `json:"speaker_type_id" validate:"required,oneof=1 2"`
}

// LoginRequest authenticates by email or username.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required,max=254"`
	Password   string `json:"password" validate:"required"`
}

// LoginResult bundles the session established on login.
type LoginResult struct {
	User         *models.User `json:"user"`
	SessionToken string       `json:"-"`
	ExpiresAt    int64        `json:"expires_at"`
}
