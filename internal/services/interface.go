// file: internal/services/interface.go
package services

import (
	"context"
	"mime/multipart"

	"speakerhub/internal/models"
)

// ===============================
// CORE SERVICE INTERFACES
// ===============================

// MentorshipService defines the mentorship workflow business logic
type MentorshipService interface {
	// Request lifecycle
	CreateRequest(ctx context.Context, req *CreateMentorshipRequest) (*models.Mentorship, error)
	RespondToRequest(ctx context.Context, req *RespondToRequestRequest) (*models.Mentorship, error)
	CancelMentorship(ctx context.Context, mentorshipID, userID int64) (*models.Mentorship, error)
	CompleteMentorship(ctx context.Context, mentorshipID, userID int64) (*models.Mentorship, error)

	// Reads
	GetMentorship(ctx context.Context, mentorshipID, userID int64) (*models.Mentorship, error)
	GetRequestContext(ctx context.Context, mentorID, menteeID int64) (*RequestContext, error)
	ListIncomingRequests(ctx context.Context, mentorID int64) ([]*models.Mentorship, error)
	ListOutgoingRequests(ctx context.Context, menteeID int64) ([]*models.Mentorship, error)
	ListActiveMentorships(ctx context.Context, userID int64) ([]*models.Mentorship, error)

	// Notification badge
	GetPendingCount(ctx context.Context, mentorID int64) (int64, error)
}

// SpeakerService defines speaker directory and profile business logic
type SpeakerService interface {
	// Directory
	SearchSpeakers(ctx context.Context, req *SearchSpeakersRequest) (*models.PaginatedResponse[*models.User], error)
	BrowseMentors(ctx context.Context, req *BrowseMentorsRequest) (*models.PaginatedResponse[*models.User], error)

	// Profiles
	GetSpeaker(ctx context.Context, id int64) (*models.User, error)
	UpdateProfile(ctx context.Context, req *UpdateProfileRequest) (*models.User, error)
	SetExpertise(ctx context.Context, userID int64, expertiseIDs []int64) error
	UploadHeadshot(ctx context.Context, userID int64, file multipart.File, header *multipart.FileHeader) (string, error)

	// Social links
	AddSocialLink(ctx context.Context, req *AddSocialLinkRequest) (*models.SocialMediaLink, error)
	RemoveSocialLink(ctx context.Context, userID, linkID int64) error
}

// CatalogService serves the sector/category/expertise taxonomy
type CatalogService interface {
	ListSectors(ctx context.Context) ([]models.Sector, error)
	ListCategories(ctx context.Context, sectorID *int64) ([]models.ExpertiseCategory, error)
	ListExpertise(ctx context.Context, categoryID *int64) ([]models.Expertise, error)
}

// AuthService defines authentication business logic
type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *LoginRequest) (*LoginResult, error)
	Logout(ctx context.Context, token string) error
	GetSessionUser(ctx context.Context, token string) (*models.User, error)

	// JWT for API clients
	IssueToken(ctx context.Context, user *models.User) (string, error)
	ValidateToken(ctx context.Context, token string) (int64, error)

	// GitHub OAuth
	GitHubAuthURL(state string) string
	GitHubCallback(ctx context.Context, code string) (*LoginResult, error)

	ReapExpiredSessions(ctx context.Context) (int64, error)
}

// EmailService sends notification emails. Delivery is best effort and never
// blocks the triggering operation.
type EmailService interface {
	SendMentorshipRequested(ctx context.Context, mentor, mentee *models.User, m *models.Mentorship) error
	SendMentorshipResponded(ctx context.Context, mentor, mentee *models.User, m *models.Mentorship) error
	SendMentorshipEnded(ctx context.Context, recipient *models.User, m *models.Mentorship) error
}

// FileService handles media uploads
type FileService interface {
	UploadImage(ctx context.Context, userID int64, file multipart.File, header *multipart.FileHeader) (string, error)
	DeleteImage(ctx context.Context, publicID string) error
}
