// file: internal/services/speaker_service.go
package services

import (
	"context"
	"mime/multipart"
	"strings"

	"speakerhub/internal/models"
	"speakerhub/internal/repositories"
	"speakerhub/internal/validation"

	"go.uber.org/zap"
)

// speakerService implements the speaker directory and profile logic
type speakerService struct {
	userRepo      repositories.UserRepository
	expertiseRepo repositories.ExpertiseRepository
	fileService   FileService
	logger        *zap.Logger
}

// NewSpeakerService creates a new speaker service
func NewSpeakerService(
	userRepo repositories.UserRepository,
	expertiseRepo repositories.ExpertiseRepository,
	fileService FileService,
	logger *zap.Logger,
) SpeakerService {
	return &speakerService{
		userRepo:      userRepo,
		expertiseRepo: expertiseRepo,
		fileService:   fileService,
		logger:        logger,
	}
}

// ===============================
// DIRECTORY
// ===============================

// SearchSpeakers serves the public directory: filter, count, clamp the page
// into range, then fetch that page. An out-of-range page never errors, it
// lands on the nearest valid page.
func (s *speakerService) SearchSpeakers(ctx context.Context, req *SearchSpeakersRequest) (*models.PaginatedResponse[*models.User], error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid search request", err)
	}

	filter := models.SpeakerFilter{
		SearchTerm:    strings.TrimSpace(req.SearchTerm),
		SpeakerTypeID: req.SpeakerTypeID,
		ExpertiseIDs:  uniqueIDs(req.ExpertiseIDs),
		AvailableNow:  req.AvailableNow,
		Sort:          normalizeSort(req.Sort),
	}

	return s.paginate(ctx, filter, req.Page)
}

// BrowseMentors serves the mentor browse page. The candidate pool is always
// experienced speakers who are available and under capacity, excluding the
// requester; the mentorship type is derived later from the requester's own
// speaker type.
func (s *speakerService) BrowseMentors(ctx context.Context, req *BrowseMentorsRequest) (*models.PaginatedResponse[*models.User], error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid browse request", err)
	}

	user, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, NewInternalError("failed to load your profile")
	}
	if user == nil || !user.IsActive {
		return nil, NewUnauthorizedError("your profile is not active")
	}

	experienced := int64(models.SpeakerTypeExperienced)
	filter := models.SpeakerFilter{
		SearchTerm:            strings.TrimSpace(req.SearchTerm),
		SpeakerTypeID:         &experienced,
		ExpertiseIDs:          uniqueIDs(req.ExpertiseIDs),
		ExcludeUserID:         &req.UserID,
		RequireMentorCapacity: true,
		Sort:                  normalizeSort(req.Sort),
	}

	return s.paginate(ctx, filter, req.Page)
}

func (s *speakerService) paginate(ctx context.Context, filter models.SpeakerFilter, page int) (*models.PaginatedResponse[*models.User], error) {
	total, err := s.userRepo.CountSearch(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to count speakers", zap.Error(err))
		return nil, NewInternalError("failed to search speakers")
	}

	totalPages := totalPagesFor(total, models.SpeakerPageSize)
	page = clampPage(page, totalPages)
	offset := (page - 1) * models.SpeakerPageSize

	speakers, err := s.userRepo.SearchPage(ctx, filter, models.SpeakerPageSize, offset)
	if err != nil {
		s.logger.Error("Failed to fetch speaker page", zap.Error(err))
		return nil, NewInternalError("failed to search speakers")
	}

	for _, sp := range speakers {
		sp.PasswordHash = ""
	}

	return &models.PaginatedResponse[*models.User]{
		Data: speakers,
		Pagination: models.PaginationMeta{
			CurrentPage:  page,
			TotalPages:   totalPages,
			TotalItems:   total,
			ItemsPerPage: models.SpeakerPageSize,
			HasNext:      page < totalPages,
			HasPrev:      page > 1,
		},
		Filters: filter,
	}, nil
}

// totalPagesFor never returns less than 1 so an empty result still renders
// page 1 of 1.
func totalPagesFor(total int64, pageSize int) int {
	pages := int((total + int64(pageSize) - 1) / int64(pageSize))
	if pages < 1 {
		return 1
	}
	return pages
}

func clampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

func normalizeSort(sort string) string {
	switch sort {
	case models.SpeakerSortNewest, models.SpeakerSortExpertise:
		return sort
	default:
		return models.SpeakerSortName
	}
}

// ===============================
// PROFILES
// ===============================

// GetSpeaker returns a public speaker profile with expertise and links.
func (s *speakerService) GetSpeaker(ctx context.Context, id int64) (*models.User, error) {
	if id <= 0 {
		return nil, NewValidationError("invalid speaker ID", nil)
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get speaker", zap.Error(err), zap.Int64("speaker_id", id))
		return nil, NewInternalError("failed to retrieve speaker")
	}
	if user == nil || !user.IsActive {
		return nil, NewNotFoundError("speaker not found")
	}

	if user.Expertise, err = s.userRepo.GetExpertise(ctx, id); err != nil {
		s.logger.Warn("Failed to load expertise", zap.Error(err), zap.Int64("speaker_id", id))
	}
	if user.SocialLinks, err = s.userRepo.ListSocialLinks(ctx, id); err != nil {
		s.logger.Warn("Failed to load social links", zap.Error(err), zap.Int64("speaker_id", id))
	}

	user.PasswordHash = ""
	return user, nil
}

// UpdateProfile writes the editable profile fields.
func (s *speakerService) UpdateProfile(ctx context.Context, req *UpdateProfileRequest) (*models.User, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid profile update", err)
	}

	user, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, NewInternalError("failed to load profile")
	}
	if user == nil {
		return nil, NewNotFoundError("profile not found")
	}

	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.PhoneNumber = req.PhoneNumber
	user.Bio = req.Bio
	user.Goals = req.Goals
	user.SessionizeURL = req.SessionizeURL
	user.SpeakerTypeID = req.SpeakerTypeID
	user.IsAvailableForMentoring = req.IsAvailableForMentoring
	user.MaxMentees = req.MaxMentees

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update profile", zap.Error(err), zap.Int64("user_id", req.UserID))
		return nil, NewInternalError("failed to update profile")
	}

	s.logger.Info("Profile updated", zap.Int64("user_id", user.ID))
	user.PasswordHash = ""
	return user, nil
}

// SetExpertise replaces the user's expertise tags after resolving them
// against the catalog.
func (s *speakerService) SetExpertise(ctx context.Context, userID int64, expertiseIDs []int64) error {
	ids := uniqueIDs(expertiseIDs)
	if len(ids) > 0 {
		tags, err := s.expertiseRepo.GetByIDs(ctx, ids)
		if err != nil {
			return NewInternalError("failed to resolve expertise")
		}
		if len(tags) != len(ids) {
			return NewValidationError("one or more expertise tags are unknown", nil)
		}
	}

	if err := s.userRepo.SetExpertise(ctx, userID, ids); err != nil {
		s.logger.Error("Failed to set expertise", zap.Error(err), zap.Int64("user_id", userID))
		return NewInternalError("failed to update expertise")
	}
	return nil
}

// UploadHeadshot stores a new headshot and records its URL on the profile.
func (s *speakerService) UploadHeadshot(ctx context.Context, userID int64, file multipart.File, header *multipart.FileHeader) (string, error) {
	url, err := s.fileService.UploadImage(ctx, userID, file, header)
	if err != nil {
		return "", err
	}

	if err := s.userRepo.UpdateHeadshot(ctx, userID, url); err != nil {
		s.logger.Error("Failed to record headshot", zap.Error(err), zap.Int64("user_id", userID))
		return "", NewInternalError("failed to update headshot")
	}

	s.logger.Info("Headshot updated", zap.Int64("user_id", userID))
	return url, nil
}

// ===============================
// SOCIAL LINKS
// ===============================

func (s *speakerService) AddSocialLink(ctx context.Context, req *AddSocialLinkRequest) (*models.SocialMediaLink, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid social link", err)
	}

	link := &models.SocialMediaLink{
		UserID:   req.UserID,
		SiteName: req.SiteName,
		URL:      req.URL,
	}
	if err := s.userRepo.AddSocialLink(ctx, link); err != nil {
		s.logger.Error("Failed to add social link", zap.Error(err), zap.Int64("user_id", req.UserID))
		return nil, NewInternalError("failed to add social link")
	}
	return link, nil
}

func (s *speakerService) RemoveSocialLink(ctx context.Context, userID, linkID int64) error {
	if err := s.userRepo.DeleteSocialLink(ctx, userID, linkID); err != nil {
		return NewNotFoundError("social link not found")
	}
	return nil
}
