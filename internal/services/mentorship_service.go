// file: internal/services/mentorship_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"speakerhub/internal/cache"
	"speakerhub/internal/events"
	"speakerhub/internal/models"
	"speakerhub/internal/repositories"
	"speakerhub/internal/validation"

	"go.uber.org/zap"
)

const pendingCountTTL = 30 * time.Second

// mentorshipService implements the mentorship workflow
type mentorshipService struct {
	mentorshipRepo repositories.MentorshipRepository
	userRepo       repositories.UserRepository
	expertiseRepo  repositories.ExpertiseRepository
	cache          cache.Cache
	events         *events.Bus
	logger         *zap.Logger
}

// NewMentorshipService creates a new mentorship service
func NewMentorshipService(
	mentorshipRepo repositories.MentorshipRepository,
	userRepo repositories.UserRepository,
	expertiseRepo repositories.ExpertiseRepository,
	cache cache.Cache,
	events *events.Bus,
	logger *zap.Logger,
) MentorshipService {
	return &mentorshipService{
		mentorshipRepo: mentorshipRepo,
		userRepo:       userRepo,
		expertiseRepo:  expertiseRepo,
		cache:          cache,
		events:         events,
		logger:         logger,
	}
}

// ===============================
// REQUEST LIFECYCLE
// ===============================

// CreateRequest validates eligibility and opens a pending request. The
// database closes the remaining races: the partial unique index rejects a
// concurrent duplicate and the check constraint rejects self-requests.
func (s *mentorshipService) CreateRequest(ctx context.Context, req *CreateMentorshipRequest) (*models.Mentorship, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid mentorship request", err)
	}

	if req.MentorID == req.MenteeID {
		return nil, NewBusinessError("you cannot request mentorship from yourself", "SELF_MENTORSHIP")
	}

	mentee, err := s.userRepo.GetByID(ctx, req.MenteeID)
	if err != nil {
		s.logger.Error("Failed to load mentee", zap.Error(err), zap.Int64("mentee_id", req.MenteeID))
		return nil, NewInternalError("failed to load your profile")
	}
	if mentee == nil || !mentee.IsActive {
		return nil, NewUnauthorizedError("your profile is not active")
	}

	mentor, err := s.userRepo.GetByID(ctx, req.MentorID)
	if err != nil {
		s.logger.Error("Failed to load mentor", zap.Error(err), zap.Int64("mentor_id", req.MentorID))
		return nil, NewInternalError("failed to load mentor profile")
	}
	if mentor == nil || !mentor.IsActive {
		return nil, NewNotFoundError("mentor not found")
	}

	if !mentor.IsExperienced() {
		return nil, NewBusinessError("only experienced speakers can mentor", "MENTOR_NOT_ELIGIBLE")
	}
	if !mentor.IsAvailableForMentoring {
		return nil, NewBusinessError("this speaker is not accepting mentees right now", "MENTOR_NOT_AVAILABLE")
	}

	activeCount, err := s.mentorshipRepo.CountActiveAsMentor(ctx, mentor.ID)
	if err != nil {
		return nil, NewInternalError("failed to check mentor capacity")
	}
	if int(activeCount) >= mentor.MaxMentees {
		return nil, NewBusinessError("this mentor has reached their mentee limit", "MENTOR_AT_CAPACITY")
	}

	if len(req.FocusAreaIDs) > 0 {
		tags, err := s.expertiseRepo.GetByIDs(ctx, req.FocusAreaIDs)
		if err != nil {
			return nil, NewInternalError("failed to resolve focus areas")
		}
		if len(tags) != len(uniqueIDs(req.FocusAreaIDs)) {
			return nil, NewValidationError("one or more focus areas are unknown", nil)
		}
	}

	// Friendly pre-check; the unique index has the final word.
	if pending, err := s.mentorshipRepo.HasPendingBetween(ctx, mentor.ID, mentee.ID); err == nil && pending {
		return nil, NewConflictError("you already have a pending request with this mentor", "DUPLICATE_REQUEST")
	}

	mentorship := &models.Mentorship{
		MentorID:           mentor.ID,
		MenteeID:           mentee.ID,
		Status:             models.MentorshipPending,
		Type:               models.MentorshipTypeFor(mentee.SpeakerTypeID),
		RequestMessage:     req.Message,
		PreferredFrequency: req.PreferredFrequency,
	}

	if err := s.mentorshipRepo.Create(ctx, mentorship, uniqueIDs(req.FocusAreaIDs)); err != nil {
		switch {
		case errors.Is(err, repositories.ErrDuplicatePendingRequest):
			return nil, NewConflictError("you already have a pending request with this mentor", "DUPLICATE_REQUEST")
		case errors.Is(err, repositories.ErrSelfMentorship):
			return nil, NewBusinessError("you cannot request mentorship from yourself", "SELF_MENTORSHIP")
		}
		s.logger.Error("Failed to create mentorship request", zap.Error(err))
		return nil, NewInternalError("failed to create mentorship request")
	}

	mentorship.MentorName = mentor.FullName()
	mentorship.MenteeName = mentee.FullName()

	s.invalidatePendingCount(ctx, mentor.ID)
	s.events.PublishAsync(events.NewMentorshipEvent(
		events.MentorshipRequested, mentee.ID, mentorship.ID, mentor.ID, mentee.ID, string(mentorship.Status),
	))

	s.logger.Info("Mentorship request created",
		zap.Int64("mentorship_id", mentorship.ID),
		zap.Int64("mentor_id", mentor.ID),
		zap.Int64("mentee_id", mentee.ID),
		zap.String("type", string(mentorship.Type)),
	)

	return mentorship, nil
}

// RespondToRequest lets the addressed mentor accept or decline a pending
// request. Acceptance activates the mentorship immediately.
func (s *mentorshipService) RespondToRequest(ctx context.Context, req *RespondToRequestRequest) (*models.Mentorship, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid response", err)
	}

	mentorship, err := s.getOwned(ctx, req.MentorshipID)
	if err != nil {
		return nil, err
	}
	if mentorship.MentorID != req.MentorID {
		return nil, NewForbiddenError("only the requested mentor can respond")
	}
	if mentorship.Status != models.MentorshipPending {
		return nil, NewConflictError("this request has already been resolved", "REQUEST_ALREADY_RESOLVED")
	}

	now := time.Now()
	to := models.MentorshipDeclined
	update := repositories.StatusUpdate{
		ResponseMessage: req.ResponseMessage,
		RespondedAt:     &now,
	}
	if req.Accept {
		to = models.MentorshipActive
		update.StartedAt = &now
	}

	ok, err := s.mentorshipRepo.UpdateStatus(ctx, mentorship.ID, models.MentorshipPending, to, update)
	if err != nil {
		return nil, NewInternalError("failed to update mentorship")
	}
	if !ok {
		// Someone else resolved or cancelled the request first.
		return nil, NewConflictError("this request has already been resolved", "REQUEST_ALREADY_RESOLVED")
	}

	updated, err := s.mentorshipRepo.GetByID(ctx, mentorship.ID)
	if err != nil || updated == nil {
		return nil, NewInternalError("failed to reload mentorship")
	}

	s.invalidatePendingCount(ctx, mentorship.MentorID)
	event := events.NewMentorshipEvent(
		events.MentorshipResponded, req.MentorID, updated.ID, updated.MentorID, updated.MenteeID, string(updated.Status),
	)
	event.Accepted = req.Accept
	s.events.PublishAsync(event)

	s.logger.Info("Mentorship request resolved",
		zap.Int64("mentorship_id", updated.ID),
		zap.Bool("accepted", req.Accept),
	)

	return updated, nil
}

// CancelMentorship withdraws a pending request or ends an active mentorship.
// A pending request may only be cancelled by the mentee who sent it; an
// active mentorship by either participant.
func (s *mentorshipService) CancelMentorship(ctx context.Context, mentorshipID, userID int64) (*models.Mentorship, error) {
	mentorship, err := s.getOwned(ctx, mentorshipID)
	if err != nil {
		return nil, err
	}
	if !mentorship.IsParticipant(userID) {
		return nil, NewForbiddenError("you are not part of this mentorship")
	}

	from := mentorship.Status
	switch from {
	case models.MentorshipPending:
		if mentorship.MenteeID != userID {
			return nil, NewForbiddenError("only the requester can withdraw a pending request")
		}
	case models.MentorshipActive:
		// either participant
	default:
		return nil, NewConflictError("this mentorship can no longer be cancelled", "MENTORSHIP_ALREADY_ENDED")
	}

	// Cancellation only flips status; completed_at stays reserved for
	// completed mentorships and updated_at is stamped by the SQL.
	ok, err := s.mentorshipRepo.UpdateStatus(ctx, mentorship.ID, from, models.MentorshipCancelled, repositories.StatusUpdate{})
	if err != nil {
		return nil, NewInternalError("failed to cancel mentorship")
	}
	if !ok {
		return nil, NewConflictError("this mentorship can no longer be cancelled", "MENTORSHIP_ALREADY_ENDED")
	}

	updated, err := s.mentorshipRepo.GetByID(ctx, mentorship.ID)
	if err != nil || updated == nil {
		return nil, NewInternalError("failed to reload mentorship")
	}

	if from == models.MentorshipPending {
		s.invalidatePendingCount(ctx, mentorship.MentorID)
	}
	s.events.PublishAsync(events.NewMentorshipEvent(
		events.MentorshipCancelled, userID, updated.ID, updated.MentorID, updated.MenteeID, string(updated.Status),
	))

	return updated, nil
}

// CompleteMentorship marks an active mentorship as successfully finished.
// Either participant may complete it.
func (s *mentorshipService) CompleteMentorship(ctx context.Context, mentorshipID, userID int64) (*models.Mentorship, error) {
	mentorship, err := s.getOwned(ctx, mentorshipID)
	if err != nil {
		return nil, err
	}
	if !mentorship.IsParticipant(userID) {
		return nil, NewForbiddenError("you are not part of this mentorship")
	}
	if mentorship.Status != models.MentorshipActive {
		return nil, NewConflictError("only active mentorships can be completed", "MENTORSHIP_NOT_ACTIVE")
	}

	now := time.Now()
	ok, err := s.mentorshipRepo.UpdateStatus(ctx, mentorship.ID, models.MentorshipActive, models.MentorshipCompleted,
		repositories.StatusUpdate{CompletedAt: &now})
	if err != nil {
		return nil, NewInternalError("failed to complete mentorship")
	}
	if !ok {
		return nil, NewConflictError("only active mentorships can be completed", "MENTORSHIP_NOT_ACTIVE")
	}

	updated, err := s.mentorshipRepo.GetByID(ctx, mentorship.ID)
	if err != nil || updated == nil {
		return nil, NewInternalError("failed to reload mentorship")
	}

	s.events.PublishAsync(events.NewMentorshipEvent(
		events.MentorshipCompleted, userID, updated.ID, updated.MentorID, updated.MenteeID, string(updated.Status),
	))

	return updated, nil
}

// ===============================
// READS
// ===============================

// GetMentorship returns a mentorship visible only to its participants.
func (s *mentorshipService) GetMentorship(ctx context.Context, mentorshipID, userID int64) (*models.Mentorship, error) {
	mentorship, err := s.getOwned(ctx, mentorshipID)
	if err != nil {
		return nil, err
	}
	if !mentorship.IsParticipant(userID) {
		return nil, NewForbiddenError("you are not part of this mentorship")
	}

	if mentorship.FocusAreas, err = s.mentorshipRepo.GetFocusAreas(ctx, mentorship.ID); err != nil {
		s.logger.Warn("Failed to load focus areas", zap.Error(err), zap.Int64("mentorship_id", mentorship.ID))
	}

	return mentorship, nil
}

// GetRequestContext assembles the request-modal view: the mentor, the
// expertise both speakers share, and whether another request can be sent.
func (s *mentorshipService) GetRequestContext(ctx context.Context, mentorID, menteeID int64) (*RequestContext, error) {
	mentor, err := s.userRepo.GetByID(ctx, mentorID)
	if err != nil {
		return nil, NewInternalError("failed to load mentor profile")
	}
	if mentor == nil || !mentor.IsActive {
		return nil, NewNotFoundError("mentor not found")
	}

	shared, err := s.expertiseRepo.SharedExpertise(ctx, mentorID, menteeID)
	if err != nil {
		s.logger.Warn("Failed to load shared expertise", zap.Error(err))
	}

	hasPending, err := s.mentorshipRepo.HasPendingBetween(ctx, mentorID, menteeID)
	if err != nil {
		return nil, NewInternalError("failed to check pending requests")
	}

	activeCount, err := s.mentorshipRepo.CountActiveAsMentor(ctx, mentorID)
	if err != nil {
		return nil, NewInternalError("failed to check mentor capacity")
	}

	mentor.PasswordHash = ""
	return &RequestContext{
		Mentor:          mentor,
		SharedExpertise: shared,
		HasPending:      hasPending,
		AtCapacity:      int(activeCount) >= mentor.MaxMentees,
	}, nil
}

// ListIncomingRequests returns the mentor's pending requests with their focus
// areas, oldest first.
func (s *mentorshipService) ListIncomingRequests(ctx context.Context, mentorID int64) ([]*models.Mentorship, error) {
	mentorships, err := s.mentorshipRepo.ListIncoming(ctx, mentorID)
	if err != nil {
		s.logger.Error("Failed to list incoming requests", zap.Error(err), zap.Int64("mentor_id", mentorID))
		return nil, NewInternalError("failed to list incoming requests")
	}
	s.attachFocusAreas(ctx, mentorships)
	return mentorships, nil
}

// ListOutgoingRequests returns the mentee's sent requests, newest first.
func (s *mentorshipService) ListOutgoingRequests(ctx context.Context, menteeID int64) ([]*models.Mentorship, error) {
	mentorships, err := s.mentorshipRepo.ListOutgoing(ctx, menteeID)
	if err != nil {
		s.logger.Error("Failed to list outgoing requests", zap.Error(err), zap.Int64("mentee_id", menteeID))
		return nil, NewInternalError("failed to list outgoing requests")
	}
	s.attachFocusAreas(ctx, mentorships)
	return mentorships, nil
}

// ListActiveMentorships returns active mentorships on either side.
func (s *mentorshipService) ListActiveMentorships(ctx context.Context, userID int64) ([]*models.Mentorship, error) {
	mentorships, err := s.mentorshipRepo.ListActive(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list active mentorships", zap.Error(err), zap.Int64("user_id", userID))
		return nil, NewInternalError("failed to list active mentorships")
	}
	return mentorships, nil
}

// GetPendingCount returns the mentor's badge count, served from cache when
// fresh.
func (s *mentorshipService) GetPendingCount(ctx context.Context, mentorID int64) (int64, error) {
	key := pendingCountKey(mentorID)
	if raw, found := s.cache.Get(ctx, key); found {
		if count, err := strconv.ParseInt(string(raw), 10, 64); err == nil {
			return count, nil
		}
	}

	count, err := s.mentorshipRepo.CountPending(ctx, mentorID)
	if err != nil {
		return 0, NewInternalError("failed to count pending requests")
	}

	if err := s.cache.Set(ctx, key, []byte(strconv.FormatInt(count, 10)), pendingCountTTL); err != nil {
		s.logger.Debug("Failed to cache pending count", zap.Error(err))
	}
	return count, nil
}

// ===============================
// HELPERS
// ===============================

func (s *mentorshipService) getOwned(ctx context.Context, mentorshipID int64) (*models.Mentorship, error) {
	if mentorshipID <= 0 {
		return nil, NewValidationError("invalid mentorship ID", nil)
	}
	mentorship, err := s.mentorshipRepo.GetByID(ctx, mentorshipID)
	if err != nil {
		s.logger.Error("Failed to get mentorship", zap.Error(err), zap.Int64("mentorship_id", mentorshipID))
		return nil, NewInternalError("failed to retrieve mentorship")
	}
	if mentorship == nil {
		return nil, NewNotFoundError("mentorship not found")
	}
	return mentorship, nil
}

func (s *mentorshipService) attachFocusAreas(ctx context.Context, mentorships []*models.Mentorship) {
	for _, m := range mentorships {
		tags, err := s.mentorshipRepo.GetFocusAreas(ctx, m.ID)
		if err != nil {
			s.logger.Warn("Failed to load focus areas", zap.Error(err), zap.Int64("mentorship_id", m.ID))
			continue
		}
		m.FocusAreas = tags
	}
}

func (s *mentorshipService) invalidatePendingCount(ctx context.Context, mentorID int64) {
	if err := s.cache.Delete(ctx, pendingCountKey(mentorID)); err != nil {
		s.logger.Debug("Failed to invalidate pending count", zap.Error(err), zap.Int64("mentor_id", mentorID))
	}
}

func pendingCountKey(mentorID int64) string {
	return fmt.Sprintf("mentorship:pending_count:%d", mentorID)
}

func uniqueIDs(ids []int64) []int64 {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
