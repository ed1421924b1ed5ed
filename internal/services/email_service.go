// file: internal/services/email_service.go
package services

import (
	"context"
	"fmt"

	"speakerhub/internal/models"

	"go.uber.org/zap"
)

// emailService implements the EmailService interface
type emailService struct {
	baseURL string
	logger  *zap.Logger
}

// NewEmailService creates a new instance of EmailService
func NewEmailService(baseURL string, logger *zap.Logger) EmailService {
	return &emailService{
		baseURL: baseURL,
		logger:  logger,
	}
}

// SendMentorshipRequested notifies the mentor of a new request.
func (s *emailService) SendMentorshipRequested(ctx context.Context, mentor, mentee *models.User, m *models.Mentorship) error {
	return s.send(ctx, mentor,
		fmt.Sprintf("%s has requested mentorship", mentee.FullName()),
		fmt.Sprintf("%s/mentorship/requests", s.baseURL),
		m.ID,
	)
}

// SendMentorshipResponded notifies the mentee of the mentor's decision.
func (s *emailService) SendMentorshipResponded(ctx context.Context, mentor, mentee *models.User, m *models.Mentorship) error {
	subject := fmt.Sprintf("%s declined your mentorship request", mentor.FullName())
	if m.Status == models.MentorshipActive {
		subject = fmt.Sprintf("%s accepted your mentorship request", mentor.FullName())
	}
	return s.send(ctx, mentee, subject, fmt.Sprintf("%s/mentorship/active", s.baseURL), m.ID)
}

// SendMentorshipEnded notifies the counterparty when a mentorship completes
// or is cancelled.
func (s *emailService) SendMentorshipEnded(ctx context.Context, recipient *models.User, m *models.Mentorship) error {
	subject := "Your mentorship was cancelled"
	if m.Status == models.MentorshipCompleted {
		subject = "Your mentorship was marked complete"
	}
	return s.send(ctx, recipient, subject, fmt.Sprintf("%s/mentorship/active", s.baseURL), m.ID)
}

func (s *emailService) send(ctx context.Context, to *models.User, subject, link string, mentorshipID int64) error {
	s.logger.Info("Sending email",
		zap.String("to", to.Email),
		zap.String("subject", subject),
		zap.String("link", link),
		zap.Int64("mentorship_id", mentorshipID),
	)
	// TODO: wire an SMTP or transactional provider once one is selected
	return nil
}
