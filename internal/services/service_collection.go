// file: internal/services/service_collection.go
package services

import (
	"context"

	"speakerhub/internal/cache"
	"speakerhub/internal/config"
	"speakerhub/internal/database"
	"speakerhub/internal/events"
	"speakerhub/internal/models"
	"speakerhub/internal/repositories"

	"go.uber.org/zap"
)

// Collection wires every service with its dependencies
type Collection struct {
	MentorshipService MentorshipService
	SpeakerService    SpeakerService
	CatalogService    CatalogService
	AuthService       AuthService
	EmailService      EmailService
	FileService       FileService

	userRepo       repositories.UserRepository
	mentorshipRepo repositories.MentorshipRepository

	Cache  cache.Cache
	Events *events.Bus
	Logger *zap.Logger
	Config *config.Config
	DB     *database.Manager
}

// NewCollection builds the full service graph.
func NewCollection(
	cfg *config.Config,
	db *database.Manager,
	c cache.Cache,
	bus *events.Bus,
	logger *zap.Logger,
) (*Collection, error) {
	userRepo := repositories.NewUserRepository(db, logger)
	mentorshipRepo := repositories.NewMentorshipRepository(db, logger)
	expertiseRepo := repositories.NewExpertiseRepository(db, logger)
	sessionRepo := repositories.NewSessionRepository(db, logger)

	fileService, err := NewFileService(&cfg.Cloudinary, logger)
	if err != nil {
		return nil, err
	}
	emailService := NewEmailService(cfg.Server.BaseURL, logger)

	col := &Collection{
		MentorshipService: NewMentorshipService(mentorshipRepo, userRepo, expertiseRepo, c, bus, logger),
		SpeakerService:    NewSpeakerService(userRepo, expertiseRepo, fileService, logger),
		CatalogService:    NewCatalogService(expertiseRepo, c, logger),
		AuthService:       NewAuthService(userRepo, sessionRepo, &cfg.Auth, logger),
		EmailService:      emailService,
		FileService:       fileService,

		userRepo:       userRepo,
		mentorshipRepo: mentorshipRepo,

		Cache:  c,
		Events: bus,
		Logger: logger,
		Config: cfg,
		DB:     db,
	}

	col.registerNotificationHandlers()
	return col, nil
}

// registerNotificationHandlers turns workflow events into emails. Handlers
// run on the async bus so a slow provider never blocks a request.
func (c *Collection) registerNotificationHandlers() {
	c.Events.Subscribe(events.MentorshipRequested, func(ctx context.Context, e events.Event) error {
		me, ok := e.(*events.MentorshipEvent)
		if !ok {
			return nil
		}
		mentor, mentee, m, err := c.loadParties(ctx, me)
		if err != nil {
			return err
		}
		return c.EmailService.SendMentorshipRequested(ctx, mentor, mentee, m)
	})

	c.Events.Subscribe(events.MentorshipResponded, func(ctx context.Context, e events.Event) error {
		me, ok := e.(*events.MentorshipEvent)
		if !ok {
			return nil
		}
		mentor, mentee, m, err := c.loadParties(ctx, me)
		if err != nil {
			return err
		}
		return c.EmailService.SendMentorshipResponded(ctx, mentor, mentee, m)
	})

	ended := func(ctx context.Context, e events.Event) error {
		me, ok := e.(*events.MentorshipEvent)
		if !ok {
			return nil
		}
		mentor, mentee, m, err := c.loadParties(ctx, me)
		if err != nil {
			return err
		}
		// Notify whichever side did not act.
		recipient := mentor
		if actor := me.GetUserID(); actor != nil && *actor == mentor.ID {
			recipient = mentee
		}
		return c.EmailService.SendMentorshipEnded(ctx, recipient, m)
	}
	c.Events.Subscribe(events.MentorshipCompleted, ended)
	c.Events.Subscribe(events.MentorshipCancelled, ended)
}

func (c *Collection) loadParties(ctx context.Context, e *events.MentorshipEvent) (*models.User, *models.User, *models.Mentorship, error) {
	mentor, err := c.userRepo.GetByID(ctx, e.MentorID)
	if err != nil || mentor == nil {
		return nil, nil, nil, NewNotFoundError("mentor not found")
	}
	mentee, err := c.userRepo.GetByID(ctx, e.MenteeID)
	if err != nil || mentee == nil {
		return nil, nil, nil, NewNotFoundError("mentee not found")
	}
	m, err := c.mentorshipRepo.GetByID(ctx, e.MentorshipID)
	if err != nil || m == nil {
		return nil, nil, nil, NewNotFoundError("mentorship not found")
	}
	return mentor, mentee, m, nil
}

// Shutdown drains async event handlers.
func (c *Collection) Shutdown(ctx context.Context) {
	c.Events.Wait()
}
