// file: internal/router/router.go
package router

import (
	"net/http"

	"speakerhub/internal/handlers/web"
	"speakerhub/internal/middleware"
	"speakerhub/internal/response"
	"speakerhub/internal/services"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// New builds the HTTP routing tree.
func New(sc *services.Collection, hub *web.NotificationHub, logger *zap.Logger) http.Handler {
	resp := response.NewBuilder(logger, sc.Config.IsProduction())
	h := web.NewHandler(sc, resp, logger)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.StructuredLogging(logger))
	r.Use(chimw.StripSlashes)
	r.Use(middleware.Auth(sc.AuthService, sc.Config.Auth.SessionName, logger))

	r.Get("/health", h.Health)

	// ===============================
	// AUTH
	// ===============================
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Get("/github", h.GitHubLogin)
		r.Get("/github/callback", h.GitHubCallback)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Post("/logout", h.Logout)
			r.Get("/me", h.Me)
			r.Post("/token", h.Token)
		})
	})

	// ===============================
	// PUBLIC DIRECTORY & CATALOG
	// ===============================
	r.Get("/speakers", h.SearchSpeakers)
	r.Get("/speakers/{id}", h.GetSpeaker)

	r.Route("/catalog", func(r chi.Router) {
		r.Get("/sectors", h.ListSectors)
		r.Get("/categories", h.ListCategories)
		r.Get("/expertise", h.ListExpertise)
	})

	// ===============================
	// PROFILE (authenticated)
	// ===============================
	r.Route("/profile", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Put("/", h.UpdateProfile)
		r.Put("/expertise", h.SetExpertise)
		r.Post("/headshot", h.UploadHeadshot)
		r.Post("/social-links", h.AddSocialLink)
		r.Delete("/social-links/{id}", h.RemoveSocialLink)
	})

	// ===============================
	// MENTORSHIP (authenticated)
	// ===============================
	r.Route("/mentorship", func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Get("/browse", h.BrowseMentors)
		r.Get("/request-modal/{mentorId}", h.RequestModal)
		r.Post("/send-request/{mentorId}", h.SendRequest)

		r.Get("/requests", h.ListRequests)
		r.Post("/respond/{requestId}", h.RespondToRequest)

		r.Get("/active", h.ListActive)
		r.Get("/notification-count", h.NotificationCount)
		r.Get("/poll", h.Poll)
		r.Get("/ws", h.Subscribe(hub))

		// Withdraw and cancel are the same transition viewed from different
		// pages.
		r.Post("/withdraw/{id}", h.CancelMentorship)
		r.Post("/cancel/{id}", h.CancelMentorship)
		r.Post("/complete/{id}", h.CompleteMentorship)

		r.Get("/{id}", h.GetMentorship)
	})

	return r
}
