// file: internal/handlers/web/auth.go
package web

import (
	"net/http"
	"time"

	"speakerhub/internal/services"

	"github.com/gofrs/uuid"
)

const oauthStateCookie = "speakerhub_oauth_state"

// Register creates a new account.
// POST /auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterRequest
	if err := h.decode(r, &req); err != nil {
		h.resp.WriteError(w, r, err)
		return
	}

	user, err := h.services.AuthService.Register(r.Context(), &req)
	if err != nil {
		h.resp.WriteError(w, r, err)
		return
	}
	h.resp.WriteCreated(w, r, user)
}

// Login opens a session.
// POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req services.LoginRequest
	if err := h.decode(r, &req); err != nil {
		h.resp.WriteError(w, r, err)
		return
	}

	result, err := h.services.AuthService.Login(r.Context(), &req)
	if err != nil {
		h.resp.WriteError(w, r, err)
		return
	}

	h.setSessionCookie(w, result)
	h.resp.WriteSuccess(w, r, result)
}

// Logout destroys the session.
// POST /auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(h.services.Config.Auth.SessionName); err == nil {
		if err := h.services.AuthService.Logout(r.Context(), cookie.Value); err != nil {
			h.resp.WriteError(w, r, err)
			return
		}
	}
	h.clearSessionCookie(w)
	h.resp.WriteNoContent(w, r)
}

// Me returns the logged-in user's own record.
// GET /auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	speaker, err := h.services.SpeakerService.GetSpeaker(r.Context(), h.currentUserID(r))
	if err != nil {
		h.resp.WriteError(w, r, err)
		return
	}
	h.resp.WriteSuccess(w, r, speaker)
}

// Token mints a JWT for the logged-in user's API clients.
// POST /auth/token
func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	speaker, err := h.services.SpeakerService.GetSpeaker(r.Context(), h.currentUserID(r))
	if err != nil {
		h.resp.WriteError(w, r, err)
		return
	}

	token, err := h.services.AuthService.IssueToken(r.Context(), speaker)
	if err != nil {
		h.resp.WriteError(w, r, err)
		return
	}
	h.resp.WriteSuccess(w, r, map[string]string{"token": token})
}

// GitHubLogin starts the OAuth flow.
// GET /auth/github
func (h *Handler) GitHubLogin(w http.ResponseWriter, r *http.Request) {
	state, err := uuid.NewV4()
	if err != nil {
		h.resp.WriteError(w, r, services.NewInternalError("failed to start sign-in"))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state.String(),
		Path:     "/",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		Secure:   h.services.Config.Auth.SessionSecure,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.services.AuthService.GitHubAuthURL(state.String()), http.StatusTemporaryRedirect)
}

// GitHubCallback completes the OAuth flow.
// GET /auth/github/callback
func (h *Handler) GitHubCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		h.resp.WriteError(w, r, services.NewUnauthorizedError("sign-in state mismatch"))
		return
	}

	result, err := h.services.AuthService.GitHubCallback(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		h.resp.WriteError(w, r, err)
		return
	}

	h.setSessionCookie(w, result)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, result *services.LoginResult) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.services.Config.Auth.SessionName,
		Value:    result.SessionToken,
		Path:     "/",
		Expires:  time.Unix(result.ExpiresAt, 0),
		HttpOnly: true,
		Secure:   h.services.Config.Auth.SessionSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.services.Config.Auth.SessionName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.services.Config.Auth.SessionSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
