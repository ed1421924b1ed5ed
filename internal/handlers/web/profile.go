// file: internal/handlers/web/profile.go
package web

import (
	"net/http"

	"speakerhub/internal/services"
)

const maxHeadshotMemory = 8 << 20

// UpdateProfile writes the logged-in speaker's profile fields.
// PUT /profile
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req services.UpdateProfileRequest
	if err := h.decode(r, &req); err != nil {
		h.resp.WriteError(w, r, err)
		return
	}
	req.UserID = h.currentUserID(r)

	user, err := h.services.SpeakerService.UpdateProfile(r.Context(), &req)
	if err != nil {
		h.resp.WriteError(w, r, err)
		return
	}
	h.resp.WriteSuccess(w, r, user)
}

// SetExpertise replaces the logged-in speaker's expertise tags.
// PUT /profile/expertise
func (h *Handler) SetExpertise(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ExpertiseIDs []int64 `json:"expertise_ids"`
	}
	if err := h.decode(r, &req); err != nil {
		h.resp.WriteError(w, r, err)
		return
	}

	if err := h.services.SpeakerService.SetExpertise(r.Context(), h.currentUserID(r), req.ExpertiseIDs); err != nil {
		h.resp.WriteError(w, r, err)
		return
	}
	h.resp.WriteNoContent(w, r)
}

// UploadHeadshot stores a new profile headshot.
// POST /profile/headshot
func (h *Handler) UploadHeadshot(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxHeadshotMemory); err != nil {
		h.resp.WriteError(w, r, services.NewValidationError("invalid upload", err))
		return
	}

	file, header, err := r.FormFile("headshot")
	if err != nil {
		h.resp.WriteError(w, r, services.NewValidationError("headshot file is required", err))
		return
	}
	defer file.Close()

	url, err := h.services.SpeakerService.UploadHeadshot(r.Context(), h.currentUserID(r), file, header)
	if err != nil {
		h.resp.WriteError(w, r, err)
		return
	}
	h.resp.WriteSuccess(w, r, map[string]string{"headshot_url": url})
}

// AddSocialLink attaches a social media link to the profile.
// POST /profile/social-links
func (h *Handler) AddSocialLink(w http.ResponseWriter, r *http.Request) {
	var req services.AddSocialLinkRequest
	if err := h.decode(r, &req); err != nil {
		h.resp.WriteError(w, r, err)
		return
	}
	req.UserID = h.currentUserID(r)

	link, err := h.services.SpeakerService.AddSocialLink(r.Context(), &req)
	if err != nil {
		h.resp.WriteError(w, r, err)
		return
	}
	h.resp.WriteCreated(w, r, link)
}

// RemoveSocialLink deletes a social media link from the profile.
// DELETE /profile/social-links/{id}
func (h *Handler) RemoveSocialLink(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r, "id")
	if err != nil {
		h.resp.WriteError(w, r, err)
		return
	}

	if err := h.services.SpeakerService.RemoveSocialLink(r.Context(), h.currentUserID(r), id); err != nil {
		h.resp.WriteError(w, r, err)
		return
	}
	h.resp.WriteNoContent(w, r)
}
