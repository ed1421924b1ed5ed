// file: internal/handlers/web/mentorship.go
package web

import (
	"net/http"

	"speakerhub/internal/models"
	"speakerhub/internal/response"
	"speakerhub/internal/services"
)

// BrowseMentors serves the mentor browse page data.
// GET /mentorship/browse
func (h *Handler) BrowseMentors(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := &services.BrowseMentorsRequest{
		UserID:       h.currentUserID(r),
		SearchTerm:   q.Get("search"),
		ExpertiseIDs: queryInt64Slice(q, "expertise_id"),
		Sort:         q.Get("sort"),
		Page:         response.ParsePage(q),
	}

	result, err := h.services.SpeakerService.BrowseMentors(r.Context(), req)
	if err != nil {
		h.resp.WriteError(w, r, err)
		return
	}

	h.resp.WriteSuccess(w, r, map[string]interface{}{
		"speakers":   result.Data,
		"pagination": result.Pagination,
		"links":      response.BuildLinks(r.URL, result.Pagination),
		"partial":    response.IsPartial(r),
	})
}

// RequestModal serves the request-modal context for a mentor.
// GET /mentorship/request-modal/{mentorId}
func (h *Handler) RequestModal(w http.ResponseWriter, r *http.Request) {
	mentorID, err := h.pathID(r, "mentorId")
	if err != nil {
		h.resp.WriteError(w, r, err)
		return
	}

	ctx, err := h.services.MentorshipService.GetRequestContext(r.Context(), mentorID, h.currentUserID(r))
	if err != nil {
		h.resp.WriteError(w, r, err)
		return
	}
	h.resp.WriteSuccess(w, r, ctx)
}

// SendRequest opens a mentorship request to a mentor.
// POST /mentorship/send-request/{mentorId}
func (h *Handler) SendRequest(w http.ResponseWriter, r *http.Request) {
	mentorID, err := h.pathID(r, "mentorId")
	if err != nil {
		h.resp.WriteError(w, r, err)
		return
	}

	var req services.CreateMentorshipRequest
	if err := h.decode(r, &req); err != nil {
		h.resp.WriteError(w, r, err)
		return
	}
	req.MentorID = mentorID
	req.MenteeID = h.currentUserID(r)

	mentorship, err := h.services.MentorshipService.CreateRequest(r.Context(), &req)
	if err != nil {
		h.resp.WriteError(w, r, err)
		return
	}
	h.resp.WriteCreated(w, r, mentorship)
}

// ListRequests serves the requests page: incoming on one side, outgoing on
// the other.
// GET /mentorship/requests
func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	userID := h.currentUserID(r)

	incoming, err := h.services.MentorshipService.ListIncomingRequests(r.Context(), userID)
	if err != nil {
		h.resp.WriteError(w, r, err)
		return
	}
	outgoing, err := h.services.MentorshipService.ListOutgoingRequests(r.Context(), userID)
	if err != nil {
		h.resp.WriteError(w, r, err)
		return
	}

	h.resp.WriteSuccess(w, r, map[string]interface{}{
		"incoming": incoming,
		"outgoing": outgoing,
		"partial":  response.IsPartial(r),
	})
}

// RespondToRequest accepts or declines a pending request.
// POST /mentorship/respond/{requestId}
func (h *Handler) RespondToRequest(w http.ResponseWriter, r *http.Request) {
	requestID, err := h.pathID(r, "requestId")
	if err != nil {
		h.resp.WriteError(w, r, err)
		return
	}

	var req services.RespondToRequestRequest
	if err := h.decode(r, &req); err != nil {
		h.resp.WriteError(w, r, err)
		return
	}
	req.MentorshipID = requestID
	req.MentorID = h.currentUserID(r)

	mentorship, err := h.services.MentorshipService.RespondToRequest(r.Context(), &req)
	if err != nil {
		h.resp.WriteError(w, r, err)
		return
	}
	h.resp.WriteSuccess(w, r, mentorship)
}

// ListActive serves the active mentorships page.
// GET /mentorship/active
func (h *Handler) ListActive(w http.ResponseWriter, r *http.Request) {
	mentorships, err := h.services.MentorshipService.ListActiveMentorships(r.Context(), h.currentUserID(r))
	if err != nil {
		h.resp.WriteError(w, r, err)
		return
	}
	h.resp.WriteSuccess(w, r, map[string]interface{}{
		"mentorships": mentorships,
		"partial":     response.IsPartial(r),
	})
}

// GetMentorship serves one mentorship's detail view.
// GET /mentorship/{id}
func (h *Handler) GetMentorship(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r, "id")
	if err != nil {
		h.resp.WriteError(w, r, err)
		return
	}

	mentorship, err := h.services.MentorshipService.GetMentorship(r.Context(), id, h.currentUserID(r))
	if err != nil {
		h.resp.WriteError(w, r, err)
		return
	}
	h.resp.WriteSuccess(w, r, mentorship)
}

// CancelMentorship withdraws a pending request or ends an active mentorship.
// Both the withdraw and cancel routes land here; the service keys off the
// current status.
// POST /mentorship/cancel/{id}, POST /mentorship/withdraw/{id}
func (h *Handler) CancelMentorship(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r, "id")
	if err != nil {
		h.resp.WriteError(w, r, err)
		return
	}

	mentorship, err := h.services.MentorshipService.CancelMentorship(r.Context(), id, h.currentUserID(r))
	if err != nil {
		h.resp.WriteError(w, r, err)
		return
	}
	h.resp.WriteSuccess(w, r, mentorship)
}

// CompleteMentorship marks an active mentorship finished.
// POST /mentorship/complete/{id}
func (h *Handler) CompleteMentorship(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r, "id")
	if err != nil {
		h.resp.WriteError(w, r, err)
		return
	}

	mentorship, err := h.services.MentorshipService.CompleteMentorship(r.Context(), id, h.currentUserID(r))
	if err != nil {
		h.resp.WriteError(w, r, err)
		return
	}
	h.resp.WriteSuccess(w, r, mentorship)
}

// NotificationCount serves the pending-request badge.
// GET /mentorship/notification-count
func (h *Handler) NotificationCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.services.MentorshipService.GetPendingCount(r.Context(), h.currentUserID(r))
	if err != nil {
		h.resp.WriteError(w, r, err)
		return
	}
	h.resp.WriteSuccess(w, r, map[string]int64{"count": count})
}

// Poll serves the lightweight refresh payload the pages poll for: the badge
// count plus whether anything pending changed.
// GET /mentorship/poll
func (h *Handler) Poll(w http.ResponseWriter, r *http.Request) {
	userID := h.currentUserID(r)

	count, err := h.services.MentorshipService.GetPendingCount(r.Context(), userID)
	if err != nil {
		h.resp.WriteError(w, r, err)
		return
	}

	var incoming []*models.Mentorship
	if response.IsPartial(r) {
		if incoming, err = h.services.MentorshipService.ListIncomingRequests(r.Context(), userID); err != nil {
			h.resp.WriteError(w, r, err)
			return
		}
	}

	h.resp.WriteSuccess(w, r, map[string]interface{}{
		"pending_count": count,
		"incoming":      incoming,
	})
}
