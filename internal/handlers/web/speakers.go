// file: internal/handlers/web/speakers.go
package web

import (
	"net/http"

	"speakerhub/internal/response"
	"speakerhub/internal/services"
)

// SearchSpeakers serves the public speaker directory.
// GET /speakers
func (h *Handler) SearchSpeakers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := &services.SearchSpeakersRequest{
		SearchTerm:    q.Get("search"),
		SpeakerTypeID: queryInt64(q, "speaker_type"),
		ExpertiseIDs:  queryInt64Slice(q, "expertise_id"),
		AvailableNow:  queryBool(q, "available"),
		Sort:          q.Get("sort"),
		Page:          response.ParsePage(q),
	}

	result, err := h.services.SpeakerService.SearchSpeakers(r.Context(), req)
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

// GetSpeaker serves a public speaker profile.
// GET /speakers/{id}
func (h *Handler) GetSpeaker(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r, "id")
	if err != nil {
		h.resp.WriteError(w, r, err)
		return
	}

	speaker, err := h.services.SpeakerService.GetSpeaker(r.Context(), id)
	if err != nil {
		h.resp.WriteError(w, r, err)
		return
	}
	h.resp.WriteSuccess(w, r, speaker)
}
