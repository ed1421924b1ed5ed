// file: internal/handlers/web/handler.go
package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"speakerhub/internal/contextutils"
	"speakerhub/internal/response"
	"speakerhub/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler bundles the dependencies shared by every web handler
type Handler struct {
	services *services.Collection
	resp     *response.Builder
	logger   *zap.Logger
}

// NewHandler creates the web handler set
func NewHandler(sc *services.Collection, resp *response.Builder, logger *zap.Logger) *Handler {
	return &Handler{
		services: sc,
		resp:     resp,
		logger:   logger,
	}
}

// currentUserID returns the authenticated user, zero when anonymous.
func (h *Handler) currentUserID(r *http.Request) int64 {
	return contextutils.GetUserID(r.Context())
}

// pathID parses a numeric URL parameter.
func (h *Handler) pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, services.NewValidationError("invalid "+name, err)
	}
	return id, nil
}

// decode reads a JSON request body into dest.
func (h *Handler) decode(r *http.Request, dest interface{}) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return services.NewValidationError("invalid request body", err)
	}
	return nil
}

func queryInt64(values map[string][]string, key string) *int64 {
	if raw, ok := values[key]; ok && len(raw) > 0 {
		if v, err := strconv.ParseInt(raw[0], 10, 64); err == nil && v > 0 {
			return &v
		}
	}
	return nil
}

func queryInt64Slice(values map[string][]string, key string) []int64 {
	var out []int64
	for _, raw := range values[key] {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil && v > 0 {
			out = append(out, v)
		}
	}
	return out
}

func queryBool(values map[string][]string, key string) *bool {
	if raw, ok := values[key]; ok && len(raw) > 0 {
		if v, err := strconv.ParseBool(raw[0]); err == nil {
			return &v
		}
	}
	return nil
}
