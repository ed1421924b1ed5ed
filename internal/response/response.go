// file: internal/response/response.go
package response

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"speakerhub/internal/contextutils"
	"speakerhub/internal/services"

	"go.uber.org/zap"
)

// PartialHeader marks requests from the page's fetch-based refresh, which
// want a fragment payload rather than a full document.
const PartialHeader = "X-Partial"

// ===============================
// RESPONSE TYPES
// ===============================

// APIResponse represents a standardized API response
type APIResponse struct {
	Success   bool         `json:"success"`
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	RequestID string       `json:"request_id,omitempty"`
	Timestamp int64        `json:"timestamp,omitempty"`
}

// ErrorDetail represents error information in API responses
type ErrorDetail struct {
	Type    string                 `json:"type"`
	Message string                 `json:"message"`
	Code    string                 `json:"code,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ===============================
// RESPONSE BUILDER
// ===============================

// Builder writes standardized responses
type Builder struct {
	logger             *zap.Logger
	maskInternalErrors bool
}

// NewBuilder creates a response builder
func NewBuilder(logger *zap.Logger, maskInternalErrors bool) *Builder {
	return &Builder{
		logger:             logger,
		maskInternalErrors: maskInternalErrors,
	}
}

// WriteSuccess writes a 200 response with data.
func (b *Builder) WriteSuccess(w http.ResponseWriter, r *http.Request, data interface{}) {
	b.writeJSON(w, r, b.success(r.Context(), data), http.StatusOK)
}

// WriteCreated writes a 201 response with data.
func (b *Builder) WriteCreated(w http.ResponseWriter, r *http.Request, data interface{}) {
	b.writeJSON(w, r, b.success(r.Context(), data), http.StatusCreated)
}

// WriteNoContent writes a 204 response.
func (b *Builder) WriteNoContent(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// WriteError maps a service error onto the wire with its status code.
func (b *Builder) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	serviceErr := services.GetServiceError(err)
	status := serviceErr.GetStatusCode()

	detail := &ErrorDetail{
		Type:    serviceErr.Type,
		Message: serviceErr.Message,
		Code:    serviceErr.Code,
		Details: serviceErr.Details,
	}
	if b.maskInternalErrors && status >= http.StatusInternalServerError {
		detail.Message = "something went wrong, please try again"
		detail.Details = nil
	}

	if status >= http.StatusInternalServerError {
		b.logger.Error("Request failed",
			zap.Error(err),
			zap.String("path", r.URL.Path),
			zap.String("request_id", contextutils.GetRequestID(r.Context())),
		)
	}

	b.writeJSON(w, r, &APIResponse{
		Success:   false,
		Error:     detail,
		RequestID: contextutils.GetRequestID(r.Context()),
		Timestamp: time.Now().Unix(),
	}, status)
}

func (b *Builder) success(ctx context.Context, data interface{}) *APIResponse {
	return &APIResponse{
		Success:   true,
		Data:      data,
		RequestID: contextutils.GetRequestID(ctx),
		Timestamp: time.Now().Unix(),
	}
}

func (b *Builder) writeJSON(w http.ResponseWriter, r *http.Request, resp *APIResponse, status int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		b.logger.Error("Failed to encode response", zap.Error(err))
	}
}

// IsPartial reports whether the client asked for a fragment refresh.
func IsPartial(r *http.Request) bool {
	return r.Header.Get(PartialHeader) != ""
}
