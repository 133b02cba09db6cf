package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"mechanical-burger/internal/kitchen"
	"mechanical-burger/internal/model"
	"mechanical-burger/internal/replica"

	"github.com/rs/zerolog"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// Replica is the read side the handlers serve from.
type Replica interface {
	State() replica.State
	Menu() (model.Menu, error)
	Orders(includeDeleted bool) ([]model.Order, error)
	Restart(ctx context.Context) error
}

// CueSource hands out kitchen cue subscriptions.
type CueSource interface {
	Listen(buffer int) (<-chan kitchen.Cue, func())
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code, code and message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Str("code", code).Int("status", status).Msg(message)
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// writeDomainError maps service errors onto HTTP responses.
func writeDomainError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var (
		verrs     model.ValidationErrors
		fetchErr  *model.FetchError
		domainErr *model.DomainError
	)

	switch {
	case errors.As(err, &verrs):
		logger.Warn().Err(err).Msg("validation failed")
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{
			Error:   model.ErrCodeValidationFailed,
			Message: "Request validation failed",
			Fields:  verrs,
		})
	case errors.As(err, &fetchErr):
		logger.Error().Err(errors.Unwrap(fetchErr)).Str("collection", fetchErr.Collection).Msg("fetch failed")
		writeJSON(w, http.StatusServiceUnavailable, model.ErrorResponse{
			Error:   model.ErrCodeFetchFailed,
			Message: fetchErr.Error(),
		})
	case errors.As(err, &domainErr):
		status := statusFor(domainErr.Code)
		logger.Warn().Str("code", domainErr.Code).Int("status", status).Msg(domainErr.Message)
		writeJSON(w, status, model.ErrorResponse{
			Error:   domainErr.Code,
			Message: domainErr.Message,
			Locked:  domainErr.Code == model.ErrCodeAdvancedLocked || domainErr.Code == model.ErrCodeAdminLocked,
		})
	default:
		logger.Error().Err(err).Msg("internal error")
		writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{
			Error:   model.ErrCodeInternalError,
			Message: "Something went wrong",
		})
	}
}

// statusFor returns the HTTP status for a domain error code.
func statusFor(code string) int {
	switch code {
	case model.ErrCodeCategoryNotFound,
		model.ErrCodeMenuItemNotFound,
		model.ErrCodeCustomizationNotFound,
		model.ErrCodeOrderNotFound,
		model.ErrCodeCartNotFound,
		model.ErrCodeCartItemNotFound,
		model.ErrCodeUnknownCollection:
		return http.StatusNotFound
	case model.ErrCodeInvalidTransition, model.ErrCodeOrderNotCancellable:
		return http.StatusConflict
	case model.ErrCodeInvalidCredentials, model.ErrCodeAdminLocked:
		return http.StatusUnauthorized
	case model.ErrCodeAdvancedLocked, model.ErrCodeInvalidGlobalKey:
		return http.StatusForbidden
	case model.ErrCodeUnsupportedMedia:
		return http.StatusUnsupportedMediaType
	case model.ErrCodeMediaTooLarge:
		return http.StatusRequestEntityTooLarge
	case model.ErrCodeReplicaUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusBadRequest
}

// decodeJSON reads a JSON body into dst, answering 400 itself on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, logger zerolog.Logger) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", logger)
		return false
	}
	return true
}

type idResponse struct {
	ID string `json:"id"`
}
