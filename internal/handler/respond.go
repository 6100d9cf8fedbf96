package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/pvandewal/dayout/backend/internal/domain"
)

// validate is the shared request validator. Struct tags on the request DTOs
// drive it; failures surface as 422 with a readable message.
var validate = validator.New()

// errorDetail is the inner object of every error body.
type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorResponse is the envelope every error body uses.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

// writeJSON encodes v with the given status. Encoding failures are logged,
// not surfaced: headers are already on the wire at that point.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encoding failed", "error", err)
	}
}

// writeError maps a service error onto its status code and error body.
// Unknown errors become an opaque 500; their detail goes to the log only.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{
			Error: errorDetail{Code: "not_found", Message: unwrapMessage(err)}})
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error: errorDetail{Code: "validation_error", Message: unwrapMessage(err)}})
	case errors.Is(err, domain.ErrSessionState):
		writeJSON(w, http.StatusConflict, errorResponse{
			Error: errorDetail{Code: "session_state", Message: unwrapMessage(err)}})
	case errors.Is(err, domain.ErrRateLimited):
		writeJSON(w, http.StatusTooManyRequests, errorResponse{
			Error: errorDetail{Code: "rate_limited", Message: "the recommendation service is busy, try again shortly"}})
	case errors.Is(err, domain.ErrPaymentRequired):
		writeJSON(w, http.StatusPaymentRequired, errorResponse{
			Error: errorDetail{Code: "payment_required", Message: "the recommendation provider requires billing to be configured"}})
	default:
		slog.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error: errorDetail{Code: "internal", Message: "internal server error"}})
	}
}

// writeRequestError rejects a request before it reaches the service layer
// (malformed body, bad path parameter, failed DTO validation).
func writeRequestError(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
		Error: errorDetail{Code: "validation_error", Message: message}})
}

// decodeAndValidate decodes the JSON body into dst and runs the validator
// over it. The request is rejected on unknown fields as well as tag failures.
func decodeAndValidate(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %v", err)
	}
	if err := validate.Struct(dst); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError turns validator tag failures into one readable
// message.
func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "email":
			msgs = append(msgs, fmt.Sprintf("%s must be a valid email", field))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must have at least %s items", field, e.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", field))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

// uuidParam parses a UUID path parameter.
func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s is not a valid UUID", name)
	}
	return id, nil
}

// unwrapMessage extracts the human-readable tail from a wrapped sentinel
// error, e.g. "service.ItineraryService.Save: validation error: name is
// required" -> "name is required".
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if i := strings.LastIndex(msg, ": "); i >= 0 {
		tail := msg[i+2:]
		if tail != "" {
			return tail
		}
	}
	return msg
}
