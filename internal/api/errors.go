package api

import (
	"encoding/json/v2"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/eventscope/eventscope-server/internal/errors"
)

// APIError is the error body of every failed request. It implements
// huma.StatusError so handlers can return domain errors directly.
type APIError struct { //nolint:revive // API prefix is intentional for clarity
	status  int
	Code    string `json:"code" doc:"Machine-readable error code"`
	Message string `json:"message" doc:"Human-readable error message"`
	Details any    `json:"details,omitempty" doc:"Additional error details"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError.
func (e *APIError) GetStatus() int {
	return e.status
}

// ContentType returns the content type for the error response.
func (e *APIError) ContentType(_ string) string {
	return "application/json"
}

// RegisterErrorHandler configures huma to render domain errors as APIError.
// Call this after creating the huma.API but before registering routes.
func RegisterErrorHandler() {
	huma.NewError = newAPIError
}

func newAPIError(status int, message string, errs ...error) huma.StatusError {
	var fieldErrors map[string]string

	for _, err := range errs {
		var domainErr *domainerrors.Error
		if errors.As(err, &domainErr) {
			// Causes stay in the logs; only code, message and details reach clients.
			return &APIError{
				status:  domainErr.HTTPStatus(),
				Code:    string(domainErr.Code),
				Message: domainErr.Message,
				Details: domainErr.Details,
			}
		}

		var detail *huma.ErrorDetail
		if errors.As(err, &detail) {
			if fieldErrors == nil {
				fieldErrors = make(map[string]string)
			}
			fieldErrors[detail.Location] = detail.Message
		}
	}

	// Huma reports parse and schema failures as 422; clients expect 400.
	if status == http.StatusUnprocessableEntity {
		status = http.StatusBadRequest
	}

	apiErr := &APIError{
		status:  status,
		Code:    statusToCode(status),
		Message: message,
	}
	if fieldErrors != nil {
		apiErr.Details = fieldErrors
	}
	if status >= http.StatusInternalServerError {
		apiErr.Message = "internal error"
	}
	return apiErr
}

// statusToCode maps HTTP status codes to our domain error codes.
func statusToCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return string(domainerrors.CodeValidation)
	case http.StatusNotFound:
		return string(domainerrors.CodeNotFound)
	case http.StatusConflict:
		return string(domainerrors.CodeConflict)
	case http.StatusTooManyRequests:
		return string(domainerrors.CodeRateLimited)
	default:
		return string(domainerrors.CodeInternal)
	}
}

// writeAPIError writes an APIError outside of huma, for middleware.
func writeAPIError(w http.ResponseWriter, status int, code domainerrors.Code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.MarshalWrite(w, &APIError{Code: string(code), Message: message})
}
