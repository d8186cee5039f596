package client

import (
	"encoding/json/v2"
	"errors"
	"fmt"
	"io"
	"net/http"

	domainerrors "github.com/eventscope/eventscope-server/internal/errors"
)

// maxErrorBody bounds how much of a failed response is read.
const maxErrorBody = 64 << 10

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int               `json:"-"`
	Code    domainerrors.Code `json:"code"`
	Message string            `json:"message"`
	Details any               `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("eventscope: %s (%d %s)", e.Message, e.Status, e.Code)
	}
	return fmt.Sprintf("eventscope: %s (%d)", e.Message, e.Status)
}

// Is matches domain errors by code, so errors.Is(err, domainerrors.ErrNotFound) works.
func (e *APIError) Is(target error) bool {
	var de *domainerrors.Error
	if errors.As(target, &de) {
		return e.Code != "" && e.Code == de.Code
	}
	return false
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// IsValidation reports whether err is a 400 from the server.
func IsValidation(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if len(body) == 0 || json.Unmarshal(body, apiErr) != nil || apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	apiErr.Status = resp.StatusCode
	return apiErr
}
