package lacework

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Message    string
	Body       []byte
}

func newAPIError(statusCode int, method, path string, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: statusCode,
		Method:     method,
		Path:       path,
		Body:       body,
	}
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		apiErr.Message = payload.Message
	} else {
		apiErr.Message = http.StatusText(statusCode)
	}
	return apiErr
}

func (e *APIError) Error() string {
	return fmt.Sprintf("lacework api [%s %s] returned status [%d]: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// StatusCode extracts the http status of an APIError anywhere in the chain,
// or 0 when err did not come from a response.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsNotFound reports whether err is a 404 from the api.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}
