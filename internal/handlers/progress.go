package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/duncangrant/cloudformation-laceworks-resource-providers/internal/lacework"
	"github.com/duncangrant/cloudformation-laceworks-resource-providers/internal/model"
	"github.com/duncangrant/cloudformation-laceworks-resource-providers/internal/resource"
)

const (
	StatusSuccess string = "SUCCESS"
	StatusFailed  string = "FAILED"
)

// Handler error codes understood by the resource provider host.
const (
	ErrorCodeNotFound                 string = "NotFound"
	ErrorCodeInvalidRequest           string = "InvalidRequest"
	ErrorCodeInvalidTypeConfiguration string = "InvalidTypeConfiguration"
	ErrorCodeAccessDenied             string = "AccessDenied"
	ErrorCodeAlreadyExists            string = "AlreadyExists"
	ErrorCodeThrottling               string = "Throttling"
	ErrorCodeServiceInternalError     string = "ServiceInternalError"
	ErrorCodeGeneralServiceException  string = "GeneralServiceException"
)

// ProgressEvent is the handler response. ResourceModels is only set for LIST
// and is never null there.
type ProgressEvent struct {
	Status             string                `json:"status"`
	ErrorCode          string                `json:"errorCode,omitempty"`
	Message            string                `json:"message,omitempty"`
	ClientRequestToken string                `json:"clientRequestToken,omitempty"`
	ResourceModel      model.ResourceModel   `json:"resourceModel,omitempty"`
	ResourceModels     []model.ResourceModel `json:"-"`
}

// MarshalJSON writes resourceModels whenever the slice is non-nil, so an empty
// LIST result is sent as [].
func (p ProgressEvent) MarshalJSON() ([]byte, error) {
	type event ProgressEvent
	out := struct {
		event
		ResourceModels *[]model.ResourceModel `json:"resourceModels,omitempty"`
	}{event: event(p)}
	if p.ResourceModels != nil {
		out.ResourceModels = &p.ResourceModels
	}
	return json.Marshal(out)
}

func success(m model.ResourceModel) ProgressEvent {
	return ProgressEvent{Status: StatusSuccess, ResourceModel: m}
}

func failed(err error) ProgressEvent {
	return ProgressEvent{
		Status:    StatusFailed,
		ErrorCode: ErrorCodeFor(err),
		Message:   err.Error(),
	}
}

// ErrorCodeFor classifies a handler error. Lacework api errors are classified
// by status code.
func ErrorCodeFor(err error) string {
	var (
		invalidRequest *resource.InvalidRequestError
		typeConfig     *TypeConfigurationError
	)
	switch {
	case errors.Is(err, resource.ErrNotFound):
		return ErrorCodeNotFound
	case errors.As(err, &invalidRequest):
		return ErrorCodeInvalidRequest
	case errors.As(err, &typeConfig):
		return ErrorCodeInvalidTypeConfiguration
	}

	status := lacework.StatusCode(err)
	switch {
	case status == http.StatusNotFound:
		return ErrorCodeNotFound
	case status == http.StatusBadRequest:
		return ErrorCodeInvalidRequest
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrorCodeAccessDenied
	case status == http.StatusConflict:
		return ErrorCodeAlreadyExists
	case status == http.StatusTooManyRequests:
		return ErrorCodeThrottling
	case status >= http.StatusInternalServerError:
		return ErrorCodeServiceInternalError
	}
	return ErrorCodeGeneralServiceException
}
