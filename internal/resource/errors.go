package resource

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound matches any *NotFoundError through errors.Is.
var ErrNotFound = errors.New("not found")

// NotFoundError is returned before any request is made when an operation
// needs an identifier and the model has none.
type NotFoundError struct {
	TypeName        string
	IdentifierField string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource of type [%s] not found: model has no [%s]", e.TypeName, e.IdentifierField)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// InvalidRequestError reports required properties that were not supplied or
// could not be read.
type InvalidRequestError struct {
	TypeName string
	Missing  []string
	Err      error
}

func (e *InvalidRequestError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("invalid request for [%s]: missing [%s]", e.TypeName, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("invalid request for [%s]: %v", e.TypeName, e.Err)
}

func (e *InvalidRequestError) Unwrap() error {
	return e.Err
}
