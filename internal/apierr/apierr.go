package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// NotFound marks a missing entity in the read model. Maps to 404.
func NotFound(kind, name string) *Error {
	return New(http.StatusNotFound, "not_found", fmt.Errorf("%s %q not found", kind, name))
}

// NameExists marks a unique-name collision on creation. Maps to 409.
func NameExists(kind, name string) *Error {
	return New(http.StatusConflict, "name_exists", fmt.Errorf("%s with name %q already exists", kind, name))
}

// Validation marks schema-invalid input. Maps to 400.
func Validation(err error) *Error {
	return New(http.StatusBadRequest, "validation_error", err)
}

// Forbidden marks attempts to mutate protected entities, such as the
// built-in strategies. Maps to 403.
func Forbidden(msg string) *Error {
	return New(http.StatusForbidden, "forbidden", errors.New(msg))
}

func StatusOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) && ae.Status != 0 {
		return ae.Status
	}
	return http.StatusInternalServerError
}

func CodeOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Code != "" {
		return ae.Code
	}
	return "internal_error"
}

func IsNotFound(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Status == http.StatusNotFound
}

func IsConflict(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Status == http.StatusConflict
}
