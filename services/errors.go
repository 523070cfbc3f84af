package services

import (
	"net/http"

	"github.com/shopswift/storefront/checkout"
)

// ServiceError is a typed error with an HTTP status code. Fields and Values
// are set on validation failures: the per-field messages and an echo of the
// submitted form for re-population.
type ServiceError struct {
	StatusCode int
	Message    string
	Fields     checkout.FieldErrors
	Values     interface{}
}

func (e *ServiceError) Error() string { return e.Message }

func errNotFound(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusNotFound, Message: msg}
}

func errConflict(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusConflict, Message: msg}
}

func errInternal(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusInternalServerError, Message: msg}
}

func errUnavailable(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusServiceUnavailable, Message: msg}
}

func errValidation(fields checkout.FieldErrors, values interface{}) *ServiceError {
	return &ServiceError{
		StatusCode: http.StatusUnprocessableEntity,
		Message:    "Validation failed",
		Fields:     fields,
		Values:     values,
	}
}
