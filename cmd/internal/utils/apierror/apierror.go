package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse is what every service hands back to the routes on failure.
// Routes render it as JSON with Code() as the HTTP status.
type ErrorResponse interface {
	error
	Code() int
}

type SimpleError struct {
	Status  int               `json:"-"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func (s *SimpleError) Error() string {
	return s.Message
}

func (s *SimpleError) Code() int {
	return s.Status
}

func NewSimple(status int, message string) *SimpleError {
	return &SimpleError{Status: status, Message: message}
}

var (
	InternalServerError    = NewSimple(http.StatusInternalServerError, "Internal server error")
	MalformedBodyError     = NewSimple(http.StatusBadRequest, "Malformed request body")
	NotFoundError          = NewSimple(http.StatusNotFound, "Resource not found")
	InvalidAuthTokenError  = NewSimple(http.StatusUnauthorized, "Invalid or missing auth token")
	UserNotRegisteredError = NewSimple(http.StatusForbidden, "User profile is not registered")
	UserAlreadyExistsError = NewSimple(http.StatusConflict, "User already exists")
	WorkplaceInUseError    = NewSimple(http.StatusConflict, "Workplace still has appointments")
	InvalidDataError       = NewSimple(http.StatusBadRequest, "Dados inválidos")
)

func NewMissingParamError(param string) *SimpleError {
	return NewSimple(http.StatusBadRequest, fmt.Sprintf("Missing required parameter '%s'", param))
}

func NewInvalidParamTypeError(param, expected string) *SimpleError {
	return NewSimple(http.StatusBadRequest, fmt.Sprintf("Parameter '%s' must be of type %s", param, expected))
}

func NewInvalidFieldError(field, message string) *SimpleError {
	return &SimpleError{
		Status:  http.StatusBadRequest,
		Message: InvalidDataError.Message,
		Fields:  map[string]string{field: message},
	}
}

// FromValidationError turns validator field errors into a 400 carrying one
// message per offending field.
func FromValidationError(err error) *SimpleError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return NewSimple(http.StatusBadRequest, InvalidDataError.Message)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[jsonName(fe)] = describe(fe)
	}
	return &SimpleError{
		Status:  http.StatusBadRequest,
		Message: InvalidDataError.Message,
		Fields:  fields,
	}
}

func jsonName(fe validator.FieldError) string {
	if name := fe.Field(); name != "" {
		return name
	}
	return strings.ToLower(fe.StructField())
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "hexcolor":
		return "must be a hex color"
	case "clocktime":
		return "must be a time formatted as HH:MM"
	case "hourtype":
		return "must be HN or HA"
	case "isodate":
		return "must be a date formatted as YYYY-MM-DD"
	case "gtfield":
		return "must be after " + fe.Param()
	default:
		return "is invalid"
	}
}
