package common

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorKind classifies application errors so the HTTP layer can translate
// them uniformly.
type ErrorKind string

const (
	KindAuthentication ErrorKind = "AUTHENTICATION_ERROR"
	KindAuthorization  ErrorKind = "AUTHORIZATION_ERROR"
	KindValidation     ErrorKind = "VALIDATION_ERROR"
	KindNotFound       ErrorKind = "NOT_FOUND"
	KindConflict       ErrorKind = "CONFLICT"
	KindDependency     ErrorKind = "DEPENDENCY_ERROR"
)

// AppError is the error type every layer below the handlers returns for
// conditions that map onto a client-visible status.
type AppError struct {
	Kind    ErrorKind
	Message string
	Details map[string]string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// HTTPStatus maps the error kind onto a status code. Tenant mismatches are
// reported as 404 so the existence of other tenants' records never leaks.
func (e *AppError) HTTPStatus() int {
	switch e.Kind {
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindDependency:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func NewAuthenticationError(message string) *AppError {
	return &AppError{Kind: KindAuthentication, Message: message}
}

func NewAuthorizationError(message string) *AppError {
	return &AppError{Kind: KindAuthorization, Message: message}
}

func NewValidationError(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

func NewNotFoundError(resource string) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

func NewConflictError(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message}
}

func NewDependencyError(message string, err error) *AppError {
	return &AppError{Kind: KindDependency, Message: message, Err: err}
}

// ErrorResponse is the JSON envelope every error reply uses.
type ErrorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// CreateErrorResponse creates a standardized error response
func CreateErrorResponse(code string, message string, details map[string]string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Details = details
	return &resp
}

// HTTPErrorHandler translates AppError and echo.HTTPError values into the
// standard envelope. Set on the Echo instance at startup.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		_ = c.JSON(appErr.HTTPStatus(), CreateErrorResponse(string(appErr.Kind), appErr.Message, appErr.Details))
		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		msg := fmt.Sprintf("%v", httpErr.Message)
		code := "HTTP_ERROR"
		switch httpErr.Code {
		case http.StatusUnauthorized:
			code = string(KindAuthentication)
		case http.StatusForbidden:
			code = string(KindAuthorization)
		case http.StatusBadRequest:
			code = string(KindValidation)
		case http.StatusNotFound:
			code = string(KindNotFound)
		}
		_ = c.JSON(httpErr.Code, CreateErrorResponse(code, msg, nil))
		return
	}

	_ = c.JSON(http.StatusInternalServerError, CreateErrorResponse("SERVER_ERROR", "Internal server error", nil))
}
