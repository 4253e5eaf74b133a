package errors

import (
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ValidationError     ErrorType = "VALIDATION_ERROR"
	NotFoundError       ErrorType = "NOT_FOUND"
	UpstreamError       ErrorType = "UPSTREAM_ERROR"
	ParseError          ErrorType = "PARSE_ERROR"
	DeviceLocationError ErrorType = "DEVICE_LOCATION_ERROR"
	StorageError        ErrorType = "STORAGE_ERROR"
	ServerError         ErrorType = "SERVER_ERROR"
)

// DeviceLocationKind classifies device geolocation failures so they can be
// mapped to fixed user-facing strings.
type DeviceLocationKind string

const (
	DevicePermissionDenied    DeviceLocationKind = "permission_denied"
	DevicePositionUnavailable DeviceLocationKind = "position_unavailable"
	DeviceTimeout             DeviceLocationKind = "timeout"
	DeviceUnknown             DeviceLocationKind = "unknown"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Code       string    `json:"code"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Raw        error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Raw
}

// New creates a new AppError
func New(errType ErrorType, message string, detail string) *AppError {
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     detail,
		HTTPStatus: getHTTPStatus(errType),
	}
}

// Wrap wraps a raw error with AppError context
func Wrap(err error, errType ErrorType, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     err.Error(),
		HTTPStatus: getHTTPStatus(errType),
		Raw:        err,
	}
}

// LocationNotFound reports a geocoding query that resolved to zero places.
func LocationNotFound(query string) *AppError {
	return &AppError{
		Type:       NotFoundError,
		Message:    fmt.Sprintf("City %q not found.", query),
		Detail:     fmt.Sprintf("query: %s", query),
		HTTPStatus: http.StatusNotFound,
	}
}

// UpstreamFailure reports a non-2xx response from the weather provider or the
// relay. The proxied status is preserved so callers can surface it verbatim.
func UpstreamFailure(status int, detail string) *AppError {
	return &AppError{
		Type:       UpstreamError,
		Code:       fmt.Sprintf("HTTP_%d", status),
		Message:    fmt.Sprintf("HTTP error! status: %d", status),
		Detail:     detail,
		HTTPStatus: status,
	}
}

// ParseFailure reports a payload that could not be decoded into the expected
// shape.
func ParseFailure(err error, what string) *AppError {
	return &AppError{
		Type:       ParseError,
		Message:    fmt.Sprintf("failed to decode %s response", what),
		Detail:     err.Error(),
		HTTPStatus: http.StatusInternalServerError,
		Raw:        err,
	}
}

// DeviceLocationFailure reports a device geolocation failure of the given kind.
func DeviceLocationFailure(kind DeviceLocationKind, err error) *AppError {
	e := &AppError{
		Type:       DeviceLocationError,
		Code:       string(kind),
		Message:    DeviceLocationMessage(kind),
		HTTPStatus: http.StatusServiceUnavailable,
		Raw:        err,
	}
	if err != nil {
		e.Detail = err.Error()
	}
	return e
}

// DeviceLocationKindOf extracts the failure kind from an error, defaulting to
// DeviceUnknown for anything that is not a device-location AppError.
func DeviceLocationKindOf(err error) DeviceLocationKind {
	if appErr, ok := err.(*AppError); ok && appErr.Type == DeviceLocationError {
		return DeviceLocationKind(appErr.Code)
	}
	return DeviceUnknown
}

// DeviceLocationMessage maps a device failure kind to its fixed user-facing
// string.
func DeviceLocationMessage(kind DeviceLocationKind) string {
	switch kind {
	case DevicePermissionDenied:
		return "Location access denied. Please enable location services."
	case DevicePositionUnavailable:
		return "Location information is unavailable."
	case DeviceTimeout:
		return "The request to get user location timed out."
	default:
		return "Unable to retrieve your location."
	}
}

// NewStorageError wraps a persistence failure. Storage errors are logged and
// swallowed at the orchestrator boundary, never surfaced to the user.
func NewStorageError(err error, op string) *AppError {
	return &AppError{
		Type:       StorageError,
		Message:    fmt.Sprintf("storage operation failed: %s", op),
		Detail:     err.Error(),
		HTTPStatus: http.StatusInternalServerError,
		Raw:        err,
	}
}

func ValidationFailed(message string, details string) *AppError {
	return &AppError{
		Type:       ValidationError,
		Message:    message,
		Detail:     details,
		HTTPStatus: http.StatusBadRequest,
	}
}

func InternalServerError(message string) *AppError {
	return &AppError{
		Type:       ServerError,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

func getHTTPStatus(errType ErrorType) int {
	switch errType {
	case ValidationError:
		return http.StatusBadRequest
	case NotFoundError:
		return http.StatusNotFound
	case UpstreamError:
		return http.StatusBadGateway
	case ParseError, StorageError:
		return http.StatusInternalServerError
	case DeviceLocationError:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
