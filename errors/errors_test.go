package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	err := New(ValidationError, "invalid input", "field required")
	assert.Equal(t, ValidationError, err.Type)
	assert.Equal(t, "invalid input", err.Message)
	assert.Equal(t, "field required", err.Detail)
	assert.Equal(t, 400, err.HTTPStatus)
}

func TestWrap(t *testing.T) {
	originalErr := fmt.Errorf("original error")
	wrappedErr := Wrap(originalErr, UpstreamError, "provider call failed")

	assert.Equal(t, UpstreamError, wrappedErr.Type)
	assert.Equal(t, "provider call failed", wrappedErr.Message)
	assert.Equal(t, originalErr.Error(), wrappedErr.Detail)
	assert.Equal(t, 502, wrappedErr.HTTPStatus)
	assert.Equal(t, originalErr, wrappedErr.Raw)
}

func TestLocationNotFound(t *testing.T) {
	err := LocationNotFound("NonExistentCity")
	assert.Equal(t, NotFoundError, err.Type)
	assert.Equal(t, `City "NonExistentCity" not found.`, err.Message)
	assert.Equal(t, 404, err.HTTPStatus)
}

func TestUpstreamFailure(t *testing.T) {
	err := UpstreamFailure(503, "service unavailable")
	assert.Equal(t, UpstreamError, err.Type)
	assert.Equal(t, "HTTP_503", err.Code)
	assert.Equal(t, "HTTP error! status: 503", err.Message)
	assert.Equal(t, 503, err.HTTPStatus)
}

func TestParseFailure(t *testing.T) {
	raw := fmt.Errorf("unexpected end of JSON input")
	err := ParseFailure(raw, "weather")
	assert.Equal(t, ParseError, err.Type)
	assert.Equal(t, "failed to decode weather response", err.Message)
	assert.Equal(t, raw, err.Raw)
}

func TestDeviceLocationMessages(t *testing.T) {
	tests := []struct {
		kind     DeviceLocationKind
		expected string
	}{
		{DevicePermissionDenied, "Location access denied. Please enable location services."},
		{DevicePositionUnavailable, "Location information is unavailable."},
		{DeviceTimeout, "The request to get user location timed out."},
		{DeviceUnknown, "Unable to retrieve your location."},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.expected, DeviceLocationMessage(tt.kind))

			err := DeviceLocationFailure(tt.kind, nil)
			assert.Equal(t, DeviceLocationError, err.Type)
			assert.Equal(t, string(tt.kind), err.Code)
			assert.Equal(t, tt.expected, err.Message)
		})
	}
}

func TestDeviceLocationKindOf(t *testing.T) {
	err := DeviceLocationFailure(DevicePermissionDenied, nil)
	assert.Equal(t, DevicePermissionDenied, DeviceLocationKindOf(err))

	assert.Equal(t, DeviceUnknown, DeviceLocationKindOf(fmt.Errorf("some other error")))
}

func TestNewStorageError(t *testing.T) {
	raw := fmt.Errorf("connection refused")
	err := NewStorageError(raw, "save favorites")
	assert.Equal(t, StorageError, err.Type)
	assert.Equal(t, "storage operation failed: save favorites", err.Message)
	assert.Equal(t, raw, err.Raw)
}

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name: "with detail",
			err: &AppError{
				Type:    ValidationError,
				Message: "invalid input",
				Detail:  "field required",
			},
			expected: "VALIDATION_ERROR: invalid input (field required)",
		},
		{
			name: "without detail",
			err: &AppError{
				Type:    UpstreamError,
				Message: "provider unavailable",
			},
			expected: "UPSTREAM_ERROR: provider unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}
