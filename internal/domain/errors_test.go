package domain

import (
	"errors"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "error without wrapped error",
			appErr:   ErrIdentityNotFound,
			expected: "Identity not found",
		},
		{
			name: "error with wrapped error",
			appErr: &AppError{
				Code:       "TEST_ERROR",
				Message:    "Test message",
				StatusCode: 500,
				Err:        errors.New("underlying error"),
			},
			expected: "Test message: underlying error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.appErr.Error(); got != tt.expected {
				t.Errorf("Error() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	underlying := errors.New("underlying error")
	appErr := &AppError{
		Code:       "TEST",
		Message:    "test",
		StatusCode: 500,
		Err:        underlying,
	}

	if got := appErr.Unwrap(); got != underlying {
		t.Errorf("Unwrap() = %v, want %v", got, underlying)
	}

	// Test with nil error
	appErrNoWrap := ErrIdentityNotFound
	if got := appErrNoWrap.Unwrap(); got != nil {
		t.Errorf("Unwrap() = %v, want nil", got)
	}
}

func TestAppError_WithError(t *testing.T) {
	underlying := errors.New("db connection failed")
	newErr := ErrPersistence.WithError(underlying)

	if newErr.Code != ErrPersistence.Code {
		t.Errorf("Code = %v, want %v", newErr.Code, ErrPersistence.Code)
	}

	if newErr.StatusCode != ErrPersistence.StatusCode {
		t.Errorf("StatusCode = %v, want %v", newErr.StatusCode, ErrPersistence.StatusCode)
	}

	if newErr.Err != underlying {
		t.Errorf("Err = %v, want %v", newErr.Err, underlying)
	}

	// Check errors.Is still works
	if !errors.Is(newErr, underlying) {
		t.Errorf("errors.Is should return true for wrapped error")
	}
}

func TestErrorsAs(t *testing.T) {
	err := ErrIdentityNotFound.WithError(errors.New("not in db"))

	var appErr *AppError
	if !errors.As(err, &appErr) {
		t.Errorf("errors.As should match AppError")
	}

	if appErr.Code != "IDENTITY_NOT_FOUND" {
		t.Errorf("Code = %v, want IDENTITY_NOT_FOUND", appErr.Code)
	}
}

func TestErrorsIs_WithErrorClone(t *testing.T) {
	err := ErrModelUnavailable.WithError(errors.New("connection refused"))

	if !errors.Is(err, ErrModelUnavailable) {
		t.Errorf("errors.Is should match the predefined sentinel through WithError")
	}

	if errors.Is(err, ErrNoFaceDetected) {
		t.Errorf("errors.Is matched a different sentinel")
	}
}

func TestPredefinedErrors(t *testing.T) {
	tests := []struct {
		err        *AppError
		code       string
		statusCode int
	}{
		{ErrInternal, "INTERNAL_ERROR", 500},
		{ErrBadRequest, "BAD_REQUEST", 400},
		{ErrUnauthorized, "UNAUTHORIZED", 401},
		{ErrNotFound, "NOT_FOUND", 404},
		{ErrIdentityNotFound, "IDENTITY_NOT_FOUND", 404},
		{ErrIdentityExists, "IDENTITY_ALREADY_EXISTS", 409},
		{ErrDuplicateIdentity, "DUPLICATE_IDENTITY", 409},
		{ErrInvalidInput, "INVALID_INPUT", 400},
		{ErrModelUnavailable, "MODEL_UNAVAILABLE", 503},
		{ErrNoFaceDetected, "NO_FACE_DETECTED", 422},
		{ErrMultipleFaces, "MULTIPLE_FACES", 422},
		{ErrEmbeddingDimension, "EMBEDDING_DIMENSION_MISMATCH", 422},
		{ErrPersistence, "PERSISTENCE_FAILED", 500},
		{ErrWebhookNotFound, "WEBHOOK_NOT_FOUND", 404},
		{ErrRateLimitExceeded, "RATE_LIMIT_EXCEEDED", 429},
		{ErrValidationFailed, "VALIDATION_FAILED", 422},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Code = %v, want %v", tt.err.Code, tt.code)
			}
			if tt.err.StatusCode != tt.statusCode {
				t.Errorf("StatusCode = %v, want %v", tt.err.StatusCode, tt.statusCode)
			}
		})
	}
}
