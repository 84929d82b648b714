package common

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypedErrorsUnwrapToSentinels(t *testing.T) {
	tests := []struct {
		err      error
		sentinel error
		name     string
		message  string
	}{
		{
			name:     "validation",
			err:      NewValidationError("x", "must be at least %d", 1),
			sentinel: ErrValidation,
			message:  "validation failed: x: must be at least 1",
		},
		{
			name:     "validation without field",
			err:      &ValidationError{Reason: "empty"},
			sentinel: ErrValidation,
			message:  "validation failed: empty",
		},
		{
			name:     "data integrity",
			err:      &DataIntegrityError{Month: "2025-03", ItemID: 9},
			sentinel: ErrDataIntegrity,
			message:  "data integrity violation: spending for 2025-03 references unknown budget item 9",
		},
		{
			name:     "not found",
			err:      &NotFoundError{Kind: "account", ID: 4},
			sentinel: ErrNotFound,
			message:  "account with id 4 not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("failed to build view: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.sentinel)
			assert.Equal(t, tt.message, tt.err.Error())
		})
	}
}

func TestAPIError(t *testing.T) {
	tests := []struct {
		name      string
		message   string
		err       APIError
		retryable bool
	}{
		{name: "bad request", err: APIError{StatusCode: 400, Message: "bad year"}, message: "api error: 400: bad year"},
		{name: "not found without body", err: APIError{StatusCode: 404}, message: "api error: 404 Not Found"},
		{name: "rate limited", err: APIError{StatusCode: http.StatusTooManyRequests}, retryable: true, message: "api error: 429 Too Many Requests"},
		{name: "server error", err: APIError{StatusCode: 502, Message: "upstream"}, retryable: true, message: "api error: 502: upstream"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.message, tt.err.Error())
			assert.Equal(t, tt.retryable, tt.err.Retryable())
			assert.Equal(t, tt.retryable, IsRetryable(fmt.Errorf("wrapped: %w", &tt.err)))
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want string
	}{
		{
			name: "user error",
			err:  fmt.Errorf("outer: %w", NewUserError("Could not reach the server", errors.New("dial tcp"))),
			want: "Could not reach the server",
		},
		{
			name: "data integrity",
			err:  fmt.Errorf("failed to aggregate spending: %w", &DataIntegrityError{Month: "2025-01", ItemID: 3}),
			want: "budget and spending data are out of sync, refresh and try again",
		},
		{
			name: "plain",
			err:  errors.New("boom"),
			want: "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}

func TestUserError(t *testing.T) {
	inner := errors.New("dial tcp")
	err := NewUserError("Could not reach the server", inner)

	assert.Equal(t, "Could not reach the server: dial tcp", err.Error())
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "only message", NewUserError("only message", nil).Error())
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want bool
	}{
		{name: "rate limit", err: ErrRateLimit, want: true},
		{name: "deadline", err: context.DeadlineExceeded, want: true},
		{name: "retryable", err: &RetryableError{Err: errors.New("reset"), Retryable: true}, want: true},
		{name: "not retryable", err: &RetryableError{Err: errors.New("decode"), Retryable: false}},
		{name: "validation", err: NewValidationError("month", "bad")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}
