package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	withCause := NewUpstreamError("max retries exceeded", stderrors.New("status 500"))
	assert.Equal(t, "UPSTREAM: max retries exceeded (caused by: status 500)", withCause.Error())

	withoutCause := NewConfigurationError("GitHub token is required", nil)
	assert.Equal(t, "CONFIGURATION: GitHub token is required", withoutCause.Error())
}

func TestAppError_Unwrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := NewUpstreamError("request failed", cause)

	assert.ErrorIs(t, err, cause)

	// Wrapping an AppError keeps the predicate chain intact via errors.As.
	wrapped := fmt.Errorf("outer: %w", err)
	var appErr *AppError
	assert.True(t, stderrors.As(wrapped, &appErr))
	assert.Equal(t, ErrUpstream, appErr.Type)
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		isUpstream      bool
		isConfiguration bool
		isInternal      bool
	}{
		{
			name:       "upstream",
			err:        NewUpstreamError("boom", nil),
			isUpstream: true,
		},
		{
			name:            "configuration",
			err:             NewConfigurationError("missing token", nil),
			isConfiguration: true,
		},
		{
			name:       "internal",
			err:        NewInternalError("panicked", nil),
			isInternal: true,
		},
		{
			name: "plain error matches nothing",
			err:  stderrors.New("boom"),
		},
		{
			name: "nil error matches nothing",
			err:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isUpstream, IsUpstream(tt.err))
			assert.Equal(t, tt.isConfiguration, IsConfiguration(tt.err))
			assert.Equal(t, tt.isInternal, IsInternal(tt.err))
		})
	}
}
