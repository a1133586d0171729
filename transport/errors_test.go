package transport

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAuthError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain network failure", errors.New("connection refused"), false},
		{"http 401", errors.New("unexpected status 401"), true},
		{"unauthorized", errors.New("Unauthorized request"), true},
		{"invalid key phrasing", errors.New("Invalid API Key provided"), true},
		{"authentication word", errors.New("authentication_error: bad token"), true},
		{"credential word", errors.New("missing credentials"), true},
		{"rate limit", errors.New("429 too many requests"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAuthError(tt.err))
		})
	}
}

func TestClassify(t *testing.T) {
	assert.Nil(t, Classify(nil))

	cause := errors.New("401 unauthorized")
	classified := Classify(cause)
	require.NotNil(t, classified)
	assert.True(t, classified.IsAuth)
	assert.Equal(t, "Invalid API key", classified.Message)
	assert.ErrorIs(t, classified, cause)

	// Already-classified errors pass through unchanged.
	again := Classify(classified)
	assert.Same(t, classified, again)

	// Classification survives wrapping.
	wrapped := fmt.Errorf("send turn: %w", classified)
	var terr *Error
	require.ErrorAs(t, wrapped, &terr)
	assert.True(t, terr.IsAuth)
}

func TestClassifyNonAuth(t *testing.T) {
	classified := Classify(errors.New("stream reset by peer"))
	assert.False(t, classified.IsAuth)
	assert.Contains(t, classified.Error(), "stream reset by peer")
}
