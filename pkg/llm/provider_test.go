package llm

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantQuota bool
	}{
		{"nil", nil, false},
		{"gemini resource exhausted", errors.New("Error 429, Message: Resource has been exhausted (e.g. check quota)., Status: RESOURCE_EXHAUSTED"), true},
		{"ollama rate limit", fmt.Errorf("ollama error: status 429, body: too many requests"), true},
		{"plain network", errors.New("dial tcp: connection refused"), false},
		{"already classified", fmt.Errorf("wrapped: %w", ErrQuotaExceeded), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyError(tt.err)
			assert.Equal(t, tt.wantQuota, errors.Is(got, ErrQuotaExceeded))
			if tt.err != nil {
				assert.ErrorIs(t, got, tt.err)
			}
		})
	}
}

func TestNewOptions(t *testing.T) {
	o := NewOptions(WithModel("gemini-2.0-flash"), WithMaxTokens(512))
	assert.Equal(t, "gemini-2.0-flash", o.Model)
	assert.Equal(t, 512, o.MaxTokens)
	assert.InDelta(t, 0.3, o.Temperature, 1e-9)
}
