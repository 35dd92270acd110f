package summary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/domain/entity"
)

func TestConfig_TargetLength(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		requested int
		want      int
		wantErr   bool
	}{
		{0, 200, false},
		{100, 100, false},
		{150, 150, false},
		{200, 200, false},
		{99, 0, true},
		{201, 0, true},
		{-5, 0, true},
	}
	for _, tt := range tests {
		got, err := cfg.TargetLength(tt.requested)
		if tt.wantErr {
			assert.ErrorIs(t, err, entity.ErrValidationFailed, "requested %d", tt.requested)
			continue
		}
		require.NoError(t, err, "requested %d", tt.requested)
		assert.Equal(t, tt.want, got)
	}
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	bad := DefaultConfig()
	bad.DefaultTargetLength = 250
	assert.ErrorContains(t, bad.Validate(), "DEFAULT_TARGET_LENGTH")

	bad = DefaultConfig()
	bad.MinTargetLength = 300
	assert.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.MinInputWords = 0
	assert.ErrorContains(t, bad.Validate(), "MIN_INPUT_WORDS")
}
