package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextLevelUpReward(t *testing.T) {
	tests := []struct {
		level int
		want  int
	}{
		{1, 5},
		{5, 10},
		{12, 20},
		{29, 30},
		{30, 50},
	}
	for _, tt := range tests {
		r, ok := NextLevelUpReward(tt.level)
		require.True(t, ok, "level %d", tt.level)
		assert.Equal(t, tt.want, r.Level)
	}

	_, ok := NextLevelUpReward(50)
	assert.False(t, ok)
}
