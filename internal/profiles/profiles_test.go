package profiles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adbsweep/adbsweep/internal/errors"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		threads    int
		timeoutSec float64
	}{
		{"lightning", 200, 0.5},
		{"quick", 100, 1.0},
		{"balanced", 50, 2.0},
		{"deep", 30, 3.0},
		{"paranoid", 10, 5.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Resolve(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.threads, p.Threads)
			assert.Equal(t, tt.timeoutSec, p.TimeoutSec)
		})
	}
}

func TestResolveIsCaseInsensitive(t *testing.T) {
	p, err := Resolve("  Balanced ")
	require.NoError(t, err)
	assert.Equal(t, "balanced", p.Name)
}

func TestResolveUnknownProfile(t *testing.T) {
	_, err := Resolve("turbo")
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindUnknownProfile))
}

func TestProfilesStayWithinValidatorBounds(t *testing.T) {
	for _, p := range All() {
		assert.GreaterOrEqual(t, p.Threads, 1, "profile %s", p.Name)
		assert.LessOrEqual(t, p.Threads, 200, "profile %s", p.Name)
		assert.GreaterOrEqual(t, p.TimeoutSec, 0.1, "profile %s", p.Name)
		assert.LessOrEqual(t, p.TimeoutSec, 10.0, "profile %s", p.Name)
	}
}

func TestNames(t *testing.T) {
	names := Names()
	assert.Equal(t, []string{"balanced", "deep", "lightning", "paranoid", "quick"}, names)
}

func TestAllOrderedByThreads(t *testing.T) {
	all := All()
	require.Len(t, all, 5)
	for i := 1; i < len(all); i++ {
		assert.GreaterOrEqual(t, all[i-1].Threads, all[i].Threads)
	}
}
