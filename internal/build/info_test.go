package build

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBuildInfo(t *testing.T) {
	info := GetBuildInfo()

	assert.NotEmpty(t, info.Version)
	assert.Equal(t, GoVersion, info.GoVersion)
	assert.Contains(t, info.String(), "Version: "+info.Version)
}

func TestSemver(t *testing.T) {
	prev := Version
	t.Cleanup(func() { Version = prev })

	Version = "v1.4.2-rc.1"

	v, err := Semver()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v.Major())
	assert.True(t, GetBuildInfo().Prerelease)

	Version = "v1.4.2"
	assert.False(t, GetBuildInfo().Prerelease)
}

func TestIsNewer(t *testing.T) {
	tests := []struct {
		current, latest string
		want            bool
	}{
		{"v1.0.0", "v1.0.1", true},
		{"v1.2.0", "v1.1.9", false},
		{"v1.0.0", "v1.0.0", false},
		{"v1.0.0-rc.1", "v1.0.0", true},
		{"garbage", "v1.0.0", false},
		{"v1.0.0", "garbage", false},
	}

	for _, tt := range tests {
		t.Run(tt.current+"->"+tt.latest, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNewer(tt.current, tt.latest))
		})
	}
}
