package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInterval(t *testing.T) {
	tests := []struct {
		raw     string
		want    time.Duration
		wantErr bool
	}{
		{raw: "", want: 0},
		{raw: "1500", want: 1500 * time.Millisecond},
		{raw: "30s", want: 30 * time.Second},
		{raw: "-1", wantErr: true},
		{raw: "-1s", wantErr: true},
		{raw: "soon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseInterval(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseKeys(t *testing.T) {
	assert.Empty(t, parseKeys(""))
	assert.Equal(t, []string{"teams", "standings"}, parseKeys(" teams, standings,,teams "))
}
