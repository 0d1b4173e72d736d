package xtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUTCNow(t *testing.T) {
	assert.Equal(t, time.UTC, UTCNow().Location())

	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	restore := SetUTCNowFunc(Frozen(fixed))

	assert.Equal(t, fixed, UTCNow())

	restore()
	assert.NotEqual(t, fixed, UTCNow())
}
