package db

import (
	"time"

	"github.com/arenax/arenax/internal/pkg/xtime"
)

// now is truncated to microseconds, the precision every dialect keeps.
func now() time.Time {
	return xtime.UTCNow().Truncate(time.Microsecond)
}
