package xtime

import "time"

func UTCNow() time.Time {
	return utcNowFunc()
}

var utcNowFunc = func() time.Time {
	return time.Now().UTC()
}

// SetUTCNowFunc replaces the clock used by UTCNow and returns a func that
// restores it. Intended for tests.
func SetUTCNowFunc(f func() time.Time) func() {
	prev := utcNowFunc
	utcNowFunc = f

	return func() {
		utcNowFunc = prev
	}
}

// Frozen returns a clock that always reports t.
func Frozen(t time.Time) func() time.Time {
	return func() time.Time {
		return t
	}
}
