package xtest

import (
	"encoding/json"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

// Custom comparator for json.RawMessage that compares semantic equality.
func jsonRawMessageComparer(x, y json.RawMessage) bool {
	if len(x) == 0 && len(y) == 0 {
		return true
	}

	if len(x) == 0 || len(y) == 0 {
		return false
	}

	var xVal, yVal any
	if err := json.Unmarshal(x, &xVal); err != nil {
		return false
	}

	if err := json.Unmarshal(y, &yVal); err != nil {
		return false
	}

	return cmp.Equal(xVal, yVal)
}

// Amounts are equal when their values match, regardless of exponent.
func decimalComparer(x, y decimal.Decimal) bool {
	return x.Equal(y)
}

// Times are equal when they name the same instant, regardless of location.
func timeComparer(x, y time.Time) bool {
	return x.Equal(y)
}

func options(opts []cmp.Option) []cmp.Option {
	return append(opts,
		cmp.Comparer(decimalComparer),
		cmp.Comparer(timeComparer),
		cmp.Comparer(jsonRawMessageComparer))
}

// Equal provides semantic equality comparison for stored records.
func Equal(a, b any, opts ...cmp.Option) bool {
	return cmp.Equal(a, b, options(opts)...)
}

// Diff reports the differences Equal would find, or "" when equal.
func Diff(a, b any, opts ...cmp.Option) string {
	return cmp.Diff(a, b, options(opts)...)
}
