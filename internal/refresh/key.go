package refresh

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/samber/lo"
)

// WatchList is a de-duplicated, order independent set of keys. The zero
// value watches everything.
type WatchList struct {
	keys []string
	sum  uint64
}

// NewWatchList builds a watch list from keys. Empty keys are dropped.
func NewWatchList(keys ...string) WatchList {
	uniq := lo.Uniq(lo.Compact(keys))
	slices.Sort(uniq)

	w := WatchList{keys: uniq}
	if len(uniq) > 0 {
		d := xxhash.New()
		for _, k := range uniq {
			writeString(d, k)
		}

		w.sum = d.Sum64()
	}

	return w
}

// Keys returns the sorted keys. The slice must not be modified.
func (w WatchList) Keys() []string {
	return w.keys
}

// Empty reports whether the list watches everything.
func (w WatchList) Empty() bool {
	return len(w.keys) == 0
}

// Fingerprint identifies the content of the list. Lists watching
// everything have fingerprint 0.
func (w WatchList) Fingerprint() uint64 {
	return w.sum
}

// Equal reports whether both lists hold the same keys.
func (w WatchList) Equal(other WatchList) bool {
	return w.sum == other.sum
}

// CacheKey is an ordered sequence of primitive values naming a cache entry.
// Two keys are the same entry when their String forms are equal.
type CacheKey []any

// Key builds a cache key from parts.
func Key(parts ...any) CacheKey {
	return CacheKey(parts)
}

// String returns the stable serialization of the key, e.g. "team:42".
// Strings that contain the separator or a quote, or that read as a number,
// a bool or null, are quoted, so Key("team", "42") is "team:\"42\"".
func (k CacheKey) String() string {
	parts := make([]string, len(k))
	for i, p := range k {
		parts[i] = encodePart(p)
	}

	return strings.Join(parts, ":")
}

// Fingerprint is the hash of String.
func (k CacheKey) Fingerprint() uint64 {
	return xxhash.Sum64String(k.String())
}

// bindingFingerprint identifies a key together with its watch list.
func bindingFingerprint(key CacheKey, watch WatchList) uint64 {
	d := xxhash.New()
	writeString(d, key.String())

	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], watch.sum)
	_, _ = d.Write(b[:])

	return d.Sum64()
}

func writeString(d *xxhash.Digest, s string) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(len(s)))
	_, _ = d.Write(b[:])
	_, _ = d.WriteString(s)
}

// Equal compares keys by content.
func (k CacheKey) Equal(other CacheKey) bool {
	return k.String() == other.String()
}

func encodePart(p any) string {
	switch v := p.(type) {
	case nil:
		return "null"
	case string:
		if needsQuote(v) {
			return strconv.Quote(v)
		}

		return v
	case fmt.Stringer:
		return encodePart(v.String())
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case uint32:
		return strconv.FormatUint(uint64(v), 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}

		return string(b)
	}
}

func needsQuote(s string) bool {
	if s == "" || s == "null" || strings.ContainsAny(s, ":\"\x00") {
		return true
	}

	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return true
	}

	_, err := strconv.ParseBool(s)

	return err == nil
}
