package xtest

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type record struct {
	Amount  decimal.Decimal
	At      time.Time
	RawData json.RawMessage
}

func TestEqual(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	a := record{
		Amount:  decimal.RequireFromString("150.5"),
		At:      at,
		RawData: json.RawMessage(`{"status":"success","id":1}`),
	}
	b := record{
		Amount:  decimal.RequireFromString("150.50"),
		At:      at.In(time.FixedZone("GMT+1", 3600)),
		RawData: json.RawMessage(`{"id":1, "status":"success"}`),
	}

	assert.True(t, Equal(a, b))
	assert.Empty(t, Diff(a, b))

	b.Amount = decimal.RequireFromString("150.51")
	assert.False(t, Equal(a, b))
	assert.NotEmpty(t, Diff(a, b))
}

func TestEqual_RawMessage(t *testing.T) {
	assert.True(t, Equal(record{}, record{RawData: json.RawMessage{}}))
	assert.False(t, Equal(record{RawData: json.RawMessage(`{}`)}, record{}))
	assert.False(t, Equal(record{RawData: json.RawMessage(`{`)}, record{RawData: json.RawMessage(`{`)}))
}
