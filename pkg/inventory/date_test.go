package inventory

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2024, Month: time.February, Day: 29}, d)

	for _, bad := range []string{"2024/02/01", "2023-02-29", "", "24-1-1"} {
		_, err := ParseDate(bad)
		assert.ErrorIs(t, err, ErrInvalidDate, bad)
	}
}

func TestDate_Arithmetic(t *testing.T) {
	d := MustParseDate("2024-12-30")
	assert.Equal(t, "2025-01-02", d.AddDays(3).String())
	assert.Equal(t, 3, d.DaysUntil(d.AddDays(3)))
	assert.Equal(t, -1, d.DaysUntil(d.AddDays(-1)))
	assert.True(t, d.Before(d.AddDays(1)))
	assert.False(t, d.After(d))
}

func TestDate_JSON(t *testing.T) {
	type wrap struct {
		Expiry   Date  `json:"expiryDate"`
		Purchase *Date `json:"purchaseDate"`
	}

	var w wrap
	require.NoError(t, json.Unmarshal([]byte(`{"expiryDate":"2024-05-10","purchaseDate":null}`), &w))
	assert.Equal(t, "2024-05-10", w.Expiry.String())
	assert.Nil(t, w.Purchase)

	raw, err := json.Marshal(wrap{Expiry: MustParseDate("2024-05-10")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"expiryDate":"2024-05-10","purchaseDate":null}`, string(raw))

	assert.Error(t, json.Unmarshal([]byte(`{"expiryDate":"10/05/2024"}`), &w))
}

func TestDate_Scan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-05-10", d.String())

	require.NoError(t, d.Scan("2024-06-01T00:00:00Z"))
	assert.Equal(t, "2024-06-01", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))

	v, err := MustParseDate("2024-05-10").Value()
	require.NoError(t, err)
	assert.Equal(t, "2024-05-10", v)
}
