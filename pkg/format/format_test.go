package format

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRupiah(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "Rp 0"},
		{"45000", "Rp 45.000"},
		{"1250000", "Rp 1.250.000"},
		{"-5000", "-Rp 5.000"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Rupiah(decimal.RequireFromString(tc.in)), tc.in)
	}
}

func TestLongDate(t *testing.T) {
	d := time.Date(2026, time.March, 5, 0, 0, 0, 0, time.Local)
	assert.Equal(t, "05 Maret 2026", LongDate(d))
	assert.Equal(t, "05/03/2026", Date(d))
	assert.Equal(t, "2026-03-05", ISODate(d))
	assert.Equal(t, "-", Date(time.Time{}))
}
