package serialdate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFromSerial(t *testing.T) {
	require.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), FromSerial(45292))
	require.Equal(t, time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC), FromSerial(UnixEpochSerial))
	require.Equal(t, time.Date(2023, 12, 31, 12, 0, 0, 0, time.UTC), FromSerial(45291.5))
	require.InDelta(t, 45292.0, ToSerial(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)), 1e-9)
}

func TestParse(t *testing.T) {
	cases := map[string]struct {
		in   any
		want time.Time
		ok   bool
	}{
		"serial number": {in: 45292.0, want: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), ok: true},
		"serial text":   {in: "45292", want: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), ok: true},
		"iso date":      {in: "2023-12-01", want: time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), ok: true},
		"us date":       {in: "12/25/2023", want: time.Date(2023, 12, 25, 0, 0, 0, 0, time.UTC), ok: true},
		"short month":   {in: "05-Mar-24", want: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), ok: true},
		"empty":         {in: "", ok: false},
		"nil":           {in: nil, ok: false},
		"garbage":       {in: "not-a-date", ok: false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, ok := Parse(tc.in)
			require.Equal(t, tc.ok, ok)
			if tc.ok {
				require.True(t, tc.want.Equal(got), "got %v", got)
			}
		})
	}
}

func TestEndOfDay(t *testing.T) {
	day, ok := ParseDay("2023-12-31")
	require.True(t, ok)
	end := EndOfDay(day)
	require.Equal(t, time.Date(2023, 12, 31, 23, 59, 59, 999000000, time.UTC), end)

	_, ok = ParseDay("31/12/2023")
	require.False(t, ok)
}

func TestFormat(t *testing.T) {
	require.Equal(t, "01-01-24", Format(45292.0))
	require.Equal(t, "01-12-23", Format("2023-12-01"))
	require.Equal(t, "-", Format(""))
	require.Equal(t, "-", Format(nil))
	require.Equal(t, "pending", Format("pending"))
}
