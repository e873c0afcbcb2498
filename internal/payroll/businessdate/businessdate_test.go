package businessdate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolve_CutoffBoundary(t *testing.T) {
	cases := []struct {
		name   string
		ts     time.Time
		cutoff int
		want   time.Time
	}{
		{"before cutoff", time.Date(2025, 3, 10, 6, 30, 0, 0, time.UTC), 7, day(2025, 3, 9)},
		{"at cutoff", time.Date(2025, 3, 10, 7, 0, 0, 0, time.UTC), 7, day(2025, 3, 10)},
		{"after cutoff", time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC), 7, day(2025, 3, 10)},
		{"late night", time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC), 7, day(2025, 3, 10)},
		{"zero cutoff", time.Date(2025, 3, 10, 0, 5, 0, 0, time.UTC), 0, day(2025, 3, 10)},
		{"month boundary", time.Date(2025, 3, 1, 2, 0, 0, 0, time.UTC), 7, day(2025, 2, 28)},
		{"year boundary", time.Date(2025, 1, 1, 6, 59, 0, 0, time.UTC), 7, day(2024, 12, 31)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Resolve(tc.ts, tc.cutoff))
		})
	}
}

func TestResolve_HourProperty(t *testing.T) {
	base := day(2025, 6, 15)
	for cutoff := 0; cutoff < 24; cutoff++ {
		for hour := 0; hour < 24; hour++ {
			ts := base.Add(time.Duration(hour)*time.Hour + 17*time.Minute)
			want := base
			if hour < cutoff {
				want = base.AddDate(0, 0, -1)
			}
			assert.Equal(t, want, Resolve(ts, cutoff), "hour=%d cutoff=%d", hour, cutoff)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	ts, ok := ParseTimestamp("2025-03-10 06:30:00")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 3, 10, 6, 30, 0, 0, time.UTC), ts)

	ts, ok = ParseTimestamp("3/10/2025 8:00")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC), ts)

	ts, ok = ParseTimestamp("2025-03-10T06:30:00+02:00")
	require.True(t, ok)
	assert.Equal(t, 6, ts.Hour())

	// 45726.25 is 2025-03-10 06:00 in the 1900 date system.
	ts, ok = ParseTimestamp("45726.25")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC), ts.Round(time.Second))

	_, ok = ParseTimestamp("not a date")
	assert.False(t, ok)
	_, ok = ParseTimestamp("")
	assert.False(t, ok)
	_, ok = ParseTimestamp("12")
	assert.False(t, ok)
}

func TestInRange(t *testing.T) {
	start, end := day(2025, 3, 1), day(2025, 3, 31)
	assert.True(t, InRange(day(2025, 3, 1), start, end))
	assert.True(t, InRange(day(2025, 3, 31), start, end))
	assert.False(t, InRange(day(2025, 2, 28), start, end))
	assert.False(t, InRange(day(2025, 4, 1), start, end))
}

func TestParseDay(t *testing.T) {
	want := day(2025, time.March, 10)
	for _, s := range []string{
		"2025-03-10",
		"2025-03-10 00:00:00",
		"3/10/2025",
		"10-Mar-2025",
		"10-mar-25",
		"10 Mar 2025",
		"Mar 10, 2025",
		"March 10, 2025",
		"10-Mar",
		"Mar-10",
		"45726",
	} {
		got, ok := ParseDay(s, 2025)
		require.True(t, ok, s)
		assert.Equal(t, want, got, s)
	}

	for _, s := range []string{"", "-", "Total", "10-Foo-2025", "22"} {
		_, ok := ParseDay(s, 2025)
		assert.False(t, ok, s)
	}

	_, ok := ParseDay("10-Mar", 0)
	assert.False(t, ok, "year-less dates need a reference year")
}
