package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	t.Run("parses standard timestamp", func(t *testing.T) {
		ts, hour, day, err := ParseTimestamp("10/Oct/2023:13:55:36 +0200")
		require.NoError(t, err)

		want := time.Date(2023, 10, 10, 13, 55, 36, 0, time.FixedZone("+0200", 2*3600))
		assert.True(t, ts.Equal(want))
		assert.Equal(t, 13, hour)
		assert.Equal(t, 1, day) // ISO: Monday=0, Tuesday=1
	})

	t.Run("negative zone offset", func(t *testing.T) {
		ts, _, _, err := ParseTimestamp("01/Jan/2024:00:30:00 -0500")
		require.NoError(t, err)

		utc := ts.UTC()
		assert.Equal(t, 5, utc.Hour())
		assert.Equal(t, 30, utc.Minute())
	})

	t.Run("missing zone defaults to UTC", func(t *testing.T) {
		ts, _, _, err := ParseTimestamp("10/Oct/2023:13:55:36")
		require.NoError(t, err)
		assert.Equal(t, time.UTC, ts.Location())
	})

	t.Run("unknown month falls back to January", func(t *testing.T) {
		ts, _, _, err := ParseTimestamp("10/Okt/2023:13:55:36 +0000")
		require.NoError(t, err)
		assert.Equal(t, time.January, ts.Month())
	})

	t.Run("iso weekday covers the whole week", func(t *testing.T) {
		// 2023-10-09 is a Monday.
		for i := 0; i < 7; i++ {
			s := time.Date(2023, 10, 9+i, 12, 0, 0, 0, time.UTC).Format("02/Jan/2006:15:04:05 +0000")
			_, _, day, err := ParseTimestamp(s)
			require.NoError(t, err)
			assert.Equal(t, i, day, "offset %d", i)
		}
	})

	t.Run("rejects malformed values", func(t *testing.T) {
		for _, s := range []string{
			"",
			"not-a-date",
			"10/Oct/2023",
			"xx/Oct/2023:13:55:36 +0000",
			"10/Oct/20xx:13:55:36 +0000",
			"10/Oct/2023:25:55:36 +0000",
			"10/Oct/2023:13:xx:36 +0000",
		} {
			_, _, _, err := ParseTimestamp(s)
			assert.Error(t, err, "input %q", s)
		}
	})
}

func TestParseZone(t *testing.T) {
	tests := []struct {
		zone    string
		seconds int
		wantErr bool
	}{
		{"+0000", 0, false},
		{"+0200", 7200, false},
		{"-0530", -19800, false},
		{"+02", 0, true},
		{"0200", 0, true},
		{"+ab00", 0, true},
	}

	for _, tt := range tests {
		got, err := parseZone(tt.zone)
		if tt.wantErr {
			assert.Error(t, err, "zone %q", tt.zone)
			continue
		}
		require.NoError(t, err, "zone %q", tt.zone)
		assert.Equal(t, tt.seconds, got, "zone %q", tt.zone)
	}
}
