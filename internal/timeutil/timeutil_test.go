package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStamp(t *testing.T) {
	instant := time.Date(2025, 6, 1, 15, 4, 5, 123_000_000, time.UTC)

	tests := []struct {
		name     string
		loc      *time.Location
		expected string
	}{
		{
			name:     "utc",
			loc:      time.UTC,
			expected: "2025-06-01T15:04:05.123Z",
		},
		{
			name:     "fixed offset",
			loc:      time.FixedZone("PDT", -7*3600),
			expected: "2025-06-01T08:04:05.123-07:00",
		},
		{
			name:     "nil location falls back to utc",
			loc:      nil,
			expected: "2025-06-01T15:04:05.123Z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Stamp(instant, tt.loc))
		})
	}
}

func TestParse(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		instant := time.Date(2025, 6, 1, 8, 4, 5, 123_000_000, time.FixedZone("PDT", -7*3600))
		parsed, err := Parse(Stamp(instant, instant.Location()))
		require.NoError(t, err)
		assert.True(t, parsed.Equal(instant), "parsed instant should equal the original")
	})

	t.Run("plain rfc3339 accepted", func(t *testing.T) {
		parsed, err := Parse("2025-06-01T15:04:05Z")
		require.NoError(t, err)
		assert.Equal(t, 2025, parsed.Year())
	})

	t.Run("garbage rejected", func(t *testing.T) {
		_, err := Parse("last tuesday")
		assert.Error(t, err)
	})
}

func TestLoadLocation(t *testing.T) {
	t.Run("empty name uses default zone", func(t *testing.T) {
		loc, err := LoadLocation("")
		require.NoError(t, err)
		assert.Equal(t, DefaultZone, loc.String())
	})

	t.Run("explicit name", func(t *testing.T) {
		loc, err := LoadLocation("UTC")
		require.NoError(t, err)
		assert.Equal(t, "UTC", loc.String())
	})

	t.Run("unknown name fails", func(t *testing.T) {
		_, err := LoadLocation("Nowhere/Special")
		assert.Error(t, err)
	})
}
