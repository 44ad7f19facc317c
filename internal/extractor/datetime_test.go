package extractor_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flightdocs/internal/extractor"
)

func TestNormalizer_TicketFormats(t *testing.T) {
	n := extractor.NewNormalizer(nil)
	want := time.Date(2025, time.July, 12, 4, 55, 0, 0, time.UTC)

	tests := []struct {
		name string
		raw  string
	}{
		{"plain", "Sat, 12 Jul 25, 04:55"},
		{"apostrophe year", "Sat, 12 Jul '25, 04:55"},
		{"quoted day", "Sat, '12' Jul 25, 04:55"},
		{"curly quote", "Sat, 12 Jul ’25, 04:55"},
		{"extra whitespace", "  Sat,  12 Jul 25,\n04:55 "},
		{"four digit year", "Sat, 12 Jul 2025, 04:55"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := n.Normalize(tt.raw)
			require.True(t, ok)
			assert.True(t, want.Equal(got), "got %s", got)
		})
	}
}

func TestNormalizer_Unparseable(t *testing.T) {
	n := extractor.NewNormalizer(nil)
	for _, raw := range []string{"", "   ", "tomorrow", "12/07/2025", "Sat, 32 Jul 25, 04:55", "Sat, 12 Jul 25, 25:00"} {
		_, ok := n.Normalize(raw)
		assert.False(t, ok, "expected %q to be rejected", raw)
		assert.Nil(t, n.Timestamp(raw))
	}
}

func TestNormalizer_Idempotent(t *testing.T) {
	n := extractor.NewNormalizer(nil)

	first, ok := n.Normalize("Sun, 13 Jul 25, 02:10")
	require.True(t, ok)

	second, ok := n.Normalize(first.Format(time.RFC3339))
	require.True(t, ok)
	assert.True(t, first.Equal(second))
	assert.Equal(t, first.Format(time.RFC3339), second.Format(time.RFC3339))

	third, ok := n.Normalize(second.Format(time.RFC3339Nano))
	require.True(t, ok)
	assert.Equal(t, second, third)
}

func TestNormalizer_Location(t *testing.T) {
	kolkata := time.FixedZone("IST", 5*3600+1800)
	n := extractor.NewNormalizer(kolkata)

	got, ok := n.Normalize("Sat, 12 Jul 25, 04:55")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, time.July, 11, 23, 25, 0, 0, time.UTC), got)
	assert.Equal(t, time.UTC, got.Location())

	// Explicit offsets are not reinterpreted.
	got, ok = n.Normalize("2025-07-12T04:55:00Z")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, time.July, 12, 4, 55, 0, 0, time.UTC), got)
}

func TestNormalizer_Renormalize(t *testing.T) {
	n := extractor.NewNormalizer(nil)

	assert.Nil(t, n.Renormalize(nil))

	bad := "not a date"
	assert.Nil(t, n.Renormalize(&bad))

	good := "2025-07-12T10:25:00+05:30"
	got := n.Renormalize(&good)
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2025, time.July, 12, 4, 55, 0, 0, time.UTC), *got)

	for _, local := range []string{"2025-07-12T04:55:00", "2025-07-12T04:55", "2025-07-12 04:55"} {
		got := n.Renormalize(&local)
		require.NotNil(t, got, local)
		assert.Equal(t, time.Date(2025, time.July, 12, 4, 55, 0, 0, time.UTC), *got, local)
	}
}

func TestNormalizer_LocalISOUsesLocation(t *testing.T) {
	kolkata := time.FixedZone("IST", 5*3600+1800)
	n := extractor.NewNormalizer(kolkata)

	got, ok := n.Normalize("2025-07-12T10:25:00")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, time.July, 12, 4, 55, 0, 0, time.UTC), got)

	again, ok := n.Normalize(got.Format(time.RFC3339))
	require.True(t, ok)
	assert.Equal(t, got, again)
}
