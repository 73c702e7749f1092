package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNormalizeDate_SupportedFormats(t *testing.T) {
	want := day(2024, time.January, 31)

	for _, raw := range []string{
		"2024-01-31",
		"01/31/2024",
		"2024/01/31",
		"31-Jan-2024",
		"01-31-2024",
		"31-JAN-2024",
		"  2024-01-31\t",
		"2024-01-31T08:15:00Z",
		"2024-01-31 23:59:59",
		"Jan 31, 2024",
		"January 31, 2024",
		"Jan 31 2024",
		"January 31 2024",
		"31 January 2024",
		"31 Jan 2024",
		"31-january-2024",
		"01/31/24",
		"1-31-24",
		"31-Jan-24",
	} {
		t.Run(raw, func(t *testing.T) {
			got, ok := NormalizeDate(raw)
			require.True(t, ok)
			assert.Equal(t, want, got)
		})
	}
}

func TestNormalizeDate_NullTokens(t *testing.T) {
	for _, raw := range []string{"N/A", "n/a", "", "   ", "null", "NULL", " Null ", "NONE", "none"} {
		t.Run(raw, func(t *testing.T) {
			_, ok := NormalizeDate(raw)
			assert.False(t, ok)
		})
	}
}

func TestNormalizeDate_Unparseable(t *testing.T) {
	for _, raw := range []string{"Not a date", "2024-13-01", "02-30-2024", "31/31/2024", "yesterday", "20240131"} {
		t.Run(raw, func(t *testing.T) {
			_, ok := NormalizeDate(raw)
			assert.False(t, ok)
		})
	}
}

func TestNormalizeDate_NumericAmbiguity(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		// month-first wins whenever it is valid
		{"01-02-2024", day(2024, time.January, 2)},
		{"01/02/2024", day(2024, time.January, 2)},
		{"12-11-2023", day(2023, time.December, 11)},
		// day-first is the fallback when the first field cannot be a month
		{"13-02-2024", day(2024, time.February, 13)},
		{"31/01/2024", day(2024, time.January, 31)},
		// two-digit years keep the same rule
		{"01/02/24", day(2024, time.January, 2)},
		{"13/02/24", day(2024, time.February, 13)},
		{"12-31-99", day(1999, time.December, 31)},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := NormalizeDate(tt.raw)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeDate_Idempotent(t *testing.T) {
	first, ok := NormalizeDate("31-Jan-2024")
	require.True(t, ok)

	second, ok := NormalizeDate(first.Format("2006-01-02"))
	require.True(t, ok)
	assert.Equal(t, first, second)
}

func TestDateNormalizer_MemoMatchesDirectParse(t *testing.T) {
	cache := NewCacheService(time.Minute, time.Minute)
	memo := NewDateNormalizer(cache)

	inputs := []string{"2024-01-31", "N/A", "01-02-2024", "garbage", "2024-01-31"}
	for _, raw := range inputs {
		wantDate, wantOK := NormalizeDate(raw)
		gotDate, gotOK := memo.Normalize(raw)
		assert.Equal(t, wantOK, gotOK, raw)
		assert.Equal(t, wantDate, gotDate, raw)
	}

	// the repeated input is served from the memo
	assert.Equal(t, 4, cache.ItemCount())
	assert.Equal(t, 4, memo.Memoized())
}

func TestDateNormalizer_NilCache(t *testing.T) {
	n := NewDateNormalizer(nil)
	got, ok := n.Normalize("2024/01/31")
	require.True(t, ok)
	assert.Zero(t, n.Memoized())
	assert.Equal(t, day(2024, time.January, 31), got)
}
