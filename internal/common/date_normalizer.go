package common

import (
	"strings"
	"time"

	"aerocleanse/etl/internal/constants"
)

// Values treated as "no date" before any parsing is attempted (compared upper-cased)
var nullDateTokens = map[string]struct{}{
	"":     {},
	"N/A":  {},
	"NONE": {},
	"NULL": {},
}

// dateLayouts is tried in order and the first successful parse wins.
// Numeric dates with the year last are read month-first; the day-first layouts
// at the end are only reached when month-first parsing failed, e.g. "31-01-2024".
// Two-digit years follow time.Parse: 69-99 are 19xx, 00-68 are 20xx.
var dateLayouts = []string{
	"2006-1-2",
	"2006/1/2",
	"1-2-2006",
	"1/2/2006",
	"1-2-06",
	"1/2/06",
	"2-Jan-2006",
	"2-Jan-06",
	"2 Jan 2006",
	"2 January 2006",
	"2-January-2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"January 2, 2006",
	"January 2 2006",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2-1-2006",
	"2/1/2006",
	"2-1-06",
	"2/1/06",
}

// NormalizeDate parses a loosely formatted date into a UTC calendar date.
// The boolean is false when the value is a null token or cannot be parsed.
func NormalizeDate(raw string) (time.Time, bool) {
	value := strings.TrimSpace(raw)
	if _, isNull := nullDateTokens[strings.ToUpper(value)]; isNull {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		y, m, d := parsed.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

type normalizedDate struct {
	date time.Time
	ok   bool
}

// DateNormalizer memoizes NormalizeDate; upstream batches repeat the same
// handful of date strings across thousands of rows.
type DateNormalizer struct {
	cache CacheInterface
}

// NewDateNormalizer creates a normalizer. A nil cache disables memoization.
func NewDateNormalizer(cache CacheInterface) *DateNormalizer {
	return &DateNormalizer{cache: cache}
}

// Normalize has the same contract as NormalizeDate
func (n *DateNormalizer) Normalize(raw string) (time.Time, bool) {
	if n == nil || n.cache == nil {
		return NormalizeDate(raw)
	}

	key := string(constants.CachePrefixEventDate) + raw
	val, _ := n.cache.GetOrSet(key, 0, func() (any, error) {
		d, ok := NormalizeDate(raw)
		return normalizedDate{date: d, ok: ok}, nil
	})
	if res, ok := val.(normalizedDate); ok {
		return res.date, res.ok
	}
	return NormalizeDate(raw)
}

// Memoized reports how many distinct raw values are currently cached
func (n *DateNormalizer) Memoized() int {
	if n == nil || n.cache == nil {
		return 0
	}
	return n.cache.ItemCount()
}
