package gorm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestCalendarDate_Value(t *testing.T) {
	d := NewCalendarDate(time.Date(2024, time.January, 31, 23, 59, 0, 0, time.UTC))

	v, err := d.Value()
	require.NoError(t, err)
	assert.Equal(t, "2024-01-31", v)
}

func TestCalendarDate_Scan(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  string
	}{
		{"date text", "2024-01-31", "2024-01-31"},
		{"bytes", []byte("2024-02-29"), "2024-02-29"},
		{"legacy timestamp text", "2024-01-31 00:00:00+00:00", "2024-01-31"},
		{"driver time", time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC), "2024-03-05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d CalendarDate
			require.NoError(t, d.Scan(tt.input))
			assert.Equal(t, tt.want, d.String())
		})
	}
}

func TestCalendarDate_ScanRejectsGarbage(t *testing.T) {
	var d CalendarDate
	assert.Error(t, d.Scan("yesterday"))
	assert.Error(t, d.Scan(42))
}

func TestCalendarDateFrom(t *testing.T) {
	assert.Nil(t, CalendarDateFrom(nil))

	in := datatypes.Date(time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC))
	out := CalendarDateFrom(&in)
	require.NotNil(t, out)
	assert.Equal(t, "2024-01-31", out.String())
}
