package gorm

import (
	"database/sql/driver"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

const calendarDateLayout = "2006-01-02"

// CalendarDate is a date column stored as YYYY-MM-DD text on every driver,
// so reporting queries can compare it against plain date literals.
type CalendarDate datatypes.Date

// NewCalendarDate drops the time of day from t
func NewCalendarDate(t time.Time) CalendarDate {
	y, m, d := t.Date()
	return CalendarDate(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// CalendarDateFrom converts an in-memory date; nil stays nil
func CalendarDateFrom(d *datatypes.Date) *CalendarDate {
	if d == nil {
		return nil
	}
	cd := NewCalendarDate(time.Time(*d))
	return &cd
}

func (CalendarDate) GormDataType() string {
	return "date"
}

func (d CalendarDate) Value() (driver.Value, error) {
	return time.Time(d).Format(calendarDateLayout), nil
}

func (d *CalendarDate) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*d = CalendarDate{}
	case time.Time:
		*d = NewCalendarDate(v)
	case string:
		return d.parse(v)
	case []byte:
		return d.parse(string(v))
	default:
		return fmt.Errorf("cannot scan %T into CalendarDate", value)
	}
	return nil
}

func (d *CalendarDate) parse(s string) error {
	// older rows may carry a full timestamp; the date part is all we keep
	if len(s) > len(calendarDateLayout) {
		s = s[:len(calendarDateLayout)]
	}
	t, err := time.Parse(calendarDateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	*d = CalendarDate(t)
	return nil
}

func (d CalendarDate) String() string {
	return time.Time(d).Format(calendarDateLayout)
}
