package calendar

import (
	"fmt"
	"time"
)

// Month is the reference month of a calendar grid.
type Month struct {
	Year  int
	Month time.Month
}

const monthLayout = "2006-01"

func MonthOf(t time.Time, loc *time.Location) Month {
	d := DayOf(t, loc)
	return Month{Year: d.Year, Month: d.Month}
}

func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(monthLayout, s)
	if err != nil {
		return Month{}, fmt.Errorf("parse month %q: %w", s, err)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// Prev and Next never touch the event set; they only move the reference month.
func (m Month) Prev() Month { return m.add(-1) }
func (m Month) Next() Month { return m.add(1) }

func (m Month) add(n int) Month {
	t := time.Date(m.Year, m.Month+time.Month(n), 1, 12, 0, 0, 0, time.UTC)
	return Month{Year: t.Year(), Month: t.Month()}
}

func (m Month) FirstDay() Day {
	return Day{Year: m.Year, Month: m.Month, Day: 1}
}

func (m Month) LastDay() Day {
	return m.Next().FirstDay().AddDays(-1)
}

func (m Month) Contains(d Day) bool {
	return d.Year == m.Year && d.Month == m.Month
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

func (m Month) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}
