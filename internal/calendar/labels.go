package calendar

import (
	"fmt"
	"time"
)

// Labels are rendered in Spanish, the language members browse the catalogue in.

var weekdayNames = [...]string{
	time.Sunday:    "domingo",
	time.Monday:    "lunes",
	time.Tuesday:   "martes",
	time.Wednesday: "miércoles",
	time.Thursday:  "jueves",
	time.Friday:    "viernes",
	time.Saturday:  "sábado",
}

var monthNames = [...]string{
	time.January:   "enero",
	time.February:  "febrero",
	time.March:     "marzo",
	time.April:     "abril",
	time.May:       "mayo",
	time.June:      "junio",
	time.July:      "julio",
	time.August:    "agosto",
	time.September: "septiembre",
	time.October:   "octubre",
	time.November:  "noviembre",
	time.December:  "diciembre",
}

const (
	todayPrefix    = "Hoy"
	tomorrowPrefix = "Mañana"
)

// LongLabel renders d as "viernes, 3 de octubre de 2025".
func LongLabel(d Day) string {
	return fmt.Sprintf("%s, %d de %s de %d", weekdayNames[d.Weekday()], d.Day, monthNames[d.Month], d.Year)
}

// RelativeLabel prefixes today and tomorrow ("Hoy, ...", "Mañana, ...").
func RelativeLabel(d, today Day) string {
	label := LongLabel(d)
	switch d {
	case today:
		return todayPrefix + ", " + label
	case today.AddDays(1):
		return tomorrowPrefix + ", " + label
	}
	return label
}

// Title renders the grid header, e.g. "octubre 2025".
func (m Month) Title() string {
	return fmt.Sprintf("%s %d", monthNames[m.Month], m.Year)
}

// WeekdayHeaders are the grid column headers, Sunday first.
func WeekdayHeaders() []string {
	out := make([]string, 0, 7)
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		out = append(out, string([]rune(weekdayNames[wd])[:3]))
	}
	return out
}
