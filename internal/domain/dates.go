package domain

import (
	"fmt"
	"time"
)

// DateLayout формат календарной даты на проводе и в хранилище
const DateLayout = "2006-01-02"

// NewDate возвращает календарный день как полночь UTC
func NewDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateOf отбрасывает время суток, сохраняя календарный день в зоне t
func DateOf(t time.Time) time.Time {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// NormalizeDates приводит все даты к полуночи UTC, порядок сохраняется
func NormalizeDates(dates []time.Time) []time.Time {
	if dates == nil {
		return nil
	}
	out := make([]time.Time, len(dates))
	for i, d := range dates {
		out[i] = DateOf(d)
	}
	return out
}

// MaxIntervalDays наибольшая длина интервала отпуска при добавлении участника
const MaxIntervalDays = 366

// IntervalDays возвращает число дней интервала [start, end] включительно; 0 если end раньше start
func IntervalDays(start, end time.Time) int {
	from, to := DateOf(start), DateOf(end)
	if to.Before(from) {
		return 0
	}
	return int(to.Sub(from).Hours()/24) + 1
}

// DaysBetween возвращает каждый день интервала [start, end] включительно.
// Для end раньше start результат пустой.
func DaysBetween(start, end time.Time) []time.Time {
	from, to := DateOf(start), DateOf(end)
	var days []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// ParseDate разбирает дату в формате YYYY-MM-DD
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// ParseDates разбирает список дат в формате YYYY-MM-DD
func ParseDates(values []string) ([]time.Time, error) {
	dates := make([]time.Time, 0, len(values))
	for _, v := range values {
		d, err := ParseDate(v)
		if err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, nil
}

// FormatDates форматирует даты в YYYY-MM-DD
func FormatDates(dates []time.Time) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.Format(DateLayout)
	}
	return out
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// SameDates сравнивает два списка дат с точностью до дня
func SameDates(a, b []time.Time) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !sameDay(a[i], b[i]) {
			return false
		}
	}
	return true
}
