package dates

import (
	"fmt"
	"strings"
	"time"
)

// ISO - формат даты для хранения и отпечатков
const ISO = "2006-01-02"

// layouts перебираются по порядку; день идет раньше месяца (австралийский формат)
var layouts = []string{
	ISO,
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02",
	"2/1/2006",
	"2/1/06",
	"2-1-2006",
	"2.1.2006",
	"2 Jan 2006",
	"2 January 2006",
	"Mon, 2 Jan 2006",
	"Monday, 2 January 2006",
	"Mon 2 Jan 2006",
}

// Parse разбирает дату в одном из поддерживаемых форматов
// и возвращает полночь UTC этого дня.
func Parse(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return Day(t), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognised date %q", value)
}

// Day отбрасывает время и часовой пояс, оставляя календарный день в UTC.
func Day(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Range возвращает все дни от start до end включительно.
func Range(start, end time.Time) []time.Time {
	start, end = Day(start), Day(end)
	if end.Before(start) {
		return nil
	}

	days := make([]time.Time, 0, int(end.Sub(start).Hours()/24)+1)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
