package service

import (
	"slices"
	"sort"
	"strings"
	"time"
)

type YearMode int

const (
	FinancialYearMode YearMode = iota
	CalendarYearMode
)

func (m YearMode) String() string {
	if m == CalendarYearMode {
		return "Calendar Year"
	}
	return "Financial Year"
}

// ReportFilter - выбор годов и месяцев для отчета.
// Пустой список годов или месяцев означает "все".
type ReportFilter struct {
	mode   YearMode
	years  []string
	months []time.Month
}

func NewReportFilter(mode YearMode, years []string, months []time.Month) ReportFilter {
	return ReportFilter{
		mode:   mode,
		years:  append([]string(nil), years...),
		months: append([]time.Month(nil), months...),
	}
}

func (f ReportFilter) Mode() YearMode { return f.mode }

func (f ReportFilter) Years() []string { return append([]string(nil), f.years...) }

func (f ReportFilter) Months() []time.Month { return append([]time.Month(nil), f.months...) }

// WithYears возвращает копию фильтра с другими годами
func (f ReportFilter) WithYears(years ...string) ReportFilter {
	return NewReportFilter(f.mode, years, f.months)
}

func yearLabel(r ClassifiedRecord, mode YearMode) string {
	if mode == CalendarYearMode {
		return r.CalendarYear
	}
	return r.FinancialYear
}

func (f ReportFilter) Matches(r ClassifiedRecord) bool {
	if len(f.years) > 0 && !slices.Contains(f.years, yearLabel(r, f.mode)) {
		return false
	}
	if len(f.months) > 0 && !slices.Contains(f.months, r.Date.Month()) {
		return false
	}
	return true
}

func (f ReportFilter) Apply(records []ClassifiedRecord) []ClassifiedRecord {
	result := make([]ClassifiedRecord, 0, len(records))
	for _, r := range records {
		if f.Matches(r) {
			result = append(result, r)
		}
	}
	return result
}

// Label - заголовок отчета, например "FY24/25 (Jan, Feb)"
func (f ReportFilter) Label() string {
	label := "All Time"
	if len(f.years) > 0 {
		label = strings.Join(f.years, ", ")
	}

	if len(f.months) > 0 {
		names := make([]string, 0, len(f.months))
		for _, m := range f.months {
			names = append(names, m.String()[:3])
		}
		label += " (" + strings.Join(names, ", ") + ")"
	}
	return label
}

// YearOptions - доступные года по убыванию
func YearOptions(records []ClassifiedRecord, mode YearMode) []string {
	seen := make(map[string]struct{})
	for _, r := range records {
		seen[yearLabel(r, mode)] = struct{}{}
	}

	options := make([]string, 0, len(seen))
	for y := range seen {
		options = append(options, y)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(options)))
	return options
}

// ParseMonth разбирает сокращенное или полное английское название месяца
func ParseMonth(s string) (time.Month, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) < 3 {
		return 0, false
	}

	for m := time.January; m <= time.December; m++ {
		name := strings.ToLower(m.String())
		if s == name || s == name[:3] {
			return m, true
		}
	}
	return 0, false
}
