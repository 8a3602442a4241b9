package handler

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"work-tax-tracker/internal/models"
	"work-tax-tracker/internal/service"
	"work-tax-tracker/pkg/dates"
	"work-tax-tracker/pkg/timenorm"
)

// locationAliases - короткие имена для команд
var locationAliases = map[string]string{
	"wfh":        models.LocationWFH,
	"home":       models.LocationWFH,
	"office":     models.LocationOffice,
	"leave":      models.LocationOnLeave,
	"rdo":        models.LocationRDO,
	"ph":         models.LocationPublicHol,
	"holiday":    models.LocationPublicHol,
	"annual":     models.LocationAnnual,
	"sick":       models.LocationSick,
	"ah":         models.LocationAfterHours,
	"afterhours": models.LocationAfterHours,
}

var fieldAliases = map[string]string{
	"loc":  service.FieldLocation,
	"base": service.FieldBaseHours,
	"ot":   service.FieldOTHours,
}

var (
	fyPattern = regexp.MustCompile(`^FY\d{1,2}/\d{1,2}$`)
	cyPattern = regexp.MustCompile(`^\d{4}$`)
)

func resolveLocation(s string) string {
	if loc, ok := locationAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return loc
	}
	return strings.TrimSpace(s)
}

// parseDate принимает ISO (2024-07-01), ДД/ММ/ГГГГ и ДД.ММ.ГГГГ
func parseDate(s string) (time.Time, error) {
	t, err := dates.Parse(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use DD/MM/YYYY or YYYY-MM-DD", s)
	}
	return t, nil
}

func parseDateRange(fields []string) (time.Time, time.Time, error) {
	if len(fields) < 2 {
		return time.Time{}, time.Time{}, fmt.Errorf("expected a start and an end date")
	}

	start, err := parseDate(fields[0])
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseDate(fields[1])
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, service.ErrInvalidRange
	}
	return start, end, nil
}

// filterArgs - разобранный фильтр отчета
type filterArgs struct {
	filter service.ReportFilter
	// all - пользователь явно попросил все года
	all bool
}

// parseFilter разбирает "[fy|cy] [all] [FY24/25|2024 ...] [Jan Feb ...]"
func parseFilter(tokens []string) (filterArgs, error) {
	mode := service.FinancialYearMode
	var years []string
	var months []time.Month
	all := false

	for _, tok := range tokens {
		upper := strings.ToUpper(strings.TrimSpace(tok))
		switch {
		case upper == "":
			continue
		case upper == "FY":
			mode = service.FinancialYearMode
		case upper == "CY":
			mode = service.CalendarYearMode
		case upper == "ALL":
			all = true
		case fyPattern.MatchString(upper):
			mode = service.FinancialYearMode
			years = append(years, upper)
		case cyPattern.MatchString(upper):
			mode = service.CalendarYearMode
			years = append(years, upper)
		default:
			m, ok := service.ParseMonth(tok)
			if !ok {
				return filterArgs{}, fmt.Errorf("unknown filter %q", tok)
			}
			months = append(months, m)
		}
	}

	if all {
		years = nil
	}

	return filterArgs{filter: service.NewReportFilter(mode, years, months), all: all}, nil
}

var weekdays = map[string]time.Weekday{
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
	"sun": time.Sunday,
}

var dayKinds = map[string]service.DayKind{
	"office": service.KindOffice,
	"wfh":    service.KindWFH,
	"off":    service.KindOff,
	"leave":  service.KindLeave,
}

// parseTemplate применяет к шаблону по умолчанию правки вида "fri=wfh" или "mon=office@8am-4pm"
func parseTemplate(tokens []string) (service.WeeklyTemplate, error) {
	tmpl := service.DefaultTemplate()

	for _, tok := range tokens {
		key, value, ok := strings.Cut(strings.ToLower(tok), "=")
		if !ok {
			return nil, fmt.Errorf("expected day=kind, got %q", tok)
		}

		day, ok := weekdays[key]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", key)
		}

		kindStr, times, hasTimes := strings.Cut(value, "@")
		kind, ok := dayKinds[kindStr]
		if !ok {
			return nil, fmt.Errorf("unknown day kind %q, use office, wfh, off or leave", kindStr)
		}

		plan := service.PlanFor(kind)
		if hasTimes && kind != service.KindOff {
			plan.Times = times
		}
		tmpl[day] = plan
	}

	return tmpl, nil
}

// parseBulkFields разбирает "location=wfh; base_hours=7.6"
func parseBulkFields(s string) (map[string]any, error) {
	fields := make(map[string]any)

	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		key, value, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("expected field=value, got %q", part)
		}

		key = strings.ToLower(strings.TrimSpace(key))
		if alias, ok := fieldAliases[key]; ok {
			key = alias
		}
		value = strings.TrimSpace(value)

		if key == service.FieldLocation {
			fields[key] = resolveLocation(value)
			continue
		}

		if key == service.FieldBaseHours || key == service.FieldOTHours {
			hours, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid number for %s: %q", key, value)
			}
			fields[key] = hours
			continue
		}

		// остальные поля отклонит сервис
		fields[key] = value
	}

	return fields, nil
}

// parseLogEntry разбирает "дата место [начало-конец] [часы [переработка]]"
func parseLogEntry(args string) (service.Candidate, error) {
	fields := strings.Fields(args)
	if len(fields) < 2 {
		return service.Candidate{}, fmt.Errorf("expected at least a date and a location")
	}

	day, err := parseDate(fields[0])
	if err != nil {
		return service.Candidate{}, err
	}
	rest := fields[1:]

	var numbers []float64
	for len(rest) > 1 && len(numbers) < 2 {
		v, err := strconv.ParseFloat(rest[len(rest)-1], 64)
		if err != nil {
			break
		}
		numbers = append([]float64{v}, numbers...)
		rest = rest[:len(rest)-1]
	}

	c := service.Candidate{Day: day}
	if len(numbers) > 0 {
		c.BaseHours = numbers[0]
	}
	if len(numbers) > 1 {
		c.OTHours = numbers[1]
	}
	if c.BaseHours < 0 || c.OTHours < 0 {
		return service.Candidate{}, service.ErrNegativeValue
	}

	// "Off-site" - часть места, а не диапазон времени
	if len(rest) > 1 {
		if start, finish, ok := timenorm.ParseRange(rest[len(rest)-1]); ok {
			c.StartTime, c.FinishTime = start, finish
			rest = rest[:len(rest)-1]
		}
	}

	c.Location = resolveLocation(strings.Join(rest, " "))
	return c, nil
}
