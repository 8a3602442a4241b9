package holidays

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// CalendarJSON - структура исходного файла с праздниками
//
//	{"region": "VIC", "years": [{"year": 2025, "months": [{"month": 1, "days": "1,27"}]}]}
type CalendarJSON struct {
	Region string     `json:"region"`
	Years  []YearJSON `json:"years"`
}

type YearJSON struct {
	Year   int         `json:"year"`
	Months []MonthJSON `json:"months"`
}

type MonthJSON struct {
	Month int    `json:"month"`
	Days  string `json:"days"`
}

// Calendar - множество праздничных дней
type Calendar struct {
	Region string
	days   map[string]struct{}
}

// Load читает календарь из файла
func Load(filePath string) (*Calendar, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open holidays file: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse читает календарь из JSON
func Parse(r io.Reader) (*Calendar, error) {
	var raw CalendarJSON
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal holidays JSON: %w", err)
	}

	cal := &Calendar{Region: raw.Region, days: make(map[string]struct{})}

	for _, y := range raw.Years {
		for _, m := range y.Months {
			if m.Month < 1 || m.Month > 12 {
				return nil, fmt.Errorf("invalid month %d in year %d", m.Month, y.Year)
			}

			for _, dayStr := range strings.Split(m.Days, ",") {
				// "*" помечает перенесенный праздник
				dayStr = strings.TrimSuffix(strings.TrimSpace(dayStr), "*")
				if dayStr == "" {
					continue
				}

				day, err := strconv.Atoi(dayStr)
				if err != nil {
					return nil, fmt.Errorf("failed to parse day '%s' in %d-%02d: %w", dayStr, y.Year, m.Month, err)
				}

				date := time.Date(y.Year, time.Month(m.Month), day, 0, 0, 0, 0, time.UTC)
				if date.Day() != day {
					return nil, fmt.Errorf("day %d out of range in %d-%02d", day, y.Year, m.Month)
				}
				cal.days[date.Format("2006-01-02")] = struct{}{}
			}
		}
	}

	return cal, nil
}

// Contains проверяет, является ли дата праздником. Пустой календарь праздников не содержит.
func (c *Calendar) Contains(date time.Time) bool {
	if c == nil {
		return false
	}
	_, ok := c.days[date.Format("2006-01-02")]
	return ok
}

// Len - количество праздничных дней
func (c *Calendar) Len() int {
	if c == nil {
		return 0
	}
	return len(c.days)
}

// Dates возвращает праздники по возрастанию
func (c *Calendar) Dates() []time.Time {
	if c == nil {
		return nil
	}

	result := make([]time.Time, 0, len(c.days))
	for key := range c.days {
		t, _ := time.Parse("2006-01-02", key)
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Before(result[j]) })
	return result
}
