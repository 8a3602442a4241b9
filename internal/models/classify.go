package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type DayType string

const (
	DayTypeLeave      DayType = "Leave/RDO"
	DayTypeWFH        DayType = "WFH Day"
	DayTypeOffice     DayType = "Office Day"
	DayTypeAfterHours DayType = "After Hours"
	DayTypeOther      DayType = "Other"
)

const UnknownYear = "Unknown"

// dayTypes - закрытая таблица соответствия, сравнение точное.
// Оба написания "Public Holiday" встречаются в выгрузках.
// TODO: решить, нужен ли регистронезависимый поиск для остальных меток отпуска.
var dayTypes = map[string]DayType{
	LocationRDO:        DayTypeLeave,
	LocationPublicHol:  DayTypeLeave,
	"Public holiday":   DayTypeLeave,
	LocationOnLeave:    DayTypeLeave,
	LocationAnnual:     DayTypeLeave,
	LocationSick:       DayTypeLeave,
	LocationWFH:        DayTypeWFH,
	LocationOffice:     DayTypeOffice,
	LocationAfterHours: DayTypeAfterHours,
}

// Classification - производные признаки записи, в базе не хранятся
type Classification struct {
	FinancialYear string  `json:"financial_year"`
	CalendarYear  string  `json:"calendar_year"`
	DayType       DayType `json:"day_type"`
}

// FinancialYear возвращает метку финансового года (с 1 июля), например "FY24/25"
func FinancialYear(date time.Time) string {
	if date.IsZero() {
		return UnknownYear
	}

	start := date.Year()
	if date.Month() < time.July {
		start--
	}
	return fmt.Sprintf("FY%d/%d", start%100, (start+1)%100)
}

// CalendarYear возвращает год даты строкой
func CalendarYear(date time.Time) string {
	if date.IsZero() {
		return UnknownYear
	}
	return strconv.Itoa(date.Year())
}

// ClassifyDayType относит location к одному из пяти типов дня
func ClassifyDayType(location string) DayType {
	if dt, ok := dayTypes[strings.TrimSpace(location)]; ok {
		return dt
	}
	return DayTypeOther
}

// Classify вычисляет все производные признаки записи
func Classify(w *WorkLog) Classification {
	return Classification{
		FinancialYear: FinancialYear(w.Date),
		CalendarYear:  CalendarYear(w.Date),
		DayType:       ClassifyDayType(w.Location),
	}
}
