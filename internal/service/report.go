package service

import (
	"context"
	"fmt"
	"sort"
	"time"
	"work-tax-tracker/internal/models"
	"work-tax-tracker/internal/repository"
	"work-tax-tracker/pkg/dates"

	"github.com/sirupsen/logrus"
)

// Counts - количество дней по типам
type Counts struct {
	Total      int     `json:"total"`
	Office     int     `json:"office"`
	WFH        int     `json:"wfh"`
	Leave      int     `json:"leave"`
	AfterHours int     `json:"after_hours"`
	Other      int     `json:"other"`
	WFHPct     float64 `json:"wfh_pct"`
}

// TrendPoint - количество дней типа DayType в месяце
type TrendPoint struct {
	Month   time.Month     `json:"month"`
	Year    string         `json:"year"`
	DayType models.DayType `json:"day_type"`
	Days    int            `json:"days"`
}

type GapAnalysis struct {
	Start   time.Time   `json:"start"`
	End     time.Time   `json:"end"`
	Missing []time.Time `json:"missing"`
}

func (g GapAnalysis) MissingCount() int {
	return len(g.Missing)
}

// DeductibleHours - часы, учитываемые для вычета
type DeductibleHours struct {
	WFH        float64 `json:"wfh"`
	AfterHours float64 `json:"after_hours"`
	Overtime   float64 `json:"overtime"`
	Total      float64 `json:"total"`
}

type MonthlyHours struct {
	Month     string  `json:"month"` // YYYY-MM
	BaseHours float64 `json:"base_hours"`
	OTHours   float64 `json:"ot_hours"`
	Total     float64 `json:"total"`
}

type ReportData struct {
	Counts       Counts          `json:"counts"`
	Trend        []TrendPoint    `json:"trend"`
	Gaps         GapAnalysis     `json:"gaps"`
	Deductible   DeductibleHours `json:"deductible"`
	MonthlyHours []MonthlyHours  `json:"monthly_hours"`
}

// Aggregate считает статистику по уже отфильтрованным записям.
// mode определяет, какой год подписывать в помесячном тренде.
func Aggregate(records []ClassifiedRecord, mode YearMode) ReportData {
	return ReportData{
		Counts:       countDays(records),
		Trend:        monthlyTrend(records, mode),
		Gaps:         findGaps(records),
		Deductible:   deductibleHours(records),
		MonthlyHours: monthlyHours(records),
	}
}

func countDays(records []ClassifiedRecord) Counts {
	c := Counts{Total: len(records)}
	for _, r := range records {
		switch r.DayType {
		case models.DayTypeOffice:
			c.Office++
		case models.DayTypeWFH:
			c.WFH++
		case models.DayTypeLeave:
			c.Leave++
		case models.DayTypeAfterHours:
			c.AfterHours++
		default:
			c.Other++
		}
	}

	if working := c.WFH + c.Office; working > 0 {
		c.WFHPct = float64(c.WFH) / float64(working) * 100
	}
	return c
}

func monthlyTrend(records []ClassifiedRecord, mode YearMode) []TrendPoint {
	type key struct {
		month   time.Month
		year    string
		dayType models.DayType
	}

	counts := make(map[key]int)
	for _, r := range records {
		if r.DayType != models.DayTypeWFH && r.DayType != models.DayTypeOffice {
			continue
		}
		counts[key{r.Date.Month(), yearLabel(r, mode), r.DayType}]++
	}

	points := make([]TrendPoint, 0, len(counts))
	for k, n := range counts {
		points = append(points, TrendPoint{Month: k.month, Year: k.year, DayType: k.dayType, Days: n})
	}

	sort.Slice(points, func(i, j int) bool {
		a, b := points[i], points[j]
		if a.Month != b.Month {
			return a.Month < b.Month
		}
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		return a.DayType < b.DayType
	})
	return points
}

func findGaps(records []ClassifiedRecord) GapAnalysis {
	if len(records) == 0 {
		return GapAnalysis{Missing: []time.Time{}}
	}

	present := make(map[time.Time]struct{}, len(records))
	minDate, maxDate := dates.Day(records[0].Date), dates.Day(records[0].Date)
	for _, r := range records {
		d := dates.Day(r.Date)
		present[d] = struct{}{}
		if d.Before(minDate) {
			minDate = d
		}
		if d.After(maxDate) {
			maxDate = d
		}
	}

	missing := []time.Time{}
	for _, d := range dates.Range(minDate, maxDate) {
		if _, ok := present[d]; !ok {
			missing = append(missing, d)
		}
	}

	return GapAnalysis{Start: minDate, End: maxDate, Missing: missing}
}

func deductibleHours(records []ClassifiedRecord) DeductibleHours {
	var h DeductibleHours
	for _, r := range records {
		switch r.Location {
		case models.LocationWFH:
			h.WFH += r.BaseHours
		case models.LocationAfterHours:
			h.AfterHours += r.BaseHours
		}
		h.Overtime += r.OTHours
	}
	h.Total = h.WFH + h.AfterHours + h.Overtime
	return h
}

func monthlyHours(records []ClassifiedRecord) []MonthlyHours {
	byMonth := make(map[string]*MonthlyHours)
	for _, r := range records {
		key := r.Date.Format("2006-01")
		m, ok := byMonth[key]
		if !ok {
			m = &MonthlyHours{Month: key}
			byMonth[key] = m
		}
		m.BaseHours += r.BaseHours
		m.OTHours += r.OTHours
		m.Total += r.TotalHours()
	}

	result := make([]MonthlyHours, 0, len(byMonth))
	for _, m := range byMonth {
		result = append(result, *m)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Month < result[j].Month })
	return result
}

// FixedRate - метод фиксированной ставки: часы * ставка
func FixedRate(hours, rate float64) (float64, error) {
	if rate < 0 {
		return 0, fmt.Errorf("%w: rate", ErrNegativeValue)
	}
	return hours * rate, nil
}

// ActualCostInputs - расходы для метода фактических затрат
type ActualCostInputs struct {
	Electricity  float64
	Internet     float64
	WorkUsePct   float64
	Depreciation float64
	Other        float64
}

// ActualCost - метод фактических затрат. Процент рабочего использования ограничивается [0, 100].
func ActualCost(in ActualCostInputs) (float64, error) {
	for name, v := range map[string]float64{
		"electricity":  in.Electricity,
		"internet":     in.Internet,
		"depreciation": in.Depreciation,
		"other":        in.Other,
	} {
		if v < 0 {
			return 0, fmt.Errorf("%w: %s", ErrNegativeValue, name)
		}
	}

	pct := in.WorkUsePct
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}

	return (in.Electricity+in.Internet)*pct/100 + in.Depreciation + in.Other, nil
}

// Report - готовый отчет для отображения
type Report struct {
	Label       string
	Filter      ReportFilter
	YearOptions []string
	Records     []ClassifiedRecord
	Data        ReportData
}

func (r *Report) Empty() bool {
	return len(r.Records) == 0
}

type ReportService struct {
	repo       repository.WorkLogRepository
	classifier *Classifier
	logger     *logrus.Logger
}

func NewReportService(repo repository.WorkLogRepository, classifier *Classifier, logger *logrus.Logger) *ReportService {
	if logger == nil {
		logger = newLogger()
	}
	if classifier == nil {
		classifier = NewClassifier()
	}

	return &ReportService{repo: repo, classifier: classifier, logger: logger}
}

// LoadAll загружает и классифицирует все записи
func (s *ReportService) LoadAll(ctx context.Context) ([]ClassifiedRecord, error) {
	logs, err := s.repo.QueryAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load work logs: %w", err)
	}
	return s.classifier.ClassifyAll(logs), nil
}

// Build загружает записи, фильтрует их в памяти и считает отчет
func (s *ReportService) Build(ctx context.Context, filter ReportFilter) (*Report, error) {
	all, err := s.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	filtered := filter.Apply(all)

	s.logger.WithFields(logrus.Fields{
		"filter":   filter.Label(),
		"total":    len(all),
		"filtered": len(filtered),
		"cached":   s.classifier.Size(),
	}).Debug("Report built")

	return &Report{
		Label:       filter.Label(),
		Filter:      filter,
		YearOptions: YearOptions(all, filter.Mode()),
		Records:     filtered,
		Data:        Aggregate(filtered, filter.Mode()),
	}, nil
}
