package service

import (
	"context"
	"time"
	"work-tax-tracker/internal/models"
	"work-tax-tracker/pkg/dates"
	"work-tax-tracker/pkg/holidays"
	"work-tax-tracker/pkg/timenorm"

	"github.com/sirupsen/logrus"
)

type DayKind string

const (
	KindOffice DayKind = "Office"
	KindWFH    DayKind = "WFH"
	KindOff    DayKind = "Off"
	KindLeave  DayKind = "Leave"
)

const (
	DefaultTimes     = "09:00-17:00"
	DefaultBaseHours = 7.6
)

// DayPlan - план для одного дня недели
type DayPlan struct {
	Kind      DayKind
	Times     string
	BaseHours float64
	OTHours   float64
}

// WeeklyTemplate - план на неделю. Отсутствующий день считается выходным.
type WeeklyTemplate map[time.Weekday]DayPlan

// PlanFor возвращает план по умолчанию для вида дня
func PlanFor(kind DayKind) DayPlan {
	plan := DayPlan{Kind: kind}
	if kind != KindOff {
		plan.Times = DefaultTimes
	}
	if kind != KindOff && kind != KindLeave {
		plan.BaseHours = DefaultBaseHours
	}
	return plan
}

// DefaultTemplate - пн-пт в офисе, сб-вс выходные
func DefaultTemplate() WeeklyTemplate {
	t := WeeklyTemplate{}
	for d := time.Sunday; d <= time.Saturday; d++ {
		if d == time.Saturday || d == time.Sunday {
			t[d] = PlanFor(KindOff)
		} else {
			t[d] = PlanFor(KindOffice)
		}
	}
	return t
}

func locationFor(kind DayKind) string {
	switch kind {
	case KindOffice:
		return models.LocationOffice
	case KindWFH:
		return models.LocationWFH
	case KindLeave:
		return models.LocationOnLeave
	default:
		return string(kind)
	}
}

type GenerateResult struct {
	Generated int
	Inserted  int
	Conflicts []time.Time
}

type GeneratorService struct {
	ingest   *IngestionService
	holidays *holidays.Calendar
	logger   *logrus.Logger
}

// NewGeneratorService создает генератор. calendar может быть nil.
func NewGeneratorService(ingest *IngestionService, calendar *holidays.Calendar, logger *logrus.Logger) *GeneratorService {
	if logger == nil {
		logger = newLogger()
	}
	return &GeneratorService{ingest: ingest, holidays: calendar, logger: logger}
}

// Holidays возвращает загруженные праздники из [from, to] по возрастанию
func (s *GeneratorService) Holidays(from, to time.Time) []time.Time {
	from, to = dates.Day(from), dates.Day(to)

	var result []time.Time
	for _, day := range s.holidays.Dates() {
		if !day.Before(from) && !day.After(to) {
			result = append(result, day)
		}
	}
	return result
}

// Generate строит записи по шаблону на каждый день из [from, to], кроме выходных.
// Рабочий день, попавший на праздник, записывается как Public Holiday без часов.
func (s *GeneratorService) Generate(template WeeklyTemplate, from, to time.Time) ([]Candidate, error) {
	from, to = dates.Day(from), dates.Day(to)
	if to.Before(from) {
		return nil, ErrInvalidRange
	}

	var result []Candidate
	for _, day := range dates.Range(from, to) {
		plan, ok := template[day.Weekday()]
		if !ok || plan.Kind == KindOff || plan.Kind == "" {
			continue
		}

		if s.holidays.Contains(day) {
			result = append(result, Candidate{Day: day, Location: models.LocationPublicHol})
			continue
		}

		start, finish := timenorm.SplitRange(plan.Times)
		result = append(result, Candidate{
			Day:        day,
			Location:   locationFor(plan.Kind),
			StartTime:  start,
			FinishTime: finish,
			BaseHours:  plan.BaseHours,
			OTHours:    plan.OTHours,
		})
	}
	return result, nil
}

// GenerateAndSave генерирует и сохраняет записи.
// Конфликты только сообщаются и генерацию не блокируют.
func (s *GeneratorService) GenerateAndSave(ctx context.Context, template WeeklyTemplate, from, to time.Time) (*GenerateResult, error) {
	conflicts, err := s.ingest.CheckConflicts(ctx, from, to)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		s.logger.WithField("conflicts", len(conflicts)).Warn("Some dates already have data")
	}

	candidates, err := s.Generate(template, from, to)
	if err != nil {
		return nil, err
	}

	inserted, err := s.ingest.Ingest(ctx, candidates)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"from":      dates.Day(from).Format(dates.ISO),
		"to":        dates.Day(to).Format(dates.ISO),
		"generated": len(candidates),
		"inserted":  inserted,
	}).Info("Schedule generated")

	return &GenerateResult{
		Generated: len(candidates),
		Inserted:  inserted,
		Conflicts: conflicts,
	}, nil
}
