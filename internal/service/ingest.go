package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"work-tax-tracker/internal/models"
	"work-tax-tracker/internal/repository"
	"work-tax-tracker/pkg/dates"

	"github.com/sirupsen/logrus"
)

// Candidate - запись-кандидат на сохранение (из генератора, импорта или ручного ввода)
type Candidate struct {
	// Date - дата строкой, используется если Day не заполнен
	Date          string
	Day           time.Time
	Location      string
	StartTime     string
	FinishTime    string
	BreakDuration string
	BaseHours     float64
	OTHours       float64
	// Fingerprint можно передать заранее, иначе он будет вычислен
	Fingerprint string
}

// Поля, которые разрешено перезаписывать массово
const (
	FieldLocation  = "location"
	FieldBaseHours = "base_hours"
	FieldOTHours   = "ot_hours"
)

var updatableFields = map[string]bool{
	FieldLocation:  true,
	FieldBaseHours: true,
	FieldOTHours:   true,
}

type IngestionService struct {
	repo       repository.WorkLogRepository
	classifier *Classifier
	logger     *logrus.Logger
}

func NewIngestionService(repo repository.WorkLogRepository, classifier *Classifier, logger *logrus.Logger) *IngestionService {
	if logger == nil {
		logger = newLogger()
	}
	if classifier == nil {
		classifier = NewClassifier()
	}

	return &IngestionService{
		repo:       repo,
		classifier: classifier,
		logger:     logger,
	}
}

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return logger
}

// toWorkLog превращает кандидата в запись. false - дата не разбирается.
// Часы не проверяются, это делает Ingest через IsValid.
func (c Candidate) toWorkLog() (models.WorkLog, bool) {
	day := dates.Day(c.Day)
	if day.IsZero() {
		parsed, err := dates.Parse(c.Date)
		if err != nil {
			return models.WorkLog{}, false
		}
		day = parsed
	}

	w := models.WorkLog{
		Date:          day,
		Location:      c.Location,
		StartTime:     c.StartTime,
		FinishTime:    c.FinishTime,
		BreakDuration: c.BreakDuration,
		BaseHours:     c.BaseHours,
		OTHours:       c.OTHours,
		Fingerprint:   c.Fingerprint,
	}
	if w.Fingerprint == "" {
		w.ComputeFingerprint()
	}
	return w, true
}

// Ingest сохраняет только записи с новыми отпечатками и возвращает их количество.
// Повторный вызов с тем же набором ничего не добавляет.
func (s *IngestionService) Ingest(ctx context.Context, batch []Candidate) (int, error) {
	if len(batch) == 0 {
		return 0, nil
	}

	rows := make([]models.WorkLog, 0, len(batch))
	invalid := 0
	for _, c := range batch {
		w, ok := c.toWorkLog()
		if !ok || !w.IsValid() {
			invalid++
			continue
		}
		rows = append(rows, w)
	}

	existing, err := s.repo.ListFingerprints(ctx)
	if errors.Is(err, repository.ErrNotInitialized) {
		s.logger.Warn("work_logs table missing, creating it before ingest")
		if err := s.repo.InitSchema(ctx); err != nil {
			return 0, fmt.Errorf("failed to init schema: %w", err)
		}
		existing = nil
	} else if err != nil {
		return 0, fmt.Errorf("failed to load existing fingerprints: %w", err)
	}

	seen := make(map[string]struct{}, len(existing)+len(rows))
	for _, fp := range existing {
		seen[fp] = struct{}{}
	}

	fresh := make([]models.WorkLog, 0, len(rows))
	for _, w := range rows {
		if _, dup := seen[w.Fingerprint]; dup {
			continue
		}
		seen[w.Fingerprint] = struct{}{}
		fresh = append(fresh, w)
	}

	if err := s.repo.AppendRows(ctx, fresh); err != nil {
		return 0, fmt.Errorf("failed to append work logs: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"candidates": len(batch),
		"invalid":    invalid,
		"duplicates": len(rows) - len(fresh),
		"inserted":   len(fresh),
	}).Info("Batch ingested")

	return len(fresh), nil
}

// CheckConflicts возвращает даты из диапазона, по которым уже есть записи
func (s *IngestionService) CheckConflicts(ctx context.Context, start, end time.Time) ([]time.Time, error) {
	start, end = dates.Day(start), dates.Day(end)
	if end.Before(start) {
		return nil, ErrInvalidRange
	}

	found, err := s.repo.QueryDistinctDatesInRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to check conflicts: %w", err)
	}
	return found, nil
}

// BulkOverwrite перезаписывает поля у всех записей с датой в [start, end].
// Отпечаток не пересчитывается и остается привязан к исходному слоту.
func (s *IngestionService) BulkOverwrite(ctx context.Context, start, end time.Time, fields map[string]any) (int64, error) {
	if len(fields) == 0 {
		return 0, nil
	}

	start, end = dates.Day(start), dates.Day(end)
	if end.Before(start) {
		return 0, ErrInvalidRange
	}

	values := make(map[string]any, len(fields))
	for field, value := range fields {
		v, err := validateField(field, value)
		if err != nil {
			return 0, err
		}
		values[field] = v
	}

	n, err := s.repo.UpdateFieldsInRange(ctx, start, end, values)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk overwrite: %w", err)
	}

	s.classifier.Invalidate()
	return n, nil
}

// UpdateRecord меняет одно поле одной записи
func (s *IngestionService) UpdateRecord(ctx context.Context, id uint, field string, value any) (int64, error) {
	v, err := validateField(field, value)
	if err != nil {
		return 0, err
	}

	n, err := s.repo.UpdateField(ctx, id, field, v)
	if err != nil {
		return 0, fmt.Errorf("failed to update record %d: %w", id, err)
	}

	s.classifier.Invalidate()
	return n, nil
}

func (s *IngestionService) DeleteRecord(ctx context.Context, id uint) (int64, error) {
	n, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete record %d: %w", id, err)
	}

	s.classifier.Invalidate()
	return n, nil
}

// Wipe удаляет все записи
func (s *IngestionService) Wipe(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to wipe work logs: %w", err)
	}

	s.classifier.Invalidate()
	return n, nil
}

func validateField(field string, value any) (any, error) {
	if !updatableFields[field] {
		return nil, fmt.Errorf("%w: %s", ErrFieldNotAllowed, field)
	}

	if field == FieldLocation {
		loc, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: location must be a string", ErrInvalidValue)
		}
		return loc, nil
	}

	hours, ok := toFloat(value)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be a number", ErrInvalidValue, field)
	}
	if hours < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNegativeValue, field)
	}
	return hours, nil
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
