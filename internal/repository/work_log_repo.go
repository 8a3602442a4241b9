package repository

import (
	"context"
	"errors"
	"sort"
	"time"
	"work-tax-tracker/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrNotInitialized - таблица work_logs еще не создана
var ErrNotInitialized = errors.New("work_logs table is not initialized")

type WorkLogRepository interface {
	InitSchema(ctx context.Context) error
	AppendRows(ctx context.Context, rows []models.WorkLog) error
	QueryAll(ctx context.Context) ([]models.WorkLog, error)
	ListFingerprints(ctx context.Context) ([]string, error)
	QueryDistinctDatesInRange(ctx context.Context, start, end time.Time) ([]time.Time, error)
	UpdateFieldsInRange(ctx context.Context, start, end time.Time, fields map[string]any) (int64, error)
	UpdateField(ctx context.Context, id uint, field string, value any) (int64, error)
	DeleteByID(ctx context.Context, id uint) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
}

type GormWorkLogRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormWorkLogRepository(db *gorm.DB, logger *logrus.Logger) (*GormWorkLogRepository, error) {
	if logger == nil {
		logger = newLogger()
	}

	repo := &GormWorkLogRepository{db: db, logger: logger}

	// Автомиграция
	if err := repo.InitSchema(context.Background()); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate work_logs table")
		return nil, err
	}

	logger.Info("Work log repository initialized")
	return repo, nil
}

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return logger
}

// InitSchema идемпотентно создает таблицу и уникальный индекс по fingerprint
func (r *GormWorkLogRepository) InitSchema(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&models.WorkLog{})
}

func (r *GormWorkLogRepository) initialized(ctx context.Context) bool {
	return r.db.WithContext(ctx).Migrator().HasTable(&models.WorkLog{})
}

// AppendRows добавляет записи одной пачкой. Уникальность отпечатков проверяет вызывающий.
func (r *GormWorkLogRepository) AppendRows(ctx context.Context, rows []models.WorkLog) error {
	if len(rows) == 0 {
		return nil
	}

	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		r.logger.WithError(err).WithField("rows", len(rows)).Error("Failed to append work logs")
		return err
	}

	r.logger.WithField("rows", len(rows)).Info("Work logs appended")
	return nil
}

// QueryAll возвращает все записи по дате. Отсутствие таблицы - это пустой результат.
func (r *GormWorkLogRepository) QueryAll(ctx context.Context) ([]models.WorkLog, error) {
	if !r.initialized(ctx) {
		r.logger.Debug("work_logs table missing, returning empty result")
		return []models.WorkLog{}, nil
	}

	var logs []models.WorkLog
	err := r.db.WithContext(ctx).Order("date ASC, id ASC").Find(&logs).Error
	if err != nil {
		r.logger.WithError(err).Error("Failed to load work logs")
		return nil, err
	}
	return logs, nil
}

func (r *GormWorkLogRepository) ListFingerprints(ctx context.Context) ([]string, error) {
	if !r.initialized(ctx) {
		return nil, ErrNotInitialized
	}

	var fingerprints []string
	err := r.db.WithContext(ctx).Model(&models.WorkLog{}).Pluck("fingerprint", &fingerprints).Error
	if err != nil {
		r.logger.WithError(err).Error("Failed to list fingerprints")
		return nil, err
	}
	return fingerprints, nil
}

// QueryDistinctDatesInRange возвращает уникальные даты в диапазоне [start, end] по возрастанию
func (r *GormWorkLogRepository) QueryDistinctDatesInRange(ctx context.Context, start, end time.Time) ([]time.Time, error) {
	if !r.initialized(ctx) {
		return []time.Time{}, nil
	}

	var logs []models.WorkLog
	err := r.db.WithContext(ctx).
		Select("date").
		Where("date BETWEEN ? AND ?", start, end).
		Find(&logs).Error
	if err != nil {
		r.logger.WithError(err).Error("Failed to query dates in range")
		return nil, err
	}

	seen := make(map[string]struct{}, len(logs))
	result := make([]time.Time, 0, len(logs))
	for _, l := range logs {
		key := l.Date.Format("2006-01-02")
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, l.Date)
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Before(result[j]) })
	return result, nil
}

// UpdateFieldsInRange перезаписывает поля у всех записей с датой в [start, end]
func (r *GormWorkLogRepository) UpdateFieldsInRange(ctx context.Context, start, end time.Time, fields map[string]any) (int64, error) {
	if len(fields) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).
		Model(&models.WorkLog{}).
		Where("date BETWEEN ? AND ?", start, end).
		Updates(fields)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to bulk update work logs")
		return 0, result.Error
	}

	r.logger.WithFields(logrus.Fields{
		"start":    start.Format("2006-01-02"),
		"end":      end.Format("2006-01-02"),
		"fields":   len(fields),
		"affected": result.RowsAffected,
	}).Info("Work logs updated in range")

	return result.RowsAffected, nil
}

func (r *GormWorkLogRepository) UpdateField(ctx context.Context, id uint, field string, value any) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.WorkLog{}).
		Where("id = ?", id).
		Update(field, value)
	if result.Error != nil {
		r.logger.WithError(result.Error).WithField("id", id).Error("Failed to update work log")
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *GormWorkLogRepository) DeleteByID(ctx context.Context, id uint) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.WorkLog{}, id)
	if result.Error != nil {
		r.logger.WithError(result.Error).WithField("id", id).Error("Failed to delete work log")
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *GormWorkLogRepository) DeleteAll(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Exec("DELETE FROM work_logs")
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to delete all work logs")
		return 0, result.Error
	}

	r.logger.WithField("deleted", result.RowsAffected).Warn("All work logs deleted")
	return result.RowsAffected, nil
}
