package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"
	"work-tax-tracker/internal/models"
	"work-tax-tracker/internal/repository"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	db         *gorm.DB
	repo       *repository.GormWorkLogRepository
	classifier *Classifier
	ingest     *IngestionService
	report     *ReportService
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	log := quietLogger()
	repo, err := repository.NewGormWorkLogRepository(db, log)
	require.NoError(t, err)

	classifier := NewClassifier()
	return &testEnv{
		db:         db,
		repo:       repo,
		classifier: classifier,
		ingest:     NewIngestionService(repo, classifier, log),
		report:     NewReportService(repo, classifier, log),
	}
}

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func candidate(date, location string, base, ot float64) Candidate {
	return Candidate{
		Date:       date,
		Location:   location,
		StartTime:  "09:00",
		FinishTime: "17:00",
		BaseHours:  base,
		OTHours:    ot,
	}
}

func classified(date time.Time, location string, base, ot float64) ClassifiedRecord {
	w := models.WorkLog{Date: date, Location: location, BaseHours: base, OTHours: ot}
	w.ComputeFingerprint()
	return ClassifiedRecord{WorkLog: w, Classification: models.Classify(&w)}
}

// failingRepo возвращает ошибку ввода-вывода на каждый вызов
type failingRepo struct {
	repository.WorkLogRepository
	err      error
	appended int
}

func (f *failingRepo) ListFingerprints(context.Context) ([]string, error) { return nil, f.err }

func (f *failingRepo) QueryAll(context.Context) ([]models.WorkLog, error) { return nil, f.err }

func (f *failingRepo) AppendRows(_ context.Context, rows []models.WorkLog) error {
	f.appended += len(rows)
	return nil
}

var errDiskGone = errors.New("disk I/O error")
