package repository

import (
	"context"
	"testing"
	"time"
	"work-tax-tracker/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRepo(t *testing.T) (*GormWorkLogRepository, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// одна in-memory база на все соединения
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)

	repo, err := NewGormWorkLogRepository(db, log)
	require.NoError(t, err)
	return repo, db
}

func logOn(y int, m time.Month, d int, location string, base, ot float64) models.WorkLog {
	w := models.WorkLog{
		Date:       time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		Location:   location,
		StartTime:  "09:00",
		FinishTime: "17:00",
		BaseHours:  base,
		OTHours:    ot,
	}
	w.ComputeFingerprint()
	return w
}

func TestAppendAndQueryAll(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.AppendRows(ctx, []models.WorkLog{
		logOn(2024, 1, 3, models.LocationOffice, 7.6, 0),
		logOn(2024, 1, 1, models.LocationWFH, 7.6, 1),
	}))
	require.NoError(t, repo.AppendRows(ctx, nil))

	logs, err := repo.QueryAll(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "2024-01-01", logs[0].Date.Format("2006-01-02"))
	assert.Equal(t, models.LocationWFH, logs[0].Location)
	assert.InDelta(t, 1.0, logs[0].OTHours, 1e-9)
	assert.NotZero(t, logs[0].ID)

	fps, err := repo.ListFingerprints(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{logs[0].Fingerprint, logs[1].Fingerprint}, fps)
}

func TestAppendRows_UniqueFingerprint(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	row := logOn(2024, 1, 1, models.LocationWFH, 7.6, 0)
	require.NoError(t, repo.AppendRows(ctx, []models.WorkLog{row}))

	row.ID = 0
	assert.Error(t, repo.AppendRows(ctx, []models.WorkLog{row}))
}

func TestMissingTable(t *testing.T) {
	repo, db := setupRepo(t)
	ctx := context.Background()
	require.NoError(t, db.Migrator().DropTable(&models.WorkLog{}))

	logs, err := repo.QueryAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, logs)

	_, err = repo.ListFingerprints(ctx)
	assert.ErrorIs(t, err, ErrNotInitialized)

	dates, err := repo.QueryDistinctDatesInRange(ctx, time.Now(), time.Now())
	require.NoError(t, err)
	assert.Empty(t, dates)

	require.NoError(t, repo.InitSchema(ctx))
	fps, err := repo.ListFingerprints(ctx)
	require.NoError(t, err)
	assert.Empty(t, fps)
}

func TestQueryDistinctDatesInRange(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	morning := logOn(2024, 2, 2, models.LocationOffice, 4, 0)
	evening := logOn(2024, 2, 2, models.LocationAfterHours, 2, 0)
	evening.StartTime = "18:00"
	evening.ComputeFingerprint()

	require.NoError(t, repo.AppendRows(ctx, []models.WorkLog{
		logOn(2024, 2, 1, models.LocationOffice, 7.6, 0),
		morning,
		evening,
		logOn(2024, 2, 5, models.LocationWFH, 7.6, 0),
	}))

	dates, err := repo.QueryDistinctDatesInRange(ctx,
		time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, dates, 2)
	assert.Equal(t, "2024-02-02", dates[0].Format("2006-01-02"))
	assert.Equal(t, "2024-02-05", dates[1].Format("2006-01-02"))
}

func TestUpdateFieldsInRange(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.AppendRows(ctx, []models.WorkLog{
		logOn(2024, 3, 1, models.LocationOffice, 7.6, 0),
		logOn(2024, 3, 2, models.LocationOffice, 7.6, 0),
		logOn(2024, 3, 3, models.LocationOffice, 7.6, 0),
	}))

	n, err := repo.UpdateFieldsInRange(ctx,
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
		map[string]any{"location": models.LocationWFH, "ot_hours": 1.5})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	logs, err := repo.QueryAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.LocationWFH, logs[0].Location)
	assert.InDelta(t, 1.5, logs[1].OTHours, 1e-9)
	assert.InDelta(t, 7.6, logs[1].BaseHours, 1e-9)
	assert.Equal(t, models.LocationOffice, logs[2].Location)

	n, err = repo.UpdateFieldsInRange(ctx, time.Now(), time.Now(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUpdateAndDelete(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.AppendRows(ctx, []models.WorkLog{
		logOn(2024, 4, 1, models.LocationOffice, 7.6, 0),
		logOn(2024, 4, 2, models.LocationOffice, 7.6, 0),
	}))
	logs, err := repo.QueryAll(ctx)
	require.NoError(t, err)

	n, err := repo.UpdateField(ctx, logs[0].ID, "base_hours", 3.0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = repo.DeleteByID(ctx, logs[1].ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	logs, err = repo.QueryAll(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.InDelta(t, 3.0, logs[0].BaseHours, 1e-9)

	n, err = repo.DeleteAll(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	logs, err = repo.QueryAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, logs)
}
