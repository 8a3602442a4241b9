package main

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"work-tax-tracker/internal/config"
	"work-tax-tracker/internal/handler"
	"work-tax-tracker/internal/repository"
	"work-tax-tracker/internal/service"
	"work-tax-tracker/pkg/holidays"
	"work-tax-tracker/pkg/telegram"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	logrus.Info("Initializing config...")
	cfg, err := config.Get()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load config")
	}
	logrus.SetLevel(cfg.LogLevel)
	logrus.Info("Config initialized...")

	log := logrus.New()
	log.SetLevel(cfg.LogLevel)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if dir := filepath.Dir(cfg.DatabaseURL); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.WithError(err).Fatal("Failed to create database folder")
		}
	}

	db, err := gorm.Open(sqlite.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("Failed to get database instance:", err)
	}

	workLogRepo, err := repository.NewGormWorkLogRepository(db, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to create work log repository")
	}

	var calendar *holidays.Calendar
	if cfg.HolidaysFile != "" {
		calendar, err = holidays.Load(cfg.HolidaysFile)
		if err != nil {
			log.WithError(err).Fatal("Failed to load holidays")
		}
		log.WithFields(logrus.Fields{
			"region": calendar.Region,
			"days":   calendar.Len(),
		}).Info("Holiday calendar loaded")
	}

	// кэш классификации общий для отчетов и операций записи
	classifier := service.NewClassifier()
	ingestService := service.NewIngestionService(workLogRepo, classifier, log)
	reportService := service.NewReportService(workLogRepo, classifier, log)
	generatorService := service.NewGeneratorService(ingestService, calendar, log)
	importerService := service.NewImporterService(ingestService, log)

	client, err := telegram.NewClient(cfg.TelegramToken, cfg.BotDebug)
	if err != nil {
		log.Fatal("Failed to create Telegram client:", err)
	}

	log.Infof("Authorized on account %s", client.Bot.Self.UserName)

	botHandler := handler.NewHandler(
		client,
		client,
		ingestService,
		reportService,
		generatorService,
		importerService,
		cfg,
		log,
	)

	updates := client.Bot.GetUpdatesChan(client.UpdateConfig)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go botHandler.HandleUpdates(updates)

	log.Info("Bot started. Press Ctrl+C to stop.")
	<-stop

	client.Bot.StopReceivingUpdates()

	if err := sqlDB.Close(); err != nil {
		log.Infof("Error closing database: %v", err)
	}

	log.Info("Bot stopped gracefully")
}
