package handler

import (
	"context"
	"time"
	"work-tax-tracker/internal/config"
	"work-tax-tracker/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// Sender отправляет сообщения в Telegram
type Sender interface {
	Send(msg tgbotapi.Chattable) (tgbotapi.Message, error)
}

// FileFetcher скачивает файлы, присланные пользователем
type FileFetcher interface {
	Fetch(fileID string) ([]byte, error)
}

const requestTimeout = 30 * time.Second

type Handler struct {
	bot       Sender
	files     FileFetcher
	ingest    *service.IngestionService
	reports   *service.ReportService
	generator *service.GeneratorService
	importer  *service.ImporterService
	config    *config.Config
	logger    *logrus.Logger
}

func NewHandler(
	bot Sender,
	files FileFetcher,
	ingest *service.IngestionService,
	reports *service.ReportService,
	generator *service.GeneratorService,
	importer *service.ImporterService,
	cfg *config.Config,
	logger *logrus.Logger,
) *Handler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Handler{
		bot:       bot,
		files:     files,
		ingest:    ingest,
		reports:   reports,
		generator: generator,
		importer:  importer,
		config:    cfg,
		logger:    logger,
	}
}

func (h *Handler) HandleUpdates(updates tgbotapi.UpdatesChannel) {
	for update := range updates {
		if update.Message == nil {
			continue
		}

		h.HandleMessage(update.Message)
	}
}

func (h *Handler) HandleMessage(message *tgbotapi.Message) {
	if message.Chat == nil {
		return
	}
	chatID := message.Chat.ID

	fields := logrus.Fields{"chat_id": chatID}
	if message.From != nil {
		fields["user"] = message.From.UserName
	}

	// бот персональный: отвечаем только владельцу
	if chatID != h.config.OwnerChatID {
		h.logger.WithFields(fields).Warn("Message from unknown chat ignored")
		h.reply(chatID, "⛔ This bot is private.")
		return
	}

	h.logger.WithFields(fields).Info(message.Text)

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if message.Document != nil {
		h.importDocument(ctx, message)
		return
	}

	if message.IsCommand() {
		h.handleCommand(ctx, message)
		return
	}

	h.reply(chatID, "Use /help to see the available commands.")
}

func (h *Handler) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		h.logger.WithError(err).WithField("chat_id", chatID).Error("Failed to send message")
	}
}

func (h *Handler) replyError(chatID int64, prefix string, err error) {
	h.logger.WithError(err).Warn(prefix)
	h.reply(chatID, "❌ "+prefix+": "+err.Error())
}
