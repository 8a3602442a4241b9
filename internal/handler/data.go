package handler

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"work-tax-tracker/internal/service"
	"work-tax-tracker/pkg/telegram"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

const wipeConfirmation = "DELETE"

func formatDates(days []time.Time) string {
	parts := make([]string, 0, len(days))
	for i, d := range days {
		if i == maxListed {
			parts = append(parts, fmt.Sprintf("… +%d", len(days)-maxListed))
			break
		}
		parts = append(parts, d.Format("02/01/2006"))
	}
	return strings.Join(parts, ", ")
}

func (h *Handler) generateSchedule(ctx context.Context, msg *tgbotapi.Message, args string) {
	chatID := msg.Chat.ID
	fields := strings.Fields(args)

	from, to, err := parseDateRange(fields)
	if err != nil {
		h.reply(chatID, "❌ Usage: /generate FROM TO [fri=wfh ...]\n"+err.Error())
		return
	}

	tmpl, err := parseTemplate(fields[2:])
	if err != nil {
		h.replyError(chatID, "Invalid template", err)
		return
	}

	res, err := h.generator.GenerateAndSave(ctx, tmpl, from, to)
	if err != nil {
		h.replyError(chatID, "Failed to generate schedule", err)
		return
	}

	var sb strings.Builder
	if len(res.Conflicts) > 0 {
		sb.WriteString(fmt.Sprintf("⚠️ %d dates already have data.\n", len(res.Conflicts)))
	}
	sb.WriteString(fmt.Sprintf("✅ Generated %d days, saved %d new records.", res.Generated, res.Inserted))
	if skipped := res.Generated - res.Inserted; skipped > 0 {
		sb.WriteString(fmt.Sprintf("\n%d duplicates skipped.", skipped))
	}
	h.reply(chatID, sb.String())
}

func (h *Handler) checkConflicts(ctx context.Context, msg *tgbotapi.Message, args string) {
	chatID := msg.Chat.ID

	from, to, err := parseDateRange(strings.Fields(args))
	if err != nil {
		h.reply(chatID, "❌ Usage: /conflicts FROM TO\n"+err.Error())
		return
	}

	found, err := h.ingest.CheckConflicts(ctx, from, to)
	if err != nil {
		h.replyError(chatID, "Failed to check dates", err)
		return
	}

	if len(found) == 0 {
		h.reply(chatID, "✅ No existing data in this range.")
		return
	}
	h.reply(chatID, fmt.Sprintf("⚠️ %d dates already have data: %s", len(found), formatDates(found)))
}

func (h *Handler) showHolidays(msg *tgbotapi.Message, args string) {
	chatID := msg.Chat.ID

	from, to, err := parseDateRange(strings.Fields(args))
	if err != nil {
		h.reply(chatID, "❌ Usage: /holidays FROM TO\n"+err.Error())
		return
	}

	days := h.generator.Holidays(from, to)
	if len(days) == 0 {
		h.reply(chatID, "ℹ️ No public holidays loaded for this range.")
		return
	}
	h.reply(chatID, fmt.Sprintf("🎉 %d public holidays: %s", len(days), formatDates(days)))
}

func (h *Handler) bulkEdit(ctx context.Context, msg *tgbotapi.Message, args string) {
	chatID := msg.Chat.ID
	usage := "❌ Usage: /bulk FROM TO location=wfh; base_hours=7.6; ot_hours=0"

	fields := strings.Fields(args)
	from, to, err := parseDateRange(fields)
	if err != nil {
		h.reply(chatID, usage+"\n"+err.Error())
		return
	}

	// после двух дат идет список полей, в значениях могут быть пробелы
	rest := strings.TrimSpace(args)
	for i := 0; i < 2; i++ {
		rest = strings.TrimSpace(strings.TrimPrefix(rest, fields[i]))
	}

	payload, err := parseBulkFields(rest)
	if err != nil {
		h.reply(chatID, usage+"\n"+err.Error())
		return
	}
	if len(payload) == 0 {
		h.reply(chatID, "ℹ️ Nothing to update.")
		return
	}

	n, err := h.ingest.BulkOverwrite(ctx, from, to, payload)
	if err != nil {
		h.replyError(chatID, "Failed to update records", err)
		return
	}

	h.reply(chatID, fmt.Sprintf("✅ Updated %d records.", n))
}

func (h *Handler) logDay(ctx context.Context, msg *tgbotapi.Message, args string) {
	chatID := msg.Chat.ID

	c, err := parseLogEntry(args)
	if err != nil {
		h.reply(chatID, "❌ Usage: /log DATE LOCATION [START-FINISH] [BASE [OT]]\n"+err.Error())
		return
	}

	n, err := h.ingest.Ingest(ctx, []service.Candidate{c})
	if err != nil {
		h.replyError(chatID, "Failed to save record", err)
		return
	}
	if n == 0 {
		h.reply(chatID, "ℹ️ This day is already logged.")
		return
	}

	h.reply(chatID, fmt.Sprintf("✅ Logged %s: %s", c.Day.Format("02/01/2006"), c.Location))
}

func (h *Handler) deleteRecord(ctx context.Context, msg *tgbotapi.Message, args string) {
	chatID := msg.Chat.ID

	id, err := strconv.ParseUint(strings.TrimSpace(args), 10, 64)
	if err != nil || id == 0 {
		h.reply(chatID, "❌ Usage: /delete ID (see /recent)")
		return
	}

	n, err := h.ingest.DeleteRecord(ctx, uint(id))
	if err != nil {
		h.replyError(chatID, "Failed to delete record", err)
		return
	}
	if n == 0 {
		h.reply(chatID, fmt.Sprintf("ℹ️ Record #%d not found.", id))
		return
	}

	h.reply(chatID, fmt.Sprintf("🗑 Record #%d deleted.", id))
}

func (h *Handler) wipeDatabase(ctx context.Context, msg *tgbotapi.Message, args string) {
	chatID := msg.Chat.ID

	if strings.TrimSpace(args) != wipeConfirmation {
		h.reply(chatID, "☢️ CRITICAL: Permanent Data Loss\nType /wipe DELETE in all caps to confirm.")
		return
	}

	n, err := h.ingest.Wipe(ctx)
	if err != nil {
		h.replyError(chatID, "Failed to clear database", err)
		return
	}

	h.reply(chatID, fmt.Sprintf("✅ Database cleared, %d records removed.", n))
}

func (h *Handler) importDocument(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	doc := msg.Document

	ext := strings.ToLower(filepath.Ext(doc.FileName))
	if ext != ".csv" && ext != ".xlsx" {
		h.reply(chatID, "❌ Only .csv and .xlsx files can be imported.")
		return
	}

	if doc.FileSize > telegram.MaxFileSize {
		h.reply(chatID, fmt.Sprintf("❌ File is too large, the limit is %d MB.", telegram.MaxFileSize>>20))
		return
	}

	data, err := h.files.Fetch(doc.FileID)
	if err != nil {
		h.replyError(chatID, "Failed to download file", err)
		return
	}

	summary, err := h.importer.ImportFile(ctx, doc.FileName, bytes.NewReader(data))
	if err != nil {
		h.replyError(chatID, "Failed to import file", err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"file":     doc.FileName,
		"inserted": summary.Inserted,
	}).Info("Document imported")

	h.reply(chatID, fmt.Sprintf(
		"✅ Imported!\nRows: %d\nNew records: %d\nDuplicates skipped: %d\nInvalid dates skipped: %d",
		summary.Rows, summary.Inserted, summary.Duplicates, summary.Skipped,
	))
}
