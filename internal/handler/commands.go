package handler

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (h *Handler) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	command := message.Command()
	args := message.CommandArguments()

	switch command {
	case "start", "help":
		h.sendHelpMessage(message)

	// Отчеты
	case "report":
		h.showReport(ctx, message, args)
	case "gaps":
		h.showGaps(ctx, message, args)
	case "deduct":
		h.showDeduction(ctx, message, args)
	case "recent":
		h.showRecent(ctx, message, args)

	// Управление данными
	case "generate":
		h.generateSchedule(ctx, message, args)
	case "conflicts":
		h.checkConflicts(ctx, message, args)
	case "holidays":
		h.showHolidays(message, args)
	case "bulk":
		h.bulkEdit(ctx, message, args)
	case "log":
		h.logDay(ctx, message, args)
	case "delete":
		h.deleteRecord(ctx, message, args)
	case "wipe":
		h.wipeDatabase(ctx, message, args)

	default:
		h.sendUnknownCommand(message)
	}
}

func (h *Handler) sendHelpMessage(message *tgbotapi.Message) {
	h.reply(message.Chat.ID, `🇦🇺 Work & Tax Tracker

Reports:
/report [fy|cy] [all] [FY24/25|2024 ...] [Jan Feb ...] - dashboard
/gaps [filter] - dates with no log
/deduct fixed [rate] [filter] - fixed rate method
/deduct actual electricity internet work% depreciation other [filter]
/recent [n] - latest records with their ids

Data:
/log DATE LOCATION [START-FINISH] [BASE [OT]]
/generate FROM TO [fri=wfh mon=office@8am-4pm sat=off ...]
/conflicts FROM TO
/holidays FROM TO - loaded public holidays
/bulk FROM TO location=wfh; base_hours=7.6; ot_hours=0
/delete ID
/wipe DELETE

Send a .csv or .xlsx file to import it.
Dates: DD/MM/YYYY or YYYY-MM-DD. Locations: wfh, office, leave, rdo, ph, annual, sick, ah or any text.`)
}

func (h *Handler) sendUnknownCommand(message *tgbotapi.Message) {
	h.reply(message.Chat.ID, "❌ Unknown command. Use /help to see the available commands.")
}
