package handler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"work-tax-tracker/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const maxListed = 40

var printer = message.NewPrinter(language.English)

// buildReport строит отчет. Без явных годов берется последний год, как на дашборде.
func (h *Handler) buildReport(ctx context.Context, tokens []string) (*service.Report, error) {
	args, err := parseFilter(tokens)
	if err != nil {
		return nil, err
	}

	report, err := h.reports.Build(ctx, args.filter)
	if err != nil {
		return nil, err
	}

	if !args.all && len(args.filter.Years()) == 0 && len(report.YearOptions) > 0 {
		return h.reports.Build(ctx, args.filter.WithYears(report.YearOptions[0]))
	}
	return report, nil
}

func (h *Handler) showReport(ctx context.Context, msg *tgbotapi.Message, args string) {
	report, err := h.buildReport(ctx, strings.Fields(args))
	if err != nil {
		h.replyError(msg.Chat.ID, "Failed to build report", err)
		return
	}

	h.reply(msg.Chat.ID, formatReport(report))
}

func (h *Handler) showGaps(ctx context.Context, msg *tgbotapi.Message, args string) {
	report, err := h.buildReport(ctx, strings.Fields(args))
	if err != nil {
		h.replyError(msg.Chat.ID, "Failed to build report", err)
		return
	}

	h.reply(msg.Chat.ID, formatGaps(report))
}

func (h *Handler) showDeduction(ctx context.Context, msg *tgbotapi.Message, args string) {
	fields := strings.Fields(args)
	method := "fixed"
	if len(fields) > 0 && (strings.EqualFold(fields[0], "fixed") || strings.EqualFold(fields[0], "actual")) {
		method = strings.ToLower(fields[0])
		fields = fields[1:]
	}

	maxNumbers := 1
	if method == "actual" {
		maxNumbers = 5
	}
	numbers, rest := leadingNumbers(fields, maxNumbers, method == "fixed")

	report, err := h.buildReport(ctx, rest)
	if err != nil {
		h.replyError(msg.Chat.ID, "Failed to build report", err)
		return
	}
	if report.Empty() {
		h.reply(msg.Chat.ID, "⚠️ Please upload data to calculate deductions.")
		return
	}

	var amount float64
	var methodLine string
	switch method {
	case "actual":
		if len(numbers) < 5 {
			h.reply(msg.Chat.ID, "❌ Usage: /deduct actual electricity internet work% depreciation other")
			return
		}
		amount, err = service.ActualCost(service.ActualCostInputs{
			Electricity:  numbers[0],
			Internet:     numbers[1],
			WorkUsePct:   numbers[2],
			Depreciation: numbers[3],
			Other:        numbers[4],
		})
		methodLine = "Actual Cost Method"
	default:
		rate := h.config.FixedRate
		if len(numbers) > 0 {
			rate = numbers[0]
		}
		amount, err = service.FixedRate(report.Data.Deductible.Total, rate)
		methodLine = printer.Sprintf("Fixed Rate Method ($%.2f/hr)\nℹ️ Fixed Rate covers Energy, Phone, Internet, and Stationery.", rate)
	}
	if err != nil {
		h.replyError(msg.Chat.ID, "Failed to calculate deduction", err)
		return
	}

	h.reply(msg.Chat.ID, formatDeduction(report, methodLine, amount))
}

func (h *Handler) showRecent(ctx context.Context, msg *tgbotapi.Message, args string) {
	limit := 10
	if n, err := strconv.Atoi(strings.TrimSpace(args)); err == nil && n > 0 {
		limit = n
	}
	if limit > maxListed {
		limit = maxListed
	}

	records, err := h.reports.LoadAll(ctx)
	if err != nil {
		h.replyError(msg.Chat.ID, "Failed to load records", err)
		return
	}
	if len(records) == 0 {
		h.reply(msg.Chat.ID, "No records yet.")
		return
	}

	if len(records) > limit {
		records = records[len(records)-limit:]
	}

	var sb strings.Builder
	sb.WriteString("🗂 Latest records\n\n")
	for _, r := range records {
		times := ""
		if r.StartTime != "" || r.FinishTime != "" {
			times = fmt.Sprintf(" %s-%s", r.StartTime, r.FinishTime)
		}
		sb.WriteString(printer.Sprintf("#%d %s %s%s %.2fh", r.ID, r.Date.Format("02/01/2006"), r.Location, times, r.TotalHours()))
		if r.OTHours > 0 {
			sb.WriteString(printer.Sprintf(" (incl. %.2f OT)", r.OTHours))
		}
		sb.WriteString("\n")
	}
	h.reply(msg.Chat.ID, sb.String())
}

// leadingNumbers отделяет до limit чисел в начале списка аргументов.
// skipYears: четырехзначное число считается годом фильтра, а не ставкой.
func leadingNumbers(fields []string, limit int, skipYears bool) ([]float64, []string) {
	var numbers []float64
	for i, f := range fields {
		if len(numbers) == limit || (skipYears && cyPattern.MatchString(f)) {
			return numbers, fields[i:]
		}
		v, err := strconv.ParseFloat(strings.TrimSuffix(f, "%"), 64)
		if err != nil {
			return numbers, fields[i:]
		}
		numbers = append(numbers, v)
	}
	return numbers, nil
}

func formatReport(r *service.Report) string {
	if r.Empty() {
		return "ℹ️ No data found for this period. Use /generate, /log or send a file to add logs."
	}

	c := r.Data.Counts
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📊 Performance Report: %s\n\n", r.Label))
	sb.WriteString(fmt.Sprintf("Total Recorded Days: %d\n", c.Total))
	sb.WriteString(fmt.Sprintf("In Office: %d\n", c.Office))
	sb.WriteString(fmt.Sprintf("WFH Days: %d\n", c.WFH))
	sb.WriteString(fmt.Sprintf("WFH %%: %.1f%%\n", c.WFHPct))
	if c.Leave+c.AfterHours+c.Other > 0 {
		sb.WriteString(fmt.Sprintf("Leave/RDO: %d, After Hours: %d, Other: %d\n", c.Leave, c.AfterHours, c.Other))
	}

	if len(r.Data.Trend) > 0 {
		sb.WriteString("\n📈 Work Trends\n")
		for _, p := range r.Data.Trend {
			sb.WriteString(fmt.Sprintf("%s %s %s: %d\n", p.Month.String()[:3], p.Year, p.DayType, p.Days))
		}
	}

	g := r.Data.Gaps
	sb.WriteString("\n🕳 Gap Analysis\n")
	sb.WriteString(fmt.Sprintf("Range: %s - %s\n", g.Start.Format("02/01"), g.End.Format("02/01")))
	sb.WriteString(fmt.Sprintf("Missing Logs: %d (see /gaps)\n", g.MissingCount()))

	return sb.String()
}

func formatGaps(r *service.Report) string {
	if r.Empty() {
		return "ℹ️ No data found for this period."
	}

	g := r.Data.Gaps
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🕳 Gap Analysis: %s\n", r.Label))
	sb.WriteString(fmt.Sprintf("Range: %s - %s\n", g.Start.Format("02/01/2006"), g.End.Format("02/01/2006")))
	sb.WriteString(fmt.Sprintf("Missing Logs: %d\n", g.MissingCount()))

	if g.MissingCount() == 0 {
		sb.WriteString("\n✅ No gaps found!")
		return sb.String()
	}

	sb.WriteString("\n")
	for i, day := range g.Missing {
		if i == maxListed {
			sb.WriteString(fmt.Sprintf("… and %d more\n", g.MissingCount()-maxListed))
			break
		}
		sb.WriteString(day.Format("2006-01-02 Mon") + "\n")
	}
	return sb.String()
}

func formatDeduction(r *service.Report, methodLine string, amount float64) string {
	d := r.Data.Deductible
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("💰 Tax Calculator: %s\n", r.Label))
	sb.WriteString(methodLine + "\n\n")
	sb.WriteString(printer.Sprintf("WFH hours: %.2f\n", d.WFH))
	sb.WriteString(printer.Sprintf("After hours: %.2f\n", d.AfterHours))
	sb.WriteString(printer.Sprintf("Overtime: %.2f\n", d.Overtime))
	sb.WriteString(printer.Sprintf("Total Deductible Hours: %.2f\n", d.Total))
	sb.WriteString(printer.Sprintf("Est. Tax Deduction: $%.2f\n", amount))

	if len(r.Data.MonthlyHours) > 0 {
		sb.WriteString("\n📅 Hours by month\n")
		for _, m := range r.Data.MonthlyHours {
			sb.WriteString(printer.Sprintf("%s: %.2f\n", m.Month, m.Total))
		}
	}
	return sb.String()
}
