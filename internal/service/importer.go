package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"work-tax-tracker/pkg/dates"
	"work-tax-tracker/pkg/timenorm"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

// importColumns - заголовки выгрузки и соответствующие поля
var importColumns = map[string]string{
	"Date":         "date",
	"Location":     "location",
	"Start":        "start_time",
	"Finish":       "finish_time",
	"Break":        "break_duration",
	"Hours Worked": "base_hours",
	"OT HOURS":     "ot_hours",
}

type ImportResult struct {
	Candidates []Candidate
	// Skipped - строки с нераспознанной датой
	Skipped int
}

type ImportSummary struct {
	Rows       int
	Skipped    int
	Inserted   int
	Duplicates int
}

type ImporterService struct {
	ingest *IngestionService
	logger *logrus.Logger
}

func NewImporterService(ingest *IngestionService, logger *logrus.Logger) *ImporterService {
	if logger == nil {
		logger = newLogger()
	}
	return &ImporterService{ingest: ingest, logger: logger}
}

// Parse выбирает формат по расширению файла
func (s *ImporterService) Parse(filename string, r io.Reader) (*ImportResult, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return s.ParseCSV(r)
	case ".xlsx":
		return s.ParseXLSX(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

// ImportFile разбирает файл и сохраняет новые записи
func (s *ImporterService) ImportFile(ctx context.Context, filename string, r io.Reader) (*ImportSummary, error) {
	parsed, err := s.Parse(filename, r)
	if err != nil {
		return nil, err
	}

	inserted, err := s.ingest.Ingest(ctx, parsed.Candidates)
	if err != nil {
		return nil, err
	}

	summary := &ImportSummary{
		Rows:       len(parsed.Candidates) + parsed.Skipped,
		Skipped:    parsed.Skipped,
		Inserted:   inserted,
		Duplicates: len(parsed.Candidates) - inserted,
	}

	s.logger.WithFields(logrus.Fields{
		"file":       filename,
		"rows":       summary.Rows,
		"skipped":    summary.Skipped,
		"inserted":   summary.Inserted,
		"duplicates": summary.Duplicates,
	}).Info("File imported")

	return summary, nil
}

func (s *ImporterService) ParseCSV(r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	return s.fromTable(tableSource{rows: rows, date: dates.Parse, clock: keepText})
}

func (s *ImporterService) ParseXLSX(r io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Excel file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("excel file has no sheets")
	}

	// даты и время приходят числами Excel
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	// перерыв - свободный текст, берем его в том виде, как его показывает Excel
	display, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	return s.fromTable(tableSource{rows: rows, display: display, date: excelDate, clock: excelTime})
}

func excelDate(value string) (time.Time, error) {
	if serial, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, err
		}
		return dates.Day(t), nil
	}
	return dates.Parse(value)
}

// excelTime превращает долю суток ("0.375") в "09:00", остальное возвращает как есть
func excelTime(value string) string {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || v <= 0 || v >= 1 {
		return value
	}

	minutes := int(math.Round(v * 24 * 60))
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// tableSource - строки файла и правила разбора ячеек для конкретного формата
type tableSource struct {
	rows [][]string
	// display - отформатированные значения тех же ячеек, nil если совпадают с rows
	display [][]string
	date    func(string) (time.Time, error)
	clock   func(string) string
}

func cellAt(rows [][]string, row, col int) string {
	if row >= len(rows) || col >= len(rows[row]) {
		return ""
	}
	return strings.TrimSpace(rows[row][col])
}

func keepText(value string) string {
	return value
}

func (s *ImporterService) fromTable(src tableSource) (*ImportResult, error) {
	rows := src.rows
	if len(rows) == 0 {
		return nil, ErrMissingDateColumn
	}

	columns := make(map[string]int)
	for i, h := range rows[0] {
		if field, ok := importColumns[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))]; ok {
			if _, dup := columns[field]; !dup {
				columns[field] = i
			}
		}
	}
	if _, ok := columns["date"]; !ok {
		return nil, ErrMissingDateColumn
	}

	result := &ImportResult{Candidates: []Candidate{}}
	for rowIdx := 1; rowIdx < len(rows); rowIdx++ {
		row := rows[rowIdx]
		get := func(field string) string {
			i, ok := columns[field]
			if !ok {
				return ""
			}
			return cellAt(rows, rowIdx, i)
		}
		shown := func(field string) string {
			if src.display == nil {
				return get(field)
			}
			i, ok := columns[field]
			if !ok {
				return ""
			}
			return cellAt(src.display, rowIdx, i)
		}

		if isBlank(row) {
			continue
		}

		day, err := src.date(get("date"))
		if err != nil {
			s.logger.WithFields(logrus.Fields{
				"row":  rowIdx + 1,
				"date": get("date"),
			}).Debug("Skipping row with invalid date")
			result.Skipped++
			continue
		}

		result.Candidates = append(result.Candidates, Candidate{
			Day:           day,
			Location:      get("location"),
			StartTime:     timenorm.Normalize(src.clock(get("start_time"))),
			FinishTime:    timenorm.Normalize(src.clock(get("finish_time"))),
			BreakDuration: shown("break_duration"),
			BaseHours:     s.parseHours(get("base_hours"), rowIdx+1),
			OTHours:       s.parseHours(get("ot_hours"), rowIdx+1),
		})
	}

	return result, nil
}

// parseHours: пустое значение - 0, некорректное, бесконечное или отрицательное - 0 с предупреждением
func (s *ImporterService) parseHours(value string, row int) float64 {
	if value == "" {
		return 0
	}

	v, err := strconv.ParseFloat(value, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		s.logger.WithFields(logrus.Fields{
			"row":   row,
			"value": value,
		}).Warn("Invalid hours value, using 0")
		return 0
	}
	return v
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
