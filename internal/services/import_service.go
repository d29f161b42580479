package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"expense-tracker-api/internal/config"
	"expense-tracker-api/internal/database"
	"expense-tracker-api/internal/models"
	"expense-tracker-api/internal/repositories"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrInvalidHeader rejects the whole file when the first row does not
// carry the required column names.
var ErrInvalidHeader = errors.New("csv header must contain date, amount, description and category columns")

// Skip reasons reported per rejected row. A skipped row never aborts
// the import; only a storage failure rolls the batch back.
const (
	SkipBlankRow          = "blank_row"
	SkipMalformedRow      = "malformed_row"
	SkipBlankDescription  = "blank_description"
	SkipInvalidCategory   = "invalid_category"
	SkipInvalidDate       = "invalid_date"
	SkipInvalidAmount     = "invalid_amount"
	SkipNonPositiveAmount = "non_positive_amount"
)

// ImportResult summarizes one CSV import run
type ImportResult struct {
	ImportedCount int
	SkippedCount  int
	SkipReasons   map[string]int
}

var importDateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ImportService loads expenses from CSV uploads. All accepted rows are
// written inside a single transaction so a partially stored file can
// never be observed.
type ImportService struct {
	db          *database.DB
	expenseRepo repositories.ExpenseRepositoryInterface
	budgets     *config.BudgetConfig
	metrics     MetricsRecorderInterface
	logger      *slog.Logger
}

// NewImportService creates a new import service
func NewImportService(
	db *database.DB,
	expenseRepo repositories.ExpenseRepositoryInterface,
	budgets *config.BudgetConfig,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) ImportServiceInterface {
	return &ImportService{
		db:          db,
		expenseRepo: expenseRepo,
		budgets:     budgets,
		metrics:     metrics,
		logger:      logger,
	}
}

// ImportCSV reads expense rows for one user from r. The header row is
// matched case-insensitively and may order its columns freely; a header
// that is missing a required column fails the import before any row is
// parsed. Individual bad rows are counted and skipped.
func (s *ImportService) ImportCSV(userID uint, r io.Reader) (*ImportResult, error) {
	start := time.Now()

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, ErrInvalidHeader
	}
	columns, err := mapHeaderColumns(header)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{SkipReasons: make(map[string]int)}
	var expenses []*models.Expense

	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			s.skip(result, line, SkipMalformedRow)
			continue
		}

		expense, reason := s.parseRow(userID, columns, record)
		if reason != "" {
			s.skip(result, line, reason)
			continue
		}
		expenses = append(expenses, expense)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.expenseRepo.WithTx(tx)
		for _, expense := range expenses {
			if err := repo.Create(expense); err != nil {
				return fmt.Errorf("failed to store imported expense: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	result.ImportedCount = len(expenses)

	s.metrics.IncrementCounter("imports_completed", nil)
	s.metrics.RecordProcessingTime("csv_import", time.Since(start))
	s.logger.Info("csv import finished",
		"user_id", userID,
		"imported", result.ImportedCount,
		"skipped", result.SkippedCount)

	return result, nil
}

type headerColumns struct {
	date        int
	amount      int
	description int
	category    int
}

// mapHeaderColumns resolves each required column to its index
func mapHeaderColumns(header []string) (headerColumns, error) {
	indexes := make(map[string]int, len(header))
	for i, name := range header {
		indexes[strings.ToLower(strings.TrimSpace(name))] = i
	}

	columns := headerColumns{}
	required := map[string]*int{
		"date":        &columns.date,
		"amount":      &columns.amount,
		"description": &columns.description,
		"category":    &columns.category,
	}
	for name, target := range required {
		index, ok := indexes[name]
		if !ok {
			return headerColumns{}, ErrInvalidHeader
		}
		*target = index
	}
	return columns, nil
}

// parseRow converts one record into an expense, or names the reason it
// cannot be imported.
func (s *ImportService) parseRow(userID uint, columns headerColumns, record []string) (*models.Expense, string) {
	if isBlankRecord(record) {
		return nil, SkipBlankRow
	}

	maxIndex := columns.date
	for _, index := range []int{columns.amount, columns.description, columns.category} {
		if index > maxIndex {
			maxIndex = index
		}
	}
	if len(record) <= maxIndex {
		return nil, SkipMalformedRow
	}

	description := strings.TrimSpace(record[columns.description])
	if description == "" {
		return nil, SkipBlankDescription
	}

	category := strings.TrimSpace(record[columns.category])
	if !s.budgets.IsAllowedCategory(category) {
		return nil, SkipInvalidCategory
	}

	date, ok := parseImportDate(record[columns.date])
	if !ok {
		return nil, SkipInvalidDate
	}

	amount, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(record[columns.amount]), ",", "."))
	if err != nil {
		return nil, SkipInvalidAmount
	}
	amountCents := models.CentsFromMajor(amount)
	if amountCents <= 0 {
		return nil, SkipNonPositiveAmount
	}

	return &models.Expense{
		UserID:      userID,
		Date:        date,
		Category:    category,
		AmountCents: amountCents,
		Description: description,
	}, ""
}

func (s *ImportService) skip(result *ImportResult, line int, reason string) {
	result.SkippedCount++
	result.SkipReasons[reason]++
	s.metrics.IncrementCounter("import_rows_skipped", map[string]string{"reason": reason})
	s.logger.Warn("import row skipped", "line", line, "reason", reason)
}

func isBlankRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

func parseImportDate(value string) (time.Time, bool) {
	trimmed := strings.TrimSpace(value)
	for _, layout := range importDateLayouts {
		if date, err := time.Parse(layout, trimmed); err == nil {
			return date, true
		}
	}
	return time.Time{}, false
}
