package services

import (
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"expense-tracker-api/internal/config"
	"expense-tracker-api/internal/database"
	"expense-tracker-api/internal/models"
	"expense-tracker-api/internal/repositories"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type ImportServiceTestSuite struct {
	suite.Suite
	db      *database.DB
	repo    repositories.ExpenseRepositoryInterface
	metrics *recordingMetrics
	user    *models.User
	service ImportServiceInterface
}

func (s *ImportServiceTestSuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = repositories.NewExpenseRepository(s.db.DB)
	s.metrics = newRecordingMetrics()
	s.user = database.CreateTestUser(s.T(), s.db, "alice")

	budgets, err := config.ParseBudgets(`{"Groceries": 300, "Transport": 120}`)
	s.Require().NoError(err)

	s.service = NewImportService(s.db, s.repo, budgets, s.metrics, slog.Default())
}

func (s *ImportServiceTestSuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func TestImportServiceSuite(t *testing.T) {
	suite.Run(t, new(ImportServiceTestSuite))
}

func (s *ImportServiceTestSuite) importCSV(csv string) *ImportResult {
	result, err := s.service.ImportCSV(s.user.ID, strings.NewReader(csv))
	s.Require().NoError(err)
	return result
}

func (s *ImportServiceTestSuite) storedExpenses() []models.Expense {
	expenses, _, err := s.repo.FindByCriteria(models.MonthWindow(s.user.ID, 2025, time.March), 0, 100)
	s.Require().NoError(err)
	return expenses
}

func (s *ImportServiceTestSuite) TestImportCSV_AllRowsValid() {
	result := s.importCSV(
		"date,amount,description,category\n" +
			"2025-03-01,12.50,Weekly shopping,Groceries\n" +
			"2025-03-02,8.00,Bus ticket,Transport\n")

	s.Equal(2, result.ImportedCount)
	s.Equal(0, result.SkippedCount)

	expenses := s.storedExpenses()
	s.Require().Len(expenses, 2)
	s.Equal(1, s.metrics.timers["csv_import"])
}

func (s *ImportServiceTestSuite) TestImportCSV_HeaderIsCaseInsensitiveAndReorderable() {
	result := s.importCSV(
		" Category , AMOUNT ,Description,Date\n" +
			"Groceries,12.50,Weekly shopping,2025-03-01\n")

	s.Equal(1, result.ImportedCount)

	expenses := s.storedExpenses()
	s.Require().Len(expenses, 1)
	s.Equal("Groceries", expenses[0].Category)
	s.Equal(int64(1250), expenses[0].AmountCents)
}

func (s *ImportServiceTestSuite) TestImportCSV_MissingHeaderColumnFailsWholeImport() {
	_, err := s.service.ImportCSV(s.user.ID, strings.NewReader(
		"date,amount,description\n"+
			"2025-03-01,12.50,Weekly shopping\n"))
	s.ErrorIs(err, ErrInvalidHeader)
	s.Empty(s.storedExpenses(), "nothing may persist when the header is invalid")
}

func (s *ImportServiceTestSuite) TestImportCSV_EmptyFileFailsWholeImport() {
	_, err := s.service.ImportCSV(s.user.ID, strings.NewReader(""))
	s.ErrorIs(err, ErrInvalidHeader)
}

func (s *ImportServiceTestSuite) TestImportCSV_SkipsBadRowsAndKeepsGoodOnes() {
	result := s.importCSV(
		"date,amount,description,category\n" +
			"2025-03-01,12.50,Weekly shopping,Groceries\n" +
			"2025-03-02,9.99,Magic beans,Abracadabra\n" +
			"2025-03-03,8.00,Bus ticket,Transport\n")

	s.Equal(2, result.ImportedCount)
	s.Equal(1, result.SkippedCount)
	s.Equal(1, result.SkipReasons[SkipInvalidCategory])
	s.Len(s.storedExpenses(), 2)
}

func (s *ImportServiceTestSuite) TestImportCSV_SkipReasons() {
	result := s.importCSV(
		"date,amount,description,category\n" +
			",,,\n" + // blank row
			"2025-03-01,12.50,   ,Groceries\n" + // blank description
			"2025-03-01,12.50,Magic beans,Abracadabra\n" + // unknown category
			"not-a-date,12.50,Weekly shopping,Groceries\n" + // bad date
			"2025-03-01,twelve,Weekly shopping,Groceries\n" + // bad amount
			"2025-03-01,0,Weekly shopping,Groceries\n" + // zero amount
			"2025-03-01,-3.50,Weekly shopping,Groceries\n" + // negative amount
			"2025-03-01,12.50\n") // too few fields

	s.Equal(0, result.ImportedCount)
	s.Equal(8, result.SkippedCount)
	s.Equal(map[string]int{
		SkipBlankRow:          1,
		SkipBlankDescription:  1,
		SkipInvalidCategory:   1,
		SkipInvalidDate:       1,
		SkipInvalidAmount:     1,
		SkipNonPositiveAmount: 2,
		SkipMalformedRow:      1,
	}, result.SkipReasons)
	s.Empty(s.storedExpenses())
}

func (s *ImportServiceTestSuite) TestImportCSV_CommaDecimalSeparator() {
	result := s.importCSV(
		"date,amount,description,category\n" +
			"2025-03-01,\"12,50\",Weekly shopping,Groceries\n")

	s.Equal(1, result.ImportedCount)
	expenses := s.storedExpenses()
	s.Require().Len(expenses, 1)
	s.Equal(int64(1250), expenses[0].AmountCents)
}

func (s *ImportServiceTestSuite) TestImportCSV_AcceptsDateTimeFormat() {
	result := s.importCSV(
		"date,amount,description,category\n" +
			"2025-03-01 14:30:00,5.00,Afternoon coffee,Groceries\n")

	s.Equal(1, result.ImportedCount)
	expenses := s.storedExpenses()
	s.Require().Len(expenses, 1)
	s.Equal(2025, expenses[0].Date.Year())
	s.Equal(time.March, expenses[0].Date.Month())
}

func (s *ImportServiceTestSuite) TestImportCSV_EmptyBodyImportsNothing() {
	result := s.importCSV("date,amount,description,category\n")

	s.Equal(0, result.ImportedCount)
	s.Equal(0, result.SkippedCount)
}

// createFailingRepo wraps a real repository and fails the nth Create,
// counting every attempt across transaction handles.
type createFailingRepo struct {
	repositories.ExpenseRepositoryInterface
	failOn  int
	creates *int
}

func (r *createFailingRepo) WithTx(tx *gorm.DB) repositories.ExpenseRepositoryInterface {
	return &createFailingRepo{
		ExpenseRepositoryInterface: r.ExpenseRepositoryInterface.WithTx(tx),
		failOn:                     r.failOn,
		creates:                    r.creates,
	}
}

func (r *createFailingRepo) Create(expense *models.Expense) error {
	*r.creates++
	if *r.creates == r.failOn {
		return errors.New("write failed")
	}
	return r.ExpenseRepositoryInterface.Create(expense)
}

func (s *ImportServiceTestSuite) TestImportCSV_PersistenceFailureRollsBackBatch() {
	budgets, err := config.ParseBudgets(`{"Groceries": 300, "Transport": 120}`)
	s.Require().NoError(err)

	var creates int
	repo := &createFailingRepo{ExpenseRepositoryInterface: s.repo, failOn: 2, creates: &creates}
	service := NewImportService(s.db, repo, budgets, s.metrics, slog.Default())

	_, err = service.ImportCSV(s.user.ID, strings.NewReader(
		"date,amount,description,category\n"+
			"2025-03-01,12.50,Weekly shopping,Groceries\n"+
			"2025-03-02,8.00,Bus ticket,Transport\n"+
			"2025-03-03,4.20,Tram ticket,Transport\n"))

	s.Require().Error(err)
	s.Contains(err.Error(), "failed to store imported expense")
	s.Equal(2, creates, "the batch stops at the first storage failure")
	s.Empty(s.storedExpenses(), "a failed batch may not leave partial rows behind")
}
