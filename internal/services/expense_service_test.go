package services

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"expense-tracker-api/internal/config"
	"expense-tracker-api/internal/models"
	"expense-tracker-api/internal/repositories"
	"expense-tracker-api/internal/repositories/repository_mocks"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
)

type ExpenseServiceTestSuite struct {
	suite.Suite
	ctrl            *gomock.Controller
	mockExpenseRepo *repository_mocks.MockExpenseRepositoryInterface
	metrics         *recordingMetrics
	service         ExpenseServiceInterface
}

func (s *ExpenseServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockExpenseRepo = repository_mocks.NewMockExpenseRepositoryInterface(s.ctrl)
	s.metrics = newRecordingMetrics()

	budgets, err := config.ParseBudgets(`{"Groceries": 300, "Transport": 120}`)
	s.Require().NoError(err)

	s.service = NewExpenseService(s.mockExpenseRepo, budgets, s.metrics, slog.Default())
}

func (s *ExpenseServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestExpenseServiceSuite(t *testing.T) {
	suite.Run(t, new(ExpenseServiceTestSuite))
}

func (s *ExpenseServiceTestSuite) TestCreate() {
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	s.mockExpenseRepo.EXPECT().Create(gomock.Any()).DoAndReturn(func(expense *models.Expense) error {
		expense.ID = 7
		return nil
	})

	expense, err := s.service.Create(1, 12.50, "  Weekly shopping  ", date, "Groceries")
	s.Require().NoError(err)

	s.Equal(uint(7), expense.ID)
	s.Equal(uint(1), expense.UserID)
	s.Equal(int64(1250), expense.AmountCents)
	s.Equal("Weekly shopping", expense.Description)
	s.Equal("Groceries", expense.Category)
	s.Equal(1, s.metrics.counterValue("expenses_created:Groceries"))
}

func (s *ExpenseServiceTestSuite) TestCreate_RejectsUnknownCategory() {
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	_, err := s.service.Create(1, 12.50, "Magic beans", date, "Abracadabra")
	s.ErrorIs(err, ErrCategoryNotAllowed)
	s.Equal(0, s.metrics.counterValue("expenses_created:Abracadabra"))
}

func (s *ExpenseServiceTestSuite) TestCreate_RejectsNonPositiveAmount() {
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	_, err := s.service.Create(1, 0, "Weekly shopping", date, "Groceries")
	s.ErrorIs(err, models.ErrAmountNotPositive)

	_, err = s.service.Create(1, -3.50, "Weekly shopping", date, "Groceries")
	s.ErrorIs(err, models.ErrAmountNotPositive)
}

func (s *ExpenseServiceTestSuite) TestCreate_RejectsBlankDescription() {
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	_, err := s.service.Create(1, 12.50, "   ", date, "Groceries")
	s.ErrorIs(err, models.ErrDescriptionRequired)
}

func (s *ExpenseServiceTestSuite) TestGetForUser() {
	stored := &models.Expense{ID: 7, UserID: 1, Category: "Groceries", AmountCents: 1250}
	s.mockExpenseRepo.EXPECT().GetByID(uint(7)).Return(stored, nil)

	expense, err := s.service.GetForUser(1, 7)
	s.Require().NoError(err)
	s.Equal(stored, expense)
}

func (s *ExpenseServiceTestSuite) TestGetForUser_ForeignExpense() {
	stored := &models.Expense{ID: 7, UserID: 2, Category: "Groceries", AmountCents: 1250}
	s.mockExpenseRepo.EXPECT().GetByID(uint(7)).Return(stored, nil)

	_, err := s.service.GetForUser(1, 7)
	s.ErrorIs(err, ErrExpenseNotOwned)
}

func (s *ExpenseServiceTestSuite) TestGetForUser_NotFound() {
	s.mockExpenseRepo.EXPECT().GetByID(uint(99)).Return(nil, repositories.ErrExpenseNotFound)

	_, err := s.service.GetForUser(1, 99)
	s.ErrorIs(err, repositories.ErrExpenseNotFound)
}

func (s *ExpenseServiceTestSuite) TestUpdate() {
	stored := &models.Expense{ID: 7, UserID: 1, Category: "Groceries", AmountCents: 1250, Description: "Weekly shopping"}
	newDate := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)

	s.mockExpenseRepo.EXPECT().GetByID(uint(7)).Return(stored, nil)
	s.mockExpenseRepo.EXPECT().Update(gomock.Any()).Return(nil)

	expense, err := s.service.Update(1, 7, 8.00, "Bus ticket", newDate, "Transport")
	s.Require().NoError(err)

	s.Equal(int64(800), expense.AmountCents)
	s.Equal("Bus ticket", expense.Description)
	s.Equal("Transport", expense.Category)
	s.Equal(newDate, expense.Date)
}

func (s *ExpenseServiceTestSuite) TestUpdate_ForeignExpense() {
	stored := &models.Expense{ID: 7, UserID: 2, Category: "Groceries", AmountCents: 1250}
	s.mockExpenseRepo.EXPECT().GetByID(uint(7)).Return(stored, nil)

	_, err := s.service.Update(1, 7, 8.00, "Bus ticket", time.Now(), "Transport")
	s.ErrorIs(err, ErrExpenseNotOwned)
}

func (s *ExpenseServiceTestSuite) TestUpdate_RejectsUnknownCategory() {
	stored := &models.Expense{ID: 7, UserID: 1, Category: "Groceries", AmountCents: 1250, Description: "Weekly shopping"}
	s.mockExpenseRepo.EXPECT().GetByID(uint(7)).Return(stored, nil)

	_, err := s.service.Update(1, 7, 8.00, "Bus ticket", time.Now(), "Abracadabra")
	s.ErrorIs(err, ErrCategoryNotAllowed)
}

func (s *ExpenseServiceTestSuite) TestDelete() {
	stored := &models.Expense{ID: 7, UserID: 1, Category: "Groceries", AmountCents: 1250}
	s.mockExpenseRepo.EXPECT().GetByID(uint(7)).Return(stored, nil)
	s.mockExpenseRepo.EXPECT().Delete(uint(7)).Return(nil)

	s.NoError(s.service.Delete(1, 7))
}

func (s *ExpenseServiceTestSuite) TestDelete_ForeignExpense() {
	stored := &models.Expense{ID: 7, UserID: 2, Category: "Groceries", AmountCents: 1250}
	s.mockExpenseRepo.EXPECT().GetByID(uint(7)).Return(stored, nil)

	s.ErrorIs(s.service.Delete(1, 7), ErrExpenseNotOwned)
}

func (s *ExpenseServiceTestSuite) TestList() {
	criteria := models.MonthWindow(1, 2025, time.March)
	stored := []models.Expense{{ID: 7, UserID: 1}}

	s.mockExpenseRepo.EXPECT().FindByCriteria(criteria, 20, 10).Return(stored, int64(21), nil)

	expenses, total, err := s.service.List(1, 2025, time.March, 3, 10)
	s.Require().NoError(err)
	s.Equal(stored, expenses)
	s.Equal(int64(21), total)
}

func (s *ExpenseServiceTestSuite) TestList_ClampsPage() {
	criteria := models.MonthWindow(1, 2025, time.March)
	s.mockExpenseRepo.EXPECT().FindByCriteria(criteria, 0, 1).Return(nil, int64(0), nil)

	_, _, err := s.service.List(1, 2025, time.March, 0, -5)
	s.NoError(err)
}

func (s *ExpenseServiceTestSuite) TestList_RepositoryError() {
	criteria := models.MonthWindow(1, 2025, time.March)
	s.mockExpenseRepo.EXPECT().FindByCriteria(criteria, 0, 20).Return(nil, int64(0), errors.New("connection lost"))

	_, _, err := s.service.List(1, 2025, time.March, 1, 20)
	s.Error(err)
}

func (s *ExpenseServiceTestSuite) TestListExpenditureYears() {
	s.mockExpenseRepo.EXPECT().ListExpenditureYears(uint(1)).Return([]int{2025, 2023}, nil)

	years, err := s.service.ListExpenditureYears(1)
	s.Require().NoError(err)
	s.Equal([]int{2025, 2023}, years)
}
