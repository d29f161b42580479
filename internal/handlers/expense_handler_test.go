package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"expense-tracker-api/internal/dto"
	"expense-tracker-api/internal/models"
	"expense-tracker-api/internal/repositories"
	"expense-tracker-api/internal/services"
	"expense-tracker-api/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

func TestExpenseHandler(t *testing.T) {
	suite.Run(t, new(ExpenseHandlerSuite))
}

type ExpenseHandlerSuite struct {
	suite.Suite
	ctrl           *gomock.Controller
	expenseService *service_mocks.MockExpenseServiceInterface
	importService  *service_mocks.MockImportServiceInterface
	handler        *ExpenseHandler
	e              *echo.Echo
}

func (s *ExpenseHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.expenseService = service_mocks.NewMockExpenseServiceInterface(s.ctrl)
	s.importService = service_mocks.NewMockImportServiceInterface(s.ctrl)
	s.handler = NewExpenseHandler(s.expenseService, s.importService)
	s.e = echo.New()
	s.e.Validator = NewValidator()
}

func (s *ExpenseHandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ExpenseHandlerSuite) authedJSONContext(method, target string, body interface{}) (echo.Context, *httptest.ResponseRecorder) {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(method, target, bytes.NewBuffer(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := s.e.NewContext(req, rec)
	c.Set("user_id", uint(1))
	return c, rec
}

func storedExpense() *models.Expense {
	return &models.Expense{
		ID:          7,
		UserID:      1,
		Date:        time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Category:    "Groceries",
		AmountCents: 1250,
		Description: "Weekly shopping",
		CreatedAt:   time.Now(),
	}
}

func (s *ExpenseHandlerSuite) TestCreate() {
	s.Run("successful creation", func() {
		s.expenseService.EXPECT().
			Create(uint(1), 12.50, "Weekly shopping", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), "Groceries").
			Return(storedExpense(), nil).
			Times(1)

		c, rec := s.authedJSONContext(http.MethodPost, "/expenses", map[string]interface{}{
			"amount":      12.50,
			"description": "Weekly shopping",
			"date":        "2025-03-10",
			"category":    "Groceries",
		})

		err := s.handler.Create(c)
		s.NoError(err)
		s.Equal(http.StatusCreated, rec.Code)

		var response SuccessResponse
		_ = json.Unmarshal(rec.Body.Bytes(), &response)
		expense, ok := response.Data.(map[string]interface{})
		s.Require().True(ok)
		s.Equal("2025-03-10", expense["date"])
		s.Equal(12.5, expense["amount"])
	})

	s.Run("unknown category", func() {
		s.expenseService.EXPECT().
			Create(uint(1), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, services.ErrCategoryNotAllowed).
			Times(1)

		c, rec := s.authedJSONContext(http.MethodPost, "/expenses", map[string]interface{}{
			"amount":      12.50,
			"description": "Magic beans",
			"date":        "2025-03-10",
			"category":    "Abracadabra",
		})

		err := s.handler.Create(c)
		s.NoError(err)
		s.Equal(http.StatusUnprocessableEntity, rec.Code)

		var errorResp ErrorResponse
		s.NoError(json.Unmarshal(rec.Body.Bytes(), &errorResp))
		s.Equal("EXPENSE_002", errorResp.Error.Code)
	})

	s.Run("unparseable date", func() {
		c, rec := s.authedJSONContext(http.MethodPost, "/expenses", map[string]interface{}{
			"amount":      12.50,
			"description": "Weekly shopping",
			"date":        "10/03/2025",
			"category":    "Groceries",
		})

		err := s.handler.Create(c)
		s.NoError(err)
		s.Equal(http.StatusBadRequest, rec.Code)

		var errorResp ErrorResponse
		s.NoError(json.Unmarshal(rec.Body.Bytes(), &errorResp))
		s.Equal("VALIDATION_005", errorResp.Error.Code)
	})

	s.Run("missing fields rejected by validator", func() {
		c, _ := s.authedJSONContext(http.MethodPost, "/expenses", map[string]interface{}{
			"amount": 12.50,
		})

		err := s.handler.Create(c)
		s.Error(err)
	})

	s.Run("unauthenticated", func() {
		req := httptest.NewRequest(http.MethodPost, "/expenses", nil)
		rec := httptest.NewRecorder()
		c := s.e.NewContext(req, rec)

		err := s.handler.Create(c)
		s.NoError(err)
		s.Equal(http.StatusUnauthorized, rec.Code)
	})
}

func (s *ExpenseHandlerSuite) TestList() {
	s.Run("returns a page", func() {
		s.expenseService.EXPECT().
			List(uint(1), 2025, time.March, 1, 20).
			Return([]models.Expense{*storedExpense()}, int64(1), nil).
			Times(1)

		c, rec := s.authedJSONContext(http.MethodGet, "/expenses?year=2025&month=3", nil)

		err := s.handler.List(c)
		s.NoError(err)
		s.Equal(http.StatusOK, rec.Code)

		var response dto.ListExpensesResponse
		s.NoError(json.Unmarshal(rec.Body.Bytes(), &response))
		s.Require().Len(response.Expenses, 1)
		s.Equal(int64(1), response.Total)
		s.Equal(1, response.Page)
		s.Equal(20, response.PageSize)
		s.Equal("Weekly shopping", response.Expenses[0].Description)
	})

	s.Run("clamps paging parameters", func() {
		s.expenseService.EXPECT().
			List(uint(1), 2025, time.March, 1, 20).
			Return(nil, int64(0), nil).
			Times(1)

		c, rec := s.authedJSONContext(http.MethodGet, "/expenses?year=2025&month=3&page=0&pageSize=5000", nil)

		err := s.handler.List(c)
		s.NoError(err)
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("rejects out of range month", func() {
		c, rec := s.authedJSONContext(http.MethodGet, "/expenses?year=2025&month=13", nil)

		err := s.handler.List(c)
		s.NoError(err)
		s.Equal(http.StatusBadRequest, rec.Code)

		var errorResp ErrorResponse
		s.NoError(json.Unmarshal(rec.Body.Bytes(), &errorResp))
		s.Equal("VALIDATION_004", errorResp.Error.Code)
	})
}

func (s *ExpenseHandlerSuite) TestGet() {
	s.Run("returns owned expense", func() {
		s.expenseService.EXPECT().GetForUser(uint(1), uint(7)).Return(storedExpense(), nil).Times(1)

		c, rec := s.authedJSONContext(http.MethodGet, "/expenses/7", nil)
		c.SetParamNames("id")
		c.SetParamValues("7")

		err := s.handler.Get(c)
		s.NoError(err)
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("foreign expense is forbidden", func() {
		s.expenseService.EXPECT().GetForUser(uint(1), uint(7)).Return(nil, services.ErrExpenseNotOwned).Times(1)

		c, rec := s.authedJSONContext(http.MethodGet, "/expenses/7", nil)
		c.SetParamNames("id")
		c.SetParamValues("7")

		err := s.handler.Get(c)
		s.NoError(err)
		s.Equal(http.StatusForbidden, rec.Code)

		var errorResp ErrorResponse
		s.NoError(json.Unmarshal(rec.Body.Bytes(), &errorResp))
		s.Equal("EXPENSE_003", errorResp.Error.Code)
	})

	s.Run("missing expense", func() {
		s.expenseService.EXPECT().GetForUser(uint(1), uint(99)).Return(nil, repositories.ErrExpenseNotFound).Times(1)

		c, rec := s.authedJSONContext(http.MethodGet, "/expenses/99", nil)
		c.SetParamNames("id")
		c.SetParamValues("99")

		err := s.handler.Get(c)
		s.NoError(err)
		s.Equal(http.StatusNotFound, rec.Code)

		var errorResp ErrorResponse
		s.NoError(json.Unmarshal(rec.Body.Bytes(), &errorResp))
		s.Equal("EXPENSE_001", errorResp.Error.Code)
	})

	s.Run("non-numeric id", func() {
		c, rec := s.authedJSONContext(http.MethodGet, "/expenses/abc", nil)
		c.SetParamNames("id")
		c.SetParamValues("abc")

		err := s.handler.Get(c)
		s.NoError(err)
		s.Equal(http.StatusBadRequest, rec.Code)

		var errorResp ErrorResponse
		s.NoError(json.Unmarshal(rec.Body.Bytes(), &errorResp))
		s.Equal("VALIDATION_003", errorResp.Error.Code)
	})
}

func (s *ExpenseHandlerSuite) TestUpdate() {
	s.Run("successful update", func() {
		updated := storedExpense()
		updated.AmountCents = 800
		updated.Description = "Bus ticket"
		updated.Category = "Transport"

		s.expenseService.EXPECT().
			Update(uint(1), uint(7), 8.00, "Bus ticket", time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), "Transport").
			Return(updated, nil).
			Times(1)

		c, rec := s.authedJSONContext(http.MethodPut, "/expenses/7", map[string]interface{}{
			"amount":      8.00,
			"description": "Bus ticket",
			"date":        "2025-03-12",
			"category":    "Transport",
		})
		c.SetParamNames("id")
		c.SetParamValues("7")

		err := s.handler.Update(c)
		s.NoError(err)
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("foreign expense", func() {
		s.expenseService.EXPECT().
			Update(uint(1), uint(7), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, services.ErrExpenseNotOwned).
			Times(1)

		c, rec := s.authedJSONContext(http.MethodPut, "/expenses/7", map[string]interface{}{
			"amount":      8.00,
			"description": "Bus ticket",
			"date":        "2025-03-12",
			"category":    "Transport",
		})
		c.SetParamNames("id")
		c.SetParamValues("7")

		err := s.handler.Update(c)
		s.NoError(err)
		s.Equal(http.StatusForbidden, rec.Code)
	})
}

func (s *ExpenseHandlerSuite) TestDelete() {
	s.Run("successful deletion", func() {
		s.expenseService.EXPECT().Delete(uint(1), uint(7)).Return(nil).Times(1)

		c, rec := s.authedJSONContext(http.MethodDelete, "/expenses/7", nil)
		c.SetParamNames("id")
		c.SetParamValues("7")

		err := s.handler.Delete(c)
		s.NoError(err)
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("missing expense", func() {
		s.expenseService.EXPECT().Delete(uint(1), uint(99)).Return(repositories.ErrExpenseNotFound).Times(1)

		c, rec := s.authedJSONContext(http.MethodDelete, "/expenses/99", nil)
		c.SetParamNames("id")
		c.SetParamValues("99")

		err := s.handler.Delete(c)
		s.NoError(err)
		s.Equal(http.StatusNotFound, rec.Code)
	})
}

func (s *ExpenseHandlerSuite) multipartContext(fieldName, fileName, contents string) (echo.Context, *httptest.ResponseRecorder) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if fieldName != "" {
		part, err := writer.CreateFormFile(fieldName, fileName)
		s.Require().NoError(err)
		_, err = part.Write([]byte(contents))
		s.Require().NoError(err)
	}
	s.Require().NoError(writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/expenses/import", &buf)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec := httptest.NewRecorder()
	c := s.e.NewContext(req, rec)
	c.Set("user_id", uint(1))
	return c, rec
}

func (s *ExpenseHandlerSuite) TestImport() {
	csvBody := "date,amount,description,category\n2025-03-01,12.50,Weekly shopping,Groceries\n"

	s.Run("successful import", func() {
		s.importService.EXPECT().
			ImportCSV(uint(1), gomock.Any()).
			Return(&services.ImportResult{ImportedCount: 1, SkippedCount: 0, SkipReasons: map[string]int{}}, nil).
			Times(1)

		c, rec := s.multipartContext("file", "expenses.csv", csvBody)

		err := s.handler.Import(c)
		s.NoError(err)
		s.Equal(http.StatusOK, rec.Code)

		var response SuccessResponse
		_ = json.Unmarshal(rec.Body.Bytes(), &response)
		result, ok := response.Data.(map[string]interface{})
		s.Require().True(ok)
		s.Equal(float64(1), result["importedCount"])
	})

	s.Run("missing file field", func() {
		c, rec := s.multipartContext("", "", "")

		err := s.handler.Import(c)
		s.NoError(err)
		s.Equal(http.StatusBadRequest, rec.Code)

		var errorResp ErrorResponse
		s.NoError(json.Unmarshal(rec.Body.Bytes(), &errorResp))
		s.Equal("IMPORT_002", errorResp.Error.Code)
	})

	s.Run("invalid header", func() {
		s.importService.EXPECT().
			ImportCSV(uint(1), gomock.Any()).
			Return(nil, services.ErrInvalidHeader).
			Times(1)

		c, rec := s.multipartContext("file", "expenses.csv", "date,amount\n")

		err := s.handler.Import(c)
		s.NoError(err)
		s.Equal(http.StatusBadRequest, rec.Code)

		var errorResp ErrorResponse
		s.NoError(json.Unmarshal(rec.Body.Bytes(), &errorResp))
		s.Equal("IMPORT_001", errorResp.Error.Code)
	})

	s.Run("skipped rows are reported", func() {
		s.importService.EXPECT().
			ImportCSV(uint(1), gomock.Any()).
			Return(&services.ImportResult{
				ImportedCount: 2,
				SkippedCount:  1,
				SkipReasons:   map[string]int{"invalid_category": 1},
			}, nil).
			Times(1)

		c, rec := s.multipartContext("file", "expenses.csv", csvBody)

		err := s.handler.Import(c)
		s.NoError(err)
		s.Equal(http.StatusOK, rec.Code)

		var response SuccessResponse
		_ = json.Unmarshal(rec.Body.Bytes(), &response)
		result, ok := response.Data.(map[string]interface{})
		s.Require().True(ok)
		s.Equal(float64(2), result["importedCount"])
		s.Equal(float64(1), result["skippedCount"])
	})

	s.Run("unauthenticated", func() {
		req := httptest.NewRequest(http.MethodPost, "/expenses/import", nil)
		rec := httptest.NewRecorder()
		c := s.e.NewContext(req, rec)

		err := s.handler.Import(c)
		s.NoError(err)
		s.Equal(http.StatusUnauthorized, rec.Code)
	})
}
