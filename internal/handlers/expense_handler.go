package handlers

import (
	"io"
	"net/http"
	"os"
	"time"

	"expense-tracker-api/internal/dto"
	"expense-tracker-api/internal/errors"
	"expense-tracker-api/internal/models"
	"expense-tracker-api/internal/repositories"
	"expense-tracker-api/internal/services"

	"github.com/labstack/echo/v4"
)

var expenseDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
}

// ExpenseHandler handles expense CRUD and CSV import endpoints
type ExpenseHandler struct {
	expenseService services.ExpenseServiceInterface
	importService  services.ImportServiceInterface
}

// NewExpenseHandler creates a new expense handler
func NewExpenseHandler(expenseService services.ExpenseServiceInterface, importService services.ImportServiceInterface) *ExpenseHandler {
	return &ExpenseHandler{
		expenseService: expenseService,
		importService:  importService,
	}
}

// Create records a new expense for the authenticated user
// @Summary Create expense
// @Tags Expenses
// @Accept json
// @Produce json
// @Param request body dto.CreateExpenseRequest true "Expense details"
// @Success 201 {object} SuccessResponse{data=dto.ExpenseResponse} "Expense created"
// @Failure 400 {object} errors.ErrorResponse "Validation error"
// @Failure 422 {object} errors.ErrorResponse "Unknown category - EXPENSE_002"
// @Router /expenses [post]
func (h *ExpenseHandler) Create(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.CreateExpenseRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	date, ok := parseExpenseDate(req.Date)
	if !ok {
		return SendError(c, errors.ValidationInvalidDate)
	}

	expense, err := h.expenseService.Create(userID, req.Amount, req.Description, date, req.Category)
	if err != nil {
		return h.sendExpenseError(c, err)
	}

	return c.JSON(http.StatusCreated, SuccessResponse{
		Data:    expenseResponse(expense),
		Message: "Expense created successfully",
	})
}

// List returns one page of the user's expenses for a calendar month
// @Summary List expenses
// @Tags Expenses
// @Produce json
// @Param year query int false "Year (defaults to current)"
// @Param month query int false "Month 1-12 (defaults to current)"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} dto.ListExpensesResponse "Page of expenses"
// @Router /expenses [get]
func (h *ExpenseHandler) List(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var params dto.ListExpensesParams
	if err := c.Bind(&params); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid query parameters"))
	}

	year, month, err := requestPeriod(c)
	if err != nil {
		return SendError(c, errors.ValidationOutOfRange, errors.WithDetails(err.Error()))
	}
	if err := services.ValidatePeriod(year, month); err != nil {
		return SendError(c, errors.ValidationOutOfRange, errors.WithDetails(err.Error()))
	}

	page := params.Page
	if page < 1 {
		page = 1
	}
	pageSize := params.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	expenses, total, err := h.expenseService.List(userID, year, month, page, pageSize)
	if err != nil {
		return SendSystemError(c, err)
	}

	items := make([]dto.ExpenseResponse, 0, len(expenses))
	for i := range expenses {
		items = append(items, expenseResponse(&expenses[i]))
	}

	return c.JSON(http.StatusOK, dto.ListExpensesResponse{
		Expenses: items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// Get returns a single owned expense
// @Summary Get expense
// @Tags Expenses
// @Produce json
// @Param id path int true "Expense ID"
// @Success 200 {object} SuccessResponse{data=dto.ExpenseResponse} "Expense"
// @Failure 403 {object} errors.ErrorResponse "Foreign expense - EXPENSE_003"
// @Failure 404 {object} errors.ErrorResponse "Not found - EXPENSE_001"
// @Router /expenses/{id} [get]
func (h *ExpenseHandler) Get(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	expenseID, err := parseIDParam(c, "id")
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails(err.Error()))
	}

	expense, err := h.expenseService.GetForUser(userID, expenseID)
	if err != nil {
		return h.sendExpenseError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Data: expenseResponse(expense)})
}

// Update replaces an owned expense's mutable fields
// @Summary Update expense
// @Tags Expenses
// @Accept json
// @Produce json
// @Param id path int true "Expense ID"
// @Param request body dto.UpdateExpenseRequest true "New expense values"
// @Success 200 {object} SuccessResponse{data=dto.ExpenseResponse} "Expense updated"
// @Router /expenses/{id} [put]
func (h *ExpenseHandler) Update(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	expenseID, err := parseIDParam(c, "id")
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails(err.Error()))
	}

	var req dto.UpdateExpenseRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	date, ok := parseExpenseDate(req.Date)
	if !ok {
		return SendError(c, errors.ValidationInvalidDate)
	}

	expense, err := h.expenseService.Update(userID, expenseID, req.Amount, req.Description, date, req.Category)
	if err != nil {
		return h.sendExpenseError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data:    expenseResponse(expense),
		Message: "Expense updated successfully",
	})
}

// Delete removes an owned expense
// @Summary Delete expense
// @Tags Expenses
// @Produce json
// @Param id path int true "Expense ID"
// @Success 200 {object} SuccessResponse "Expense deleted"
// @Router /expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	expenseID, err := parseIDParam(c, "id")
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails(err.Error()))
	}

	if err := h.expenseService.Delete(userID, expenseID); err != nil {
		return h.sendExpenseError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "Expense deleted successfully"})
}

// Import ingests a CSV file of expenses
// @Summary Import expenses from CSV
// @Description Upload a CSV file with date, amount, description and category columns. Invalid rows are skipped; all valid rows commit in one transaction.
// @Tags Expenses
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Success 200 {object} SuccessResponse{data=dto.ImportResponse} "Import finished"
// @Failure 400 {object} errors.ErrorResponse "Missing file - IMPORT_002, or bad header - IMPORT_001"
// @Router /expenses/import [post]
func (h *ExpenseHandler) Import(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return SendError(c, errors.ImportMissingFile)
	}

	upload, err := fileHeader.Open()
	if err != nil {
		return SendSystemError(c, err)
	}
	defer upload.Close()

	// Spool the upload to a temp file so the multipart stream can be
	// released before the import transaction runs. The temp file is
	// removed on every path, including import failure.
	tmp, err := os.CreateTemp("", "expense-import-*.csv")
	if err != nil {
		return SendSystemError(c, err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if _, err := io.Copy(tmp, upload); err != nil {
		return SendSystemError(c, err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return SendSystemError(c, err)
	}

	result, err := h.importService.ImportCSV(userID, tmp)
	if err != nil {
		if err == services.ErrInvalidHeader {
			return SendError(c, errors.ImportInvalidHeader)
		}
		return SendError(c, errors.ImportFailed, errors.WithDetails(err.Error()))
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data: dto.ImportResponse{
			ImportedCount: result.ImportedCount,
			SkippedCount:  result.SkippedCount,
			SkipReasons:   result.SkipReasons,
		},
		Message: "Import finished",
	})
}

// sendExpenseError maps expense service errors onto API error codes
func (h *ExpenseHandler) sendExpenseError(c echo.Context, err error) error {
	switch err {
	case repositories.ErrExpenseNotFound:
		return SendError(c, errors.ExpenseNotFound)
	case services.ErrExpenseNotOwned:
		return SendError(c, errors.ExpenseNotOwned)
	case services.ErrCategoryNotAllowed:
		return SendError(c, errors.ExpenseInvalidCategory)
	case models.ErrAmountNotPositive:
		return SendError(c, errors.ValidationInvalidAmount)
	case models.ErrDescriptionRequired, models.ErrCategoryRequired, models.ErrDateRequired:
		return SendError(c, errors.ValidationRequiredField, errors.WithDetails(err.Error()))
	default:
		return SendSystemError(c, err)
	}
}

func expenseResponse(expense *models.Expense) dto.ExpenseResponse {
	return dto.ExpenseResponse{
		ID:          expense.ID,
		Date:        expense.Date.Format("2006-01-02"),
		Category:    expense.Category,
		Amount:      expense.AmountMajor(),
		Description: expense.Description,
		CreatedAt:   expense.CreatedAt,
	}
}

func parseExpenseDate(value string) (time.Time, bool) {
	for _, layout := range expenseDateLayouts {
		if date, err := time.Parse(layout, value); err == nil {
			return date, true
		}
	}
	return time.Time{}, false
}
