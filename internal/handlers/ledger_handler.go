package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "finbook/internal/errors"
	"finbook/internal/logger"
	"finbook/internal/middleware"
	"finbook/internal/services"
)

// LedgerHandler serves the dashboard and the income/expense forms. All of
// its routes sit behind the session gate.
type LedgerHandler struct {
	ledger services.LedgerServicer
	users  services.UserServicer
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(ledger services.LedgerServicer, users services.UserServicer) *LedgerHandler {
	return &LedgerHandler{ledger: ledger, users: users}
}

// IncomeForm represents the income form fields. Amounts bind through
// pointers so a submitted zero is distinguishable from a missing field.
type IncomeForm struct {
	Income *float64 `form:"income" binding:"required,gte=0"`
}

// ExpenseForm represents the expense form fields.
type ExpenseForm struct {
	Amount      *float64 `form:"expamount" binding:"required"`
	Description string   `form:"description" binding:"required"`
	Notes       string   `form:"notes"`
}

// Dashboard renders the index page. The totals are recomputed from session
// state on every request, never cached.
func (h *LedgerHandler) Dashboard(c *gin.Context) {
	h.renderDashboard(c, "")
}

// IncomePage renders the income form.
func (h *LedgerHandler) IncomePage(c *gin.Context) {
	c.HTML(http.StatusOK, "income.html", gin.H{})
}

// SubmitIncome stores the session's income figure and returns to the dashboard.
func (h *LedgerHandler) SubmitIncome(c *gin.Context) {
	token, _ := middleware.SessionToken(c)

	var form IncomeForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusBadRequest, "income.html", gin.H{"error": "Please enter a valid income amount."})
		return
	}

	if err := h.ledger.SetIncome(c.Request.Context(), token, *form.Income); err != nil {
		h.failLedger(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/index")
}

// SubmitExpense appends an expense to the session's ledger and returns to
// the dashboard.
func (h *LedgerHandler) SubmitExpense(c *gin.Context) {
	token, _ := middleware.SessionToken(c)

	var form ExpenseForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderDashboard(c, "Please enter a valid expense.")
		return
	}

	if _, err := h.ledger.AddExpense(c.Request.Context(), token, form.Description, *form.Amount, form.Notes); err != nil {
		h.failLedger(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/index")
}

func (h *LedgerHandler) renderDashboard(c *gin.Context, formError string) {
	token, _ := middleware.SessionToken(c)

	summary, err := h.ledger.Summarize(c.Request.Context(), token)
	if err != nil {
		h.failLedger(c, err)
		return
	}

	user, _ := middleware.SessionUser(c)
	email := ""
	name := ""
	if user != nil {
		email = user.Email
		// The session only carries id and email; the greeting name comes
		// from the user record.
		if record, err := h.users.GetUserByID(user.ID); err == nil {
			name = record.FirstName
		} else {
			logger.Get().Warnw("failed to load user for dashboard", "userID", user.ID, "error", err.Error())
		}
	}

	status := http.StatusOK
	if formError != "" {
		status = http.StatusBadRequest
	}
	c.HTML(status, "index.html", gin.H{
		"email":         email,
		"name":          name,
		"income":        summary.Income,
		"totalExpenses": summary.TotalExpenses,
		"balance":       summary.Balance,
		"transactions":  summary.Transactions,
		"error":         formError,
	})
}

// failLedger maps ledger failures: a vanished session becomes a redirect to
// /login, anything else goes to the error middleware.
func (h *LedgerHandler) failLedger(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Code == apperrors.ErrUnauthenticated.Code {
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}
	c.Error(err)
}
