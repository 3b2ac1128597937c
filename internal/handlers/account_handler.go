package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "palco/internal/errors"
	"palco/internal/models"
	"palco/internal/pagination"
	"palco/internal/services"
)

// AccountHandler handles bank-account-related requests.
type AccountHandler struct {
	accountService     services.BankAccountServicer
	transactionService services.TransactionServicer
	auditService       services.AuditServicer
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService services.BankAccountServicer, transactionService services.TransactionServicer, auditService services.AuditServicer) *AccountHandler {
	return &AccountHandler{
		accountService:     accountService,
		transactionService: transactionService,
		auditService:       auditService,
	}
}

// CreateAccountRequest represents the request payload for creating a bank account
type CreateAccountRequest struct {
	BankName       string `json:"bank_name" binding:"required,max=255"`
	Agency         string `json:"agency" binding:"max=20"`
	AccountNumber  string `json:"account_number" binding:"max=30"`
	ImageURL       string `json:"image_url" binding:"omitempty,url,max=500"`
	InitialBalance int64  `json:"initial_balance" binding:"gte=0"`
}

// AccountResponse represents a bank account in the response
type AccountResponse struct {
	ID            string `json:"id"`
	BankName      string `json:"bank_name"`
	Agency        string `json:"agency"`
	AccountNumber string `json:"account_number"`
	Balance       int64  `json:"balance"`
	ImageURL      string `json:"image_url,omitempty"`
	IsActive      bool   `json:"is_active"`
}

// CreateAccount handles the creation of a new bank account
// @Summary     Create a bank account
// @Description Create a new bank account. A positive initial balance is recorded as an opening income transaction.
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateAccountRequest true "Account details"
// @Success     201 {object} AccountResponse "Account created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts [post]
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	account, err := h.accountService.CreateAccount(userID, req.BankName, req.Agency, req.AccountNumber, req.ImageURL, req.InitialBalance)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_ACCOUNT", "bank_account", account.ID, c.ClientIP(),
		map[string]interface{}{"bank_name": req.BankName, "initial_balance": req.InitialBalance})

	c.JSON(http.StatusCreated, gin.H{"account": account})
}

// GetUserAccounts handles the retrieval of all accounts for the authenticated user
// @Summary     Get user accounts
// @Description Get a paginated list of the authenticated user's bank accounts
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.BankAccount] "Paginated accounts"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts [get]
func (h *AccountHandler) GetUserAccounts(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.accountService.GetUserAccounts(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetAccountByID handles the retrieval of a specific account
// @Summary     Get account by ID
// @Description Get a specific bank account by ID
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Account ID"
// @Success     200 {object} AccountResponse "Account details"
// @Failure     400 {object} ErrorResponse "Invalid account ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts/{id} [get]
func (h *AccountHandler) GetAccountByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	account, err := h.accountService.GetAccountByID(userID, accountID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"account": account})
}

// UpdateAccountRequest represents the request payload for updating a bank account.
type UpdateAccountRequest struct {
	BankName      *string `json:"bank_name" binding:"omitempty,max=255"`
	Agency        *string `json:"agency" binding:"omitempty,max=20"`
	AccountNumber *string `json:"account_number" binding:"omitempty,max=30"`
	ImageURL      *string `json:"image_url" binding:"omitempty,url,max=500"`
	IsActive      *bool   `json:"is_active"`
}

// UpdateAccount handles updating an existing bank account
// @Summary     Update account
// @Description Update an existing bank account. The balance cannot be set directly; use deposits, withdrawals, or reconcile.
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string               true "Account ID"
// @Param       request body UpdateAccountRequest true "Fields to update"
// @Success     200 {object} AccountResponse "Updated account"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts/{id} [put]
func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	account, err := h.accountService.UpdateAccount(userID, accountID, services.BankAccountUpdateFields{
		BankName:      req.BankName,
		Agency:        req.Agency,
		AccountNumber: req.AccountNumber,
		ImageURL:      req.ImageURL,
		IsActive:      req.IsActive,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_ACCOUNT", "bank_account", accountID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"account": account})
}

// DeleteAccount handles the deletion of a bank account
// @Summary     Delete account
// @Description Soft-delete a bank account by ID. Its transactions are preserved.
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Account ID"
// @Success     200 {object} MessageResponse "Account deleted"
// @Failure     400 {object} ErrorResponse "Invalid account ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts/{id} [delete]
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.accountService.DeleteAccount(userID, accountID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_ACCOUNT", "bank_account", accountID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
}

// MovementRequest represents the request payload for a deposit or withdrawal
type MovementRequest struct {
	Amount        int64                `json:"amount" binding:"required,gt=0"`
	Description   string               `json:"description" binding:"max=500"`
	PaymentMethod models.PaymentMethod `json:"payment_method" binding:"omitempty,payment_method"`
	Date          *string              `json:"date"`
}

func (h *AccountHandler) createMovement(c *gin.Context, kind services.MovementKind, action string) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req MovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	movementDate := time.Now()
	if req.Date != nil && *req.Date != "" {
		parsed, parseErr := parseFlexibleTime(*req.Date)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, parseErr.Error()))
			return
		}
		movementDate = parsed
	}

	transaction, err := h.transactionService.CreateMovement(userID, accountID, kind, req.Amount, req.Description, req.PaymentMethod, movementDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, action, "bank_account", accountID, c.ClientIP(),
		map[string]interface{}{"amount": req.Amount, "transaction_id": transaction.ID})

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// Deposit handles a direct deposit into a bank account
// @Summary     Deposit into account
// @Description Record a deposit, creating an income transaction and crediting the account balance atomically
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string          true "Account ID"
// @Param       request body MovementRequest true "Deposit details"
// @Success     201 {object} TransactionResponse "Deposit recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts/{id}/deposit [post]
func (h *AccountHandler) Deposit(c *gin.Context) {
	h.createMovement(c, services.MovementDeposit, "DEPOSIT")
}

// Withdraw handles a direct withdrawal from a bank account
// @Summary     Withdraw from account
// @Description Record a withdrawal, creating an expense transaction and debiting the account balance atomically
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string          true "Account ID"
// @Param       request body MovementRequest true "Withdrawal details"
// @Success     201 {object} TransactionResponse "Withdrawal recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts/{id}/withdraw [post]
func (h *AccountHandler) Withdraw(c *gin.Context) {
	h.createMovement(c, services.MovementWithdrawal, "WITHDRAW")
}

// Reconcile recomputes an account's balance from its transaction history
// @Summary     Reconcile account balance
// @Description Recompute the account balance from the full transaction history and repair the stored value if it drifted
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Account ID"
// @Success     200 {object} services.ReconcileResult "Reconciliation result"
// @Failure     400 {object} ErrorResponse "Invalid account ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts/{id}/reconcile [post]
func (h *AccountHandler) Reconcile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.accountService.ReconcileAccount(userID, accountID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if result.Repaired {
		h.auditService.Log(userID, "RECONCILE_ACCOUNT", "bank_account", accountID, c.ClientIP(),
			map[string]interface{}{
				"stored_balance":   result.StoredBalance,
				"computed_balance": result.ComputedBalance,
			})
	}

	c.JSON(http.StatusOK, gin.H{"reconciliation": result})
}
