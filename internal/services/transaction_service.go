package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "palco/internal/errors"
	"palco/internal/models"
	"palco/internal/pagination"
)

// transactionService handles transaction and ledger business logic.
type transactionService struct {
	db             *gorm.DB
	accountService BankAccountServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, accountService BankAccountServicer) TransactionServicer {
	return &transactionService{
		db:             db,
		accountService: accountService,
	}
}

// CreateTransaction creates a new income or expense transaction. When a bank
// account is linked, the account balance is adjusted by the signed amount in
// the same database transaction as the insert.
func (s *transactionService) CreateTransaction(userID string, fields TransactionFields) (*models.Transaction, error) {
	if fields.Amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if fields.Description == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "description is required")
	}
	switch fields.Type {
	case models.TransactionTypeIncome, models.TransactionTypeExpense:
	default:
		return nil, apperrors.ErrInvalidTransactionType
	}

	if fields.CategoryID != nil {
		if fields.Type != models.TransactionTypeExpense {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "categories apply only to expense transactions")
		}
		var count int64
		if err := s.db.Model(&models.Category{}).
			Where("id = ? AND user_id = ?", *fields.CategoryID, userID).
			Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return nil, apperrors.ErrCategoryNotFound
		}
	}

	if fields.ContractorID != nil {
		var count int64
		if err := s.db.Model(&models.Contractor{}).
			Where("id = ? AND user_id = ?", *fields.ContractorID, userID).
			Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return nil, apperrors.ErrContractorNotFound
		}
	}

	if fields.Date.IsZero() {
		fields.Date = time.Now()
	}

	transaction := &models.Transaction{
		UserID:        userID,
		Description:   fields.Description,
		Amount:        fields.Amount,
		Date:          fields.Date,
		Type:          fields.Type,
		CategoryID:    fields.CategoryID,
		PaymentMethod: fields.PaymentMethod,
		PixKey:        fields.PixKey,
		PaidTo:        fields.PaidTo,
		ContractorID:  fields.ContractorID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if fields.BankAccountID != nil {
			account, err := s.accountService.GetAccountByID(userID, *fields.BankAccountID)
			if err != nil {
				return err
			}
			transaction.BankAccountID = &account.ID
			transaction.IsTransferred = true
			transaction.TransferDate = &fields.Date
		}

		if err := tx.Create(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if transaction.BankAccountID != nil {
			if err := s.accountService.ApplyBalanceDelta(tx, userID, *transaction.BankAccountID, transaction.SignedAmount()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return transaction, nil
}

// CreateMovement records a direct deposit or withdrawal on a bank account:
// the balance change and the backing transaction are one atomic unit.
func (s *transactionService) CreateMovement(userID, accountID string, kind MovementKind, amount int64, description string, method models.PaymentMethod, date time.Time) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	var txType models.TransactionType
	switch kind {
	case MovementDeposit:
		txType = models.TransactionTypeIncome
		if description == "" {
			description = "Deposit"
		}
	case MovementWithdrawal:
		txType = models.TransactionTypeExpense
		if description == "" {
			description = "Withdrawal"
		}
	default:
		return nil, apperrors.ErrInvalidMovementKind
	}

	account, err := s.accountService.GetAccountByID(userID, accountID)
	if err != nil {
		return nil, err
	}

	if date.IsZero() {
		date = time.Now()
	}

	transaction := &models.Transaction{
		UserID:        userID,
		Description:   description,
		Amount:        amount,
		Date:          date,
		Type:          txType,
		BankAccountID: &account.ID,
		IsTransferred: true,
		TransferDate:  &date,
		PaymentMethod: method,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.accountService.ApplyBalanceDelta(tx, userID, account.ID, transaction.SignedAmount())
	})
	if err != nil {
		return nil, err
	}

	return transaction, nil
}

// GetUserTransactions retrieves a paginated, filtered list of transactions
// for the user across all accounts.
func (s *transactionService) GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order("date DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetAccountTransactions retrieves a paginated, filtered list of transactions
// that settled against a specific bank account.
func (s *transactionService) GetAccountTransactions(userID, accountID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	// First verify the account belongs to the user
	if _, err := s.accountService.GetAccountByID(userID, accountID); err != nil {
		return nil, err
	}

	filter.BankAccountID = &accountID
	return s.GetUserTransactions(userID, page, filter)
}

// applyTransactionFilters applies the filter semantics shared by listing and
// reporting: case-insensitive description substring, category only together
// with a type, and month/year winning over an explicit date range.
func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	// Columns are qualified so the same filters work on joined queries
	// (e.g. the per-category report).
	if f.Description != nil && *f.Description != "" {
		q = q.Where("LOWER(transactions.description) LIKE ?", "%"+strings.ToLower(*f.Description)+"%")
	}
	if f.Type != nil {
		q = q.Where("transactions.type = ?", *f.Type)
		// Category filtering is only meaningful when a type was selected.
		if f.CategoryID != nil {
			q = q.Where("transactions.category_id = ?", *f.CategoryID)
		}
	}
	if f.BankAccountID != nil {
		q = q.Where("transactions.bank_account_id = ?", *f.BankAccountID)
	}

	if start, end, ok := f.dateWindow(); ok {
		q = q.Where("transactions.date >= ? AND transactions.date < ?", start, end)
	}
	return q
}

// dateWindow resolves the filter's date fields into a half-open [start, end)
// window. Month/year take precedence over the explicit range; a lone FromDate
// matches that exact day.
func (f TransactionFilter) dateWindow() (time.Time, time.Time, bool) {
	if f.Month != nil {
		year := time.Now().UTC().Year()
		if f.Year != nil {
			year = *f.Year
		}
		start := time.Date(year, time.Month(*f.Month), 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, 0), true
	}
	if f.Year != nil {
		start := time.Date(*f.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(1, 0, 0), true
	}
	if f.FromDate != nil {
		start := dayStart(*f.FromDate)
		if f.ToDate == nil {
			return start, start.AddDate(0, 0, 1), true
		}
		return start, dayStart(*f.ToDate).AddDate(0, 0, 1), true
	}
	if f.ToDate != nil {
		// Open-ended lower bound
		return time.Time{}, dayStart(*f.ToDate).AddDate(0, 0, 1), true
	}
	return time.Time{}, time.Time{}, false
}

// dayStart normalizes a timestamp to UTC midnight of its calendar day.
func dayStart(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// GetTransactionByID retrieves a transaction by ID for a specific user
func (s *transactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// UpdateTransaction updates an existing transaction. When the transaction is
// linked to a bank account, the balance effect of the edit is the difference
// between the new and old signed amounts; re-linking reverses the old account
// and applies to the new one. Everything runs in one database transaction.
func (s *transactionService) UpdateTransaction(userID, transactionID string, fields TransactionUpdateFields) (*models.Transaction, error) {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}

	oldAccountID := transaction.BankAccountID
	oldSigned := transaction.SignedAmount()

	if fields.Amount != nil && *fields.Amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if fields.Type != nil {
		switch *fields.Type {
		case models.TransactionTypeIncome, models.TransactionTypeExpense:
		default:
			return nil, apperrors.ErrInvalidTransactionType
		}
	}

	updates := make(map[string]interface{})
	if fields.Description != nil && *fields.Description != "" {
		updates["description"] = *fields.Description
		transaction.Description = *fields.Description
	}
	if fields.Amount != nil {
		updates["amount"] = *fields.Amount
		transaction.Amount = *fields.Amount
	}
	if fields.Date != nil {
		updates["date"] = *fields.Date
		transaction.Date = *fields.Date
	}
	if fields.Type != nil {
		updates["type"] = *fields.Type
		transaction.Type = *fields.Type
	}
	if fields.PaymentMethod != nil {
		updates["payment_method"] = *fields.PaymentMethod
		transaction.PaymentMethod = *fields.PaymentMethod
	}
	if fields.PixKey != nil {
		updates["pix_key"] = *fields.PixKey
		transaction.PixKey = *fields.PixKey
	}
	if fields.PaidTo != nil {
		updates["paid_to"] = *fields.PaidTo
		transaction.PaidTo = *fields.PaidTo
	}

	if fields.CategoryID != nil {
		if *fields.CategoryID != nil {
			var count int64
			if err := s.db.Model(&models.Category{}).
				Where("id = ? AND user_id = ?", **fields.CategoryID, userID).
				Count(&count).Error; err != nil {
				return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			if count == 0 {
				return nil, apperrors.ErrCategoryNotFound
			}
		}
		updates["category_id"] = *fields.CategoryID
		transaction.CategoryID = *fields.CategoryID
	}

	if fields.BankAccountID != nil {
		if *fields.BankAccountID != nil {
			account, err := s.accountService.GetAccountByID(userID, **fields.BankAccountID)
			if err != nil {
				return nil, err
			}
			transaction.BankAccountID = &account.ID
		} else {
			transaction.BankAccountID = nil
		}
		updates["bank_account_id"] = transaction.BankAccountID
		updates["is_transferred"] = transaction.BankAccountID != nil
		transaction.IsTransferred = transaction.BankAccountID != nil
	}

	newAccountID := transaction.BankAccountID
	newSigned := transaction.SignedAmount()

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&models.Transaction{}).
				Where("id = ?", transaction.ID).
				Updates(updates).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		switch {
		case oldAccountID == nil && newAccountID == nil:
			// Balance untouched.
		case oldAccountID != nil && newAccountID != nil && *oldAccountID == *newAccountID:
			if delta := newSigned - oldSigned; delta != 0 {
				if err := s.accountService.ApplyBalanceDelta(tx, userID, *newAccountID, delta); err != nil {
					return err
				}
			}
		default:
			if oldAccountID != nil {
				if err := s.accountService.ApplyBalanceDelta(tx, userID, *oldAccountID, -oldSigned); err != nil {
					return err
				}
			}
			if newAccountID != nil {
				if err := s.accountService.ApplyBalanceDelta(tx, userID, *newAccountID, newSigned); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return transaction, nil
}

// DeleteTransaction deletes a transaction, reversing its signed contribution
// to the linked bank account's balance in the same database transaction.
func (s *transactionService) DeleteTransaction(userID, transactionID string) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if transaction.BankAccountID != nil {
			if err := s.accountService.ApplyBalanceDelta(tx, userID, *transaction.BankAccountID, -transaction.SignedAmount()); err != nil {
				return err
			}
		}
		return nil
	})
}
