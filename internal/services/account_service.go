package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "palco/internal/errors"
	"palco/internal/models"
	"palco/internal/pagination"
)

// bankAccountService handles bank-account business logic.
type bankAccountService struct {
	db *gorm.DB
}

// NewBankAccountService creates a new BankAccountServicer.
func NewBankAccountService(db *gorm.DB) BankAccountServicer {
	return &bankAccountService{db: db}
}

// CreateAccount creates a new bank account for a user. A positive initial
// balance is recorded as an income transaction so the account's balance
// always equals the fold over its transactions.
func (s *bankAccountService) CreateAccount(userID, bankName, agency, accountNumber, imageURL string, initialBalance int64) (*models.BankAccount, error) {
	if bankName == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "bank name is required")
	}
	if initialBalance < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "initial balance cannot be negative")
	}

	account := &models.BankAccount{
		UserID:        userID,
		BankName:      bankName,
		Agency:        agency,
		AccountNumber: accountNumber,
		Balance:       initialBalance,
		ImageURL:      imageURL,
		IsActive:      true,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(account).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if initialBalance > 0 {
			now := time.Now()
			transaction := &models.Transaction{
				UserID:        userID,
				Description:   "Initial balance",
				Amount:        initialBalance,
				Date:          now,
				Type:          models.TransactionTypeIncome,
				BankAccountID: &account.ID,
				IsTransferred: true,
				TransferDate:  &now,
			}
			if err := tx.Create(transaction).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return account, nil
}

// GetUserAccounts retrieves a paginated list of bank accounts for a user.
func (s *bankAccountService) GetUserAccounts(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.BankAccount], error) {
	page.Defaults()

	base := s.db.Model(&models.BankAccount{}).Where("user_id = ? AND is_active = ?", userID, true)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var accounts []models.BankAccount
	if err := base.Scopes(pagination.Paginate(page)).Order("bank_name").Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(accounts, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetAccountByID retrieves a bank account by ID for a specific user
func (s *bankAccountService) GetAccountByID(userID, accountID string) (*models.BankAccount, error) {
	var account models.BankAccount
	if err := s.db.Where("id = ? AND user_id = ? AND is_active = ?", accountID, userID, true).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBankAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}

// UpdateAccount updates descriptive fields of an existing bank account.
// The balance is never writable through this path.
func (s *bankAccountService) UpdateAccount(userID, accountID string, fields BankAccountUpdateFields) (*models.BankAccount, error) {
	account, err := s.GetAccountByID(userID, accountID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if fields.BankName != nil && *fields.BankName != "" {
		updates["bank_name"] = *fields.BankName
	}
	if fields.Agency != nil {
		updates["agency"] = *fields.Agency
	}
	if fields.AccountNumber != nil {
		updates["account_number"] = *fields.AccountNumber
	}
	if fields.ImageURL != nil {
		updates["image_url"] = *fields.ImageURL
	}
	if fields.IsActive != nil {
		updates["is_active"] = *fields.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(account).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		// Reload to get fresh data
		if err := s.db.Where("id = ?", account.ID).First(account).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return account, nil
}

// DeleteAccount soft-deletes a bank account. Transactions that settled
// against it keep their reference for historical records.
func (s *bankAccountService) DeleteAccount(userID, accountID string) error {
	account, err := s.GetAccountByID(userID, accountID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(account).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// ApplyBalanceDelta adjusts the stored balance of an account inside the
// given database transaction. The caller derives the sign from the
// transaction type; this method only applies it.
func (s *bankAccountService) ApplyBalanceDelta(tx *gorm.DB, userID, accountID string, delta int64) error {
	result := tx.Model(&models.BankAccount{}).
		Where("id = ? AND user_id = ?", accountID, userID).
		Update("balance", gorm.Expr("balance + ?", delta))
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrBankAccountNotFound
	}
	return nil
}

// ReconcileAccount recomputes the account balance as a fold over its linked
// transactions and repairs the stored balance when they disagree. Drift can
// only appear if a mutation path bypasses the ledger services.
func (s *bankAccountService) ReconcileAccount(userID, accountID string) (*ReconcileResult, error) {
	account, err := s.GetAccountByID(userID, accountID)
	if err != nil {
		return nil, err
	}

	result := &ReconcileResult{AccountID: account.ID, StoredBalance: account.Balance}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var computed int64
		if err := tx.Model(&models.Transaction{}).
			Select("COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE -amount END), 0)", models.TransactionTypeIncome).
			Where("bank_account_id = ?", account.ID).
			Scan(&computed).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		result.ComputedBalance = computed
		if computed == account.Balance {
			return nil
		}

		result.Repaired = true
		if err := tx.Model(account).Update("balance", computed).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
