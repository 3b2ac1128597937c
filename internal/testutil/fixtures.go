package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"palco/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		Role:     models.UserRoleUser,
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestBankAccount creates a bank account with zero balance.
func CreateTestBankAccount(t *testing.T, db *gorm.DB, userID string) *models.BankAccount {
	t.Helper()
	return CreateTestBankAccountWithBalance(t, db, userID, 0)
}

// CreateTestBankAccountWithBalance creates a bank account with the given
// stored balance (in cents). No backing transactions are created; tests
// exercising the reconcile path rely on that.
func CreateTestBankAccountWithBalance(t *testing.T, db *gorm.DB, userID string, balance int64) *models.BankAccount {
	t.Helper()

	account := &models.BankAccount{
		UserID:        userID,
		BankName:      fmt.Sprintf("Test Bank %d", nextID()),
		Agency:        "0001",
		AccountNumber: fmt.Sprintf("%06d-1", nextID()),
		Balance:       balance,
		IsActive:      true,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test bank account: %v", err)
	}
	return account
}

// CreateTestCategory creates an expense category.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID string) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID: userID,
		Name:   fmt.Sprintf("Test Category %d", nextID()),
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestArtist creates an artist.
func CreateTestArtist(t *testing.T, db *gorm.DB, userID string) *models.Artist {
	t.Helper()

	n := nextID()
	artist := &models.Artist{
		UserID: userID,
		Name:   fmt.Sprintf("Test Artist %d", n),
		Email:  fmt.Sprintf("artist%d@test.com", n),
	}
	if err := db.Create(artist).Error; err != nil {
		t.Fatalf("failed to create test artist: %v", err)
	}
	return artist
}

// CreateTestContractor creates a contractor.
func CreateTestContractor(t *testing.T, db *gorm.DB, userID string) *models.Contractor {
	t.Helper()

	n := nextID()
	contractor := &models.Contractor{
		UserID: userID,
		Name:   fmt.Sprintf("Test Contractor %d", n),
		Email:  fmt.Sprintf("contractor%d@test.com", n),
	}
	if err := db.Create(contractor).Error; err != nil {
		t.Fatalf("failed to create test contractor: %v", err)
	}
	return contractor
}

// CreateTestEvent creates an event with the given value (in cents).
func CreateTestEvent(t *testing.T, db *gorm.DB, userID string, value int64) *models.Event {
	t.Helper()

	event := &models.Event{
		UserID:    userID,
		Date:      time.Now(),
		StartTime: "20:00",
		Value:     value,
	}
	if err := db.Create(event).Error; err != nil {
		t.Fatalf("failed to create test event: %v", err)
	}
	return event
}

// CreateTestTransaction creates a transaction of the given type and amount
// (in cents) linked to the given bank account. It does not touch the account
// balance; use the transaction service when the ledger invariant matters.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID string, accountID *string, txType models.TransactionType, amount int64) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:        userID,
		Description:   fmt.Sprintf("Test Transaction %d", nextID()),
		Amount:        amount,
		Date:          time.Now(),
		Type:          txType,
		BankAccountID: accountID,
	}
	if accountID != nil {
		tx.IsTransferred = true
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}
