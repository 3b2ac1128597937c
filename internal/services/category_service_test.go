package services

import (
	"testing"

	"palco/internal/models"
	"palco/internal/testutil"
)

func TestCreateCategory(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		category, err := svc.CreateCategory(user.ID, "Equipment", "Gear and maintenance")
		testutil.AssertNoError(t, err)
		if category.ID == "" {
			t.Fatal("expected non-empty category ID")
		}
	})

	t.Run("duplicate_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCategory(user.ID, "Equipment", "")
		testutil.AssertNoError(t, err)
		_, err = svc.CreateCategory(user.ID, "Equipment", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("same_name_different_users", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCategory(user1.ID, "Equipment", "")
		testutil.AssertNoError(t, err)
		_, err = svc.CreateCategory(user2.ID, "Equipment", "")
		testutil.AssertNoError(t, err)
	})
}

func TestDeleteCategory(t *testing.T) {
	t.Run("clears_references_keeps_transactions", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		catSvc := NewCategoryService(db)
		txSvc := NewTransactionService(db, NewBankAccountService(db))
		user := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategory(t, db, user.ID)

		tx, err := txSvc.CreateTransaction(user.ID, TransactionFields{
			Description: "Gear",
			Amount:      1000,
			Type:        models.TransactionTypeExpense,
			CategoryID:  &category.ID,
		})
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, catSvc.DeleteCategory(user.ID, category.ID))

		_, err = catSvc.GetCategoryByID(user.ID, category.ID)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")

		// The transaction survives with its category cleared.
		kept, err := txSvc.GetTransactionByID(user.ID, tx.ID)
		testutil.AssertNoError(t, err)
		if kept.CategoryID != nil {
			t.Error("expected category reference to be cleared")
		}
	})

	t.Run("wrong_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategory(t, db, user1.ID)

		err := svc.DeleteCategory(user2.ID, category.ID)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}
