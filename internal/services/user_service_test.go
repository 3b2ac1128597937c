package services

import (
	"testing"

	"palco/internal/testutil"
)

func TestCreateUser(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("artist@example.com", "password123", "Ana", "Souza")
		testutil.AssertNoError(t, err)

		if user.ID == "" {
			t.Fatal("expected non-empty user ID")
		}
		if user.Password == "password123" {
			t.Error("expected password to be hashed")
		}
		if !user.IsActive {
			t.Error("expected new user to be active")
		}
	})

	t.Run("email_normalized_to_lowercase", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("Artist@Example.COM", "password123", "Ana", "Souza")
		testutil.AssertNoError(t, err)
		if user.Email != "artist@example.com" {
			t.Errorf("expected lowercase email, got %q", user.Email)
		}
	})

	t.Run("duplicate_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("artist@example.com", "password123", "Ana", "Souza")
		testutil.AssertNoError(t, err)

		// Case differences do not dodge the uniqueness check.
		_, err = svc.CreateUser("ARTIST@example.com", "otherpassword", "Bea", "Lima")
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})

	t.Run("missing_credentials", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("", "password123", "", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
		_, err = svc.CreateUser("artist@example.com", "", "", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestAttemptLogin(t *testing.T) {
	t.Run("success_resets_counters", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		created, err := svc.CreateUser("artist@example.com", "password123", "Ana", "Souza")
		testutil.AssertNoError(t, err)

		_, err = svc.AttemptLogin("artist@example.com", "wrong")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")

		user, err := svc.AttemptLogin("artist@example.com", "password123")
		testutil.AssertNoError(t, err)
		if user.ID != created.ID {
			t.Error("expected login to return the registered user")
		}
		if user.LastLoginAt == nil {
			t.Error("expected last login timestamp to be set")
		}

		stored, err := svc.GetUserByID(created.ID)
		testutil.AssertNoError(t, err)
		if stored.FailedLoginAttempts != 0 {
			t.Errorf("expected failed attempts reset, got %d", stored.FailedLoginAttempts)
		}
		if stored.LockedUntil != nil {
			t.Error("expected lock cleared after a successful login")
		}
	})

	t.Run("unknown_email_looks_like_bad_password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.AttemptLogin("nobody@example.com", "password123")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("locks_after_five_failures", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("artist@example.com", "password123", "Ana", "Souza")
		testutil.AssertNoError(t, err)

		for i := 0; i < 5; i++ {
			_, err = svc.AttemptLogin("artist@example.com", "wrong")
			testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
		}

		// Even the right password is rejected while the lock holds.
		_, err = svc.AttemptLogin("artist@example.com", "password123")
		testutil.AssertAppError(t, err, "ACCOUNT_LOCKED")
	})
}

func TestRefreshTokenHash(t *testing.T) {
	t.Run("store_and_read_back", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		testutil.AssertNoError(t, svc.StoreRefreshTokenHash(user.ID, "abc123"))

		hash, err := svc.GetRefreshTokenHash(user.ID)
		testutil.AssertNoError(t, err)
		if hash != "abc123" {
			t.Errorf("expected stored hash, got %q", hash)
		}

		// Rotation overwrites the previous hash.
		testutil.AssertNoError(t, svc.StoreRefreshTokenHash(user.ID, "def456"))
		hash, err = svc.GetRefreshTokenHash(user.ID)
		testutil.AssertNoError(t, err)
		if hash != "def456" {
			t.Errorf("expected rotated hash, got %q", hash)
		}
	})

	t.Run("unknown_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.GetRefreshTokenHash("0198c5b6-0000-7000-8000-000000000000")
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}
