package services

import (
	"testing"
	"time"

	"palco/internal/models"
	"palco/internal/testutil"
)

func TestSummarize(t *testing.T) {
	t.Run("balance_is_income_minus_expenses", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		txSvc := NewTransactionService(db, NewBankAccountService(db))
		svc := NewReportService(db)
		user := testutil.CreateTestUser(t, db)

		inputs := []struct {
			txType models.TransactionType
			amount int64
		}{
			{models.TransactionTypeIncome, 5000},
			{models.TransactionTypeIncome, 3000},
			{models.TransactionTypeExpense, 1500},
		}
		for _, in := range inputs {
			_, err := txSvc.CreateTransaction(user.ID, TransactionFields{
				Description: "Entry",
				Amount:      in.amount,
				Type:        in.txType,
			})
			testutil.AssertNoError(t, err)
		}

		summary, err := svc.Summarize(user.ID, TransactionFilter{})
		testutil.AssertNoError(t, err)

		if summary.TotalIncome != 8000 {
			t.Errorf("expected income 8000, got %d", summary.TotalIncome)
		}
		if summary.TotalExpenses != 1500 {
			t.Errorf("expected expenses 1500, got %d", summary.TotalExpenses)
		}
		if summary.Balance != summary.TotalIncome-summary.TotalExpenses {
			t.Errorf("balance identity broken: %d != %d - %d", summary.Balance, summary.TotalIncome, summary.TotalExpenses)
		}
	})

	t.Run("empty_set_is_all_zero", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)
		user := testutil.CreateTestUser(t, db)

		summary, err := svc.Summarize(user.ID, TransactionFilter{})
		testutil.AssertNoError(t, err)

		if summary.TotalIncome != 0 || summary.TotalExpenses != 0 || summary.Balance != 0 {
			t.Errorf("expected all zero, got %+v", summary)
		}
	})

	t.Run("respects_filters", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		txSvc := NewTransactionService(db, NewBankAccountService(db))
		svc := NewReportService(db)
		user := testutil.CreateTestUser(t, db)

		march := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
		april := time.Date(2025, time.April, 10, 0, 0, 0, 0, time.UTC)
		for _, d := range []time.Time{march, april} {
			_, err := txSvc.CreateTransaction(user.ID, TransactionFields{
				Description: "Show fee",
				Amount:      1000,
				Date:        d,
				Type:        models.TransactionTypeIncome,
			})
			testutil.AssertNoError(t, err)
		}

		month, year := 3, 2025
		summary, err := svc.Summarize(user.ID, TransactionFilter{Month: &month, Year: &year})
		testutil.AssertNoError(t, err)
		if summary.TotalIncome != 1000 {
			t.Errorf("expected only the March income, got %d", summary.TotalIncome)
		}
	})
}

func TestGroupByCategory(t *testing.T) {
	t.Run("sums_expenses_per_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		txSvc := NewTransactionService(db, NewBankAccountService(db))
		svc := NewReportService(db)
		user := testutil.CreateTestUser(t, db)
		gear := testutil.CreateTestCategory(t, db, user.ID)
		travel := testutil.CreateTestCategory(t, db, user.ID)

		entries := []struct {
			category *string
			amount   int64
		}{
			{&gear.ID, 4000},
			{&gear.ID, 1000},
			{&travel.ID, 2000},
			{nil, 9000}, // uncategorized, must be excluded
		}
		for _, e := range entries {
			_, err := txSvc.CreateTransaction(user.ID, TransactionFields{
				Description: "Expense",
				Amount:      e.amount,
				Type:        models.TransactionTypeExpense,
				CategoryID:  e.category,
			})
			testutil.AssertNoError(t, err)
		}

		// Income never shows up in the category report.
		_, err := txSvc.CreateTransaction(user.ID, TransactionFields{
			Description: "Show fee",
			Amount:      100000,
			Type:        models.TransactionTypeIncome,
		})
		testutil.AssertNoError(t, err)

		totals, err := svc.GroupByCategory(user.ID, TransactionFilter{})
		testutil.AssertNoError(t, err)

		if len(totals) != 2 {
			t.Fatalf("expected 2 categories, got %d", len(totals))
		}
		if totals[0].Category != gear.Name || totals[0].Total != 5000 {
			t.Errorf("expected %s with 5000 first, got %s with %d", gear.Name, totals[0].Category, totals[0].Total)
		}
		if totals[1].Category != travel.Name || totals[1].Total != 2000 {
			t.Errorf("expected %s with 2000 second, got %s with %d", travel.Name, totals[1].Category, totals[1].Total)
		}
	})

	t.Run("empty_result_is_not_nil", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)
		user := testutil.CreateTestUser(t, db)

		totals, err := svc.GroupByCategory(user.ID, TransactionFilter{})
		testutil.AssertNoError(t, err)
		if totals == nil {
			t.Fatal("expected empty slice, got nil")
		}
		if len(totals) != 0 {
			t.Errorf("expected no totals, got %d", len(totals))
		}
	})
}

func TestGroupByMonth(t *testing.T) {
	t.Run("always_twelve_buckets", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)
		user := testutil.CreateTestUser(t, db)

		totals, err := svc.GroupByMonth(user.ID, nil)
		testutil.AssertNoError(t, err)

		if len(totals) != 12 {
			t.Fatalf("expected 12 buckets, got %d", len(totals))
		}
		if totals[0].Month != time.January || totals[11].Month != time.December {
			t.Error("expected buckets ordered January through December")
		}
	})

	t.Run("multiple_years_fold_into_same_buckets", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		txSvc := NewTransactionService(db, NewBankAccountService(db))
		svc := NewReportService(db)
		user := testutil.CreateTestUser(t, db)

		for _, year := range []int{2024, 2025} {
			_, err := txSvc.CreateTransaction(user.ID, TransactionFields{
				Description: "Show fee",
				Amount:      1000,
				Date:        time.Date(year, time.June, 15, 0, 0, 0, 0, time.UTC),
				Type:        models.TransactionTypeIncome,
			})
			testutil.AssertNoError(t, err)
		}

		totals, err := svc.GroupByMonth(user.ID, nil)
		testutil.AssertNoError(t, err)
		if totals[5].Income != 2000 {
			t.Errorf("expected June bucket to sum both years to 2000, got %d", totals[5].Income)
		}

		year := 2025
		totals, err = svc.GroupByMonth(user.ID, &year)
		testutil.AssertNoError(t, err)
		if totals[5].Income != 1000 {
			t.Errorf("expected June bucket restricted to 2025 at 1000, got %d", totals[5].Income)
		}
	})

	t.Run("income_and_expense_tracked_separately", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		txSvc := NewTransactionService(db, NewBankAccountService(db))
		svc := NewReportService(db)
		user := testutil.CreateTestUser(t, db)

		date := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
		_, err := txSvc.CreateTransaction(user.ID, TransactionFields{
			Description: "Show fee", Amount: 3000, Date: date, Type: models.TransactionTypeIncome,
		})
		testutil.AssertNoError(t, err)
		_, err = txSvc.CreateTransaction(user.ID, TransactionFields{
			Description: "Gear", Amount: 1000, Date: date, Type: models.TransactionTypeExpense,
		})
		testutil.AssertNoError(t, err)

		totals, err := svc.GroupByMonth(user.ID, nil)
		testutil.AssertNoError(t, err)
		if totals[1].Income != 3000 || totals[1].Expense != 1000 {
			t.Errorf("expected February at income 3000 / expense 1000, got %d / %d", totals[1].Income, totals[1].Expense)
		}
	})
}

func TestBuildReport(t *testing.T) {
	t.Run("rows_and_footer_totals", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		txSvc := NewTransactionService(db, NewBankAccountService(db))
		svc := NewReportService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := txSvc.CreateTransaction(user.ID, TransactionFields{
			Description: "Show fee", Amount: 150050, Type: models.TransactionTypeIncome,
		})
		testutil.AssertNoError(t, err)
		_, err = txSvc.CreateTransaction(user.ID, TransactionFields{
			Description: "Strings", Amount: 2599, Type: models.TransactionTypeExpense,
		})
		testutil.AssertNoError(t, err)

		report, err := svc.BuildReport(user.ID, TransactionFilter{})
		testutil.AssertNoError(t, err)

		if len(report.Headers) != 6 {
			t.Errorf("expected 6 header columns, got %d", len(report.Headers))
		}
		if len(report.Body) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(report.Body))
		}
		if report.Footer[0] != "Income: 1500.50" {
			t.Errorf("unexpected income footer: %q", report.Footer[0])
		}
		if report.Footer[1] != "Expenses: 25.99" {
			t.Errorf("unexpected expenses footer: %q", report.Footer[1])
		}
		if report.Footer[2] != "Balance: 1474.51" {
			t.Errorf("unexpected balance footer: %q", report.Footer[2])
		}
	})
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{150050, "1500.50"},
		{-2599, "-25.99"},
	}
	for _, c := range cases {
		if got := FormatAmount(c.cents); got != c.want {
			t.Errorf("FormatAmount(%d) = %q, want %q", c.cents, got, c.want)
		}
	}
}
