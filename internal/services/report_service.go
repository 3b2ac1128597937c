package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "palco/internal/errors"
	"palco/internal/models"
)

// reportService derives display-ready aggregates from the transaction
// history. All queries are read-only; nothing here mutates stored state.
type reportService struct {
	db *gorm.DB
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB) ReportServicer {
	return &reportService{db: db}
}

// Summarize returns total income, total expenses, and their difference for
// the filtered set. The balance identity holds for any input, including an
// empty one (all zero).
func (s *reportService) Summarize(userID string, filter TransactionFilter) (*Summary, error) {
	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	base = applyTransactionFilters(base, filter)

	var row struct {
		TotalIncome   int64
		TotalExpenses int64
	}
	if err := base.
		Select(
			"COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) AS total_income, "+
				"COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) AS total_expenses",
			models.TransactionTypeIncome, models.TransactionTypeExpense,
		).
		Scan(&row).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &Summary{
		TotalIncome:   row.TotalIncome,
		TotalExpenses: row.TotalExpenses,
		Balance:       row.TotalIncome - row.TotalExpenses,
	}, nil
}

// GroupByCategory sums expense amounts per category name. Only expense
// transactions with a category are counted; uncategorized expenses are
// excluded rather than bucketed.
func (s *reportService) GroupByCategory(userID string, filter TransactionFilter) ([]CategoryTotal, error) {
	expense := models.TransactionTypeExpense
	filter.Type = &expense

	base := s.db.Model(&models.Transaction{}).
		Joins("JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.user_id = ? AND transactions.category_id IS NOT NULL", userID)
	base = applyTransactionFilters(base, filter)

	var totals []CategoryTotal
	if err := base.
		Select("categories.name AS category, SUM(transactions.amount) AS total").
		Group("categories.name").
		Order("total DESC").
		Scan(&totals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if totals == nil {
		totals = []CategoryTotal{}
	}
	return totals, nil
}

// GroupByMonth returns a fixed 12-entry January-to-December sequence of
// income/expense sums. With no year given, every year in the history is
// folded into the same 12 buckets.
func (s *reportService) GroupByMonth(userID string, year *int) ([]MonthTotal, error) {
	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	if year != nil {
		start := time.Date(*year, time.January, 1, 0, 0, 0, 0, time.UTC)
		base = base.Where("date >= ? AND date < ?", start, start.AddDate(1, 0, 0))
	}

	var rows []struct {
		Date   time.Time
		Type   models.TransactionType
		Amount int64
	}
	if err := base.Select("date, type, amount").Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	totals := make([]MonthTotal, 12)
	for i := range totals {
		totals[i].Month = time.Month(i + 1)
	}
	for _, r := range rows {
		i := int(r.Date.UTC().Month()) - 1
		switch r.Type {
		case models.TransactionTypeIncome:
			totals[i].Income += r.Amount
		case models.TransactionTypeExpense:
			totals[i].Expense += r.Amount
		}
	}

	return totals, nil
}

// reportHeaders is the column layout of the tabular report.
var reportHeaders = []string{"Date", "Description", "Type", "Category", "Bank account", "Amount"}

// BuildReport produces the display-ready {headers, body, footer} triple for
// the filtered transaction set. Rendering (PDF/print) is the caller's
// concern.
func (s *reportService) BuildReport(userID string, filter TransactionFilter) (*Report, error) {
	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	base = applyTransactionFilters(base, filter)

	var transactions []models.Transaction
	if err := base.Preload("Category").Preload("BankAccount").
		Order("date").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	body := make([][]string, 0, len(transactions))
	var totalIncome, totalExpenses int64
	for _, t := range transactions {
		category := ""
		if t.Category != nil {
			category = t.Category.Name
		}
		account := ""
		if t.BankAccount != nil {
			account = t.BankAccount.BankName
		}
		body = append(body, []string{
			t.Date.UTC().Format("2006-01-02"),
			t.Description,
			string(t.Type),
			category,
			account,
			FormatAmount(t.Amount),
		})

		switch t.Type {
		case models.TransactionTypeIncome:
			totalIncome += t.Amount
		case models.TransactionTypeExpense:
			totalExpenses += t.Amount
		}
	}

	footer := []string{
		"Income: " + FormatAmount(totalIncome),
		"Expenses: " + FormatAmount(totalExpenses),
		"Balance: " + FormatAmount(totalIncome-totalExpenses),
	}

	return &Report{
		Headers: reportHeaders,
		Body:    body,
		Footer:  footer,
	}, nil
}

// FormatAmount renders an amount in cents as a decimal string.
func FormatAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
