package handlers

import (
	"encoding/csv"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "palco/internal/errors"
	"palco/internal/services"
)

// ReportHandler handles aggregation and reporting requests.
type ReportHandler struct {
	reportService services.ReportServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GetSummary returns aggregated income/expense totals
// @Summary     Get financial summary
// @Description Get total income, total expenses, and balance over the filtered transaction set. Balance always equals income minus expenses.
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       description     query string false "Filter by description substring (case-insensitive)"
// @Param       type            query string false "Filter by transaction type (income, expense)"
// @Param       category_id     query string false "Filter by category ID (applies only together with type)"
// @Param       bank_account_id query string false "Filter by bank account ID"
// @Param       from_date       query string false "Filter by start date (RFC3339 or YYYY-MM-DD)"
// @Param       to_date         query string false "Filter by end date (RFC3339 or YYYY-MM-DD)"
// @Param       month           query int    false "Filter by calendar month (1-12)"
// @Param       year            query int    false "Filter by year"
// @Success     200 {object} services.Summary "Aggregated totals"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/summary [get]
func (h *ReportHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.reportService.Summarize(userID, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// GetByCategory returns expense totals grouped by category
// @Summary     Get expenses by category
// @Description Get summed expense amounts grouped by category, ordered by total descending. Uncategorized transactions are excluded.
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       from_date query string false "Filter by start date (RFC3339 or YYYY-MM-DD)"
// @Param       to_date   query string false "Filter by end date (RFC3339 or YYYY-MM-DD)"
// @Param       month     query int    false "Filter by calendar month (1-12)"
// @Param       year      query int    false "Filter by year"
// @Success     200 {array} services.CategoryTotal "Per-category totals"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/by-category [get]
func (h *ReportHandler) GetByCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	totals, err := h.reportService.GroupByCategory(userID, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": totals})
}

// GetMonthly returns income/expense totals per calendar month
// @Summary     Get monthly totals
// @Description Get income and expense sums for each of the twelve calendar months. Without a year filter, all years are summed into the same month buckets.
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       year query int false "Restrict to a single year"
// @Success     200 {array} services.MonthTotal "Twelve month buckets, January through December"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/monthly [get]
func (h *ReportHandler) GetMonthly(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var year *int
	if v := c.Query("year"); v != "" {
		y, parseErr := strconv.Atoi(v)
		if parseErr != nil || y < 1900 || y > 9999 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid year"))
			return
		}
		year = &y
	}

	months, err := h.reportService.GroupByMonth(userID, year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"months": months})
}

// ExportReport builds a display-ready transaction report
// @Summary     Export transaction report
// @Description Build a tabular report over the filtered transaction set, with per-row details and footer totals. Use format=csv for a CSV download.
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       format          query string false "Output format (json or csv, default json)"
// @Param       description     query string false "Filter by description substring (case-insensitive)"
// @Param       type            query string false "Filter by transaction type (income, expense)"
// @Param       category_id     query string false "Filter by category ID (applies only together with type)"
// @Param       bank_account_id query string false "Filter by bank account ID"
// @Param       from_date       query string false "Filter by start date (RFC3339 or YYYY-MM-DD)"
// @Param       to_date         query string false "Filter by end date (RFC3339 or YYYY-MM-DD)"
// @Param       month           query int    false "Filter by calendar month (1-12)"
// @Param       year            query int    false "Filter by year"
// @Success     200 {object} services.Report "Tabular report"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/export [get]
func (h *ReportHandler) ExportReport(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.reportService.BuildReport(userID, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if c.Query("format") == "csv" {
		writeReportCSV(c, report)
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}

func writeReportCSV(c *gin.Context, report *services.Report) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="transactions.csv"`)
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	rows := make([][]string, 0, len(report.Body)+2)
	rows = append(rows, report.Headers)
	rows = append(rows, report.Body...)
	if len(report.Footer) > 0 {
		rows = append(rows, report.Footer)
	}
	if err := w.WriteAll(rows); err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
	}
}
