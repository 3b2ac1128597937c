package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"palco/internal/models"
	"palco/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// ReconcileResult reports a balance reconciliation for a single bank account.
// Repaired is true when the stored balance disagreed with the fold over the
// account's transactions and was overwritten with the computed value.
type ReconcileResult struct {
	AccountID       string `json:"account_id"`
	StoredBalance   int64  `json:"stored_balance"`
	ComputedBalance int64  `json:"computed_balance"`
	Repaired        bool   `json:"repaired"`
}

// BankAccountUpdateFields holds optional fields for updating a bank account.
// Nil pointers mean "leave unchanged".
type BankAccountUpdateFields struct {
	BankName      *string
	Agency        *string
	AccountNumber *string
	ImageURL      *string
	IsActive      *bool
}

// BankAccountServicer defines the contract for bank-account business logic.
type BankAccountServicer interface {
	CreateAccount(userID, bankName, agency, accountNumber, imageURL string, initialBalance int64) (*models.BankAccount, error)
	GetUserAccounts(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.BankAccount], error)
	GetAccountByID(userID, accountID string) (*models.BankAccount, error)
	UpdateAccount(userID, accountID string, fields BankAccountUpdateFields) (*models.BankAccount, error)
	DeleteAccount(userID, accountID string) error
	// ApplyBalanceDelta adjusts an account's stored balance inside the given
	// database transaction. Callers are responsible for deriving the sign.
	ApplyBalanceDelta(tx *gorm.DB, userID, accountID string, delta int64) error
	ReconcileAccount(userID, accountID string) (*ReconcileResult, error)
}

// MovementKind distinguishes direct account movements.
type MovementKind string

const (
	MovementDeposit    MovementKind = "deposit"
	MovementWithdrawal MovementKind = "withdrawal"
)

// TransactionFilter holds optional filter parameters for listing transactions.
// Month and Year take precedence over FromDate/ToDate when set.
type TransactionFilter struct {
	Description   *string
	Type          *models.TransactionType
	CategoryID    *string
	BankAccountID *string
	FromDate      *time.Time
	ToDate        *time.Time
	Month         *int // 1-12
	Year          *int
}

// TransactionFields holds the full set of inputs for creating a transaction.
type TransactionFields struct {
	Description   string
	Amount        int64
	Date          time.Time
	Type          models.TransactionType
	CategoryID    *string
	BankAccountID *string
	PaymentMethod models.PaymentMethod
	PixKey        string
	PaidTo        string
	ContractorID  *string
}

// TransactionUpdateFields holds optional fields for updating a transaction.
// Nil pointers mean "leave unchanged". CategoryID and BankAccountID are
// double pointers so callers can distinguish "unchanged" from "clear".
type TransactionUpdateFields struct {
	Description   *string
	Amount        *int64
	Date          *time.Time
	Type          *models.TransactionType
	CategoryID    **string
	BankAccountID **string
	PaymentMethod *models.PaymentMethod
	PixKey        *string
	PaidTo        *string
}

// TransactionServicer defines the contract for transaction and ledger logic.
type TransactionServicer interface {
	CreateTransaction(userID string, fields TransactionFields) (*models.Transaction, error)
	CreateMovement(userID, accountID string, kind MovementKind, amount int64, description string, method models.PaymentMethod, date time.Time) (*models.Transaction, error)
	GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetAccountTransactions(userID, accountID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID string, fields TransactionUpdateFields) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID string) error
}

// EventFilter holds optional filter parameters for listing events.
// A FromDate with no ToDate matches that exact day only.
type EventFilter struct {
	ArtistID     *string
	ContractorID *string
	IsDone       *bool
	IsPaid       *bool
	FromDate     *time.Time
	ToDate       *time.Time
}

// EventFields holds the full set of inputs for creating an event.
type EventFields struct {
	Date          time.Time
	StartTime     string
	ArtistID      *string
	ContractorID  *string
	Value         int64
	PaymentMethod models.PaymentMethod
	PixKey        string
	Observations  string
}

// EventUpdateFields holds optional fields for updating an event.
// Nil pointers mean "leave unchanged".
type EventUpdateFields struct {
	Date          *time.Time
	StartTime     *string
	ArtistID      **string
	ContractorID  **string
	Value         *int64
	IsDone        *bool
	IsPaid        *bool
	PaymentMethod *models.PaymentMethod
	PixKey        *string
	Observations  *string
}

// EventServicer defines the contract for event business logic.
type EventServicer interface {
	CreateEvent(userID string, fields EventFields) (*models.Event, error)
	GetUserEvents(userID string, page pagination.PageRequest, filter EventFilter) (*pagination.PageResponse[models.Event], error)
	GetEventByID(userID, eventID string) (*models.Event, error)
	UpdateEvent(userID, eventID string, fields EventUpdateFields) (*models.Event, error)
	DeleteEvent(userID, eventID string) error
	// TransferEventValue marks the event transferred and credits its value to
	// the target account, creating the linked income transaction atomically.
	TransferEventValue(userID, eventID, accountID string) (*models.Event, *models.Transaction, error)
}

// CategoryServicer defines the contract for expense-category business logic.
type CategoryServicer interface {
	CreateCategory(userID, name, description string) (*models.Category, error)
	GetUserCategories(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(userID, categoryID string) (*models.Category, error)
	UpdateCategory(userID, categoryID, name, description string) (*models.Category, error)
	DeleteCategory(userID, categoryID string) error
}

// ArtistServicer defines the contract for artist business logic.
type ArtistServicer interface {
	CreateArtist(userID, name, email, contact string) (*models.Artist, error)
	GetUserArtists(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Artist], error)
	GetArtistByID(userID, artistID string) (*models.Artist, error)
	UpdateArtist(userID, artistID, name, email, contact string) (*models.Artist, error)
	DeleteArtist(userID, artistID string) error
}

// ContractorServicer defines the contract for contractor business logic.
type ContractorServicer interface {
	CreateContractor(userID, name, email, contact string) (*models.Contractor, error)
	GetUserContractors(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Contractor], error)
	GetContractorByID(userID, contractorID string) (*models.Contractor, error)
	UpdateContractor(userID, contractorID, name, email, contact string) (*models.Contractor, error)
	DeleteContractor(userID, contractorID string) error
}

// Summary contains aggregated income/expense totals.
// Balance always equals TotalIncome - TotalExpenses.
type Summary struct {
	TotalIncome   int64 `json:"total_income"`
	TotalExpenses int64 `json:"total_expenses"`
	Balance       int64 `json:"balance"`
}

// CategoryTotal contains the summed expense amount for one category.
type CategoryTotal struct {
	Category string `json:"category"`
	Total    int64  `json:"total"`
}

// MonthTotal contains income/expense sums for one calendar month.
type MonthTotal struct {
	Month   time.Month `json:"month"`
	Income  int64      `json:"income"`
	Expense int64      `json:"expense"`
}

// Report is a display-ready tabular document.
type Report struct {
	Headers []string   `json:"headers"`
	Body    [][]string `json:"body"`
	Footer  []string   `json:"footer"`
}

// ReportServicer defines the contract for aggregation and reporting.
type ReportServicer interface {
	Summarize(userID string, filter TransactionFilter) (*Summary, error)
	GroupByCategory(userID string, filter TransactionFilter) ([]CategoryTotal, error)
	GroupByMonth(userID string, year *int) ([]MonthTotal, error)
	BuildReport(userID string, filter TransactionFilter) (*Report, error)
}

// EventInsightInput carries the event facts sent to the insight model.
type EventInsightInput struct {
	Date               string
	StartTime          string
	Artist             string
	Contractor         string
	Value              int64
	HistoricalFeedback string
}

// InsightServicer defines the contract for AI-generated event suggestions.
type InsightServicer interface {
	GenerateEventInsight(ctx context.Context, input EventInsightInput) (string, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
