package models

import "time"

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// PaymentMethod represents how a payment was made
type PaymentMethod string

const (
	PaymentMethodPix          PaymentMethod = "pix"
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
)

// Transaction represents a financial transaction. Amount is always a
// positive magnitude in cents; the sign of its effect on a bank account
// balance is derived from Type, never stored.
type Transaction struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Description string          `gorm:"not null" json:"description"`
	Amount      int64           `gorm:"type:bigint;not null" json:"amount"`
	Date        time.Time       `gorm:"not null" json:"date"`
	Type        TransactionType `gorm:"not null" json:"type"`

	// Category is only meaningful for expense transactions.
	CategoryID *string `gorm:"type:uuid" json:"category_id,omitempty"`

	// Set when the transaction has settled against a bank account.
	BankAccountID *string    `gorm:"type:uuid;index" json:"bank_account_id,omitempty"`
	IsTransferred bool       `gorm:"default:false" json:"is_transferred"`
	TransferDate  *time.Time `json:"transfer_date,omitempty"`

	PaymentMethod PaymentMethod `json:"payment_method,omitempty"`
	PixKey        string        `json:"pix_key,omitempty"`
	PaidTo        string        `json:"paid_to,omitempty"`
	ContractorID  *string       `gorm:"type:uuid" json:"contractor_id,omitempty"`

	// Set when the transaction was created by transferring an event's value.
	SourceEventID *string `gorm:"type:uuid;index" json:"source_event_id,omitempty"`

	// Relationships
	Category    *Category    `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	BankAccount *BankAccount `gorm:"foreignKey:BankAccountID" json:"bank_account,omitempty"`
	Contractor  *Contractor  `gorm:"foreignKey:ContractorID" json:"contractor,omitempty"`
	SourceEvent *Event       `gorm:"foreignKey:SourceEventID" json:"source_event,omitempty"`
}

// SignedAmount returns the transaction's effect on a bank account balance:
// positive for income, negative for expense.
func (t *Transaction) SignedAmount() int64 {
	if t.Type == TransactionTypeExpense {
		return -t.Amount
	}
	return t.Amount
}
