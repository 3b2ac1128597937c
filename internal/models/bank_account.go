package models

// BankAccount represents a bank account holding a stored running balance.
// The balance is maintained incrementally by the ledger operations; every
// mutation of it happens in the same database transaction as the financial
// record that caused it.
type BankAccount struct {
	Base
	UserID        string `gorm:"type:uuid;not null;index" json:"user_id"`
	BankName      string `gorm:"not null" json:"bank_name"`
	Agency        string `json:"agency"`
	AccountNumber string `json:"account_number"`
	Balance       int64  `gorm:"type:bigint;not null;default:0" json:"balance"`
	ImageURL      string `json:"image_url,omitempty"`
	IsActive      bool   `gorm:"default:true" json:"is_active"`

	// Relationships
	Transactions []Transaction `gorm:"foreignKey:BankAccountID" json:"transactions,omitempty"`
}
