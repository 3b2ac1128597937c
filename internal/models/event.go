package models

import "time"

// Event represents a booked performance (a show) and its payment lifecycle.
// Once transferred, the event's value has been credited to a bank account
// and exactly one income Transaction carries this event as its source.
type Event struct {
	Base
	UserID       string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Date         time.Time `gorm:"not null" json:"date"`
	StartTime    string    `gorm:"size:5" json:"start_time,omitempty"` // HH:MM
	ArtistID     *string   `gorm:"type:uuid" json:"artist_id,omitempty"`
	ContractorID *string   `gorm:"type:uuid" json:"contractor_id,omitempty"`
	Value        int64     `gorm:"type:bigint;not null" json:"value"`

	IsDone bool `gorm:"default:false" json:"is_done"`
	IsPaid bool `gorm:"default:false" json:"is_paid"`

	IsTransferred              bool       `gorm:"default:false" json:"is_transferred"`
	TransferredToBankAccountID *string    `gorm:"type:uuid" json:"transferred_to_bank_account_id,omitempty"`
	TransferDate               *time.Time `json:"transfer_date,omitempty"`

	PaymentMethod PaymentMethod `json:"payment_method,omitempty"`
	PixKey        string        `json:"pix_key,omitempty"`
	Observations  string        `json:"observations,omitempty"`

	// Relationships
	Artist                   *Artist      `gorm:"foreignKey:ArtistID" json:"artist,omitempty"`
	Contractor               *Contractor  `gorm:"foreignKey:ContractorID" json:"contractor,omitempty"`
	TransferredToBankAccount *BankAccount `gorm:"foreignKey:TransferredToBankAccountID" json:"transferred_to_bank_account,omitempty"`
}
