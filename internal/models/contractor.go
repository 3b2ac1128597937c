package models

// Contractor represents the party that hires a performance.
type Contractor struct {
	Base
	UserID  string `gorm:"type:uuid;not null;index" json:"user_id"`
	Name    string `gorm:"not null" json:"name"`
	Email   string `json:"email,omitempty"`
	Contact string `json:"contact,omitempty"`

	Events       []Event       `gorm:"foreignKey:ContractorID" json:"events,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:ContractorID" json:"transactions,omitempty"`
}
