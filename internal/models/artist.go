package models

// Artist represents a performer referenced by events.
type Artist struct {
	Base
	UserID  string `gorm:"type:uuid;not null;index" json:"user_id"`
	Name    string `gorm:"not null" json:"name"`
	Email   string `json:"email,omitempty"`
	Contact string `json:"contact,omitempty"`

	Events []Event `gorm:"foreignKey:ArtistID" json:"events,omitempty"`
}
