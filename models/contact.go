package models

import (
	"gorm.io/gorm"
)

// Contact is an address-book entry owned by a user.
type Contact struct {
	gorm.Model
	UserID uint `gorm:"not null;index" json:"user_id"`

	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `gorm:"index" json:"email"`
	Phone     string `json:"phone"`

	Company string `json:"company"`
	Notes   string `json:"notes"`

	// Relations
	User User `json:"-"`
}

// FullName joins the first and last name, skipping empty parts.
func (c *Contact) FullName() string {
	if c.FirstName == "" {
		return c.LastName
	}
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// ContactMatch records a match candidate between an imported contact and an
// existing one, produced by the match engine and confirmed (or not) by a user.
type ContactMatch struct {
	gorm.Model
	UserID uint `gorm:"not null;index" json:"user_id"`

	ImportedContactID uint `gorm:"not null;index" json:"imported_contact_id"`
	MatchedContactID  uint `gorm:"not null;index" json:"matched_contact_id"`

	Confidence int    `gorm:"not null" json:"confidence"`
	MatchType  string `gorm:"not null" json:"match_type"` // exact, normalized, initial, fuzzy
	Confirmed  bool   `gorm:"default:false" json:"confirmed"`
}
