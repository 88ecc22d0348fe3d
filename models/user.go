package models

import (
	"gorm.io/gorm"
)

// User is an account in the system. A user is also the sender identity for
// campaigns: their SMTP credentials and daily quota are what the dispatcher
// consumes.
type User struct {
	gorm.Model

	// Authentication fields
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Name         string `json:"name"`
	Role         string `gorm:"default:'agent'" json:"role"` // agent, admin

	// Account status
	IsActive bool `gorm:"default:true" json:"is_active"`

	// SMTP sending configuration
	SMTPProvider          string `json:"smtp_provider"` // gmail, outlook, yahoo, custom
	SMTPHost              string `json:"smtp_host"`
	SMTPPort              int    `json:"smtp_port"`
	SMTPEmail             string `json:"smtp_email"`
	SMTPPasswordEncrypted string `json:"-"` // Encrypted in application layer

	// Relations
	Contacts  []Contact  `gorm:"foreignKey:UserID" json:"contacts,omitempty"`
	Templates []Template `gorm:"foreignKey:UserID" json:"templates,omitempty"`
	Campaigns []Campaign `gorm:"foreignKey:UserID" json:"campaigns,omitempty"`
}

// HasSMTPCredentials reports whether the account can be used to send mail.
func (u *User) HasSMTPCredentials() bool {
	return u.SMTPEmail != "" && u.SMTPPasswordEncrypted != ""
}
