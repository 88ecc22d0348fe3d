package models

import (
	"time"

	"gorm.io/gorm"
)

// Campaign statuses. The dispatcher owns every transition out of
// StatusSending; the crash-recovery hook owns sending -> paused at startup.
const (
	CampaignStatusDraft          = "draft"
	CampaignStatusReviewing      = "reviewing"
	CampaignStatusSending        = "sending"
	CampaignStatusSent           = "sent"
	CampaignStatusPaused         = "paused"
	CampaignStatusResumeTomorrow = "resume_tomorrow"
)

// Campaign channels.
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

// Recipient statuses. A recipient moves pending -> sent|failed exactly once
// per dispatcher run; excluded recipients are never touched by the dispatcher.
const (
	RecipientStatusPending   = "pending"
	RecipientStatusSent      = "sent"
	RecipientStatusFailed    = "failed"
	RecipientStatusExcluded  = "excluded"
	RecipientStatusGenerated = "generated"
)

// Campaign is one bulk send of a template to a set of recipients.
type Campaign struct {
	gorm.Model
	UserID     uint  `gorm:"not null;index" json:"user_id"`
	TemplateID *uint `gorm:"index" json:"template_id"`

	Channel string `gorm:"not null" json:"channel"`                   // email, sms
	Status  string `gorm:"default:'draft';index" json:"status"`

	// Denormalized counters. Invariant: SentCount + FailedCount <= TotalCount.
	// TotalCount only changes via recipient exclude/include, never by the
	// dispatcher.
	TotalCount  int `gorm:"default:0" json:"total_count"`
	SentCount   int `gorm:"default:0" json:"sent_count"`
	FailedCount int `gorm:"default:0" json:"failed_count"`

	// Optional per-campaign cap; effective daily cap is
	// min(provider limit, DailyLimit) when set.
	DailyLimit *int `json:"daily_limit"`

	SentAt *time.Time `json:"sent_at"`

	// Relations
	User       User                `json:"-"`
	Template   *Template           `json:"template,omitempty"`
	Recipients []CampaignRecipient `gorm:"foreignKey:CampaignID" json:"recipients,omitempty"`
}

// CampaignRecipient is one (campaign, contact) pairing with its own send
// status. Subject and body are rendered at campaign-creation time; the
// dispatcher only reads them.
type CampaignRecipient struct {
	gorm.Model
	CampaignID uint `gorm:"not null;index" json:"campaign_id"`
	ContactID  uint `gorm:"not null;index" json:"contact_id"`

	Status          string `gorm:"default:'pending';index" json:"status"`
	RenderedSubject string `json:"rendered_subject"`
	RenderedBody    string `json:"rendered_body"`

	ErrorMessage string     `json:"error_message"`
	SentAt       *time.Time `json:"sent_at"`

	// Relations
	Campaign Campaign `json:"-"`
	Contact  Contact  `json:"contact,omitempty"`
}

// Template is a reusable message body with {{placeholder}} variables.
type Template struct {
	gorm.Model
	UserID uint `gorm:"not null;index" json:"user_id"`

	Name            string `gorm:"not null" json:"name"`
	Channel         string `gorm:"default:'email'" json:"channel"`
	SubjectTemplate string `json:"subject_template"`
	BodyTemplate    string `gorm:"not null" json:"body_template"`
}
