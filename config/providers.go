package config

import (
	"strings"
	"time"

	"outreachly/models"
	"outreachly/worker"
)

// Provider describes an SMTP provider's connection defaults and sending
// constraints. Limits are deliberately conservative; exceeding a provider's
// real cap gets the account throttled or blocked.
type Provider struct {
	Host       string
	Port       int
	DailyLimit int
	SendDelay  time.Duration
}

var defaultProvider = Provider{
	Port:       587,
	DailyLimit: 300,
	SendDelay:  2 * time.Second,
}

var providers = map[string]Provider{
	"gmail": {
		Host:       "smtp.gmail.com",
		Port:       587,
		DailyLimit: 500,
		SendDelay:  2 * time.Second,
	},
	"outlook": {
		Host:       "smtp-mail.outlook.com",
		Port:       587,
		DailyLimit: 300,
		SendDelay:  3 * time.Second,
	},
	"yahoo": {
		Host:       "smtp.mail.yahoo.com",
		Port:       587,
		DailyLimit: 500,
		SendDelay:  2 * time.Second,
	},
	"zoho": {
		Host:       "smtp.zoho.com",
		Port:       587,
		DailyLimit: 250,
		SendDelay:  3 * time.Second,
	},
}

// ProviderFor returns the provider entry for a name, falling back to the
// conservative default for unknown or custom providers.
func ProviderFor(name string) Provider {
	if p, ok := providers[strings.ToLower(name)]; ok {
		return p
	}
	return defaultProvider
}

// SenderLimits is the dispatcher's sender-configuration lookup.
func SenderLimits(user *models.User) worker.SenderConfig {
	p := ProviderFor(user.SMTPProvider)
	return worker.SenderConfig{
		DailyLimit: p.DailyLimit,
		SendDelay:  p.SendDelay,
	}
}
