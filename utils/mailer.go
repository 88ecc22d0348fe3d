package utils

import (
	"crypto/tls"
	"fmt"

	"gopkg.in/gomail.v2"

	"outreachly/config"
	"outreachly/models"
)

// CampaignMailer holds one open SMTP connection for the duration of a
// campaign run, so the dispatcher does not handshake per recipient.
type CampaignMailer struct {
	from   string
	closer gomail.SendCloser
}

// DialCampaignMailer opens an SMTP connection using the user's stored
// credentials. The host and port fall back to the provider defaults when
// the user has not overridden them.
func DialCampaignMailer(user *models.User) (*CampaignMailer, error) {
	password, err := Decrypt(user.SMTPPasswordEncrypted)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt SMTP password: %w", err)
	}

	provider := config.ProviderFor(user.SMTPProvider)
	host := user.SMTPHost
	if host == "" {
		host = provider.Host
	}
	port := user.SMTPPort
	if port == 0 {
		port = provider.Port
	}

	dialer := gomail.NewDialer(host, port, user.SMTPEmail, password)
	dialer.TLSConfig = &tls.Config{ServerName: host}

	closer, err := dialer.Dial()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s:%d: %w", host, port, err)
	}

	return &CampaignMailer{from: user.SMTPEmail, closer: closer}, nil
}

func (cm *CampaignMailer) Send(from, to, subject, body string) error {
	if from == "" {
		from = cm.from
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	return gomail.Send(cm.closer, m)
}

func (cm *CampaignMailer) Close() error {
	return cm.closer.Close()
}

// TestSMTPConnection dials and immediately closes, verifying the stored
// credentials without sending anything.
func TestSMTPConnection(user *models.User) error {
	mailer, err := DialCampaignMailer(user)
	if err != nil {
		return err
	}
	return mailer.Close()
}
