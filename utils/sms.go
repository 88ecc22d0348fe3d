package utils

import (
	"net/url"
	"strings"
)

// SMSBatchEntry is one prepared text message: normalized phone plus a dialer
// deep link the client opens to send it. No network I/O happens here; SMS
// sending is done from the user's own device.
type SMSBatchEntry struct {
	ContactID    uint   `json:"contact_id"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	DisplayPhone string `json:"display_phone"`
	Body         string `json:"body"`
	DeepLink     string `json:"deep_link"`
}

// SMSRecipient is the input shape for the batch builder.
type SMSRecipient struct {
	ContactID uint
	FirstName string
	LastName  string
	Phone     string
	Body      string
}

// NormalizePhone reduces a phone number to E.164 for NANP numbers. Returns ""
// when the number cannot be normalized.
func NormalizePhone(phone string) string {
	if phone == "" {
		return ""
	}
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	switch {
	case len(d) == 10:
		return "+1" + d
	case len(d) == 11 && d[0] == '1':
		return "+" + d
	}
	return ""
}

// SMSDeepLink builds an sms: dialer link for a phone and message body.
// Returns "" when the phone cannot be normalized.
func SMSDeepLink(phone, body string) string {
	normalized := NormalizePhone(phone)
	if normalized == "" {
		return ""
	}
	return "sms:" + normalized + "&body=" + escapeBody(body)
}

// escapeBody percent-encodes the message body for the deep link. Spaces are
// %20, not +; dialers do not decode form encoding.
func escapeBody(body string) string {
	return strings.ReplaceAll(url.QueryEscape(body), "+", "%20")
}

// BuildSMSBatch prepares deep links for a recipient list, skipping entries
// whose phone numbers cannot be normalized.
func BuildSMSBatch(recipients []SMSRecipient) []SMSBatchEntry {
	entries := make([]SMSBatchEntry, 0, len(recipients))
	for _, r := range recipients {
		normalized := NormalizePhone(r.Phone)
		if normalized == "" {
			continue
		}
		name := strings.TrimSpace(r.FirstName + " " + r.LastName)
		if name == "" {
			name = "Unknown"
		}
		entries = append(entries, SMSBatchEntry{
			ContactID:    r.ContactID,
			Name:         name,
			Phone:        normalized,
			DisplayPhone: normalized,
			Body:         r.Body,
			DeepLink:     "sms:" + normalized + "&body=" + escapeBody(r.Body),
		})
	}
	return entries
}
