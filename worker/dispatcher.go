package worker

import (
	"errors"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"

	"outreachly/models"
)

// Invocation-level failures. Both are raised before any state mutation;
// the caller decides user-facing messaging.
var (
	ErrConcurrentSend     = errors.New("another campaign is already sending for this sender")
	ErrMissingCredentials = errors.New("SMTP credentials are not configured")
)

// Mailer is the mail-sending capability the dispatcher drives. Close must be
// safe even after a mid-loop failure.
type Mailer interface {
	Send(from, to, subject, body string) error
	Close() error
}

// DialFunc opens a Mailer with the user's SMTP credentials.
type DialFunc func(user *models.User) (Mailer, error)

// SenderConfig carries the per-provider sending constraints for one user.
type SenderConfig struct {
	DailyLimit int
	SendDelay  time.Duration
}

// ConfigFunc looks up the sending constraints for a user. Implementations
// must return conservative defaults when the provider is unknown.
type ConfigFunc func(user *models.User) SenderConfig

// CampaignStore is the slice of storage the dispatcher needs. The store is
// the single source of truth for campaign and recipient state; the status
// re-read each iteration is the cooperative pause contract.
type CampaignStore interface {
	// CampaignStatus re-reads the current status from storage.
	CampaignStatus(campaignID uint) (string, error)
	SetCampaignStatus(campaignID uint, status string) error
	// MarkCampaignSent sets the terminal status and completion timestamp.
	MarkCampaignSent(campaignID uint) error
	SetSentCount(campaignID uint, sent int) error
	SetFailedCount(campaignID uint, failed int) error

	// PendingRecipients returns the campaign's pending recipients in stable
	// id order, with contact email populated.
	PendingRecipients(campaignID uint) ([]models.CampaignRecipient, error)
	// CountActiveRecipients counts recipients not excluded.
	CountActiveRecipients(campaignID uint) (int, error)
	MarkRecipientSent(recipientID uint) error
	MarkRecipientFailed(recipientID uint, errMsg string) error

	// HasOtherSending reports whether another campaign of the same user is
	// currently in the sending state.
	HasOtherSending(userID, campaignID uint) (bool, error)
}

// Dispatcher walks a campaign's pending recipients sequentially, enforcing
// the sender's daily quota and inter-send delay, persisting each outcome and
// emitting progress events. One Dispatcher serves all campaigns.
type Dispatcher struct {
	Store  CampaignStore
	Quota  QuotaTracker
	Dial   DialFunc
	Config ConfigFunc
	Logger *logrus.Entry

	// sleep is replaceable in tests.
	sleep func(time.Duration)
}

func NewDispatcher(store CampaignStore, quota QuotaTracker, dial DialFunc, config ConfigFunc, logger *logrus.Entry) *Dispatcher {
	return &Dispatcher{
		Store:  store,
		Quota:  quota,
		Dial:   dial,
		Config: config,
		Logger: logger,
		sleep:  time.Sleep,
	}
}

// Validate runs the entry guards without mutating anything. Run performs the
// same checks; callers that dispatch in a goroutine use Validate first so
// invocation errors surface synchronously.
func (d *Dispatcher) Validate(campaign *models.Campaign, user *models.User) error {
	busy, err := d.Store.HasOtherSending(user.ID, campaign.ID)
	if err != nil {
		return err
	}
	if busy {
		return ErrConcurrentSend
	}
	if !user.HasSMTPCredentials() {
		return ErrMissingCredentials
	}
	return nil
}

// Run executes the send loop for one campaign. It accepts campaigns in the
// reviewing, paused or resume_tomorrow states and processes exactly the
// still-pending recipients, in id order. Recipients already sent or failed
// are never touched again.
//
// The final progress event always has Done set; if the loop failed
// unexpectedly it also carries the error, so a consumer can distinguish
// completed, parked and errored outcomes.
func (d *Dispatcher) Run(campaign *models.Campaign, user *models.User, emit Sink) error {
	if err := d.Validate(campaign, user); err != nil {
		return err
	}

	mailer, err := d.Dial(user)
	if err != nil {
		return err
	}

	if err := d.Store.SetCampaignStatus(campaign.ID, models.CampaignStatusSending); err != nil {
		mailer.Close()
		return err
	}

	sent := campaign.SentCount
	failed := campaign.FailedCount
	rateLimitHit := false

	total, runErr := d.Store.CountActiveRecipients(campaign.ID)
	if runErr == nil {
		runErr = d.sendPending(campaign, user, mailer, emit, &sent, &failed, total, &rateLimitHit)
	}

	if closeErr := mailer.Close(); closeErr != nil {
		d.Logger.WithError(closeErr).Warn("failed to close mail transport")
	}

	final := Progress{Sent: sent, Failed: failed, Total: total, Done: true, RateLimitHit: rateLimitHit}
	if runErr != nil {
		d.Logger.WithError(runErr).WithField("campaign_id", campaign.ID).Error("campaign run aborted")
		sentry.CaptureException(runErr)
		final.Error = runErr.Error()
	}
	d.emit(emit, final)

	return runErr
}

func (d *Dispatcher) sendPending(campaign *models.Campaign, user *models.User, mailer Mailer, emit Sink, sent, failed *int, total int, rateLimitHit *bool) error {
	recipients, err := d.Store.PendingRecipients(campaign.ID)
	if err != nil {
		return err
	}

	cfg := d.Config(user)
	dailyLimit := cfg.DailyLimit
	if campaign.DailyLimit != nil && *campaign.DailyLimit < dailyLimit {
		dailyLimit = *campaign.DailyLimit
	}
	warnThreshold := dailyLimit * 8 / 10

	for i, recipient := range recipients {
		// Cooperative pause: the status re-read between sends is the only
		// cancellation point; an in-flight send is allowed to finish.
		status, err := d.Store.CampaignStatus(campaign.ID)
		if err != nil {
			return err
		}
		if status == models.CampaignStatusPaused {
			d.Logger.WithField("campaign_id", campaign.ID).Info("campaign paused externally, stopping")
			return nil
		}

		count := d.Quota.Count(user.ID)
		if count >= dailyLimit {
			*rateLimitHit = true
			if err := d.Store.SetCampaignStatus(campaign.ID, models.CampaignStatusResumeTomorrow); err != nil {
				return err
			}
			d.emit(emit, Progress{Sent: *sent, Failed: *failed, Total: total, RateLimitHit: true})
			d.Logger.WithFields(logrus.Fields{
				"campaign_id": campaign.ID,
				"daily_limit": dailyLimit,
			}).Info("daily quota exhausted, parking campaign until tomorrow")
			return nil
		}
		approaching := count >= warnThreshold

		subject := recipient.RenderedSubject
		if campaign.Channel == models.ChannelEmail && subject == "" {
			subject = "(No subject)"
		}

		if sendErr := mailer.Send(user.SMTPEmail, recipient.Contact.Email, subject, recipient.RenderedBody); sendErr != nil {
			// Per-recipient failures are absorbed: recorded, counted,
			// surfaced on the stream, and the loop moves on.
			if err := d.Store.MarkRecipientFailed(recipient.ID, sendErr.Error()); err != nil {
				return err
			}
			*failed++
			if err := d.Store.SetFailedCount(campaign.ID, *failed); err != nil {
				return err
			}
			d.emit(emit, Progress{
				Sent: *sent, Failed: *failed, Total: total,
				RecipientID: recipient.ID,
				ContactID:   recipient.ContactID,
				Status:      models.RecipientStatusFailed,
				Error:       sendErr.Error(),
				Approaching: approaching,
			})
		} else {
			if err := d.Store.MarkRecipientSent(recipient.ID); err != nil {
				return err
			}
			*sent++
			d.Quota.Increment(user.ID)
			if err := d.Store.SetSentCount(campaign.ID, *sent); err != nil {
				return err
			}
			d.emit(emit, Progress{
				Sent: *sent, Failed: *failed, Total: total,
				RecipientID: recipient.ID,
				ContactID:   recipient.ContactID,
				Status:      models.RecipientStatusSent,
				Approaching: approaching,
			})
		}

		if i < len(recipients)-1 && cfg.SendDelay > 0 {
			d.sleep(cfg.SendDelay)
		}
	}

	// Normal exit: only finalize if nothing flipped the status meanwhile.
	status, err := d.Store.CampaignStatus(campaign.ID)
	if err != nil {
		return err
	}
	if status == models.CampaignStatusSending {
		return d.Store.MarkCampaignSent(campaign.ID)
	}
	return nil
}

// emit delivers best-effort: a panicking sink (websocket consumer gone) must
// never take down the run.
func (d *Dispatcher) emit(sink Sink, p Progress) {
	if sink == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			d.Logger.WithField("panic", r).Debug("progress sink panicked, dropping event")
		}
	}()
	sink(p)
}
