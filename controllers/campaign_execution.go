package controller

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"outreachly/models"
	"outreachly/utils"
	"outreachly/worker"
)

// startableStatuses are the states a dispatch run may be entered from. The
// send loop itself re-validates; this is the route-level gate.
func startable(status string) bool {
	switch status {
	case models.CampaignStatusReviewing,
		models.CampaignStatusPaused,
		models.CampaignStatusResumeTomorrow:
		return true
	}
	return false
}

// StartCampaign kicks off the send. Email campaigns run asynchronously in a
// dispatcher goroutine with progress streamed through the hub; SMS campaigns
// have no server-side transport, so their recipients are marked generated and
// the deep-link batch is returned directly.
func (cc *CampaignController) StartCampaign(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	campaignID := utils.ParseUint(c.Params("id"))

	var campaign models.Campaign
	if err := cc.DB.Where("id = ? AND user_id = ?", campaignID, user.ID).First(&campaign).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found", nil)
	}

	if !startable(campaign.Status) {
		return utils.ErrorResponse(c, fiber.StatusConflict, "Campaign cannot be started from status "+campaign.Status, nil)
	}

	if campaign.Channel == models.ChannelSMS {
		return cc.generateSMSCampaign(c, &campaign)
	}

	return cc.dispatch(c, &campaign, user)
}

// ResumeCampaign restarts a parked campaign. Only the still-pending
// recipients are processed; sent and failed ones are never touched again.
func (cc *CampaignController) ResumeCampaign(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	campaignID := utils.ParseUint(c.Params("id"))

	var campaign models.Campaign
	if err := cc.DB.Where("id = ? AND user_id = ?", campaignID, user.ID).First(&campaign).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found", nil)
	}

	if campaign.Status != models.CampaignStatusPaused && campaign.Status != models.CampaignStatusResumeTomorrow {
		return utils.ErrorResponse(c, fiber.StatusConflict, "Campaign is not paused", nil)
	}

	if campaign.Channel == models.ChannelSMS {
		return cc.generateSMSCampaign(c, &campaign)
	}

	return cc.dispatch(c, &campaign, user)
}

// dispatch validates synchronously so invocation errors reach the client,
// then runs the send loop in the background.
func (cc *CampaignController) dispatch(c *fiber.Ctx, campaign *models.Campaign, user *models.User) error {
	if err := cc.Dispatcher.Validate(campaign, user); err != nil {
		switch {
		case errors.Is(err, worker.ErrConcurrentSend):
			return utils.ErrorResponse(c, fiber.StatusConflict, "Another campaign is already sending", nil)
		case errors.Is(err, worker.ErrMissingCredentials):
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "SMTP credentials are not configured", nil)
		default:
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to start campaign", err)
		}
	}

	sink := cc.Hub.Sink(campaign.ID)
	go func(campaign models.Campaign, user models.User) {
		if err := cc.Dispatcher.Run(&campaign, &user, sink); err != nil {
			cc.Logger.WithFields(logrus.Fields{
				"campaign_id": campaign.ID,
				"user_id":     user.ID,
			}).WithError(err).Error("campaign dispatch failed")
		}
	}(*campaign, *user)

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message":  "Campaign dispatch started",
		"campaign": campaign,
	})
}

// PauseCampaign flips a sending campaign to paused. The send loop notices on
// its next status poll; the in-flight send finishes first.
func (cc *CampaignController) PauseCampaign(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	campaignID := utils.ParseUint(c.Params("id"))

	var campaign models.Campaign
	if err := cc.DB.Where("id = ? AND user_id = ?", campaignID, user.ID).First(&campaign).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found", nil)
	}

	if campaign.Status != models.CampaignStatusSending {
		return utils.ErrorResponse(c, fiber.StatusConflict, "Campaign is not sending", nil)
	}

	if err := cc.DB.Model(&campaign).Update("status", models.CampaignStatusPaused).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to pause campaign", err)
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{
		"status": models.CampaignStatusPaused,
	}))
}

// RetryFailed moves a finished campaign's failed recipients back to pending
// so a new run can pick them up.
func (cc *CampaignController) RetryFailed(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	campaignID := utils.ParseUint(c.Params("id"))

	var campaign models.Campaign
	if err := cc.DB.Where("id = ? AND user_id = ?", campaignID, user.ID).First(&campaign).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found", nil)
	}

	if campaign.Status == models.CampaignStatusSending {
		return utils.ErrorResponse(c, fiber.StatusConflict, "Campaign is currently sending", nil)
	}

	tx := cc.DB.Begin()

	if err := tx.Model(&models.CampaignRecipient{}).
		Where("campaign_id = ? AND status = ?", campaign.ID, models.RecipientStatusFailed).
		Updates(map[string]interface{}{
			"status":        models.RecipientStatusPending,
			"error_message": "",
		}).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to reset recipients", err)
	}

	if err := tx.Model(&models.Campaign{}).Where("id = ?", campaign.ID).
		Updates(map[string]interface{}{
			"status":       models.CampaignStatusReviewing,
			"failed_count": 0,
			"sent_at":      nil,
		}).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update campaign", err)
	}

	tx.Commit()

	return c.JSON(utils.SuccessResponse(fiber.Map{
		"status": models.CampaignStatusReviewing,
	}))
}

// generateSMSCampaign marks the pending recipients generated and returns the
// sms: deep-link batch. Sending happens on the user's own device, so the
// campaign is complete from the server's point of view.
func (cc *CampaignController) generateSMSCampaign(c *fiber.Ctx, campaign *models.Campaign) error {
	var recipients []models.CampaignRecipient
	if err := cc.DB.Preload("Contact").
		Where("campaign_id = ? AND status = ?", campaign.ID, models.RecipientStatusPending).
		Order("id ASC").
		Find(&recipients).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load recipients", err)
	}

	smsRecipients := make([]utils.SMSRecipient, 0, len(recipients))
	for _, r := range recipients {
		smsRecipients = append(smsRecipients, utils.SMSRecipient{
			ContactID: r.ContactID,
			FirstName: r.Contact.FirstName,
			LastName:  r.Contact.LastName,
			Phone:     r.Contact.Phone,
			Body:      r.RenderedBody,
		})
	}
	batch := utils.BuildSMSBatch(smsRecipients)

	tx := cc.DB.Begin()

	if err := tx.Model(&models.CampaignRecipient{}).
		Where("campaign_id = ? AND status = ?", campaign.ID, models.RecipientStatusPending).
		Update("status", models.RecipientStatusGenerated).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update recipients", err)
	}

	now := time.Now()
	if err := tx.Model(&models.Campaign{}).Where("id = ?", campaign.ID).
		Updates(map[string]interface{}{
			"status":  models.CampaignStatusSent,
			"sent_at": now,
		}).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update campaign", err)
	}

	tx.Commit()

	return c.JSON(fiber.Map{
		"message": "SMS batch generated",
		"batch":   batch,
		"skipped": len(smsRecipients) - len(batch),
	})
}
