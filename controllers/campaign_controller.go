package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"outreachly/models"
	"outreachly/utils"
	"outreachly/worker"
)

type CampaignController struct {
	DB         *gorm.DB
	Logger     *logrus.Entry
	Hub        *worker.Hub
	Dispatcher *worker.Dispatcher
}

func NewCampaignController(db *gorm.DB, logger *logrus.Entry, hub *worker.Hub, dispatcher *worker.Dispatcher) *CampaignController {
	return &CampaignController{
		DB:         db,
		Logger:     logger,
		Hub:        hub,
		Dispatcher: dispatcher,
	}
}

type CreateCampaignRequest struct {
	TemplateID uint   `json:"template_id" validate:"required"`
	Channel    string `json:"channel" validate:"required,oneof=email sms"`
	ContactIDs []uint `json:"contact_ids" validate:"required,min=1"`
	DailyLimit *int   `json:"daily_limit" validate:"omitempty,min=1"`
}

// CreateCampaign builds a campaign with its recipients. Subject and body are
// rendered per contact at creation time; the send loop only reads them.
func (cc *CampaignController) CreateCampaign(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var req CreateCampaignRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var template models.Template
	if err := cc.DB.Where("id = ? AND user_id = ?", req.TemplateID, user.ID).First(&template).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Template not found", nil)
	}

	var contacts []models.Contact
	if err := cc.DB.Where("user_id = ? AND id IN ?", user.ID, req.ContactIDs).Find(&contacts).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load contacts", err)
	}
	if len(contacts) == 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "No matching contacts", nil)
	}

	// Start transaction
	tx := cc.DB.Begin()

	campaign := models.Campaign{
		UserID:     user.ID,
		TemplateID: &template.ID,
		Channel:    req.Channel,
		Status:     models.CampaignStatusReviewing,
		TotalCount: len(contacts),
		DailyLimit: req.DailyLimit,
	}

	if err := tx.Create(&campaign).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create campaign", err)
	}

	recipients := make([]models.CampaignRecipient, 0, len(contacts))
	for i := range contacts {
		contact := &contacts[i]
		recipients = append(recipients, models.CampaignRecipient{
			CampaignID:      campaign.ID,
			ContactID:       contact.ID,
			Status:          models.RecipientStatusPending,
			RenderedSubject: utils.RenderTemplate(template.SubjectTemplate, contact),
			RenderedBody:    utils.RenderTemplate(template.BodyTemplate, contact),
		})
	}

	if err := tx.Create(&recipients).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create recipients", err)
	}

	tx.Commit()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Campaign created successfully",
		"campaign": campaign,
	})
}

// GetCampaigns returns a page of the user's campaigns, newest first.
func (cc *CampaignController) GetCampaigns(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var total int64
	if err := cc.DB.Model(&models.Campaign{}).Where("user_id = ?", user.ID).Count(&total).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to count campaigns", err)
	}
	page := utils.NewPagination(c.QueryInt("page", 1), c.QueryInt("per_page", 25), 25, total)

	var campaigns []models.Campaign
	if err := cc.DB.Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Limit(page.PerPage).Offset(page.Offset()).
		Find(&campaigns).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch campaigns", err)
	}

	return c.JSON(fiber.Map{
		"campaigns":  campaigns,
		"pagination": page,
	})
}

// GetCampaign returns one campaign with a page of its recipients and their
// contacts, for the review screen.
func (cc *CampaignController) GetCampaign(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	campaignID := utils.ParseUint(c.Params("id"))

	var campaign models.Campaign
	if err := cc.DB.Where("id = ? AND user_id = ?", campaignID, user.ID).First(&campaign).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found", nil)
	}

	var total int64
	if err := cc.DB.Model(&models.CampaignRecipient{}).Where("campaign_id = ?", campaign.ID).Count(&total).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to count recipients", err)
	}
	page := utils.NewPagination(c.QueryInt("page", 1), c.QueryInt("per_page", 10), 10, total)

	var recipients []models.CampaignRecipient
	if err := cc.DB.Preload("Contact").
		Where("campaign_id = ?", campaign.ID).
		Order("id ASC").
		Limit(page.PerPage).Offset(page.Offset()).
		Find(&recipients).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch recipients", err)
	}

	return c.JSON(fiber.Map{
		"campaign":   campaign,
		"recipients": recipients,
		"pagination": page,
	})
}

type ExcludeRecipientsRequest struct {
	RecipientIDs []uint `json:"recipient_ids" validate:"required,min=1"`
}

// ExcludeRecipients drops recipients from a campaign under review. Excluded
// recipients are permanently skipped by the send loop; total_count tracks the
// remaining active set.
func (cc *CampaignController) ExcludeRecipients(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	campaignID := utils.ParseUint(c.Params("id"))

	var req ExcludeRecipientsRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var campaign models.Campaign
	if err := cc.DB.Where("id = ? AND user_id = ?", campaignID, user.ID).First(&campaign).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found", nil)
	}

	if campaign.Status != models.CampaignStatusDraft && campaign.Status != models.CampaignStatusReviewing {
		return utils.ErrorResponse(c, fiber.StatusConflict, "Recipients can only be excluded before sending starts", nil)
	}

	tx := cc.DB.Begin()

	if err := tx.Model(&models.CampaignRecipient{}).
		Where("campaign_id = ? AND id IN ? AND status = ?", campaign.ID, req.RecipientIDs, models.RecipientStatusPending).
		Update("status", models.RecipientStatusExcluded).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to exclude recipients", err)
	}

	var total int64
	if err := tx.Model(&models.CampaignRecipient{}).
		Where("campaign_id = ? AND status <> ?", campaign.ID, models.RecipientStatusExcluded).
		Count(&total).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to recount recipients", err)
	}

	if err := tx.Model(&models.Campaign{}).Where("id = ?", campaign.ID).
		Update("total_count", total).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update campaign", err)
	}

	tx.Commit()

	return c.JSON(utils.SuccessResponse(fiber.Map{
		"total_count": total,
	}))
}
