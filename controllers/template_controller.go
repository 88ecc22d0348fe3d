package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"outreachly/models"
	"outreachly/utils"
)

type TemplateController struct {
	DB *gorm.DB
}

func NewTemplateController(db *gorm.DB) *TemplateController {
	return &TemplateController{DB: db}
}

type CreateTemplateRequest struct {
	Name            string `json:"name" validate:"required,max=200"`
	Channel         string `json:"channel" validate:"required,oneof=email sms"`
	SubjectTemplate string `json:"subject_template" validate:"omitempty,max=500"`
	BodyTemplate    string `json:"body_template" validate:"required"`
}

func (tc *TemplateController) CreateTemplate(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var req CreateTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	template := models.Template{
		UserID:          user.ID,
		Name:            req.Name,
		Channel:         req.Channel,
		SubjectTemplate: req.SubjectTemplate,
		BodyTemplate:    req.BodyTemplate,
	}

	if err := tc.DB.Create(&template).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create template", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"template":  template,
		"variables": utils.ExtractVariables(req.BodyTemplate),
	})
}

func (tc *TemplateController) GetTemplates(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var templates []models.Template
	if err := tc.DB.Where("user_id = ?", user.ID).Order("name ASC").Find(&templates).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch templates", err)
	}

	return c.JSON(fiber.Map{
		"templates": templates,
	})
}
