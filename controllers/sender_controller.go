package controller

import (
	"github.com/badoux/checkmail"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"outreachly/config"
	"outreachly/models"
	"outreachly/utils"
)

type UpdateSenderRequest struct {
	Provider string `json:"provider" validate:"required"`
	Host     string `json:"host"`
	Port     int    `json:"port" validate:"omitempty,min=1,max=65535"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateSenderSettings stores the user's SMTP credentials. The password is
// encrypted before it touches the database.
func UpdateSenderSettings(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var req UpdateSenderRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	if err := checkmail.ValidateFormat(req.Email); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid sender email address", err)
	}

	encryptedPassword, err := utils.Encrypt(req.Password)
	if err != nil {
		logrus.WithError(err).Error("failed to encrypt SMTP password")
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to store credentials", nil)
	}

	updates := map[string]interface{}{
		"smtp_provider":           req.Provider,
		"smtp_host":               req.Host,
		"smtp_port":               req.Port,
		"smtp_email":              req.Email,
		"smtp_password_encrypted": encryptedPassword,
	}

	if err := config.DB.Model(&models.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update sender settings", err)
	}

	provider := config.ProviderFor(req.Provider)
	return c.JSON(utils.SuccessResponse(fiber.Map{
		"provider":    req.Provider,
		"email":       req.Email,
		"daily_limit": provider.DailyLimit,
	}))
}

// GetSenderSettings returns the sender configuration without the password.
func GetSenderSettings(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	provider := config.ProviderFor(user.SMTPProvider)
	return c.JSON(utils.SuccessResponse(fiber.Map{
		"provider":    user.SMTPProvider,
		"host":        user.SMTPHost,
		"port":        user.SMTPPort,
		"email":       user.SMTPEmail,
		"configured":  user.HasSMTPCredentials(),
		"daily_limit": provider.DailyLimit,
	}))
}

// TestSenderConnection verifies the stored credentials with a live dial.
func TestSenderConnection(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	if !user.HasSMTPCredentials() {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "No SMTP credentials configured", nil)
	}

	if err := utils.TestSMTPConnection(user); err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id":  user.ID,
			"provider": user.SMTPProvider,
		}).WithError(err).Warn("SMTP connection test failed")
		return utils.ErrorResponse(c, fiber.StatusBadGateway, "SMTP connection failed", err)
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{
		"message": "SMTP connection successful",
	}))
}
