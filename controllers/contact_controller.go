package controller

import (
	"github.com/badoux/checkmail"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"outreachly/matcher"
	"outreachly/models"
	"outreachly/utils"
)

type ContactController struct {
	DB     *gorm.DB
	Logger *logrus.Entry
}

func NewContactController(db *gorm.DB, logger *logrus.Entry) *ContactController {
	return &ContactController{DB: db, Logger: logger}
}

type ImportContactRequest struct {
	FirstName string `json:"first_name" validate:"omitempty,max=100"`
	LastName  string `json:"last_name" validate:"omitempty,max=100"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Company   string `json:"company" validate:"omitempty,max=200"`
	Notes     string `json:"notes"`
}

type ImportContactsRequest struct {
	Contacts []ImportContactRequest `json:"contacts" validate:"required,min=1,dive"`
}

// ImportContacts persists an already-parsed contact list. File parsing
// (CSV/vCard) happens client side; this endpoint receives normalized rows.
// Rows with an invalid email are rejected individually, not as a batch.
func (cc *ContactController) ImportContacts(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var req ImportContactsRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var imported []models.Contact
	var rejected []fiber.Map

	for i, row := range req.Contacts {
		if row.FirstName == "" && row.LastName == "" {
			rejected = append(rejected, fiber.Map{"index": i, "reason": "missing name"})
			continue
		}
		if row.Email != "" {
			if err := checkmail.ValidateFormat(row.Email); err != nil {
				rejected = append(rejected, fiber.Map{"index": i, "reason": "invalid email"})
				continue
			}
		}
		imported = append(imported, models.Contact{
			UserID:    user.ID,
			FirstName: row.FirstName,
			LastName:  row.LastName,
			Email:     row.Email,
			Phone:     utils.NormalizePhone(row.Phone),
			Company:   row.Company,
			Notes:     row.Notes,
		})
	}

	if len(imported) > 0 {
		if err := cc.DB.Create(&imported).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to save contacts", err)
		}
	}

	cc.Logger.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"imported": len(imported),
		"rejected": len(rejected),
	}).Info("contact import completed")

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"imported": imported,
		"rejected": rejected,
	})
}

// GetContacts lists the user's contacts.
func (cc *ContactController) GetContacts(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var contacts []models.Contact
	if err := cc.DB.Where("user_id = ?", user.ID).Order("last_name ASC, first_name ASC").Find(&contacts).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch contacts", err)
	}

	return c.JSON(fiber.Map{
		"contacts": contacts,
	})
}

type MatchContactsRequest struct {
	ContactIDs []uint `json:"contact_ids" validate:"required,min=1"`
}

// MatchContacts runs the match engine for the given contacts against the
// rest of the user's address book and returns ranked candidates per contact.
func (cc *ContactController) MatchContacts(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var req MatchContactsRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var needleRows []models.Contact
	if err := cc.DB.Where("user_id = ? AND id IN ?", user.ID, req.ContactIDs).Find(&needleRows).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load contacts", err)
	}
	if len(needleRows) == 0 {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "No matching contacts", nil)
	}

	var poolRows []models.Contact
	if err := cc.DB.Where("user_id = ? AND id NOT IN ?", user.ID, req.ContactIDs).Find(&poolRows).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load contacts", err)
	}

	results := matcher.MatchAll(toMatcherContacts(needleRows), toMatcherContacts(poolRows))

	return c.JSON(fiber.Map{
		"results": results,
	})
}

type ConfirmMatchesRequest struct {
	Matches []struct {
		ImportedContactID uint   `json:"imported_contact_id" validate:"required"`
		MatchedContactID  uint   `json:"matched_contact_id" validate:"required"`
		Confidence        int    `json:"confidence" validate:"required,min=1,max=100"`
		MatchType         string `json:"match_type" validate:"required"`
	} `json:"matches" validate:"required,min=1,dive"`
}

// ConfirmMatches persists the match candidates a user accepted.
func (cc *ContactController) ConfirmMatches(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var req ConfirmMatchesRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	records := make([]models.ContactMatch, 0, len(req.Matches))
	for _, m := range req.Matches {
		records = append(records, models.ContactMatch{
			UserID:            user.ID,
			ImportedContactID: m.ImportedContactID,
			MatchedContactID:  m.MatchedContactID,
			Confidence:        m.Confidence,
			MatchType:         m.MatchType,
			Confirmed:         true,
		})
	}

	if err := cc.DB.Create(&records).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to save matches", err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(fiber.Map{
		"confirmed": len(records),
	}))
}

func toMatcherContacts(rows []models.Contact) []matcher.Contact {
	out := make([]matcher.Contact, 0, len(rows))
	for i := range rows {
		out = append(out, matcher.Contact{
			ID:        rows[i].ID,
			FirstName: rows[i].FirstName,
			LastName:  rows[i].LastName,
		})
	}
	return out
}
