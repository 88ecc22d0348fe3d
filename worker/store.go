package worker

import (
	"time"

	"gorm.io/gorm"

	"outreachly/models"
)

// GormStore implements CampaignStore and RecoveryStore on top of the
// relational database. The check-then-act queries here assume the
// single-process deployment described in the dispatcher's concurrency
// contract.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) CampaignStatus(campaignID uint) (string, error) {
	var status string
	err := s.DB.Model(&models.Campaign{}).
		Where("id = ?", campaignID).
		Pluck("status", &status).Error
	return status, err
}

func (s *GormStore) SetCampaignStatus(campaignID uint, status string) error {
	return s.DB.Model(&models.Campaign{}).
		Where("id = ?", campaignID).
		Update("status", status).Error
}

func (s *GormStore) MarkCampaignSent(campaignID uint) error {
	return s.DB.Model(&models.Campaign{}).
		Where("id = ?", campaignID).
		Updates(map[string]interface{}{
			"status":  models.CampaignStatusSent,
			"sent_at": time.Now(),
		}).Error
}

func (s *GormStore) SetSentCount(campaignID uint, sent int) error {
	return s.DB.Model(&models.Campaign{}).
		Where("id = ?", campaignID).
		Update("sent_count", sent).Error
}

func (s *GormStore) SetFailedCount(campaignID uint, failed int) error {
	return s.DB.Model(&models.Campaign{}).
		Where("id = ?", campaignID).
		Update("failed_count", failed).Error
}

func (s *GormStore) PendingRecipients(campaignID uint) ([]models.CampaignRecipient, error) {
	var recipients []models.CampaignRecipient
	err := s.DB.Preload("Contact").
		Where("campaign_id = ? AND status = ?", campaignID, models.RecipientStatusPending).
		Order("id ASC").
		Find(&recipients).Error
	return recipients, err
}

func (s *GormStore) CountActiveRecipients(campaignID uint) (int, error) {
	var count int64
	err := s.DB.Model(&models.CampaignRecipient{}).
		Where("campaign_id = ? AND status != ?", campaignID, models.RecipientStatusExcluded).
		Count(&count).Error
	return int(count), err
}

func (s *GormStore) MarkRecipientSent(recipientID uint) error {
	return s.DB.Model(&models.CampaignRecipient{}).
		Where("id = ?", recipientID).
		Updates(map[string]interface{}{
			"status":  models.RecipientStatusSent,
			"sent_at": time.Now(),
		}).Error
}

func (s *GormStore) MarkRecipientFailed(recipientID uint, errMsg string) error {
	return s.DB.Model(&models.CampaignRecipient{}).
		Where("id = ?", recipientID).
		Updates(map[string]interface{}{
			"status":        models.RecipientStatusFailed,
			"error_message": errMsg,
		}).Error
}

func (s *GormStore) HasOtherSending(userID, campaignID uint) (bool, error) {
	var count int64
	err := s.DB.Model(&models.Campaign{}).
		Where("user_id = ? AND status = ? AND id != ?", userID, models.CampaignStatusSending, campaignID).
		Count(&count).Error
	return count > 0, err
}

func (s *GormStore) PauseAllSending() (int64, error) {
	result := s.DB.Model(&models.Campaign{}).
		Where("status = ?", models.CampaignStatusSending).
		Update("status", models.CampaignStatusPaused)
	return result.RowsAffected, result.Error
}
