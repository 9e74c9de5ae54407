package repository

import (
	"github.com/linguabot/linguabot/app/models"
	"gorm.io/gorm"
)

// translationRepository implements TranslationRepository interface
type translationRepository struct {
	db *gorm.DB
}

// NewTranslationRepository creates a new translation repository instance
func NewTranslationRepository(db *gorm.DB) TranslationRepository {
	return &translationRepository{db: db}
}

// Create appends a completed translation to the log
func (r *translationRepository) Create(t *models.Translation) error {
	return r.db.Create(t).Error
}

// RecentByAccount returns the newest translations for an account, newest first
func (r *translationRepository) RecentByAccount(accountID uint, limit int) ([]models.Translation, error) {
	var translations []models.Translation
	err := r.db.Where("account_id = ?", accountID).
		Order("created_at DESC").
		Limit(limit).
		Find(&translations).Error
	return translations, err
}

// CountByAccount returns how many translations an account has stored
func (r *translationRepository) CountByAccount(accountID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Translation{}).Where("account_id = ?", accountID).Count(&count).Error
	return count, err
}
