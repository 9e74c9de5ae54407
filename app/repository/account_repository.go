package repository

import (
	"errors"

	"github.com/linguabot/linguabot/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// accountRepository implements AccountRepository interface
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository instance
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

// GetOrCreate looks an account up by Telegram ID and inserts a fresh
// free-tier account when none exists. The insert uses ON CONFLICT DO NOTHING
// against the unique telegram_id index, so two concurrent first-contacts for
// the same identity end up with exactly one row; the loser simply re-reads.
func (r *accountRepository) GetOrCreate(telegramID int64, username, firstName string) (*models.Account, error) {
	var account models.Account
	err := r.db.Where("telegram_id = ?", telegramID).First(&account).Error
	if err == nil {
		return &account, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	fresh, err := models.NewAccount(telegramID, username, firstName)
	if err != nil {
		return nil, err
	}
	if err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "telegram_id"}},
		DoNothing: true,
	}).Create(fresh).Error; err != nil {
		return nil, err
	}

	// Re-read either way so the caller always sees the persisted row.
	err = r.db.Where("telegram_id = ?", telegramID).First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetByID retrieves an account by its primary key
func (r *accountRepository) GetByID(id uint) (*models.Account, error) {
	var account models.Account
	err := r.db.First(&account, id).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetByTelegramID retrieves an account by its Telegram identity
func (r *accountRepository) GetByTelegramID(telegramID int64) (*models.Account, error) {
	var account models.Account
	err := r.db.Where("telegram_id = ?", telegramID).First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetByStripeCustomerID resolves a Stripe customer reference to an account.
// Single indexed lookup; webhook handling depends on this staying cheap.
func (r *accountRepository) GetByStripeCustomerID(customerID string) (*models.Account, error) {
	var account models.Account
	err := r.db.Where("stripe_customer_id = ?", customerID).First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// LinkStripeCustomer sets the Stripe customer reference once. A second call
// with the same value is a no-op; a call with a different value leaves the
// stored reference untouched, since the first link is authoritative.
func (r *accountRepository) LinkStripeCustomer(id uint, customerID string) error {
	return r.db.Model(&models.Account{}).
		Where("id = ? AND (stripe_customer_id = '' OR stripe_customer_id = ?)", id, customerID).
		Update("stripe_customer_id", customerID).Error
}

// UpdateSubscription stores the subscription reference and lifecycle status
func (r *accountRepository) UpdateSubscription(id uint, subscriptionID, status string) error {
	return r.db.Model(&models.Account{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"subscription_id":     subscriptionID,
			"subscription_status": status,
		}).Error
}

// SetTier updates the account tier
func (r *accountRepository) SetTier(id uint, tier string) error {
	return r.db.Model(&models.Account{}).
		Where("id = ?", id).
		Update("tier", tier).Error
}

// DebitCredits is the one correctness-critical query of the system: the
// balance check and the decrement happen in a single conditional UPDATE, so
// two racing debits can never both succeed against one amount's worth of
// credit. total_translations moves in the same statement.
func (r *accountRepository) DebitCredits(id uint, amount int64) (bool, error) {
	tx := r.db.Model(&models.Account{}).
		Where("id = ? AND credits_remaining >= ?", id, amount).
		Updates(map[string]interface{}{
			"credits_remaining":  gorm.Expr("credits_remaining - ?", amount),
			"total_translations": gorm.Expr("total_translations + ?", 1),
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// AddCredits increments the balance unconditionally (subscription grants)
func (r *accountRepository) AddCredits(id uint, amount int64) error {
	return r.db.Model(&models.Account{}).
		Where("id = ?", id).
		Update("credits_remaining", gorm.Expr("credits_remaining + ?", amount)).Error
}

// Count returns the total number of accounts
func (r *accountRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Account{}).Count(&count).Error
	return count, err
}
