package repository

import (
	"github.com/linguabot/linguabot/app/models"
	"gorm.io/gorm"
)

// AccountRepository defines the interface for account-related database operations
type AccountRepository interface {
	GetOrCreate(telegramID int64, username, firstName string) (*models.Account, error)
	GetByID(id uint) (*models.Account, error)
	GetByTelegramID(telegramID int64) (*models.Account, error)
	GetByStripeCustomerID(customerID string) (*models.Account, error)
	LinkStripeCustomer(id uint, customerID string) error
	UpdateSubscription(id uint, subscriptionID, status string) error
	SetTier(id uint, tier string) error
	// DebitCredits atomically decrements the balance and increments
	// total_translations, but only when the balance covers the amount.
	// Returns false when the conditional update matched no row.
	DebitCredits(id uint, amount int64) (bool, error)
	// AddCredits atomically increments the balance.
	AddCredits(id uint, amount int64) error
	Count() (int64, error)
}

// TranslationRepository defines the interface for the append-only translation log
type TranslationRepository interface {
	Create(t *models.Translation) error
	RecentByAccount(accountID uint, limit int) ([]models.Translation, error)
	CountByAccount(accountID uint) (int64, error)
}

// Repositories holds all repository instances
type Repositories struct {
	Account     AccountRepository
	Translation TranslationRepository
}

// NewRepositories creates all repositories with the given database connection
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Account:     NewAccountRepository(db),
		Translation: NewTranslationRepository(db),
	}
}
