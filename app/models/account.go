package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	TierFree       = "free"
	TierPro        = "pro"
	TierEnterprise = "enterprise"
)

const (
	SubscriptionStatusActive   = "active"
	SubscriptionStatusCanceled = "canceled"
	SubscriptionStatusPastDue  = "past_due"
	SubscriptionStatusTrialing = "trialing"
)

// FreeTierInitialCredits is granted once when an account is first created.
const FreeTierInitialCredits = 1000

// Account is the durable per-user record of tier, credit balance and
// subscription linkage. TelegramID is the stable external identity; the
// unique index on it is what makes concurrent first-contact safe.
type Account struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	TelegramID         int64     `gorm:"uniqueIndex;not null" json:"telegram_id" validate:"required"`
	Username           string    `gorm:"type:varchar(64);default:''" json:"username" validate:"max=64"`
	FirstName          string    `gorm:"type:varchar(150);default:''" json:"first_name" validate:"max=150"`
	Tier               string    `gorm:"type:varchar(20);not null;default:'free'" json:"tier" validate:"oneof=free pro enterprise"`
	CreditsRemaining   int64     `gorm:"not null;default:0" json:"credits_remaining" validate:"gte=0"`
	TotalTranslations  int64     `gorm:"not null;default:0" json:"total_translations" validate:"gte=0"`
	StripeCustomerID   string    `gorm:"type:varchar(191);default:'';index" json:"-"`
	SubscriptionID     string    `gorm:"type:varchar(191);default:''" json:"-"`
	SubscriptionStatus string    `gorm:"type:varchar(32);default:''" json:"subscription_status"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (a *Account) Validate() error {
	v := validator.New()

	return v.Struct(a)
}

// IsPremium reports whether the account is on a paid tier.
func (a *Account) IsPremium() bool {
	return a.Tier == TierPro || a.Tier == TierEnterprise
}

// NewAccount builds a fresh free-tier account for a Telegram identity.
func NewAccount(telegramID int64, username, firstName string) (*Account, error) {
	a := &Account{
		TelegramID:       telegramID,
		Username:         username,
		FirstName:        firstName,
		Tier:             TierFree,
		CreditsRemaining: FreeTierInitialCredits,
	}

	if err := a.Validate(); err != nil {
		return nil, err
	}

	return a, nil
}
