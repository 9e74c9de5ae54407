package billing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/linguabot/linguabot/app/models"
	"github.com/linguabot/linguabot/app/repository"
	"github.com/linguabot/linguabot/internal/pkg/ledger"
	"gorm.io/gorm"
)

// ErrOrphanedEvent marks a provider event whose customer reference matches
// no account. Such events are logged and dropped, never retried.
var ErrOrphanedEvent = errors.New("no account for provider customer")

// Service is the subscription state machine: it maps provider lifecycle
// events onto tier, status and credit-balance transitions of an account.
type Service struct {
	repo     Repository
	accounts repository.AccountRepository
	credits  *ledger.Ledger
}

// NewService creates a billing service from injected dependencies.
func NewService(repo Repository, accounts repository.AccountRepository, credits *ledger.Ledger) *Service {
	return &Service{repo: repo, accounts: accounts, credits: credits}
}

// NewServiceFromDB creates a billing service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB) *Service {
	accounts := repository.NewAccountRepository(db)
	return NewService(NewRepository(db), accounts, ledger.New(accounts))
}

// HandleEvent records the provider event and applies its transition exactly
// once. Duplicate deliveries, unknown customers and already-processed events
// all return nil so the webhook endpoint can acknowledge with 2xx; only
// storage-level failures propagate (the provider retries on non-2xx).
func (s *Service) HandleEvent(ctx context.Context, ev SubscriptionEvent, in WebhookEventInput) error {
	eventID := strings.TrimSpace(in.ProviderEventID)
	if eventID == "" {
		eventID = strings.TrimSpace(ev.ProviderEventID())
	}
	if eventID == "" {
		sum := sha256.Sum256([]byte(in.PayloadJSON))
		eventID = "hash:" + hex.EncodeToString(sum[:])
	}

	record := &models.BillingWebhookEvent{
		Provider:        models.BillingProviderStripe,
		ProviderEventID: eventID,
		EventType:       ev.ProviderEventType(),
		PayloadJSON:     in.PayloadJSON,
	}
	created, stored, err := s.repo.CreateWebhookEventIfNotExists(record)
	if err != nil {
		return err
	}
	// A redelivered event that already ran to completion (successfully or as
	// a dropped orphan) must not apply its effects again. Only an event whose
	// previous attempt failed on a storage error gets reprocessed.
	if !created && stored.ProcessedAt != nil {
		log.Printf("[billing] duplicate webhook event %s (%s), skipping", eventID, ev.ProviderEventType())
		return nil
	}

	applyErr := s.apply(ctx, ev)
	if applyErr != nil && errors.Is(applyErr, ErrOrphanedEvent) {
		log.Printf("[billing] orphaned webhook event %s (%s): %v", eventID, ev.ProviderEventType(), applyErr)
		if err := s.repo.MarkWebhookProcessed(stored.ID, applyErr.Error()); err != nil {
			return err
		}
		return nil
	}
	if applyErr != nil {
		// Leave the event unprocessed; the provider's retry picks it up.
		return applyErr
	}
	return s.repo.MarkWebhookProcessed(stored.ID, "")
}

func (s *Service) apply(ctx context.Context, ev SubscriptionEvent) error {
	account, err := s.accounts.GetByStripeCustomerID(ev.customerRef())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", ErrOrphanedEvent, ev.customerRef())
		}
		return err
	}

	switch e := ev.(type) {
	case *CheckoutCompleted:
		return s.applyCheckoutCompleted(ctx, account, e)
	case *SubscriptionCanceled:
		return s.applySubscriptionCanceled(account, e)
	case *InvoicePaymentFailed:
		// Grace period: status flips to past_due, tier stays as is.
		return s.accounts.UpdateSubscription(account.ID, e.SubscriptionRef, models.SubscriptionStatusPastDue)
	case *InvoicePaymentSucceeded:
		return s.applyInvoicePaymentSucceeded(ctx, account, e)
	default:
		return fmt.Errorf("unhandled subscription event type %T", ev)
	}
}

func (s *Service) applyCheckoutCompleted(ctx context.Context, account *models.Account, e *CheckoutCompleted) error {
	// Checkout sessions are created only for paid tiers; fall back to pro
	// when the session metadata is missing.
	tierID := normalizeTier(e.Tier)
	if tierID == models.TierFree {
		tierID = models.TierPro
	}
	tier, _ := TierByID(tierID)

	if err := s.accounts.UpdateSubscription(account.ID, e.SubscriptionRef, models.SubscriptionStatusActive); err != nil {
		return err
	}
	if err := s.accounts.SetTier(account.ID, tier.ID); err != nil {
		return err
	}
	return s.credits.Credit(ctx, account.ID, tier.CreditsPerMonth)
}

func (s *Service) applyInvoicePaymentSucceeded(ctx context.Context, account *models.Account, e *InvoicePaymentSucceeded) error {
	if err := s.accounts.UpdateSubscription(account.ID, e.SubscriptionRef, models.SubscriptionStatusActive); err != nil {
		return err
	}
	// The initial invoice is already covered by the checkout grant.
	if !e.Renewal || !account.IsPremium() {
		return nil
	}
	tier, _ := TierByID(account.Tier)
	return s.credits.Credit(ctx, account.ID, tier.CreditsPerMonth)
}

// applySubscriptionCanceled reverts the account to free without touching
// credits that were already granted.
func (s *Service) applySubscriptionCanceled(account *models.Account, e *SubscriptionCanceled) error {
	if err := s.accounts.UpdateSubscription(account.ID, e.SubscriptionRef, models.SubscriptionStatusCanceled); err != nil {
		return err
	}
	return s.accounts.SetTier(account.ID, models.TierFree)
}
