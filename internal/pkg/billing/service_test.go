package billing

import (
	"context"
	"sync"
	"testing"

	"github.com/linguabot/linguabot/app/models"
	"github.com/linguabot/linguabot/app/repository"
	"github.com/linguabot/linguabot/internal/pkg/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeAccounts struct {
	repository.AccountRepository
	mu       sync.Mutex
	accounts map[uint]*models.Account
}

func newFakeAccounts(accounts ...*models.Account) *fakeAccounts {
	f := &fakeAccounts{accounts: make(map[uint]*models.Account)}
	for _, a := range accounts {
		f.accounts[a.ID] = a
	}
	return f
}

func (f *fakeAccounts) GetByStripeCustomerID(customerID string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.accounts {
		if a.StripeCustomerID == customerID {
			copy := *a
			return &copy, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAccounts) UpdateSubscription(id uint, subscriptionID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a := f.accounts[id]
	a.SubscriptionID = subscriptionID
	a.SubscriptionStatus = status
	return nil
}

func (f *fakeAccounts) SetTier(id uint, tier string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[id].Tier = tier
	return nil
}

func (f *fakeAccounts) AddCredits(id uint, amount int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[id].CreditsRemaining += amount
	return nil
}

func (f *fakeAccounts) DebitCredits(id uint, amount int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a := f.accounts[id]
	if a.CreditsRemaining < amount {
		return false, nil
	}
	a.CreditsRemaining -= amount
	a.TotalTranslations++
	return true, nil
}

func (f *fakeAccounts) get(id uint) *models.Account {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.accounts[id]
}

type fakeEventRepo struct {
	mu     sync.Mutex
	nextID uint
	events map[string]*models.BillingWebhookEvent
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[string]*models.BillingWebhookEvent)}
}

func (f *fakeEventRepo) CreateWebhookEventIfNotExists(event *models.BillingWebhookEvent) (bool, *models.BillingWebhookEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := event.Provider + ":" + event.ProviderEventID
	if existing, ok := f.events[key]; ok {
		copy := *existing
		return false, &copy, nil
	}
	f.nextID++
	event.ID = f.nextID
	f.events[key] = event
	copy := *event
	return true, &copy, nil
}

func (f *fakeEventRepo) MarkWebhookProcessed(id uint, processingError string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.events {
		if e.ID == id {
			now := e.CreatedAt
			e.ProcessedAt = &now
			e.ProcessingError = processingError
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func newTestService(accounts *fakeAccounts) (*Service, *fakeEventRepo) {
	events := newFakeEventRepo()
	return NewService(events, accounts, ledger.New(accounts)), events
}

func proAccount() *models.Account {
	return &models.Account{
		ID:               1,
		TelegramID:       42,
		Tier:             models.TierFree,
		CreditsRemaining: 100,
		StripeCustomerID: "cus_123",
	}
}

func checkoutEvent(eventID, tier string) *CheckoutCompleted {
	return &CheckoutCompleted{
		eventHeader: eventHeader{
			EventID:     eventID,
			EventType:   "checkout.session.completed",
			CustomerRef: "cus_123",
		},
		SubscriptionRef: "sub_123",
		Tier:            tier,
	}
}

func TestCheckoutCompletedUpgradesAndGrantsOnce(t *testing.T) {
	accounts := newFakeAccounts(proAccount())
	svc, _ := newTestService(accounts)

	err := svc.HandleEvent(context.Background(), checkoutEvent("evt_1", "pro"), WebhookEventInput{ProviderEventID: "evt_1"})
	require.NoError(t, err)

	got := accounts.get(1)
	assert.Equal(t, models.TierPro, got.Tier)
	assert.Equal(t, models.SubscriptionStatusActive, got.SubscriptionStatus)
	assert.Equal(t, "sub_123", got.SubscriptionID)
	assert.Equal(t, int64(100+10000), got.CreditsRemaining)
}

func TestDuplicateCheckoutEventGrantsAtMostOnce(t *testing.T) {
	accounts := newFakeAccounts(proAccount())
	svc, _ := newTestService(accounts)

	require.NoError(t, svc.HandleEvent(context.Background(), checkoutEvent("evt_1", "pro"), WebhookEventInput{ProviderEventID: "evt_1"}))
	require.NoError(t, svc.HandleEvent(context.Background(), checkoutEvent("evt_1", "pro"), WebhookEventInput{ProviderEventID: "evt_1"}))

	assert.Equal(t, int64(100+10000), accounts.get(1).CreditsRemaining)
}

func TestCancelRevertsTierButKeepsCredits(t *testing.T) {
	accounts := newFakeAccounts(proAccount())
	svc, _ := newTestService(accounts)

	require.NoError(t, svc.HandleEvent(context.Background(), checkoutEvent("evt_1", "enterprise"), WebhookEventInput{ProviderEventID: "evt_1"}))

	cancel := &SubscriptionCanceled{
		eventHeader: eventHeader{
			EventID:     "evt_2",
			EventType:   "customer.subscription.deleted",
			CustomerRef: "cus_123",
		},
		SubscriptionRef: "sub_123",
	}
	require.NoError(t, svc.HandleEvent(context.Background(), cancel, WebhookEventInput{ProviderEventID: "evt_2"}))

	got := accounts.get(1)
	assert.Equal(t, models.TierFree, got.Tier)
	assert.Equal(t, models.SubscriptionStatusCanceled, got.SubscriptionStatus)
	// Credits granted before the cancellation are not clawed back.
	assert.Equal(t, int64(100+100000), got.CreditsRemaining)
}

func TestPaymentFailedEntersGracePeriod(t *testing.T) {
	account := proAccount()
	account.Tier = models.TierPro
	account.SubscriptionStatus = models.SubscriptionStatusActive
	accounts := newFakeAccounts(account)
	svc, _ := newTestService(accounts)

	failed := &InvoicePaymentFailed{
		eventHeader: eventHeader{
			EventID:     "evt_3",
			EventType:   "invoice.payment_failed",
			CustomerRef: "cus_123",
		},
		SubscriptionRef: "sub_123",
	}
	require.NoError(t, svc.HandleEvent(context.Background(), failed, WebhookEventInput{ProviderEventID: "evt_3"}))

	got := accounts.get(1)
	assert.Equal(t, models.SubscriptionStatusPastDue, got.SubscriptionStatus)
	assert.Equal(t, models.TierPro, got.Tier, "tier must not be downgraded during the grace period")
}

func TestRenewalGrantsMonthlyAllotment(t *testing.T) {
	account := proAccount()
	account.Tier = models.TierPro
	accounts := newFakeAccounts(account)
	svc, _ := newTestService(accounts)

	renewal := &InvoicePaymentSucceeded{
		eventHeader: eventHeader{
			EventID:     "evt_4",
			EventType:   "invoice.payment_succeeded",
			CustomerRef: "cus_123",
		},
		SubscriptionRef: "sub_123",
		Renewal:         true,
	}
	require.NoError(t, svc.HandleEvent(context.Background(), renewal, WebhookEventInput{ProviderEventID: "evt_4"}))

	got := accounts.get(1)
	assert.Equal(t, models.SubscriptionStatusActive, got.SubscriptionStatus)
	assert.Equal(t, int64(100+10000), got.CreditsRemaining)
}

func TestInitialInvoiceDoesNotGrantTwice(t *testing.T) {
	account := proAccount()
	account.Tier = models.TierPro
	accounts := newFakeAccounts(account)
	svc, _ := newTestService(accounts)

	initial := &InvoicePaymentSucceeded{
		eventHeader: eventHeader{
			EventID:     "evt_5",
			EventType:   "invoice.payment_succeeded",
			CustomerRef: "cus_123",
		},
		SubscriptionRef: "sub_123",
		Renewal:         false,
	}
	require.NoError(t, svc.HandleEvent(context.Background(), initial, WebhookEventInput{ProviderEventID: "evt_5"}))

	assert.Equal(t, int64(100), accounts.get(1).CreditsRemaining)
}

func TestOrphanedEventIsDroppedAndAcknowledged(t *testing.T) {
	accounts := newFakeAccounts(proAccount())
	svc, events := newTestService(accounts)

	orphan := checkoutEvent("evt_6", "pro")
	orphan.CustomerRef = "cus_unknown"

	err := svc.HandleEvent(context.Background(), orphan, WebhookEventInput{ProviderEventID: "evt_6"})
	require.NoError(t, err, "orphaned events must not bubble up as handler failures")

	got := accounts.get(1)
	assert.Equal(t, models.TierFree, got.Tier)
	assert.Equal(t, int64(100), got.CreditsRemaining)

	stored := events.events["stripe:evt_6"]
	require.NotNil(t, stored)
	assert.NotNil(t, stored.ProcessedAt)
	assert.NotEmpty(t, stored.ProcessingError)
}

func TestEmptyEventIDFallsBackToPayloadHash(t *testing.T) {
	accounts := newFakeAccounts(proAccount())
	svc, _ := newTestService(accounts)

	ev := checkoutEvent("", "pro")
	in := WebhookEventInput{PayloadJSON: `{"id":""}`}

	require.NoError(t, svc.HandleEvent(context.Background(), ev, in))
	require.NoError(t, svc.HandleEvent(context.Background(), ev, in))

	// The payload hash stands in for the missing id, so redelivery still dedups.
	assert.Equal(t, int64(100+10000), accounts.get(1).CreditsRemaining)
}
