package billing

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/linguabot/linguabot/app/models"
	"github.com/linguabot/linguabot/internal/pkg/env"
	stripe "github.com/stripe/stripe-go/v79"
	checkoutsession "github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/customer"
	"github.com/stripe/stripe-go/v79/subscription"
	"github.com/stripe/stripe-go/v79/webhook"
)

// ErrInvalidSignature marks a webhook payload that failed signature
// verification. The endpoint answers 400 and mutates nothing.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// StripeClient wraps the outbound Stripe calls the bot needs plus the
// inbound webhook envelope parsing.
type StripeClient struct {
	WebhookSecret string
	AppURL        string

	prices map[string]string
}

// NewStripeClientFromEnv configures the global Stripe key and the price
// catalog from the environment.
func NewStripeClientFromEnv() *StripeClient {
	stripe.Key = strings.TrimSpace(env.GetEnv("STRIPE_SECRET_KEY", ""))

	return &StripeClient{
		WebhookSecret: strings.TrimSpace(env.GetEnv("STRIPE_WEBHOOK_SECRET", "")),
		AppURL:        strings.TrimRight(env.GetEnv("APP_URL", "http://localhost:4000"), "/"),
		prices: map[string]string{
			models.TierPro:        strings.TrimSpace(env.GetEnv("STRIPE_PRO_PRICE_ID", "")),
			models.TierEnterprise: strings.TrimSpace(env.GetEnv("STRIPE_ENTERPRISE_PRICE_ID", "")),
		},
	}
}

// CreateCheckoutSession starts a subscription checkout for a paid tier and
// returns the hosted payment URL. The purchased tier travels in the session
// metadata so the webhook can map the completion back without guessing.
func (c *StripeClient) CreateCheckoutSession(customerRef, tierID string) (string, error) {
	tier := normalizeTier(tierID)
	priceID := c.prices[tier]
	if priceID == "" {
		return "", fmt.Errorf("no price configured for tier %q", tierID)
	}

	params := &stripe.CheckoutSessionParams{
		Customer: stripe.String(customerRef),
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(c.AppURL + "/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(c.AppURL + "/cancelled"),
	}
	params.AddMetadata("tier", tier)

	s, err := checkoutsession.New(params)
	if err != nil {
		return "", err
	}
	return s.URL, nil
}

// CreateCustomer registers a Stripe customer for a Telegram identity. The
// email is best-effort metadata derived from the username; the stored
// customer reference on the account is the authoritative link.
func (c *StripeClient) CreateCustomer(email string, telegramID int64) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
	}
	params.AddMetadata("telegram_id", strconv.FormatInt(telegramID, 10))

	cust, err := customer.New(params)
	if err != nil {
		return "", err
	}
	return cust.ID, nil
}

// CancelSubscription cancels a provider subscription immediately.
func (c *StripeClient) CancelSubscription(subscriptionRef string) error {
	_, err := subscription.Cancel(subscriptionRef, nil)
	return err
}

// ParseWebhookEvent verifies the signature and maps the provider envelope to
// the event vocabulary the state machine understands. Event types outside
// that vocabulary yield a nil event and are acknowledged without effect.
func (c *StripeClient) ParseWebhookEvent(payload []byte, sigHeader string) (SubscriptionEvent, WebhookEventInput, error) {
	event, err := webhook.ConstructEvent(payload, sigHeader, c.WebhookSecret)
	if err != nil {
		return nil, WebhookEventInput{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	in := WebhookEventInput{
		ProviderEventID: event.ID,
		EventType:       string(event.Type),
		PayloadJSON:     string(payload),
	}

	switch event.Type {
	case "checkout.session.completed":
		var cs stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
			return nil, in, err
		}
		return &CheckoutCompleted{
			eventHeader:     header(event, customerID(cs.Customer)),
			SubscriptionRef: subscriptionID(cs.Subscription),
			Tier:            cs.Metadata["tier"],
		}, in, nil

	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return nil, in, err
		}
		return &SubscriptionCanceled{
			eventHeader:     header(event, customerID(sub.Customer)),
			SubscriptionRef: sub.ID,
		}, in, nil

	case "invoice.payment_failed":
		var inv stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
			return nil, in, err
		}
		return &InvoicePaymentFailed{
			eventHeader:     header(event, customerID(inv.Customer)),
			SubscriptionRef: subscriptionID(inv.Subscription),
		}, in, nil

	case "invoice.payment_succeeded":
		var inv stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
			return nil, in, err
		}
		return &InvoicePaymentSucceeded{
			eventHeader:     header(event, customerID(inv.Customer)),
			SubscriptionRef: subscriptionID(inv.Subscription),
			Renewal:         inv.BillingReason == stripe.InvoiceBillingReasonSubscriptionCycle,
		}, in, nil
	}

	return nil, in, nil
}

func header(event stripe.Event, customerRef string) eventHeader {
	return eventHeader{
		EventID:     event.ID,
		EventType:   string(event.Type),
		CustomerRef: customerRef,
	}
}

func customerID(c *stripe.Customer) string {
	if c == nil {
		return ""
	}
	return c.ID
}

func subscriptionID(s *stripe.Subscription) string {
	if s == nil {
		return ""
	}
	return s.ID
}
