package billing

// SubscriptionEvent is the closed set of payment-provider lifecycle events
// the state machine understands. Each variant carries only the fields its
// transition needs; everything else in the provider envelope is ignored.
type SubscriptionEvent interface {
	ProviderEventID() string
	ProviderEventType() string
	customerRef() string
}

type eventHeader struct {
	EventID     string
	EventType   string
	CustomerRef string
}

func (h eventHeader) ProviderEventID() string   { return h.EventID }
func (h eventHeader) ProviderEventType() string { return h.EventType }
func (h eventHeader) customerRef() string       { return h.CustomerRef }

// CheckoutCompleted fires when a customer finishes the checkout flow for a
// paid tier. Tier is the purchased tier identifier from session metadata.
type CheckoutCompleted struct {
	eventHeader
	SubscriptionRef string
	Tier            string
}

// SubscriptionCanceled fires when the provider subscription is deleted.
// Unused credits already granted stay on the account.
type SubscriptionCanceled struct {
	eventHeader
	SubscriptionRef string
}

// InvoicePaymentFailed fires on a failed renewal charge. Access is not
// revoked immediately; the account enters a past_due grace period.
type InvoicePaymentFailed struct {
	eventHeader
	SubscriptionRef string
}

// InvoicePaymentSucceeded fires on any successful invoice. Renewal is true
// only for subscription cycles; the initial charge is covered by
// CheckoutCompleted and must not grant twice.
type InvoicePaymentSucceeded struct {
	eventHeader
	SubscriptionRef string
	Renewal         bool
}

// WebhookEventInput is the normalized input for webhook event persistence.
type WebhookEventInput struct {
	ProviderEventID string
	EventType       string
	PayloadJSON     string
}
