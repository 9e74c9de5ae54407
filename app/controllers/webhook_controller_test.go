package controllers

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/linguabot/linguabot/internal/pkg/billing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubParser struct {
	event billing.SubscriptionEvent
	input billing.WebhookEventInput
	err   error
}

func (s *stubParser) ParseWebhookEvent(payload []byte, sigHeader string) (billing.SubscriptionEvent, billing.WebhookEventInput, error) {
	return s.event, s.input, s.err
}

func newWebhookTestApp(parser EventParser) *fiber.App {
	InitializeWebhookController(nil, parser)
	app := fiber.New()
	app.Post("/webhook/stripe", HandleStripeWebhook)
	return app
}

func TestHandleStripeWebhookRejectsBadSignature(t *testing.T) {
	app := newWebhookTestApp(&stubParser{err: billing.ErrInvalidSignature})

	req := httptest.NewRequest("POST", "/webhook/stripe", strings.NewReader(`{}`))
	req.Header.Set("Stripe-Signature", "t=1,v1=bogus")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleStripeWebhookRejectsMalformedPayload(t *testing.T) {
	app := newWebhookTestApp(&stubParser{err: assert.AnError})

	req := httptest.NewRequest("POST", "/webhook/stripe", strings.NewReader(`not json`))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleStripeWebhookAcknowledgesUnknownEventTypes(t *testing.T) {
	// The parser returns no event for types outside the subscription
	// vocabulary; the endpoint still answers 200 so Stripe stops retrying.
	app := newWebhookTestApp(&stubParser{event: nil})

	req := httptest.NewRequest("POST", "/webhook/stripe", strings.NewReader(`{"type":"charge.refunded"}`))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
