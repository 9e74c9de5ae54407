package controllers

import (
	"context"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/linguabot/linguabot/internal/pkg/billing"
)

// EventParser verifies and decodes a provider webhook envelope.
type EventParser interface {
	ParseWebhookEvent(payload []byte, sigHeader string) (billing.SubscriptionEvent, billing.WebhookEventInput, error)
}

var (
	webhookService *billing.Service
	webhookParser  EventParser
)

// InitializeWebhookController wires the webhook endpoint to the billing
// service and the provider event parser.
func InitializeWebhookController(svc *billing.Service, parser EventParser) {
	webhookService = svc
	webhookParser = parser
}

// HandleStripeWebhook receives provider lifecycle events. Signature failures
// answer 400 without touching state; everything the state machine handles
// (including duplicates and orphans) answers 200 so the provider stops
// retrying; storage failures answer 500 so it retries.
func HandleStripeWebhook(c *fiber.Ctx) error {
	payload := c.Body()
	sigHeader := c.Get("Stripe-Signature")

	event, input, err := webhookParser.ParseWebhookEvent(payload, sigHeader)
	if err != nil {
		if errors.Is(err, billing.ErrInvalidSignature) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid signature",
			})
		}
		log.Printf("[webhook] failed to decode event payload: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "malformed event payload",
		})
	}

	// Event types outside the subscription vocabulary are acknowledged and
	// ignored.
	if event != nil {
		if err := webhookService.HandleEvent(context.Background(), event, input); err != nil {
			log.Printf("[webhook] failed to process event %s: %v", input.ProviderEventID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "event processing failed",
			})
		}
	}

	return c.JSON(fiber.Map{"received": true})
}
