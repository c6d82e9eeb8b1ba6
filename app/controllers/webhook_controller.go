package controllers

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/gestorpro/gestorpro/internal/pkg/billing"
	"github.com/gestorpro/gestorpro/internal/pkg/database"
	"github.com/gestorpro/gestorpro/internal/pkg/entitlements"
	"github.com/gestorpro/gestorpro/internal/pkg/env"
	"github.com/gestorpro/gestorpro/internal/pkg/mail"
	"github.com/gestorpro/gestorpro/internal/pkg/metrics/counter"
)

// HandlePaymentWebhook receives order events from the payment provider and
// turns paid orders into profile plan updates.
func HandlePaymentWebhook(c *fiber.Ctx) error {
	rawBody := append([]byte(nil), c.BodyRaw()...)
	signature := strings.TrimSpace(firstHeaderValue(c, "X-Kiwify-Signature", "X-Webhook-Signature"))
	secret := env.GetEnv("WEBHOOK_SECRET", "")

	notifier := billing.NewRedisPlanNotifier()
	svc := billing.NewServiceFromDB(database.GetDB(), secret, notifier)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	outcome := svc.ProcessEvent(ctx, rawBody, signature)
	if outcome.Err != nil {
		log.Printf("[webhook] %s: %v", outcome.Reason, outcome.Err)
	}
	recordWebhookOutcome(outcome)

	switch {
	case outcome.Applied:
		go func(o billing.Outcome) {
			if err := mail.SendPlanChangedMail(o.CustomerEmail, o.CustomerName, entitlements.DisplayName(o.Plan)); err != nil {
				log.Printf("[webhook] plan confirmation mail to %s failed: %v", o.CustomerEmail, err)
			}
		}(outcome)
		return c.Status(outcome.Code).JSON(fiber.Map{"ok": true, "plan": string(outcome.Plan)})
	case outcome.Duplicate:
		return c.Status(outcome.Code).JSON(fiber.Map{"ok": true, "duplicate": true})
	case outcome.Ignored:
		return c.Status(outcome.Code).JSON(fiber.Map{"ok": true, "ignored": true})
	default:
		return c.Status(outcome.Code).JSON(fiber.Map{"error": outcome.Reason})
	}
}

// HandlePaymentWebhookHealth answers provider connectivity checks and
// reports the delivery outcome counters.
func HandlePaymentWebhookHealth(c *fiber.Ctx) error {
	outcomes, err := counter.WebhookOutcomes()
	if err != nil {
		log.Printf("[webhook] reading outcome counters failed: %v", err)
		return c.JSON(fiber.Map{"ok": true})
	}
	return c.JSON(fiber.Map{"ok": true, "outcomes": outcomes})
}

func recordWebhookOutcome(outcome billing.Outcome) {
	field := outcome.Reason
	switch {
	case outcome.Applied:
		field = "applied"
	case outcome.Duplicate:
		field = "duplicate"
	case outcome.Ignored:
		field = "ignored"
	}
	if field == "" {
		field = "unknown"
	}
	if err := counter.AddWebhookOutcome(field); err != nil {
		log.Printf("[webhook] counting outcome %s failed: %v", field, err)
	}
}

func firstHeaderValue(c *fiber.Ctx, names ...string) string {
	for _, name := range names {
		if v := strings.TrimSpace(c.Get(name)); v != "" {
			return v
		}
	}
	return ""
}
