package billing

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gestorpro/gestorpro/app/models"
	"github.com/gestorpro/gestorpro/internal/pkg/entitlements"
	"gorm.io/gorm"
)

// PlanNotifier receives the fact that a user's plan changed after a webhook
// write. The production implementation publishes on the plan change feed.
type PlanNotifier interface {
	PlanChanged(userID uint, plan entitlements.Plan)
}

// Outcome is the terminal result of processing one webhook delivery. Code is
// the HTTP status the controller responds with; Reason is a stable token for
// the response body and logs.
type Outcome struct {
	Code      int
	Reason    string
	Applied   bool
	Ignored   bool
	Duplicate bool
	Plan      entitlements.Plan
	// CustomerEmail/CustomerName identify the buyer when the plan was applied,
	// so the controller can send the confirmation mail.
	CustomerEmail string
	CustomerName  string
	Err           error
}

// Service processes payment-provider order events into profile plan updates.
type Service struct {
	repo     Repository
	catalog  *ProductCatalog
	secret   string
	notifier PlanNotifier
}

// NewService creates a webhook processor. An empty secret disables signature
// verification; that is an insecure development mode and is logged loudly on
// every delivery.
func NewService(repo Repository, catalog *ProductCatalog, secret string, notifier PlanNotifier) *Service {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Service{repo: repo, catalog: catalog, secret: strings.TrimSpace(secret), notifier: notifier}
}

// NewServiceFromDB creates a webhook processor from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB, secret string, notifier PlanNotifier) *Service {
	return NewService(NewRepository(db), DefaultCatalog(), secret, notifier)
}

// ProcessEvent runs one delivery through the full pipeline: parse, verify,
// dedup, status filter, product mapping, profile write. It is terminal in one
// pass; redelivery safety comes from the event dedup row plus the plan write
// being idempotent at the value level.
func (s *Service) ProcessEvent(ctx context.Context, rawBody []byte, signatureHeader string) Outcome {
	ev, err := ParseOrderEvent(rawBody)
	if err != nil {
		return Outcome{Code: http.StatusBadRequest, Reason: "invalid_payload", Err: err}
	}

	signatureValid := false
	if s.secret == "" {
		log.Printf("[billing] WEBHOOK_SECRET is not configured, accepting unverified webhook delivery (insecure, development only)")
	} else if !VerifyWebhookSignature(rawBody, signatureHeader, s.secret) {
		return Outcome{Code: http.StatusUnauthorized, Reason: "invalid_signature", Err: errors.New("webhook signature mismatch")}
	} else {
		signatureValid = true
	}

	created, stored, err := s.repo.CreateWebhookEventIfNotExists(ctx, &models.PaymentWebhookEvent{
		Provider:        models.PaymentProviderKiwify,
		ProviderEventID: ev.EventKey(),
		EventType:       "order." + ev.Status(),
		PayloadJSON:     string(rawBody),
		SignatureValid:  signatureValid,
	})
	if err != nil {
		return Outcome{Code: http.StatusInternalServerError, Reason: "webhook_persist_failed", Err: err}
	}
	// Only a delivery that completed without error counts as a duplicate. A
	// stored row with a processing error (or none recorded at all) means the
	// previous attempt failed mid-flight, and the provider's redelivery is the
	// recovery path, so it runs the pipeline again.
	if !created && stored.ProcessedAt != nil && stored.ProcessingError == "" {
		return Outcome{Code: http.StatusOK, Reason: "duplicate", Duplicate: true}
	}

	if !ev.IsPaid() {
		s.markProcessed(ctx, stored.ID, nil)
		return Outcome{Code: http.StatusOK, Reason: "ignored_status", Ignored: true}
	}

	plan, ok := s.catalog.Resolve(ev.ProductID, ev.ProductName)
	if !ok {
		err := fmt.Errorf("product not recognized: id=%q name=%q", ev.ProductID, ev.ProductName)
		s.markProcessed(ctx, stored.ID, err)
		return Outcome{Code: http.StatusBadRequest, Reason: "product_not_recognized", Err: err}
	}

	userID, err := s.repo.FindUserIDByEmail(ctx, ev.Email())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// The purchase cannot be applied yet; the stored payload allows a
			// manual replay once the account exists.
			err := fmt.Errorf("no user for purchase email %s", ev.Email())
			s.markProcessed(ctx, stored.ID, err)
			return Outcome{Code: http.StatusNotFound, Reason: "user_not_found", Err: err}
		}
		s.markProcessed(ctx, stored.ID, err)
		return Outcome{Code: http.StatusInternalServerError, Reason: "user_lookup_failed", Err: err}
	}

	profile, err := s.repo.GetOrCreateProfile(ctx, userID)
	if err != nil {
		s.markProcessed(ctx, stored.ID, err)
		return Outcome{Code: http.StatusInternalServerError, Reason: "profile_load_failed", Err: err}
	}

	profile.Plan = string(plan)
	profile.UpdatedAt = time.Now()
	if err := s.repo.SaveProfile(ctx, profile); err != nil {
		s.markProcessed(ctx, stored.ID, err)
		return Outcome{Code: http.StatusInternalServerError, Reason: "profile_write_failed", Err: err}
	}

	if s.notifier != nil {
		s.notifier.PlanChanged(userID, plan)
	}
	s.markProcessed(ctx, stored.ID, nil)
	return Outcome{
		Code:          http.StatusOK,
		Reason:        "applied",
		Applied:       true,
		Plan:          plan,
		CustomerEmail: ev.Email(),
		CustomerName:  ev.Customer.Name,
	}
}

func (s *Service) markProcessed(ctx context.Context, eventID uint, processingErr error) {
	errMsg := ""
	if processingErr != nil {
		errMsg = processingErr.Error()
	}
	if err := s.repo.MarkWebhookProcessed(ctx, eventID, errMsg); err != nil {
		log.Printf("[billing] failed to mark webhook event %d processed: %v", eventID, err)
	}
}
