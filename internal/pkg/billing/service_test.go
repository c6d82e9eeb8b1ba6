package billing

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/gestorpro/gestorpro/app/models"
	"github.com/gestorpro/gestorpro/internal/pkg/entitlements"
)

type fakeRepo struct {
	usersByEmail map[string]uint
	profiles     map[uint]*models.Profile
	events       map[string]*models.PaymentWebhookEvent
	nextEventID  uint
	saveErr      error
	saveCount    int
	processed    map[uint]string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		usersByEmail: make(map[string]uint),
		profiles:     make(map[uint]*models.Profile),
		events:       make(map[string]*models.PaymentWebhookEvent),
		processed:    make(map[uint]string),
	}
}

func (r *fakeRepo) FindUserIDByEmail(ctx context.Context, email string) (uint, error) {
	if id, ok := r.usersByEmail[email]; ok {
		return id, nil
	}
	return 0, gorm.ErrRecordNotFound
}

func (r *fakeRepo) GetOrCreateProfile(ctx context.Context, userID uint) (*models.Profile, error) {
	// Return a detached copy, mirroring a DB read: mutations by the caller
	// must not reach the stored row until SaveProfile succeeds.
	if p, ok := r.profiles[userID]; ok {
		cp := *p
		return &cp, nil
	}
	p := models.Profile{UserID: userID, Plan: "free"}
	r.profiles[userID] = &p
	cp := p
	return &cp, nil
}

func (r *fakeRepo) SaveProfile(ctx context.Context, p *models.Profile) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saveCount++
	cp := *p
	r.profiles[p.UserID] = &cp
	return nil
}

func (r *fakeRepo) CreateWebhookEventIfNotExists(ctx context.Context, event *models.PaymentWebhookEvent) (bool, *models.PaymentWebhookEvent, error) {
	key := event.Provider + ":" + event.ProviderEventID
	if stored, ok := r.events[key]; ok {
		return false, stored, nil
	}
	r.nextEventID++
	event.ID = r.nextEventID
	r.events[key] = event
	return true, event, nil
}

func (r *fakeRepo) MarkWebhookProcessed(ctx context.Context, id uint, processingError string) error {
	r.processed[id] = processingError
	for _, ev := range r.events {
		if ev.ID == id {
			now := time.Now()
			ev.ProcessedAt = &now
			ev.ProcessingError = processingError
		}
	}
	return nil
}

type fakeNotifier struct {
	calls []string
}

func (n *fakeNotifier) PlanChanged(userID uint, plan entitlements.Plan) {
	n.calls = append(n.calls, fmt.Sprintf("%d:%s", userID, plan))
}

const testSecret = "s"

func paidProBody() []byte {
	return []byte(`{"order_id":"1","order_status":"paid","product_id":"prod_pro_1","product_name":"Plano Pro","customer":{"email":"a@b.com","name":"A"},"payment":{"status":"paid","method":"card","amount":100}}`)
}

func TestProcessEvent_AppliesPaidOrder(t *testing.T) {
	repo := newFakeRepo()
	repo.usersByEmail["a@b.com"] = 7
	notifier := &fakeNotifier{}
	svc := NewService(repo, DefaultCatalog(), testSecret, notifier)

	body := paidProBody()
	out := svc.ProcessEvent(context.Background(), body, signPayload(body, testSecret))

	assert.Equal(t, http.StatusOK, out.Code)
	assert.True(t, out.Applied)
	assert.Equal(t, entitlements.PlanPro, out.Plan)
	require.Contains(t, repo.profiles, uint(7))
	assert.Equal(t, "pro", repo.profiles[7].Plan)
	assert.Equal(t, []string{"7:pro"}, notifier.calls)
	require.Len(t, repo.events, 1)
	for _, ev := range repo.events {
		assert.True(t, ev.SignatureValid)
	}
}

func TestProcessEvent_InvalidPayload(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, DefaultCatalog(), testSecret, nil)

	out := svc.ProcessEvent(context.Background(), []byte("not json"), "")

	assert.Equal(t, http.StatusBadRequest, out.Code)
	assert.Equal(t, "invalid_payload", out.Reason)
	assert.Empty(t, repo.profiles)
	assert.Empty(t, repo.events)
}

func TestProcessEvent_InvalidSignature(t *testing.T) {
	repo := newFakeRepo()
	repo.usersByEmail["a@b.com"] = 7
	svc := NewService(repo, DefaultCatalog(), testSecret, nil)

	out := svc.ProcessEvent(context.Background(), paidProBody(), "deadbeef")

	assert.Equal(t, http.StatusUnauthorized, out.Code)
	assert.Equal(t, "invalid_signature", out.Reason)
	assert.Equal(t, "free", mustProfilePlan(repo, 7))
	assert.Empty(t, repo.events)
}

func TestProcessEvent_NoSecretSkipsVerification(t *testing.T) {
	repo := newFakeRepo()
	repo.usersByEmail["a@b.com"] = 7
	svc := NewService(repo, DefaultCatalog(), "", nil)

	out := svc.ProcessEvent(context.Background(), paidProBody(), "")

	assert.Equal(t, http.StatusOK, out.Code)
	assert.True(t, out.Applied)
	assert.Equal(t, "pro", repo.profiles[7].Plan)
	// The stored event must not claim a verification that never ran.
	require.Len(t, repo.events, 1)
	for _, ev := range repo.events {
		assert.False(t, ev.SignatureValid)
	}
}

func TestProcessEvent_PendingStatusIgnored(t *testing.T) {
	repo := newFakeRepo()
	repo.usersByEmail["a@b.com"] = 7
	svc := NewService(repo, DefaultCatalog(), testSecret, nil)

	body := []byte(`{"order_id":"2","order_status":"pending","product_id":"prod_pro_1","product_name":"Plano Pro","customer":{"email":"a@b.com"},"payment":{"status":"pending"}}`)
	out := svc.ProcessEvent(context.Background(), body, signPayload(body, testSecret))

	assert.Equal(t, http.StatusOK, out.Code)
	assert.True(t, out.Ignored)
	assert.Equal(t, "free", mustProfilePlan(repo, 7))
}

func TestProcessEvent_NonPaidStatusesNeverMutate(t *testing.T) {
	for _, status := range []string{"pending", "refused", "refunded", "cancelled"} {
		repo := newFakeRepo()
		repo.usersByEmail["a@b.com"] = 7
		svc := NewService(repo, DefaultCatalog(), testSecret, nil)

		body := []byte(fmt.Sprintf(`{"order_id":"o-%s","order_status":"%s","product_id":"prod_pro_1","customer":{"email":"a@b.com"},"payment":{"status":"%s"}}`, status, status, status))
		out := svc.ProcessEvent(context.Background(), body, signPayload(body, testSecret))

		assert.Equal(t, http.StatusOK, out.Code, status)
		assert.True(t, out.Ignored, status)
		assert.Zero(t, repo.saveCount, status)
	}
}

func TestProcessEvent_UnrecognizedProduct(t *testing.T) {
	repo := newFakeRepo()
	repo.usersByEmail["a@b.com"] = 7
	svc := NewService(repo, DefaultCatalog(), testSecret, nil)

	body := []byte(`{"order_id":"3","order_status":"paid","product_id":"prod_unknown","product_name":"Curso de Marketing","customer":{"email":"a@b.com"},"payment":{"status":"paid"}}`)
	out := svc.ProcessEvent(context.Background(), body, signPayload(body, testSecret))

	assert.Equal(t, http.StatusBadRequest, out.Code)
	assert.Equal(t, "product_not_recognized", out.Reason)
	assert.Equal(t, "free", mustProfilePlan(repo, 7))
}

func TestProcessEvent_NoMatchingUser(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, DefaultCatalog(), testSecret, nil)

	body := paidProBody()
	out := svc.ProcessEvent(context.Background(), body, signPayload(body, testSecret))

	assert.Equal(t, http.StatusNotFound, out.Code)
	assert.Equal(t, "user_not_found", out.Reason)
	assert.Zero(t, repo.saveCount)
	// The payload stays recorded with its error for manual replay.
	require.Len(t, repo.events, 1)
	assert.NotEmpty(t, repo.processed[1])
}

func TestProcessEvent_DuplicateDeliveryShortCircuits(t *testing.T) {
	repo := newFakeRepo()
	repo.usersByEmail["a@b.com"] = 7
	svc := NewService(repo, DefaultCatalog(), testSecret, nil)

	body := paidProBody()
	sig := signPayload(body, testSecret)

	first := svc.ProcessEvent(context.Background(), body, sig)
	second := svc.ProcessEvent(context.Background(), body, sig)

	assert.True(t, first.Applied)
	assert.Equal(t, http.StatusOK, second.Code)
	assert.True(t, second.Duplicate)
	assert.Equal(t, 1, repo.saveCount)
	assert.Equal(t, "pro", repo.profiles[7].Plan)
}

func TestProcessEvent_RetryAfterPersistenceFailureApplies(t *testing.T) {
	repo := newFakeRepo()
	repo.usersByEmail["a@b.com"] = 7
	repo.saveErr = fmt.Errorf("disk full")
	svc := NewService(repo, DefaultCatalog(), testSecret, nil)

	body := paidProBody()
	sig := signPayload(body, testSecret)

	first := svc.ProcessEvent(context.Background(), body, sig)
	assert.Equal(t, http.StatusInternalServerError, first.Code)
	assert.Equal(t, "free", mustProfilePlan(repo, 7))

	// The provider redelivers the identical event once the store recovers.
	// The stored row carries the processing error, so the redelivery must run
	// the pipeline again instead of short-circuiting as a duplicate.
	repo.saveErr = nil
	second := svc.ProcessEvent(context.Background(), body, sig)

	assert.Equal(t, http.StatusOK, second.Code)
	assert.True(t, second.Applied)
	assert.False(t, second.Duplicate)
	assert.Equal(t, "pro", repo.profiles[7].Plan)
	assert.Equal(t, 1, repo.saveCount)
}

func TestProcessEvent_ProfileWriteFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.usersByEmail["a@b.com"] = 7
	repo.saveErr = fmt.Errorf("disk full")
	svc := NewService(repo, DefaultCatalog(), testSecret, nil)

	body := paidProBody()
	out := svc.ProcessEvent(context.Background(), body, signPayload(body, testSecret))

	assert.Equal(t, http.StatusInternalServerError, out.Code)
	assert.Equal(t, "profile_write_failed", out.Reason)
}

func mustProfilePlan(repo *fakeRepo, userID uint) string {
	if p, ok := repo.profiles[userID]; ok {
		return p.Plan
	}
	return "free"
}
