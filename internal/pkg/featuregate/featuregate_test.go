package featuregate

import (
	"testing"

	"github.com/gestorpro/gestorpro/internal/pkg/entitlements"
)

func TestEvaluate_PendingWhileUnresolved(t *testing.T) {
	// Even a plan value that would be denied must not produce Denied before
	// resolution finishes.
	d := Evaluate(entitlements.PlanFree, false, entitlements.PlanPro)
	if d.State != Pending {
		t.Fatalf("expected pending, got %s", d.State)
	}
	if d.Denied() {
		t.Fatal("pending decision must not report denied")
	}
	if d.Allowed() {
		t.Fatal("pending decision must not report allowed")
	}
}

func TestEvaluate_ResolvedPlans(t *testing.T) {
	tests := []struct {
		name     string
		current  entitlements.Plan
		required entitlements.Plan
		want     State
	}{
		{"free meets free", entitlements.PlanFree, entitlements.PlanFree, Allowed},
		{"free denied premium", entitlements.PlanFree, entitlements.PlanPremium, Denied},
		{"premium meets premium", entitlements.PlanPremium, entitlements.PlanPremium, Allowed},
		{"premium denied pro", entitlements.PlanPremium, entitlements.PlanPro, Denied},
		{"pro meets everything", entitlements.PlanPro, entitlements.PlanFree, Allowed},
		{"pro meets pro", entitlements.PlanPro, entitlements.PlanPro, Allowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Evaluate(tt.current, true, tt.required)
			if d.State != tt.want {
				t.Errorf("Evaluate(%s, resolved, %s) = %s, want %s", tt.current, tt.required, d.State, tt.want)
			}
		})
	}
}

func TestEvaluate_CarriesUpgradeContext(t *testing.T) {
	d := Evaluate(entitlements.PlanFree, true, entitlements.PlanPremium)
	if d.RequiredPlan != entitlements.PlanPremium || d.CurrentPlan != entitlements.PlanFree {
		t.Fatalf("decision lost upgrade context: %+v", d)
	}
}

func TestEvaluateFeature(t *testing.T) {
	d, ok := EvaluateFeature(entitlements.PlanPremium, true, "clients")
	if !ok || d.State != Allowed {
		t.Fatalf("premium user should be allowed clients, got ok=%v state=%s", ok, d.State)
	}

	d, ok = EvaluateFeature(entitlements.PlanPremium, true, "employee_goals")
	if !ok || d.State != Denied {
		t.Fatalf("premium user should be denied employee_goals, got ok=%v state=%s", ok, d.State)
	}

	if _, ok := EvaluateFeature(entitlements.PlanPro, true, "no_such_feature"); ok {
		t.Fatal("unknown feature must report ok=false")
	}
}
