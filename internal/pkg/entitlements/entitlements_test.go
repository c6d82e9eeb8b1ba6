package entitlements

import "testing"

func TestNormalizePlan(t *testing.T) {
	tests := []struct {
		in   string
		want Plan
	}{
		{in: "free", want: PlanFree},
		{in: "premium", want: PlanPremium},
		{in: "pro", want: PlanPro},
		{in: "PRO", want: PlanPro},
		{in: " premium ", want: PlanPremium},
		{in: "gratuito", want: PlanFree},
		{in: "invalid", want: PlanFree},
		{in: "", want: PlanFree},
	}

	for _, tt := range tests {
		if got := NormalizePlan(tt.in); got != tt.want {
			t.Fatalf("NormalizePlan(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRankOrdering(t *testing.T) {
	if Rank(PlanFree) != 0 || Rank(PlanPremium) != 1 || Rank(PlanPro) != 2 {
		t.Fatalf("unexpected ranks: free=%d premium=%d pro=%d", Rank(PlanFree), Rank(PlanPremium), Rank(PlanPro))
	}
}

func TestHasAccess_AllPairs(t *testing.T) {
	plans := []Plan{PlanFree, PlanPremium, PlanPro}
	for _, user := range plans {
		for _, required := range plans {
			want := Rank(user) >= Rank(required)
			if got := HasAccess(user, required); got != want {
				t.Fatalf("HasAccess(%q, %q) = %v, want %v", user, required, got, want)
			}
		}
	}
}

func TestDisplayName(t *testing.T) {
	if got := DisplayName(PlanFree); got != "gratuito" {
		t.Fatalf("DisplayName(free) = %q, want gratuito", got)
	}
	if got := DisplayName(PlanPro); got != "pro" {
		t.Fatalf("DisplayName(pro) = %q, want pro", got)
	}
	if got := DisplayName(Plan("bogus")); got != "gratuito" {
		t.Fatalf("DisplayName(bogus) = %q, want gratuito", got)
	}
}

func TestIsValid(t *testing.T) {
	for _, raw := range []string{"free", "premium", "pro"} {
		if !IsValid(raw) {
			t.Fatalf("expected %q to be valid", raw)
		}
	}
	for _, raw := range []string{"", "FREE", "gratuito", "enterprise"} {
		if IsValid(raw) {
			t.Fatalf("expected %q to be invalid", raw)
		}
	}
}

func TestPlanCapabilities(t *testing.T) {
	if CanManageClients(PlanFree) {
		t.Fatalf("expected client management to be locked on free")
	}
	if !CanEmployeeBonus(PlanPremium) || CanEmployeeBonus(PlanFree) {
		t.Fatalf("expected bonus tracking to start at premium")
	}
	if !CanEmployeeGoals(PlanPro) || CanEmployeeGoals(PlanPremium) {
		t.Fatalf("expected employee goals to require pro")
	}
	if MaxEmployees(PlanPro) != 0 {
		t.Fatalf("expected pro employees to be unlimited")
	}
	if MaxEmployees(PlanFree) >= MaxEmployees(PlanPremium) {
		t.Fatalf("expected premium to allow more employees than free")
	}
}
