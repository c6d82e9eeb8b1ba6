package billing

import (
	"testing"

	"github.com/gestorpro/gestorpro/internal/pkg/entitlements"
)

func TestProductCatalog_ResolveByID(t *testing.T) {
	catalog := DefaultCatalog()

	plan, ok := catalog.Resolve("prod_pro_1", "")
	if !ok || plan != entitlements.PlanPro {
		t.Fatalf("Resolve(prod_pro_1) = %q,%v, want pro,true", plan, ok)
	}
	plan, ok = catalog.Resolve("prod_premium_1", "")
	if !ok || plan != entitlements.PlanPremium {
		t.Fatalf("Resolve(prod_premium_1) = %q,%v, want premium,true", plan, ok)
	}
}

func TestProductCatalog_ResolveByNameFallback(t *testing.T) {
	catalog := DefaultCatalog()

	tests := []struct {
		name string
		want entitlements.Plan
	}{
		{name: "Plano Pro", want: entitlements.PlanPro},
		{name: "PLANO PREMIUM Anual", want: entitlements.PlanPremium},
		{name: "GestorPro Premium", want: entitlements.PlanPremium},
	}
	for _, tt := range tests {
		plan, ok := catalog.Resolve("unknown_id", tt.name)
		if !ok || plan != tt.want {
			t.Fatalf("Resolve(unknown_id, %q) = %q,%v, want %q,true", tt.name, plan, ok, tt.want)
		}
	}
}

func TestProductCatalog_Unrecognized(t *testing.T) {
	catalog := DefaultCatalog()

	if _, ok := catalog.Resolve("nope", "Curso de Marketing"); ok {
		t.Fatalf("expected unrecognized product to not resolve")
	}
	if _, ok := catalog.Resolve("", ""); ok {
		t.Fatalf("expected empty product to not resolve")
	}
}
