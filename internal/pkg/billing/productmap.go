package billing

import (
	"strings"

	"github.com/gestorpro/gestorpro/internal/pkg/entitlements"
)

// NameRule grants a plan when its fragment occurs in the purchased product
// name (case-insensitive).
type NameRule struct {
	Fragment string
	Plan     entitlements.Plan
}

// ProductCatalog maps provider products to internal plans. Lookup is by
// product_id first, then a case-insensitive substring match against known
// product names. The catalog is configuration, not core logic; deployments
// override it at construction time.
type ProductCatalog struct {
	byID   map[string]entitlements.Plan
	byName []NameRule
}

// NewProductCatalog builds a catalog from explicit tables. Name rules are
// matched in order; put the more specific fragments first.
func NewProductCatalog(byID map[string]entitlements.Plan, byName []NameRule) *ProductCatalog {
	return &ProductCatalog{byID: byID, byName: byName}
}

// DefaultCatalog covers the products currently sold on the provider checkout.
func DefaultCatalog() *ProductCatalog {
	return &ProductCatalog{
		byID: map[string]entitlements.Plan{
			"prod_premium_1": entitlements.PlanPremium,
			"prod_pro_1":     entitlements.PlanPro,
		},
		byName: []NameRule{
			{Fragment: "plano premium", Plan: entitlements.PlanPremium},
			{Fragment: "plano pro", Plan: entitlements.PlanPro},
			{Fragment: "premium", Plan: entitlements.PlanPremium},
			{Fragment: "pro", Plan: entitlements.PlanPro},
		},
	}
}

// Resolve returns the plan a purchased product grants, or false when neither
// the id nor the name matches.
func (c *ProductCatalog) Resolve(productID, productName string) (entitlements.Plan, bool) {
	if plan, ok := c.byID[strings.TrimSpace(productID)]; ok {
		return plan, true
	}

	name := strings.ToLower(strings.TrimSpace(productName))
	if name == "" {
		return entitlements.PlanFree, false
	}
	for _, rule := range c.byName {
		if strings.Contains(name, rule.Fragment) {
			return rule.Plan, true
		}
	}
	return entitlements.PlanFree, false
}
