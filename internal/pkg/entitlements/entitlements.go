package entitlements

import "strings"

type Plan string

const (
	PlanFree    Plan = "free"
	PlanPremium Plan = "premium"
	PlanPro     Plan = "pro"
)

// User-facing plan names (pt-BR copy). The canonical internal values are the
// english ones; the display names exist only at the presentation boundary.
var displayNames = map[Plan]string{
	PlanFree:    "gratuito",
	PlanPremium: "premium",
	PlanPro:     "pro",
}

// NormalizePlan maps arbitrary stored/incoming plan strings to the canonical
// enumeration. Unknown or empty values normalize to free.
func NormalizePlan(plan string) Plan {
	switch strings.ToLower(strings.TrimSpace(plan)) {
	case string(PlanPremium):
		return PlanPremium
	case string(PlanPro):
		return PlanPro
	case string(PlanFree), "gratuito":
		return PlanFree
	default:
		return PlanFree
	}
}

// Rank returns the position of a plan in the total order free < premium < pro.
func Rank(plan Plan) int {
	switch NormalizePlan(string(plan)) {
	case PlanPro:
		return 2
	case PlanPremium:
		return 1
	default:
		return 0
	}
}

// HasAccess reports whether a user on userPlan may use a feature that
// requires requiredPlan.
func HasAccess(userPlan, requiredPlan Plan) bool {
	return Rank(userPlan) >= Rank(requiredPlan)
}

// DisplayName returns the user-facing name for a plan ("gratuito" for free).
func DisplayName(plan Plan) string {
	if name, ok := displayNames[NormalizePlan(string(plan))]; ok {
		return name
	}
	return displayNames[PlanFree]
}

// ParseExternal maps a payment-provider plan name to the internal enumeration.
// The provider uses the same english names as the canonical set.
func ParseExternal(plan string) Plan {
	return NormalizePlan(plan)
}

// IsValid reports whether the raw string is one of the three canonical values.
// Used to detect malformed profile rows before falling back to free.
func IsValid(plan string) bool {
	switch Plan(plan) {
	case PlanFree, PlanPremium, PlanPro:
		return true
	default:
		return false
	}
}

// MaxEmployees returns how many employee records a plan may hold. Zero means
// unlimited.
func MaxEmployees(plan Plan) int {
	switch NormalizePlan(string(plan)) {
	case PlanPro:
		return 0
	case PlanPremium:
		return 15
	default:
		return 3
	}
}

// MaxClients returns how many client records a plan may hold. Zero means
// unlimited. Client management starts at premium.
func MaxClients(plan Plan) int {
	switch NormalizePlan(string(plan)) {
	case PlanPro:
		return 0
	case PlanPremium:
		return 25
	default:
		return 0
	}
}

// CanManageClients reports whether the client module is available at all.
func CanManageClients(plan Plan) bool {
	return HasAccess(plan, PlanPremium)
}

// CanEmployeeBonus reports whether monthly bonus tracking is available.
func CanEmployeeBonus(plan Plan) bool {
	return HasAccess(plan, PlanPremium)
}

// CanEmployeeGoals reports whether per-employee goal/revenue tracking is available.
func CanEmployeeGoals(plan Plan) bool {
	return HasAccess(plan, PlanPro)
}
