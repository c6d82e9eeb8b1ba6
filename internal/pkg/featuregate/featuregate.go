// Package featuregate answers whether a user may use a plan-gated feature.
// The evaluation is tri-state: while the user's plan is still being resolved
// the gate reports Pending instead of Denied, so callers never show an upsell
// or a denial screen to someone who will turn out to be entitled.
package featuregate

import "github.com/gestorpro/gestorpro/internal/pkg/entitlements"

// State is the gate's verdict for one feature check.
type State int

const (
	// Pending means the plan is not resolved yet; callers must not render a
	// denial while in this state.
	Pending State = iota
	Allowed
	Denied
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Allowed:
		return "allowed"
	case Denied:
		return "denied"
	default:
		return "unknown"
	}
}

// Decision carries the verdict plus enough context for an upgrade prompt.
type Decision struct {
	State        State
	RequiredPlan entitlements.Plan
	CurrentPlan  entitlements.Plan
}

// Allowed reports whether the feature may be used right now.
func (d Decision) Allowed() bool { return d.State == Allowed }

// Denied reports whether a denial may be rendered. It is false while Pending.
func (d Decision) Denied() bool { return d.State == Denied }

// Evaluate gates a feature that requires at least the given plan. When the
// caller's plan has not been resolved yet, the result is Pending regardless of
// the plan value they carry.
func Evaluate(current entitlements.Plan, resolved bool, required entitlements.Plan) Decision {
	d := Decision{RequiredPlan: required, CurrentPlan: current}
	if !resolved {
		d.State = Pending
		return d
	}
	if entitlements.HasAccess(current, required) {
		d.State = Allowed
	} else {
		d.State = Denied
	}
	return d
}

// Feature keys exposed over the API. Each maps to the minimum plan that
// unlocks it.
var featurePlans = map[string]entitlements.Plan{
	"clients":         entitlements.PlanPremium,
	"employee_bonus":  entitlements.PlanPremium,
	"employee_goals":  entitlements.PlanPro,
	"revenue_history": entitlements.PlanPremium,
	"reports":         entitlements.PlanPremium,
	"export":          entitlements.PlanPremium,
	"dashboard":       entitlements.PlanFree,
}

// RequiredPlan returns the minimum plan for a named feature. Unknown features
// report false.
func RequiredPlan(feature string) (entitlements.Plan, bool) {
	p, ok := featurePlans[feature]
	return p, ok
}

// EvaluateFeature gates a named feature key. An unknown key is always denied
// regardless of resolution state; the pending guard protects entitled users
// of real features, not typos.
func EvaluateFeature(current entitlements.Plan, resolved bool, feature string) (Decision, bool) {
	required, ok := RequiredPlan(feature)
	if !ok {
		return Decision{State: Denied, CurrentPlan: current}, false
	}
	return Evaluate(current, resolved, required), true
}
