// Package quota maps a subscription plan to its per-run row quota. It
// is a pure function: the host consults it before invoking the engine,
// the engine itself never calls it.
package quota

// Plan is a closed enum of subscription tiers.
type Plan string

const (
	PlanFree     Plan = "free"
	PlanBasic    Plan = "basic"
	PlanAdvanced Plan = "advanced"
)

// Limit returns the row quota for plan. unlimited is true only for
// PlanAdvanced, in which case limit is 0 and must not be interpreted
// as "zero rows allowed".
func Limit(plan Plan) (limit int, unlimited bool) {
	switch plan {
	case PlanFree:
		return 3, false
	case PlanBasic:
		return 100, false
	case PlanAdvanced:
		return 0, true
	default:
		return 0, false
	}
}
