package schedule

import "net/http"

const (
	// MaxContinuousHours caps a single appointment.
	MaxContinuousHours = 6.0
	// MaxDailyHours caps one day of work across a linked workplace group.
	MaxDailyHours = 8.0
	// MinRestMinutes is the rest required between the last appointment of a
	// day and the first one of the next.
	MinRestMinutes = 11 * 60
)

// Rule names the check that rejected a candidate.
type Rule string

const (
	RuleInvalidData      Rule = "invalid_data"
	RuleUnknownWorkplace Rule = "unknown_workplace"
	RuleContinuousLimit  Rule = "continuous_limit"
	RuleOverlap          Rule = "overlap"
	RuleDailyLimit       Rule = "daily_limit"
	RuleGracePeriod      Rule = "grace_period"
	RuleRestPeriod       Rule = "rest_period"
)

// Violation is the rejection of a candidate appointment. It is returned as an
// error by Engine.Validate and satisfies apierror.ErrorResponse.
type Violation struct {
	Rule   Rule   `json:"rule"`
	Reason string `json:"message"`
}

func (v *Violation) Error() string {
	return v.Reason
}

func (v *Violation) Code() int {
	return http.StatusBadRequest
}

func reject(rule Rule, reason string) *Violation {
	return &Violation{Rule: rule, Reason: reason}
}
