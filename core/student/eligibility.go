package student

import (
	"fmt"
	"time"

	"github.com/academykit/kiosk/core"
	"github.com/academykit/kiosk/core/settings"
)

// Decision is the outcome of an eligibility check. A blocked decision is
// not an error: it is a deliberate answer with a human-readable reason.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// Evaluate decides whether the student may check in at `now` under conf.
// Rules are applied in order; the first failing rule wins:
//  1. a blocked status forbids check-in,
//  2. an enforced, elapsed class end date forbids check-in,
//  3. an enforced, elapsed practice end date forbids check-in.
// Date rules compare calendar dates only; the end date itself is still
// a valid check-in day.
func Evaluate(s Student, conf settings.Settings, now time.Time) Decision {
	if conf.Blocks(s.Status) {
		return Decision{Reason: fmt.Sprintf("check-in is not allowed for %q students", s.Status)}
	}

	if conf.EnforceClassEndDate && s.EndOfClassDate.Valid {
		if core.DateBefore(s.EndOfClassDate.Time, now) {
			return Decision{Reason: "your class end date has passed"}
		}
	}
	if conf.EnforcePracticeEndDate && s.EndOfPracticeDate.Valid {
		if core.DateBefore(s.EndOfPracticeDate.Time, now) {
			return Decision{Reason: "your practice end date has passed"}
		}
	}
	return Decision{Allowed: true}
}
