package student

import (
	"sort"

	"github.com/volatiletech/null/v8"
)

// Summary holds the per-student metrics derived from a session list.
type Summary struct {
	Count            int       `json:"count"`
	TotalHours       float64   `json:"totalHours"`
	AverageHours     float64   `json:"averageHours"`
	HasActiveSession bool      `json:"hasActiveSession"`
	LastCheckout     null.Time `json:"lastCheckout"`
}

// Summarize computes the session metrics in one pass.
// More than one open session is a backend inconsistency; it still just
// reads as "has an active session".
func Summarize(sessions []Session) Summary {
	sum := Summary{Count: len(sessions)}
	for _, sess := range sessions {
		if sess.Hours.Valid {
			sum.TotalHours += sess.Hours.Float64
		}
		if sess.Active() {
			sum.HasActiveSession = true
		}
		if sess.CheckOut.Valid {
			if !sum.LastCheckout.Valid || sess.CheckOut.Time.After(sum.LastCheckout.Time) {
				sum.LastCheckout = sess.CheckOut
			}
		}
	}
	if sum.Count > 0 {
		sum.AverageHours = sum.TotalHours / float64(sum.Count)
	}
	return sum
}

// SessionView is a session decorated for display.
type SessionView struct {
	Session
	Latest bool `json:"latest"`
	Active bool `json:"active"`
}

// History returns the sessions most-recent-first by check-in time.
// The most recent one is flagged Latest; open sessions are flagged
// Active regardless of recency.
func History(sessions []Session) []SessionView {
	views := make([]SessionView, len(sessions))
	for i, sess := range sessions {
		views[i] = SessionView{Session: sess, Active: sess.Active()}
	}
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].CheckIn.After(views[j].CheckIn)
	})
	if len(views) > 0 {
		views[0].Latest = true
	}
	return views
}
