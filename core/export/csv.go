// Package export serializes roster and session data to CSV for the
// back-office download buttons.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/academykit/kiosk/core/student"
)

// Export kinds, used in download filenames.
const (
	KindRoster   = "roster"
	KindSessions = "sessions"
)

var rosterHeader = []string{
	"First Name", "Last Name", "PIN", "ID Number", "Email", "Phone",
	"Street", "City", "State", "Zip Code", "Foreign Address", "Status",
	"Source", "Registration Date", "End of Class Date",
	"End of Practice Date", "Last Checkout Date",
}

var sessionsHeader = []string{
	"Student Name", "PIN", "Email", "Check-in Date/Time",
	"Check-out Date/Time", "Hours",
}

// Filename builds the download name: <kind>-<ISO date>.csv.
func Filename(kind string, t time.Time) string {
	return fmt.Sprintf("%s-%s.csv", kind, t.Format("2006-01-02"))
}

// Roster writes one row per student. Missing values render empty,
// except Last Checkout Date which renders "Never".
func Roster(w io.Writer, students []student.Student) error {
	if err := writeRow(w, rosterHeader); err != nil {
		return err
	}
	for _, s := range students {
		lastCheckout := "Never"
		if sum := student.Summarize(s.Sessions); sum.LastCheckout.Valid {
			lastCheckout = shortDate(sum.LastCheckout)
		}
		row := []string{
			s.FirstName, s.LastName, s.PIN, s.IDNumber, s.Email, s.Phone,
			s.Street, s.City, s.State, s.ZipCode, s.ForeignAddress, s.Status,
			s.Source,
			shortDate(s.RegistrationDate),
			shortDate(s.EndOfClassDate),
			shortDate(s.EndOfPracticeDate),
			lastCheckout,
		}
		if err := writeRow(w, row); err != nil {
			return err
		}
	}
	return nil
}

// Sessions writes one row per session; students without sessions
// contribute none. Open sessions render "In Progress" for the checkout.
func Sessions(w io.Writer, students []student.Student) error {
	if err := writeRow(w, sessionsHeader); err != nil {
		return err
	}
	for _, s := range students {
		for _, sess := range s.Sessions {
			checkout := "In Progress"
			if sess.CheckOut.Valid {
				checkout = shortDateTime(sess.CheckOut.Time)
			}
			hours := ""
			if sess.Hours.Valid {
				hours = fmt.Sprintf("%.2f", sess.Hours.Float64)
			}
			row := []string{
				s.FullName(), s.PIN, s.Email,
				shortDateTime(sess.CheckIn),
				checkout,
				hours,
			}
			if err := writeRow(w, row); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeRow quotes every field, doubling embedded quotes. The stdlib csv
// writer only quotes fields that need it, which does not match the
// exports consumers already parse.
func writeRow(w io.Writer, fields []string) error {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	if _, err := io.WriteString(w, strings.Join(quoted, ",")+"\n"); err != nil {
		return errors.Wrap(err, "writing csv row")
	}
	return nil
}

func shortDate(t null.Time) string {
	if !t.Valid {
		return ""
	}
	return t.Time.Format("1/2/2006")
}

func shortDateTime(t time.Time) string {
	return t.Format("1/2/2006, 3:04:05 PM")
}
