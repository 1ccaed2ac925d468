package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/academykit/kiosk/core/student"
)

func CreateStudent(
	t *testing.T,
	repo student.Repository,
	first, last, pin, status string,
	games []string,
	sessions ...student.Session,
) student.Student {
	t.Helper()

	s, err := repo.CreateStudent(context.Background(), student.Student{
		FirstName: first,
		LastName:  last,
		PIN:       pin,
		Status:    status,
		Games:     games,
		Sessions:  sessions,
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return s
}

// Session builds a closed check-in/check-out pair; pass a zero checkOut
// for an open one.
func Session(checkIn, checkOut time.Time) student.Session {
	sess := student.Session{CheckIn: checkIn}
	if !checkOut.IsZero() {
		sess.CheckOut = null.TimeFrom(checkOut)
		sess.Hours = null.Float64From(checkOut.Sub(checkIn).Hours())
	}
	return sess
}
