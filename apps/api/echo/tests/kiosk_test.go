package tests

import (
	"context"
	"net/http"
	"testing"

	. "github.com/academykit/kiosk/apps/api/echo"
	"github.com/academykit/kiosk/core/student"
	testutil "github.com/academykit/kiosk/tests"
)

func Test_kioskApi_login(t *testing.T) {
	app := setup(t)

	alice := testutil.CreateStudent(t, app.studentRepo, "Alice", "Brown", "1234", student.StatusCurrent, nil)
	suspended := testutil.CreateStudent(t, app.studentRepo, "Sam", "Stone", "6666", student.StatusSuspended, nil)

	tests := []httpTest{
		{
			name: "ok", body: []byte(`{"pin": "1234"}`), wantCode: http.StatusOK,
			wantData: marchallObj(t, LoginResponse{
				Student:  alice,
				Summary:  student.Summarize(nil),
				Decision: student.Decision{Allowed: true},
			}),
		},
		{
			name: "whitespace around the PIN is ignored", body: []byte(`{"pin": " 1234 "}`),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, LoginResponse{
				Student:  alice,
				Summary:  student.Summarize(nil),
				Decision: student.Decision{Allowed: true},
			}),
		},
		{
			// login itself succeeds for a blocked student; the decision
			// tells the kiosk to disable its check-in button
			name: "suspended student can log in", body: []byte(`{"pin": "6666"}`), wantCode: http.StatusOK,
			wantData: marchallObj(t, LoginResponse{
				Student: suspended,
				Summary: student.Summarize(nil),
				Decision: student.Decision{
					Reason: `check-in is not allowed for "Suspended" students`,
				},
			}),
		},
		{
			name: "unknown PIN", body: []byte(`{"pin": "0000"}`), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "invalid PIN"}),
		},
		{
			name: "missing PIN", body: []byte(`{}`), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"pin": "this field is required"}),
		},
		{
			name: "non-digit PIN", body: []byte(`{"pin": "12ab"}`), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"pin": "a PIN may only contain digits"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.request(http.MethodPost, "/v1/kiosk/login", tt.body)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_kioskApi_checkInOut(t *testing.T) {
	app := setup(t)
	ctx := context.Background()

	alice := testutil.CreateStudent(t, app.studentRepo, "Alice", "Brown", "1234", student.StatusCurrent, nil)
	suspended := testutil.CreateStudent(t, app.studentRepo, "Sam", "Stone", "6666", student.StatusSuspended, nil)

	t.Run("check in", func(t *testing.T) {
		rec := app.request(http.MethodPost, "/v1/kiosk/checkin/"+alice.ID)
		if rec.Code != http.StatusOK {
			t.Fatalf("checkin code = %d, body %s", rec.Code, rec.Body.String())
		}

		refreshed, err := app.studentRepo.GetStudent(ctx, alice.ID)
		if err != nil {
			t.Fatalf("GetStudent() failed: %v", err)
		}
		if !student.Summarize(refreshed.Sessions).HasActiveSession {
			t.Error("checkin did not open a session")
		}
	})

	t.Run("double check in conflicts", func(t *testing.T) {
		rec := app.request(http.MethodPost, "/v1/kiosk/checkin/"+alice.ID)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusConflict,
			wantData: marchallObj(t, httpErr{Error: "student is already checked in"}),
		}, rec)
	})

	t.Run("check out", func(t *testing.T) {
		rec := app.request(http.MethodPost, "/v1/kiosk/checkout/"+alice.ID)
		if rec.Code != http.StatusOK {
			t.Fatalf("checkout code = %d, body %s", rec.Code, rec.Body.String())
		}

		refreshed, _ := app.studentRepo.GetStudent(ctx, alice.ID)
		if student.Summarize(refreshed.Sessions).HasActiveSession {
			t.Error("checkout left the session open")
		}
	})

	t.Run("check out without a session conflicts", func(t *testing.T) {
		rec := app.request(http.MethodPost, "/v1/kiosk/checkout/"+alice.ID)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusConflict,
			wantData: marchallObj(t, httpErr{Error: "student has no active session"}),
		}, rec)
	})

	t.Run("blocked status is forbidden with the reason", func(t *testing.T) {
		rec := app.request(http.MethodPost, "/v1/kiosk/checkin/"+suspended.ID)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: `check-in is not allowed for "Suspended" students`}),
		}, rec)
	})

	t.Run("unknown student", func(t *testing.T) {
		rec := app.request(http.MethodPost, "/v1/kiosk/checkin/99999")
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "student not found"}),
		}, rec)
	})
}
