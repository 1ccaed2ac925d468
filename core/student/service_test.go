package student

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/academykit/kiosk/core/settings"
)

// fakeRepository is a minimal in-memory Repository for service tests.
type fakeRepository struct {
	students map[string]*Student
	order    []string
	now      time.Time
}

var _ Repository = (*fakeRepository)(nil)

func newFakeRepository(now time.Time, students ...Student) *fakeRepository {
	repo := &fakeRepository{students: make(map[string]*Student), now: now}
	for i := range students {
		s := students[i]
		repo.students[s.ID] = &s
		repo.order = append(repo.order, s.ID)
	}
	return repo
}

func (r *fakeRepository) QueryAllStudents(context.Context) ([]Student, error) {
	out := make([]Student, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.students[id])
	}
	return out, nil
}

func (r *fakeRepository) GetStudent(_ context.Context, id string) (Student, error) {
	if s, ok := r.students[id]; ok {
		return *s, nil
	}
	return Student{}, ErrNotFound
}

func (r *fakeRepository) FindStudentsByPIN(_ context.Context, pin string) ([]Student, error) {
	var matches []Student
	for _, id := range r.order {
		if s := r.students[id]; s.PIN == pin {
			matches = append(matches, *s)
		}
	}
	return matches, nil
}

func (r *fakeRepository) CreateStudent(_ context.Context, s Student) (Student, error) {
	r.students[s.ID] = &s
	r.order = append(r.order, s.ID)
	return s, nil
}

func (r *fakeRepository) UpdateStudent(_ context.Context, s Student) (Student, error) {
	if _, ok := r.students[s.ID]; !ok {
		return Student{}, ErrNotFound
	}
	r.students[s.ID] = &s
	return s, nil
}

func (r *fakeRepository) DeleteStudent(_ context.Context, id string) error {
	if _, ok := r.students[id]; !ok {
		return ErrNotFound
	}
	delete(r.students, id)
	return nil
}

func (r *fakeRepository) CheckInStudent(_ context.Context, id string) error {
	s, ok := r.students[id]
	if !ok {
		return ErrNotFound
	}
	s.Sessions = append(s.Sessions, Session{CheckIn: r.now})
	return nil
}

func (r *fakeRepository) CheckOutStudent(_ context.Context, id string) error {
	s, ok := r.students[id]
	if !ok {
		return ErrNotFound
	}
	for i := range s.Sessions {
		if s.Sessions[i].Active() {
			s.Sessions[i].CheckOut = null.TimeFrom(r.now)
			s.Sessions[i].Hours = null.Float64From(r.now.Sub(s.Sessions[i].CheckIn).Hours())
			return nil
		}
	}
	return ErrNoActiveSession
}

func (r *fakeRepository) DeleteSession(_ context.Context, id string, index int) error {
	s, ok := r.students[id]
	if !ok {
		return ErrNotFound
	}
	if index < 0 || index >= len(s.Sessions) {
		return ErrNotFound
	}
	s.Sessions = append(s.Sessions[:index], s.Sessions[index+1:]...)
	return nil
}

// settingsStub serves one fixed Settings value.
type settingsStub struct {
	conf settings.Settings
}

func (s settingsStub) Get(context.Context) settings.Settings { return s.conf }
func (s settingsStub) Save(_ context.Context, conf settings.Settings) (settings.Settings, error) {
	return conf, nil
}

func newTestService(repo Repository, conf settings.Settings, now time.Time) ServiceInterface {
	return &service{
		repo:        repo,
		settingsSvc: settingsStub{conf: conf},
		now:         func() time.Time { return now },
	}
}

func Test_service_Login(t *testing.T) {
	now := time.Date(2021, 3, 15, 9, 0, 0, 0, time.UTC)
	repo := newFakeRepository(now,
		Student{ID: "1", FirstName: "Alice", PIN: "1234"},
		Student{ID: "2", FirstName: "Bob", PIN: "1234"},
		Student{ID: "3", FirstName: "Carol", PIN: "9999"},
	)
	svc := newTestService(repo, settings.Default(), now)
	ctx := context.Background()

	tests := []struct {
		name    string
		pin     string
		wantID  string
		wantErr error
	}{
		{name: "exact match", pin: "9999", wantID: "3"},
		{name: "surrounding whitespace ignored", pin: "  9999 ", wantID: "3"},
		{name: "first match wins on duplicate PINs", pin: "1234", wantID: "1"},
		{name: "unknown PIN", pin: "0000", wantErr: ErrNotFound},
		{name: "empty PIN", pin: "", wantErr: ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := svc.Login(ctx, tt.pin)
			if errors.Cause(err) != tt.wantErr {
				t.Fatalf("Login() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && s.ID != tt.wantID {
				t.Errorf("Login() ID = %s, want %s", s.ID, tt.wantID)
			}
		})
	}
}

func Test_service_CheckIn(t *testing.T) {
	now := time.Date(2021, 3, 15, 9, 0, 0, 0, time.UTC)
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		repo := newFakeRepository(now, Student{ID: "1", Status: StatusCurrent})
		svc := newTestService(repo, settings.Default(), now)

		s, err := svc.CheckIn(ctx, "1")
		if err != nil {
			t.Fatalf("CheckIn() error = %v", err)
		}
		// the returned copy is the refetched record with the open session
		if len(s.Sessions) != 1 || !s.Sessions[0].Active() {
			t.Errorf("CheckIn() sessions = %+v, want one open session", s.Sessions)
		}
	})

	t.Run("blocked status", func(t *testing.T) {
		repo := newFakeRepository(now, Student{ID: "1", Status: StatusSuspended})
		svc := newTestService(repo, settings.Default(), now)

		_, err := svc.CheckIn(ctx, "1")
		naErr, ok := errors.Cause(err).(*NotAllowedError)
		if !ok {
			t.Fatalf("CheckIn() error = %v, want *NotAllowedError", err)
		}
		if want := `check-in is not allowed for "Suspended" students`; naErr.Decision.Reason != want {
			t.Errorf("CheckIn() reason = %q, want %q", naErr.Decision.Reason, want)
		}
	})

	t.Run("already checked in", func(t *testing.T) {
		repo := newFakeRepository(now, Student{
			ID: "1", Status: StatusCurrent,
			Sessions: []Session{{CheckIn: now.Add(-time.Hour)}},
		})
		svc := newTestService(repo, settings.Default(), now)

		if _, err := svc.CheckIn(ctx, "1"); errors.Cause(err) != ErrAlreadyCheckedIn {
			t.Errorf("CheckIn() error = %v, want %v", err, ErrAlreadyCheckedIn)
		}
	})

	t.Run("unknown student", func(t *testing.T) {
		repo := newFakeRepository(now)
		svc := newTestService(repo, settings.Default(), now)

		if _, err := svc.CheckIn(ctx, "nope"); errors.Cause(err) != ErrNotFound {
			t.Errorf("CheckIn() error = %v, want %v", err, ErrNotFound)
		}
	})
}

func Test_service_CheckOut(t *testing.T) {
	now := time.Date(2021, 3, 15, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		repo := newFakeRepository(now, Student{
			ID: "1", Status: StatusCurrent,
			Sessions: []Session{{CheckIn: now.Add(-3 * time.Hour)}},
		})
		svc := newTestService(repo, settings.Default(), now)

		s, err := svc.CheckOut(ctx, "1")
		if err != nil {
			t.Fatalf("CheckOut() error = %v", err)
		}
		sess := s.Sessions[0]
		if sess.Active() {
			t.Error("CheckOut() session still active")
		}
		if !sess.Hours.Valid || sess.Hours.Float64 != 3 {
			t.Errorf("CheckOut() hours = %v, want 3", sess.Hours)
		}
	})

	t.Run("no active session", func(t *testing.T) {
		repo := newFakeRepository(now, Student{ID: "1", Status: StatusCurrent})
		svc := newTestService(repo, settings.Default(), now)

		if _, err := svc.CheckOut(ctx, "1"); errors.Cause(err) != ErrNoActiveSession {
			t.Errorf("CheckOut() error = %v, want %v", err, ErrNoActiveSession)
		}
	})
}

func Test_service_DeleteSession(t *testing.T) {
	now := time.Date(2021, 3, 15, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	repo := newFakeRepository(now, Student{
		ID: "1", Status: StatusCurrent,
		Sessions: []Session{
			{CheckIn: now.Add(-48 * time.Hour)},
			{CheckIn: now.Add(-24 * time.Hour)},
		},
	})
	svc := newTestService(repo, settings.Default(), now)

	s, err := svc.DeleteSession(ctx, "1", 0)
	if err != nil {
		t.Fatalf("DeleteSession() error = %v", err)
	}
	// the refetched copy reflects the removal
	if len(s.Sessions) != 1 || !s.Sessions[0].CheckIn.Equal(now.Add(-24*time.Hour)) {
		t.Errorf("DeleteSession() sessions = %+v, want the later session only", s.Sessions)
	}

	if _, err := svc.DeleteSession(ctx, "1", 5); errors.Cause(err) != ErrNotFound {
		t.Errorf("DeleteSession() error = %v, want %v", err, ErrNotFound)
	}
}
