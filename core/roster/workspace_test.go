package roster

import (
	"context"
	"fmt"
	"testing"

	"github.com/pkg/errors"

	"github.com/academykit/kiosk/core/student"
)

// svcStub serves a fixed roster; only QueryAll matters here.
type svcStub struct {
	student.ServiceInterface
	roster []student.Student
	err    error
}

func (s *svcStub) QueryAll(context.Context) ([]student.Student, error) {
	return s.roster, s.err
}

func testRoster(n int) []student.Student {
	out := make([]student.Student, n)
	for i := range out {
		out[i] = student.Student{
			ID:        fmt.Sprintf("%d", i+1),
			FirstName: fmt.Sprintf("Student%03d", i+1),
			LastName:  "Test",
		}
	}
	return out
}

func TestState_transitions(t *testing.T) {
	s := student.Student{ID: "1", FirstName: "Alice"}

	t.Run("browsing can enter any mode", func(t *testing.T) {
		for _, begin := range []func(State) (State, error){
			func(st State) (State, error) { return st.BeginAdd() },
			func(st State) (State, error) { return st.BeginEdit(s) },
			func(st State) (State, error) { return st.BeginHistory(s) },
		} {
			if _, err := begin(Browsing()); err != nil {
				t.Errorf("transition from browsing failed: %v", err)
			}
		}
	})

	t.Run("modes are exclusive", func(t *testing.T) {
		adding, _ := Browsing().BeginAdd()
		if _, err := adding.BeginEdit(s); errors.Cause(err) != ErrInvalidTransition {
			t.Errorf("BeginEdit() from adding error = %v, want %v", err, ErrInvalidTransition)
		}
		if _, err := adding.BeginHistory(s); errors.Cause(err) != ErrInvalidTransition {
			t.Errorf("BeginHistory() from adding error = %v, want %v", err, ErrInvalidTransition)
		}
		if _, err := adding.BeginAdd(); errors.Cause(err) != ErrInvalidTransition {
			t.Errorf("BeginAdd() from adding error = %v, want %v", err, ErrInvalidTransition)
		}
	})

	t.Run("close always returns to browsing", func(t *testing.T) {
		editing, _ := Browsing().BeginEdit(s)
		if st := editing.Close(); st.Mode() != ModeBrowsing {
			t.Errorf("Close() mode = %v, want browsing", st.Mode())
		}
	})

	t.Run("subject only in edit and history modes", func(t *testing.T) {
		editing, _ := Browsing().BeginEdit(s)
		if subj, ok := editing.Student(); !ok || subj.ID != s.ID {
			t.Errorf("Student() = %v, %v; want %v, true", subj, ok, s.ID)
		}
		if _, ok := Browsing().Student(); ok {
			t.Error("Student() on browsing returned a subject")
		}
		adding, _ := Browsing().BeginAdd()
		if _, ok := adding.Student(); ok {
			t.Error("Student() on adding returned a subject")
		}
	})
}

func TestGuard(t *testing.T) {
	g := NewGuard()

	t1 := g.Begin("roster")
	if !g.Accept("roster", t1) {
		t.Error("Accept() rejected token of the only request")
	}

	t2 := g.Begin("roster")
	if g.Accept("roster", t1) {
		t.Error("Accept() accepted a superseded token")
	}
	if !g.Accept("roster", t2) {
		t.Error("Accept() rejected the newest token")
	}

	// resources are independent
	t3 := g.Begin("student:1")
	if !g.Accept("roster", t2) || !g.Accept("student:1", t3) {
		t.Error("Accept() crossed resources")
	}
}

func TestWorkspace(t *testing.T) {
	ctx := context.Background()

	t.Run("visible page", func(t *testing.T) {
		w := NewWorkspace(&svcStub{roster: testRoster(60)}, 25)
		if err := w.Reload(ctx); err != nil {
			t.Fatalf("Reload() error = %v", err)
		}

		page := w.Visible()
		if page.Number != 1 || page.TotalPages != 3 || page.TotalCount != 60 {
			t.Errorf("Visible() = page %d of %d (count %d), want 1 of 3 (60)", page.Number, page.TotalPages, page.TotalCount)
		}
		if len(page.Students) != 25 {
			t.Errorf("Visible() len = %d, want 25", len(page.Students))
		}
		if len(page.Window) != 3 {
			t.Errorf("Visible() window = %v, want 3 buttons", page.Window)
		}

		w.GoToPage(3)
		if page = w.Visible(); page.Number != 3 || len(page.Students) != 10 {
			t.Errorf("Visible() after GoToPage(3) = page %d len %d, want 3 and 10", page.Number, len(page.Students))
		}
	})

	t.Run("new criteria reset the page", func(t *testing.T) {
		w := NewWorkspace(&svcStub{roster: testRoster(60)}, 25)
		if err := w.Reload(ctx); err != nil {
			t.Fatalf("Reload() error = %v", err)
		}

		w.GoToPage(3)
		w.SetCriteria(Criteria{Search: "Student0"})
		if page := w.Visible(); page.Number != 1 {
			t.Errorf("Visible() page = %d, want 1 after new criteria", page.Number)
		}
	})

	t.Run("page clamps when the filter shrinks the roster", func(t *testing.T) {
		w := NewWorkspace(&svcStub{roster: testRoster(60)}, 25)
		if err := w.Reload(ctx); err != nil {
			t.Fatalf("Reload() error = %v", err)
		}

		w.GoToPage(3)
		w.SetCriteria(Criteria{Search: "Student001"})
		w.GoToPage(9)
		if page := w.Visible(); page.Number != 1 || page.TotalCount != 1 {
			t.Errorf("Visible() = page %d (count %d), want 1 (1)", page.Number, page.TotalCount)
		}
	})

	t.Run("reload failure keeps the old snapshot", func(t *testing.T) {
		svc := &svcStub{roster: testRoster(5)}
		w := NewWorkspace(svc, 25)
		if err := w.Reload(ctx); err != nil {
			t.Fatalf("Reload() error = %v", err)
		}

		svc.err = errors.New("down")
		if err := w.Reload(ctx); err == nil {
			t.Fatal("Reload() expected an error")
		}
		if page := w.Visible(); page.TotalCount != 5 {
			t.Errorf("Visible() count = %d, want the previous snapshot (5)", page.TotalCount)
		}
	})

	t.Run("view state", func(t *testing.T) {
		w := NewWorkspace(&svcStub{roster: testRoster(1)}, 25)

		if err := w.BeginAdd(); err != nil {
			t.Fatalf("BeginAdd() error = %v", err)
		}
		if err := w.BeginEdit(student.Student{ID: "1"}); errors.Cause(err) != ErrInvalidTransition {
			t.Errorf("BeginEdit() while adding error = %v, want %v", err, ErrInvalidTransition)
		}
		w.CloseView()
		if err := w.BeginEdit(student.Student{ID: "1"}); err != nil {
			t.Errorf("BeginEdit() after close error = %v", err)
		}
		if w.State().Mode() != ModeEditing {
			t.Errorf("State() = %v, want editing", w.State().Mode())
		}
	})
}
