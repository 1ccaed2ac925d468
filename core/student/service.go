package student

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/academykit/kiosk/core"
	"github.com/academykit/kiosk/core/settings"
)

var (
	// errors
	ErrNotFound         = errors.New("student not found")
	ErrAlreadyCheckedIn = errors.New("student is already checked in")
	ErrNoActiveSession  = errors.New("student has no active session")
)

// NotAllowedError carries a blocked eligibility Decision across the
// service boundary. It is a gate, not a failure.
type NotAllowedError struct {
	Decision Decision
}

func (e *NotAllowedError) Error() string { return e.Decision.Reason }

type (
	// Repository is the data boundary. The production implementation
	// talks to the external backend API; tests use an in-memory one.
	Repository interface {
		QueryAllStudents(ctx context.Context) ([]Student, error)
		GetStudent(ctx context.Context, id string) (Student, error)
		// FindStudentsByPIN may return several records: weaker data
		// sets do not guarantee PIN uniqueness.
		FindStudentsByPIN(ctx context.Context, pin string) ([]Student, error)
		CreateStudent(ctx context.Context, s Student) (Student, error)
		UpdateStudent(ctx context.Context, s Student) (Student, error)
		DeleteStudent(ctx context.Context, id string) error
		CheckInStudent(ctx context.Context, id string) error
		CheckOutStudent(ctx context.Context, id string) error
		DeleteSession(ctx context.Context, id string, index int) error
	}

	ServiceInterface interface {
		QueryAll(ctx context.Context) ([]Student, error)
		Get(ctx context.Context, id string) (Student, error)
		Create(ctx context.Context, ns NewStudent) (Student, error)
		Update(ctx context.Context, id string, us UpdateStudent) (Student, error)
		Delete(ctx context.Context, id string) error
		Login(ctx context.Context, pin string) (Student, error)
		CheckIn(ctx context.Context, id string) (Student, error)
		CheckOut(ctx context.Context, id string) (Student, error)
		DeleteSession(ctx context.Context, id string, index int) (Student, error)
	}

	service struct {
		repo        Repository
		settingsSvc settings.Service
		now         func() time.Time // mockable
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(repo Repository, settingsSvc settings.Service) ServiceInterface {
	return &service{
		repo:        repo,
		settingsSvc: settingsSvc,
		now:         time.Now,
	}
}

func (svc *service) QueryAll(ctx context.Context) ([]Student, error) {
	return svc.repo.QueryAllStudents(ctx)
}

func (svc *service) Get(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudent(ctx, id)
}

func (svc *service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	return svc.repo.CreateStudent(ctx, ns.student())
}

func (svc *service) Update(ctx context.Context, id string, us UpdateStudent) (Student, error) {
	orig, err := svc.repo.GetStudent(ctx, id)
	if err != nil {
		return Student{}, err
	}
	return svc.repo.UpdateStudent(ctx, us.apply(orig))
}

func (svc *service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteStudent(ctx, id)
}

// Login looks a student up by PIN. When a PIN is shared by several
// records the first match wins, mirroring the kiosk's behavior.
func (svc *service) Login(ctx context.Context, pin string) (Student, error) {
	matches, err := svc.repo.FindStudentsByPIN(ctx, core.CleanString(pin))
	if err != nil {
		return Student{}, errors.Wrap(err, "looking up PIN")
	}
	if len(matches) == 0 {
		return Student{}, ErrNotFound
	}
	return matches[0], nil
}

// CheckIn opens a session after re-checking the student's state:
// a fresh copy is fetched, the eligibility rules are applied, and a
// still-open session blocks a second check-in.
func (svc *service) CheckIn(ctx context.Context, id string) (Student, error) {
	s, err := svc.repo.GetStudent(ctx, id)
	if err != nil {
		return Student{}, err
	}

	conf := svc.settingsSvc.Get(ctx)
	if dec := Evaluate(s, conf, svc.now()); !dec.Allowed {
		return Student{}, &NotAllowedError{Decision: dec}
	}
	if Summarize(s.Sessions).HasActiveSession {
		return Student{}, ErrAlreadyCheckedIn
	}

	if err := svc.repo.CheckInStudent(ctx, id); err != nil {
		return Student{}, errors.Wrap(err, "checking in")
	}
	return svc.repo.GetStudent(ctx, id)
}

// CheckOut closes the open session.
func (svc *service) CheckOut(ctx context.Context, id string) (Student, error) {
	s, err := svc.repo.GetStudent(ctx, id)
	if err != nil {
		return Student{}, err
	}
	if !Summarize(s.Sessions).HasActiveSession {
		return Student{}, ErrNoActiveSession
	}

	if err := svc.repo.CheckOutStudent(ctx, id); err != nil {
		return Student{}, errors.Wrap(err, "checking out")
	}
	return svc.repo.GetStudent(ctx, id)
}

// DeleteSession removes a historical session record by position, then
// refetches the student: the backend copy is the source of truth, a
// local splice is never trusted.
func (svc *service) DeleteSession(ctx context.Context, id string, index int) (Student, error) {
	if err := svc.repo.DeleteSession(ctx, id, index); err != nil {
		return Student{}, errors.Wrap(err, "deleting session")
	}
	return svc.repo.GetStudent(ctx, id)
}
