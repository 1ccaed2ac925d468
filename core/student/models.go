package student

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/academykit/kiosk/core"
)

// Statuses (open set: the backend may hold others; only the settings
// blocked-list gives a status behavior).
const (
	StatusCurrent   = "Current Student"
	StatusSuspended = "Suspended"
	StatusGraduate  = "Graduate"
	StatusOther     = "Other"
)

var Statuses = []string{StatusCurrent, StatusSuspended, StatusGraduate, StatusOther}

// Games is the fixed vocabulary of game categories a student may enroll in.
var Games = []string{"Chess", "Go", "Scrabble", "Backgammon", "Poker", "Checkers"}

func ValidGame(game string) bool {
	for _, g := range Games {
		if g == game {
			return true
		}
	}
	return false
}

// Session is one check-in/check-out pair. An unset checkout means the
// session is still open.
type Session struct {
	CheckIn  time.Time    `json:"checkin"`
	CheckOut null.Time    `json:"checkout,omitempty"`
	Hours    null.Float64 `json:"hours,omitempty"`
}

// Active reports whether the session has been started but not closed.
func (s Session) Active() bool {
	return !s.CheckIn.IsZero() && !s.CheckOut.Valid
}

// Student is the roster record owned by the backend. The client holds
// transient read-mostly copies only.
type Student struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	PIN       string `json:"pin"`
	Status    string `json:"status,omitempty"`

	// contact/address; free text, no behavioral invariants
	IDNumber       string `json:"idNumber,omitempty"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Street         string `json:"street,omitempty"`
	City           string `json:"city,omitempty"`
	State          string `json:"state,omitempty"`
	ZipCode        string `json:"zipCode,omitempty"`
	ForeignAddress string `json:"foreignAddress,omitempty"`
	Source         string `json:"source,omitempty"`

	RegistrationDate  null.Time `json:"registrationDate,omitempty"`
	EndOfClassDate    null.Time `json:"endOfClassDate,omitempty"`
	EndOfPracticeDate null.Time `json:"endOfPracticeDate,omitempty"`

	Games []string `json:"games,omitempty"`

	// Sessions are kept in order of creation, not necessarily sorted by time.
	Sessions []Session `json:"sessions,omitempty"`
}

func (s Student) FullName() string {
	return core.CleanString(s.FirstName + " " + s.LastName)
}

func (s Student) Plays(game string) bool {
	for _, g := range s.Games {
		if g == game {
			return true
		}
	}
	return false
}

// NewStudent contains information needed to create a new Student.
type NewStudent struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	PIN       string `json:"pin" validate:"required,pin"`
	Status    string `json:"status"`

	IDNumber       string `json:"idNumber"`
	Email          string `json:"email" validate:"omitempty,email"`
	Phone          string `json:"phone"`
	Street         string `json:"street"`
	City           string `json:"city"`
	State          string `json:"state"`
	ZipCode        string `json:"zipCode"`
	ForeignAddress string `json:"foreignAddress"`
	Source         string `json:"source"`

	RegistrationDate  null.Time `json:"registrationDate"`
	EndOfClassDate    null.Time `json:"endOfClassDate"`
	EndOfPracticeDate null.Time `json:"endOfPracticeDate"`

	Games []string `json:"games" validate:"omitempty,dive,game"`
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.FirstName = core.CleanString(ns.FirstName)
	ns.LastName = core.CleanString(ns.LastName)
	ns.PIN = core.CleanString(ns.PIN)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.Status = core.CleanString(ns.Status)
	return validate.Struct(ns)
}

func (ns NewStudent) student() Student {
	return Student{
		FirstName:         ns.FirstName,
		LastName:          ns.LastName,
		PIN:               ns.PIN,
		Status:            ns.Status,
		IDNumber:          ns.IDNumber,
		Email:             ns.Email,
		Phone:             ns.Phone,
		Street:            ns.Street,
		City:              ns.City,
		State:             ns.State,
		ZipCode:           ns.ZipCode,
		ForeignAddress:    ns.ForeignAddress,
		Source:            ns.Source,
		RegistrationDate:  ns.RegistrationDate,
		EndOfClassDate:    ns.EndOfClassDate,
		EndOfPracticeDate: ns.EndOfPracticeDate,
		Games:             ns.Games,
	}
}

// UpdateStudent defines what information may be provided to modify an
// existing Student. Blank name/PIN fields keep the original values.
type UpdateStudent struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	PIN       string `json:"pin" validate:"omitempty,pin"`
	Status    string `json:"status"`

	IDNumber       string `json:"idNumber"`
	Email          string `json:"email" validate:"omitempty,email"`
	Phone          string `json:"phone"`
	Street         string `json:"street"`
	City           string `json:"city"`
	State          string `json:"state"`
	ZipCode        string `json:"zipCode"`
	ForeignAddress string `json:"foreignAddress"`
	Source         string `json:"source"`

	RegistrationDate  null.Time `json:"registrationDate"`
	EndOfClassDate    null.Time `json:"endOfClassDate"`
	EndOfPracticeDate null.Time `json:"endOfPracticeDate"`

	Games []string `json:"games" validate:"omitempty,dive,game"`
}

func (us *UpdateStudent) Validate(orig Student, validate *validator.Validate) error {
	if name := core.CleanString(us.FirstName); name != "" {
		us.FirstName = name
	} else {
		us.FirstName = orig.FirstName
	}
	if name := core.CleanString(us.LastName); name != "" {
		us.LastName = name
	} else {
		us.LastName = orig.LastName
	}
	if pin := core.CleanString(us.PIN); pin != "" {
		us.PIN = pin
	} else {
		us.PIN = orig.PIN
	}
	us.Email = core.CleanString(us.Email, true /* lower */)
	us.Status = core.CleanString(us.Status)
	return validate.Struct(us)
}

func (us UpdateStudent) apply(orig Student) Student {
	updated := orig
	updated.FirstName = us.FirstName
	updated.LastName = us.LastName
	updated.PIN = us.PIN
	updated.Status = us.Status
	updated.IDNumber = us.IDNumber
	updated.Email = us.Email
	updated.Phone = us.Phone
	updated.Street = us.Street
	updated.City = us.City
	updated.State = us.State
	updated.ZipCode = us.ZipCode
	updated.ForeignAddress = us.ForeignAddress
	updated.Source = us.Source
	updated.RegistrationDate = us.RegistrationDate
	updated.EndOfClassDate = us.EndOfClassDate
	updated.EndOfPracticeDate = us.EndOfPracticeDate
	updated.Games = us.Games
	return updated
}
