package roster

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/academykit/kiosk/core/student"
)

// Mode identifies what the back-office view is doing. Exactly one mode
// is active at a time; the old drawer/modal flag soup cannot
// desynchronize this way.
type Mode int

const (
	ModeBrowsing Mode = iota
	ModeAdding
	ModeEditing
	ModeViewingHistory
)

func (m Mode) String() string {
	switch m {
	case ModeAdding:
		return "adding"
	case ModeEditing:
		return "editing"
	case ModeViewingHistory:
		return "viewing-history"
	default:
		return "browsing"
	}
}

var ErrInvalidTransition = errors.New("invalid view state transition")

// State is the tagged view-state variant:
// Browsing | Adding | Editing(student) | ViewingHistory(student).
type State struct {
	mode    Mode
	student student.Student
}

func Browsing() State { return State{} }

func (st State) Mode() Mode { return st.mode }

// Student returns the subject of an Editing or ViewingHistory state.
func (st State) Student() (student.Student, bool) {
	if st.mode == ModeEditing || st.mode == ModeViewingHistory {
		return st.student, true
	}
	return student.Student{}, false
}

func (st State) BeginAdd() (State, error) {
	if st.mode != ModeBrowsing {
		return st, errors.Wrapf(ErrInvalidTransition, "add from %s", st.mode)
	}
	return State{mode: ModeAdding}, nil
}

func (st State) BeginEdit(s student.Student) (State, error) {
	if st.mode != ModeBrowsing {
		return st, errors.Wrapf(ErrInvalidTransition, "edit from %s", st.mode)
	}
	return State{mode: ModeEditing, student: s}, nil
}

func (st State) BeginHistory(s student.Student) (State, error) {
	if st.mode != ModeBrowsing {
		return st, errors.Wrapf(ErrInvalidTransition, "history from %s", st.mode)
	}
	return State{mode: ModeViewingHistory, student: s}, nil
}

// Close always returns to Browsing.
func (st State) Close() State { return State{} }

// Guard implements the request-generation discipline: every fetch tags
// its completion with the token it answers; a completion whose token is
// no longer the newest for its resource must be discarded.
type Guard struct {
	mu     sync.Mutex
	latest map[string]uuid.UUID
}

func NewGuard() *Guard {
	return &Guard{latest: make(map[string]uuid.UUID)}
}

// Begin registers a new request for resource and returns its token,
// superseding any outstanding one.
func (g *Guard) Begin(resource string) uuid.UUID {
	g.mu.Lock()
	defer g.mu.Unlock()
	token := uuid.New()
	g.latest[resource] = token
	return token
}

// Accept reports whether token still answers the newest request for
// resource.
func (g *Guard) Accept(resource string, token uuid.UUID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.latest[resource] == token
}

const rosterResource = "roster"

// Workspace is the admin panel view-model: a roster snapshot run
// through the filter/sort/paginate pipeline, plus the explicit view
// state. It never mutates student data itself; edits go through the
// service and are followed by a Reload.
type Workspace struct {
	svc      student.ServiceInterface
	guard    *Guard
	pageSize int

	mu       sync.Mutex
	roster   []student.Student
	criteria Criteria
	sort     SortState
	page     int
	state    State
}

// Page is one visible roster page.
type Page struct {
	Students   []student.Student `json:"students"`
	Number     int               `json:"number"`
	TotalPages int               `json:"totalPages"`
	TotalCount int               `json:"totalCount"`
	Window     []int             `json:"window"`
}

func NewWorkspace(svc student.ServiceInterface, pageSize int) *Workspace {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Workspace{
		svc:      svc,
		guard:    NewGuard(),
		pageSize: pageSize,
		page:     1,
		sort:     SortState{Column: ColumnName},
		state:    Browsing(),
	}
}

// Reload refetches the roster snapshot. A reload that was superseded
// while in flight is dropped on the floor.
func (w *Workspace) Reload(ctx context.Context) error {
	token := w.guard.Begin(rosterResource)

	students, err := w.svc.QueryAll(ctx)
	if err != nil {
		return errors.Wrap(err, "reloading roster")
	}
	if !w.guard.Accept(rosterResource, token) {
		return nil // stale response
	}

	w.mu.Lock()
	w.roster = students
	w.mu.Unlock()
	return nil
}

// SetCriteria replaces the filters and snaps back to page 1.
func (w *Workspace) SetCriteria(c Criteria) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.criteria = c
	w.page = 1
}

func (w *Workspace) Criteria() Criteria {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.criteria
}

func (w *Workspace) ToggleSort(col Column) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.sort.Toggle(col)
}

func (w *Workspace) Sort() SortState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sort
}

func (w *Workspace) GoToPage(page int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	filtered := Filter(w.roster, w.criteria)
	w.page = ClampPage(page, TotalPages(len(filtered), w.pageSize))
}

// Visible runs the snapshot through filter, sort and pagination.
func (w *Workspace) Visible() Page {
	w.mu.Lock()
	defer w.mu.Unlock()

	filtered := Filter(w.roster, w.criteria)
	sorted := SortBy(filtered, w.sort.Column, w.sort.Descending)

	totalPages := TotalPages(len(sorted), w.pageSize)
	page := ClampPage(w.page, totalPages)
	return Page{
		Students:   Paginate(sorted, w.pageSize, page),
		Number:     page,
		TotalPages: totalPages,
		TotalCount: len(sorted),
		Window:     PageWindow(page, totalPages),
	}
}

func (w *Workspace) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Workspace) BeginAdd() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	next, err := w.state.BeginAdd()
	if err != nil {
		return err
	}
	w.state = next
	return nil
}

func (w *Workspace) BeginEdit(s student.Student) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	next, err := w.state.BeginEdit(s)
	if err != nil {
		return err
	}
	w.state = next
	return nil
}

func (w *Workspace) BeginHistory(s student.Student) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	next, err := w.state.BeginHistory(s)
	if err != nil {
		return err
	}
	w.state = next
	return nil
}

func (w *Workspace) CloseView() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state = w.state.Close()
}
