package roster

import (
	"sort"
	"strings"

	"github.com/volatiletech/null/v8"

	"github.com/academykit/kiosk/core"
	"github.com/academykit/kiosk/core/student"
)

// DefaultPageSize is the fixed roster page size.
const DefaultPageSize = 25

// Criteria are the roster filters; all set fields are AND-combined.
type Criteria struct {
	// Search does a case-insensitive substring match on first name,
	// last name or email.
	Search string `query:"search"`
	// Status must match exactly.
	Status string `query:"status"`
	// Game keeps students enrolled in the given game category.
	Game string `query:"game"`
	// Date filters are "on or after", calendar dates only; students
	// missing the corresponding field are excluded.
	RegisteredFrom  null.Time `query:"registered_from"`
	ClassEndFrom    null.Time `query:"class_end_from"`
	PracticeEndFrom null.Time `query:"practice_end_from"`
}

func (c *Criteria) IsEmpty() bool {
	return c.Search == "" && c.Status == "" && c.Game == "" &&
		!c.RegisteredFrom.Valid && !c.ClassEndFrom.Valid && !c.PracticeEndFrom.Valid
}

func (c *Criteria) Clean() {
	c.Search = core.CleanString(c.Search)
	c.Status = core.CleanString(c.Status)
	c.Game = core.CleanString(c.Game)
}

// Filter applies the criteria to the roster snapshot.
func Filter(students []student.Student, c Criteria) []student.Student {
	c.Clean()
	if c.IsEmpty() {
		return students
	}

	search := strings.ToLower(c.Search)
	out := make([]student.Student, 0, len(students))
	for _, s := range students {
		if search != "" && !matchesSearch(s, search) {
			continue
		}
		if c.Status != "" && s.Status != c.Status {
			continue
		}
		if c.Game != "" && !s.Plays(c.Game) {
			continue
		}
		if !onOrAfter(s.RegistrationDate, c.RegisteredFrom) {
			continue
		}
		if !onOrAfter(s.EndOfClassDate, c.ClassEndFrom) {
			continue
		}
		if !onOrAfter(s.EndOfPracticeDate, c.PracticeEndFrom) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func matchesSearch(s student.Student, search string) bool {
	return strings.Contains(strings.ToLower(s.FirstName), search) ||
		strings.Contains(strings.ToLower(s.LastName), search) ||
		strings.Contains(strings.ToLower(s.Email), search)
}

// onOrAfter reports whether the student date passes an "on or after"
// filter. An unset filter passes everything; an unset student date
// fails a set filter.
func onOrAfter(date, from null.Time) bool {
	if !from.Valid {
		return true
	}
	if !date.Valid {
		return false
	}
	return !core.DateBefore(date.Time, from.Time)
}

// Column is a sortable roster column.
type Column string

const (
	ColumnName         Column = "name"
	ColumnPIN          Column = "pin"
	ColumnEmail        Column = "email"
	ColumnStatus       Column = "status"
	ColumnSessionCount Column = "sessionCount"
	ColumnTotalHours   Column = "totalHours"
)

func ParseColumn(s string) (Column, bool) {
	switch col := Column(s); col {
	case ColumnName, ColumnPIN, ColumnEmail, ColumnStatus, ColumnSessionCount, ColumnTotalHours:
		return col, true
	}
	return "", false
}

// SortState is the single active sort column with its direction.
type SortState struct {
	Column     Column `json:"column"`
	Descending bool   `json:"descending"`
}

// Toggle flips the direction when col is already active and otherwise
// switches to col ascending.
func (st *SortState) Toggle(col Column) {
	if st.Column == col {
		st.Descending = !st.Descending
		return
	}
	st.Column = col
	st.Descending = false
}

// SortBy returns a sorted copy of the roster. The sort is stable:
// equal values keep their encounter order.
func SortBy(students []student.Student, col Column, descending bool) []student.Student {
	out := make([]student.Student, len(students))
	copy(out, students)

	c := newCollator()
	less := func(a, b student.Student) bool {
		switch col {
		case ColumnPIN:
			return c.CompareString(a.PIN, b.PIN) < 0
		case ColumnEmail:
			return c.CompareString(a.Email, b.Email) < 0
		case ColumnStatus:
			return c.CompareString(a.Status, b.Status) < 0
		case ColumnSessionCount:
			return len(a.Sessions) < len(b.Sessions)
		case ColumnTotalHours:
			return student.Summarize(a.Sessions).TotalHours < student.Summarize(b.Sessions).TotalHours
		default: // ColumnName
			return c.CompareString(a.FullName(), b.FullName()) < 0
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if descending {
			i, j = j, i
		}
		return less(out[i], out[j])
	})
	return out
}

// TotalPages reports how many pages a roster of n items spans.
// An empty roster still has one (empty) page.
func TotalPages(n, pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	pages := (n + pageSize - 1) / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// ClampPage forces page into [1, totalPages].
func ClampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Paginate slices out the requested page, clamping the page number.
func Paginate(students []student.Student, pageSize, page int) []student.Student {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	page = ClampPage(page, TotalPages(len(students), pageSize))

	start := (page - 1) * pageSize
	if start >= len(students) {
		return nil
	}
	end := start + pageSize
	if end > len(students) {
		end = len(students)
	}
	return students[start:end]
}

// pageWindowSize is the maximum number of page buttons shown at once.
const pageWindowSize = 5

// PageWindow returns the visible page-number buttons: a sliding window
// of at most 5 numbers centered on current, clamped to the valid range.
func PageWindow(current, totalPages int) []int {
	current = ClampPage(current, totalPages)

	start := current - pageWindowSize/2
	if start < 1 {
		start = 1
	}
	end := start + pageWindowSize - 1
	if end > totalPages {
		end = totalPages
		if start = end - pageWindowSize + 1; start < 1 {
			start = 1
		}
	}

	window := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		window = append(window, p)
	}
	return window
}
