package inmem

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/academykit/kiosk/core/student"
)

var pkCount int

type studentRepository struct {
	db *studentTable

	// now is mockable so session math is deterministic in tests.
	now func() time.Time
}

var _ student.Repository = (*studentRepository)(nil)

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db.students, now: time.Now}
}

func (repo *studentRepository) query() []student.Student {
	students := make([]student.Student, 0, len(repo.db.order))
	for _, id := range repo.db.order {
		if s, ok := repo.db.table[id]; ok {
			students = append(students, *s)
		}
	}
	return students
}

func (repo *studentRepository) QueryAllStudents(_ context.Context) ([]student.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.query(), nil
}

func (repo *studentRepository) GetStudent(_ context.Context, id string) (student.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if s, ok := repo.db.table[id]; ok {
		return *s, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) FindStudentsByPIN(_ context.Context, pin string) ([]student.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var matches []student.Student
	for _, s := range repo.query() {
		if s.PIN == pin {
			matches = append(matches, s)
		}
	}
	return matches, nil
}

func (repo *studentRepository) CreateStudent(_ context.Context, s student.Student) (student.Student, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	pkCount++
	s.ID = strconv.Itoa(pkCount)
	repo.db.table[s.ID] = &s
	repo.db.order = append(repo.db.order, s.ID)
	return s, nil
}

func (repo *studentRepository) UpdateStudent(_ context.Context, s student.Student) (student.Student, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.table[s.ID]
	if !ok {
		return student.Student{}, student.ErrNotFound
	}
	s.Sessions = orig.Sessions // sessions are managed by check-in/out only
	repo.db.table[s.ID] = &s
	return s, nil
}

func (repo *studentRepository) DeleteStudent(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return student.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}

func (repo *studentRepository) CheckInStudent(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	s, ok := repo.db.table[id]
	if !ok {
		return student.ErrNotFound
	}
	s.Sessions = append(s.Sessions, student.Session{CheckIn: repo.now().UTC()})
	return nil
}

func (repo *studentRepository) CheckOutStudent(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	s, ok := repo.db.table[id]
	if !ok {
		return student.ErrNotFound
	}
	for i := range s.Sessions {
		if s.Sessions[i].Active() {
			now := repo.now().UTC()
			hours := now.Sub(s.Sessions[i].CheckIn).Hours()
			s.Sessions[i].CheckOut = null.TimeFrom(now)
			s.Sessions[i].Hours = null.Float64From(math.Round(hours*100) / 100)
			return nil
		}
	}
	return student.ErrNoActiveSession
}

func (repo *studentRepository) DeleteSession(_ context.Context, id string, index int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	s, ok := repo.db.table[id]
	if !ok {
		return student.ErrNotFound
	}
	if index < 0 || index >= len(s.Sessions) {
		return student.ErrNotFound
	}
	s.Sessions = append(s.Sessions[:index], s.Sessions[index+1:]...)
	return nil
}
