// Package inmem holds in-memory repository implementations used by
// tests and local development. Semantics mirror the backend API.
package inmem

import (
	"sync"

	"github.com/academykit/kiosk/core/settings"
	"github.com/academykit/kiosk/core/student"
)

type DB struct {
	students *studentTable
	settings *settingsTable
}

type studentTable struct {
	mutex sync.RWMutex
	table map[string]*student.Student
	order []string // insertion order, the backend lists in creation order
}

type settingsTable struct {
	mutex sync.RWMutex
	record *settings.Settings
}

func Open() *DB {
	return &DB{
		students: &studentTable{table: make(map[string]*student.Student)},
		settings: &settingsTable{},
	}
}
