package inmem

import (
	"context"

	"github.com/academykit/kiosk/core/settings"
)

type settingsRepository struct {
	db *settingsTable
}

var _ settings.Repository = (*settingsRepository)(nil)

func NewSettingsRepository(db *DB) settings.Repository {
	return &settingsRepository{db: db.settings}
}

func (repo *settingsRepository) GetSettings(_ context.Context) (settings.Settings, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if repo.db.record == nil {
		return settings.Settings{}, settings.ErrNotFound
	}
	return *repo.db.record, nil
}

func (repo *settingsRepository) CreateSettings(_ context.Context, s settings.Settings) (settings.Settings, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	s.ID = "1" // singleton
	repo.db.record = &s
	return s, nil
}

func (repo *settingsRepository) UpdateSettings(_ context.Context, s settings.Settings) (settings.Settings, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if repo.db.record == nil {
		return settings.Settings{}, settings.ErrNotFound
	}
	repo.db.record = &s
	return s, nil
}
