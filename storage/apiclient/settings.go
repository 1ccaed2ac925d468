package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/academykit/kiosk/core/settings"
)

type settingsRepository struct {
	c *Client
}

var _ settings.Repository = (*settingsRepository)(nil)

func NewSettingsRepository(c *Client) settings.Repository {
	return &settingsRepository{c: c}
}

// GetSettings fetches the settings collection; the first element is the
// active record.
func (repo *settingsRepository) GetSettings(ctx context.Context) (settings.Settings, error) {
	var all []settings.Settings
	if err := repo.c.do(ctx, http.MethodGet, "/settings", nil, &all); err != nil {
		return settings.Settings{}, err
	}
	if len(all) == 0 {
		return settings.Settings{}, settings.ErrNotFound
	}
	return all[0], nil
}

func (repo *settingsRepository) CreateSettings(ctx context.Context, s settings.Settings) (settings.Settings, error) {
	var saved settings.Settings
	if err := repo.c.do(ctx, http.MethodPost, "/settings", s, &saved); err != nil {
		return settings.Settings{}, err
	}
	return saved, nil
}

func (repo *settingsRepository) UpdateSettings(ctx context.Context, s settings.Settings) (settings.Settings, error) {
	var saved settings.Settings
	err := repo.c.do(ctx, http.MethodPut, "/settings/"+url.PathEscape(s.ID), s, &saved)
	if err != nil {
		return settings.Settings{}, err
	}
	return saved, nil
}
