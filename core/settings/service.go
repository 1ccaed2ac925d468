package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/academykit/kiosk/core"
)

var (
	// ErrNotFound means the backend holds no settings record yet.
	ErrNotFound = errors.New("settings not found")
)

type (
	Repository interface {
		// GetSettings returns the active settings object.
		// It returns ErrNotFound when the backend holds none.
		GetSettings(ctx context.Context) (Settings, error)
		CreateSettings(ctx context.Context, s Settings) (Settings, error)
		UpdateSettings(ctx context.Context, s Settings) (Settings, error)
	}

	Service interface {
		// Get never fails: any fetch error falls back to Default().
		Get(ctx context.Context) Settings
		Save(ctx context.Context, s Settings) (Settings, error)
	}

	service struct {
		repo   Repository
		logger core.Logger
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, logger core.Logger) Service {
	return &service{repo: repo, logger: logger}
}

func (svc *service) Get(ctx context.Context) Settings {
	s, err := svc.repo.GetSettings(ctx)
	if err != nil {
		// fall back to the safe defaults; login must go on
		svc.logger.Warn(fmt.Sprintf("settings fetch failed, using defaults: %v", err), err)
		return Default()
	}
	return s
}

func (svc *service) Save(ctx context.Context, s Settings) (Settings, error) {
	if s.ID == "" {
		return svc.repo.CreateSettings(ctx, s)
	}
	return svc.repo.UpdateSettings(ctx, s)
}
