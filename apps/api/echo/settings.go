package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/academykit/kiosk/core/settings"
)

type settingsApi struct {
	svc      settings.Service
	validate *validator.Validate
}

func registerSettingsAPI(g *echo.Group, deps *ServerDeps) {
	api := settingsApi{
		svc:      deps.SettingsSvc,
		validate: deps.Validate,
	}

	g.GET("/settings", api.retrieve)
	g.PUT("/settings", api.save)
}

// Handlers

func (api *settingsApi) retrieve(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.svc.Get(ctx.Request().Context()))
}

// save updates the singleton, keeping whatever ID the backend copy
// currently carries.
func (api *settingsApi) save(ctx echo.Context) error {
	var data settings.UpdateSettings
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSettings")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	current := api.svc.Get(ctx.Request().Context())
	saved, err := api.svc.Save(ctx.Request().Context(), data.Settings(current.ID))
	if err != nil {
		return errors.Wrap(err, "saving settings")
	}
	return ctx.JSON(http.StatusOK, saved)
}
