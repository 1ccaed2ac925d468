package echoapi

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/academykit/kiosk/core"
	"github.com/academykit/kiosk/core/settings"
	"github.com/academykit/kiosk/core/student"
)

type kioskApi struct {
	svc         student.ServiceInterface
	settingsSvc settings.Service
	validate    *validator.Validate
}

func registerKioskAPI(g *echo.Group, deps *ServerDeps) {
	api := kioskApi{
		svc:         deps.StudentSvc,
		settingsSvc: deps.SettingsSvc,
		validate:    deps.Validate,
	}

	kg := g.Group("/kiosk")
	kg.POST("/login", api.login)
	kg.POST("/checkin/:id", api.checkIn)
	kg.POST("/checkout/:id", api.checkOut)
}

// Handlers

func (api *kioskApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	s, err := api.svc.Login(ctx.Request().Context(), data.PIN)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return core.NewValidationError(errors.New("invalid PIN"))
		}
		return errors.Wrap(err, "logging in")
	}
	return ctx.JSON(http.StatusOK, api.kioskResponse(ctx, s))
}

func (api *kioskApi) checkIn(ctx echo.Context) error {
	s, err := api.svc.CheckIn(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "checking in")
	}
	return ctx.JSON(http.StatusOK, api.kioskResponse(ctx, s))
}

func (api *kioskApi) checkOut(ctx echo.Context) error {
	s, err := api.svc.CheckOut(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "checking out")
	}
	return ctx.JSON(http.StatusOK, api.kioskResponse(ctx, s))
}

type (
	LoginRequest struct {
		PIN string `json:"pin" validate:"required,pin"`
	}

	// LoginResponse is the kiosk greeting payload: the student, the
	// derived session state the welcome screen renders from, and the
	// decision its check-in button obeys.
	LoginResponse struct {
		Student  student.Student  `json:"student"`
		Summary  student.Summary  `json:"summary"`
		Decision student.Decision `json:"decision"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.PIN = core.CleanString(lr.PIN)
	return validate.Struct(lr)
}

func (api *kioskApi) kioskResponse(ctx echo.Context, s student.Student) LoginResponse {
	conf := api.settingsSvc.Get(ctx.Request().Context())
	return LoginResponse{
		Student:  s,
		Summary:  student.Summarize(s.Sessions),
		Decision: student.Evaluate(s, conf, time.Now()),
	}
}
