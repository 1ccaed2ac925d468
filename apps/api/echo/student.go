package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/academykit/kiosk/core/roster"
	"github.com/academykit/kiosk/core/student"
)

type studentApi struct {
	svc      student.ServiceInterface
	validate *validator.Validate
	pageSize int
}

func registerStudentAPI(g *echo.Group, deps *ServerDeps) {
	api := studentApi{
		svc:      deps.StudentSvc,
		validate: deps.Validate,
		pageSize: deps.Conf.Kiosk.PageSize,
	}

	sg := g.Group("/students")
	sg.GET("", api.query)
	sg.GET("/search", api.search)
	sg.POST("", api.create)

	dg := sg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
	dg.GET("/sessions", api.sessions)
	dg.DELETE("/sessions/:index", api.destroySession)
}

// Handlers

// query runs the roster snapshot through the filter/sort/paginate
// pipeline and returns one page with its paging window.
func (api *studentApi) query(ctx echo.Context) error {
	var q RosterQuery
	q.Bind(ctx)

	students, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying students")
	}

	filtered := roster.Filter(students, q.Criteria)
	sorted := roster.SortBy(filtered, q.Sort.Column, q.Sort.Descending)

	totalPages := roster.TotalPages(len(sorted), api.pageSize)
	page := roster.ClampPage(q.Page, totalPages)
	visible := roster.Paginate(sorted, api.pageSize, page)
	if visible == nil {
		visible = []student.Student{}
	}

	return ctx.JSON(http.StatusOK, QueryResponse{
		Students:   visible,
		Page:       page,
		TotalPages: totalPages,
		TotalCount: len(sorted),
		Window:     roster.PageWindow(page, totalPages),
		Sort:       q.Sort,
	})
}

func (api *studentApi) search(ctx echo.Context) error {
	students, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying students")
	}

	matches := roster.Search(students, ctx.QueryParam("q"))
	if matches == nil {
		matches = []roster.Match{}
	}
	return ctx.JSON(http.StatusOK, matches)
}

func (api *studentApi) create(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	s, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusCreated, s)
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	s, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding student by ID")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *studentApi) update(ctx echo.Context) error {
	orig, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding student by ID")
	}

	var data student.UpdateStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}
	if err := data.Validate(orig, api.validate); err != nil {
		return err
	}

	s, err := api.svc.Update(ctx.Request().Context(), orig.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating student")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *studentApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// sessions returns the display-ready session history alongside the
// derived metrics.
func (api *studentApi) sessions(ctx echo.Context) error {
	s, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding student by ID")
	}
	return ctx.JSON(http.StatusOK, SessionsResponse{
		Sessions: student.History(s.Sessions),
		Summary:  student.Summarize(s.Sessions),
	})
}

func (api *studentApi) destroySession(ctx echo.Context) error {
	index, err := strconv.Atoi(ctx.Param("index"))
	if err != nil || index < 0 {
		return errInvalidSession
	}

	s, err := api.svc.DeleteSession(ctx.Request().Context(), ctx.Param("id"), index)
	if err != nil {
		return errors.Wrap(err, "deleting session")
	}
	return ctx.JSON(http.StatusOK, s)
}

type (
	QueryResponse struct {
		Students   []student.Student `json:"students"`
		Page       int               `json:"page"`
		TotalPages int               `json:"totalPages"`
		TotalCount int               `json:"totalCount"`
		Window     []int             `json:"window"`
		Sort       roster.SortState  `json:"sort"`
	}

	SessionsResponse struct {
		Sessions []student.SessionView `json:"sessions"`
		Summary  student.Summary       `json:"summary"`
	}
)
