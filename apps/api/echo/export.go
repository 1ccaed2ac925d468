package echoapi

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/academykit/kiosk/core/export"
	"github.com/academykit/kiosk/core/roster"
	"github.com/academykit/kiosk/core/student"
)

type exportApi struct {
	svc student.ServiceInterface
}

func registerExportAPI(g *echo.Group, deps *ServerDeps) {
	api := exportApi{svc: deps.StudentSvc}

	eg := g.Group("/export")
	eg.GET("/roster.csv", api.roster)
	eg.GET("/sessions.csv", api.sessions)
}

// Handlers

func (api *exportApi) roster(ctx echo.Context) error {
	return api.download(ctx, export.KindRoster, export.Roster)
}

func (api *exportApi) sessions(ctx echo.Context) error {
	return api.download(ctx, export.KindSessions, export.Sessions)
}

// download encodes the same view the roster listing serves: it honors
// the filter and ordering query params, so the file matches what the
// admin screen currently shows. The export is buffered whole before
// writing the response so an encoding failure still yields a clean
// error instead of a torn file.
func (api *exportApi) download(ctx echo.Context, kind string, encode func(w io.Writer, students []student.Student) error) error {
	var query RosterQuery
	query.Bind(ctx)

	students, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	students = roster.SortBy(roster.Filter(students, query.Criteria), query.Sort.Column, query.Sort.Descending)

	var buf bytes.Buffer
	if err := encode(&buf, students); err != nil {
		return errors.Wrapf(err, "encoding %s export", kind)
	}

	ctx.Response().Header().Set(
		echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, export.Filename(kind, time.Now())),
	)
	return ctx.Blob(http.StatusOK, "text/csv", buf.Bytes())
}
