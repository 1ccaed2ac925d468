package echoapi

import (
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/volatiletech/null/v8"

	"github.com/academykit/kiosk/core/roster"
)

var (
	orderingParam = "ordering"
	pageParam     = "page"

	queryDateLayout = "2006-01-02"
)

// RosterQuery binds the roster listing controls from the query string:
// the filter criteria, the active ordering ("-name" means descending)
// and the 1-based page number.
type RosterQuery struct {
	Criteria roster.Criteria
	Sort     roster.SortState
	Page     int
}

func (q *RosterQuery) Bind(ctx echo.Context) {
	q.Sort = roster.SortState{Column: roster.ColumnName}
	q.Page = 1

	data := ctx.QueryParams()
	if len(data) == 0 {
		return
	}

	q.Criteria.Search = ctx.QueryParam("search")
	q.Criteria.Status = ctx.QueryParam("status")
	q.Criteria.Game = ctx.QueryParam("game")
	q.Criteria.RegisteredFrom = bindDate(ctx.QueryParam("registered_from"))
	q.Criteria.ClassEndFrom = bindDate(ctx.QueryParam("class_end_from"))
	q.Criteria.PracticeEndFrom = bindDate(ctx.QueryParam("practice_end_from"))
	q.Criteria.Clean()

	if val := strings.TrimSpace(ctx.QueryParam(orderingParam)); val != "" {
		descending := strings.HasPrefix(val, "-")
		if descending {
			val = val[1:] // drop "-"
		}
		if col, ok := roster.ParseColumn(val); ok {
			q.Sort = roster.SortState{Column: col, Descending: descending}
		}
	}

	if page, err := strconv.Atoi(ctx.QueryParam(pageParam)); err == nil {
		q.Page = page // clamped by the pipeline
	}
}

// bindDate parses an ISO calendar date; anything else reads as unset.
func bindDate(val string) null.Time {
	if val == "" {
		return null.Time{}
	}
	t, err := time.Parse(queryDateLayout, val)
	if err != nil {
		return null.Time{}
	}
	return null.TimeFrom(t)
}
