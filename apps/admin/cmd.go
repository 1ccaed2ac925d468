package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/academykit/kiosk/core/export"
	"github.com/academykit/kiosk/core/roster"
	"github.com/academykit/kiosk/core/student"
)

var (
	nowFunc = time.Now // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	svc student.ServiceInterface
	out io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  list [-search TEXT] [-status STATUS] [-game GAME] - print the roster")
	fmt.Println("  export -kind roster|sessions [-search TEXT] [-status STATUS] [-game GAME] [-out FILE] - write a CSV export")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	listCmd := flag.NewFlagSet("list", flag.ExitOnError)
	listSearch := listCmd.String("search", "", "Substring match on first name, last name or email.")
	listStatus := listCmd.String("status", "", "Exact status match.")
	listGame := listCmd.String("game", "", "Keep students enrolled in this game category.")

	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	exportKind := exportCmd.String("kind", "", `The export kind: "roster" or "sessions".`)
	exportSearch := exportCmd.String("search", "", "Substring match on first name, last name or email.")
	exportStatus := exportCmd.String("status", "", "Exact status match.")
	exportGame := exportCmd.String("game", "", "Keep students enrolled in this game category.")
	exportOut := exportCmd.String("out", "", "The destination file. Defaults to <kind>-<date>.csv in the working directory.")

	switch args[1] {
	case "list":
		if err := listCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.list(roster.Criteria{Search: *listSearch, Status: *listStatus, Game: *listGame})
	case "export":
		if err := exportCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *exportKind != export.KindRoster && *exportKind != export.KindSessions {
			exportCmd.Usage()
			return errHelp
		}
		criteria := roster.Criteria{Search: *exportSearch, Status: *exportStatus, Game: *exportGame}
		return cli.export(*exportKind, criteria, *exportOut)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) list(criteria roster.Criteria) error {
	students, err := cli.svc.QueryAll(context.Background())
	if err != nil {
		return err
	}
	students = roster.SortBy(roster.Filter(students, criteria), roster.ColumnName, false)

	tw := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPIN\tSTATUS\tSESSIONS\tHOURS")
	for _, s := range students {
		sum := student.Summarize(s.Sessions)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%.2f\n", s.ID, s.FullName(), s.PIN, s.Status, sum.Count, sum.TotalHours)
	}
	return tw.Flush()
}

func (cli *commandLine) export(kind string, criteria roster.Criteria, out string) error {
	students, err := cli.svc.QueryAll(context.Background())
	if err != nil {
		return err
	}
	students = roster.SortBy(roster.Filter(students, criteria), roster.ColumnName, false)

	if out == "" {
		out = export.Filename(kind, nowFunc())
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	switch kind {
	case export.KindSessions:
		err = export.Sessions(f, students)
	default:
		err = export.Roster(f, students)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cli.out, "wrote %s\n", out)
	return nil
}
