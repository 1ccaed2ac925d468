package main

import (
	"log"
	"os"

	"github.com/academykit/kiosk/core"
	"github.com/academykit/kiosk/core/settings"
	"github.com/academykit/kiosk/core/student"
	logsvc "github.com/academykit/kiosk/services/logger"
	"github.com/academykit/kiosk/storage/apiclient"
)

func main() {
	defer os.Exit(0)

	conf := core.NewConfig()
	stdLogger := log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)

	// set up the backend client and services
	client := apiclient.New(conf)
	settingsSvc := settings.NewService(apiclient.NewSettingsRepository(client), logger)
	studentSvc := student.NewService(apiclient.NewStudentRepository(client), settingsSvc)

	// start CLI
	cli := commandLine{
		svc: studentSvc,
		out: os.Stdout,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			stdLogger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
