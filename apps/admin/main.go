package main

import (
	"log"
	"os"

	"github.com/vertexlab/academia/core"
	"github.com/vertexlab/academia/core/attendance"
	"github.com/vertexlab/academia/core/calendar"
	"github.com/vertexlab/academia/core/course"
	emailsvc "github.com/vertexlab/academia/services/email"
	logsvc "github.com/vertexlab/academia/services/logger"
	portalsvc "github.com/vertexlab/academia/services/portal"
	"github.com/vertexlab/academia/storage/database"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()
	appLogger := logsvc.NewStdLogger(logger)

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)
	defer func() { _ = db.Close() }()

	// set up services
	client := portalsvc.NewClient(conf, appLogger)
	courseSvc := course.NewService(client, appLogger)
	calendarRepo := database.NewCalendarRepository(db)

	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, appLogger)
	}

	// start CLI
	cli := commandLine{
		db:      db.DB,
		conf:    conf,
		client:  client,
		calSvc:  calendar.NewService(client, calendarRepo, appLogger),
		attSvc:  attendance.NewService(client, courseSvc, appLogger),
		mailSvc: mailSvc,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
