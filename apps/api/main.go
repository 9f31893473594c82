package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/vertexlab/academia/apps/api/echo"
	"github.com/vertexlab/academia/core"
	"github.com/vertexlab/academia/core/attendance"
	"github.com/vertexlab/academia/core/calendar"
	"github.com/vertexlab/academia/core/course"
	"github.com/vertexlab/academia/core/marks"
	"github.com/vertexlab/academia/core/profile"
	"github.com/vertexlab/academia/core/schedule"
	logsvc "github.com/vertexlab/academia/services/logger"
	portalsvc "github.com/vertexlab/academia/services/portal"
	"github.com/vertexlab/academia/storage/database"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	var logger core.Logger
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	if conf.RollbarToken != "" {
		rollbarLogger := logsvc.NewRollbarLogger(std, conf)
		rollbarLogger.Enable(!conf.Debug)
		logger = rollbarLogger
	} else {
		logger = logsvc.NewStdLogger(std)
	}

	// set up DB; the API runs without it, only the day-order fallback degrades
	var calendarRepo calendar.Repository
	if conf.Database.User != "" {
		db, err := database.Open(conf)
		if err != nil {
			logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
		}
		defer func() { _ = db.Close() }()
		calendarRepo = database.NewCalendarRepository(db)
	} else {
		logger.Warn("no database configured; day order runs without the store fallback")
	}

	// set up services
	client := portalsvc.NewClient(conf, logger)
	courseSvc := course.NewService(client, logger)

	deps := echoapi.ServerDeps{
		Conf:          conf,
		Logger:        logger,
		Client:        client,
		ScheduleSvc:   schedule.NewService(client, logger),
		AttendanceSvc: attendance.NewService(client, courseSvc, logger),
		MarksSvc:      marks.NewService(client, courseSvc, logger),
		CourseSvc:     courseSvc,
		CalendarSvc:   calendar.NewService(client, calendarRepo, logger),
		ProfileSvc:    profile.NewService(client, logger),
	}

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	deps.Validate = validator.New()
	deps.Translator = newTranslator()
	core.InitValidators(deps.Validate, deps.Translator)

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(deps)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err := <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Portal.Timeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
