package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof" // /debug/pprof

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	echoapi "github.com/trezcool/protimer/apps/api/echo"
	"github.com/trezcool/protimer/core"
	"github.com/trezcool/protimer/core/flashcard"
	"github.com/trezcool/protimer/core/habit"
	"github.com/trezcool/protimer/core/meeting"
	"github.com/trezcool/protimer/core/studygroup"
	"github.com/trezcool/protimer/core/studysession"
	"github.com/trezcool/protimer/core/task"
	"github.com/trezcool/protimer/core/user"
	appfs "github.com/trezcool/protimer/fs"
	emailsvc "github.com/trezcool/protimer/services/email"
	logsvc "github.com/trezcool/protimer/services/logger"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up logger
	zl, err := logsvc.NewZap(conf)
	if err != nil {
		log.Fatalf("main.NewZap(): %v", err)
	}
	logger := logsvc.NewRollbarLogger(zl.Named("api"), conf)
	logger.Enable(!conf.Debug)
	defer logger.Sync()

	// set up storage
	store, err := openRepositories(conf, logsvc.NewRollbarLogger(zl.Named("db"), conf))
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up storage: %v", err), err)
	}
	defer store.close()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug || conf.SendgridApiKey == "" {
		mailSvc = emailsvc.NewConsoleService(conf, logger)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	task.InitValidators(validate, translator)

	core.ParseEmailTemplates(appfs.FS, appfs.EmailTemplatesDir, conf, logger)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.
	// /metrics - Prometheus collectors of the API.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	expvar.NewString("storage").Set(conf.Database.Driver)
	http.Handle("/metrics", promhttp.Handler())

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(echoapi.ServerDeps{
		Conf:         conf,
		Logger:       logger,
		Validate:     validate,
		Translator:   translator,
		UserSvc:      user.NewService(store.users, mailSvc, conf, logger),
		TaskSvc:      task.NewService(store.tasks),
		HabitSvc:     habit.NewService(store.habits),
		FlashcardSvc: flashcard.NewService(store.flashcards),
		MeetingSvc:   meeting.NewService(store.meetings),
		SessionSvc:   studysession.NewService(store.sessions),
		GroupSvc:     studygroup.NewService(store.groups),
	})

	go server.Start()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
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
