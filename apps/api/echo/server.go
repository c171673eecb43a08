package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/kat-co/vala"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/protimer/core"
	"github.com/trezcool/protimer/core/flashcard"
	"github.com/trezcool/protimer/core/habit"
	"github.com/trezcool/protimer/core/meeting"
	"github.com/trezcool/protimer/core/studygroup"
	"github.com/trezcool/protimer/core/studysession"
	"github.com/trezcool/protimer/core/task"
	"github.com/trezcool/protimer/core/user"
)

type (
	ServerDeps struct {
		Conf           *core.Config
		Logger         core.Logger
		Validate       *validator.Validate
		Translator     ut.Translator
		DisableReqLogs bool

		UserSvc      user.Service
		TaskSvc      *task.Service
		HabitSvc     *habit.Service
		FlashcardSvc *flashcard.Service
		MeetingSvc   *meeting.Service
		SessionSvc   *studysession.Service
		GroupSvc     *studygroup.Service
	}

	Server interface {
		http.Handler
		Start()
		Shutdown(context.Context) error
		Close() error
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
	}

	server struct {
		deps     ServerDeps
		app      *echo.Echo
		auth     *authenticator
		errors   chan error
		shutdown chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(deps ServerDeps) Server {
	vala.BeginValidation().Validate(
		vala.IsNotNil(deps.Conf, "conf"),
		vala.IsNotNil(deps.Logger, "logger"),
		vala.IsNotNil(deps.Validate, "validate"),
		vala.IsNotNil(deps.Translator, "translator"),
		vala.IsNotNil(deps.UserSvc, "userSvc"),
		vala.IsNotNil(deps.TaskSvc, "taskSvc"),
		vala.IsNotNil(deps.HabitSvc, "habitSvc"),
		vala.IsNotNil(deps.FlashcardSvc, "flashcardSvc"),
		vala.IsNotNil(deps.MeetingSvc, "meetingSvc"),
		vala.IsNotNil(deps.SessionSvc, "sessionSvc"),
		vala.IsNotNil(deps.GroupSvc, "groupSvc"),
	).CheckAndPanic()

	s := &server{
		deps:     deps,
		app:      echo.New(),
		auth:     newAuthenticator(deps.Conf),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf

	s.app.HideBanner = true
	s.app.Server.ReadTimeout = conf.Server.ReadTimeout
	s.app.Server.WriteTimeout = conf.Server.WriteTimeout

	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	if !s.deps.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(metricsMiddleware())

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", s.home)

	g := s.app.Group("/api")
	authed := []echo.MiddlewareFunc{
		middleware.JWTWithConfig(s.auth.jwtConfig),
		currentUserMiddleware(s.deps.UserSvc),
	}
	limiter := rateLimitMiddleware(newIPRateLimiter(conf.Server.RateLimit, conf.Server.RateBurst))

	registerUserAPI(g, authed, limiter, s.auth, s.deps.UserSvc, s.deps.Validate, s.deps.Logger)
	ag := g.Group("", authed...)
	registerTaskAPI(ag, s.deps.TaskSvc, s.deps.Validate)
	registerHabitAPI(ag, s.deps.HabitSvc, s.deps.Validate)
	registerFlashcardAPI(ag, s.deps.FlashcardSvc, s.deps.Validate)
	registerMeetingAPI(ag, s.deps.MeetingSvc, s.deps.Validate)
	registerStudySessionAPI(ag, s.deps.SessionSvc, s.deps.Validate)
	registerStudyGroupAPI(ag, s.deps.GroupSvc, s.deps.Validate)
}

func (s *server) Start() {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	if err := s.app.Start(s.deps.Conf.Server.Address()); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) Errors() <-chan error {
	return s.errors
}

func (s *server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *server) home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to "+s.deps.Conf.AppName+" API!")
}
