package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/sendgrid/rest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	echoapi "github.com/trezcool/protimer/apps/api/echo"
	"github.com/trezcool/protimer/client"
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
	inmemdb "github.com/trezcool/protimer/storage/database/inmem"
)

const testPassword = "S3cure-pass!"

// startServer serves the API on top of in-memory repositories.
func startServer(t *testing.T) (*httptest.Server, *core.Config) {
	t.Helper()

	conf := core.NewTestConfig()
	logger := logsvc.NewRollbarLogger(zap.NewNop(), conf)
	core.ParseEmailTemplates(appfs.FS, appfs.EmailTemplatesDir, conf, logger)

	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	task.InitValidators(validate, translator)

	db := inmemdb.Open()
	app := echoapi.NewServer(echoapi.ServerDeps{
		Conf:           conf,
		Logger:         logger,
		Validate:       validate,
		Translator:     translator,
		DisableReqLogs: true,
		UserSvc:        user.NewService(inmemdb.NewUserRepository(db), emailsvc.NewConsoleServiceMock(conf, logger), conf, logger),
		TaskSvc:        task.NewService(inmemdb.NewTaskRepository(db)),
		HabitSvc:       habit.NewService(inmemdb.NewHabitRepository(db)),
		FlashcardSvc:   flashcard.NewService(inmemdb.NewFlashcardRepository(db)),
		MeetingSvc:     meeting.NewService(inmemdb.NewMeetingRepository(db)),
		SessionSvc:     studysession.NewService(inmemdb.NewStudySessionRepository(db)),
		GroupSvc:       studygroup.NewService(inmemdb.NewStudyGroupRepository(db)),
	})

	srv := httptest.NewServer(app)
	t.Cleanup(srv.Close)
	return srv, conf
}

func newLoggedInClient(t *testing.T) (*Client, *httptest.Server) {
	t.Helper()
	srv, conf := startServer(t)
	c := New(Options{BaseURL: srv.URL, SessionCookieName: conf.Server.SessionCookieName})
	_, err := c.Register(context.Background(), user.NewUser{
		Username:        "awe",
		Email:           "awe@test.cd",
		Password:        testPassword,
		PasswordConfirm: testPassword,
	})
	require.NoError(t, err)
	require.NotEmpty(t, c.Token())
	return c, srv
}

func TestClient_Auth(t *testing.T) {
	ctx := context.Background()
	c, srv := newLoggedInClient(t)

	usr, err := c.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "awe", usr.Username)

	require.NoError(t, c.RefreshToken(ctx))
	assert.NotEmpty(t, c.Token())

	// the token survives in a new client
	again := New(Options{BaseURL: srv.URL + "/", Token: c.Token()})
	usr, err = again.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "awe", usr.Username)

	require.NoError(t, c.Logout(ctx))
	assert.Empty(t, c.Token())
	_, err = c.CurrentUser(ctx)
	assert.Equal(t, client.ErrUnauthorized, err)

	_, err = c.Login(ctx, "awe", "wrong-password")
	var cErr *client.Error
	require.ErrorAs(t, err, &cErr)
	assert.Equal(t, http.StatusBadRequest, cErr.Status)
	assert.Equal(t, "invalid credentials", cErr.Message)

	usr, err = c.Login(ctx, "AWE", testPassword)
	require.NoError(t, err)
	assert.Equal(t, "awe", usr.Username)
	assert.NotEmpty(t, c.Token())

	require.NoError(t, c.RequestPasswordReset(ctx, "awe@test.cd"))
}

func TestClient_Tasks(t *testing.T) {
	ctx := context.Background()
	c, _ := newLoggedInClient(t)

	_, err := c.CreateTask(ctx, task.NewTask{Date: "2024-03-10"})
	var cErr *client.Error
	require.ErrorAs(t, err, &cErr)
	assert.Equal(t, http.StatusBadRequest, cErr.Status)
	assert.Contains(t, cErr.Fields, "name")

	read, err := c.CreateTask(ctx, task.NewTask{Name: "Read", Date: "2024-03-10", Priority: task.PriorityLow})
	require.NoError(t, err)
	_, err = c.CreateTask(ctx, task.NewTask{Name: "Write", Date: "2024-03-11"})
	require.NoError(t, err)

	tasks, err := c.Tasks(ctx, task.QueryFilter{Date: "2024-03-10"})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, read.ID, tasks[0].ID)

	done := true
	updated, err := c.UpdateTask(ctx, read.ID, task.UpdateTask{Completed: &done})
	require.NoError(t, err)
	assert.True(t, updated.Completed)

	tasks, err = c.Tasks(ctx, task.QueryFilter{Completed: &done, Priority: task.PriorityLow})
	require.NoError(t, err)
	assert.Len(t, tasks, 1)

	require.NoError(t, c.DeleteTask(ctx, read.ID))
	assert.Equal(t, client.ErrNotFound, c.DeleteTask(ctx, read.ID))
}

func TestClient_HabitsAndSessions(t *testing.T) {
	ctx := context.Background()
	c, _ := newLoggedInClient(t)

	h, err := c.CreateHabit(ctx, habit.NewHabit{Name: "Read"})
	require.NoError(t, err)
	h, err = c.TrackHabit(ctx, h.ID, habit.TrackHabit{})
	require.NoError(t, err)
	assert.Equal(t, 1, h.Streak)
	habits, err := c.Habits(ctx)
	require.NoError(t, err)
	assert.Len(t, habits, 1)
	require.NoError(t, c.DeleteHabit(ctx, h.ID))

	active, err := c.ActiveSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, active)

	first, err := c.StartSession(ctx, studysession.NewStudySession{Subject: "math"})
	require.NoError(t, err)
	second, err := c.StartSession(ctx, studysession.NewStudySession{Subject: "physics"})
	require.NoError(t, err)

	active, err = c.ActiveSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, second.ID, active.ID)

	_, err = c.StopSession(ctx, first.ID)
	var cErr *client.Error
	require.ErrorAs(t, err, &cErr)
	assert.Equal(t, "study session is not active", cErr.Message)

	stopped, err := c.StopSession(ctx, second.ID)
	require.NoError(t, err)
	assert.False(t, stopped.IsActive)

	sessions, err := c.Sessions(ctx)
	require.NoError(t, err)
	assert.Len(t, sessions, 2)
	stats, err := c.SessionStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalSessions)

	groups, err := c.Groups(ctx)
	require.NoError(t, err)
	assert.Empty(t, groups)
	_, err = c.Leaderboard(ctx, 42)
	assert.Equal(t, client.ErrNotFound, err)
	_, err = c.GroupActiveSessions(ctx, 42)
	assert.Equal(t, client.ErrNotFound, err)
}

func TestClient_CanceledContext(t *testing.T) {
	c, _ := newLoggedInClient(t)

	usr, err := c.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "awe", usr.Username)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.CurrentUser(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotEmpty(t, c.Token(), "a failed request keeps the session")
}

func TestDecodeError(t *testing.T) {
	tests := []struct {
		name string
		resp rest.Response
		want error
	}{
		{name: "unauthorized", resp: rest.Response{StatusCode: 401, Body: `{"error":"user not authenticated"}`}, want: client.ErrUnauthorized},
		{name: "not found", resp: rest.Response{StatusCode: 404, Body: `{"message":"Not Found"}`}, want: client.ErrNotFound},
		{
			name: "message",
			resp: rest.Response{StatusCode: 403, Body: `{"error":"permission denied"}`},
			want: &client.Error{Status: 403, Message: "permission denied"},
		},
		{
			name: "echo message",
			resp: rest.Response{StatusCode: 429, Body: `{"message":"too many requests"}`},
			want: &client.Error{Status: 429, Message: "too many requests"},
		},
		{
			name: "fields",
			resp: rest.Response{StatusCode: 400, Body: `{"name":"name is a required field","date":"bad date"}`},
			want: &client.Error{Status: 400, Fields: map[string]string{"name": "name is a required field", "date": "bad date"}},
		},
		{
			name: "not json",
			resp: rest.Response{StatusCode: 502, Body: "bad gateway\n"},
			want: &client.Error{Status: 502, Message: "bad gateway"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := tt.resp
			assert.Equal(t, tt.want, decodeError(&resp))
		})
	}
}
