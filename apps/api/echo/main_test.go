package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

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

var errNotAuthenticated = httpErr{Error: "user not authenticated"}

type testEnv struct {
	conf    *core.Config
	db      *inmemdb.DB
	app     Server
	usrRepo user.Repository
	auth    *authenticator
}

func setup(t *testing.T, confOpts ...func(*core.Config)) *testEnv {
	t.Helper()

	conf := core.NewTestConfig()
	for _, opt := range confOpts {
		opt(conf)
	}
	logger := logsvc.NewRollbarLogger(zap.NewNop(), conf)
	core.ParseEmailTemplates(appfs.FS, appfs.EmailTemplatesDir, conf, logger)

	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	task.InitValidators(validate, translator)

	// set up DB & repos
	db := inmemdb.Open()
	usrRepo := inmemdb.NewUserRepository(db)

	// set up services
	mailSvc := emailsvc.NewConsoleServiceMock(conf, logger)
	emailsvc.ClearSentMessages()

	app := NewServer(ServerDeps{
		Conf:           conf,
		Logger:         logger,
		Validate:       validate,
		Translator:     translator,
		DisableReqLogs: true,
		UserSvc:        user.NewService(usrRepo, mailSvc, conf, logger),
		TaskSvc:        task.NewService(inmemdb.NewTaskRepository(db)),
		HabitSvc:       habit.NewService(inmemdb.NewHabitRepository(db)),
		FlashcardSvc:   flashcard.NewService(inmemdb.NewFlashcardRepository(db)),
		MeetingSvc:     meeting.NewService(inmemdb.NewMeetingRepository(db)),
		SessionSvc:     studysession.NewService(inmemdb.NewStudySessionRepository(db)),
		GroupSvc:       studygroup.NewService(inmemdb.NewStudyGroupRepository(db)),
	})

	return &testEnv{
		conf:    conf,
		db:      db,
		app:     app,
		usrRepo: usrRepo,
		auth:    newAuthenticator(conf),
	}
}

func (env *testEnv) createUser(t *testing.T, uname, email string, isActive bool) user.User {
	t.Helper()
	now := time.Now().UTC()
	usr := user.User{
		Username:  uname,
		Email:     email,
		IsActive:  isActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, usr.SetPassword(testPassword))
	usr, err := env.usrRepo.CreateUser(context.Background(), usr)
	require.NoError(t, err)
	return usr
}

func (env *testEnv) getToken(t *testing.T, usr user.User) string {
	t.Helper()
	token, err := env.auth.generateToken(env.auth.userClaims(usr))
	require.NoError(t, err)
	return token
}

// do serves the request, authenticated with token when set, and returns the recorder.
func (env *testEnv) do(method, path, token string, data ...[]byte) *httptest.ResponseRecorder {
	req, rec := newAuthRequest(env.conf, method, path, token, data...)
	env.app.ServeHTTP(rec, req)
	return rec
}

// doJSON serves the request and decodes the response body into dst.
func (env *testEnv) doJSON(t *testing.T, method, path, token string, body interface{}, dst interface{}) int {
	t.Helper()
	var data []byte
	if body != nil {
		data = marchallObj(t, body)
	}
	rec := env.do(method, path, token, data)
	if dst != nil {
		require.NoError(t, jsonUnmarshal(rec.Body.Bytes(), dst), rec.Body.String())
	}
	return rec.Code
}

func jsonUnmarshal(data []byte, dst interface{}) error {
	return json.Unmarshal(data, dst)
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(conf *core.Config, method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: conf.Server.SessionCookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHTTPTests(t *testing.T, env *testEnv, tests []httpTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkCodeAndData(t, tt, env.do(tt.method, tt.path, tt.token, tt.body))
		})
	}
}

func sessionCookie(env *testEnv, rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == env.conf.Server.SessionCookieName {
			return c
		}
	}
	return nil
}
