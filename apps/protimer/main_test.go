package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/trezcool/protimer/client"
)

func newTestApp(stdin string) *app {
	return &app{
		v:            viper.New(),
		stdin:        strings.NewReader(stdin),
		readPassword: func(int) ([]byte, error) { return []byte("S3cure-pass!"), nil },
		logger:       zap.NewNop(),
	}
}

func run(a *app, args ...string) (string, error) {
	cmd := newRootCmd(a)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGuest_Tasks(t *testing.T) {
	a := newTestApp("")
	guest := []string{"--guest", "--data", t.TempDir()}
	tasks := func(args ...string) (string, error) {
		return run(a, append(append([]string{"tasks"}, args...), guest...)...)
	}

	out, err := tasks("add", "Read", "book", "--date", "2024-03-10", "-p", "high", "--start", "09:00", "--end", "10:00")
	require.NoError(t, err)
	assert.Equal(t, "Added task #1 Read book\n", out)

	_, err = tasks("add", "Write", "--date", "2024-03-10", "-p", "urgent")
	var cErr *client.Error
	require.ErrorAs(t, err, &cErr)
	assert.Equal(t, "priority must be one of high, medium, low", cErr.Fields["priority"])

	out, err = tasks("list", "--date", "2024-03-10")
	require.NoError(t, err)
	assert.Contains(t, out, "09:00-10:00")
	assert.Contains(t, out, "high")
	assert.Contains(t, out, "pending")
	assert.Contains(t, out, "Read book")

	out, err = tasks("done", "1")
	require.NoError(t, err)
	assert.Equal(t, "Task #1 Read book: done\n", out)

	out, err = tasks("list", "--date", "2024-03-10", "--pending")
	require.NoError(t, err)
	assert.Equal(t, "No tasks\n", out)

	out, err = tasks("list", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "Read book")

	_, err = tasks("done", "abc")
	assert.EqualError(t, err, `invalid id "abc"`)

	out, err = tasks("rm", "1")
	require.NoError(t, err)
	assert.Equal(t, "Deleted task #1\n", out)
	_, err = tasks("rm", "1")
	assert.Equal(t, client.ErrNotFound, err)
}

func TestGuest_Habits(t *testing.T) {
	a := newTestApp("")
	guest := []string{"--guest", "--data", t.TempDir()}
	yesterday := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")

	out, err := run(a, append([]string{"habits", "add", "Read"}, guest...)...)
	require.NoError(t, err)
	assert.Equal(t, "Added habit #1 Read (7 days a week)\n", out)

	out, err = run(a, append([]string{"habits", "track", "1", "--date", yesterday}, guest...)...)
	require.NoError(t, err)
	assert.Equal(t, "Read: 1 day streak\n", out)

	out, err = run(a, append([]string{"habits", "track", "1"}, guest...)...)
	require.NoError(t, err)
	assert.Equal(t, "Read: 2 day streak\n", out)

	out, err = run(a, append([]string{"habits", "list"}, guest...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "7/week")
	assert.Contains(t, out, "x")
}

func TestGuest_Timer(t *testing.T) {
	a := newTestApp("")
	guest := []string{"--guest", "--data", t.TempDir()}
	timer := func(args ...string) (string, error) {
		return run(a, append(append([]string{"timer"}, args...), guest...)...)
	}

	out, err := timer("status")
	require.NoError(t, err)
	assert.Equal(t, "No session running\n", out)

	_, err = timer("stop")
	assert.Equal(t, errNoSession, err)

	out, err = timer("start", "math", "--task", "chapter 2")
	require.NoError(t, err)
	assert.Equal(t, "Started #1 math - chapter 2 (focus 25m, break 5m)\n", out)

	out, err = timer("start", "physics", "--focus", "50", "--break", "10")
	require.NoError(t, err)
	assert.Equal(t, "Stopped #1 math - chapter 2\nStarted #2 physics (focus 50m, break 10m)\n", out)

	out, err = timer("status")
	require.NoError(t, err)
	assert.Contains(t, out, "#2 physics running for")
	assert.Contains(t, out, "pomodoro 1, focus")

	out, err = timer("stop")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Stopped #2 physics after "), out)

	out, err = run(a, append([]string{"dashboard"}, guest...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Tasks:  0/0 done")
	assert.Contains(t, out, "2 sessions overall")
	assert.Contains(t, out, "No session running")
}

func TestGuest_Unsupported(t *testing.T) {
	a := newTestApp("")
	guest := []string{"--guest", "--data", t.TempDir()}

	_, err := run(a, append([]string{"groups", "leaderboard", "1"}, guest...)...)
	assert.Equal(t, client.ErrGuestUnsupported, err)
	_, err = run(a, append([]string{"groups", "list"}, guest...)...)
	assert.Equal(t, client.ErrGuestUnsupported, err)
	_, err = run(a, append([]string{"login", "awe"}, guest...)...)
	assert.Equal(t, errGuestLogin, err)
	_, err = run(a, append([]string{"logout"}, guest...)...)
	assert.Equal(t, errGuestLogin, err)
}

// fakeAPI accepts awe with any password and serves an empty task list to the session "tok".
func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["username"] != "awe" || body["password"] != "S3cure-pass!" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid credentials"}`))
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "protimer_session", Value: "tok", Path: "/"})
		_, _ = w.Write([]byte(`{"token":"tok","user":{"id":1,"username":"awe"}}`))
	})
	mux.HandleFunc("/api/logout", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "protimer_session", Path: "/", MaxAge: -1})
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/api/tasks", func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("protimer_session"); err != nil || c.Value != "tok" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"user not authenticated"}`))
			return
		}
		assert.NotEmpty(t, r.URL.Query().Get("date"))
		_, _ = w.Write([]byte(`[]`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRemote_LoginLogout(t *testing.T) {
	srv := fakeAPI(t)
	dir := t.TempDir()
	remote := []string{"--server", srv.URL, "--data", dir}

	_, err := run(newTestApp(""), append([]string{"tasks", "list"}, remote...)...)
	assert.EqualError(t, err, "not logged in, run `protimer login` or use --guest")

	out, err := run(newTestApp("awe\n"), append([]string{"login"}, remote...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as awe")
	token, err := os.ReadFile(filepath.Join(dir, sessionFile))
	require.NoError(t, err)
	assert.Equal(t, "tok", string(token))

	out, err = run(newTestApp(""), append([]string{"tasks", "list"}, remote...)...)
	require.NoError(t, err)
	assert.Equal(t, "No tasks\n", out)

	out, err = run(newTestApp(""), append([]string{"logout"}, remote...)...)
	require.NoError(t, err)
	assert.Equal(t, "Logged out\n", out)
	_, err = os.Stat(filepath.Join(dir, sessionFile))
	assert.True(t, os.IsNotExist(err))

	bad := newTestApp("")
	bad.readPassword = func(int) ([]byte, error) { return []byte("nope"), nil }
	_, err = run(bad, append([]string{"login", "awe"}, remote...)...)
	assert.EqualError(t, err, "invalid credentials")
}

func TestPomodoroPhase(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		focus   int
		brk     int
		want    phase
	}{
		{name: "start", elapsed: 0, focus: 25, brk: 5, want: phase{Name: "focus", Cycle: 1, Left: 25 * time.Minute}},
		{name: "mid focus", elapsed: 10 * time.Minute, focus: 25, brk: 5, want: phase{Name: "focus", Cycle: 1, Left: 15 * time.Minute}},
		{name: "break", elapsed: 27 * time.Minute, focus: 25, brk: 5, want: phase{Name: "break", Cycle: 1, Left: 3 * time.Minute}},
		{name: "second cycle", elapsed: 31 * time.Minute, focus: 25, brk: 5, want: phase{Name: "focus", Cycle: 2, Left: 24 * time.Minute}},
		{name: "no durations", elapsed: time.Hour, want: phase{Name: "focus", Cycle: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pomodoroPhase(tt.elapsed, tt.focus, tt.brk))
		})
	}
}
