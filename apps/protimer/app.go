package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/trezcool/protimer/client"
	"github.com/trezcool/protimer/client/local"
	"github.com/trezcool/protimer/client/remote"
)

const (
	defaultServer = "http://localhost:8000"
	sessionFile   = "session"
	guestDir      = "guest"
)

var errGuestLogin = errors.New("login is not needed in guest mode")

// app carries what every command needs; settings come from flags or PROTIMER_* env vars.
type app struct {
	v            *viper.Viper
	stdin        io.Reader
	readPassword func(fd int) ([]byte, error) // mockable
	logger       *zap.Logger
}

func newApp() *app {
	v := viper.New()
	v.SetEnvPrefix("protimer")
	v.AutomaticEnv()
	return &app{
		v:            v,
		stdin:        os.Stdin,
		readPassword: term.ReadPassword,
		logger:       zap.NewNop(),
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "protimer",
		Short:         "ProTimer - tasks, habits and pomodoro study sessions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if a.v.GetBool("verbose") {
				logger, err := zap.NewDevelopment()
				if err != nil {
					return errors.Wrap(err, "creating logger")
				}
				a.logger = logger
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.Bool("guest", false, "keep data on this machine instead of the server")
	flags.String("server", defaultServer, "ProTimer API URL")
	flags.String("data", "", "directory for the session and guest data (default ~/.protimer)")
	flags.BoolP("verbose", "v", false, "log storage internals")
	for _, name := range []string{"guest", "server", "data", "verbose"} {
		_ = a.v.BindPFlag(name, flags.Lookup(name))
	}

	root.AddCommand(
		loginCmd(a),
		logoutCmd(a),
		tasksCmd(a),
		habitsCmd(a),
		timerCmd(a),
		groupsCmd(a),
		dashboardCmd(a),
	)
	return root
}

func (a *app) guest() bool {
	return a.v.GetBool("guest")
}

func (a *app) dataDir() (string, error) {
	if dir := a.v.GetString("data"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "finding home directory")
	}
	return filepath.Join(home, ".protimer"), nil
}

func (a *app) sessionPath() (string, error) {
	dir, err := a.dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, sessionFile), nil
}

func (a *app) loadToken() string {
	path, err := a.sessionPath()
	if err != nil {
		return ""
	}
	token, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(token))
}

func (a *app) saveToken(token string) error {
	path, err := a.sessionPath()
	if err != nil {
		return err
	}
	if token == "" {
		if err = os.Remove(path); err != nil && !os.IsNotExist(err) {
			return errors.Wrap(err, "removing session")
		}
		return nil
	}
	if err = os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return errors.Wrap(err, "creating data directory")
	}
	return errors.Wrap(os.WriteFile(path, []byte(token), 0o600), "saving session")
}

func (a *app) remote() *remote.Client {
	return remote.New(remote.Options{BaseURL: a.v.GetString("server"), Token: a.loadToken()})
}

// openStore returns the guest store with --guest, the API otherwise. Callers close it.
func (a *app) openStore() (client.Store, error) {
	if !a.guest() {
		return a.remote(), nil
	}
	dir, err := a.dataDir()
	if err != nil {
		return nil, err
	}
	return local.Open(local.Options{Dir: filepath.Join(dir, guestDir), Logger: a.logger})
}

// withStore runs fn with an open store; unauthorized errors get a hint.
func (a *app) withStore(fn func(store client.Store) error) error {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	err = fn(store)
	if errors.Cause(err) == client.ErrUnauthorized {
		return errors.New("not logged in, run `protimer login` or use --guest")
	}
	return err
}

func (a *app) prompt(out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := bufio.NewReader(a.stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", errors.Wrap(err, "reading input")
	}
	return strings.TrimSpace(line), nil
}

func (a *app) promptPassword(out io.Writer) (string, error) {
	fmt.Fprint(out, "Password: ")
	pwd, err := a.readPassword(int(syscall.Stdin))
	fmt.Fprintln(out)
	if err != nil {
		return "", errors.Wrap(err, "reading password")
	}
	return string(pwd), nil
}
