package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/trezcool/protimer/client"
	"github.com/trezcool/protimer/core/studysession"
)

var errNoSession = errors.New("no study session is running")

type phase struct {
	Name  string // focus or break
	Cycle int    // 1-based pomodoro
	Left  time.Duration
}

// pomodoroPhase locates elapsed within repeated focus+break cycles, durations in minutes.
func pomodoroPhase(elapsed time.Duration, focus, brk int) phase {
	focusDur := time.Duration(focus) * time.Minute
	cycleDur := focusDur + time.Duration(brk)*time.Minute
	if cycleDur <= 0 {
		return phase{Name: "focus", Cycle: 1}
	}
	pos := elapsed % cycleDur
	p := phase{Cycle: int(elapsed/cycleDur) + 1}
	if pos < focusDur {
		p.Name, p.Left = "focus", focusDur-pos
	} else {
		p.Name, p.Left = "break", cycleDur-pos
	}
	return p
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

func describeSession(s studysession.StudySession) string {
	label := s.Subject
	if label == "" {
		label = "(no subject)"
	}
	if s.TaskName != "" {
		label += " - " + s.TaskName
	}
	return fmt.Sprintf("#%d %s", s.ID, label)
}

func timerCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timer",
		Short: "Run pomodoro study sessions",
	}

	start := &cobra.Command{
		Use:   "start [SUBJECT]",
		Short: "Start a study session, stopping the running one",
		RunE: func(cmd *cobra.Command, args []string) error {
			ns := studysession.NewStudySession{Subject: strings.Join(args, " ")}
			ns.TaskName, _ = cmd.Flags().GetString("task")
			ns.FocusDuration, _ = cmd.Flags().GetInt("focus")
			ns.BreakDuration, _ = cmd.Flags().GetInt("break")

			return a.withStore(func(store client.Store) error {
				out := cmd.OutOrStdout()
				prev, err := store.ActiveSession(cmd.Context())
				if err != nil {
					return err
				}
				s, err := store.StartSession(cmd.Context(), ns)
				if err != nil {
					return err
				}
				if prev != nil {
					fmt.Fprintf(out, "Stopped %s\n", describeSession(*prev))
				}
				fmt.Fprintf(out, "Started %s (focus %dm, break %dm)\n", describeSession(s), s.FocusDuration, s.BreakDuration)
				return nil
			})
		},
	}
	start.Flags().String("task", "", "task worked on")
	start.Flags().Int("focus", 0, "focus minutes per pomodoro")
	start.Flags().Int("break", 0, "break minutes per pomodoro")

	stop := &cobra.Command{
		Use:   "stop",
		Short: "Stop the running session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(func(store client.Store) error {
				active, err := store.ActiveSession(cmd.Context())
				if err != nil {
					return err
				}
				if active == nil {
					return errNoSession
				}
				s, err := store.StopSession(cmd.Context(), active.ID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Stopped %s after %s\n", describeSession(s), seconds(s.Duration))
				return nil
			})
		},
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show the running session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(func(store client.Store) error {
				active, err := store.ActiveSession(cmd.Context())
				if err != nil {
					return err
				}
				printTimer(cmd, active)
				return nil
			})
		},
	}

	cmd.AddCommand(start, stop, status)
	return cmd
}

func printTimer(cmd *cobra.Command, active *studysession.StudySession) {
	out := cmd.OutOrStdout()
	if active == nil {
		fmt.Fprintln(out, "No session running")
		return
	}
	elapsed := studysession.Elapsed(*active)
	p := pomodoroPhase(elapsed, active.FocusDuration, active.BreakDuration)
	fmt.Fprintf(out, "%s running for %s: pomodoro %d, %s, %s left\n",
		describeSession(*active), elapsed, p.Cycle, p.Name, p.Left)
}
