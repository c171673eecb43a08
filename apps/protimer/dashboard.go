package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/trezcool/protimer/client"
	"github.com/trezcool/protimer/core"
	"github.com/trezcool/protimer/core/habit"
	"github.com/trezcool/protimer/core/studysession"
	"github.com/trezcool/protimer/core/task"
)

type dashboard struct {
	tasks  []task.Task
	habits []habit.Habit
	active *studysession.StudySession
	stats  studysession.Stats
}

func dashboardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Today at a glance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(func(store client.Store) error {
				var d dashboard
				g, ctx := errgroup.WithContext(cmd.Context())
				g.Go(func() (err error) {
					d.tasks, err = store.Tasks(ctx, task.QueryFilter{Date: core.Today()})
					return err
				})
				g.Go(func() (err error) {
					d.habits, err = store.Habits(ctx)
					return err
				})
				g.Go(func() (err error) {
					d.active, err = store.ActiveSession(ctx)
					return err
				})
				g.Go(func() (err error) {
					d.stats, err = store.SessionStats(ctx)
					return err
				})
				if err := g.Wait(); err != nil {
					return err
				}
				printDashboard(cmd, d)
				return nil
			})
		},
	}
}

func printDashboard(cmd *cobra.Command, d dashboard) {
	out := cmd.OutOrStdout()

	done := 0
	for _, t := range d.tasks {
		if t.Completed {
			done++
		}
	}
	tracked := 0
	today := core.Today()
	for _, h := range d.habits {
		if h.IsCompleted(today) {
			tracked++
		}
	}

	fmt.Fprintf(out, "Today %s\n", today)
	fmt.Fprintf(out, "Tasks:  %d/%d done\n", done, len(d.tasks))
	fmt.Fprintf(out, "Habits: %d/%d tracked\n", tracked, len(d.habits))
	fmt.Fprintf(out, "Study:  %s today, %s this week, %d sessions overall\n",
		seconds(d.stats.TodayDuration), seconds(d.stats.WeekDuration), d.stats.TotalSessions)
	printTimer(cmd, d.active)

	if len(d.tasks) > 0 {
		fmt.Fprintln(out)
		printTasks(out, d.tasks)
	}
}
