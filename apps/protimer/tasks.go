package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/trezcool/protimer/client"
	"github.com/trezcool/protimer/core"
	"github.com/trezcool/protimer/core/habit"
	"github.com/trezcool/protimer/core/task"
)

func idArg(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, errors.Errorf("invalid id %q", arg)
	}
	return id, nil
}

func tasksCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Manage tasks",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List tasks, today's by default",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			date, _ := cmd.Flags().GetString("date")
			all, _ := cmd.Flags().GetBool("all")
			filter := task.QueryFilter{Date: date}
			if all {
				filter.Date = ""
			} else if filter.Date == "" {
				filter.Date = core.Today()
			}
			if pending, _ := cmd.Flags().GetBool("pending"); pending {
				completed := false
				filter.Completed = &completed
			}

			return a.withStore(func(store client.Store) error {
				tasks, err := store.Tasks(cmd.Context(), filter)
				if err != nil {
					return err
				}
				printTasks(cmd.OutOrStdout(), tasks)
				return nil
			})
		},
	}
	list.Flags().String("date", "", "day to list (YYYY-MM-DD)")
	list.Flags().Bool("all", false, "list every day")
	list.Flags().Bool("pending", false, "hide completed tasks")

	add := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nt := task.NewTask{Name: strings.Join(args, " ")}
			nt.Date, _ = cmd.Flags().GetString("date")
			nt.StartTime, _ = cmd.Flags().GetString("start")
			nt.EndTime, _ = cmd.Flags().GetString("end")
			nt.Priority, _ = cmd.Flags().GetString("priority")
			if nt.Date == "" {
				nt.Date = core.Today()
			}

			return a.withStore(func(store client.Store) error {
				t, err := store.CreateTask(cmd.Context(), nt)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added task #%d %s\n", t.ID, t.Name)
				return nil
			})
		},
	}
	add.Flags().String("date", "", "day of the task (YYYY-MM-DD), today by default")
	add.Flags().String("start", "", "start time (HH:MM)")
	add.Flags().String("end", "", "end time (HH:MM)")
	add.Flags().StringP("priority", "p", "", "high, medium or low")

	done := &cobra.Command{
		Use:   "done ID",
		Short: "Mark a task as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg(args[0])
			if err != nil {
				return err
			}
			undo, _ := cmd.Flags().GetBool("undo")
			completed := !undo
			return a.withStore(func(store client.Store) error {
				t, err := store.UpdateTask(cmd.Context(), id, task.UpdateTask{Completed: &completed})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Task #%d %s: %s\n", t.ID, t.Name, doneLabel(t.Completed))
				return nil
			})
		},
	}
	done.Flags().Bool("undo", false, "mark as pending again")

	rm := &cobra.Command{
		Use:   "rm ID",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg(args[0])
			if err != nil {
				return err
			}
			return a.withStore(func(store client.Store) error {
				if err := store.DeleteTask(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted task #%d\n", id)
				return nil
			})
		},
	}

	cmd.AddCommand(list, add, done, rm)
	return cmd
}

func doneLabel(completed bool) string {
	if completed {
		return "done"
	}
	return "pending"
}

func printTasks(out io.Writer, tasks []task.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(out, "No tasks")
		return
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tTIME\tPRIORITY\tSTATUS\tNAME")
	for _, t := range tasks {
		slot := t.StartTime
		if t.EndTime != "" {
			slot += "-" + t.EndTime
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", t.ID, t.Date, slot, t.Priority, doneLabel(t.Completed), t.Name)
	}
	_ = w.Flush()
}

func habitsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "habits",
		Short: "Manage habits",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List habits with their streaks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(func(store client.Store) error {
				habits, err := store.Habits(cmd.Context())
				if err != nil {
					return err
				}
				printHabits(cmd.OutOrStdout(), habits)
				return nil
			})
		},
	}

	add := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a habit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nh := habit.NewHabit{Name: strings.Join(args, " ")}
			nh.Target, _ = cmd.Flags().GetInt("target")
			return a.withStore(func(store client.Store) error {
				h, err := store.CreateHabit(cmd.Context(), nh)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added habit #%d %s (%d days a week)\n", h.ID, h.Name, h.Target)
				return nil
			})
		},
	}
	add.Flags().Int("target", 0, "days per week, 7 by default")

	track := &cobra.Command{
		Use:   "track ID",
		Short: "Mark a habit as done, today by default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg(args[0])
			if err != nil {
				return err
			}
			th := habit.TrackHabit{}
			th.Date, _ = cmd.Flags().GetString("date")
			return a.withStore(func(store client.Store) error {
				h, err := store.TrackHabit(cmd.Context(), id, th)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d day streak\n", h.Name, h.Streak)
				return nil
			})
		},
	}
	track.Flags().String("date", "", "day to mark (YYYY-MM-DD)")

	cmd.AddCommand(list, add, track)
	return cmd
}

func printHabits(out io.Writer, habits []habit.Habit) {
	if len(habits) == 0 {
		fmt.Fprintln(out, "No habits")
		return
	}
	today := core.Today()
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTREAK\tTARGET\tTODAY\tNAME")
	for _, h := range habits {
		mark := "-"
		if h.IsCompleted(today) {
			mark = "x"
		}
		fmt.Fprintf(w, "%d\t%d\t%d/week\t%s\t%s\n", h.ID, h.Streak, h.Target, mark, h.Name)
	}
	_ = w.Flush()
}
