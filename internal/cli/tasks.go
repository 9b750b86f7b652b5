package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	flag "github.com/spf13/pflag"

	"task-scheduler/internal/calendar"
	"task-scheduler/internal/model"
	"task-scheduler/internal/repository"
	"task-scheduler/internal/service"
)

// taskFlags are shared by add and edit.
type taskFlags struct {
	title, description, priority string
	category                     uint
	deadline, scheduled          string
	repeat                       string
	every                        int
	days                         []int
	until                        string
	count                        int
	tags                         []uint
}

func (f *taskFlags) register(fs *flag.FlagSet) {
	fs.StringVarP(&f.title, "title", "t", "", "task title")
	fs.StringVarP(&f.description, "description", "d", "", "task description")
	fs.StringVarP(&f.priority, "priority", "p", "", "low, medium or high")
	fs.UintVar(&f.category, "category", 0, "category id")
	fs.StringVar(&f.deadline, "deadline", "", "deadline (YYYY-MM-DD)")
	fs.StringVar(&f.scheduled, "scheduled", "", "scheduled date (YYYY-MM-DD)")
	fs.StringVar(&f.repeat, "repeat", "", "none, daily, weekly, monthly or custom")
	fs.IntVar(&f.every, "every", 0, "recurrence interval")
	fs.IntSliceVar(&f.days, "days", nil, "weekdays for weekly recurrence, 0 = Sunday")
	fs.StringVar(&f.until, "until", "", "last possible occurrence date (YYYY-MM-DD)")
	fs.IntVar(&f.count, "count", 0, "maximum number of recurrence steps")
	fs.UintSliceVar(&f.tags, "tag", nil, "tag id (repeatable)")
}

func optString(fs *flag.FlagSet, name, value string) *string {
	if !fs.Changed(name) {
		return nil
	}
	return &value
}

func (a *App) addCmd() *Command {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	var f taskFlags
	f.register(fs)

	return &Command{
		Flags: fs,
		Usage: "add -t <title> [flags]",
		Short: "Create a task",
		Exec: func(ctx context.Context, _ []string) error {
			input := service.TaskInput{
				Title:              f.title,
				Description:        f.description,
				Priority:           model.Priority(f.priority),
				Deadline:           optString(fs, "deadline", f.deadline),
				ScheduledDate:      optString(fs, "scheduled", f.scheduled),
				RecurrenceType:     model.RecurrenceType(f.repeat),
				RecurrenceInterval: f.every,
				RecurrenceDays:     f.days,
				RecurrenceEndDate:  optString(fs, "until", f.until),
				TagIDs:             f.tags,
			}
			if fs.Changed("category") {
				input.CategoryID = &f.category
			}
			if fs.Changed("count") {
				input.RecurrenceCount = &f.count
			}

			task, err := a.Tasks.CreateTask(ctx, input)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.Out, "created task %d\n", task.ID)
			return nil
		},
	}
}

func (a *App) editCmd() *Command {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	var f taskFlags
	f.register(fs)
	status := fs.String("status", "", "pending, in_progress, completed or cancelled")
	noDeadline := fs.Bool("no-deadline", false, "remove the deadline")
	noScheduled := fs.Bool("no-scheduled", false, "remove the scheduled date")
	noCategory := fs.Bool("no-category", false, "remove the category")
	noUntil := fs.Bool("no-until", false, "remove the recurrence end date")
	noCount := fs.Bool("no-count", false, "remove the recurrence count")
	noDays := fs.Bool("no-days", false, "remove the weekday filter")

	return &Command{
		Flags: fs,
		Usage: "edit <id> [flags]",
		Short: "Update fields of a task",
		Exec: func(ctx context.Context, args []string) error {
			id, err := parseID(args)
			if err != nil {
				return err
			}
			upd := service.TaskUpdate{
				Title:             optString(fs, "title", f.title),
				Description:       optString(fs, "description", f.description),
				Deadline:          optString(fs, "deadline", f.deadline),
				ScheduledDate:     optString(fs, "scheduled", f.scheduled),
				RecurrenceEndDate: optString(fs, "until", f.until),
				ClearDeadline:     *noDeadline,
				ClearScheduled:    *noScheduled,
				ClearCategory:     *noCategory,
				ClearEndDate:      *noUntil,
				ClearCount:        *noCount,
			}
			if fs.Changed("priority") {
				p := model.Priority(f.priority)
				upd.Priority = &p
			}
			if fs.Changed("status") {
				s := model.Status(*status)
				upd.Status = &s
			}
			if fs.Changed("repeat") {
				r := model.RecurrenceType(f.repeat)
				upd.RecurrenceType = &r
			}
			if fs.Changed("every") {
				upd.RecurrenceInterval = &f.every
			}
			if *noDays && fs.Changed("days") {
				return fmt.Errorf("--days and --no-days are mutually exclusive")
			}
			if fs.Changed("days") {
				upd.RecurrenceDays = &f.days
			}
			if *noDays {
				upd.RecurrenceDays = &[]int{}
			}
			if fs.Changed("count") {
				upd.RecurrenceCount = &f.count
			}
			if fs.Changed("category") {
				upd.CategoryID = &f.category
			}
			if fs.Changed("tag") {
				upd.TagIDs = &f.tags
			}

			task, err := a.Tasks.UpdateTask(ctx, id, upd)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.Out, "updated task %d\n", task.ID)
			return nil
		},
	}
}

func (a *App) rmCmd() *Command {
	return &Command{
		Flags: flag.NewFlagSet("rm", flag.ContinueOnError),
		Usage: "rm <id>",
		Short: "Delete a task and its completion history",
		Exec: func(ctx context.Context, args []string) error {
			id, err := parseID(args)
			if err != nil {
				return err
			}
			if err := a.Tasks.DeleteTask(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(a.Out, "deleted task %d\n", id)
			return nil
		},
	}
}

func (a *App) toggleCmd() *Command {
	fs := flag.NewFlagSet("toggle", flag.ContinueOnError)
	date := fs.String("date", "", "occurrence date of a recurring task (YYYY-MM-DD)")

	return &Command{
		Flags: fs,
		Usage: "toggle <id> [--date YYYY-MM-DD]",
		Short: "Flip completion of a task or of one occurrence",
		Exec: func(ctx context.Context, args []string) error {
			id, err := parseID(args)
			if err != nil {
				return err
			}
			done, err := a.Tasks.ToggleComplete(ctx, id, *date)
			if err != nil {
				return err
			}
			state := "open"
			if done {
				state = "done"
			}
			if *date != "" {
				fmt.Fprintf(a.Out, "task %d on %s: %s\n", id, *date, state)
			} else {
				fmt.Fprintf(a.Out, "task %d: %s\n", id, state)
			}
			return nil
		},
	}
}

func (a *App) showCmd() *Command {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	date := fs.String("date", "", "also report completion on this day (YYYY-MM-DD)")

	return &Command{
		Flags: fs,
		Usage: "show <id> [--date YYYY-MM-DD]",
		Short: "Print one task definition",
		Exec: func(ctx context.Context, args []string) error {
			id, err := parseID(args)
			if err != nil {
				return err
			}
			task, err := a.Tasks.GetTask(ctx, id)
			if err != nil {
				return err
			}
			printTask(a, task)
			if *date != "" {
				done, err := a.Tasks.OccurrenceDone(ctx, id, *date)
				if err != nil {
					return err
				}
				state := "open"
				if done {
					state = "done"
				}
				fmt.Fprintf(a.Out, "on %s: %s\n", *date, state)
			}
			return nil
		},
	}
}

func (a *App) lsCmd() *Command {
	fs := flag.NewFlagSet("ls", flag.ContinueOnError)
	statuses := fs.StringSlice("status", nil, "filter by status (repeatable)")
	priorities := fs.StringSlice("priority", nil, "filter by priority (repeatable)")
	category := fs.Uint("category", 0, "filter by category id")
	tags := fs.UintSlice("tag", nil, "filter by any of these tag ids")
	hasDeadline := fs.Bool("has-deadline", false, "only tasks with (or, with =false, without) a deadline")
	overdue := fs.Bool("overdue", false, "only open tasks past their deadline")
	today := fs.String("today", "", "reference day for --overdue (YYYY-MM-DD)")

	return &Command{
		Flags: fs,
		Usage: "ls [flags]",
		Short: "List task definitions",
		Exec: func(ctx context.Context, _ []string) error {
			var filter repository.TaskFilter
			for _, s := range *statuses {
				filter.Statuses = append(filter.Statuses, model.Status(s))
			}
			for _, p := range *priorities {
				filter.Priorities = append(filter.Priorities, model.Priority(p))
			}
			if fs.Changed("category") {
				filter.CategoryID = category
			}
			filter.TagIDs = *tags
			if fs.Changed("has-deadline") {
				filter.HasDeadline = hasDeadline
			}
			if *overdue {
				ref, err := a.referenceDay(*today)
				if err != nil {
					return err
				}
				filter.OverdueAsOf = calendar.Format(ref)
			}

			tasks, err := a.Tasks.ListTasks(ctx, filter)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSTATUS\tPRIORITY\tDATE\tREPEAT\tTITLE")
			for _, t := range tasks {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", t.ID, t.Status, t.Priority, dash(model.Entry{Task: t}.Date()), dash(string(t.RecurrenceType)), t.Title)
			}
			return tw.Flush()
		},
	}
}

func (a *App) rangeCmd() *Command {
	fs := flag.NewFlagSet("range", flag.ContinueOnError)
	month := fs.BoolP("month", "m", false, "whole month containing start")
	next := fs.Int("next", 0, "end the window this many days after start")

	return &Command{
		Flags: fs,
		Usage: "range [start] [end] [--month | --next N]",
		Short: "List dated tasks and occurrences in a window (default today)",
		Exec: func(ctx context.Context, args []string) error {
			if len(args) > 2 {
				return fmt.Errorf("expected at most two dates")
			}
			if (*month || fs.Changed("next")) && len(args) > 1 {
				return fmt.Errorf("--month and --next take only a start date")
			}
			if *month && fs.Changed("next") {
				return fmt.Errorf("--month and --next are mutually exclusive")
			}
			today, err := a.referenceDay("")
			if err != nil {
				return err
			}
			start := calendar.Format(today)
			end := start
			if len(args) > 0 {
				start, end = args[0], args[0]
			}
			if len(args) > 1 {
				end = args[1]
			}
			switch {
			case *month:
				day, err := calendar.Parse(start)
				if err != nil {
					return err
				}
				start, end = calendar.MonthBounds(day)
			case fs.Changed("next"):
				if end, err = calendar.Shift(start, *next); err != nil {
					return err
				}
			}

			entries, err := a.Agenda.TasksForRange(ctx, start, end)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DATE\tID\tDONE\tKIND\tTITLE")
			for _, e := range entries {
				kind := "task"
				if e.IsOccurrence() {
					kind = "occurrence"
				}
				done := " "
				if e.Done() {
					done = "x"
				}
				fmt.Fprintf(tw, "%s\t%d\t[%s]\t%s\t%s\n", dash(e.Date()), e.Task.ID, done, kind, e.Task.Title)
			}
			return tw.Flush()
		},
	}
}

func printTask(a *App, t *model.Task) {
	tw := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "id:\t%d\n", t.ID)
	fmt.Fprintf(tw, "title:\t%s\n", t.Title)
	if t.Description != "" {
		fmt.Fprintf(tw, "description:\t%s\n", t.Description)
	}
	fmt.Fprintf(tw, "status:\t%s\n", t.Status)
	fmt.Fprintf(tw, "priority:\t%s\n", t.Priority)
	if t.Category != nil {
		fmt.Fprintf(tw, "category:\t%s\n", t.Category.Name)
	}
	if t.ScheduledDate != nil {
		fmt.Fprintf(tw, "scheduled:\t%s\n", *t.ScheduledDate)
	}
	if t.Deadline != nil {
		fmt.Fprintf(tw, "deadline:\t%s\n", *t.Deadline)
	}
	if t.IsRecurring() {
		fmt.Fprintf(tw, "repeat:\t%s every %d\n", t.RecurrenceType, t.RecurrenceInterval)
		if len(t.RecurrenceDays) > 0 {
			fmt.Fprintf(tw, "weekdays:\t%v\n", t.RecurrenceDays)
		}
		if t.RecurrenceEndDate != nil {
			fmt.Fprintf(tw, "until:\t%s\n", *t.RecurrenceEndDate)
		}
		if t.RecurrenceCount != nil {
			fmt.Fprintf(tw, "count:\t%d\n", *t.RecurrenceCount)
		}
	}
	if len(t.Tags) > 0 {
		names := make([]string, 0, len(t.Tags))
		for _, tag := range t.Tags {
			names = append(names, tag.Name)
		}
		fmt.Fprintf(tw, "tags:\t%s\n", strings.Join(names, ", "))
	}
	tw.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
