// Package cli implements taskctl, the local command-line front end of the planner.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	flag "github.com/spf13/pflag"

	"task-scheduler/internal/calendar"
	"task-scheduler/internal/repository"
	"task-scheduler/internal/service"
)

// App bundles the services the commands operate on.
type App struct {
	Tasks      *service.TaskService
	Categories *service.CategoryService
	Settings   *repository.SettingRepository
	Agenda     service.RangeQuerier
	Stats      *service.StatsService
	TrendDays  int
	// Today returns the reference day used when --today is not given.
	Today func() time.Time
	Out   io.Writer
	Err   io.Writer
}

func (a *App) commands() []*Command {
	cmds := []*Command{
		a.addCmd(), a.editCmd(), a.rmCmd(), a.toggleCmd(), a.showCmd(), a.lsCmd(), a.rangeCmd(),
		a.statsCmd(), a.streakCmd(), a.trendCmd(),
		a.categoriesCmd(), a.categoryAddCmd(), a.categoryEditCmd(), a.categoryRmCmd(),
		a.tagsCmd(), a.tagAddCmd(), a.tagRmCmd(),
		a.getCmd(), a.setCmd(), a.unsetCmd(),
	}
	return cmds
}

// ParseGlobal parses the flags given before the command name and returns the
// config path together with the remaining arguments.
func ParseGlobal(args []string, defaultConfig string) (string, []string, error) {
	fs := flag.NewFlagSet("taskctl", flag.ContinueOnError)
	fs.SetInterspersed(false)
	fs.SetOutput(io.Discard)
	configPath := fs.StringP("config", "c", defaultConfig, "path to a YAML config file")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return *configPath, nil, nil
		}
		return "", nil, err
	}
	return *configPath, fs.Args(), nil
}

// Run dispatches args[0] to a command and returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	cmds := a.commands()
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		a.printUsage(a.Out, cmds)
		return 0
	}
	for _, c := range cmds {
		if c.Name() == args[0] {
			return c.Run(ctx, a.Out, a.Err, args[1:])
		}
	}
	fmt.Fprintf(a.Err, "error: unknown command %q\n\n", args[0])
	a.printUsage(a.Err, cmds)
	return 1
}

func (a *App) printUsage(w io.Writer, cmds []*Command) {
	fmt.Fprintln(w, "Usage: taskctl [-c config.yaml] <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	sorted := append([]*Command(nil), cmds...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name() < sorted[j].Name() })
	for _, c := range sorted {
		fmt.Fprintln(w, c.HelpLine())
	}
}

func (a *App) referenceDay(override string) (time.Time, error) {
	if override == "" {
		return calendar.Day(a.Today()), nil
	}
	return calendar.Parse(override)
}

func parseID(args []string) (uint, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("expected exactly one id argument")
	}
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", args[0])
	}
	return uint(id), nil
}
