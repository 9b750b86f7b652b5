package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// Command is one taskctl subcommand.
type Command struct {
	Flags *flag.FlagSet
	// Usage starts with the command name, e.g. "toggle <id> [--date YYYY-MM-DD]".
	Usage string
	Short string
	Exec  func(ctx context.Context, args []string) error
}

func (c *Command) Name() string {
	name, _, _ := strings.Cut(c.Usage, " ")
	return name
}

func (c *Command) HelpLine() string {
	return fmt.Sprintf("  %-34s %s", c.Usage, c.Short)
}

func (c *Command) PrintHelp(w io.Writer) {
	fmt.Fprintln(w, "Usage: taskctl", c.Usage)
	fmt.Fprintln(w)
	fmt.Fprintln(w, c.Short)
	if c.Flags.HasFlags() {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Flags:")
		c.Flags.SetOutput(w)
		c.Flags.PrintDefaults()
	}
}

// Run parses flags and executes the command, returning the exit code.
func (c *Command) Run(ctx context.Context, stdout, stderr io.Writer, args []string) int {
	c.Flags.SetOutput(io.Discard)

	if err := c.Flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			c.PrintHelp(stdout)
			return 0
		}
		fmt.Fprintln(stderr, "error:", err)
		fmt.Fprintln(stderr)
		c.PrintHelp(stderr)
		return 1
	}

	if err := c.Exec(ctx, c.Flags.Args()); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	return 0
}
