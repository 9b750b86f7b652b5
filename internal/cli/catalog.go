package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	flag "github.com/spf13/pflag"

	"task-scheduler/internal/service"
)

func (a *App) categoriesCmd() *Command {
	return &Command{
		Flags: flag.NewFlagSet("categories", flag.ContinueOnError),
		Usage: "categories",
		Short: "List categories",
		Exec: func(ctx context.Context, _ []string) error {
			cats, err := a.Categories.List(ctx)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tCOLOR\tICON")
			for _, c := range cats {
				icon := "-"
				if c.Icon != nil {
					icon = *c.Icon
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", c.ID, c.Name, c.Color, icon)
			}
			return tw.Flush()
		},
	}
}

func categoryFlags(fs *flag.FlagSet) (name, color, icon *string) {
	return fs.String("name", "", "category name"),
		fs.String("color", "", "color as #rrggbb"),
		fs.String("icon", "", "icon (emoji)")
}

func categoryInput(fs *flag.FlagSet, name, color, icon *string) service.CategoryInput {
	return service.CategoryInput{
		Name:  optString(fs, "name", *name),
		Color: optString(fs, "color", *color),
		Icon:  optString(fs, "icon", *icon),
	}
}

func (a *App) categoryAddCmd() *Command {
	fs := flag.NewFlagSet("category-add", flag.ContinueOnError)
	name, color, icon := categoryFlags(fs)

	return &Command{
		Flags: fs,
		Usage: "category-add --name <name> [flags]",
		Short: "Create a category",
		Exec: func(ctx context.Context, _ []string) error {
			c, err := a.Categories.Create(ctx, categoryInput(fs, name, color, icon))
			if err != nil {
				return err
			}
			fmt.Fprintf(a.Out, "created category %d\n", c.ID)
			return nil
		},
	}
}

func (a *App) categoryEditCmd() *Command {
	fs := flag.NewFlagSet("category-edit", flag.ContinueOnError)
	name, color, icon := categoryFlags(fs)

	return &Command{
		Flags: fs,
		Usage: "category-edit <id> [flags]",
		Short: "Rename or recolor a category",
		Exec: func(ctx context.Context, args []string) error {
			id, err := parseID(args)
			if err != nil {
				return err
			}
			c, err := a.Categories.Update(ctx, id, categoryInput(fs, name, color, icon))
			if err != nil {
				return err
			}
			fmt.Fprintf(a.Out, "updated category %d\n", c.ID)
			return nil
		},
	}
}

func (a *App) categoryRmCmd() *Command {
	return &Command{
		Flags: flag.NewFlagSet("category-rm", flag.ContinueOnError),
		Usage: "category-rm <id>",
		Short: "Delete a category, keeping its tasks",
		Exec: func(ctx context.Context, args []string) error {
			id, err := parseID(args)
			if err != nil {
				return err
			}
			if err := a.Categories.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(a.Out, "deleted category %d\n", id)
			return nil
		},
	}
}

func (a *App) tagsCmd() *Command {
	return &Command{
		Flags: flag.NewFlagSet("tags", flag.ContinueOnError),
		Usage: "tags",
		Short: "List tags",
		Exec: func(ctx context.Context, _ []string) error {
			tags, err := a.Categories.Tags(ctx)
			if err != nil {
				return err
			}
			for _, t := range tags {
				fmt.Fprintf(a.Out, "%d\t%s\n", t.ID, t.Name)
			}
			return nil
		},
	}
}

func (a *App) tagAddCmd() *Command {
	return &Command{
		Flags: flag.NewFlagSet("tag-add", flag.ContinueOnError),
		Usage: "tag-add <name>",
		Short: "Create a tag (or print the existing one)",
		Exec: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one tag name")
			}
			tag, err := a.Categories.CreateTag(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(a.Out, "tag %d\t%s\n", tag.ID, tag.Name)
			return nil
		},
	}
}

func (a *App) tagRmCmd() *Command {
	return &Command{
		Flags: flag.NewFlagSet("tag-rm", flag.ContinueOnError),
		Usage: "tag-rm <id>",
		Short: "Delete a tag",
		Exec: func(ctx context.Context, args []string) error {
			id, err := parseID(args)
			if err != nil {
				return err
			}
			if err := a.Categories.DeleteTag(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(a.Out, "deleted tag %d\n", id)
			return nil
		},
	}
}

func (a *App) getCmd() *Command {
	return &Command{
		Flags: flag.NewFlagSet("get", flag.ContinueOnError),
		Usage: "get <key>",
		Short: "Print a setting",
		Exec: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one key")
			}
			v, ok, err := a.Settings.Get(ctx, args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("setting %q is not set", args[0])
			}
			fmt.Fprintln(a.Out, v)
			return nil
		},
	}
}

func (a *App) setCmd() *Command {
	return &Command{
		Flags: flag.NewFlagSet("set", flag.ContinueOnError),
		Usage: "set <key> <value>",
		Short: "Store a setting",
		Exec: func(ctx context.Context, args []string) error {
			if len(args) != 2 {
				return fmt.Errorf("expected a key and a value")
			}
			return a.Settings.Set(ctx, args[0], args[1])
		},
	}
}

func (a *App) unsetCmd() *Command {
	return &Command{
		Flags: flag.NewFlagSet("unset", flag.ContinueOnError),
		Usage: "unset <key>",
		Short: "Remove a setting",
		Exec: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one key")
			}
			return a.Settings.Delete(ctx, args[0])
		},
	}
}
