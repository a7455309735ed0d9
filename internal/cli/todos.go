package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/todo/internal/model"
	"github.com/idilsaglam/todo/internal/ui"
)

func newListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List todo items",
		Args:    noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := a.todos.FetchAll(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Panel(listLines(items)))
			return nil
		},
	}
}

func newAddCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <title> <description...>",
		Short: "Add a todo item",
		Long:  "Add a todo item. The description is every argument after the title.",
		Args:  minArgs(2, `todo add <title> <description...>`),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.todos.Add(cmd.Context(), args[0], strings.Join(args[1:], " ")); err != nil {
				return err
			}
			ui.OK(cmd.OutOrStdout(), "added")
			return nil
		},
	}
}

func newRemoveCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id|index>",
		Short: "Delete a todo item by id or by its 1-based index in `todo ls`",
		Args:  exactArgs(1, "todo rm <id|index>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := a.todos.FetchAll(cmd.Context())
			if err != nil {
				return err
			}
			id, err := resolveID(items, args[0])
			if err != nil {
				return err
			}
			if err := a.todos.Remove(cmd.Context(), id); err != nil {
				return err
			}
			ui.OK(cmd.OutOrStdout(), "removed")
			return nil
		},
	}
}

// resolveID prefers an exact id match; otherwise a number in range is a
// 1-based index and anything else is passed through as an id.
func resolveID(items []model.Item, arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	for _, it := range items {
		if it.ID == arg {
			return arg, nil
		}
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return arg, nil
	}
	if n < 1 || n > len(items) {
		return "", usagef("index out of range: have %d, got %d. Run `todo ls` to see valid indexes", len(items), n)
	}
	return items[n-1].ID, nil
}

func listLines(items []model.Item) []string {
	t := ui.Current()
	lines := []string{
		fmt.Sprintf("%s  %s %d", t.Title.Render("Todos"), t.Accent.Render("Total"), len(items)),
		"",
	}
	if len(items) == 0 {
		lines = append(lines,
			t.Muted.Render("No todos yet."),
			"",
			t.Muted.Render(`Tip: add with todo add "Buy milk" "2%"`),
		)
		return lines
	}
	for i, it := range items {
		lines = append(lines,
			fmt.Sprintf("%2d. %s  %s", i+1, ui.Truncate(it.Title, 60), t.Muted.Render(it.ID)),
			"    "+t.Card.Render(ui.Truncate(it.Description, 72)),
		)
	}
	return lines
}
