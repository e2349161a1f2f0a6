package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/username/academy-tools/internal/state"
)

// pagesEdit applies one page-collection operation and reports what changed
type pagesEdit func(p state.Pages) (state.Pages, string, error)

func runPagesEdit(cmd *cobra.Command, edit pagesEdit) error {
	var message string

	_, err := openStore().Update(func(st *state.State) error {
		next, msg, err := edit(st.Pages)
		if err != nil {
			return err
		}
		st.Pages = next
		message = msg
		return nil
	})
	if err != nil {
		return err
	}

	logger.Debug("Pages updated", zap.String("command", cmd.CommandPath()))
	fmt.Fprintln(cmd.OutOrStdout(), message)
	return nil
}

func pagesSimpleCmd(use, short string, nargs int, build func(args []string) pagesEdit) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPagesEdit(cmd, build(args))
		},
	}
}

func pagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pages",
		Short: "Arrange document pages (order, rotation, selection)",
	}

	cmd.AddCommand(
		pagesAddCmd(),
		pagesRemoveCmd(),
		pagesSimpleCmd("move PAGE_ID TARGET_PAGE_ID", "Move a page to the position of another", 2, func(args []string) pagesEdit {
			return func(p state.Pages) (state.Pages, string, error) {
				next, err := p.MovePage(args[0], args[1])
				return next, "Moved page " + args[0], err
			}
		}),
		pagesRotateCmd(),
		pagesSelectCmd(),
		pagesSimpleCmd("select-all", "Select every page", 0, func([]string) pagesEdit {
			return func(p state.Pages) (state.Pages, string, error) {
				next := p.SelectAll()
				return next, fmt.Sprintf("Selected %d pages", len(next.Selected)), nil
			}
		}),
		pagesSimpleCmd("deselect", "Clear the selection", 0, func([]string) pagesEdit {
			return func(p state.Pages) (state.Pages, string, error) {
				return p.DeselectAll(), "Selection cleared", nil
			}
		}),
		pagesSimpleCmd("clear", "Remove all pages", 0, func([]string) pagesEdit {
			return func(p state.Pages) (state.Pages, string, error) {
				return p.Clear(), fmt.Sprintf("Removed %d pages", len(p.Items)), nil
			}
		}),
		pagesListCmd(),
	)

	return cmd
}

func pagesAddCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "add FILE_ID",
		Short: "Append the pages of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if count <= 0 {
				return fmt.Errorf("--count must be positive")
			}
			return runPagesEdit(cmd, func(p state.Pages) (state.Pages, string, error) {
				next, added := p.AddPages(args[0], count)
				ids := make([]string, 0, len(added))
				for _, page := range added {
					ids = append(ids, page.ID)
				}
				return next, "Added " + strings.Join(ids, " "), nil
			})
		},
	}

	cmd.Flags().IntVar(&count, "count", 1, "Number of pages in the file")

	return cmd
}

func pagesRemoveCmd() *cobra.Command {
	var selected bool

	cmd := &cobra.Command{
		Use:   "rm [PAGE_ID]",
		Short: "Remove a page, or the selected pages with --selected",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if selected == (len(args) == 1) {
				return fmt.Errorf("give either PAGE_ID or --selected")
			}
			return runPagesEdit(cmd, func(p state.Pages) (state.Pages, string, error) {
				if selected {
					next := p.RemoveSelected()
					return next, fmt.Sprintf("Removed %d pages", len(p.Items)-len(next.Items)), nil
				}
				next, err := p.RemovePage(args[0])
				return next, "Removed page " + args[0], err
			})
		},
	}

	cmd.Flags().BoolVar(&selected, "selected", false, "Remove every selected page")

	return cmd
}

func pagesRotateCmd() *cobra.Command {
	var selected bool

	cmd := &cobra.Command{
		Use:   "rotate [PAGE_ID]",
		Short: "Rotate a page, or the selected pages with --selected, by 90 degrees",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if selected == (len(args) == 1) {
				return fmt.Errorf("give either PAGE_ID or --selected")
			}
			return runPagesEdit(cmd, func(p state.Pages) (state.Pages, string, error) {
				if selected {
					return p.RotateSelected(), fmt.Sprintf("Rotated %d pages", len(p.Selected)), nil
				}
				next, err := p.RotatePage(args[0])
				if err != nil {
					return p, "", err
				}
				page, _ := next.Page(args[0])
				return next, fmt.Sprintf("Page %s rotated to %d°", page.ID, page.Rotation), nil
			})
		},
	}

	cmd.Flags().BoolVar(&selected, "selected", false, "Rotate every selected page")

	return cmd
}

func pagesSelectCmd() *cobra.Command {
	var multi bool

	cmd := &cobra.Command{
		Use:   "select PAGE_ID",
		Short: "Toggle the selection of a page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPagesEdit(cmd, func(p state.Pages) (state.Pages, string, error) {
				next, err := p.ToggleSelection(args[0], multi)
				return next, fmt.Sprintf("%d pages selected", len(next.Selected)), err
			})
		},
	}

	cmd.Flags().BoolVar(&multi, "multi", false, "Keep the current selection")

	return cmd
}

func pagesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List pages in order",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore().Load()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(st.Pages.Items) == 0 {
				fmt.Fprintln(out, "No pages")
				return nil
			}
			for i, page := range st.Pages.Items {
				marker := " "
				if st.Pages.IsSelected(page.ID) {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %2d. %s  %s p.%d  %d°\n", marker, i+1, page.ID, page.FileID, page.PageIndex+1, page.Rotation)
			}
			return nil
		},
	}
}
