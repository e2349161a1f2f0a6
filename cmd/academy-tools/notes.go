package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/username/academy-tools/internal/state"
)

// notepadEdit applies one notepad operation and reports what changed
type notepadEdit func(n state.Notepad) (state.Notepad, string, error)

func runNotepadEdit(cmd *cobra.Command, edit notepadEdit) error {
	var message string

	_, err := openStore().Update(func(st *state.State) error {
		next, msg, err := edit(st.Notepad)
		if err != nil {
			return err
		}
		st.Notepad = next
		message = msg
		return nil
	})
	if err != nil {
		return err
	}

	logger.Debug("Notepad updated", zap.String("command", cmd.CommandPath()))
	fmt.Fprintln(cmd.OutOrStdout(), message)
	return nil
}

func notesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Manage notes and folders",
	}

	cmd.AddCommand(
		notesFolderCmd(),
		notesAddCmd(),
		notesEditCmd(),
		notesSimpleCmd("rm NOTE_ID", "Delete a note", 1, func(args []string) notepadEdit {
			return func(n state.Notepad) (state.Notepad, string, error) {
				next, err := n.DeleteNote(args[0])
				return next, "Deleted note " + args[0], err
			}
		}),
		notesSimpleCmd("move NOTE_ID TARGET_NOTE_ID", "Move a note to the position of another", 2, func(args []string) notepadEdit {
			return func(n state.Notepad) (state.Notepad, string, error) {
				next, err := n.MoveNote(args[0], args[1])
				return next, "Moved note " + args[0], err
			}
		}),
		notesListCmd(),
		notesShowCmd(),
	)

	return cmd
}

func notesFolderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "folder",
		Short: "Manage folders",
	}

	cmd.AddCommand(
		notesSimpleCmd("add NAME", "Create a folder", 1, func(args []string) notepadEdit {
			return func(n state.Notepad) (state.Notepad, string, error) {
				next, folder := n.AddFolder(args[0])
				return next, "Created folder " + folder.ID, nil
			}
		}),
		notesSimpleCmd("rm FOLDER_ID", "Delete a folder and its notes", 1, func(args []string) notepadEdit {
			return func(n state.Notepad) (state.Notepad, string, error) {
				next, err := n.DeleteFolder(args[0])
				return next, "Deleted folder " + args[0], err
			}
		}),
		notesSimpleCmd("rename FOLDER_ID NAME", "Rename a folder", 2, func(args []string) notepadEdit {
			return func(n state.Notepad) (state.Notepad, string, error) {
				next, err := n.RenameFolder(args[0], args[1])
				return next, "Renamed folder " + args[0], err
			}
		}),
		notesSimpleCmd("toggle FOLDER_ID", "Expand or collapse a folder", 1, func(args []string) notepadEdit {
			return func(n state.Notepad) (state.Notepad, string, error) {
				next, err := n.ToggleFolder(args[0])
				status := "collapsed"
				if next.IsExpanded(args[0]) {
					status = "expanded"
				}
				return next, "Folder " + args[0] + " " + status, err
			}
		}),
		notesSimpleCmd("use FOLDER_ID", "Make a folder the active one", 1, func(args []string) notepadEdit {
			return func(n state.Notepad) (state.Notepad, string, error) {
				next, err := n.SetActiveFolder(args[0])
				return next, "Active folder " + args[0], err
			}
		}),
		notesSimpleCmd("move FOLDER_ID TARGET_FOLDER_ID", "Move a folder to the position of another", 2, func(args []string) notepadEdit {
			return func(n state.Notepad) (state.Notepad, string, error) {
				next, err := n.MoveFolder(args[0], args[1])
				return next, "Moved folder " + args[0], err
			}
		}),
		&cobra.Command{
			Use:   "list",
			Short: "List folders",
			RunE: func(cmd *cobra.Command, args []string) error {
				st, err := openStore().Load()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, f := range st.Notepad.Folders {
					marker := " "
					if f.ID == st.Notepad.ActiveFolderID {
						marker = "*"
					}
					fmt.Fprintf(out, "%s %s  %s (%d)\n", marker, f.ID, f.Name, len(st.Notepad.FolderNotes(f.ID)))
				}
				return nil
			},
		},
	)

	return cmd
}

func notesSimpleCmd(use, short string, nargs int, build func(args []string) notepadEdit) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNotepadEdit(cmd, build(args))
		},
	}
}

func notesAddCmd() *cobra.Command {
	var folder, title, content string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a note",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNotepadEdit(cmd, func(n state.Notepad) (state.Notepad, string, error) {
				folderID := folder
				if folderID == "" {
					folderID = n.ActiveFolderID
				}
				if folderID == "" {
					folderID = state.DefaultFolderID
				}

				next, note, err := n.AddNote(folderID)
				if err != nil {
					return n, "", err
				}

				upd := state.NoteUpdate{}
				if cmd.Flags().Changed("title") {
					upd.Title = &title
				}
				if cmd.Flags().Changed("content") {
					upd.Content = &content
				}
				if upd.Title != nil || upd.Content != nil {
					if next, err = next.UpdateNote(note.ID, upd); err != nil {
						return n, "", err
					}
				}
				return next, "Created note " + note.ID, nil
			})
		},
	}

	cmd.Flags().StringVar(&folder, "folder", "", "Folder id (default: active folder)")
	cmd.Flags().StringVar(&title, "title", "", "Title")
	cmd.Flags().StringVar(&content, "content", "", "HTML content")

	return cmd
}

func notesEditCmd() *cobra.Command {
	var title, content, preview string

	cmd := &cobra.Command{
		Use:   "edit NOTE_ID",
		Short: "Change a note's title or content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			upd := state.NoteUpdate{}
			if cmd.Flags().Changed("title") {
				upd.Title = &title
			}
			if cmd.Flags().Changed("content") {
				upd.Content = &content
			}
			if cmd.Flags().Changed("preview") {
				upd.Preview = &preview
			}

			return runNotepadEdit(cmd, func(n state.Notepad) (state.Notepad, string, error) {
				next, err := n.UpdateNote(args[0], upd)
				return next, "Updated note " + args[0], err
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Title")
	cmd.Flags().StringVar(&content, "content", "", "HTML content")
	cmd.Flags().StringVar(&preview, "preview", "", "Preview text (default: derived from content)")

	return cmd
}

func notesListCmd() *cobra.Command {
	var folder string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore().Load()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, f := range st.Notepad.Folders {
				if folder != "" && f.ID != folder {
					continue
				}
				fmt.Fprintf(out, "%s (%s)\n", f.Name, f.ID)
				if !st.Notepad.IsExpanded(f.ID) && folder == "" {
					continue
				}
				for _, note := range st.Notepad.FolderNotes(f.ID) {
					writeNoteLine(out, note, note.ID == st.Notepad.ActiveNoteID)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&folder, "folder", "", "Only this folder")

	return cmd
}

func notesShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show NOTE_ID",
		Short: "Print a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore().Load()
			if err != nil {
				return err
			}
			note, err := st.Notepad.Note(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n%s\n\n%s\n", displayTitle(note), note.UpdatedAt.Format("2006-01-02 15:04"), note.Content)
			return nil
		},
	}
}

func writeNoteLine(out io.Writer, note state.Note, active bool) {
	marker := " "
	if active {
		marker = "*"
	}
	fmt.Fprintf(out, "  %s %s  %s - %s\n", marker, note.ID, displayTitle(note), strings.TrimSpace(note.Preview))
}

func displayTitle(note state.Note) string {
	if note.Title == "" {
		return "(제목 없음)"
	}
	return note.Title
}
