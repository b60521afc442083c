package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/vrain/internal/api"
	"github.com/MrSnakeDoc/vrain/internal/domain"
	"github.com/MrSnakeDoc/vrain/internal/notify"
)

func newNotesCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Manage notes and who can read them",
		Long: `Create, edit, publish and share notes.

Available subcommands:
  list        - List your notes
  show        - Print one note
  create      - Write a new note
  update      - Edit a note
  publish     - Make a note public
  unpublish   - Make a note private
  delete      - Delete a note
  share       - Grant a user access to a note
  permissions - List the grants on a note
  revoke      - Remove a grant`,
	}

	cmd.AddCommand(
		newNotesListCommand(rt),
		newNotesShowCommand(rt),
		newNotesCreateCommand(rt),
		newNotesUpdateCommand(rt),
		newNotesVisibilityCommand(rt, "publish", true),
		newNotesVisibilityCommand(rt, "unpublish", false),
		newNotesDeleteCommand(rt),
		newNotesShareCommand(rt),
		newNotesPermissionsCommand(rt),
		newNotesRevokeCommand(rt),
	)
	return cmd
}

func newNotesListCommand(rt *runtime) *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withClient(cmd.Context(), func(c *api.Client) error {
				notes, err := c.ListNotes(cmd.Context())
				if err != nil {
					return err
				}
				notes = domain.SearchNotes(search, notes)

				out := cmd.OutOrStdout()
				if rt.asJSON {
					return printJSON(out, notes)
				}
				if len(notes) == 0 {
					_, err := fmt.Fprintln(out, "No notes")
					return err
				}
				tw := newTable(out)
				_, _ = fmt.Fprintln(tw, "ID\tTITLE\tPUBLIC\tTAGS")
				for _, n := range notes {
					_, _ = fmt.Fprintf(tw, "%s\t%s\t%t\t%s\n", n.ID, n.Title, n.IsPublic, strings.Join(n.Tags, ", "))
				}
				return tw.Flush()
			})
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "only show notes whose title or tags match")
	return cmd
}

func newNotesShowCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print one note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withClient(cmd.Context(), func(c *api.Client) error {
				n, err := c.GetNote(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if rt.asJSON {
					return printJSON(cmd.OutOrStdout(), n)
				}
				return printNote(cmd.OutOrStdout(), n)
			})
		},
	}
}

func printNote(w io.Writer, n *domain.Note) error {
	visibility := "private"
	if n.IsPublic {
		visibility = "public"
	}
	_, _ = fmt.Fprintf(w, "# %s (%s)\n", n.Title, visibility)
	if len(n.Tags) > 0 {
		_, _ = fmt.Fprintf(w, "tags: %s\n", strings.Join(n.Tags, ", "))
	}
	_, err := fmt.Fprintf(w, "\n%s\n", n.Content)
	return err
}

type noteFlags struct {
	title   string
	content string
	tags    string
	public  bool
}

func (f *noteFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.title, "title", "t", "", "note title")
	cmd.Flags().StringVarP(&f.content, "content", "c", "", "note body")
	cmd.Flags().StringVar(&f.tags, "tags", "", "comma separated tags")
	cmd.Flags().BoolVar(&f.public, "public", false, "make the note public")
}

func newNotesCreateCommand(rt *runtime) *cobra.Command {
	var f noteFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Write a new note",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			draft := domain.NewNoteDraft(f.title, f.content, f.tags, f.public)
			if err := draft.Validate(); err != nil {
				return err
			}
			return rt.withClient(cmd.Context(), func(c *api.Client) error {
				n, err := c.CreateNote(cmd.Context(), draft)
				if err != nil {
					return err
				}
				msg := "Note created"
				if n != nil && n.ID != "" {
					msg += " (" + n.ID + ")"
				}
				notify.Success(cmd.Context(), rt.notifier(cmd.OutOrStdout()), msg)
				return nil
			})
		},
	}

	f.bind(cmd)
	return cmd
}

func newNotesUpdateCommand(rt *runtime) *cobra.Command {
	var f noteFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a note",
		Long:  `Edit a note. Fields whose flag is not given keep their current value.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withClient(cmd.Context(), func(c *api.Client) error {
				current, err := c.GetNote(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				draft := domain.NoteDraft{
					Title:    current.Title,
					Content:  current.Content,
					Tags:     current.Tags,
					IsPublic: current.IsPublic,
				}
				flags := cmd.Flags()
				if flags.Changed("title") {
					draft.Title = strings.TrimSpace(f.title)
				}
				if flags.Changed("content") {
					draft.Content = strings.TrimSpace(f.content)
				}
				if flags.Changed("tags") {
					draft.Tags = domain.ParseTags(f.tags)
				}
				if flags.Changed("public") {
					draft.IsPublic = f.public
				}

				if _, err := c.UpdateNote(cmd.Context(), args[0], draft); err != nil {
					return err
				}
				notify.Success(cmd.Context(), rt.notifier(cmd.OutOrStdout()), "Note updated")
				return nil
			})
		},
	}

	f.bind(cmd)
	return cmd
}

func newNotesVisibilityCommand(rt *runtime, use string, public bool) *cobra.Command {
	short, msg := "Make a note private", "Note is now private"
	if public {
		short, msg = "Make a note public", "Note is now public"
	}

	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withClient(cmd.Context(), func(c *api.Client) error {
				if _, err := c.SetNoteVisibility(cmd.Context(), args[0], public); err != nil {
					return err
				}
				notify.Success(cmd.Context(), rt.notifier(cmd.OutOrStdout()), msg)
				return nil
			})
		},
	}
}

func newNotesDeleteCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withClient(cmd.Context(), func(c *api.Client) error {
				if err := c.DeleteNote(cmd.Context(), args[0]); err != nil {
					return err
				}
				notify.Success(cmd.Context(), rt.notifier(cmd.OutOrStdout()), "Note deleted")
				return nil
			})
		},
	}
}

func newNotesShareCommand(rt *runtime) *cobra.Command {
	var permission string

	cmd := &cobra.Command{
		Use:   "share <note-id> <username>",
		Short: "Grant a user access to a note",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			perm, err := domain.ParsePermissionType(permission)
			if err != nil {
				return err
			}
			return rt.withClient(cmd.Context(), func(c *api.Client) error {
				user, err := c.LookupUser(cmd.Context(), args[1])
				if err != nil {
					return err
				}
				if err := c.ShareNote(cmd.Context(), args[0], user.ID, perm); err != nil {
					return err
				}
				notify.Success(cmd.Context(), rt.notifier(cmd.OutOrStdout()),
					fmt.Sprintf("Shared with %s (%s)", user.Username, perm))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&permission, "permission", string(domain.PermissionView), "view, edit or admin")
	return cmd
}

func newNotesPermissionsCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "permissions <note-id>",
		Short: "List the grants on a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withClient(cmd.Context(), func(c *api.Client) error {
				perms, err := c.ListPermissions(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if rt.asJSON {
					return printJSON(out, perms)
				}
				if len(perms) == 0 {
					_, err := fmt.Fprintln(out, "Not shared with anyone")
					return err
				}
				tw := newTable(out)
				_, _ = fmt.Fprintln(tw, "ID\tUSER\tPERMISSION")
				for _, p := range perms {
					_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", p.ID, p.Username, p.PermissionType)
				}
				return tw.Flush()
			})
		},
	}
}

func newNotesRevokeCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <note-id> <permission-id>",
		Short: "Remove a grant",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withClient(cmd.Context(), func(c *api.Client) error {
				if err := c.RevokePermission(cmd.Context(), args[0], args[1]); err != nil {
					return err
				}
				notify.Success(cmd.Context(), rt.notifier(cmd.OutOrStdout()), "Permission revoked")
				return nil
			})
		},
	}
}
