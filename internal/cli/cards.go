package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/vrain/internal/api"
	"github.com/MrSnakeDoc/vrain/internal/card"
	"github.com/MrSnakeDoc/vrain/internal/domain"
)

func newCardsCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cards",
		Short: "Manage saved content",
		Long: `List, add, share, delete and copy the content saved on the backend.

Available subcommands:
  list   - Show saved items with their resolved previews
  add    - Save a new link
  share  - Create a public share link for an item
  delete - Delete an item
  copy   - Copy an item's link to the clipboard`,
	}

	cmd.AddCommand(
		newCardsListCommand(rt),
		newCardsAddCommand(rt),
		newCardsShareCommand(rt),
		newCardsDeleteCommand(rt),
		newCardsCopyCommand(rt),
	)
	return cmd
}

// cardDeps binds the card collaborators to the client's session.
func (rt *runtime) cardDeps(c *api.Client, out io.Writer, resolver card.Resolver, placeholder string) card.Deps {
	return card.Deps{
		Resolver:    resolver,
		Placeholder: placeholder,
		Backend:     c,
		Session:     c.Session(),
		Notifier:    rt.notifier(out),
		Clipboard:   rt.clipboard(out),
		Logger:      rt.log,
	}
}

func newCardsListCommand(rt *runtime) *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show saved items with their resolved previews",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withClient(cmd.Context(), func(c *api.Client) error {
				items, err := c.ListContent(cmd.Context())
				if err != nil {
					return err
				}
				items = domain.SearchItems(search, items)

				resolver := rt.newResolver()
				defer resolver.Close()
				out := cmd.OutOrStdout()
				views := card.LoadViews(cmd.Context(), items, rt.cardDeps(c, out, resolver, resolver.Placeholder()))
				if rt.asJSON {
					return printJSON(out, views)
				}
				return printViews(out, views)
			})
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "only show items whose title or tags match")
	return cmd
}

func printViews(w io.Writer, views []card.View) error {
	if len(views) == 0 {
		_, err := fmt.Fprintln(w, "No saved content")
		return err
	}

	tw := newTable(w)
	_, _ = fmt.Fprintln(tw, "ID\tTITLE\tTYPE\tPREVIEW\tLINK")
	for _, v := range views {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", v.ID, v.Title, v.Type, previewColumn(v), v.Link)
	}
	return tw.Flush()
}

func previewColumn(v card.View) string {
	switch v.Kind {
	case card.ViewMessage:
		return v.Message
	case card.ViewEmbed:
		if v.Text != "" {
			return "embed: " + truncate(v.Text, 40)
		}
		return "embed"
	case card.ViewThumbnail:
		if v.Fallback {
			return "placeholder"
		}
		return v.ImageSrc
	default:
		return string(v.Kind)
	}
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

func newCardsAddCommand(rt *runtime) *cobra.Command {
	var (
		title       string
		description string
		kind        string
	)

	cmd := &cobra.Command{
		Use:   "add <link>",
		Short: "Save a new link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ct, err := domain.ParseContentType(kind)
			if err != nil {
				return err
			}
			item := domain.NewContent{
				Title:       title,
				Link:        strings.TrimSpace(args[0]),
				Description: description,
				Type:        ct,
			}
			if err := item.Validate(); err != nil {
				return err
			}

			return rt.withClient(cmd.Context(), func(c *api.Client) error {
				if err := c.AddContent(cmd.Context(), item); err != nil {
					return err
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "✅ Saved %q (%s)\n", item.Title, domain.Classify(item.Link))
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "item title (required)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "item description")
	cmd.Flags().StringVar(&kind, "type", string(domain.ContentImage), "content type: image, video, article or audio")
	return cmd
}

func newCardsShareCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "share <id>",
		Short: "Create a public share link for an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withClient(cmd.Context(), func(c *api.Client) error {
				out := cmd.OutOrStdout()
				cd := card.New(domain.SavedItem{ID: args[0]}, rt.cardDeps(c, out, nil, ""))
				res, err := cd.Share(cmd.Context())
				if err != nil {
					return err
				}
				if res.Hash != "" {
					_, err = fmt.Fprintln(out, c.ShareURL(res.Hash))
				}
				return err
			})
		},
	}
}

func newCardsDeleteCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withClient(cmd.Context(), func(c *api.Client) error {
				cd := card.New(domain.SavedItem{ID: args[0]}, rt.cardDeps(c, cmd.OutOrStdout(), nil, ""))
				return cd.Delete(cmd.Context())
			})
		},
	}
}

func newCardsCopyCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "copy <id>",
		Short: "Copy an item's link to the clipboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withClient(cmd.Context(), func(c *api.Client) error {
				out := cmd.OutOrStdout()
				item := domain.SavedItem{ID: args[0]}
				// the item's link is only known to the backend
				if c.Session().Authenticated() {
					found, err := findItem(cmd, c, args[0])
					if err != nil {
						return err
					}
					item = found
				}
				return card.New(item, rt.cardDeps(c, out, nil, "")).Copy(cmd.Context())
			})
		},
	}
}

func findItem(cmd *cobra.Command, c *api.Client, id string) (domain.SavedItem, error) {
	items, err := c.ListContent(cmd.Context())
	if err != nil {
		return domain.SavedItem{}, err
	}
	for _, item := range items {
		if item.ID == id {
			return item, nil
		}
	}
	return domain.SavedItem{}, fmt.Errorf("no saved item with id %q", id)
}
