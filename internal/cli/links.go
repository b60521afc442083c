package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/vrain/internal/api"
)

type sharedLinkView struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	ShareURL string `json:"share_url"`
	Active   bool   `json:"active"`
}

func newLinksCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "links",
		Short: "List the public share links you created",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withClient(cmd.Context(), func(c *api.Client) error {
				links, err := c.ListSharedLinks(cmd.Context())
				if err != nil {
					return err
				}

				views := make([]sharedLinkView, 0, len(links))
				for _, l := range links {
					views = append(views, sharedLinkView{
						Title:    l.Title,
						Link:     l.Link,
						ShareURL: c.ShareURL(l.Hash),
						Active:   l.Status,
					})
				}

				out := cmd.OutOrStdout()
				if rt.asJSON {
					return printJSON(out, views)
				}
				if len(views) == 0 {
					_, err := fmt.Fprintln(out, "No shared links")
					return err
				}
				tw := newTable(out)
				_, _ = fmt.Fprintln(tw, "TITLE\tSHARE URL\tACTIVE\tLINK")
				for _, v := range views {
					_, _ = fmt.Fprintf(tw, "%s\t%s\t%t\t%s\n", v.Title, v.ShareURL, v.Active, v.Link)
				}
				return tw.Flush()
			})
		},
	}
}
