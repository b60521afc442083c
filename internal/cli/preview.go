package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/vrain/internal/card"
	"github.com/MrSnakeDoc/vrain/internal/domain"
)

func newPreviewCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "preview <url>",
		Short: "Resolve the preview of a link",
		Long: `Resolve the preview of a link the way a card does.

YouTube links yield their thumbnail, tweets their oEmbed markup (or the
Twitter icon when it cannot be fetched), anything else the placeholder image.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "" {
				return fmt.Errorf("%s: %w", card.NoLinkMessage, domain.ErrEmptyLink)
			}

			resolver := rt.newResolver()
			defer resolver.Close()

			p := resolver.Resolve(cmd.Context(), args[0])
			out := cmd.OutOrStdout()
			if rt.asJSON {
				return printJSON(out, p)
			}

			tw := newTable(out)
			_, _ = fmt.Fprintf(tw, "category\t%s\n", p.Category)
			_, _ = fmt.Fprintf(tw, "kind\t%s\n", p.Kind)
			if p.Src != "" {
				_, _ = fmt.Fprintf(tw, "src\t%s\n", p.Src)
			}
			if p.Text != "" {
				_, _ = fmt.Fprintf(tw, "text\t%s\n", p.Text)
			}
			_, _ = fmt.Fprintf(tw, "fallback\t%t\n", p.Fallback)
			return tw.Flush()
		},
	}
}

func newClassifyCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <url>",
		Short: "Print the category of a link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			category := domain.Classify(args[0])
			if rt.asJSON {
				return printJSON(cmd.OutOrStdout(), map[string]string{
					"url":      args[0],
					"category": string(category),
				})
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), category)
			return err
		},
	}
}
