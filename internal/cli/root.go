package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/vrain/internal/api"
	"github.com/MrSnakeDoc/vrain/internal/card"
	"github.com/MrSnakeDoc/vrain/internal/config"
	"github.com/MrSnakeDoc/vrain/internal/logger"
	"github.com/MrSnakeDoc/vrain/internal/notify"
	"github.com/MrSnakeDoc/vrain/internal/preview"
	"github.com/MrSnakeDoc/vrain/internal/session"
	"github.com/MrSnakeDoc/vrain/internal/utils"
)

// Options overrides the collaborators commands build by default.
type Options struct {
	Config    *config.Config
	Logger    logger.Logger
	Store     session.Store  // nil => badger under Config.SessionDir
	Clipboard card.Clipboard // nil => OSC52 on the command output
}

type runtime struct {
	opts    Options
	backend string
	asJSON  bool
	verbose bool
	log     logger.Logger
}

// NewRootCommand builds the vrain command tree.
func NewRootCommand(opts Options) *cobra.Command {
	if opts.Config == nil {
		opts.Config = config.Load()
	}
	rt := &runtime{opts: opts}

	root := &cobra.Command{
		Use:   "vrain",
		Short: "Saved content, link previews and notes from the terminal",
		Long: `vrain manages the content saved on a vrain backend.

It lists saved items as cards with resolved link previews, shares and deletes
them, manages notes and their permissions, and can serve the preview API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			rt.log = rt.logger(cmd)
		},
	}

	root.PersistentFlags().StringVar(&rt.backend, "backend", "", "backend URL (default $VRAIN_BACKEND_URL)")
	root.PersistentFlags().BoolVar(&rt.asJSON, "json", false, "print JSON instead of tables")
	root.PersistentFlags().BoolVarP(&rt.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newServeCommand(rt),
		newPreviewCommand(rt),
		newClassifyCommand(rt),
		newLoginCommand(rt),
		newSignupCommand(rt),
		newLogoutCommand(rt),
		newWhoamiCommand(rt),
		newCardsCommand(rt),
		newLinksCommand(rt),
		newNotesCommand(rt),
		newVersionCommand(),
	)
	return root
}

// Execute runs the CLI against the process arguments.
func Execute() error {
	return NewRootCommand(Options{}).ExecuteContext(context.Background())
}

func (rt *runtime) logger(cmd *cobra.Command) logger.Logger {
	if rt.opts.Logger != nil {
		return rt.opts.Logger
	}
	level := rt.opts.Config.LogLevel
	switch {
	case rt.verbose:
		level = "debug"
	case cmd.Name() != "serve":
		// keep terminal output for results and notifications
		level = "warn"
	}
	return logger.New(level, rt.opts.Config.PrettyLog)
}

func (rt *runtime) backendURL() string {
	if rt.backend != "" {
		return rt.backend
	}
	return rt.opts.Config.BackendURL
}

// withClient opens the persisted session, runs fn with a backend client bound
// to it and closes the session store afterwards.
func (rt *runtime) withClient(ctx context.Context, fn func(*api.Client) error) error {
	store := rt.opts.Store
	if store == nil {
		if err := os.MkdirAll(rt.opts.Config.SessionDir, 0o700); err != nil {
			return fmt.Errorf("failed to create session dir: %w", err)
		}
		bs, err := session.OpenBadger(rt.opts.Config.SessionDir, rt.log)
		if err != nil {
			return err
		}
		defer utils.MustClose(bs, rt.log, "session store")
		store = bs
	}

	sess, err := session.Restore(ctx, store)
	if err != nil {
		return err
	}
	return fn(api.New(rt.backendURL(), sess, rt.apiOptions()...))
}

func (rt *runtime) apiOptions() []api.Option {
	opts := []api.Option{api.WithLogger(rt.log)}
	if t := rt.opts.Config.HTTPTimeout; t > 0 {
		opts = append(opts, api.WithHTTPClient(&http.Client{Timeout: t}))
	}
	return opts
}

func (rt *runtime) newResolver() *preview.Resolver {
	cfg := rt.opts.Config
	return preview.NewResolver(preview.Options{
		OEmbedEndpoint:   cfg.OEmbedEndpoint,
		Placeholder:      cfg.PlaceholderURL,
		Timeout:          cfg.HTTPTimeout,
		CacheTTL:         cfg.PreviewCacheTTL,
		BreakerThreshold: cfg.BreakerThreshold,
		GenericScrape:    cfg.GenericScrape,
		Logger:           rt.log,
	})
}

func (rt *runtime) clipboard(w io.Writer) card.Clipboard {
	if rt.opts.Clipboard != nil {
		return rt.opts.Clipboard
	}
	return card.NewOSC52Clipboard(w)
}

func (rt *runtime) notifier(w io.Writer) notify.Notifier {
	return notify.Multi{notify.NewWriterNotifier(w), notify.NewLogNotifier(rt.log)}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}
