// Package cli wires the cobra command tree: scriptable subcommands for tags
// and objects, plus the interactive TUI when invoked without a subcommand.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"curio-cli/internal/cache"
	"curio-cli/internal/config"
	"curio-cli/internal/fetch"
	"curio-cli/internal/format"
	"curio-cli/internal/store"
	"curio-cli/internal/thunks"
	"curio-cli/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	ServerURL  string
	Token      string
	PrettyJSON bool
	NoCache    bool
	Verbose    bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "curio",
		Short:        "Terminal client for a self-hosted curio server",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  curio

  # Scriptable commands
  curio tags list
  curio objects list --type link --filter golang

  # Save a bookmark
  curio objects add --type link --name "Go blog" --url https://go.dev/blog --tag reading
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.ServerURL, "server", envOr("CURIO_SERVER", ""), "Backend base URL (overrides config)")
	cmd.PersistentFlags().StringVar(&app.Token, "token", envOr("CURIO_TOKEN", ""), "Access token (overrides config)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().BoolVar(&app.NoCache, "no-cache", false, "Skip the local sqlite cache")
	cmd.PersistentFlags().BoolVarP(&app.Verbose, "verbose", "v", false, "Log requests to stderr")

	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newStatusCmd(app))
	cmd.AddCommand(newTagsCmd(app))
	cmd.AddCommand(newObjectsCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// session bundles everything a command needs to run thunks and, afterwards,
// persist what it learned.
type session struct {
	rt    *thunks.Runtime
	cache *cache.Cache
	cfg   *config.Config
}

func newSession(ctx context.Context, app *App) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	serverURL := app.ServerURL
	if serverURL == "" {
		serverURL = cfg.ServerURL
	}
	if serverURL == "" {
		return nil, fmt.Errorf("no server configured: run `curio config set --server <url>` or pass --server")
	}
	token := app.Token
	if token == "" {
		token = cfg.AccessToken
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel(app)}))

	var c *cache.Cache
	st := store.New()
	if !app.NoCache {
		path, err := cache.DefaultPath()
		if err != nil {
			return nil, err
		}
		c = cache.New(path)
		snapshot, err := c.Load(ctx)
		if err != nil {
			logger.Warn("cache unreadable, starting empty", "error", err)
		} else {
			st = store.NewWith(snapshot)
		}
	}

	client, err := fetch.NewRunner(serverURL, token, logger)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL %q: %w", serverURL, err)
	}
	return &session{
		rt:    thunks.NewRuntime(st, client, logger),
		cache: c,
		cfg:   cfg,
	}, nil
}

func logLevel(app *App) slog.Level {
	if app.Verbose {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

// persist writes the session's data slices back to the cache. Best-effort:
// a cache failure never fails the command that already succeeded.
func (s *session) persist(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Save(ctx, s.rt.Store.State()); err != nil {
		s.rt.Log.Warn("cache save failed", "error", err)
	}
}

func runTUI(app *App) error {
	ctx := context.Background()
	sess, err := newSession(ctx, app)
	if err != nil {
		return err
	}
	defer sess.persist(ctx)
	return tui.Run(sess.rt, sess.cfg.TUI)
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.WriteJSON(cmd.OutOrStdout(), v, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}

// resultErr converts a failed fetch result into a command error.
func resultErr(res fetch.Result) error {
	if !res.Failed() {
		return nil
	}
	if res.Status != 0 {
		return fmt.Errorf("%s (HTTP %d)", res.Err, res.Status)
	}
	return fmt.Errorf("%s", res.Err)
}
