package cli

import (
	"strings"

	"curio-cli/internal/config"

	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration commands",
	}
	cmd.AddCommand(newConfigSetCmd(app))
	cmd.AddCommand(newConfigShowCmd(app))
	return cmd
}

func newConfigSetCmd(app *App) *cobra.Command {
	var server, token string
	var userID int

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set server address and credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return writeErr(cmd, err)
			}
			if strings.TrimSpace(server) != "" {
				cfg.ServerURL = strings.TrimRight(strings.TrimSpace(server), "/")
			}
			if strings.TrimSpace(token) != "" {
				cfg.AccessToken = strings.TrimSpace(token)
			}
			if userID > 0 {
				cfg.UserID = userID
			}
			if err := config.Save(cfg); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": redacted(cfg)})
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "Backend base URL")
	cmd.Flags().StringVar(&token, "token", "", "Access token")
	cmd.Flags().IntVar(&userID, "user-id", 0, "User id the token belongs to")
	return cmd
}

func newConfigShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the stored configuration (token redacted)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": redacted(cfg)})
		},
	}
	return cmd
}

func redacted(cfg *config.Config) map[string]any {
	token := ""
	if cfg.AccessToken != "" {
		token = "***"
	}
	return map[string]any{
		"serverUrl":   cfg.ServerURL,
		"accessToken": token,
		"userId":      cfg.UserID,
	}
}
