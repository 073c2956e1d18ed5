package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/trackboard/internal/cli"
	"github.com/Veraticus/trackboard/internal/common"
	"github.com/Veraticus/trackboard/internal/config"
	"github.com/Veraticus/trackboard/internal/sheets"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/oauth2"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with Google Sheets",
		Long: `Authenticate with Google Sheets using OAuth2.

This command will:
1. Open your browser to authenticate with Google
2. Save the token next to the config file
3. Update your config file with the refresh token

An API key is enough to read a shared audit sheet; OAuth2 is needed to
read private sheets and to export reports back to Google Sheets.`,
		RunE: runAuth,
	}

	cmd.Flags().String("client-id", "", "OAuth2 Client ID (overrides config)")
	cmd.Flags().String("client-secret", "", "OAuth2 Client Secret (overrides config)")
	cmd.Flags().String("listen", "localhost:8080", "address receiving the OAuth2 callback")
	cmd.Flags().Bool("read-only", false, "request read-only access (no report export)")
	cmd.Flags().Bool("force", false, "ignore the saved token and authenticate again")

	return cmd
}

func runAuth(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := config.LoadSheetsConfig(viper.GetViper())

	if flagID, _ := cmd.Flags().GetString("client-id"); flagID != "" {
		cfg.ClientID = flagID
	}
	if flagSecret, _ := cmd.Flags().GetString("client-secret"); flagSecret != "" {
		cfg.ClientSecret = flagSecret
	}
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return common.NewUserError(
			"OAuth2 credentials not found. Set sheets.client_id and sheets.client_secret in the config or use --client-id and --client-secret",
			common.ErrMissingConfig)
	}

	listen, _ := cmd.Flags().GetString("listen")
	readOnly, _ := cmd.Flags().GetBool("read-only")
	force, _ := cmd.Flags().GetBool("force")

	oauthCfg := sheets.OAuth2Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenFile:    config.TokenFile(),
		ListenAddr:   listen,
		ReadOnly:     readOnly,
	}
	slog.Info("Starting Google Sheets authentication", "token_file", oauthCfg.TokenFile)

	var (
		token *oauth2.Token
		err   error
	)
	if force {
		token, err = sheets.AuthenticateOAuth2Interactive(ctx, oauthCfg)
	} else {
		token, err = sheets.GetOrCreateToken(ctx, oauthCfg)
	}
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	viper.Set("sheets.client_id", cfg.ClientID)
	viper.Set("sheets.client_secret", cfg.ClientSecret)
	viper.Set("sheets.refresh_token", token.RefreshToken)
	if err := saveConfig(); err != nil {
		slog.Warn("Failed to update config file with refresh token", "error", err)
		fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatWarning("Could not save the refresh token; add it to config.yaml manually:"))
		fmt.Fprintf(cmd.ErrOrStderr(), "sheets:\n  refresh_token: %q\n", token.RefreshToken)
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Authentication successful! Google Sheets is ready to use."))
	return nil
}
