package main

import (
	"encoding/json"
	"fmt"

	"github.com/Veraticus/trackboard/internal/common"
	"github.com/Veraticus/trackboard/internal/config"
	"github.com/Veraticus/trackboard/internal/sheets"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const redacted = "********"

// effectiveConfig is what `config show` prints.
type effectiveConfig struct {
	ConfigFile string           `yaml:"config_file,omitempty" json:"config_file,omitempty"`
	Dashboard  config.Dashboard `yaml:"dashboard" json:"dashboard"`
	Sheets     sheetsView       `yaml:"sheets" json:"sheets"`
}

type sheetsView struct {
	SpreadsheetID       string `yaml:"spreadsheet_id,omitempty" json:"spreadsheet_id,omitempty"`
	Range               string `yaml:"range" json:"range"`
	ReportSpreadsheetID string `yaml:"report_spreadsheet_id,omitempty" json:"report_spreadsheet_id,omitempty"`
	ReportSheetName     string `yaml:"report_sheet_name" json:"report_sheet_name"`
	APIKey              string `yaml:"api_key,omitempty" json:"api_key,omitempty"`
	ClientID            string `yaml:"client_id,omitempty" json:"client_id,omitempty"`
	ClientSecret        string `yaml:"client_secret,omitempty" json:"client_secret,omitempty"`
	RefreshToken        string `yaml:"refresh_token,omitempty" json:"refresh_token,omitempty"`
	ServiceAccountPath  string `yaml:"service_account_path,omitempty" json:"service_account_path,omitempty"`
	TimeZone            string `yaml:"time_zone" json:"time_zone"`
	RetryAttempts       int    `yaml:"retry_attempts" json:"retry_attempts"`
}

func newSheetsView(c sheets.Config) sheetsView {
	return sheetsView{
		SpreadsheetID:       c.SpreadsheetID,
		Range:               c.Range,
		ReportSpreadsheetID: c.ReportSpreadsheetID,
		ReportSheetName:     c.ReportSheetName,
		APIKey:              redact(c.APIKey),
		ClientID:            c.ClientID,
		ClientSecret:        redact(c.ClientSecret),
		RefreshToken:        redact(c.RefreshToken),
		ServiceAccountPath:  c.ServiceAccountPath,
		TimeZone:            c.TimeZone,
		RetryAttempts:       c.RetryAttempts,
	}
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	return redacted
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}
	cmd.AddCommand(configShowCmd())
	return cmd
}

func configShowCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with secrets redacted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := config.LoadDashboard(viper.GetViper())
			if err != nil {
				return err
			}
			eff := effectiveConfig{
				ConfigFile: viper.ConfigFileUsed(),
				Dashboard:  *d,
				Sheets:     newSheetsView(config.LoadSheetsConfig(viper.GetViper())),
			}

			out := cmd.OutOrStdout()
			switch format {
			case "yaml":
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(eff); err != nil {
					return fmt.Errorf("failed to encode config: %w", err)
				}
				return enc.Close()
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(eff)
			default:
				return common.NewUserError(fmt.Sprintf("Unknown format %q (valid: yaml, json)", format), nil)
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", "yaml", "output format (yaml, json)")
	return cmd
}
