package config

import (
	"os"

	"github.com/Veraticus/trackboard/internal/sheets"
	"github.com/spf13/viper"
)

// LoadSheetsConfig loads Google Sheets configuration from Viper and environment variables.
// It follows this precedence:
// 1. Viper configuration (from config file or TRACKBOARD_ env vars)
// 2. Direct environment variables (GOOGLE_SHEETS_*)
// 3. Default values
//
// The result is not validated: a file source never needs it.
func LoadSheetsConfig(v *viper.Viper) sheets.Config {
	config := sheets.DefaultConfig()
	config.LoadFromEnv()

	if p := v.GetString("sheets.service_account_path"); p != "" {
		config.ServiceAccountPath = p
	}
	overrideString(v, "sheets.api_key", &config.APIKey)
	overrideString(v, "sheets.client_id", &config.ClientID)
	overrideString(v, "sheets.client_secret", &config.ClientSecret)
	overrideString(v, "sheets.refresh_token", &config.RefreshToken)
	overrideString(v, "sheets.spreadsheet_id", &config.SpreadsheetID)
	overrideString(v, "sheets.range", &config.Range)
	overrideString(v, "sheets.report_spreadsheet_id", &config.ReportSpreadsheetID)
	overrideString(v, "sheets.report_sheet_name", &config.ReportSheetName)
	overrideString(v, "sheets.time_zone", &config.TimeZone)

	if v.IsSet("sheets.retry_attempts") {
		config.RetryAttempts = v.GetInt("sheets.retry_attempts")
	}
	if v.IsSet("sheets.retry_delay") {
		config.RetryDelay = v.GetDuration("sheets.retry_delay")
	}
	if v.IsSet("sheets.batch_size") {
		config.BatchSize = v.GetInt("sheets.batch_size")
	}
	if v.IsSet("sheets.enable_formatting") {
		config.EnableFormatting = v.GetBool("sheets.enable_formatting")
	}

	config.ServiceAccountPath = ExpandPath(config.ServiceAccountPath)
	if config.ServiceAccountPath == "" {
		config.ServiceAccountPath = ExpandPath(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	return config
}

func overrideString(v *viper.Viper, key string, dst *string) {
	if s := v.GetString(key); s != "" {
		*dst = s
	}
}
