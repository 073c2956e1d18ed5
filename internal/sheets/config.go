// Package sheets reads the audit sheet from Google Sheets and writes reports back.
package sheets

import (
	"fmt"
	"os"
	"time"
)

// Config holds the configuration for the Google Sheets reader and writer.
type Config struct {
	APIKey              string
	ClientID            string
	ClientSecret        string
	RefreshToken        string
	ServiceAccountPath  string
	SpreadsheetID       string
	Range               string
	ReportSpreadsheetID string
	ReportSheetName     string
	TimeZone            string
	BatchSize           int
	RetryAttempts       int
	RetryDelay          time.Duration
	EnableFormatting    bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Range:            "Weekly Audit for Offices",
		ReportSheetName:  "Dashboard Report",
		EnableFormatting: true,
		TimeZone:         "America/New_York",
		BatchSize:        1000,
		RetryAttempts:    3,
		RetryDelay:       time.Second,
	}
}

// LoadFromEnv overrides fields from GOOGLE_SHEETS_* environment variables.
// Unset variables leave the current value alone.
func (c *Config) LoadFromEnv() {
	setFromEnv(&c.APIKey, "GOOGLE_SHEETS_API_KEY")
	setFromEnv(&c.ClientID, "GOOGLE_SHEETS_CLIENT_ID")
	setFromEnv(&c.ClientSecret, "GOOGLE_SHEETS_CLIENT_SECRET")
	setFromEnv(&c.RefreshToken, "GOOGLE_SHEETS_REFRESH_TOKEN")
	setFromEnv(&c.ServiceAccountPath, "GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH")
	setFromEnv(&c.SpreadsheetID, "GOOGLE_SHEETS_SPREADSHEET_ID")
	setFromEnv(&c.Range, "GOOGLE_SHEETS_RANGE")
	setFromEnv(&c.ReportSpreadsheetID, "GOOGLE_SHEETS_REPORT_SPREADSHEET_ID")
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// HasOAuth reports whether a complete OAuth2 credential set is configured.
func (c *Config) HasOAuth() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
}

// Validate checks the settings needed to read the source sheet.
func (c *Config) Validate() error {
	hasServiceAccount := c.ServiceAccountPath != ""

	if !c.HasOAuth() && !hasServiceAccount && c.APIKey == "" {
		return fmt.Errorf("no authentication method configured")
	}

	if c.HasOAuth() && hasServiceAccount {
		return fmt.Errorf("multiple authentication methods configured; use either OAuth2 or service account")
	}

	if c.SpreadsheetID == "" {
		return fmt.Errorf("spreadsheet id is required")
	}

	if c.Range == "" {
		return fmt.Errorf("range is required")
	}

	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive")
	}

	if c.RetryAttempts < 0 {
		return fmt.Errorf("retry attempts cannot be negative")
	}

	if c.RetryDelay < 0 {
		return fmt.Errorf("retry delay cannot be negative")
	}

	return nil
}

// ValidateWriter checks the settings needed to write a report.
// An API key is read-only, so writing requires OAuth2 or a service account.
func (c *Config) ValidateWriter() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if !c.HasOAuth() && c.ServiceAccountPath == "" {
		return fmt.Errorf("writing reports requires OAuth2 or a service account; an API key is read-only")
	}
	if c.ReportSheetName == "" {
		return fmt.Errorf("report sheet name is required")
	}
	return nil
}

// ReportTarget returns the spreadsheet reports are written to:
// the report spreadsheet if set, otherwise the source spreadsheet.
func (c *Config) ReportTarget() string {
	if c.ReportSpreadsheetID != "" {
		return c.ReportSpreadsheetID
	}
	return c.SpreadsheetID
}
