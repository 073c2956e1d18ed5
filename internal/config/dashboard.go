package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/trackboard/internal/classification"
	"github.com/Veraticus/trackboard/internal/common"
	"github.com/Veraticus/trackboard/internal/engine"
	"github.com/Veraticus/trackboard/internal/ingest"
	"github.com/Veraticus/trackboard/internal/model"
	"github.com/Veraticus/trackboard/internal/schema"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Dashboard is the effective configuration of the pipeline and its surfaces.
type Dashboard struct {
	Source          ingest.Config                 `mapstructure:"source" yaml:"source" json:"source"`
	Schema          schema.Defaults               `mapstructure:"schema" yaml:"schema" json:"schema"`
	Exclusions      classification.ExclusionRules `mapstructure:"exclusions" yaml:"exclusions" json:"exclusions"`
	Server          ServerConfig                  `mapstructure:"server" yaml:"server" json:"server"`
	Export          ExportConfig                  `mapstructure:"export" yaml:"export" json:"export"`
	RefreshInterval time.Duration                 `mapstructure:"refresh_interval" yaml:"refresh_interval" json:"refresh_interval" validate:"min=1s"`
	PageSize        int                           `mapstructure:"page_size" yaml:"page_size" json:"page_size" validate:"min=0"`
}

// ServerConfig configures `trackboard serve`.
type ServerConfig struct {
	Addr           string   `mapstructure:"addr" yaml:"addr" json:"addr" validate:"required"`
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins" json:"allowed_origins"`
	// TLSHosts are extra names or addresses the self-signed certificate covers.
	TLSHosts       []string `mapstructure:"tls_hosts" yaml:"tls_hosts" json:"tls_hosts"`
	TLS            bool     `mapstructure:"tls" yaml:"tls" json:"tls"`
}

// ExportConfig configures CSV exports.
type ExportConfig struct {
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter" json:"delimiter" validate:"required"`
	BOM       bool   `mapstructure:"bom" yaml:"bom" json:"bom"`
}

// SetDefaults registers every dashboard default on v.
func SetDefaults(v *viper.Viper) {
	d := schema.DefaultSchema()
	v.SetDefault("schema.location", d.Location)
	v.SetDefault("schema.person", d.Person)
	v.SetDefault("schema.date", d.Date)
	v.SetDefault("schema.status", d.Status)
	v.SetDefault("schema.rating", d.Rating)
	v.SetDefault("schema.person_keywords", d.PersonKeywords)
	v.SetDefault("schema.date_keywords", d.DateKeywords)
	v.SetDefault("schema.skip_fixed_columns", d.SkipFixedColumns)

	rules := classification.DefaultExclusionRules()
	v.SetDefault("exclusions.header_labels", rules.HeaderLabels)
	v.SetDefault("exclusions.title_markers", rules.TitleMarkers)

	v.SetDefault("source.type", "")
	v.SetDefault("source.path", "")
	v.SetDefault("source.sheet", "")
	v.SetDefault("source.delimiter", "")

	v.SetDefault("refresh_interval", engine.DefaultRefreshInterval)
	v.SetDefault("page_size", model.DefaultPageSize)

	v.SetDefault("server.addr", "127.0.0.1:8080")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.tls", false)

	v.SetDefault("export.delimiter", ",")
	v.SetDefault("export.bom", false)
}

// LoadDashboard decodes and validates the dashboard configuration from v.
func LoadDashboard(v *viper.Viper) (*Dashboard, error) {
	SetDefaults(v)

	var d Dashboard
	if err := v.Unmarshal(&d); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	d.Source.Path = ExpandPath(d.Source.Path)

	if err := validator.New().Struct(&d); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}

	return &d, nil
}

// LoadDotEnv loads KEY=value pairs from the given files into the process
// environment without overriding variables that are already set.
// Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		err := godotenv.Load(ExpandPath(p))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
		slog.Debug("Loaded environment file", "path", p)
	}
	return nil
}

// EnvKeyReplacer maps nested keys like sheets.api_key to TRACKBOARD_SHEETS_API_KEY.
func EnvKeyReplacer() *strings.Replacer {
	return strings.NewReplacer(".", "_", "-", "_")
}
