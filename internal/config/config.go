// Package config loads and validates the .crudkit.yaml project configuration.
//
// Usage:
//
//	cfg, err := config.Load("")       // .crudkit.yaml in the working directory
//	cfg, err := config.Load(path)     // explicit --config
//	if err := cfg.Validate(); err != nil { ... }
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/example/crudkit/internal/core/routes"
	"github.com/example/crudkit/internal/errs"
	"github.com/example/crudkit/internal/logging"
	"github.com/example/crudkit/internal/models"
)

// FileName is the configuration file looked up in the working directory.
const FileName = ".crudkit.yaml"

// Schema sources.
const (
	SourceBuiltin   = "builtin"
	SourceFile      = "file"
	SourcePostgres  = "postgres"
	SourceMySQL     = "mysql"
	SourceSQLite    = "sqlite"
	SourceSQLServer = "sqlserver"
)

// Output kinds.
const (
	OutputFilesystem = "filesystem"
	OutputMinio      = "minio"
)

// Config represents the crudkit configuration.
type Config struct {
	Framework   string        `yaml:"framework"`
	ProjectPath string        `yaml:"project_path"`
	ViewName    string        `yaml:"view_name"`
	Routes      RoutesConfig  `yaml:"routes"`
	Schema      SchemaConfig  `yaml:"schema"`
	Output      OutputConfig  `yaml:"output"`
	History     HistoryConfig `yaml:"history"`
	Log         LogConfig     `yaml:"log"`
	Server      ServerConfig  `yaml:"server"`
}

// RoutesConfig controls route table matching.
type RoutesConfig struct {
	Case string `yaml:"case"` // exact or lower
}

// SchemaConfig selects where attribute schemas come from. The built-in
// registry is always consulted last.
type SchemaConfig struct {
	Source   string `yaml:"source"`
	File     string `yaml:"file,omitempty"`
	DSN      string `yaml:"dsn,omitempty"`
	DBSchema string `yaml:"db_schema,omitempty"`
}

// OutputConfig selects where generated files are written.
type OutputConfig struct {
	Kind  string      `yaml:"kind"`
	Minio MinioConfig `yaml:"minio,omitempty"`
}

// MinioConfig addresses an S3-compatible bucket.
type MinioConfig struct {
	Endpoint  string `yaml:"endpoint,omitempty"`
	AccessKey string `yaml:"access_key,omitempty"`
	SecretKey string `yaml:"secret_key,omitempty"`
	UseSSL    bool   `yaml:"use_ssl,omitempty"`
	Bucket    string `yaml:"bucket,omitempty"`
	Prefix    string `yaml:"prefix,omitempty"`
}

// HistoryConfig controls the run ledger.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path,omitempty"` // defaults to ~/.crudkit/history.db
}

// LogConfig mirrors logging.Config.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ServerConfig configures crudkit serve.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Framework: string(models.FrameworkVue),
		ViewName:  "hello-world",
		Routes:    RoutesConfig{Case: string(routes.CaseExact)},
		Schema:    SchemaConfig{Source: SourceBuiltin},
		Output:    OutputConfig{Kind: OutputFilesystem},
		History:   HistoryConfig{Enabled: true},
		Log:       LogConfig{Level: "warn", Format: logging.FormatConsole},
		Server:    ServerConfig{Addr: "127.0.0.1:8080"},
	}
}

// Load reads the configuration at path, or FileName in the working directory
// when path is empty. A missing default file yields Default(); a missing
// explicit file is an error. ${VAR} references are expanded from the
// environment before parsing.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = FileName
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, errs.Wrap(errs.ErrKindConfiguration, "failed to read config", err)
	}

	if err := Parse(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML data over cfg.
func Parse(data []byte, cfg *Config) error {
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return errs.Wrap(errs.ErrKindConfiguration, "failed to parse config", err)
	}
	return nil
}

// Save writes cfg to path, creating parent directories.
func Save(path string, cfg *Config) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config dir: %w", err)
		}
	}

	data, err := Marshal(cfg)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Marshal renders cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Validate rejects unknown framework, case, source, output and log values.
func (c *Config) Validate() error {
	var problems []string

	if c.Framework != "" && !validFramework(c.Framework) {
		problems = append(problems, fmt.Sprintf("framework %q is not one of vue, react, angular", c.Framework))
	}
	if _, err := routes.ParseCaseMode(c.Routes.Case); err != nil {
		problems = append(problems, fmt.Sprintf("routes.case: %v", err))
	}

	switch c.Schema.Source {
	case "", SourceBuiltin:
	case SourceFile:
		if c.Schema.File == "" {
			problems = append(problems, "schema.file is required when schema.source is file")
		}
	case SourcePostgres, SourceMySQL, SourceSQLite, SourceSQLServer:
		if c.Schema.DSN == "" {
			problems = append(problems, fmt.Sprintf("schema.dsn is required when schema.source is %s", c.Schema.Source))
		}
	default:
		problems = append(problems, fmt.Sprintf("schema.source %q is not supported", c.Schema.Source))
	}

	switch c.Output.Kind {
	case "", OutputFilesystem:
	case OutputMinio:
		if c.Output.Minio.Endpoint == "" || c.Output.Minio.Bucket == "" {
			problems = append(problems, "output.minio.endpoint and output.minio.bucket are required for minio output")
		}
	default:
		problems = append(problems, fmt.Sprintf("output.kind %q is not supported", c.Output.Kind))
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		problems = append(problems, fmt.Sprintf("log.level: %v", err))
	}
	if !logging.ValidFormat(c.Log.Format) {
		problems = append(problems, fmt.Sprintf("log.format %q is not one of json, console", c.Log.Format))
	}

	if len(problems) > 0 {
		return errs.New(errs.ErrKindConfiguration, "invalid config: "+strings.Join(problems, "; "))
	}
	return nil
}

// CaseMode returns the parsed routes.case value.
func (c *Config) CaseMode() routes.CaseMode {
	mode, err := routes.ParseCaseMode(c.Routes.Case)
	if err != nil {
		return routes.CaseExact
	}
	return mode
}

// HistoryPath returns the history database location, defaulting to
// ~/.crudkit/history.db.
func (c *Config) HistoryPath() (string, error) {
	if c.History.Path != "" {
		return c.History.Path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".crudkit", "history.db"), nil
}

func validFramework(id string) bool {
	for _, fw := range models.FrameworkIDs() {
		if strings.EqualFold(strings.TrimSpace(id), string(fw)) {
			return true
		}
	}
	return false
}
