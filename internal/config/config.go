// Package config loads oficina configuration from file, environment and flags.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides (OFICINA_SERVER_BASE_URL, ...).
const EnvPrefix = "OFICINA"

// Config is the root configuration structure.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig locates the administration endpoints.
type ServerConfig struct {
	BaseURL  string      `mapstructure:"base_url"`
	Username string      `mapstructure:"username"`
	Password string      `mapstructure:"password"`
	Paths    PathsConfig `mapstructure:"paths"`
}

// PathsConfig lists server paths relative to BaseURL.
type PathsConfig struct {
	Login        string `mapstructure:"login"`
	Settings     string `mapstructure:"settings"`
	Cleanup      string `mapstructure:"cleanup"`
	ExportUsers  string `mapstructure:"export_users"`
	SecurityLogs string `mapstructure:"security_logs"`
}

// StorageConfig locates the local SQLite database.
type StorageConfig struct {
	Path string `mapstructure:"path"`
}

// UIConfig holds console preferences.
type UIConfig struct {
	DefaultTheme  string        `mapstructure:"default_theme"`
	ToastDuration time.Duration `mapstructure:"toast_duration"`
	ReloadDelay   time.Duration `mapstructure:"reload_delay"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// DirFunc returns the configuration directory. Tests override it.
var DirFunc = defaultDir

func defaultDir() string {
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, "oficina")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".oficina"
	}
	return filepath.Join(home, ".config", "oficina")
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	dir := DirFunc()
	return &Config{
		Server: ServerConfig{
			BaseURL: "http://127.0.0.1:8000",
			Paths: PathsConfig{
				Login:        "/login/",
				Settings:     "/configuracoes/",
				Cleanup:      "/limpar-dados/",
				ExportUsers:  "/exportar-usuarios/",
				SecurityLogs: "/admin/security-logs/",
			},
		},
		Storage: StorageConfig{
			Path: filepath.Join(dir, "oficina.db"),
		},
		UI: UIConfig{
			DefaultTheme:  "azul",
			ToastDuration: 3 * time.Second,
			ReloadDelay:   3 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			File:   filepath.Join(dir, "oficina.log"),
		},
	}
}

// SetDefaults registers DefaultConfig values on v.
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("server.base_url", d.Server.BaseURL)
	v.SetDefault("server.username", d.Server.Username)
	v.SetDefault("server.password", d.Server.Password)
	v.SetDefault("server.paths.login", d.Server.Paths.Login)
	v.SetDefault("server.paths.settings", d.Server.Paths.Settings)
	v.SetDefault("server.paths.cleanup", d.Server.Paths.Cleanup)
	v.SetDefault("server.paths.export_users", d.Server.Paths.ExportUsers)
	v.SetDefault("server.paths.security_logs", d.Server.Paths.SecurityLogs)
	v.SetDefault("storage.path", d.Storage.Path)
	v.SetDefault("ui.default_theme", d.UI.DefaultTheme)
	v.SetDefault("ui.toast_duration", d.UI.ToastDuration)
	v.SetDefault("ui.reload_delay", d.UI.ReloadDelay)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.file", d.Logging.File)
}

// Load reads configuration into v and decodes it. An explicit path must exist;
// the default path is optional.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(DirFunc())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that required values are usable.
func (c *Config) Validate() error {
	base := strings.TrimSpace(c.Server.BaseURL)
	if base == "" {
		return errors.New("server.base_url is required")
	}
	parsed, err := url.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("server.base_url %q is not an absolute URL", base)
	}
	if strings.TrimSpace(c.Storage.Path) == "" {
		return errors.New("storage.path is required")
	}
	if c.UI.ToastDuration <= 0 {
		return errors.New("ui.toast_duration must be positive")
	}
	if c.UI.ReloadDelay < 0 {
		return errors.New("ui.reload_delay must not be negative")
	}
	return nil
}

// Endpoint joins BaseURL with a server path.
func (c *Config) Endpoint(path string) string {
	return strings.TrimRight(strings.TrimSpace(c.Server.BaseURL), "/") + "/" + strings.TrimLeft(path, "/")
}

// SampleFile is written by `oficina init`.
const SampleFile = `# oficina Configuration File
#
# Values may also be set through OFICINA_* environment variables,
# e.g. OFICINA_SERVER_BASE_URL.

server:
  base_url: http://127.0.0.1:8000
  username: ""
  paths:
    login: /login/
    settings: /configuracoes/
    cleanup: /limpar-dados/
    export_users: /exportar-usuarios/
    security_logs: /admin/security-logs/

ui:
  default_theme: azul
  toast_duration: 3s
  reload_delay: 3s

logging:
  level: info
  format: json
`
