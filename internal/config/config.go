package config

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/spf13/viper"
)

// Defaults applied when neither the config file nor the environment says
// otherwise. The signing key default exists so a bare checkout starts; any
// real deployment overrides it.
const (
	defaultPort       = "8080"
	defaultDBPath     = "equiptrack.db"
	defaultLogLevel   = "info"
	defaultSigningKey = "dev-only-signing-key"
)

// Config is everything the process needs at startup. Values come from
// configs/config.yml, overridable per key through EQUIPTRACK_* environment
// variables (dots become underscores, e.g. EQUIPTRACK_DB_PATH).
type Config struct {
	Host       string
	Port       string
	DBPath     string
	LogLevel   string
	SigningKey string
}

// Load reads the configuration from dir (usually "configs"). A missing file
// is not an error; defaults and the environment still apply.
func Load(dir string) (*Config, error) {
	v := viper.New()

	v.SetDefault("host", "")
	v.SetDefault("port", defaultPort)
	v.SetDefault("db.path", defaultDBPath)
	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("auth.signing_key", defaultSigningKey)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetEnvPrefix("EQUIPTRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return &Config{
		Host:       v.GetString("host"),
		Port:       v.GetString("port"),
		DBPath:     v.GetString("db.path"),
		LogLevel:   v.GetString("log.level"),
		SigningKey: v.GetString("auth.signing_key"),
	}, nil
}

// Addr returns the host:port the HTTP server should bind.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}
