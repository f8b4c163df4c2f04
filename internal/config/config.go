package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/go-sql-driver/mysql"
)

// Config holds the service settings. All values are taken from the system's environment
// variables. GIN_MODE is not listed here because gin reads it on its own.
type Config struct {
	Port       int    `env:"PORT"        envDefault:"8080"`
	DBHost     string `env:"DBHOST"      envDefault:"localhost"`
	DBUser     string `env:"DBUSER"`
	DBPwd      string `env:"DBPWD"`
	DBName     string `env:"DBNAME"      envDefault:"test"`
	GinLogging string `env:"GIN_LOGGING" envDefault:"on"`
	LogLevel   string `env:"LOG_LEVEL"   envDefault:"info"`
}

// Load parses the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("invalid PORT %d", cfg.Port)
	}
	return cfg, nil
}

// RequestLogging reports whether HTTP requests shall be logged. Only GIN_LOGGING=off (in any
// case) turns it off.
func (c Config) RequestLogging() bool {
	return !strings.EqualFold(c.GinLogging, "off")
}

// Addr is the listen address of the HTTP server.
func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// DSN builds the MySQL data source name. Times are parsed into time.Time, and the number of
// affected rows counts matched rows so that an update that changes nothing is not mistaken for a
// missing contact.
func (c Config) DSN() string {
	dsn := mysql.NewConfig()
	dsn.User = c.DBUser
	dsn.Passwd = c.DBPwd
	dsn.Net = "tcp"
	dsn.Addr = c.DBHost
	if _, _, err := net.SplitHostPort(c.DBHost); err != nil {
		dsn.Addr = net.JoinHostPort(c.DBHost, "3306")
	}
	dsn.DBName = c.DBName
	dsn.ParseTime = true
	dsn.ClientFoundRows = true
	return dsn.FormatDSN()
}
