package config

import (
	"os"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DBHOST", "DBNAME", "GIN_LOGGING", "LOG_LEVEL"} {
		t.Setenv(key, "") // restores the original value after the test
		os.Unsetenv(key)
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "test", cfg.DBName)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.RequestLogging())
	assert.Equal(t, ":8080", cfg.Addr())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DBHOST", "db:3307")
	t.Setenv("DBUSER", "dirk")
	t.Setenv("DBPWD", "bullo92")
	t.Setenv("DBNAME", "contacts")
	t.Setenv("GIN_LOGGING", "OFF")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "dirk", cfg.DBUser)
	assert.Equal(t, "bullo92", cfg.DBPwd)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.RequestLogging())
}

func TestLoadInvalidPort(t *testing.T) {
	for _, port := range []string{"not a number", "0", "70000"} {
		t.Setenv("PORT", port)
		_, err := Load()
		assert.Error(t, err, "PORT: "+port)
	}
}

// TestDSN parses the generated DSN back to make sure all settings survive.
func TestDSN(t *testing.T) {
	cfg := Config{DBHost: "localhost", DBUser: "dirk", DBPwd: "bullo92", DBName: "test"}
	parsed, err := mysql.ParseDSN(cfg.DSN())
	require.NoError(t, err)
	assert.Equal(t, "dirk", parsed.User)
	assert.Equal(t, "bullo92", parsed.Passwd)
	assert.Equal(t, "tcp", parsed.Net)
	assert.Equal(t, "localhost:3306", parsed.Addr)
	assert.Equal(t, "test", parsed.DBName)
	assert.True(t, parsed.ParseTime)
	assert.True(t, parsed.ClientFoundRows)

	cfg.DBHost = "db:3307"
	parsed, err = mysql.ParseDSN(cfg.DSN())
	require.NoError(t, err)
	assert.Equal(t, "db:3307", parsed.Addr)
}
