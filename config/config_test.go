package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rosterdb.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("rosterdb", nil, env(nil))
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultUser, cfg.User)
	assert.Equal(t, "", cfg.Password)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
port: 6000
user: registrar
password: s3cret
log_level: debug
log_format: json
`)
	cfg, err := Load("rosterdb", []string{"-config", path}, env(nil))
	require.NoError(t, err)
	assert.Equal(t, 6000, cfg.Port)
	assert.Equal(t, "registrar", cfg.User)
	assert.Equal(t, "s3cret", cfg.Password)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "password: pw\n")
	cfg, err := Load("rosterdb", nil, env(map[string]string{"ROSTERDB_CONFIG": path}))
	require.NoError(t, err)
	assert.Equal(t, "pw", cfg.Password)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultUser, cfg.User)
}

func TestLoadPrecedence(t *testing.T) {
	path := writeConfig(t, "port: 6000\nuser: fromfile\nlog_level: warn\n")
	vars := map[string]string{
		"ROSTERDB_PORT": "7000",
		"ROSTERDB_USER": "fromenv",
	}

	cfg, err := Load("rosterdb", []string{"-config", path, "-port", "8000"}, env(vars))
	require.NoError(t, err)
	assert.Equal(t, 8000, cfg.Port, "flag beats env")
	assert.Equal(t, "fromenv", cfg.User, "env beats file")
	assert.Equal(t, "warn", cfg.LogLevel, "file beats default")
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
		want string
	}{
		{"missing file", []string{"-config", "/nonexistent/rosterdb.yaml"}, nil, "read config"},
		{"bad env port", nil, map[string]string{"ROSTERDB_PORT": "abc"}, "ROSTERDB_PORT"},
		{"port range", []string{"-port", "70000"}, nil, "out of range"},
		{"bad level", []string{"-log-level", "loud"}, nil, "log level"},
		{"bad format", []string{"-log-format", "xml"}, nil, "log format"},
		{"unknown flag", []string{"-datadir", "x"}, nil, "datadir"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load("rosterdb", tt.args, env(tt.env))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := writeConfig(t, "port: [1, 2\n")
	_, err := Load("rosterdb", []string{"-config", path}, env(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{LogLevel: "warn", LogFormat: "json"}
	log := cfg.Logger(&buf)

	log.Info("hidden")
	log.Warn("shown", "port", 5433)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.HasPrefix(out, "{"), "json output: %s", out)
	assert.Contains(t, out, `"port":5433`)
}

func TestLoggerText(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{LogLevel: "debug", LogFormat: "text"}
	cfg.Logger(&buf).Debug("command", "cmps", 3)
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "cmps=3")
}
