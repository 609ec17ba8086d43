package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nickustinov/homebar/internal/group"
	"github.com/nickustinov/homebar/internal/home"
	"github.com/nickustinov/homebar/internal/infrastructure/config"
	"github.com/nickustinov/homebar/internal/infrastructure/database"
	"github.com/nickustinov/homebar/internal/infrastructure/logging"
)

const testSnapshot = `{
  "rooms": [
    {"id": "r-bed", "name": "Bedroom"},
    {"id": "r-off", "name": "Office"}
  ],
  "services": [
    {"id": "AAAA-0002", "name": "Spotlights", "type": "lightbulb", "room_id": "r-bed"},
    {"id": "AAAA-0003", "name": "Spotlights", "type": "lightbulb", "room_id": "r-off"}
  ],
  "scenes": [
    {"id": "CCCC-0001", "name": "Goodnight"}
  ]
}`

// writeTestConfig writes a config with MQTT disabled and a snapshot file,
// and returns its path.
func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	snapPath := filepath.Join(dir, "home.json")
	require.NoError(t, os.WriteFile(snapPath, []byte(testSnapshot), 0o600))

	cfg := `
snapshot:
  file: "` + snapPath + `"
database:
  path: "` + filepath.Join(dir, "homebar.db") + `"
mqtt:
  enabled: false
logging:
  level: error
  output: stderr
`
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))
	return cfgPath
}

func TestGetConfigPath_Default(t *testing.T) {
	t.Setenv(envConfigPath, "")
	assert.Equal(t, config.DefaultPath, getConfigPath())
}

func TestGetConfigPath_EnvOverride(t *testing.T) {
	t.Setenv(envConfigPath, "/custom/path/config.yaml")
	assert.Equal(t, "/custom/path/config.yaml", getConfigPath())
}

func TestParseFlags(t *testing.T) {
	t.Setenv(envConfigPath, "")

	opts, err := parseFlags([]string{"-c", "alt.yaml", "--resolve", "Office/Spotlights"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "alt.yaml", opts.configPath)
	assert.Equal(t, "Office/Spotlights", opts.resolve)
	assert.True(t, opts.resolveSet)

	opts, err = parseFlags(nil, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, config.DefaultPath, opts.configPath)
	assert.False(t, opts.resolveSet)

	_, err = parseFlags([]string{"--bogus"}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestRun_Version(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"--version"}, &out))
	assert.True(t, strings.HasPrefix(out.String(), "homebar dev"))
}

func TestRun_InvalidConfig(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := run(ctx, []string{"--config", "/nonexistent/path/config.yaml"}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading config")
}

func TestRun_Resolve(t *testing.T) {
	cfgPath := writeTestConfig(t)

	tests := []struct {
		query string
		want  []string
	}{
		{"Office/Spotlights", []string{"services (1)", "Office/Spotlights [lightbulb] AAAA-0003"}},
		{"Spotlights", []string{"ambiguous (2)", "Bedroom/Spotlights", "Office/Spotlights"}},
		{"scene.Goodnight", []string{"scene", "Goodnight CCCC-0001"}},
		{"Garage", []string{"not_found", "Garage"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var out bytes.Buffer
			err := run(context.Background(), []string{"--config", cfgPath, "--resolve", tt.query}, &out)
			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, out.String(), want)
			}
		})
	}
}

func TestServe_ReturnsOnCancel(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Webhook.Enabled = false
	cfg.Logging.Level = "error"

	db, err := database.Open(context.Background(), database.Config{Path: filepath.Join(dir, "homebar.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	groups := group.NewRegistry(group.NewSQLiteRepository(db.DB))
	err = serve(ctx, cfg, logging.Default(), db, home.NewStore(), groups)
	assert.NoError(t, err)
}
