package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zoobzio/predql"
)

const sampleConfig = `
dialect: postgres
strict: true
models:
  - name: user
    table: users
    schema: app
    columns: [id, name, age]
    fields:
      - {name: createdAt, column: created_at}
database:
  url: postgres://localhost/app
  slow_threshold: 250ms
log:
  level: debug
  format: json
`

func writeConfig(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestFindConfigFile_ExplicitPath(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "custom.yaml", "dialect: sqlite")

	got, err := findConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, got)
}

func TestFindConfigFile_ExplicitPathNotFound(t *testing.T) {
	_, err := findConfigFile("/nonexistent/path/config.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestFindConfigFile_AutoDiscovery(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	configPath := writeConfig(t, root, "predql.yaml", "dialect: sqlite")

	nested := filepath.Join(root, "deep", "nested")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	chdir(t, nested)

	path, err := findConfigFile("")
	require.NoError(t, err)

	expected, _ := filepath.EvalSymlinks(configPath)
	actual, _ := filepath.EvalSymlinks(path)
	assert.Equal(t, expected, actual)
}

func TestFindConfigFile_StopsAtRepoRoot(t *testing.T) {
	outer := t.TempDir()
	writeConfig(t, outer, "predql.yaml", "dialect: sqlite")

	repo := filepath.Join(outer, "repo")
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0o755))
	chdir(t, repo)

	path, err := findConfigFile("")
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "predql.yaml", sampleConfig)

	cfg, got, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, path, got)

	assert.Equal(t, "postgres", cfg.Dialect)
	assert.True(t, cfg.Strict)
	require.Len(t, cfg.Models, 1)
	assert.Equal(t, ModelConfig{
		Name:    "user",
		Table:   "users",
		Schema:  "app",
		Columns: []string{"id", "name", "age"},
		Fields:  []FieldConfig{{Name: "createdAt", Column: "created_at"}},
	}, cfg.Models[0])
	assert.Equal(t, 250*time.Millisecond, cfg.Database.SlowThreshold)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfig_Defaults(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	chdir(t, root)

	cfg, path, err := LoadConfig("")
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, 100*time.Millisecond, cfg.Database.SlowThreshold)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "predql.yaml", sampleConfig)
	t.Setenv("PREDQL_DIALECT", "mssql")
	t.Setenv("PREDQL_DATABASE_URL", "sqlserver://sa@localhost")

	cfg, _, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "mssql", cfg.Dialect)
	assert.Equal(t, "sqlserver://sa@localhost", cfg.Database.URL)
}

func TestConfig_Schema(t *testing.T) {
	cfg := &Config{Models: []ModelConfig{
		{Name: "user", Table: "users", Schema: "app", Columns: []string{"id", "age"}, Fields: []FieldConfig{{Name: "createdAt", Column: "created_at"}}},
		{Name: "tag", Columns: []string{"id"}},
	}}

	s, err := cfg.Schema()
	require.NoError(t, err)

	result, err := predql.RenderWhere(s, "user",
		predql.Gt(predql.Col("age"), 18),
		predql.NotNull(predql.Col("createdAt")))
	require.NoError(t, err)
	assert.Equal(t, `("app"."users"."age" > ? AND "app"."users"."created_at" IS NOT NULL)`, result.SQL)

	_, err = s.TryT("tag")
	assert.NoError(t, err)

	_, err = (&Config{}).Schema()
	assert.Error(t, err)

	_, err = (&Config{Models: []ModelConfig{{Name: "x", Table: "bad table"}}}).Schema()
	assert.ErrorIs(t, err, predql.ErrConfiguration)
}

func TestConfig_ResolveDialect(t *testing.T) {
	tests := []struct {
		cfg  Config
		want string
	}{
		{Config{}, "standard"},
		{Config{Dialect: "Standard"}, "standard"},
		{Config{Dialect: "postgresql"}, "postgres"},
		{Config{Database: DatabaseConfig{Backend: "mysql"}}, "mariadb"},
		{Config{Dialect: "sqlite", Database: DatabaseConfig{Backend: "mssql"}}, "sqlite"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%s", tt.cfg.Dialect, tt.cfg.Database.Backend), func(t *testing.T) {
			d, err := tt.cfg.ResolveDialect()
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Name())
		})
	}

	_, err := (&Config{Dialect: "oracle"}).ResolveDialect()
	assert.Error(t, err)
}

func TestConfig_Logger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := (&Config{Log: LogConfig{Level: "warn", Format: "json"}}).Logger(&buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "n", 1)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	_, err = (&Config{Log: LogConfig{Level: "loud"}}).Logger(&buf)
	assert.Error(t, err)
	_, err = (&Config{Log: LogConfig{Level: "info", Format: "xml"}}).Logger(&buf)
	assert.Error(t, err)
}

func TestExitError(t *testing.T) {
	base := errors.New("boom")

	err := ConfigError("loading configuration", base)
	assert.Equal(t, "loading configuration: boom", err.Error())
	assert.ErrorIs(t, err, base)
	assert.Equal(t, ExitConfig, Code(err))
	assert.Equal(t, ExitRender, Code(fmt.Errorf("wrapped: %w", RenderError("render", base))))
	assert.Equal(t, ExitDBConnect, Code(DBConnectError("connect", nil)))
	assert.Equal(t, ExitGeneral, Code(base))
	assert.Equal(t, ExitSuccess, Code(nil))
	assert.Equal(t, "plain", (&ExitError{Message: "plain"}).Error())
}
