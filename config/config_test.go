package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/denisschmidt/songvault/config"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "MONGO_URI", "UPLOAD_DIR", "CATALOG", "DB_PATH", "DEBUG",
		"MONGO_DB", "MONGO_COLLECTION", "OPTIONS_ENABLE_STATS", "OPTIONS_FILL_TAGS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")

	c, err := config.Load("")
	require.NoError(t, err)

	require.Equal(t, config.DefaultPort, c.Port)
	require.Equal(t, config.DefaultUploadDir, c.UploadDir)
	require.Equal(t, config.CatalogMongo, c.Catalog)
	require.Equal(t, "mongodb://localhost:27017", c.MongoURI)
	require.Equal(t, config.DefaultMongoCollection, c.MongoCollection)
	require.Equal(t, []string{"*"}, c.AllowedOrigins)
	require.False(t, c.Options.EnableStats)
	require.False(t, c.Options.FillTags)
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "6001")
	t.Setenv("CATALOG", "sqlite")
	t.Setenv("DB_PATH", "/tmp/songs.db")
	t.Setenv("OPTIONS_ENABLE_STATS", "true")
	t.Setenv("OPTIONS_FILL_TAGS", "true")

	c, err := config.Load("")
	require.NoError(t, err)

	require.Equal(t, 6001, c.Port)
	require.Equal(t, config.CatalogSqlite, c.Catalog)
	require.Equal(t, "/tmp/songs.db", c.DBPath)
	require.True(t, c.Options.EnableStats)
	require.True(t, c.Options.FillTags)
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	err := os.WriteFile(path, []byte("MONGO_URI=mongodb://db:27017\nPORT=7000\nUPLOAD_DIR=/srv/uploads\n"), 0600)
	require.NoError(t, err)

	c, err := config.Load(path)
	require.NoError(t, err)

	require.Equal(t, 7000, c.Port)
	require.Equal(t, "mongodb://db:27017", c.MongoURI)
	require.Equal(t, "/srv/uploads", c.UploadDir)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8123")
	path := filepath.Join(t.TempDir(), ".env")
	err := os.WriteFile(path, []byte("MONGO_URI=mongodb://db:27017\nPORT=7000\n"), 0600)
	require.NoError(t, err)

	c, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, 8123, c.Port)
}

func TestLoadInvalid(t *testing.T) {
	for _, row := range []struct {
		description string
		env         map[string]string
	}{
		{
			description: "mongo catalog without uri",
			env:         map[string]string{},
		},
		{
			description: "unknown catalog",
			env:         map[string]string{"CATALOG": "redis"},
		},
		{
			description: "port out of range",
			env:         map[string]string{"MONGO_URI": "mongodb://x", "PORT": "70000"},
		},
	} {
		t.Run(row.description, func(t *testing.T) {
			clearEnv(t)
			for k, v := range row.env {
				t.Setenv(k, v)
			}
			_, err := config.Load("")
			require.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
