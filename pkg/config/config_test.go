package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kwesinavilot/llama-index-do-spaces-reader/pkg/config"
	"github.com/kwesinavilot/llama-index-do-spaces-reader/pkg/spaces"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const validConfig = `{
	"log_level": "debug",
	"reader": {
		"bucket": "docs",
		"prefix": "ingest",
		"region": "nyc3",
		"endpoint_url": "https://nyc3.digitaloceanspaces.com",
		"access_key_id": "AKID",
		"secret_access_key": "SECRET"
	},
	"filter": {
		"required_exts": [".txt", ".md"],
		"max_files": 100,
		"recursive": false,
		"mode": "text",
		"error_policy": "skip_failed",
		"fetch_concurrency": 4
	},
	"persistence": [
		{
			"name": "index_store",
			"type": "s3",
			"enabled": true,
			"options": {"bucket": "index", "region": "nyc3"}
		}
	]
}`

func TestParseAndValidate(t *testing.T) {
	t.Run("valid_config", func(t *testing.T) {
		path := writeConfigFile(t, validConfig)

		require.NoError(t, config.Validate(path))

		cfg, err := config.ParseConfig(path)
		require.NoError(t, err)

		assert.Equal(t, "debug", cfg.GetLogLevel())
		assert.Equal(t, "json", cfg.GetLogFormat())
		assert.Equal(t, "docs", cfg.Reader.Bucket)
		require.Len(t, cfg.Persistence, 1)
		assert.Equal(t, "index_store", cfg.Persistence[0].Name)
	})

	t.Run("missing_bucket_fails_validation", func(t *testing.T) {
		path := writeConfigFile(t, `{"reader": {"prefix": "ingest"}}`)
		require.Error(t, config.Validate(path))
	})

	t.Run("bad_enum_fails_validation", func(t *testing.T) {
		path := writeConfigFile(t, `{
			"reader": {"bucket": "docs"},
			"filter": {"mode": "hexdump"}
		}`)
		require.Error(t, config.Validate(path))
	})

	t.Run("missing_file_fails_parse", func(t *testing.T) {
		_, err := config.ParseConfig("/no/such/config.json")
		require.Error(t, err)
	})
}

func TestFilterSpecConversion(t *testing.T) {
	t.Run("defaults_when_section_empty", func(t *testing.T) {
		cfg := &config.Config{}

		spec, err := cfg.FilterSpec()
		require.NoError(t, err)
		assert.True(t, spec.Recursive)
		assert.True(t, spec.FilenameAsID)
		assert.Equal(t, spaces.ModeText, spec.Mode)
		assert.Equal(t, spaces.FailFast, spec.ErrorPolicy)
	})

	t.Run("explicit_values_override_defaults", func(t *testing.T) {
		path := writeConfigFile(t, validConfig)
		cfg, err := config.ParseConfig(path)
		require.NoError(t, err)

		spec, err := cfg.FilterSpec()
		require.NoError(t, err)
		assert.False(t, spec.Recursive)
		assert.Equal(t, []string{".txt", ".md"}, spec.RequiredExts)
		assert.Equal(t, 100, spec.MaxFiles)
		assert.Equal(t, spaces.SkipFailed, spec.ErrorPolicy)
		assert.Equal(t, 4, spec.FetchConcurrency)
	})

	t.Run("unknown_policy_fails", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.Filter.ErrorPolicy = "shrug"

		_, err := cfg.FilterSpec()
		require.Error(t, err)
	})

	t.Run("spaces_config_carries_all_fields", func(t *testing.T) {
		path := writeConfigFile(t, validConfig)
		cfg, err := config.ParseConfig(path)
		require.NoError(t, err)

		sc := cfg.SpacesConfig()
		assert.Equal(t, "docs", sc.Bucket)
		assert.Equal(t, "ingest", sc.Prefix)
		assert.Equal(t, "https://nyc3.digitaloceanspaces.com", sc.EndpointURL)
		assert.Equal(t, "AKID", sc.AccessKeyID)
	})
}

func TestApplyEnv(t *testing.T) {
	t.Run("fills_empty_fields", func(t *testing.T) {
		t.Setenv(config.EnvBucket, "env-bucket")
		t.Setenv(config.EnvKeyID, "env-key")
		t.Setenv(config.EnvSecretKey, "env-secret")
		t.Setenv(config.EnvEndpointURL, "https://ams3.digitaloceanspaces.com")

		cfg := config.ReaderConfig{}
		config.ApplyEnv(&cfg)

		assert.Equal(t, "env-bucket", cfg.Bucket)
		assert.Equal(t, "env-key", cfg.AccessKeyID)
		assert.Equal(t, "env-secret", cfg.SecretAccessKey)
		assert.Equal(t, "https://ams3.digitaloceanspaces.com", cfg.EndpointURL)
	})

	t.Run("file_values_win", func(t *testing.T) {
		t.Setenv(config.EnvBucket, "env-bucket")

		cfg := config.ReaderConfig{Bucket: "file-bucket"}
		config.ApplyEnv(&cfg)

		assert.Equal(t, "file-bucket", cfg.Bucket)
	})
}
