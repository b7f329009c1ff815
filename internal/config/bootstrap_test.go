package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOrCreateGeneratesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user_data", "config", "config.json")

	conf, created, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.True(t, created)

	// 生成的文件必须是合法JSON
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))

	assert.Equal(t, DefaultStrategy, conf.Strategy)
	assert.True(t, conf.DryRun)
	assert.Equal(t, "USDT", conf.StakeCurrency)
	assert.True(t, conf.StakeAmount.Unlimited)
	assert.False(t, conf.Telegram.Enabled)
	assert.NotEmpty(t, conf.Exchange.PairWhitelist)

	// 密钥在生成时一次性产生
	assert.Len(t, conf.APIServer.JWTSecretKey, 64)
	assert.NotEmpty(t, conf.APIServer.Password)
}

func TestLoadOrCreateDoesNotOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	_, created, err := LoadOrCreate(path)
	require.NoError(t, err)
	require.True(t, created)

	before, err := os.ReadFile(path)
	require.NoError(t, err)

	_, created, err = LoadOrCreate(path)
	require.NoError(t, err)
	assert.False(t, created)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after, "existing config must never be rewritten")
}

// 每次生成都应产生新的密钥
func TestLoadOrCreateSecretsAreFresh(t *testing.T) {
	first, _, err := LoadOrCreate(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	second, _, err := LoadOrCreate(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	assert.NotEqual(t, first.APIServer.JWTSecretKey, second.APIServer.JWTSecretKey)
	assert.NotEqual(t, first.APIServer.Password, second.APIServer.Password)
}

func TestLoadOrCreateReadsCredentialsFromEnv(t *testing.T) {
	t.Setenv("FREQTRADE__EXCHANGE__KEY", "test-key")
	t.Setenv("FREQTRADE__EXCHANGE__SECRET", "test-secret")

	conf, created, err := LoadOrCreate(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)
	require.True(t, created)

	assert.Equal(t, "test-key", conf.Exchange.Key)
	assert.Equal(t, "test-secret", conf.Exchange.Secret)
}

func TestLoadOrCreatePreservesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	existing := `{"strategy": "MyStrategy", "dry_run": false, "db_url": "sqlite:///db.sqlite"}`
	require.NoError(t, os.WriteFile(path, []byte(existing), 0o600))

	conf, created, err := LoadOrCreate(path)
	require.NoError(t, err)

	assert.False(t, created)
	assert.Equal(t, "MyStrategy", conf.Strategy)
	assert.False(t, conf.DryRun)
}

func TestLoadOrCreateFileMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	_, _, err := LoadOrCreate(path)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
