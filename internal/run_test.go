package internal

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// 参数校验的顺序：配置文件、孤立的策略配置、策略配置文件本身
func TestRunWebValidationOrder(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	err := RunWeb(ctx, RunWebOptions{ConfigPath: filepath.Join(dir, "missing.json")})
	require.ErrorContains(t, err, "config file not found")

	confPath := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(confPath,
		[]byte(`{"strategy": "X", "db_url": "sqlite:///db.sqlite"}`), 0o600))

	err = RunWeb(ctx, RunWebOptions{
		ConfigPath:     confPath,
		StrategyConfig: filepath.Join(dir, "alt.json"),
	})
	require.ErrorContains(t, err, "requires a strategy")

	err = RunWeb(ctx, RunWebOptions{
		ConfigPath:     confPath,
		Strategy:       "X",
		StrategyConfig: filepath.Join(dir, "alt.json"),
	})
	require.ErrorContains(t, err, "strategy config file not found")
}
