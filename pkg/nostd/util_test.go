package nostd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPairToSymbol(t *testing.T) {
	assert.Equal(t, "BTCUSDT", PairToSymbol("BTC/USDT"))
	assert.Equal(t, "ETHUSDT", PairToSymbol("eth/usdt"))
	assert.Equal(t, "BTCUSDT", PairToSymbol("BTCUSDT"))
}

func TestSymbolToPair(t *testing.T) {
	assert.Equal(t, "BTC/USDT", SymbolToPair("BTC", "USDT"))
	assert.Equal(t, "SOL/USDT", SymbolToPair("sol", "usdt"))
}

func TestSafePathJoin(t *testing.T) {
	dir := t.TempDir()

	p, err := SafePathJoin(dir, "a/b.txt")
	require.NoError(t, err)
	assert.Contains(t, p, dir)

	_, err = SafePathJoin(dir, "../../etc/passwd")
	assert.Error(t, err)
}
