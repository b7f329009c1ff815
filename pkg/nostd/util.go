package nostd

import (
	"fmt"
	"path/filepath"
	"strings"
)

func SafePathJoin(baseDir, userInput string) (string, error) {
	cleanedPath := filepath.Clean(userInput)
	absBaseDir, err := filepath.Abs(baseDir)
	if err != nil {
		return "", err
	}

	absFilePath, err := filepath.Abs(filepath.Join(absBaseDir, cleanedPath))
	if err != nil {
		return "", err
	}

	if !strings.HasPrefix(absFilePath, absBaseDir) {
		return "", fmt.Errorf("invalid file path: %s", userInput)
	}
	return absFilePath, nil
}

// PairToSymbol 将 freqtrade 格式的交易对转换为交易所符号，如 BTC/USDT -> BTCUSDT
func PairToSymbol(pair string) string {
	return strings.ReplaceAll(strings.ToUpper(pair), "/", "")
}

// SymbolToPair 拼接交易对格式，如 BTC + USDT -> BTC/USDT
func SymbolToPair(base, quote string) string {
	return strings.ToUpper(base) + "/" + strings.ToUpper(quote)
}
