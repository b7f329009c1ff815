package exchange

// 通用行情类型定义，独立于任何特定交易所
// 价格层管理只读取行情，不需要下单能力

// SymbolInfo 交易对信息
type SymbolInfo struct {
	Symbol string // 交易所符号，如 BTCUSDT
	Base   string // 基础货币，如 BTC
	Quote  string // 计价货币，如 USDT
	Status string // 交易状态，如 TRADING
	Spot   bool   // 是否支持现货交易
}

// Active 是否仍可交易
func (s *SymbolInfo) Active() bool {
	return s.Status == "TRADING"
}

// Ticker 24小时行情快照
type Ticker struct {
	Symbol      string
	LastPrice   float64
	QuoteVolume float64
}
