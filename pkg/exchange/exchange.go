package exchange

import "context"

// Exchange 交易所接口，定义价格层服务需要的只读行情能力
// 使用通用类型，便于支持多个交易所（币安、OKX、Bybit等）
type Exchange interface {
	// 交易对信息
	GetSymbols(ctx context.Context) ([]*SymbolInfo, error)

	// 市场数据
	GetPrice(ctx context.Context, symbol string) (float64, error)
	GetTickers(ctx context.Context) ([]*Ticker, error)
}
