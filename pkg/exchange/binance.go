package exchange

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/adshao/go-binance/v2"
)

// BinanceClient Binance现货API客户端
type BinanceClient struct {
	client         *binance.Client
	symbolInfoMap  map[string]*SymbolInfo
	symbolInfoLock sync.RWMutex
	lastUpdated    time.Time
}

var _ Exchange = (*BinanceClient)(nil)

// NewBinanceClient 创建Binance客户端
func NewBinanceClient(apiKey, secretKey, proxyURL string) *BinanceClient {
	var client *binance.Client
	if proxyURL != "" {
		client = binance.NewProxiedClient(apiKey, secretKey, proxyURL)
	} else {
		client = binance.NewClient(apiKey, secretKey)
	}

	return &BinanceClient{
		client:        client,
		symbolInfoMap: make(map[string]*SymbolInfo),
	}
}

// GetSymbols 获取全部交易对信息，结果缓存5分钟
func (b *BinanceClient) GetSymbols(ctx context.Context) ([]*SymbolInfo, error) {
	b.symbolInfoLock.RLock()
	if len(b.symbolInfoMap) > 0 && time.Since(b.lastUpdated) < 5*time.Minute {
		cached := make([]*SymbolInfo, 0, len(b.symbolInfoMap))
		for _, info := range b.symbolInfoMap {
			cached = append(cached, info)
		}
		b.symbolInfoLock.RUnlock()
		return cached, nil
	}
	b.symbolInfoLock.RUnlock()

	info, err := b.client.NewExchangeInfoService().Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get exchange info: %w", err)
	}

	result := make([]*SymbolInfo, 0, len(info.Symbols))
	b.symbolInfoLock.Lock()
	b.symbolInfoMap = make(map[string]*SymbolInfo, len(info.Symbols))
	for i := range info.Symbols {
		s := info.Symbols[i]
		symbolInfo := &SymbolInfo{
			Symbol: s.Symbol,
			Base:   s.BaseAsset,
			Quote:  s.QuoteAsset,
			Status: s.Status,
			Spot:   s.IsSpotTradingAllowed,
		}
		b.symbolInfoMap[s.Symbol] = symbolInfo
		result = append(result, symbolInfo)
	}
	b.lastUpdated = time.Now()
	b.symbolInfoLock.Unlock()

	return result, nil
}

// GetPrice 获取指定交易对的最新成交价
func (b *BinanceClient) GetPrice(ctx context.Context, symbol string) (float64, error) {
	prices, err := b.client.NewListPricesService().Symbol(symbol).Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get price for %s: %w", symbol, err)
	}
	if len(prices) == 0 {
		return 0, fmt.Errorf("no price returned for %s", symbol)
	}

	price, err := strconv.ParseFloat(prices[0].Price, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse price %q for %s: %w", prices[0].Price, symbol, err)
	}
	return price, nil
}

// GetTickers 获取全市场24小时行情，用于成交量排序
func (b *BinanceClient) GetTickers(ctx context.Context) ([]*Ticker, error) {
	stats, err := b.client.NewListPriceChangeStatsService().Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get 24h tickers: %w", err)
	}

	result := make([]*Ticker, 0, len(stats))
	for _, s := range stats {
		lastPrice, _ := strconv.ParseFloat(s.LastPrice, 64)
		quoteVolume, _ := strconv.ParseFloat(s.QuoteVolume, 64)

		result = append(result, &Ticker{
			Symbol:      s.Symbol,
			LastPrice:   lastPrice,
			QuoteVolume: quoteVolume,
		})
	}

	return result, nil
}
