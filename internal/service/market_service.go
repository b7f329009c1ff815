package service

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/xd/ftops/internal/config"
	"github.com/xd/ftops/internal/repo"
	"github.com/xd/ftops/pkg/exchange"
	"github.com/xd/ftops/pkg/nostd"
)

// MarketService 行情服务，提供交易对列表与最新价格
type MarketService struct {
	logger *zap.Logger
	conf   *config.Config

	exchange  exchange.Exchange
	levelRepo *repo.PriceLevelRepo

	mu          sync.RWMutex
	activePairs map[string]bool // 现货可交易的交易对集合，定时刷新
}

// NewMarketService 创建行情服务
func NewMarketService(logger *zap.Logger, conf *config.Config, ex exchange.Exchange, levelRepo *repo.PriceLevelRepo) *MarketService {
	return &MarketService{
		logger:      logger,
		conf:        conf,
		exchange:    ex,
		levelRepo:   levelRepo,
		activePairs: make(map[string]bool),
	}
}

// PairInfo 交易对及其24小时成交额
type PairInfo struct {
	Pair   string  `json:"pair"`
	Volume float64 `json:"volume"`
}

// AllPairs 合并白名单、现有价格水平和交易所交易对
// 顺序与旧实现保持一致：白名单优先，其次已有水平的交易对，最后按成交额排序的交易所交易对
func (s *MarketService) AllPairs(ctx context.Context, usdtOnly, spotOnly bool) ([]PairInfo, error) {
	seen := make(map[string]bool)
	pairs := make([]PairInfo, 0)

	appendPair := func(pair string, volume float64) {
		if seen[pair] {
			return
		}
		seen[pair] = true
		pairs = append(pairs, PairInfo{Pair: pair, Volume: volume})
	}

	for _, pair := range s.conf.Exchange.PairWhitelist {
		appendPair(pair, 0)
	}

	levelPairs, err := s.levelRepo.DistinctPairs(ctx)
	if err != nil {
		s.logger.Error("failed to get pairs from price levels", zap.Error(err))
	} else {
		for _, pair := range levelPairs {
			appendPair(pair, 0)
		}
	}

	symbols, err := s.exchange.GetSymbols(ctx)
	if err != nil {
		// 交易所不可达时退化为本地数据
		s.logger.Error("failed to get exchange symbols", zap.Error(err))
		return pairs, nil
	}

	volumes := make(map[string]float64)
	if tickers, err := s.exchange.GetTickers(ctx); err != nil {
		s.logger.Warn("failed to get tickers, volumes unavailable", zap.Error(err))
	} else {
		for _, t := range tickers {
			volumes[t.Symbol] = t.QuoteVolume
		}
	}

	exchangePairs := make([]PairInfo, 0, len(symbols))
	for _, sym := range symbols {
		if !sym.Active() {
			continue
		}
		if spotOnly && !sym.Spot {
			continue
		}
		if usdtOnly && sym.Quote != "USDT" {
			continue
		}
		pair := nostd.SymbolToPair(sym.Base, sym.Quote)
		if seen[pair] {
			// 已在白名单或水平列表里，补上成交额
			for i := range pairs {
				if pairs[i].Pair == pair {
					pairs[i].Volume = volumes[sym.Symbol]
					break
				}
			}
			continue
		}
		exchangePairs = append(exchangePairs, PairInfo{Pair: pair, Volume: volumes[sym.Symbol]})
	}

	sort.Slice(exchangePairs, func(i, j int) bool {
		return exchangePairs[i].Volume > exchangePairs[j].Volume
	})

	for _, p := range exchangePairs {
		appendPair(p.Pair, p.Volume)
	}

	return pairs, nil
}

// CurrentPrice 获取交易对的最新价格
func (s *MarketService) CurrentPrice(ctx context.Context, pair string) (float64, error) {
	return s.exchange.GetPrice(ctx, nostd.PairToSymbol(pair))
}

// RefreshActivePairs 刷新现货可交易集合，由定时任务调用
func (s *MarketService) RefreshActivePairs(ctx context.Context) error {
	symbols, err := s.exchange.GetSymbols(ctx)
	if err != nil {
		return err
	}

	active := make(map[string]bool, len(symbols))
	for _, sym := range symbols {
		if sym.Active() && sym.Spot {
			active[nostd.SymbolToPair(sym.Base, sym.Quote)] = true
		}
	}

	s.mu.Lock()
	s.activePairs = active
	s.mu.Unlock()

	s.logger.Debug("active pairs refreshed", zap.Int("count", len(active)))
	return nil
}

// CheckInactivePairs 检查现有价格水平的交易对是否仍可交易
func (s *MarketService) CheckInactivePairs(ctx context.Context) (map[string]bool, error) {
	s.mu.RLock()
	cached := len(s.activePairs) > 0
	s.mu.RUnlock()

	if !cached {
		if err := s.RefreshActivePairs(ctx); err != nil {
			return nil, err
		}
	}

	levelPairs, err := s.levelRepo.DistinctPairs(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]bool, len(levelPairs))
	for _, pair := range levelPairs {
		result[pair] = s.activePairs[pair]
	}
	return result, nil
}
