//go:build wireinject
// +build wireinject

package internal

import (
	"net/http"
	"time"

	"github.com/google/wire"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/xd/ftops/internal/config"
	"github.com/xd/ftops/internal/handler"
	"github.com/xd/ftops/internal/repo"
	"github.com/xd/ftops/internal/service"
	"github.com/xd/ftops/internal/telegram"
	"github.com/xd/ftops/pkg/exchange"
)

const telegramHTTPTimeout = 10 * time.Second

var (
	handlerSet = wire.NewSet(
		handler.NewLevelHandler,
		handler.NewSignalHandler,
		handler.NewMarketHandler,
	)

	serviceSet = wire.NewSet(
		provideExchange,
		repo.NewPriceLevelRepo,
		repo.NewStrategyRunRepo,
		service.NewLevelService,
		service.NewSignalService,
		service.NewMarketService,
	)
)

// InitializeApp 初始化应用组件
func InitializeApp(logger *zap.Logger, db *gorm.DB, conf *config.Config) (*AppComponents, error) {
	wire.Build(
		handlerSet,
		serviceSet,
		provideTelegram,
		wire.Struct(new(AppComponents), "*"),
	)
	return nil, nil
}

// provideTelegram provides telegram instance
func provideTelegram(logger *zap.Logger, conf *config.Config) *telegram.Telegram {
	if !conf.Telegram.Enabled {
		return nil
	}

	httpClient := &http.Client{Timeout: telegramHTTPTimeout}

	tg, err := telegram.NewTelegram(logger, telegram.Settings{
		Token:  conf.Telegram.Token,
		Client: httpClient,
	})
	if err != nil {
		logger.Error("failed to init telegram", zap.Error(err))
		return nil
	}

	return tg
}

// provideExchange provides exchange client
func provideExchange(conf *config.Config, logger *zap.Logger) exchange.Exchange {
	client := exchange.NewBinanceClient(
		conf.Exchange.Key,
		conf.Exchange.Secret,
		conf.Exchange.ProxyURL,
	)

	if conf.Exchange.Key == "" || conf.Exchange.Secret == "" {
		logger.Warn("exchange API credentials not configured; public market data only")
	}

	logger.Info("exchange client initialized",
		zap.String("exchange", conf.Exchange.Name),
		zap.Bool("has_credentials", conf.Exchange.Key != "" && conf.Exchange.Secret != ""),
	)
	return client
}
