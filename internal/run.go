package internal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"github.com/xd/ftops/internal/config"
	"github.com/xd/ftops/internal/launcher"
	"github.com/xd/ftops/internal/models"
	"github.com/xd/ftops/internal/telegram"
)

// signalRetention 信号历史保留时长，超过的由定时任务清理
const signalRetention = 90 * 24 * time.Hour

func newLogger() *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(os.Stdout),
		zap.NewAtomicLevelAt(zapcore.InfoLevel),
	)
	return zap.New(core)
}

// telegramNotifier 把进程事件转发到配置的聊天
type telegramNotifier struct {
	tg     *telegram.Telegram
	chatID string
}

func (r *telegramNotifier) Notify(msg string) error {
	return r.tg.Notify(r.chatID, msg)
}

// RunWebOptions web 子命令参数
type RunWebOptions struct {
	ConfigPath     string
	Strategy       string
	StrategyConfig string
	Executable     string
}

// RunWeb 启动价格水平Web服务，可选地托管一个后台策略进程
func RunWeb(ctx context.Context, opts RunWebOptions) error {
	logger := newLogger()
	defer logger.Sync()

	// 参数校验顺序固定：配置文件、孤立的策略配置、策略配置文件本身
	if _, err := os.Stat(opts.ConfigPath); err != nil {
		return fmt.Errorf("config file not found: %s", opts.ConfigPath)
	}
	if opts.StrategyConfig != "" && opts.Strategy == "" {
		return errors.New("strategy config (-f) requires a strategy (-s)")
	}
	if opts.StrategyConfig != "" {
		if _, err := os.Stat(opts.StrategyConfig); err != nil {
			return fmt.Errorf("strategy config file not found: %s", opts.StrategyConfig)
		}
	}

	conf, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	for _, dir := range []string{"user_data/web/templates", "user_data/web/static"} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	dbPath, err := conf.SQLitePath()
	if err != nil {
		return err
	}
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.AutoMigrate(
		models.PriceLevel{}, models.SignalHistory{}, models.StrategyRun{},
	); err != nil {
		return fmt.Errorf("database auto migrate failed: %w", err)
	}

	components, err := InitializeApp(logger, db, conf)
	if err != nil {
		return fmt.Errorf("failed to initialize app: %v", err)
	}

	var notifier launcher.Notifier
	if components.Telegram != nil {
		components.Telegram.Start()
		notifier = &telegramNotifier{tg: components.Telegram, chatID: conf.Telegram.ChatID}
	}

	var supervisor *launcher.Supervisor
	if opts.Strategy != "" {
		supervisor = launcher.NewSupervisor(logger, launcher.Options{
			Executable: opts.Executable,
			Strategy:   opts.Strategy,
			ConfigPath: opts.StrategyConfig,
		}, components.StrategyRunRepo, notifier)

		if err := supervisor.Start(ctx); err != nil {
			return err
		}
	} else {
		logger.Info("no strategy specified, starting web service only")
	}

	c := cron.New()
	_, _ = c.AddFunc("@every 10m", func() {
		if err := components.MarketService.RefreshActivePairs(context.Background()); err != nil {
			logger.Error("failed to refresh active pairs", zap.Error(err))
		}
	})
	_, _ = c.AddFunc("@daily", func() {
		if err := components.SignalService.Prune(context.Background(), signalRetention); err != nil {
			logger.Error("failed to prune signal history", zap.Error(err))
		}
	})
	c.Start()

	e, err := NewEcho(logger, conf, components, supervisor)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("web service listening", zap.String("addr", conf.Web.Addr()))
		if err := e.Start(conf.Web.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	c.Stop()
	if supervisor != nil {
		if err := supervisor.Stop(shutdownCtx); err != nil {
			logger.Error("failed to stop strategy process", zap.Error(err))
		}
	}
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown web service", zap.Error(err))
	}
	return nil
}

// RunTradeOptions trade 子命令参数
type RunTradeOptions struct {
	ConfigPath  string
	Executable  string
	LiveConfirm bool
}

// RunTrade 确保配置存在后前台启动外部交易程序，返回其退出码
func RunTrade(ctx context.Context, opts RunTradeOptions) (int, error) {
	logger := newLogger()
	defer logger.Sync()

	// .env 中的交易所与Telegram凭据只影响首次生成配置
	_ = godotenv.Load()

	conf, created, err := config.LoadOrCreate(opts.ConfigPath)
	if err != nil {
		return 1, err
	}
	if created {
		logger.Info("config file created", zap.String("path", opts.ConfigPath))
	} else {
		logger.Info("using existing config file", zap.String("path", opts.ConfigPath))
	}

	// 实盘模式必须显式确认，取代以前的固定延迟等待
	if !conf.DryRun && !opts.LiveConfirm {
		fmt.Printf("dry_run is disabled: the bot will trade with REAL funds.\nType 'yes' to continue: ")
		reader := bufio.NewReader(os.Stdin)
		line, _ := reader.ReadString('\n')
		if strings.TrimSpace(line) != "yes" {
			logger.Warn("live trading not confirmed, aborting")
			return 1, nil
		}
	}

	if conf.Telegram.Enabled && conf.Telegram.Token != "" {
		tg, err := provideTelegramNotifier(logger, conf)
		if err == nil && tg != nil {
			msg := fmt.Sprintf("🚀 交易进程启动，策略 %s，dry_run=%v",
				telegram.EscapeMarkdown(conf.Strategy), conf.DryRun)
			if err := tg.Notify(msg); err != nil {
				logger.Warn("failed to send startup notification", zap.Error(err))
			}
		}
	}

	exe := opts.Executable
	if exe == "" {
		exe = launcher.DefaultExecutable
	}
	return launcher.RunForeground(ctx, logger, exe,
		"trade", "--config", opts.ConfigPath, "--strategy", conf.Strategy)
}

func provideTelegramNotifier(logger *zap.Logger, conf *config.Config) (launcher.Notifier, error) {
	tg := provideTelegram(logger, conf)
	if tg == nil {
		return nil, nil
	}
	return &telegramNotifier{tg: tg, chatID: conf.Telegram.ChatID}, nil
}
