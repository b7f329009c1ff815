package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/valyala/fasttemplate"

	"github.com/xd/ftops/pkg/nostd"
)

// 生成配置时使用的固定参数，与外部交易程序的启动脚本保持一致
const (
	DefaultStrategy  = "ATRLevelSignal"
	defaultExchange  = "binance"
	defaultTimeframe = "15m"
	defaultCurrency  = "USDT"
	defaultDryRun    = true
	defaultTelegram  = false
)

// 交易所密钥从环境变量读取，命名沿用 freqtrade 的环境变量覆盖格式
const (
	envExchangeKey    = "FREQTRADE__EXCHANGE__KEY"
	envExchangeSecret = "FREQTRADE__EXCHANGE__SECRET"
	envTelegramToken  = "FREQTRADE__TELEGRAM__TOKEN"
	envTelegramChatID = "FREQTRADE__TELEGRAM__CHAT_ID"
)

// configTemplate 固定模板，生成时做字符串替换
// 生成后的文件必须始终是外部交易程序可直接加载的合法配置
const configTemplate = `{
    "max_open_trades": 3,
    "stake_currency": "{{stake_currency}}",
    "stake_amount": "unlimited",
    "dry_run": {{dry_run}},
    "timeframe": "{{timeframe}}",
    "strategy": "{{strategy}}",
    "bot_name": "ftops",
    "initial_state": "running",
    "db_url": "sqlite:///user_data/tradesv3.sqlite",
    "exchange": {
        "name": "{{exchange_name}}",
        "key": "{{exchange_key}}",
        "secret": "{{exchange_secret}}",
        "pair_whitelist": [
            "BTC/{{stake_currency}}",
            "ETH/{{stake_currency}}",
            "BNB/{{stake_currency}}",
            "SOL/{{stake_currency}}",
            "XRP/{{stake_currency}}"
        ],
        "pair_blacklist": [
            ".*(3L|3S|5L|5S)/.*",
            ".*(BEAR|BULL)/.*"
        ]
    },
    "telegram": {
        "enabled": {{telegram_enabled}},
        "token": "{{telegram_token}}",
        "chat_id": "{{telegram_chat_id}}"
    },
    "api_server": {
        "enabled": true,
        "listen_ip_address": "127.0.0.1",
        "listen_port": 8080,
        "username": "freqtrader",
        "password": "{{api_password}}",
        "jwt_secret_key": "{{jwt_secret_key}}"
    },
    "web_config": {
        "host": "127.0.0.1",
        "port": 8501,
        "username": "",
        "password": ""
    },
    "internals": {
        "process_throttle_secs": 5
    }
}
`

// LoadOrCreate 确保配置文件存在并加载
// 文件缺失时创建目录并用模板生成一次，已存在时原样复用，绝不重写
// 返回值 created 表示本次调用是否生成了新文件
func LoadOrCreate(path string) (conf *Config, created bool, err error) {
	_, err = os.Stat(path)
	switch {
	case err == nil:
		conf, err = Load(path)
		return conf, false, err
	case !errors.Is(err, fs.ErrNotExist):
		return nil, false, fmt.Errorf("failed to stat config file %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, false, fmt.Errorf("failed to create config directory: %w", err)
	}

	rendered := renderTemplate()

	// 渲染结果必须是合法JSON，否则宁可失败也不落盘
	if !json.Valid([]byte(rendered)) {
		return nil, false, fmt.Errorf("rendered config is not valid JSON")
	}

	// O_EXCL 保证并发下也只写一次
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			conf, err = Load(path)
			return conf, false, err
		}
		return nil, false, fmt.Errorf("failed to create config file %s: %w", path, err)
	}
	if _, err := f.WriteString(rendered); err != nil {
		f.Close()
		return nil, false, fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return nil, false, fmt.Errorf("failed to close config file %s: %w", path, err)
	}

	conf, err = Load(path)
	return conf, true, err
}

func renderTemplate() string {
	tmpl := fasttemplate.New(configTemplate, "{{", "}}")
	return tmpl.ExecuteString(map[string]interface{}{
		"strategy":       DefaultStrategy,
		"exchange_name":  defaultExchange,
		"timeframe":      defaultTimeframe,
		"stake_currency": defaultCurrency,
		"dry_run":        strconv.FormatBool(defaultDryRun),
		// 交易所与Telegram凭据来自环境变量，缺省为空串
		"exchange_key":     os.Getenv(envExchangeKey),
		"exchange_secret":  os.Getenv(envExchangeSecret),
		"telegram_enabled": strconv.FormatBool(defaultTelegram),
		"telegram_token":   os.Getenv(envTelegramToken),
		"telegram_chat_id": os.Getenv(envTelegramChatID),
		// 密钥仅在生成时产生一次，之后不轮换
		"jwt_secret_key": nostd.RandomHex(32),
		"api_password":   nostd.RandomBase64(12),
	})
}
