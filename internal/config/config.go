package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// DefaultPath 默认配置文件路径，与 freqtrade 的 user_data 目录布局保持一致
const DefaultPath = "user_data/config/config.json"

// Config freqtrade 兼容的交易配置文档
// 该文件由 LoadOrCreate 一次性生成，之后只读，schema 由外部交易程序决定
type Config struct {
	MaxOpenTrades int         `json:"max_open_trades"`
	StakeCurrency string      `json:"stake_currency"`
	StakeAmount   StakeAmount `json:"stake_amount"`
	DryRun        bool        `json:"dry_run"`
	Timeframe     string      `json:"timeframe"`
	Strategy      string      `json:"strategy"`
	BotName       string      `json:"bot_name"`
	InitialState  string      `json:"initial_state"`
	DBURL         string      `json:"db_url"`

	Exchange  ExchangeConf  `json:"exchange"`
	Telegram  TelegramConf  `json:"telegram"`
	APIServer APIServerConf `json:"api_server"`
	Web       WebConf       `json:"web_config"`
	Internals InternalsConf `json:"internals"`
}

// ExchangeConf 交易所配置
type ExchangeConf struct {
	Name          string   `json:"name"`
	Key           string   `json:"key"`
	Secret        string   `json:"secret"`
	ProxyURL      string   `json:"proxy_url,omitempty"` // 代理地址，例如: http://127.0.0.1:7890
	PairWhitelist []string `json:"pair_whitelist"`
	PairBlacklist []string `json:"pair_blacklist"`
}

// TelegramConf Telegram 通知配置
type TelegramConf struct {
	Enabled bool   `json:"enabled"`
	Token   string `json:"token"`
	ChatID  string `json:"chat_id"`
}

// APIServerConf freqtrade 自带 API 服务配置，密钥在生成配置时一次性写入
type APIServerConf struct {
	Enabled         bool   `json:"enabled"`
	ListenIPAddress string `json:"listen_ip_address"`
	ListenPort      int    `json:"listen_port"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	JWTSecretKey    string `json:"jwt_secret_key"`
}

// WebConf 价格水平管理页面的监听与认证配置，username 为空时关闭认证
type WebConf struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Addr 返回 host:port 监听地址
func (w WebConf) Addr() string {
	return fmt.Sprintf("%s:%d", w.Host, w.Port)
}

// InternalsConf 外部交易程序的内部参数
type InternalsConf struct {
	ProcessThrottleSecs int `json:"process_throttle_secs"`
}

// StakeAmount 支持数字或 "unlimited" 哨兵值
type StakeAmount struct {
	Unlimited bool
	Amount    float64
}

func (s *StakeAmount) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case string:
		if v != "unlimited" {
			return fmt.Errorf("invalid stake_amount: %q", v)
		}
		s.Unlimited = true
		return nil
	case float64:
		s.Amount = v
		return nil
	default:
		return fmt.Errorf("invalid stake_amount type: %T", raw)
	}
}

func (s StakeAmount) MarshalJSON() ([]byte, error) {
	if s.Unlimited {
		return json.Marshal("unlimited")
	}
	return json.Marshal(s.Amount)
}

// Load 读取并解析配置文件
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var conf Config
	if err := json.Unmarshal(data, &conf); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	conf.applyDefaults()
	return &conf, nil
}

func (c *Config) applyDefaults() {
	if c.Web.Host == "" {
		c.Web.Host = "127.0.0.1"
	}
	if c.Web.Port == 0 {
		c.Web.Port = 8501
	}
	if c.Internals.ProcessThrottleSecs == 0 {
		c.Internals.ProcessThrottleSecs = 5
	}
}

// SQLitePath 从 db_url 解析 sqlite 文件路径，如 sqlite:///user_data/tradesv3.sqlite
func (c *Config) SQLitePath() (string, error) {
	if c.DBURL == "" {
		return "", fmt.Errorf("db_url not set in config")
	}
	path, ok := strings.CutPrefix(c.DBURL, "sqlite:///")
	if !ok || path == "" {
		return "", fmt.Errorf("unsupported db_url %q, only sqlite:///<path> is supported", c.DBURL)
	}
	return path, nil
}
