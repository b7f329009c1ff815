package xe

import "github.com/go-orz/orz"

var (
	ErrInvalidParams      = orz.NewError(10400, "参数无效")
	ErrUnauthorized       = orz.NewError(10401, "未授权")
	ErrLevelNotFound      = orz.NewError(10404, "价格水平不存在")
	ErrPairRequired       = orz.NewError(10000, "交易对不能为空")
	ErrLevelRequired      = orz.NewError(10001, "价格不能为空")
	ErrInvalidDirection   = orz.NewError(10002, "方向无效，必须是 up/down/both/wick_up/wick_down/wick_both")
	ErrStrategyNotRunning = orz.NewError(10003, "策略进程未运行")
	ErrStrategyRunning    = orz.NewError(10004, "策略进程已在运行")
	ErrExchangeNotReady   = orz.NewError(10005, "交易所客户端未配置")
)
