package models

import (
	"time"
)

// 信号类型，由外部策略写入
const (
	SignalLevelCrossUp   = "level_cross_up"
	SignalLevelCrossDown = "level_cross_down"
	SignalLevelWickUp    = "level_wick_up"
	SignalLevelWickDown  = "level_wick_down"
	SignalATRSurge       = "atr_surge"
)

// SignalHistory 信号历史记录，本服务只读，写入方是外部策略进程
type SignalHistory struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Pair         string    `gorm:"type:varchar(25);not null;index" json:"pair"`
	SignalType   string    `gorm:"type:varchar(20);not null;index" json:"signal_type"`
	LevelID      *uint     `json:"level_id"`     // 关联的价格水平ID，ATR信号为空
	LevelPrice   *float64  `json:"level_price"`  // 触发的价格水平，ATR信号为空
	PrevPrice    float64   `gorm:"not null" json:"prev_price"`    // 前一根K线收盘价
	CurrentPrice float64   `gorm:"not null" json:"current_price"` // 当前K线收盘价
	ATRValue     *float64  `json:"atr_value"`    // ATR值，水平穿越信号为空
	CreatedAt    time.Time `gorm:"not null;index" json:"created_at"`
}

// TableName 指定表名
func (*SignalHistory) TableName() string {
	return "signal_history"
}
