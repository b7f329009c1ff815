package models

import (
	"time"
)

// LevelDirection 价格水平监控方向
type LevelDirection string

const (
	DirectionUp       LevelDirection = "up"
	DirectionDown     LevelDirection = "down"
	DirectionBoth     LevelDirection = "both"
	DirectionWickUp   LevelDirection = "wick_up"
	DirectionWickDown LevelDirection = "wick_down"
	DirectionWickBoth LevelDirection = "wick_both"
)

// Valid 是否为合法方向
func (d LevelDirection) Valid() bool {
	switch d {
	case DirectionUp, DirectionDown, DirectionBoth,
		DirectionWickUp, DirectionWickDown, DirectionWickBoth:
		return true
	}
	return false
}

func (d LevelDirection) String() string {
	return string(d)
}

// PriceLevel 价格水平，表结构与外部策略共享，不能随意改动
type PriceLevel struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Pair         string    `gorm:"type:varchar(25);not null;index" json:"pair"` // 交易对，如 BTC/USDT
	Level        float64   `gorm:"not null" json:"level"`                       // 价格水平
	Direction    string    `gorm:"type:varchar(10);not null" json:"direction"`  // up/down/both/wick_up/wick_down/wick_both
	Active       bool      `gorm:"not null;default:true" json:"active"`         // 是否启用
	ConfirmClose bool      `gorm:"not null;default:false" json:"confirm_close"` // 是否要求收盘确认
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
}

// TableName 指定表名
func (*PriceLevel) TableName() string {
	return "price_levels"
}
