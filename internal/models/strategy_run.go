package models

import (
	"time"

	"gorm.io/datatypes"
)

// 策略进程状态
const (
	RunStatusStarting = "starting"
	RunStatusRunning  = "running"
	RunStatusStopped  = "stopped"
	RunStatusError    = "error"
)

// StrategyRun 后台策略进程的一次启动记录
type StrategyRun struct {
	ID        string                      `gorm:"primaryKey;type:varchar(26)" json:"id"`
	Strategy  string                      `gorm:"type:varchar(64);not null" json:"strategy"` // 策略名
	PID       int                         `json:"pid"`                                       // 操作系统进程ID
	Args      datatypes.JSONSlice[string] `gorm:"type:json" json:"args"`                     // 完整命令行参数
	Status    string                      `gorm:"type:varchar(16);not null;index" json:"status"`
	ExitCode  *int                        `json:"exit_code"`  // 退出码，运行中为空
	StartedAt time.Time                   `gorm:"not null" json:"started_at"`
	StoppedAt *time.Time                  `json:"stopped_at"` // 退出时间，运行中为空
}

// TableName 指定表名
func (*StrategyRun) TableName() string {
	return "strategy_runs"
}
