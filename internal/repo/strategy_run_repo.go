package repo

import (
	"context"
	"time"

	"github.com/go-orz/orz"
	"gorm.io/gorm"

	"github.com/xd/ftops/internal/models"
)

func NewStrategyRunRepo(db *gorm.DB) *StrategyRunRepo {
	return &StrategyRunRepo{
		Repository: orz.NewRepository[models.StrategyRun, string](db),
	}
}

type StrategyRunRepo struct {
	orz.Repository[models.StrategyRun, string]
}

// Create 记录一次策略进程启动
func (r StrategyRunRepo) Create(ctx context.Context, m *models.StrategyRun) error {
	return r.GetDB(ctx).Create(m).Error
}

// UpdateStatus 更新进程状态
func (r StrategyRunRepo) UpdateStatus(ctx context.Context, id string, status string) error {
	return r.GetDB(ctx).Table(r.GetTableName()).
		Where("id = ?", id).
		Update("status", status).Error
}

// MarkExited 记录进程退出
func (r StrategyRunRepo) MarkExited(ctx context.Context, id string, status string, exitCode int, at time.Time) error {
	return r.GetDB(ctx).Table(r.GetTableName()).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"exit_code":  exitCode,
			"stopped_at": at,
		}).Error
}

// FindRecent 最近的启动记录，按启动时间倒序
func (r StrategyRunRepo) FindRecent(ctx context.Context, limit int) (items []models.StrategyRun, err error) {
	err = r.GetDB(ctx).Table(r.GetTableName()).
		Order("started_at DESC").
		Limit(limit).
		Find(&items).Error
	return items, err
}
