package repo

import (
	"context"
	"time"

	"github.com/go-orz/orz"
	"gorm.io/gorm"

	"github.com/xd/ftops/internal/models"
)

func NewSignalHistoryRepo(db *gorm.DB) *SignalHistoryRepo {
	return &SignalHistoryRepo{
		Repository: orz.NewRepository[models.SignalHistory, uint](db),
	}
}

type SignalHistoryRepo struct {
	orz.Repository[models.SignalHistory, uint]
}

// SignalQuery 信号历史过滤条件
type SignalQuery struct {
	Pair       string
	SignalType string
	StartDate  *time.Time
	EndDate    *time.Time
	Limit      int
	Offset     int
}

func (r SignalHistoryRepo) apply(db *gorm.DB, q SignalQuery) *gorm.DB {
	if q.Pair != "" {
		db = db.Where("pair = ?", q.Pair)
	}
	if q.SignalType != "" {
		db = db.Where("signal_type = ?", q.SignalType)
	}
	if q.StartDate != nil {
		db = db.Where("created_at >= ?", *q.StartDate)
	}
	if q.EndDate != nil {
		db = db.Where("created_at <= ?", *q.EndDate)
	}
	return db
}

// Find 按条件查询信号历史，按时间倒序
func (r SignalHistoryRepo) Find(ctx context.Context, q SignalQuery) (items []models.SignalHistory, err error) {
	db := r.apply(r.GetDB(ctx).Table(r.GetTableName()), q).Order("created_at DESC")
	if q.Offset > 0 {
		db = db.Offset(q.Offset)
	}
	if q.Limit > 0 {
		db = db.Limit(q.Limit)
	}
	err = db.Find(&items).Error
	return items, err
}

// Count 按条件统计总数
func (r SignalHistoryRepo) Count(ctx context.Context, q SignalQuery) (count int64, err error) {
	err = r.apply(r.GetDB(ctx).Table(r.GetTableName()), q).Count(&count).Error
	return count, err
}

// DeleteOlderThan 删除指定时间之前的记录，返回删除数量
func (r SignalHistoryRepo) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	result := r.GetDB(ctx).
		Where("created_at < ?", before).
		Delete(&models.SignalHistory{})
	return result.RowsAffected, result.Error
}
