package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/go-orz/orz"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/xd/ftops/internal/models"
	"github.com/xd/ftops/internal/repo"
)

// SignalService 信号历史查询服务，数据由外部策略进程写入，这里只读
type SignalService struct {
	logger *zap.Logger

	*orz.Service

	signalRepo *repo.SignalHistoryRepo
}

// NewSignalService 创建信号历史服务
func NewSignalService(db *gorm.DB, logger *zap.Logger) *SignalService {
	return &SignalService{
		logger:     logger,
		Service:    orz.NewService(db),
		signalRepo: repo.NewSignalHistoryRepo(db),
	}
}

// Pagination 分页信息
type Pagination struct {
	TotalCount  int64 `json:"total_count"`
	TotalPages  int   `json:"total_pages"`
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
}

// HistoryQuery 信号历史查询参数
type HistoryQuery struct {
	Pair       string
	SignalType string
	StartDate  *time.Time
	EndDate    *time.Time
	Page       int
	PerPage    int
	Limit      int // 大于0时忽略分页，直接取前N条（兼容旧接口）
}

// History 查询信号历史并返回分页信息
func (s *SignalService) History(ctx context.Context, q HistoryQuery) ([]models.SignalHistory, Pagination, error) {
	base := repo.SignalQuery{
		Pair:       q.Pair,
		SignalType: q.SignalType,
		StartDate:  q.StartDate,
		EndDate:    q.EndDate,
	}

	// limit 优先，单页返回
	if q.Limit > 0 {
		base.Limit = q.Limit
		items, err := s.signalRepo.Find(ctx, base)
		if err != nil {
			return nil, Pagination{}, err
		}
		return items, Pagination{
			TotalCount:  int64(len(items)),
			TotalPages:  1,
			CurrentPage: 1,
			PerPage:     q.Limit,
		}, nil
	}

	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = 20
	}

	total, err := s.signalRepo.Count(ctx, base)
	if err != nil {
		return nil, Pagination{}, err
	}

	totalPages := int((total + int64(q.PerPage) - 1) / int64(q.PerPage))
	if totalPages > 0 && q.Page > totalPages {
		q.Page = totalPages
	}

	base.Limit = q.PerPage
	base.Offset = (q.Page - 1) * q.PerPage

	items, err := s.signalRepo.Find(ctx, base)
	if err != nil {
		return nil, Pagination{}, err
	}

	return items, Pagination{
		TotalCount:  total,
		TotalPages:  totalPages,
		CurrentPage: q.Page,
		PerPage:     q.PerPage,
	}, nil
}

// ExportXLSX 导出信号历史为Excel
func (s *SignalService) ExportXLSX(ctx context.Context, q HistoryQuery) (*bytes.Buffer, error) {
	q.Limit = 0
	q.Page = 1
	q.PerPage = 10000

	items, _, err := s.History(ctx, q)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Signal History"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"ID", "Pair", "Signal Type", "Level ID", "Level Price", "Prev Price", "Current Price", "ATR Value", "Created At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for row, sig := range items {
		values := []any{
			sig.ID, sig.Pair, sig.SignalType,
			derefOrNil(sig.LevelID), derefOrNil(sig.LevelPrice),
			sig.PrevPrice, sig.CurrentPrice,
			derefOrNil(sig.ATRValue),
			sig.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write xlsx: %w", err)
	}

	s.logger.Info("signal history exported", zap.Int("rows", len(items)))
	return buf, nil
}

// Prune 清理指定保留期之前的信号历史
func (s *SignalService) Prune(ctx context.Context, retention time.Duration) error {
	before := time.Now().Add(-retention)
	deleted, err := s.signalRepo.DeleteOlderThan(ctx, before)
	if err != nil {
		return err
	}
	if deleted > 0 {
		s.logger.Info("pruned signal history",
			zap.Int64("deleted", deleted),
			zap.Time("before", before))
	}
	return nil
}

func derefOrNil[T any](p *T) any {
	if p == nil {
		return ""
	}
	return *p
}
