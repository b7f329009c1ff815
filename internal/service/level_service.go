package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-orz/orz"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/xd/ftops/internal/metrics"
	"github.com/xd/ftops/internal/models"
	"github.com/xd/ftops/internal/repo"
	"github.com/xd/ftops/internal/xe"
)

// LevelService 价格水平管理服务
type LevelService struct {
	logger *zap.Logger

	*orz.Service

	levelRepo *repo.PriceLevelRepo
}

// NewLevelService 创建价格水平服务
func NewLevelService(db *gorm.DB, logger *zap.Logger) *LevelService {
	return &LevelService{
		logger:    logger,
		Service:   orz.NewService(db),
		levelRepo: repo.NewPriceLevelRepo(db),
	}
}

// List 查询启用中的价格水平，pair 为空时返回全部
func (s *LevelService) List(ctx context.Context, pair string) ([]models.PriceLevel, error) {
	return s.levelRepo.FindActive(ctx, pair)
}

// Get 按ID查找
func (s *LevelService) Get(ctx context.Context, id uint) (models.PriceLevel, error) {
	m, err := s.levelRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return m, xe.ErrLevelNotFound
	}
	return m, err
}

// Add 新增价格水平，direction 为空时默认 both
func (s *LevelService) Add(ctx context.Context, pair string, level float64, direction string, confirmClose bool) (*models.PriceLevel, error) {
	if pair == "" {
		return nil, xe.ErrPairRequired
	}
	if level <= 0 {
		return nil, xe.ErrLevelRequired
	}
	if direction == "" {
		direction = models.DirectionBoth.String()
	}
	if !models.LevelDirection(direction).Valid() {
		return nil, xe.ErrInvalidDirection
	}

	m := models.PriceLevel{
		Pair:         pair,
		Level:        level,
		Direction:    direction,
		Active:       true,
		ConfirmClose: confirmClose,
		CreatedAt:    time.Now(),
	}
	if err := s.levelRepo.Create(ctx, &m); err != nil {
		return nil, err
	}

	metrics.LevelsCreatedTotal.Inc()
	s.logger.Info("price level added",
		zap.Uint("id", m.ID),
		zap.String("pair", m.Pair),
		zap.Float64("level", m.Level),
		zap.String("direction", m.Direction))
	return &m, nil
}

// UpdateParams 部分更新参数，nil 字段保持不变
type UpdateParams struct {
	Level        *float64
	Direction    *string
	ConfirmClose *bool
}

// Update 更新价格水平
func (s *LevelService) Update(ctx context.Context, id uint, params UpdateParams) (*models.PriceLevel, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Level != nil {
		if *params.Level <= 0 {
			return nil, xe.ErrLevelRequired
		}
		m.Level = *params.Level
	}
	if params.Direction != nil {
		if !models.LevelDirection(*params.Direction).Valid() {
			return nil, xe.ErrInvalidDirection
		}
		m.Direction = *params.Direction
	}
	if params.ConfirmClose != nil {
		m.ConfirmClose = *params.ConfirmClose
	}

	if err := s.levelRepo.Save(ctx, &m); err != nil {
		return nil, err
	}

	metrics.LevelsUpdatedTotal.Inc()
	s.logger.Info("price level updated", zap.Uint("id", m.ID))
	return &m, nil
}

// Delete 物理删除价格水平
func (s *LevelService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.levelRepo.DeleteByID(ctx, id); err != nil {
		return err
	}

	metrics.LevelsDeletedTotal.Inc()
	s.logger.Info("price level deleted", zap.Uint("id", id))
	return nil
}

// Deactivate 停用但保留记录
func (s *LevelService) Deactivate(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.levelRepo.Deactivate(ctx, id)
}

// Pairs 现有价格水平覆盖的交易对
func (s *LevelService) Pairs(ctx context.Context) ([]string, error) {
	return s.levelRepo.DistinctPairs(ctx)
}
