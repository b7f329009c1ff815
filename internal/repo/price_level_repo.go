package repo

import (
	"context"

	"github.com/go-orz/orz"
	"gorm.io/gorm"

	"github.com/xd/ftops/internal/models"
)

func NewPriceLevelRepo(db *gorm.DB) *PriceLevelRepo {
	return &PriceLevelRepo{
		Repository: orz.NewRepository[models.PriceLevel, uint](db),
	}
}

type PriceLevelRepo struct {
	orz.Repository[models.PriceLevel, uint]
}

// FindActive 查询启用中的价格水平，pair 为空时返回全部
func (r PriceLevelRepo) FindActive(ctx context.Context, pair string) (items []models.PriceLevel, err error) {
	db := r.GetDB(ctx).Table(r.GetTableName()).Where("active = ?", true)
	if pair != "" {
		db = db.Where("pair = ?", pair)
	}
	err = db.Order("id ASC").Find(&items).Error
	return items, err
}

// FindByID 按ID查找
func (r PriceLevelRepo) FindByID(ctx context.Context, id uint) (m models.PriceLevel, err error) {
	err = r.GetDB(ctx).Table(r.GetTableName()).Where("id = ?", id).First(&m).Error
	return m, err
}

// Create 新增价格水平
func (r PriceLevelRepo) Create(ctx context.Context, m *models.PriceLevel) error {
	return r.GetDB(ctx).Create(m).Error
}

// Save 保存整条记录
func (r PriceLevelRepo) Save(ctx context.Context, m *models.PriceLevel) error {
	return r.GetDB(ctx).Save(m).Error
}

// DeleteByID 物理删除
func (r PriceLevelRepo) DeleteByID(ctx context.Context, id uint) error {
	return r.GetDB(ctx).Where("id = ?", id).Delete(&models.PriceLevel{}).Error
}

// Deactivate 停用但保留记录
func (r PriceLevelRepo) Deactivate(ctx context.Context, id uint) error {
	return r.GetDB(ctx).Table(r.GetTableName()).
		Where("id = ?", id).
		Update("active", false).Error
}

// DistinctPairs 现有价格水平覆盖的交易对
func (r PriceLevelRepo) DistinctPairs(ctx context.Context) (pairs []string, err error) {
	err = r.GetDB(ctx).Table(r.GetTableName()).
		Where("active = ?", true).
		Distinct("pair").
		Pluck("pair", &pairs).Error
	return pairs, err
}
