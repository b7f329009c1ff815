package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/xd/ftops/internal/models"
	"github.com/xd/ftops/internal/xe"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.sqlite")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.PriceLevel{}, models.SignalHistory{}))
	return db
}

func TestLevelServiceAdd(t *testing.T) {
	svc := NewLevelService(testDB(t), zap.NewNop())
	ctx := context.Background()

	m, err := svc.Add(ctx, "BTC/USDT", 42000, "", false)
	require.NoError(t, err)

	assert.NotZero(t, m.ID)
	assert.Equal(t, "BTC/USDT", m.Pair)
	// 未指定方向时默认双向
	assert.Equal(t, "both", m.Direction)
	assert.True(t, m.Active)
}

func TestLevelServiceAddValidation(t *testing.T) {
	svc := NewLevelService(testDB(t), zap.NewNop())
	ctx := context.Background()

	_, err := svc.Add(ctx, "", 42000, "both", false)
	assert.ErrorIs(t, err, xe.ErrPairRequired)

	_, err = svc.Add(ctx, "BTC/USDT", 0, "both", false)
	assert.ErrorIs(t, err, xe.ErrLevelRequired)

	_, err = svc.Add(ctx, "BTC/USDT", -1, "both", false)
	assert.ErrorIs(t, err, xe.ErrLevelRequired)

	_, err = svc.Add(ctx, "BTC/USDT", 42000, "sideways", false)
	assert.ErrorIs(t, err, xe.ErrInvalidDirection)
}

func TestLevelServiceListFiltersByPair(t *testing.T) {
	svc := NewLevelService(testDB(t), zap.NewNop())
	ctx := context.Background()

	_, err := svc.Add(ctx, "BTC/USDT", 42000, "up", false)
	require.NoError(t, err)
	_, err = svc.Add(ctx, "ETH/USDT", 2500, "down", true)
	require.NoError(t, err)

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	btc, err := svc.List(ctx, "BTC/USDT")
	require.NoError(t, err)
	require.Len(t, btc, 1)
	assert.Equal(t, "BTC/USDT", btc[0].Pair)
}

func TestLevelServiceUpdatePartial(t *testing.T) {
	svc := NewLevelService(testDB(t), zap.NewNop())
	ctx := context.Background()

	m, err := svc.Add(ctx, "BTC/USDT", 42000, "up", false)
	require.NoError(t, err)

	newLevel := 43000.0
	updated, err := svc.Update(ctx, m.ID, UpdateParams{Level: &newLevel})
	require.NoError(t, err)

	// 未给出的字段保持不变
	assert.Equal(t, 43000.0, updated.Level)
	assert.Equal(t, "up", updated.Direction)
	assert.False(t, updated.ConfirmClose)

	bad := "sideways"
	_, err = svc.Update(ctx, m.ID, UpdateParams{Direction: &bad})
	assert.ErrorIs(t, err, xe.ErrInvalidDirection)
}

func TestLevelServiceUpdateNotFound(t *testing.T) {
	svc := NewLevelService(testDB(t), zap.NewNop())

	level := 100.0
	_, err := svc.Update(context.Background(), 9999, UpdateParams{Level: &level})
	assert.ErrorIs(t, err, xe.ErrLevelNotFound)
}

func TestLevelServiceDelete(t *testing.T) {
	svc := NewLevelService(testDB(t), zap.NewNop())
	ctx := context.Background()

	m, err := svc.Add(ctx, "BTC/USDT", 42000, "both", false)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, m.ID))

	_, err = svc.Get(ctx, m.ID)
	assert.ErrorIs(t, err, xe.ErrLevelNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, m.ID), xe.ErrLevelNotFound)
}

func TestLevelServiceDeactivate(t *testing.T) {
	svc := NewLevelService(testDB(t), zap.NewNop())
	ctx := context.Background()

	m, err := svc.Add(ctx, "BTC/USDT", 42000, "both", false)
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(ctx, m.ID))

	// 停用后不在列表里，但记录仍可查到
	list, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, list)

	got, err := svc.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
}

func TestLevelServicePairs(t *testing.T) {
	svc := NewLevelService(testDB(t), zap.NewNop())
	ctx := context.Background()

	for _, pair := range []string{"BTC/USDT", "BTC/USDT", "ETH/USDT"} {
		_, err := svc.Add(ctx, pair, 100, "both", false)
		require.NoError(t, err)
	}

	pairs, err := svc.Pairs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"BTC/USDT", "ETH/USDT"}, pairs)
}
