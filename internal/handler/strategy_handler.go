package handler

import (
	"net/http"

	"github.com/go-orz/orz"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/xd/ftops/internal/launcher"
	"github.com/xd/ftops/internal/repo"
	"github.com/xd/ftops/internal/xe"
)

// StrategyHandler 后台策略进程状态接口
type StrategyHandler struct {
	supervisor *launcher.Supervisor // 未启用策略托管时为 nil
	runRepo    *repo.StrategyRunRepo
	logger     *zap.Logger
}

// NewStrategyHandler 创建策略进程处理器
func NewStrategyHandler(supervisor *launcher.Supervisor, runRepo *repo.StrategyRunRepo, logger *zap.Logger) *StrategyHandler {
	return &StrategyHandler{
		supervisor: supervisor,
		runRepo:    runRepo,
		logger:     logger,
	}
}

// GetStatus 当前托管进程状态
// GET /api/strategy/status
func (h *StrategyHandler) GetStatus(c echo.Context) error {
	if h.supervisor == nil {
		return c.JSON(http.StatusOK, orz.Map{
			"success": true,
			"enabled": false,
		})
	}

	return c.JSON(http.StatusOK, orz.Map{
		"success": true,
		"enabled": true,
		"process": h.supervisor.Status(),
	})
}

// GetRuns 历史启动记录
// GET /api/strategy/runs?limit=20
func (h *StrategyHandler) GetRuns(c echo.Context) error {
	ctx := c.Request().Context()

	limit := cast.ToInt(c.QueryParam("limit"))
	if limit <= 0 {
		limit = 20
	}

	runs, err := h.runRepo.FindRecent(ctx, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, orz.Map{
		"success": true,
		"runs":    runs,
	})
}

// Stop 停止托管的策略进程
// POST /api/strategy/stop
func (h *StrategyHandler) Stop(c echo.Context) error {
	if h.supervisor == nil || h.supervisor.Status().Status != launcher.StatusRunning {
		return xe.ErrStrategyNotRunning
	}

	if err := h.supervisor.Stop(c.Request().Context()); err != nil {
		return err
	}

	h.logger.Info("strategy process stopped via API")
	return c.JSON(http.StatusOK, orz.Map{
		"success": true,
	})
}

// RegisterRoutes 注册路由
func (h *StrategyHandler) RegisterRoutes(g *echo.Group) {
	strategy := g.Group("/strategy")
	strategy.GET("/status", h.GetStatus)
	strategy.GET("/runs", h.GetRuns)
	strategy.POST("/stop", h.Stop)
}
