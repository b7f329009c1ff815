package handler

import (
	"net/http"

	"github.com/go-orz/orz"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/xd/ftops/internal/service"
)

// LevelHandler 价格水平HTTP处理器
type LevelHandler struct {
	levelService *service.LevelService
	logger       *zap.Logger
}

// NewLevelHandler 创建价格水平处理器
func NewLevelHandler(levelService *service.LevelService, logger *zap.Logger) *LevelHandler {
	return &LevelHandler{
		levelService: levelService,
		logger:       logger,
	}
}

// GetLevels 获取价格水平列表
// GET /api/levels?pair=BTC/USDT
func (h *LevelHandler) GetLevels(c echo.Context) error {
	ctx := c.Request().Context()

	levels, err := h.levelService.List(ctx, c.QueryParam("pair"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, orz.Map{
		"success": true,
		"levels":  levels,
	})
}

// AddLevelRequest 新增价格水平请求
type AddLevelRequest struct {
	Pair         string  `json:"pair" validate:"required"`
	Level        float64 `json:"level" validate:"required,gt=0"`
	Direction    string  `json:"direction"`
	ConfirmClose bool    `json:"confirm_close"`
}

// AddLevel 新增价格水平
// POST /api/levels
func (h *LevelHandler) AddLevel(c echo.Context) error {
	ctx := c.Request().Context()

	var req AddLevelRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	m, err := h.levelService.Add(ctx, req.Pair, req.Level, req.Direction, req.ConfirmClose)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, orz.Map{
		"success": true,
		"level":   m,
	})
}

// UpdateLevelRequest 更新价格水平请求，缺省字段不修改
type UpdateLevelRequest struct {
	Level        *float64 `json:"level"`
	Direction    *string  `json:"direction"`
	ConfirmClose *bool    `json:"confirm_close"`
}

// UpdateLevel 更新价格水平
// PUT /api/levels/:id
func (h *LevelHandler) UpdateLevel(c echo.Context) error {
	ctx := c.Request().Context()
	id := cast.ToUint(c.Param("id"))

	var req UpdateLevelRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	m, err := h.levelService.Update(ctx, id, service.UpdateParams{
		Level:        req.Level,
		Direction:    req.Direction,
		ConfirmClose: req.ConfirmClose,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, orz.Map{
		"success": true,
		"level":   m,
	})
}

// DeleteLevel 删除价格水平
// DELETE /api/levels/:id
func (h *LevelHandler) DeleteLevel(c echo.Context) error {
	ctx := c.Request().Context()
	id := cast.ToUint(c.Param("id"))

	if err := h.levelService.Delete(ctx, id); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, orz.Map{
		"success": true,
	})
}

// RegisterRoutes 注册路由
func (h *LevelHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/levels", h.GetLevels)
	g.POST("/levels", h.AddLevel)
	g.PUT("/levels/:id", h.UpdateLevel)
	g.DELETE("/levels/:id", h.DeleteLevel)
}
