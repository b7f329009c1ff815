package handler

import (
	"net/http"

	"github.com/go-orz/orz"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/xd/ftops/internal/service"
	"github.com/xd/ftops/internal/xe"
)

// MarketHandler 行情HTTP处理器
type MarketHandler struct {
	marketService *service.MarketService
	logger        *zap.Logger
}

// NewMarketHandler 创建行情处理器
func NewMarketHandler(marketService *service.MarketService, logger *zap.Logger) *MarketHandler {
	return &MarketHandler{
		marketService: marketService,
		logger:        logger,
	}
}

// GetAllPairs 获取可选交易对列表
// GET /api/all_pairs?usdt_only=true&spot_only=true
func (h *MarketHandler) GetAllPairs(c echo.Context) error {
	ctx := c.Request().Context()

	usdtOnly := cast.ToBool(c.QueryParam("usdt_only"))
	spotOnly := cast.ToBool(c.QueryParam("spot_only"))

	pairs, err := h.marketService.AllPairs(ctx, usdtOnly, spotOnly)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, orz.Map{
		"success": true,
		"pairs":   pairs,
	})
}

// GetCurrentPrice 获取交易对最新价格
// GET /api/current_price/BTC/USDT （交易对内含斜杠，使用通配参数）
func (h *MarketHandler) GetCurrentPrice(c echo.Context) error {
	ctx := c.Request().Context()

	pair := c.Param("*")
	if pair == "" {
		return xe.ErrPairRequired
	}

	price, err := h.marketService.CurrentPrice(ctx, pair)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, orz.Map{
		"success": true,
		"price":   price,
	})
}

// CheckInactivePairs 检查价格水平中已失效的交易对
// GET /api/check_inactive_pairs
func (h *MarketHandler) CheckInactivePairs(c echo.Context) error {
	ctx := c.Request().Context()

	result, err := h.marketService.CheckInactivePairs(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, orz.Map{
		"success": true,
		"pairs":   result,
	})
}

// RegisterRoutes 注册路由
func (h *MarketHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/all_pairs", h.GetAllPairs)
	g.GET("/current_price/*", h.GetCurrentPrice)
	g.GET("/check_inactive_pairs", h.CheckInactivePairs)
}
