package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-orz/orz"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/xd/ftops/internal/service"
)

// SignalHandler 信号历史HTTP处理器
type SignalHandler struct {
	signalService *service.SignalService
	logger        *zap.Logger
}

// NewSignalHandler 创建信号历史处理器
func NewSignalHandler(signalService *service.SignalService, logger *zap.Logger) *SignalHandler {
	return &SignalHandler{
		signalService: signalService,
		logger:        logger,
	}
}

func parseHistoryQuery(c echo.Context) service.HistoryQuery {
	q := service.HistoryQuery{
		Pair:       c.QueryParam("pair"),
		SignalType: c.QueryParam("signal_type"),
		Page:       cast.ToInt(c.QueryParam("page")),
		PerPage:    cast.ToInt(c.QueryParam("per_page")),
		Limit:      cast.ToInt(c.QueryParam("limit")),
	}
	if t, err := time.Parse("2006-01-02", c.QueryParam("start_date")); err == nil {
		q.StartDate = &t
	}
	if t, err := time.Parse("2006-01-02", c.QueryParam("end_date")); err == nil {
		// 含当天
		end := t.Add(24*time.Hour - time.Second)
		q.EndDate = &end
	}
	return q
}

// GetSignalHistory 获取信号历史
// GET /api/signal_history?pair=&signal_type=&start_date=&end_date=&page=1&per_page=20&limit=0
func (h *SignalHandler) GetSignalHistory(c echo.Context) error {
	ctx := c.Request().Context()

	signals, pagination, err := h.signalService.History(ctx, parseHistoryQuery(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, orz.Map{
		"success":    true,
		"signals":    signals,
		"pagination": pagination,
	})
}

// ExportSignalHistory 导出信号历史为Excel
// GET /api/signal_history/export
func (h *SignalHandler) ExportSignalHistory(c echo.Context) error {
	ctx := c.Request().Context()

	buf, err := h.signalService.ExportXLSX(ctx, parseHistoryQuery(c))
	if err != nil {
		return err
	}

	filename := fmt.Sprintf("signal_history_%s.xlsx", time.Now().Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}

// RegisterRoutes 注册路由
func (h *SignalHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/signal_history", h.GetSignalHistory)
	g.GET("/signal_history/export", h.ExportSignalHistory)
}
