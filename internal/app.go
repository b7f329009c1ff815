package internal

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/xd/ftops/internal/config"
	"github.com/xd/ftops/internal/handler"
	"github.com/xd/ftops/internal/launcher"
	mw "github.com/xd/ftops/internal/middleware"
	"github.com/xd/ftops/internal/repo"
	"github.com/xd/ftops/internal/service"
	"github.com/xd/ftops/internal/telegram"
	"github.com/xd/ftops/pkg/nostd"
	"github.com/xd/ftops/web"
)

const webStaticDir = "user_data/web/static"

type AppComponents struct {
	LevelHandler  *handler.LevelHandler
	SignalHandler *handler.SignalHandler
	MarketHandler *handler.MarketHandler

	LevelService  *service.LevelService
	SignalService *service.SignalService
	MarketService *service.MarketService

	PriceLevelRepo  *repo.PriceLevelRepo
	StrategyRunRepo *repo.StrategyRunRepo

	Telegram *telegram.Telegram
}

// NewEcho 组装价格水平监控的HTTP服务
func NewEcho(logger *zap.Logger, conf *config.Config, components *AppComponents, supervisor *launcher.Supervisor) (*echo.Echo, error) {
	e := echo.New()
	e.HidePort = true
	e.HideBanner = true

	e.Use(middleware.Gzip())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		Skipper:      middleware.DefaultSkipper,
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
	}))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			sugar := logger.Sugar()
			sugar.Error(fmt.Sprintf("[PANIC RECOVER] %v %s\n", err, stack))
			return err
		},
	}))
	e.Use(WithErrorHandler(logger))
	e.Use(mw.BasicAuth(mw.BasicAuthConfig{
		Web:    conf.Web,
		Logger: logger,
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/metrics"
		},
	}))

	customValidator := nostd.CustomValidator{Validator: validator.New()}
	if err := customValidator.TransInit(); err != nil {
		return nil, fmt.Errorf("failed to init custom validator: %v", err)
	}
	e.Validator = &customValidator

	// user_data/web/static 下的文件优先于内置资源
	if _, err := os.Stat(webStaticDir); err == nil {
		e.Static("/static", webStaticDir)
	}
	e.Use(middleware.StaticWithConfig(middleware.StaticConfig{
		Skipper: func(c echo.Context) bool {
			path := c.Request().RequestURI
			if strings.HasPrefix(path, "/api") || strings.HasPrefix(path, "/metrics") {
				return true
			}
			return false
		},
		Root:       "",
		Index:      "index.html",
		HTML5:      true,
		Browse:     false,
		IgnoreBase: false,
		Filesystem: http.FS(web.Assets()),
	}))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")
	{
		components.LevelHandler.RegisterRoutes(api)
		components.SignalHandler.RegisterRoutes(api)
		components.MarketHandler.RegisterRoutes(api)

		strategyHandler := handler.NewStrategyHandler(supervisor, components.StrategyRunRepo, logger)
		strategyHandler.RegisterRoutes(api)
	}

	return e, nil
}
