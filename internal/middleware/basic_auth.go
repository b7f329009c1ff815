package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/xd/ftops/internal/config"
	"github.com/xd/ftops/pkg/nostd"
)

// BasicAuthConfig 页面与API的HTTP Basic认证配置
type BasicAuthConfig struct {
	Web     config.WebConf
	Logger  *zap.Logger
	Skipper func(c echo.Context) bool
}

// BasicAuth HTTP Basic认证中间件，未配置用户名时直接放行
func BasicAuth(conf BasicAuthConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if conf.Skipper != nil && conf.Skipper(c) {
				return next(c)
			}
			if conf.Web.Username == "" {
				return next(c)
			}

			username, password, ok := c.Request().BasicAuth()
			if !ok || username != conf.Web.Username || !nostd.PasswordMatch(conf.Web.Password, password) {
				conf.Logger.Warn("basic auth failed",
					zap.String("path", c.Request().URL.Path),
					zap.String("remote_ip", c.RealIP()))

				c.Response().Header().Set("WWW-Authenticate", `Basic realm="Login Required"`)
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"error": "未授权：用户名或密码错误",
				})
			}

			return next(c)
		}
	}
}
