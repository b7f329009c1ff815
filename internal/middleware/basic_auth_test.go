package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xd/ftops/internal/config"
	"github.com/xd/ftops/pkg/nostd"
)

func newAuthServer(t *testing.T, web config.WebConf) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.Use(BasicAuth(BasicAuthConfig{
		Web:    web,
		Logger: zap.NewNop(),
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/metrics"
		},
	}))
	e.GET("/", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/metrics", func(c echo.Context) error { return c.String(http.StatusOK, "metrics") })
	return e
}

func get(e *echo.Echo, target, username, password string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if username != "" || password != "" {
		req.SetBasicAuth(username, password)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// 未配置用户名时认证关闭
func TestBasicAuthDisabled(t *testing.T) {
	e := newAuthServer(t, config.WebConf{})
	assert.Equal(t, http.StatusOK, get(e, "/", "", "").Code)
}

func TestBasicAuthRequired(t *testing.T) {
	e := newAuthServer(t, config.WebConf{Username: "admin", Password: "secret"})

	rec := get(e, "/", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "Basic")

	assert.Equal(t, http.StatusUnauthorized, get(e, "/", "admin", "wrong").Code)
	assert.Equal(t, http.StatusUnauthorized, get(e, "/", "other", "secret").Code)
	assert.Equal(t, http.StatusOK, get(e, "/", "admin", "secret").Code)
}

func TestBasicAuthBcryptPassword(t *testing.T) {
	hashed, err := nostd.BcryptEncode([]byte("secret"))
	require.NoError(t, err)

	e := newAuthServer(t, config.WebConf{Username: "admin", Password: string(hashed)})

	assert.Equal(t, http.StatusOK, get(e, "/", "admin", "secret").Code)
	assert.Equal(t, http.StatusUnauthorized, get(e, "/", "admin", "wrong").Code)
}

func TestBasicAuthSkipper(t *testing.T) {
	e := newAuthServer(t, config.WebConf{Username: "admin", Password: "secret"})
	assert.Equal(t, http.StatusOK, get(e, "/metrics", "", "").Code)
}
