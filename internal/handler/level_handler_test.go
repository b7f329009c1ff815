package handler_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/xd/ftops/internal"
	"github.com/xd/ftops/internal/handler"
	"github.com/xd/ftops/internal/models"
	"github.com/xd/ftops/internal/service"
	"github.com/xd/ftops/pkg/nostd"
)

func newTestServer(t *testing.T) (*echo.Echo, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.sqlite")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.PriceLevel{}, models.SignalHistory{}))

	logger := zap.NewNop()

	e := echo.New()
	e.Use(internal.WithErrorHandler(logger))
	cv := nostd.CustomValidator{Validator: validator.New()}
	require.NoError(t, cv.TransInit())
	e.Validator = &cv

	api := e.Group("/api")
	handler.NewLevelHandler(service.NewLevelService(db, logger), logger).RegisterRoutes(api)
	handler.NewSignalHandler(service.NewSignalService(db, logger), logger).RegisterRoutes(api)

	return e, db
}

func doJSON(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAddAndListLevels(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/levels",
		`{"pair": "BTC/USDT", "level": 42000, "direction": "up"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var created struct {
		Success bool              `json:"success"`
		Level   models.PriceLevel `json:"level"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.True(t, created.Success)
	assert.NotZero(t, created.Level.ID)

	rec = doJSON(e, http.MethodGet, "/api/levels?pair=BTC/USDT", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var listed struct {
		Success bool                `json:"success"`
		Levels  []models.PriceLevel `json:"levels"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed.Levels, 1)
	assert.Equal(t, "up", listed.Levels[0].Direction)
}

func TestAddLevelValidation(t *testing.T) {
	e, _ := newTestServer(t)

	// 缺少必填的交易对
	rec := doJSON(e, http.MethodPost, "/api/levels", `{"level": 42000}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/levels", `{"pair": "BTC/USDT", "level": -5}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/levels",
		`{"pair": "BTC/USDT", "level": 42000, "direction": "sideways"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateLevelPartial(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/levels",
		`{"pair": "BTC/USDT", "level": 42000, "direction": "up"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var created struct {
		Level models.PriceLevel `json:"level"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doJSON(e, http.MethodPut, fmt.Sprintf("/api/levels/%d", created.Level.ID),
		`{"level": 43000}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated struct {
		Level models.PriceLevel `json:"level"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, 43000.0, updated.Level.Level)
	assert.Equal(t, "up", updated.Level.Direction)
}

func TestDeleteLevel(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/levels",
		`{"pair": "BTC/USDT", "level": 42000}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var created struct {
		Level models.PriceLevel `json:"level"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doJSON(e, http.MethodDelete, fmt.Sprintf("/api/levels/%d", created.Level.ID), "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodDelete, fmt.Sprintf("/api/levels/%d", created.Level.ID), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
