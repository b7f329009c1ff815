package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/xd/ftops/internal/models"
	"github.com/xd/ftops/internal/service"
)

func seedSignals(t *testing.T, db *gorm.DB, n int, pair string) {
	t.Helper()
	for i := 0; i < n; i++ {
		sig := models.SignalHistory{
			Pair:         pair,
			SignalType:   models.SignalLevelCrossUp,
			PrevPrice:    100,
			CurrentPrice: 101,
			CreatedAt:    time.Now().Add(-time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(&sig).Error)
	}
}

func TestGetSignalHistory(t *testing.T) {
	e, db := newTestServer(t)
	seedSignals(t, db, 5, "BTC/USDT")

	rec := doJSON(e, http.MethodGet, "/api/signal_history?per_page=2", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Success    bool                   `json:"success"`
		Signals    []models.SignalHistory `json:"signals"`
		Pagination service.Pagination     `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.True(t, resp.Success)
	assert.Len(t, resp.Signals, 2)
	assert.Equal(t, int64(5), resp.Pagination.TotalCount)
	assert.Equal(t, 3, resp.Pagination.TotalPages)
}

func TestGetSignalHistoryFilterByPair(t *testing.T) {
	e, db := newTestServer(t)
	seedSignals(t, db, 3, "BTC/USDT")
	seedSignals(t, db, 2, "ETH/USDT")

	rec := doJSON(e, http.MethodGet, "/api/signal_history?pair=ETH/USDT", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Signals []models.SignalHistory `json:"signals"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Signals, 2)
}

func TestExportSignalHistory(t *testing.T) {
	e, db := newTestServer(t)
	seedSignals(t, db, 3, "BTC/USDT")

	rec := doJSON(e, http.MethodGet, "/api/signal_history/export", "")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "signal_history_")
	assert.NotZero(t, rec.Body.Len())
}
