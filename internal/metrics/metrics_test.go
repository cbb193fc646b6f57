package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordSpin(t *testing.T) {
	winsBefore := testutil.ToFloat64(SpinsTotal.WithLabelValues("Strong", "2", ResultWin))
	wageredBefore := testutil.ToFloat64(TroniumWagered)
	moveBefore := testutil.ToFloat64(MovesDrawn.WithLabelValues("3B2T"))

	RecordSpin(SpinSample{
		Boost:   "Strong",
		Lines:   2,
		Cost:    60,
		Payout:  168,
		Damage:  16,
		MoveIDs: []string{"3B2T", "3B2T"},
		Win:     true,
	})

	assert.Equal(t, winsBefore+1, testutil.ToFloat64(SpinsTotal.WithLabelValues("Strong", "2", ResultWin)))
	assert.Equal(t, wageredBefore+60, testutil.ToFloat64(TroniumWagered))
	assert.Equal(t, moveBefore+2, testutil.ToFloat64(MovesDrawn.WithLabelValues("3B2T")))
	assert.Greater(t, testutil.ToFloat64(ObservedRTP), 0.0)
}

func TestRecordBattleFinished(t *testing.T) {
	before := testutil.ToFloat64(BattlesFinished)
	RecordBattleFinished()
	assert.Equal(t, before+1, testutil.ToFloat64(BattlesFinished))
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/ping/:id", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", Handler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping/42", nil))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/ping/:id", "200")))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), MetricNameHTTPRequestsTotal))
}
