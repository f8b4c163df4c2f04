package logging

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	logger, err := New("debug")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	_, err = New("loud")
	assert.Error(t, err)
}

// newObservedRouter returns a router using both middlewares with a logger that records its
// entries.
func newObservedRouter() (*gin.Engine, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(RequestLogger(logger), Recovery(logger))
	router.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	router.GET("/panic", func(c *gin.Context) { panic("boom") })
	return router, logs
}

func TestRequestLogger(t *testing.T) {
	router, logs := newObservedRouter()
	recorder := httptest.NewRecorder()
	request, _ := http.NewRequest("GET", "/ok?q=ada", nil)
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	entries := logs.FilterMessage("Request handled").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/ok", fields["path"])
	assert.Equal(t, "q=ada", fields["query"])
	assert.Equal(t, int64(http.StatusOK), fields["status"])
}

// TestRecovery expects a panicking handler to be answered with 500 and to be logged twice: once
// by the recovery and once as a failed request.
func TestRecovery(t *testing.T) {
	router, logs := newObservedRouter()
	recorder := httptest.NewRecorder()
	request, _ := http.NewRequest("GET", "/panic", nil)
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Equal(t, 1, logs.FilterMessage("Recovered from panic").Len())
	assert.Equal(t, 1, logs.FilterMessage("Request failed").Len())
}
