package logger_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/buildledger/construct-api/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithContextRoundTrip(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	stored := zap.New(core)

	ctx := logger.WithContext(context.Background(), stored)
	got := logger.FromContext(ctx)

	got.Info("tagged entry")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "tagged entry", logs.All()[0].Message)
}

func TestFromContextFallsBackWhenUnset(t *testing.T) {
	got := logger.FromContext(context.Background())
	assert.NotNil(t, got)
	// Nop logger; logging must not panic
	got.Info("ignored")
}

// The request middleware must expose the request-scoped logger through
// the plain request context, not just the Echo context.
func TestMiddlewarePropagatesLoggerIntoRequestContext(t *testing.T) {
	e := echo.New()
	e.Use(logger.Middleware())

	var fromEcho, fromCtx *zap.Logger
	e.GET("/", func(c echo.Context) error {
		fromEcho = logger.FromEcho(c)
		fromCtx = logger.FromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, fromCtx)
	assert.Same(t, fromEcho, fromCtx)
}
