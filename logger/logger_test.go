package logger

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestID(t *testing.T) {
	t.Run("plain context", func(t *testing.T) {
		ctx := WithRequestID(context.Background(), "abc")
		assert.Equal(t, "abc", RequestID(ctx))
		assert.Equal(t, "", RequestID(context.Background()))
	})

	t.Run("gin context", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/", nil)
		c.Set(RequestIDKey, "from-gin")
		assert.Equal(t, "from-gin", RequestID(c))
	})
}

func TestFor_AddsRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	base := zap.New(core)

	For(WithRequestID(context.Background(), "rid-1"), base).Info("hello")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "rid-1", entries[0].ContextMap()["request_id"])
	}
}
