package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubPinger struct {
	err error
}

func (p *stubPinger) Ping() error {
	return p.err
}

func newSystemRouter(db Pinger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	api := engine.Group("/api/v1")
	NewSystemHandler(db).RegisterRoutes(api)
	return engine
}

func TestSystemHandler_Health(t *testing.T) {
	engine := newSystemRouter(&stubPinger{})

	w := doJSON(engine, http.MethodGet, "/api/v1/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestSystemHandler_Ready(t *testing.T) {
	t.Run("database reachable", func(t *testing.T) {
		engine := newSystemRouter(&stubPinger{})
		w := doJSON(engine, http.MethodGet, "/api/v1/ready", nil, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("database unreachable", func(t *testing.T) {
		engine := newSystemRouter(&stubPinger{err: errors.New("connection refused")})
		w := doJSON(engine, http.MethodGet, "/api/v1/ready", nil, nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
