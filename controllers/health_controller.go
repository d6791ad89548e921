package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/quill/utils"
)

const healthTimeout = 2 * time.Second

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController answers liveness probes.
type HealthController struct {
	store Pinger
}

// NewHealthController creates a new HealthController instance.
func NewHealthController(store Pinger) *HealthController {
	return &HealthController{store: store}
}

// Health pings the store with a short timeout.
func (h *HealthController) Health(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), healthTimeout)
	defer cancel()
	if err := h.store.Ping(pingCtx); err != nil {
		utils.Logger.Warn("health check failed", zap.Error(err))
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	utils.Success(ctx, gin.H{"status": "ok"})
}
