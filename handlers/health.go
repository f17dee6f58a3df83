package handlers

import (
	"net/http"

	"appointly/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports the last dependency check. With Mongo disabled
// (in-memory store) only the process itself is reported.
type HealthHandler struct {
	MongoEnabled bool
}

func (h *HealthHandler) Check(c *gin.Context) {
	if !h.MongoEnabled {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "store": "memory"})
		return
	}
	status := utils.GetHealthStatus()
	if !status.Healthy() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "checks": status})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "checks": status})
}
