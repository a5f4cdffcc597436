package handlers

import (
	"net/http"

	"roomdesk/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports the last background dependency check.
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "dependencies": utils.GetHealthStatus()})
}
