package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *handlerImpl) HandleRoot(c *gin.Context) {
	c.String(http.StatusOK, "Server is running")
}

func (h *handlerImpl) HandleHealth(c *gin.Context) {
	err := h.tasks.Ping(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("store is unavailable")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
