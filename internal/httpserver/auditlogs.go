package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func auditLogsHandler(logs AuditLogReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		entries, err := logs.List(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, entries)
	}
}
