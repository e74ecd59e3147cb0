// Package handler provides HTTP handlers for platform-level endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// KnowledgeBase reports how many coins are loaded.
type KnowledgeBase interface {
	Len() int
}

// Health handles /healthz. The service is ready once the knowledge base holds at least one coin.
func Health(kb KnowledgeBase) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")

		size := 0
		if kb != nil {
			size = kb.Len()
		}
		code, status := http.StatusOK, "ok"
		if size == 0 {
			code, status = http.StatusServiceUnavailable, "unavailable"
		}

		switch c.Request.Method {
		case http.MethodHead:
			c.Status(code)
		case http.MethodOptions:
			c.Status(http.StatusNoContent)
		default:
			c.JSON(code, gin.H{"status": status, "knowledge_base_size": size})
		}
	}
}
