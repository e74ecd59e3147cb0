// Package router assembles the HTTP routes served by `cryptobuddy serve`.
package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	chathandler "cryptobuddy/internal/feature/chat/transport/handler"
	"cryptobuddy/internal/platform/http/handler"
)

func NewRouter(chat *chathandler.ChatHandler, kb handler.KnowledgeBase) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), cors.Default())

	health := handler.Health(kb)
	r.GET("/healthz", health)
	r.HEAD("/healthz", health)

	r.POST("/ask", chat.Ask)
	r.GET("/status", chat.Status)

	return r
}
