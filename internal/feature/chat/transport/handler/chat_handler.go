package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cryptobuddy/internal/feature/chat/domain/entity"
	"cryptobuddy/internal/feature/chat/transport/http/dto"
)

// ChatUsecase answers questions and reports runtime state.
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type ChatUsecase interface {
	Process(ctx context.Context, text string) string
	Status(ctx context.Context) entity.Status
}

// ChatHandler serves the chat endpoints.
type ChatHandler struct {
	uc ChatUsecase
}

// NewChatHandler creates a ChatHandler.
func NewChatHandler(uc ChatUsecase) *ChatHandler {
	return &ChatHandler{uc: uc}
}

// Ask answers one question. A missing or blank question is rejected with 400;
// every other request gets 200 because the dispatcher renders its own failures.
func (h *ChatHandler) Ask(c *gin.Context) {
	var req dto.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question is required"})
		return
	}

	answer := h.uc.Process(c.Request.Context(), req.Question)
	c.JSON(http.StatusOK, dto.AskResponse{Answer: answer})
}

// Status reports cache and provider state.
func (h *ChatHandler) Status(c *gin.Context) {
	s := h.uc.Status(c.Request.Context())
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, dto.StatusResponse{
		LastRefresh:       s.LastRefreshText(),
		ProviderReachable: s.ProviderReachable,
		CacheEntries:      s.CacheEntries,
		KnowledgeBaseSize: s.KnowledgeBaseSize,
	})
}
