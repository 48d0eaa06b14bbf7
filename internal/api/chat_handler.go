package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio/internal/ai"
	"portfolio/internal/api/middleware"
	"portfolio/internal/metrics"
)

// Chatter is satisfied by *ai.ChatService.
type Chatter interface {
	Chat(ctx context.Context, message, portfolioContext string) (string, error)
}

type ChatHandler struct {
	chat Chatter
}

func NewChatHandler(chat Chatter) *ChatHandler {
	return &ChatHandler{chat: chat}
}

type chatRequest struct {
	Message string `json:"message" binding:"required"`
	Context string `json:"context"`
}

func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "message is required")
		return
	}

	reply, err := h.chat.Chat(c.Request.Context(), req.Message, req.Context)
	if err != nil {
		if errors.Is(err, ai.ErrDisabled) {
			metrics.AIChat("disabled")
			Error(c, http.StatusServiceUnavailable, "AI assistant is currently disabled")
			return
		}
		metrics.AIChat("error")
		middleware.LoggerFromContext(c).Error("ai chat failed", slog.Any("error", err))
		Internal(c, "failed to generate AI response")
		return
	}

	metrics.AIChat("ok")
	c.JSON(http.StatusOK, gin.H{"response": reply})
}
