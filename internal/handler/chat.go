package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kube-rca/incident-chat/internal/model"
	"github.com/kube-rca/incident-chat/internal/service"
)

// chatService - 서비스 인터페이스
type chatService interface {
	HandleTurn(ctx context.Context, sessionID, text string) (string, error)
	History(sessionID string) []model.ChatTurn
}

type ChatHandler struct {
	svc chatService
}

func NewChatHandler(svc chatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

// Chat godoc
// @Summary Ask a question about ServiceNow incidents
// @Tags chat
// @Accept json
// @Produce json
// @Param request body model.ChatRequest true "User message"
// @Success 200 {object} model.ChatResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/chat [post]
func (h *ChatHandler) Chat(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	answer, err := h.svc.HandleTurn(c.Request.Context(), GetSessionID(c), req.Message)
	if err != nil {
		if errors.Is(err, service.ErrInvalidChatRequest) {
			c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.ChatResponse{Status: "success", Answer: answer})
}

// History godoc
// @Summary Get the chat transcript of the current browser session
// @Tags chat
// @Produce json
// @Success 200 {object} model.ChatHistoryResponse
// @Router /api/v1/chat/history [get]
func (h *ChatHandler) History(c *gin.Context) {
	c.JSON(http.StatusOK, model.ChatHistoryResponse{
		Status: "success",
		Data:   h.svc.History(GetSessionID(c)),
	})
}
