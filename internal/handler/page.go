package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kube-rca/incident-chat/internal/web"
)

// 채팅 페이지. 새로고침해도 세션 기록을 다시 그림
func (h *ChatHandler) Page(c *gin.Context) {
	c.HTML(http.StatusOK, web.IndexTemplate, web.PageData{
		Title:       "ServiceNow Agentic POC",
		Subtitle:    "Demonstrates tool-calling using Gemini and a ServiceNow incident tool.",
		Placeholder: "Ask something like: 'Show me resolved incidents'",
		Examples:    web.ExampleQueries,
		Turns:       h.svc.History(GetSessionID(c)),
	})
}
