package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kube-rca/incident-chat/internal/config"
	"github.com/kube-rca/incident-chat/internal/web"
)

type RouterDeps struct {
	Chat       *ChatHandler
	ServiceNow configuredChecker
	Server     config.ServerConfig
	Session    config.SessionConfig
}

func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.Default()
	router.SetHTMLTemplate(web.Templates())
	router.Use(CORSMiddleware(deps.Server.AllowedOrigins))

	router.GET("/ping", Ping)
	router.GET("/healthz", Healthz(deps.ServiceNow))
	router.GET("/openapi.json", OpenAPIDoc)

	session := SessionMiddleware(deps.Session.CookieName, sessionCookieMaxAge(deps.Session.IdleTTL))
	router.GET("/", session, deps.Chat.Page)

	api := router.Group("/api/v1", session)
	{
		api.POST("/chat", deps.Chat.Chat)
		api.GET("/chat/history", deps.Chat.History)
	}

	return router
}

// 브라우저 세션 쿠키 (0: 브라우저 종료 시 만료)
func sessionCookieMaxAge(idleTTL time.Duration) time.Duration {
	if idleTTL <= 0 {
		return 0
	}
	return idleTTL
}
