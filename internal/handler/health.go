package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kube-rca/incident-chat/internal/model"
)

// 헬스체크 엔드포인트
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, model.PingResponse{Message: "pong"})
}

type configuredChecker interface {
	IsConfigured() bool
}

// Healthz godoc
// @Summary Health status
// @Description ServiceNow 설정 누락은 기동 실패가 아니라 도구 호출 시 에러로 처리되므로 여기서 표시만 함
// @Tags health
// @Produce json
// @Success 200 {object} model.HealthResponse
// @Router /healthz [get]
func Healthz(serviceNow configuredChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, model.HealthResponse{
			Status:               "ok",
			ServiceNowConfigured: serviceNow.IsConfigured(),
		})
	}
}
