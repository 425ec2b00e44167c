// @title ServiceNow Incident Chat API
// @version 1.0
// @description Gemini tool-calling chat over ServiceNow incidents.
// @BasePath /
package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/kube-rca/incident-chat/internal/agent"
	"github.com/kube-rca/incident-chat/internal/client"
	"github.com/kube-rca/incident-chat/internal/config"
	"github.com/kube-rca/incident-chat/internal/handler"
	"github.com/kube-rca/incident-chat/internal/service"
)

func main() {
	// .env 없으면 기존 환경변수 그대로 사용
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded, continuing with existing environment: %v", err)
	}

	cfg := config.Load()

	// Gemini 키 누락은 기동 실패 (요청 받기 전에 중단)
	gemini, err := client.NewGeminiClient(context.Background(), cfg.Gemini)
	if err != nil {
		log.Fatalf("Failed to initialize Gemini client: %v", err)
	}
	log.Printf("Gemini client initialized (model=%s)", client.GeminiModel)

	// ServiceNow 설정 누락은 첫 도구 호출 시 에러 문자열로 처리
	serviceNow := client.NewServiceNowClient(cfg.ServiceNow)
	if !serviceNow.IsConfigured() {
		log.Printf("ServiceNow is not configured (SN_INSTANCE/SN_USERNAME/SN_PASSWORD); incident tool will return errors")
	}

	incidentAgent, err := agent.New(gemini, []agent.Tool{service.NewIncidentTool(serviceNow)})
	if err != nil {
		log.Fatalf("Failed to initialize agent: %v", err)
	}

	chatService := service.NewChatService(incidentAgent, service.NewTranscriptStore(cfg.Session.IdleTTL))

	router := handler.NewRouter(handler.RouterDeps{
		Chat:       handler.NewChatHandler(chatService),
		ServiceNow: serviceNow,
		Server:     cfg.Server,
		Session:    cfg.Session,
	})

	log.Printf("Starting server on :%s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
