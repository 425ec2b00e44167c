// 환경변수 기반 설정 로더
//
// 환경변수:
//   - GEMINI_API_KEY: Gemini API 키 (필수, 없으면 서버 기동 실패)
//   - SN_INSTANCE: ServiceNow 인스턴스 호스트 (예: dev12345.service-now.com)
//   - SN_USERNAME / SN_PASSWORD: ServiceNow Basic Auth 계정
//   - PORT (default: 8080)
//   - CORS_ALLOWED_ORIGINS: 콤마 구분 Origin 목록 (비어 있으면 CORS 헤더 미설정)
//   - SESSION_IDLE_TTL (default: 1h): 채팅 세션 유휴 만료 시간

package config

import (
	"log"
	"os"
	"strings"
	"time"
)

const defaultSessionIdleTTL = time.Hour

type Config struct {
	Server     ServerConfig
	Gemini     GeminiConfig
	ServiceNow ServiceNowConfig
	Session    SessionConfig
}

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

type GeminiConfig struct {
	APIKey string
}

type ServiceNowConfig struct {
	Instance string
	Username string
	Password string
}

type SessionConfig struct {
	CookieName string
	IdleTTL    time.Duration
}

func Load() Config {
	return Config{
		Server: ServerConfig{
			Port:           getenv("PORT", "8080"),
			AllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		},
		Gemini: GeminiConfig{
			APIKey: os.Getenv("GEMINI_API_KEY"),
		},
		ServiceNow: ServiceNowConfig{
			Instance: os.Getenv("SN_INSTANCE"),
			Username: os.Getenv("SN_USERNAME"),
			Password: os.Getenv("SN_PASSWORD"),
		},
		Session: SessionConfig{
			CookieName: "incident_chat_session",
			IdleTTL:    getduration("SESSION_IDLE_TTL", defaultSessionIdleTTL),
		},
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// 파싱 실패 시 기본값 사용 (기동은 계속)
func getduration(key string, fallback time.Duration) time.Duration {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		log.Printf("[Config] invalid %s=%q, using %s", key, val, fallback)
		return fallback
	}
	return d
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
