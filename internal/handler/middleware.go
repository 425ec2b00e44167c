package handler

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionIDKey = "chat_session_id"

// 브라우저 세션 쿠키 -> 채팅 세션 ID. 없거나 UUID 형식이 아니면 새로 발급
func SessionMiddleware(cookieName string, maxAge time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(cookieName)
		if _, parseErr := uuid.Parse(sessionID); err != nil || parseErr != nil {
			sessionID = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cookieName, sessionID, int(maxAge.Seconds()), "/", "", false, true)
		}

		c.Set(sessionIDKey, sessionID)
		c.Next()
	}
}

func GetSessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}

// 허용 Origin이 없으면 CORS 미들웨어를 붙이지 않음 (same-origin 페이지만 사용)
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	if len(allowedOrigins) == 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
