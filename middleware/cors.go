package middleware

import (
	"time"

	"rag-console-backend/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func CORSMiddleware() gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(config.Cfg.CORS.AllowOrigins) > 0 {
		corsConfig.AllowOrigins = config.Cfg.CORS.AllowOrigins
	} else {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}

	return cors.New(corsConfig)
}
