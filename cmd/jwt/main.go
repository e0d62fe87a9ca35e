package main

import (
	"crypto/rand"
	"encoding/base64"
	"flag"
	"log/slog"
	"os"

	"rag-console-backend/config"
	"rag-console-backend/middleware"
)

func generateJWTSecret() (string, error) {
	key := make([]byte, 32)
	_, err := rand.Read(key)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(key), nil
}

// 不带参数时生成新密钥；带 -email 时基于当前配置签发一个调试用token
func main() {
	email := flag.String("email", "", "mint a token for this email using the configured secret")
	flag.Parse()

	if *email == "" {
		secret, err := generateJWTSecret()
		if err != nil {
			slog.Error("Error generating secret", "err", err)
			return
		}
		slog.Info("Generated JWT Secret:", "secret", secret)
		return
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	if err := config.Init(configPath); err != nil {
		slog.Error("failed to load config", "err", err)
		return
	}

	token, err := middleware.GenerateToken(*email)
	if err != nil {
		slog.Error("Error generating token", "err", err)
		return
	}
	slog.Info("Generated token:", "email", *email, "token", token)
}
