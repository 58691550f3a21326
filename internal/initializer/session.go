package initializer

import (
	"fmt"
	"log"

	"drawsong-service/config"
	"drawsong-service/infra/session"
)

func InitSessionRedis(appConfig config.Config) *session.SessionManager {
	addr := fmt.Sprintf("%s:%s", appConfig.SessionRedis.Host, appConfig.SessionRedis.Port)

	sessionManager, err := session.NewSessionManager(addr, appConfig.SessionRedis.Password, appConfig.SessionRedis.DB)
	if err != nil {
		log.Fatalf("failed to initialize session redis: %v", err)
	}
	return sessionManager
}
