package initializer

import (
	"fmt"
	"log"

	"drawsong-service/config"
	"drawsong-service/infra/postgres"
)

func InitDatabase(appConfig config.Config) *postgres.Repository {
	connString := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		appConfig.Postgres.User,
		appConfig.Postgres.Password,
		appConfig.Postgres.Host,
		appConfig.Postgres.Port,
		appConfig.Postgres.DB,
	)

	repo, err := postgres.NewRepository(connString)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	return repo
}
