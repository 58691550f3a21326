package initializer

import (
	"log"

	"drawsong-service/config"
	"drawsong-service/infra/kafka"
)

func InitKafka(appConfig config.Config) *kafka.Producer {
	producer, err := kafka.NewProducer(appConfig.Kafka.Brokers, appConfig.Kafka.ResultsTopic)
	if err != nil {
		log.Fatalf("failed to initialize kafka producer: %v", err)
	}
	return producer
}
