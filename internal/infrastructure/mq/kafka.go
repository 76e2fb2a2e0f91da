package mq

import (
	"log"

	"bankapi/internal/config"

	"github.com/IBM/sarama"
)

var KafkaProducer sarama.SyncProducer

// InitKafka creates the synchronous producer used by the outbox sender.
func InitKafka(cfg *config.KafkaConfig) sarama.SyncProducer {
	kafkaConfig := sarama.NewConfig()
	kafkaConfig.Producer.RequiredAcks = sarama.WaitForAll
	kafkaConfig.Producer.Retry.Max = 3
	kafkaConfig.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(cfg.Brokers, kafkaConfig)
	if err != nil {
		log.Fatalf("failed to create Kafka producer: %v", err)
	}

	KafkaProducer = producer
	log.Println("Kafka producer created")
	return producer
}

// SendMessage publishes one message, keyed so that events for the same
// operation land in the same partition.
func SendMessage(topic, key, value string) error {
	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.StringEncoder(value),
	}

	_, _, err := KafkaProducer.SendMessage(msg)
	return err
}

func CloseKafka() {
	if KafkaProducer != nil {
		KafkaProducer.Close()
	}
}
