package job

import (
	"context"
	"log"
	"time"

	"bankapi/internal/config"
	"bankapi/internal/infrastructure/mq"
	"bankapi/internal/model"
	"bankapi/internal/repository"

	"gorm.io/gorm"
)

// SendFunc publishes one message. Production wiring uses mq.SendMessage;
// tests substitute a recorder.
type SendFunc func(topic, key, value string) error

// OutboxSender drains pending outbox rows to Kafka. Delivery is
// at-least-once: a row is marked SENT only after the broker acknowledged it,
// and rows exceeding the retry budget are parked as FAILED for operators.
type OutboxSender struct {
	db         *gorm.DB
	outboxRepo *repository.OutboxRepository
	cfg        *config.Config
	send       SendFunc
	stopCh     chan struct{}
	interval   time.Duration
	batchSize  int
}

func NewOutboxSender(db *gorm.DB, cfg *config.Config) *OutboxSender {
	return &OutboxSender{
		db:         db,
		outboxRepo: repository.NewOutboxRepository(db),
		cfg:        cfg,
		send:       mq.SendMessage,
		stopCh:     make(chan struct{}),
		interval:   100 * time.Millisecond,
		batchSize:  100,
	}
}

func (s *OutboxSender) Start(ctx context.Context) {
	log.Println("[OutboxSender] started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[OutboxSender] context cancelled, exiting")
			return
		case <-s.stopCh:
			log.Println("[OutboxSender] stopped")
			return
		case <-ticker.C:
			s.ProcessPendingMessages(ctx)
		}
	}
}

func (s *OutboxSender) Stop() {
	close(s.stopCh)
}

// ProcessPendingMessages sends one batch. Exported so tests can drive the
// sender without the ticker loop.
func (s *OutboxSender) ProcessPendingMessages(ctx context.Context) {
	messages, err := s.outboxRepo.GetPendingMessages(ctx, s.batchSize)
	if err != nil {
		log.Printf("[OutboxSender] failed to fetch pending messages: %v", err)
		return
	}

	for _, msg := range messages {
		s.sendMessage(ctx, msg)
	}
}

func (s *OutboxSender) sendMessage(ctx context.Context, msg *model.OutboxMessage) {
	err := s.send(msg.Topic, msg.MessageKey, msg.Payload)

	if err == nil {
		if updateErr := s.outboxRepo.UpdateStatus(ctx, msg.ID, model.OutboxStatusSent); updateErr != nil {
			log.Printf("[OutboxSender] failed to mark message sent: id=%d, err=%v", msg.ID, updateErr)
		}
		return
	}

	log.Printf("[OutboxSender] send failed: id=%d, err=%v", msg.ID, err)

	if msg.RetryCount+1 >= s.cfg.Business.MaxRetryCount {
		if err := s.outboxRepo.MarkAsFailed(ctx, msg.ID); err != nil {
			log.Printf("[OutboxSender] failed to mark message failed: id=%d, err=%v", msg.ID, err)
		} else {
			log.Printf("[OutboxSender] retry budget exhausted, message parked: id=%d", msg.ID)
		}
		return
	}

	if err := s.outboxRepo.IncrementRetryCount(ctx, msg.ID); err != nil {
		log.Printf("[OutboxSender] failed to bump retry count: id=%d, err=%v", msg.ID, err)
	}
}
