package job

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"bankapi/internal/config"
	"bankapi/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "outbox.db") + "?_busy_timeout=10000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.OutboxMessage{}))
	return db
}

type sentMessage struct {
	topic, key, value string
}

func newSender(t *testing.T, db *gorm.DB, send SendFunc) *OutboxSender {
	t.Helper()
	cfg := &config.Config{
		Business: config.BusinessConfig{MaxRetryCount: 3},
	}
	s := NewOutboxSender(db, cfg)
	s.send = send
	return s
}

func seedMessage(t *testing.T, db *gorm.DB, key string) *model.OutboxMessage {
	t.Helper()
	msg := &model.OutboxMessage{
		MessageKey: key,
		Topic:      "operation_events",
		Payload:    `{"operation_no":"` + key + `"}`,
		Status:     model.OutboxStatusPending,
	}
	require.NoError(t, db.Create(msg).Error)
	return msg
}

func TestOutboxSenderMarksSent(t *testing.T) {
	db := newTestDB(t)

	var sent []sentMessage
	sender := newSender(t, db, func(topic, key, value string) error {
		sent = append(sent, sentMessage{topic, key, value})
		return nil
	})

	seedMessage(t, db, "OP1")
	seedMessage(t, db, "OP2")

	sender.ProcessPendingMessages(context.Background())

	require.Len(t, sent, 2)
	assert.Equal(t, "operation_events", sent[0].topic)
	assert.Equal(t, "OP1", sent[0].key)

	var remaining int64
	require.NoError(t, db.Model(&model.OutboxMessage{}).
		Where("status = ?", model.OutboxStatusPending).
		Count(&remaining).Error)
	assert.Zero(t, remaining)
}

func TestOutboxSenderRetriesThenParks(t *testing.T) {
	db := newTestDB(t)

	sender := newSender(t, db, func(topic, key, value string) error {
		return errors.New("broker unavailable")
	})

	seeded := seedMessage(t, db, "OP1")

	// two failing rounds bump the retry count, the third parks the message
	for i := 0; i < 3; i++ {
		sender.ProcessPendingMessages(context.Background())
	}

	var msg model.OutboxMessage
	require.NoError(t, db.First(&msg, seeded.ID).Error)
	assert.Equal(t, model.OutboxStatusFailed, msg.Status)

	// a parked message is never picked up again
	sender.ProcessPendingMessages(context.Background())
	require.NoError(t, db.First(&msg, seeded.ID).Error)
	assert.Equal(t, model.OutboxStatusFailed, msg.Status)
}
