// File: cron/audit.go
package cron

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	bookingRepo "frontdesk/database/repository/booking"
	"frontdesk/models"
	"frontdesk/utils"
)

// taskEnqueuer is the slice of asynq.Client the audit logger needs.
type taskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueueAuditLogger enqueues interaction-log entries for the background
// worker. The redis round trip runs off the caller's goroutine, so audit
// writes never sit on the turn's critical path even when the queue is
// slow or down; an unreachable queue falls back to a direct write.
type QueueAuditLogger struct {
	client taskEnqueuer
	repo   bookingRepo.BookingRepository
	logger *zap.Logger
}

func NewQueueAuditLogger(repo bookingRepo.BookingRepository) *QueueAuditLogger {
	return &QueueAuditLogger{
		client: asynq.NewClient(redisOpts()),
		repo:   repo,
		logger: utils.GetLogger(),
	}
}

func (q *QueueAuditLogger) Record(entry models.InteractionLogEntry) {
	payload, err := json.Marshal(entry)
	if err != nil {
		q.logger.Warn("drop audit entry, marshal failed", zap.Error(err))
		return
	}
	go func() {
		if _, err := q.client.Enqueue(asynq.NewTask(TypeInteractionLog, payload)); err == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := q.repo.LogInteraction(ctx, entry); err != nil {
			q.logger.Warn("audit entry lost", zap.Error(err))
		}
	}()
}
