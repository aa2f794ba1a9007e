// File: cron/worker.go
package cron

import (
	"context"
	"encoding/json"
	"log"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"frontdesk/config"
	bookingRepo "frontdesk/database/repository/booking"
	"frontdesk/models"
	"frontdesk/utils"
)

const (
	TypeInteractionLog = "audit:interaction"
	TypeSlotReconcile  = "slots:reconcile"
)

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// InitWorker runs the async worker and the periodic reconcile schedule
// in the background.
func InitWorker(repo bookingRepo.BookingRepository) {
	srv := asynq.NewServer(
		redisOpts(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeInteractionLog, handleInteractionTask(repo))
	mux.HandleFunc(TypeSlotReconcile, handleReconcileTask(repo))

	go func() {
		log.Println("[Worker] starting async worker...")
		if err := srv.Run(mux); err != nil {
			log.Printf("[Worker] worker stopped: %v", err)
		}
	}()

	scheduler := asynq.NewScheduler(redisOpts(), nil)
	if _, err := scheduler.Register("@every 15m", asynq.NewTask(TypeSlotReconcile, nil)); err != nil {
		log.Printf("[Worker] failed to register reconcile schedule: %v", err)
		return
	}
	go func() {
		if err := scheduler.Run(); err != nil {
			log.Printf("[Worker] scheduler stopped: %v", err)
		}
	}()
}

func handleInteractionTask(repo bookingRepo.BookingRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var entry models.InteractionLogEntry
		if err := json.Unmarshal(task.Payload(), &entry); err != nil {
			utils.GetLogger().Warn("invalid interaction payload", zap.Error(err))
			return nil // malformed payloads are dropped, not retried
		}
		return repo.LogInteraction(ctx, entry)
	}
}

// handleReconcileTask audits bookings against the availability slots: a
// booking whose (day, slot) row is missing or still open means a
// MarkSlotTaken write was lost after a successful save.
func handleReconcileTask(repo bookingRepo.BookingRepository) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		logger := utils.GetLogger()

		bookings, err := repo.ListBookings(ctx)
		if err != nil {
			return err
		}
		slots, err := repo.ListSlots(ctx)
		if err != nil {
			return err
		}

		taken := make(map[string]bool, len(slots))
		for _, s := range slots {
			taken[s.Day+" "+s.Slot] = !s.IsAvailable
		}

		for _, b := range bookings {
			if b.BookingTime == "" {
				continue
			}
			if !taken[b.BookingTime] {
				logger.Warn("orphaned booking slot detected",
					zap.String("bookingId", b.ID),
					zap.String("bookingTime", b.BookingTime))
			}
		}
		return nil
	}
}
