package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"patitas/config"
	"patitas/models"
	"patitas/services/reminder"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

const (
	TypeReminder24h = "reminder:24h"
	TypeReminder1h  = "reminder:1h"
)

// InitReminderWorker starts the async worker and the periodic scheduler in
// background. The scheduler only enqueues "run the pass" tasks; the pass
// itself re-reads the appointment store with the flag-guarded mark, so a
// duplicate or late task never causes a duplicate send.
func InitReminderWorker(reminderSvc reminder.ReminderService) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			// One pass at a time; the design assumes a single active
			// scheduler instance.
			Concurrency: 1,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeReminder24h, handleReminderTask(reminderSvc, models.Stage24h))
	mux.HandleFunc(TypeReminder1h, handleReminderTask(reminderSvc, models.Stage1h))

	// Start Redis health monitor
	go monitorRedisConnection()

	go runScheduler(redisOpts)

	// Start async worker with retry logic
	go func() {
		log.Println("[ReminderWorker] 🚀 Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReminderWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ReminderWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

// runScheduler registers the two periodic pass triggers with cron specs from
// config.
func runScheduler(redisOpts asynq.RedisClientOpt) {
	scheduler := asynq.NewScheduler(redisOpts, &asynq.SchedulerOpts{})

	register := func(spec, taskType string, stage models.ReminderStage) {
		payload, _ := json.Marshal(models.ReminderTaskPayload{Stage: stage, RequestedAt: time.Now()})
		if _, err := scheduler.Register(spec, asynq.NewTask(taskType, payload)); err != nil {
			log.Fatalf("[ReminderScheduler] Failed to register %s: %v", taskType, err)
		}
	}
	register(config.AppConfig.Reminder24hCron, TypeReminder24h, models.Stage24h)
	register(config.AppConfig.Reminder1hCron, TypeReminder1h, models.Stage1h)

	if err := scheduler.Run(); err != nil {
		log.Fatalf("[ReminderScheduler] Scheduler stopped: %v", err)
	}
}

func handleReminderTask(reminderSvc reminder.ReminderService, stage models.ReminderStage) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderTaskPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ReminderHandler] Invalid payload: %v", err)
			return err
		}

		report, err := reminderSvc.ProcessWindow(ctx, time.Now(), stage)
		if err != nil {
			log.Printf("[ReminderHandler] %s pass failed: %v", stage, err)
			return err
		}

		log.Printf("[ReminderHandler] ⏰ %s pass done: matched=%d sent=%d failed=%d",
			stage, report.Matched, report.Sent, report.Failed)
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[ReminderWorker] Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
