package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"roomdesk/services/notification"
	"roomdesk/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Reporter renders the admin report.
type Reporter interface {
	Report(ctx context.Context) (string, error)
}

// ReportWorker schedules the daily report and delivers it to the admin chat.
type ReportWorker struct {
	scheduler *asynq.Scheduler
	server    *asynq.Server
	mux       *asynq.ServeMux
	logger    *zap.Logger
}

// NewReportWorker registers cronSpec (standard five-field cron, evaluated in
// loc) to enqueue a report for chatID.
func NewReportWorker(
	redisOpts asynq.RedisClientOpt,
	cronSpec string,
	loc *time.Location,
	chatID string,
	reporter Reporter,
	deliverer notification.Deliverer,
	logger *zap.Logger,
) (*ReportWorker, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	task, opts, err := tasks.NewDailyReportTask(chatID)
	if err != nil {
		return nil, err
	}

	scheduler := asynq.NewScheduler(redisOpts, &asynq.SchedulerOpts{Location: loc})
	entryID, err := scheduler.Register(cronSpec, task, opts...)
	if err != nil {
		return nil, fmt.Errorf("register daily report %q: %w", cronSpec, err)
	}
	logger.Info("Daily report scheduled", zap.String("cron", cronSpec), zap.String("entry", entryID))

	srv := asynq.NewServer(redisOpts, asynq.Config{
		Concurrency: 1,
		Queues:      map[string]int{"default": 1},
	})
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeDailyReport, handleReportTask(reporter, deliverer, logger))

	return &ReportWorker{scheduler: scheduler, server: srv, mux: mux, logger: logger}, nil
}

// Start runs the scheduler and the worker in the background, retrying the
// worker start a few times while Redis comes up.
func (w *ReportWorker) Start() {
	go func() {
		const maxAttempts = 5
		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := w.server.Start(w.mux)
			if err == nil {
				break
			}
			w.logger.Warn("Report worker failed to start",
				zap.Int("attempt", attempts),
				zap.Int("maxAttempts", maxAttempts),
				zap.Error(err))
			if attempts == maxAttempts {
				w.logger.Error("Report worker gave up, daily reports disabled")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
	if err := w.scheduler.Start(); err != nil {
		w.logger.Error("Report scheduler failed to start", zap.Error(err))
	}
}

func (w *ReportWorker) Shutdown() {
	w.scheduler.Shutdown()
	w.server.Shutdown()
}

func handleReportTask(reporter Reporter, deliverer notification.Deliverer, logger *zap.Logger) asynq.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.DailyReportPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("Invalid report payload", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		if p.ChatID == "" {
			logger.Warn("Daily report has no chat, skipping")
			return nil
		}

		report, err := reporter.Report(ctx)
		if err != nil {
			logger.Error("Failed to build daily report", zap.Error(err))
			return err
		}
		if err := deliverer.Deliver(ctx, report, p.ChatID, false); err != nil {
			logger.Error("Failed to deliver daily report", zap.String("chat", p.ChatID), zap.Error(err))
			return err
		}
		logger.Info("Daily report sent", zap.String("chat", p.ChatID))
		return nil
	}
}
