package queue

import (
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"gcmn-library-backend/internal/config"
)

// Scheduler registers periodic jobs with asynq's cron scheduler.
type Scheduler struct {
	scheduler *asynq.Scheduler
	jobConfig config.JobConfig
}

func NewScheduler(redisAddr, redisPassword string, redisDB int, jobConfig config.JobConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: redisAddr, Password: redisPassword, DB: redisDB},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{scheduler: scheduler, jobConfig: jobConfig}
}

// RegisterJobs wires all cron entries.
func (s *Scheduler) RegisterJobs() error {
	// Daily scan for overdue loans; the handler enqueues reminder emails.
	if _, err := s.scheduler.Register(
		s.jobConfig.OverdueScanSchedule,
		NewOverdueScanTask(),
		asynq.Queue("default"),
	); err != nil {
		return fmt.Errorf("register overdue scan job: %w", err)
	}

	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Start()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
