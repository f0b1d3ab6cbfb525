package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"steadypath/internal/reminder"
)

// Dispatch ticks run every 15 minutes on the quarter hour.
const reminderSpec = "*/15 * * * *"

// Each tick gets a bounded context so a hung FCM call cannot pile ticks up
// behind it.
const tickTimeout = 2 * time.Minute

// Scheduler owns the cron runner and the reminder dispatch registration.
type Scheduler struct {
	cron *cron.Cron
	job  *reminder.Job
}

func NewScheduler(job *reminder.Job) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		job:  job,
	}
}

// Start registers the reminder tick and starts the runner.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(reminderSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), tickTimeout)
		defer cancel()

		if _, err := s.job.RunTick(ctx, time.Now().UTC()); err != nil {
			log.Printf("[Scheduler] reminder tick failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("[Scheduler] started, reminder dispatch at %q", reminderSpec)
	return nil
}

// Stop halts scheduling and waits for a running tick to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("[Scheduler] stopped")
}
