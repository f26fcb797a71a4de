package service

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

func NewScheduler() gocron.Scheduler {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatal(err)
	}
	return scheduler
}

// ScheduleSessionSweep removes expired session rows every interval. Expiry
// is still enforced on every read; the job only keeps the table small.
func (s *AuthService) ScheduleSessionSweep(scheduler gocron.Scheduler, every time.Duration) {
	if _, err := scheduler.NewJob(
		gocron.DurationJob(every),
		gocron.NewTask(func() {
			n, err := s.SweepSessions(context.Background())
			if err != nil {
				s.logger.Warnw("sweeping expired sessions", "error", err)
				return
			}
			s.logger.Debugw("swept expired sessions", "count", n)
		}),
	); err != nil {
		log.Fatal(err)
	}
}
