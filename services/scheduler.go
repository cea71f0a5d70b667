// services/scheduler.go
package services

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartExpiryScheduler sweeps overdue quests into the expired state.
func (s *QuestService) StartExpiryScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	// Every minute: expire quests past their deadline
	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			n, err := s.ExpireOverdue(time.Now())
			if err != nil {
				log.Printf("[Scheduler] quest expiry sweep failed: %v", err)
				return
			}
			if n > 0 {
				log.Printf("✅ Expired %d overdue quest(s)", n)
			}
		}),
	)
}
