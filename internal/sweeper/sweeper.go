// Package sweeper runs a periodic scan over active loans and reports
// the ones past their due date. The scan is read-only: overdue loans
// stay active until a librarian deactivates them.
package sweeper

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/library-server/internal/config"
	"github.com/library-server/internal/storage"
)

type Sweeper struct {
	cron      *cron.Cron
	issueRepo *storage.IssueRepository
	schedule  string
	mu        sync.Mutex
	running   bool
	ctx       context.Context
	cancel    context.CancelFunc
}

func New(cfg config.SweepConfig, issueRepo *storage.IssueRepository) *Sweeper {
	return &Sweeper{
		cron:      cron.New(),
		issueRepo: issueRepo,
		schedule:  cfg.Schedule,
	}
}

// Start schedules the sweep. Returns an error on an invalid cron
// expression.
func (s *Sweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	s.ctx, s.cancel = context.WithCancel(ctx)

	if _, err := s.cron.AddFunc(s.schedule, s.sweep); err != nil {
		return fmt.Errorf("invalid sweep schedule '%s': %w", s.schedule, err)
	}

	s.cron.Start()
	s.running = true

	log.Printf("Overdue sweeper started (schedule %s)", s.schedule)
	return nil
}

// Stop stops the sweeper gracefully and waits for an in-flight sweep.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cancel()
	ctx := s.cron.Stop()
	<-ctx.Done()

	s.running = false
	log.Println("Overdue sweeper stopped")
}

func (s *Sweeper) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(s.ctx, time.Minute)
	defer cancel()

	now := time.Now()
	overdue, err := s.issueRepo.FindOverdue(ctx, now)
	if err != nil {
		log.Printf("Overdue sweep failed: %v", err)
		return
	}

	if len(overdue) == 0 {
		return
	}

	log.Printf("Overdue sweep: %d active loans past due", len(overdue))
	for _, issue := range overdue {
		log.Printf("Overdue: issue %s, book %s, patron %s, due %s",
			issue.ID, issue.BookID, issue.PatronID, issue.DueDate.Format(time.RFC3339))
	}
}
