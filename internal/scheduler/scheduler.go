package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/facturio/facturio-api/internal/application/service"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// Runner owns the daily recurring invoice sweep and serializes engine runs
// per user, so a manual "run now" can never interleave with the cron pass
// for the same account.
type Runner struct {
	recurringSvc *service.RecurringService
	cron         *cron.Cron
	spec         string

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// NewRunner creates a scheduler runner with the given cron spec.
func NewRunner(recurringSvc *service.RecurringService, spec string) *Runner {
	return &Runner{
		recurringSvc: recurringSvc,
		cron:         cron.New(),
		spec:         spec,
		locks:        make(map[uuid.UUID]*sync.Mutex),
	}
}

// Start registers the daily sweep and starts the cron loop.
func (r *Runner) Start() error {
	_, err := r.cron.AddFunc(r.spec, func() {
		if err := r.RunAll(context.Background()); err != nil {
			log.Printf("scheduler: recurring sweep failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule recurring sweep: %w", err)
	}

	r.cron.Start()
	log.Printf("scheduler: recurring sweep scheduled (%s)", r.spec)
	return nil
}

// Stop halts the cron loop and waits for a running sweep to finish.
func (r *Runner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}

// RunAll sweeps every user that has active templates. One user's failure is
// logged and does not stop the sweep.
func (r *Runner) RunAll(ctx context.Context) error {
	userIDs, err := r.recurringSvc.ListUsersForRun(ctx)
	if err != nil {
		return err
	}

	today := time.Now()
	for _, userID := range userIDs {
		report, err := r.RunForUser(ctx, userID, today)
		if err != nil {
			log.Printf("scheduler: recurring run failed for user %s: %v", userID, err)
			continue
		}
		if report.Generated > 0 || report.Deactivated > 0 || len(report.Failures) > 0 {
			log.Printf("scheduler: user %s: %d generated, %d deactivated, %d failed",
				userID, report.Generated, report.Deactivated, len(report.Failures))
		}
	}
	return nil
}

// RunForUser executes one engine pass for one user under that user's lock.
// The HTTP "run now" endpoint goes through here too.
func (r *Runner) RunForUser(ctx context.Context, userID uuid.UUID, today time.Time) (*service.RecurringRunReport, error) {
	lock := r.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	return r.recurringSvc.ProcessDue(ctx, userID, today)
}

func (r *Runner) userLock(userID uuid.UUID) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	lock, ok := r.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[userID] = lock
	}
	return lock
}
