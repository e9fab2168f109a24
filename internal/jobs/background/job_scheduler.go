package background

import (
	"context"
	"fmt"
	"sync"
	"time"

	"campuscanteen/internal/models"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

const refreshConcurrency = 5

// StatsRefresher recomputes and caches the daily stats of one canteen, or of
// all canteens when canteenID is nil.
type StatsRefresher interface {
	RefreshDailyStats(ctx context.Context, day time.Time, canteenID *uuid.UUID) error
}

type CanteenLister interface {
	ListActive(ctx context.Context) ([]*models.Canteen, error)
}

// JobScheduler runs the periodic background jobs
type JobScheduler struct {
	scheduler gocron.Scheduler
	stats     StatsRefresher
	canteens  CanteenLister
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
	now       func() time.Time
}

// NewJobScheduler creates the scheduler and registers the stats refresh job.
// A non-positive interval disables the job.
func NewJobScheduler(stats StatsRefresher, canteens CanteenLister, statsInterval time.Duration) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	js := &JobScheduler{
		scheduler: scheduler,
		stats:     stats,
		canteens:  canteens,
		jobs:      make(map[string]gocron.Job),
		now:       time.Now,
	}

	if statsInterval > 0 {
		job, err := scheduler.NewJob(
			gocron.DurationJob(statsInterval),
			gocron.NewTask(js.RefreshDailyStats, context.Background()),
			gocron.WithName("daily-stats-refresh"),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create stats refresh job: %w", err)
		}
		js.jobs["daily-stats-refresh"] = job
	}

	log.Infof("Registered %d background jobs", len(js.jobs))
	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	log.Info("Starting background job scheduler")
	js.scheduler.Start()
}

// Stop stops the job scheduler and waits for running jobs
func (js *JobScheduler) Stop() error {
	log.Info("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// RefreshDailyStats refreshes today's cached stats for every active canteen
// and the all-canteen total. Failures are logged per canteen; the first one
// is returned.
func (js *JobScheduler) RefreshDailyStats(ctx context.Context) error {
	day := js.now()

	canteens, err := js.canteens.ListActive(ctx)
	if err != nil {
		log.Errorf("Failed to list canteens for stats refresh: %v", err)
		return err
	}

	semaphore := make(chan struct{}, refreshConcurrency)
	var wg sync.WaitGroup
	var once sync.Once
	var firstErr error

	refresh := func(canteenID *uuid.UUID) {
		defer wg.Done()
		semaphore <- struct{}{}
		defer func() { <-semaphore }()

		if err := js.stats.RefreshDailyStats(ctx, day, canteenID); err != nil {
			label := "all canteens"
			if canteenID != nil {
				label = canteenID.String()
			}
			log.Warnf("Failed to refresh daily stats for %s: %v", label, err)
			once.Do(func() { firstErr = err })
		}
	}

	wg.Add(1)
	go refresh(nil)
	for _, canteen := range canteens {
		id := canteen.ID
		wg.Add(1)
		go refresh(&id)
	}

	wg.Wait()
	log.Debugf("Refreshed daily stats for %d canteens", len(canteens))
	return firstErr
}

// GetJobStatus returns information about scheduled jobs
func (js *JobScheduler) GetJobStatus() map[string]interface{} {
	js.mu.RLock()
	defer js.mu.RUnlock()

	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}

	return map[string]interface{}{
		"total_jobs": len(js.jobs),
		"jobs":       names,
	}
}
