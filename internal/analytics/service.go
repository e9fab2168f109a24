package analytics

import (
	"context"
	"time"

	"campuscanteen/internal/caching"
	"campuscanteen/internal/common"
	"campuscanteen/internal/models"
	"campuscanteen/internal/pkg/errs"
	"campuscanteen/internal/repositories"
	"campuscanteen/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

// StatsService computes and caches per-day order counts and revenue
type StatsService struct {
	orderRepo repositories.OrderRepository
	cacheSvc  caching.CacheService
	policy    services.AccessPolicy
	cacheTTL  time.Duration
	now       func() time.Time
}

func NewStatsService(orderRepo repositories.OrderRepository, cacheSvc caching.CacheService, policy services.AccessPolicy, cacheTTL time.Duration) *StatsService {
	return &StatsService{
		orderRepo: orderRepo,
		cacheSvc:  cacheSvc,
		policy:    policy,
		cacheTTL:  cacheTTL,
		now:       time.Now,
	}
}

// TodayStats returns today's figures for an admin, optionally for one canteen.
func (s *StatsService) TodayStats(ctx context.Context, caller *models.Caller, canteenID *uuid.UUID) (*models.DailyStats, error) {
	if err := s.policy.Authorize(caller, services.PermOrderAdmin); err != nil {
		return nil, err
	}
	return s.DailyStats(ctx, s.now(), canteenID)
}

// DailyStats counts orders created on day's local calendar date and sums
// their totals. A nil canteenID covers every canteen.
func (s *StatsService) DailyStats(ctx context.Context, day time.Time, canteenID *uuid.UUID) (*models.DailyStats, error) {
	key := common.DayKey(day)

	if s.cacheSvc != nil {
		cached, err := s.cacheSvc.GetDailyStats(ctx, key, canteenID)
		if err != nil {
			log.Warnf("Stats cache read failed for %s: %v", key, err)
		} else if cached != nil {
			return cached, nil
		}
	}

	return s.compute(ctx, day, canteenID)
}

// RefreshDailyStats recomputes the figures and overwrites the cache entry.
func (s *StatsService) RefreshDailyStats(ctx context.Context, day time.Time, canteenID *uuid.UUID) error {
	_, err := s.compute(ctx, day, canteenID)
	return err
}

func (s *StatsService) compute(ctx context.Context, day time.Time, canteenID *uuid.UUID) (*models.DailyStats, error) {
	start, end := common.DayBounds(day)
	stats, err := s.orderRepo.DailyStats(ctx, start, end, canteenID)
	if err != nil {
		return nil, errs.NewDependencyError("aggregate daily stats", err)
	}

	if s.cacheSvc != nil {
		if err := s.cacheSvc.SetDailyStats(ctx, common.DayKey(day), canteenID, stats, s.cacheTTL); err != nil {
			log.Warnf("Stats cache write failed: %v", err)
		}
	}
	return stats, nil
}
