package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"campuscanteen/internal/models"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"
)

type CacheService interface {
	// Menu caching, one entry per canteen and audience
	GetMenu(ctx context.Context, canteenID uuid.UUID, includeUnavailable bool) ([]*models.MenuItem, error)
	SetMenu(ctx context.Context, canteenID uuid.UUID, includeUnavailable bool, items []*models.MenuItem, ttl time.Duration) error
	InvalidateMenu(ctx context.Context, canteenID uuid.UUID) error

	// Canteen directory caching
	GetCanteens(ctx context.Context, activeOnly bool) ([]*models.Canteen, error)
	SetCanteens(ctx context.Context, activeOnly bool, canteens []*models.Canteen, ttl time.Duration) error
	InvalidateCanteens(ctx context.Context) error

	// Daily stats caching; day is formatted as 2006-01-02
	GetDailyStats(ctx context.Context, day string, canteenID *uuid.UUID) (*models.DailyStats, error)
	SetDailyStats(ctx context.Context, day string, canteenID *uuid.UUID, stats *models.DailyStats, ttl time.Duration) error
	InvalidateDailyStats(ctx context.Context, day string, canteenID uuid.UUID) error

	Ping(ctx context.Context) error
	Close() error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Accept redis://host:port as well as host:port
	parsedAddr := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://")

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Warnf("Redis ping failed on initialization: %v (address: %s)", err, parsedAddr)
	} else {
		log.Debugf("Redis connection established at %s", parsedAddr)
	}

	return NewCacheServiceFromClient(client)
}

// NewCacheServiceFromClient wraps an existing client.
func NewCacheServiceFromClient(client *redis.Client) CacheService {
	return &redisCacheService{client: client}
}

func menuKey(canteenID uuid.UUID, includeUnavailable bool) string {
	audience := "available"
	if includeUnavailable {
		audience = "all"
	}
	return fmt.Sprintf("canteen:menu:%s:%s", canteenID.String(), audience)
}

func canteensKey(activeOnly bool) string {
	if activeOnly {
		return "canteen:directory:active"
	}
	return "canteen:directory:all"
}

func statsKey(day string, canteenID *uuid.UUID) string {
	scope := "all"
	if canteenID != nil {
		scope = canteenID.String()
	}
	return fmt.Sprintf("canteen:stats:%s:%s", day, scope)
}

func (r *redisCacheService) GetMenu(ctx context.Context, canteenID uuid.UUID, includeUnavailable bool) ([]*models.MenuItem, error) {
	var items []*models.MenuItem
	found, err := r.getJSON(ctx, menuKey(canteenID, includeUnavailable), &items)
	if err != nil || !found {
		return nil, err
	}
	return items, nil
}

func (r *redisCacheService) SetMenu(ctx context.Context, canteenID uuid.UUID, includeUnavailable bool, items []*models.MenuItem, ttl time.Duration) error {
	return r.setJSON(ctx, menuKey(canteenID, includeUnavailable), items, ttl)
}

func (r *redisCacheService) InvalidateMenu(ctx context.Context, canteenID uuid.UUID) error {
	return r.client.Del(ctx, menuKey(canteenID, true), menuKey(canteenID, false)).Err()
}

func (r *redisCacheService) GetCanteens(ctx context.Context, activeOnly bool) ([]*models.Canteen, error) {
	var canteens []*models.Canteen
	found, err := r.getJSON(ctx, canteensKey(activeOnly), &canteens)
	if err != nil || !found {
		return nil, err
	}
	return canteens, nil
}

func (r *redisCacheService) SetCanteens(ctx context.Context, activeOnly bool, canteens []*models.Canteen, ttl time.Duration) error {
	return r.setJSON(ctx, canteensKey(activeOnly), canteens, ttl)
}

func (r *redisCacheService) InvalidateCanteens(ctx context.Context) error {
	return r.client.Del(ctx, canteensKey(true), canteensKey(false)).Err()
}

func (r *redisCacheService) GetDailyStats(ctx context.Context, day string, canteenID *uuid.UUID) (*models.DailyStats, error) {
	var stats models.DailyStats
	found, err := r.getJSON(ctx, statsKey(day, canteenID), &stats)
	if err != nil || !found {
		return nil, err
	}
	return &stats, nil
}

func (r *redisCacheService) SetDailyStats(ctx context.Context, day string, canteenID *uuid.UUID, stats *models.DailyStats, ttl time.Duration) error {
	return r.setJSON(ctx, statsKey(day, canteenID), stats, ttl)
}

// InvalidateDailyStats drops the canteen's entry and the all-canteens entry.
func (r *redisCacheService) InvalidateDailyStats(ctx context.Context, day string, canteenID uuid.UUID) error {
	return r.client.Del(ctx, statsKey(day, &canteenID), statsKey(day, nil)).Err()
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *redisCacheService) Close() error {
	return r.client.Close()
}

// getJSON reports found=false on a cache miss.
func (r *redisCacheService) getJSON(ctx context.Context, key string, dst any) (bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (r *redisCacheService) setJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}
