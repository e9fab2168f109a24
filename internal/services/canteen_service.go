package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"campuscanteen/internal/caching"
	"campuscanteen/internal/models"
	"campuscanteen/internal/pkg/errs"
	"campuscanteen/internal/repositories"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

// CanteenService exposes the canteen directory
type CanteenService interface {
	ListCanteens(ctx context.Context, caller *models.Caller) ([]*models.Canteen, error)
	GetCanteen(ctx context.Context, id uuid.UUID) (*models.Canteen, error)
	CreateCanteen(ctx context.Context, caller *models.Caller, input CreateCanteenInput) (*models.Canteen, error)
	// ListActive is used by background jobs and has no caller.
	ListActive(ctx context.Context) ([]*models.Canteen, error)
}

type CreateCanteenInput struct {
	Name   string
	Code   string
	Active *bool
}

type canteenService struct {
	canteenRepo repositories.CanteenRepository
	policy      AccessPolicy
	cacheSvc    caching.CacheService
	cacheTTL    time.Duration
}

func NewCanteenService(canteenRepo repositories.CanteenRepository, policy AccessPolicy, cacheSvc caching.CacheService, cacheTTL time.Duration) CanteenService {
	return &canteenService{
		canteenRepo: canteenRepo,
		policy:      policy,
		cacheSvc:    cacheSvc,
		cacheTTL:    cacheTTL,
	}
}

// ListCanteens returns active canteens by name; admins also see inactive ones.
func (s *canteenService) ListCanteens(ctx context.Context, caller *models.Caller) ([]*models.Canteen, error) {
	activeOnly := !s.policy.HasPermission(caller, PermCanteenWrite)
	return s.list(ctx, activeOnly)
}

func (s *canteenService) ListActive(ctx context.Context) ([]*models.Canteen, error) {
	return s.list(ctx, true)
}

func (s *canteenService) list(ctx context.Context, activeOnly bool) ([]*models.Canteen, error) {
	if s.cacheSvc != nil {
		cached, err := s.cacheSvc.GetCanteens(ctx, activeOnly)
		if err != nil {
			log.Warnf("Canteen cache read failed: %v", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	canteens, err := s.canteenRepo.List(ctx, activeOnly)
	if err != nil {
		return nil, errs.NewDependencyError("list canteens", err)
	}

	if s.cacheSvc != nil {
		if err := s.cacheSvc.SetCanteens(ctx, activeOnly, canteens, s.cacheTTL); err != nil {
			log.Warnf("Canteen cache write failed: %v", err)
		}
	}
	return canteens, nil
}

func (s *canteenService) GetCanteen(ctx context.Context, id uuid.UUID) (*models.Canteen, error) {
	canteen, err := s.canteenRepo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, errs.NewNotFoundError("Canteen", id)
	}
	if err != nil {
		return nil, errs.NewDependencyError("get canteen", err)
	}
	return canteen, nil
}

func (s *canteenService) CreateCanteen(ctx context.Context, caller *models.Caller, input CreateCanteenInput) (*models.Canteen, error) {
	if err := s.policy.Authorize(caller, PermCanteenWrite); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if name == "" {
		return nil, errs.NewRequiredError("name")
	}
	if code == "" {
		return nil, errs.NewRequiredError("code")
	}

	canteen := &models.Canteen{
		ID:     uuid.New(),
		Name:   name,
		Code:   code,
		Active: input.Active == nil || *input.Active,
	}
	if err := s.canteenRepo.Create(ctx, canteen); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, errs.NewConflictError("canteen", code, "Canteen code already exists")
		}
		return nil, errs.NewDependencyError("create canteen", err)
	}

	if s.cacheSvc != nil {
		if err := s.cacheSvc.InvalidateCanteens(ctx); err != nil {
			log.Warnf("Failed to invalidate canteen cache: %v", err)
		}
	}
	return canteen, nil
}
