package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"campuscanteen/internal/caching"
	"campuscanteen/internal/models"
	"campuscanteen/internal/pkg/errs"
	"campuscanteen/internal/repositories"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

const imageURLExpiry = 24 * time.Hour

// MenuService manages the per-canteen menu catalog
type MenuService interface {
	ListMenu(ctx context.Context, caller *models.Caller, canteenID uuid.UUID) ([]*models.MenuItem, error)
	CreateItem(ctx context.Context, caller *models.Caller, input CreateMenuItemInput) (*models.MenuItem, error)
	UpdateItem(ctx context.Context, caller *models.Caller, id uuid.UUID, update models.MenuItemUpdate) (*models.MenuItem, error)
	DeleteItem(ctx context.Context, caller *models.Caller, id uuid.UUID) error
	UploadImage(ctx context.Context, caller *models.Caller, id uuid.UUID, upload ImageUpload) (*MenuImage, error)
}

type CreateMenuItemInput struct {
	CanteenID   uuid.UUID
	Name        string
	Category    models.Category
	Price       *float64
	Description string
	Image       string
	Available   *bool
}

// ImageUpload is a file received from a multipart form.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type MenuImage struct {
	Item *models.MenuItem `json:"item"`
	URL  string           `json:"url"`
}

type menuService struct {
	menuRepo    repositories.MenuItemRepository
	canteenRepo repositories.CanteenRepository
	policy      AccessPolicy
	cacheSvc    caching.CacheService
	images      ImageStore
	cacheTTL    time.Duration
}

func NewMenuService(menuRepo repositories.MenuItemRepository, canteenRepo repositories.CanteenRepository, policy AccessPolicy,
	cacheSvc caching.CacheService, images ImageStore, cacheTTL time.Duration) MenuService {
	return &menuService{
		menuRepo:    menuRepo,
		canteenRepo: canteenRepo,
		policy:      policy,
		cacheSvc:    cacheSvc,
		images:      images,
		cacheTTL:    cacheTTL,
	}
}

// ListMenu returns a canteen's menu, category asc then newest first. Only
// callers allowed to see the full catalog get unavailable items.
func (s *menuService) ListMenu(ctx context.Context, caller *models.Caller, canteenID uuid.UUID) ([]*models.MenuItem, error) {
	if caller == nil {
		return nil, errs.NewAuthenticationError("")
	}
	if canteenID == uuid.Nil {
		return nil, errs.NewRequiredError("canteenId")
	}
	includeUnavailable := s.policy.HasPermission(caller, PermMenuReadAll)

	if s.cacheSvc != nil {
		cached, err := s.cacheSvc.GetMenu(ctx, canteenID, includeUnavailable)
		if err != nil {
			log.Warnf("Menu cache read failed for canteen %s: %v", canteenID, err)
		} else if cached != nil {
			return cached, nil
		}
	}

	items, err := s.menuRepo.ListByCanteen(ctx, canteenID, includeUnavailable)
	if err != nil {
		return nil, errs.NewDependencyError("list menu", err)
	}

	if s.cacheSvc != nil {
		if err := s.cacheSvc.SetMenu(ctx, canteenID, includeUnavailable, items, s.cacheTTL); err != nil {
			log.Warnf("Menu cache write failed for canteen %s: %v", canteenID, err)
		}
	}
	return items, nil
}

func (s *menuService) CreateItem(ctx context.Context, caller *models.Caller, input CreateMenuItemInput) (*models.MenuItem, error) {
	if err := s.policy.Authorize(caller, PermMenuWrite); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	switch {
	case input.CanteenID == uuid.Nil:
		return nil, errs.NewRequiredError("canteenId")
	case name == "":
		return nil, errs.NewRequiredError("name")
	case input.Category == "":
		return nil, errs.NewRequiredError("category")
	case input.Price == nil:
		return nil, errs.NewRequiredError("price")
	}
	if err := validateMenuFields(input.Category, *input.Price); err != nil {
		return nil, err
	}

	canteen, err := s.canteenRepo.GetByID(ctx, input.CanteenID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, errs.NewValidationError(errs.CodeInvalidCanteen, "canteenId", "Invalid canteen")
	}
	if err != nil {
		return nil, errs.NewDependencyError("get canteen", err)
	}
	if !canteen.Active {
		return nil, errs.NewValidationError(errs.CodeInvalidCanteen, "canteenId", "Invalid canteen")
	}

	available := true
	if input.Available != nil {
		available = *input.Available
	}

	item := &models.MenuItem{
		ID:          uuid.New(),
		CanteenID:   input.CanteenID,
		Name:        name,
		Category:    input.Category,
		Price:       *input.Price,
		Description: strings.TrimSpace(input.Description),
		Image:       strings.TrimSpace(input.Image),
		Available:   available,
	}
	if err := s.menuRepo.Create(ctx, item); err != nil {
		return nil, errs.NewDependencyError("create menu item", err)
	}

	s.invalidateMenu(ctx, item.CanteenID)
	return item, nil
}

func (s *menuService) UpdateItem(ctx context.Context, caller *models.Caller, id uuid.UUID, update models.MenuItemUpdate) (*models.MenuItem, error) {
	if err := s.policy.Authorize(caller, PermMenuWrite); err != nil {
		return nil, err
	}

	item, err := s.getItem(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		trimmed := strings.TrimSpace(*update.Name)
		if trimmed == "" {
			return nil, errs.NewRequiredError("name")
		}
		update.Name = &trimmed
	}
	update.Apply(item)
	if err := validateMenuFields(item.Category, item.Price); err != nil {
		return nil, err
	}

	if err := s.menuRepo.Update(ctx, item); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, errs.NewNotFoundError("Menu item", id)
		}
		return nil, errs.NewDependencyError("update menu item", err)
	}

	s.invalidateMenu(ctx, item.CanteenID)
	return item, nil
}

func (s *menuService) DeleteItem(ctx context.Context, caller *models.Caller, id uuid.UUID) error {
	if err := s.policy.Authorize(caller, PermMenuWrite); err != nil {
		return err
	}

	item, err := s.getItem(ctx, id)
	if err != nil {
		return err
	}

	if err := s.menuRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return errs.NewNotFoundError("Menu item", id)
		}
		return errs.NewDependencyError("delete menu item", err)
	}

	s.invalidateMenu(ctx, item.CanteenID)
	return nil
}

// UploadImage stores the file under menu/<item id>/ and records the object
// key on the item. The returned URL is presigned and expires.
func (s *menuService) UploadImage(ctx context.Context, caller *models.Caller, id uuid.UUID, upload ImageUpload) (*MenuImage, error) {
	if err := s.policy.Authorize(caller, PermMenuWrite); err != nil {
		return nil, err
	}
	if upload.Body == nil || upload.Size <= 0 {
		return nil, errs.NewRequiredError("image")
	}
	if upload.ContentType != "" && !strings.HasPrefix(upload.ContentType, "image/") {
		return nil, errs.NewValidationError(errs.CodeInvalidValue, "image", "image must be an image file")
	}
	if s.images == nil {
		return nil, errs.NewDependencyError("upload image", errors.New("object storage is not configured"))
	}

	item, err := s.getItem(ctx, id)
	if err != nil {
		return nil, err
	}

	objectName := fmt.Sprintf("menu/%s/%s%s", item.ID, uuid.NewString(), strings.ToLower(path.Ext(upload.Filename)))
	if err := s.images.Put(ctx, objectName, upload.Body, upload.Size, upload.ContentType); err != nil {
		return nil, errs.NewDependencyError("upload image", err)
	}

	previous := item.Image
	item.Image = objectName
	if err := s.menuRepo.Update(ctx, item); err != nil {
		return nil, errs.NewDependencyError("update menu item", err)
	}
	s.invalidateMenu(ctx, item.CanteenID)

	if strings.HasPrefix(previous, "menu/") {
		if err := s.images.Remove(ctx, previous); err != nil {
			log.Warnf("Failed to remove replaced image %s: %v", previous, err)
		}
	}

	url, err := s.images.SignedURL(ctx, objectName, imageURLExpiry)
	if err != nil {
		return nil, errs.NewDependencyError("presign image", err)
	}
	return &MenuImage{Item: item, URL: url}, nil
}

func (s *menuService) getItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	item, err := s.menuRepo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, errs.NewNotFoundError("Menu item", id)
	}
	if err != nil {
		return nil, errs.NewDependencyError("get menu item", err)
	}
	return item, nil
}

func (s *menuService) invalidateMenu(ctx context.Context, canteenID uuid.UUID) {
	if s.cacheSvc == nil {
		return
	}
	if err := s.cacheSvc.InvalidateMenu(ctx, canteenID); err != nil {
		log.Warnf("Failed to invalidate menu cache for canteen %s: %v", canteenID, err)
	}
}

func validateMenuFields(category models.Category, price float64) error {
	if !category.IsValid() {
		return errs.NewValidationError(errs.CodeInvalidCategory, "category", "Invalid category: "+string(category))
	}
	if price < 0 {
		return errs.NewValidationError(errs.CodeInvalidValue, "price", "price cannot be negative")
	}
	return nil
}
