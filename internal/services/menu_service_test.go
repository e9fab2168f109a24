package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"campuscanteen/internal/models"
	"campuscanteen/internal/pkg/errs"
	"campuscanteen/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type MenuServiceTestSuite struct {
	suite.Suite
	menuRepo    *MockMenuItemRepository
	canteenRepo *MockCanteenRepository
	cacheSvc    *MockCacheService
	images      *MockImageStore
	service     MenuService

	canteen *models.Canteen
	admin   *models.Caller
	student *models.Caller
}

func (suite *MenuServiceTestSuite) SetupTest() {
	suite.menuRepo = new(MockMenuItemRepository)
	suite.canteenRepo = new(MockCanteenRepository)
	suite.cacheSvc = new(MockCacheService)
	suite.images = new(MockImageStore)
	suite.service = NewMenuService(suite.menuRepo, suite.canteenRepo, NewAccessPolicy(), suite.cacheSvc, suite.images,
		5*time.Minute)

	suite.canteen = &models.Canteen{ID: uuid.New(), Name: "Main Canteen", Code: "MAIN", Active: true}
	suite.admin = &models.Caller{UserID: uuid.New(), Role: models.RoleAdmin}
	suite.student = &models.Caller{UserID: uuid.New(), Role: models.RoleStudent}
}

func (suite *MenuServiceTestSuite) TearDownTest() {
	suite.menuRepo.AssertExpectations(suite.T())
	suite.canteenRepo.AssertExpectations(suite.T())
	suite.cacheSvc.AssertExpectations(suite.T())
	suite.images.AssertExpectations(suite.T())
}

func TestMenuServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MenuServiceTestSuite))
}

func (suite *MenuServiceTestSuite) TestListMenu_StudentSeesAvailableFromCache() {
	cached := []*models.MenuItem{{ID: uuid.New(), Name: "Samosa", Available: true}}
	suite.cacheSvc.On("GetMenu", mock.Anything, suite.canteen.ID, false).Return(cached, nil).Once()

	items, err := suite.service.ListMenu(context.Background(), suite.student, suite.canteen.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), cached, items)
	suite.menuRepo.AssertNotCalled(suite.T(), "ListByCanteen", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *MenuServiceTestSuite) TestListMenu_AdminMissLoadsAllAndFillsCache() {
	items := []*models.MenuItem{{ID: uuid.New(), Name: "Tea", Available: false}}
	suite.cacheSvc.On("GetMenu", mock.Anything, suite.canteen.ID, true).Return(nil, nil).Once()
	suite.menuRepo.On("ListByCanteen", mock.Anything, suite.canteen.ID, true).Return(items, nil).Once()
	suite.cacheSvc.On("SetMenu", mock.Anything, suite.canteen.ID, true, items, 5*time.Minute).Return(nil).Once()

	result, err := suite.service.ListMenu(context.Background(), suite.admin, suite.canteen.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), items, result)
}

func (suite *MenuServiceTestSuite) TestListMenu_CacheErrorFallsBackToStore() {
	suite.cacheSvc.On("GetMenu", mock.Anything, suite.canteen.ID, false).Return(nil, errors.New("redis down")).Once()
	suite.menuRepo.On("ListByCanteen", mock.Anything, suite.canteen.ID, false).Return([]*models.MenuItem{}, nil).Once()
	suite.cacheSvc.On("SetMenu", mock.Anything, suite.canteen.ID, false, mock.Anything, mock.Anything).Return(errors.New("redis down")).Once()

	items, err := suite.service.ListMenu(context.Background(), suite.student, suite.canteen.ID)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), items)
}

func (suite *MenuServiceTestSuite) TestListMenu_RequiresCanteen() {
	_, err := suite.service.ListMenu(context.Background(), suite.student, uuid.Nil)
	assert.EqualError(suite.T(), err, "canteenId is required")
}

func (suite *MenuServiceTestSuite) TestCreateItem_Success() {
	price := 15.0
	suite.canteenRepo.On("GetByID", mock.Anything, suite.canteen.ID).Return(suite.canteen, nil).Once()
	suite.menuRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.MenuItem")).Return(nil).Once()
	suite.cacheSvc.On("InvalidateMenu", mock.Anything, suite.canteen.ID).Return(nil).Once()

	item, err := suite.service.CreateItem(context.Background(), suite.admin, CreateMenuItemInput{
		CanteenID: suite.canteen.ID,
		Name:      "  Samosa ",
		Category:  models.CategorySnacks,
		Price:     &price,
	})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Samosa", item.Name)
	assert.True(suite.T(), item.Available)
	assert.NotEqual(suite.T(), uuid.Nil, item.ID)
}

func (suite *MenuServiceTestSuite) TestCreateItem_Validation() {
	price := 10.0
	negative := -1.0

	_, err := suite.service.CreateItem(context.Background(), suite.admin, CreateMenuItemInput{
		CanteenID: suite.canteen.ID, Category: models.CategorySnacks, Price: &price,
	})
	assert.EqualError(suite.T(), err, "name is required")

	_, err = suite.service.CreateItem(context.Background(), suite.admin, CreateMenuItemInput{
		CanteenID: suite.canteen.ID, Name: "Tea", Category: "Desserts", Price: &price,
	})
	var vErr *errs.ValidationError
	require.ErrorAs(suite.T(), err, &vErr)
	assert.Equal(suite.T(), errs.CodeInvalidCategory, vErr.Code)

	_, err = suite.service.CreateItem(context.Background(), suite.admin, CreateMenuItemInput{
		CanteenID: suite.canteen.ID, Name: "Tea", Category: models.CategoryBeverages, Price: &negative,
	})
	assert.ErrorIs(suite.T(), err, errs.ErrValidation)

	_, err = suite.service.CreateItem(context.Background(), suite.student, CreateMenuItemInput{})
	assert.ErrorIs(suite.T(), err, errs.ErrUnauthorized)
}

func (suite *MenuServiceTestSuite) TestCreateItem_InactiveCanteen() {
	price := 10.0
	closed := *suite.canteen
	closed.Active = false
	suite.canteenRepo.On("GetByID", mock.Anything, suite.canteen.ID).Return(&closed, nil).Once()

	_, err := suite.service.CreateItem(context.Background(), suite.admin, CreateMenuItemInput{
		CanteenID: suite.canteen.ID, Name: "Tea", Category: models.CategoryBeverages, Price: &price,
	})
	assert.EqualError(suite.T(), err, "Invalid canteen")
}

func (suite *MenuServiceTestSuite) TestUpdateItem_AppliesPartialUpdate() {
	item := &models.MenuItem{ID: uuid.New(), CanteenID: suite.canteen.ID, Name: "Tea", Category: models.CategoryBeverages, Price: 10, Available: true}
	suite.menuRepo.On("GetByID", mock.Anything, item.ID).Return(item, nil).Once()
	suite.menuRepo.On("Update", mock.Anything, item).Return(nil).Once()
	suite.cacheSvc.On("InvalidateMenu", mock.Anything, suite.canteen.ID).Return(nil).Once()

	available := false
	updated, err := suite.service.UpdateItem(context.Background(), suite.admin, item.ID, models.MenuItemUpdate{Available: &available})
	require.NoError(suite.T(), err)
	assert.False(suite.T(), updated.Available)
	assert.Equal(suite.T(), "Tea", updated.Name)
}

func (suite *MenuServiceTestSuite) TestUpdateItem_MissingItem() {
	id := uuid.New()
	suite.menuRepo.On("GetByID", mock.Anything, id).Return(nil, repositories.ErrNotFound).Once()

	_, err := suite.service.UpdateItem(context.Background(), suite.admin, id, models.MenuItemUpdate{})
	assert.EqualError(suite.T(), err, "Menu item not found")
}

func (suite *MenuServiceTestSuite) TestDeleteItem() {
	item := &models.MenuItem{ID: uuid.New(), CanteenID: suite.canteen.ID}
	suite.menuRepo.On("GetByID", mock.Anything, item.ID).Return(item, nil).Once()
	suite.menuRepo.On("Delete", mock.Anything, item.ID).Return(nil).Once()
	suite.cacheSvc.On("InvalidateMenu", mock.Anything, suite.canteen.ID).Return(errors.New("redis down")).Once()

	assert.NoError(suite.T(), suite.service.DeleteItem(context.Background(), suite.admin, item.ID))
}

func (suite *MenuServiceTestSuite) TestUploadImage_StoresObjectKeyAndReturnsPresignedURL() {
	item := &models.MenuItem{ID: uuid.New(), CanteenID: suite.canteen.ID, Name: "Tea", Category: models.CategoryBeverages, Image: "menu/old/1.png"}
	body := strings.NewReader("png-bytes")
	keyPrefix := "menu/" + item.ID.String() + "/"

	suite.menuRepo.On("GetByID", mock.Anything, item.ID).Return(item, nil).Once()
	suite.images.On("Put", mock.Anything,
		mock.MatchedBy(func(key string) bool { return strings.HasPrefix(key, keyPrefix) && strings.HasSuffix(key, ".png") }),
		body, int64(9), "image/png").Return(nil).Once()
	suite.menuRepo.On("Update", mock.Anything, item).Return(nil).Once()
	suite.cacheSvc.On("InvalidateMenu", mock.Anything, suite.canteen.ID).Return(nil).Once()
	suite.images.On("Remove", mock.Anything, "menu/old/1.png").Return(nil).Once()
	suite.images.On("SignedURL", mock.Anything, mock.Anything, imageURLExpiry).
		Return("http://minio.local/menu-images/tea.png?sig", nil).Once()

	result, err := suite.service.UploadImage(context.Background(), suite.admin, item.ID, ImageUpload{
		Filename: "Tea.PNG", ContentType: "image/png", Size: 9, Body: body,
	})
	require.NoError(suite.T(), err)
	assert.True(suite.T(), strings.HasPrefix(result.Item.Image, keyPrefix))
	assert.Equal(suite.T(), "http://minio.local/menu-images/tea.png?sig", result.URL)
}

func (suite *MenuServiceTestSuite) TestUploadImage_RejectsNonImage() {
	_, err := suite.service.UploadImage(context.Background(), suite.admin, uuid.New(), ImageUpload{
		Filename: "notes.txt", ContentType: "text/plain", Size: 4, Body: strings.NewReader("text"),
	})
	assert.ErrorIs(suite.T(), err, errs.ErrValidation)
}

func (suite *MenuServiceTestSuite) TestUploadImage_StorageFailure() {
	item := &models.MenuItem{ID: uuid.New(), CanteenID: suite.canteen.ID}
	suite.menuRepo.On("GetByID", mock.Anything, item.ID).Return(item, nil).Once()
	suite.images.On("Put", mock.Anything, mock.Anything, mock.Anything, int64(3), "image/jpeg").
		Return(errors.New("bucket missing")).Once()

	_, err := suite.service.UploadImage(context.Background(), suite.admin, item.ID, ImageUpload{
		Filename: "a.jpg", ContentType: "image/jpeg", Size: 3, Body: strings.NewReader("abc"),
	})
	assert.ErrorIs(suite.T(), err, errs.ErrDependency)
}
