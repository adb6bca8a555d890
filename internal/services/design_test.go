package service_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	appErrors "github.com/revorbit/auto-frames/internal/errors"
	"github.com/revorbit/auto-frames/internal/models"
	repository "github.com/revorbit/auto-frames/internal/repositories"
	repoMocks "github.com/revorbit/auto-frames/internal/repositories/mocks"
	service "github.com/revorbit/auto-frames/internal/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDesignOptions(t *testing.T) {
	designService := service.NewDesignService(repoMocks.NewMockDesignRepository(t))

	options := designService.Options()

	assert.NotEmpty(t, options.FrameStyles)
	assert.NotEmpty(t, options.Materials)
	assert.Len(t, options.ShippingMethods, 3)
}

func TestSaveDesign(t *testing.T) {
	ctx := t.Context()
	customerID := uuid.New()

	req := &models.SaveDesignRequest{
		FrameStyleID: "carbon-edge",
		MaterialID:   "walnut",
		Personalization: models.Personalization{
			Text: "<b>GT3 RS</b>",
		},
		Features: models.DesignFeatures{
			Lighting:    "ambient-led",
			Protections: []string{"uv-glass"},
		},
	}

	t.Run("Success - Server Side Price", func(t *testing.T) {
		repo := repoMocks.NewMockDesignRepository(t)
		designService := service.NewDesignService(repo)

		// 3299 frame + 499 walnut + 299 engraving + 1499 lighting + 599 glass
		expected := decimal.NewFromInt(6195)

		repo.On("SaveDraft", ctx, mock.MatchedBy(func(d *models.Design) bool {
			return d.CustomerID == customerID && d.Status == models.DesignStatusDraft && d.Price.Equal(expected)
		})).Return(nil).Once()

		design, err := designService.SaveDesign(ctx, customerID, nil, req)

		require.NoError(t, err)
		assert.Equal(t, "GT3 RS", design.Config.Personalization.Text)
		assert.Equal(t, "Carbon Edge in Walnut", design.Name)
		assert.True(t, expected.Equal(design.Price), "got %s", design.Price)
	})

	t.Run("Success - Update Keeps The ID", func(t *testing.T) {
		repo := repoMocks.NewMockDesignRepository(t)
		designService := service.NewDesignService(repo)
		designID := uuid.New()

		repo.On("SaveDraft", ctx, mock.MatchedBy(func(d *models.Design) bool {
			return d.ID == designID
		})).Return(nil).Once()

		design, err := designService.SaveDesign(ctx, customerID, &designID, req)

		require.NoError(t, err)
		assert.Equal(t, designID, design.ID)
	})

	t.Run("Failure - Unknown Frame Style", func(t *testing.T) {
		designService := service.NewDesignService(repoMocks.NewMockDesignRepository(t))

		bad := *req
		bad.FrameStyleID = "gold-leaf"

		_, err := designService.SaveDesign(ctx, customerID, nil, &bad)

		assertAppError(t, err, appErrors.ErrCodeValidation)
	})

	t.Run("Failure - Unknown Feature Option", func(t *testing.T) {
		designService := service.NewDesignService(repoMocks.NewMockDesignRepository(t))

		bad := *req
		bad.Features = models.DesignFeatures{Mounting: "ceiling"}

		_, err := designService.SaveDesign(ctx, customerID, nil, &bad)

		assertAppError(t, err, appErrors.ErrCodeValidation)
	})

	t.Run("Failure - Design No Longer Editable", func(t *testing.T) {
		repo := repoMocks.NewMockDesignRepository(t)
		designService := service.NewDesignService(repo)
		designID := uuid.New()

		repo.On("SaveDraft", ctx, mock.Anything).Return(repository.ErrNotFound).Once()

		_, err := designService.SaveDesign(ctx, customerID, &designID, req)

		assertAppError(t, err, appErrors.ErrCodeNotFound)
	})
}

func TestGetDesign(t *testing.T) {
	ctx := t.Context()
	customerID := uuid.New()
	designID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		repo := repoMocks.NewMockDesignRepository(t)
		designService := service.NewDesignService(repo)

		repo.On("GetDesign", ctx, designID).Return(&models.Design{ID: designID, CustomerID: customerID}, nil).Once()

		design, err := designService.GetDesign(ctx, customerID, designID)

		require.NoError(t, err)
		assert.Equal(t, designID, design.ID)
	})

	t.Run("Failure - Owned By Someone Else", func(t *testing.T) {
		repo := repoMocks.NewMockDesignRepository(t)
		designService := service.NewDesignService(repo)

		repo.On("GetDesign", ctx, designID).Return(&models.Design{ID: designID, CustomerID: uuid.New()}, nil).Once()

		_, err := designService.GetDesign(ctx, customerID, designID)

		assertAppError(t, err, appErrors.ErrCodeNotFound)
	})
}

func TestListDesigns(t *testing.T) {
	ctx := t.Context()
	customerID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		repo := repoMocks.NewMockDesignRepository(t)
		designService := service.NewDesignService(repo)

		repo.On("ListByCustomer", ctx, customerID).Return([]*models.Design{{ID: uuid.New()}}, nil).Once()

		designs, err := designService.ListDesigns(ctx, customerID)

		require.NoError(t, err)
		assert.Len(t, designs, 1)
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		repo := repoMocks.NewMockDesignRepository(t)
		designService := service.NewDesignService(repo)

		repo.On("ListByCustomer", ctx, customerID).Return(nil, errors.New("boom")).Once()

		_, err := designService.ListDesigns(ctx, customerID)

		assertAppError(t, err, appErrors.ErrCodeDatabaseError)
	})
}
