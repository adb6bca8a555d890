package service_test

import (
	"errors"
	"testing"

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

func assertAppError(t *testing.T, err error, code string) {
	t.Helper()

	appErr, ok := appErrors.IsAppError(err)
	require.True(t, ok, "expected an AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
}

func TestCreateProduct(t *testing.T) {
	ctx := t.Context()

	req := &models.CreateProductRequest{
		ID:          "walnut-square-12",
		Name:        "Walnut Square 12in",
		Description: "Solid walnut <script>alert(1)</script>frame",
		Category:    "wall-frames",
		Price:       decimal.NewFromInt(1499),
	}

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockRepo := repoMocks.NewMockProductRepository(t)
		productService := service.NewProductService(mockRepo)

		mockRepo.On("CreateProduct", ctx, mock.MatchedBy(func(p *models.Product) bool {
			return p.ID == req.ID && p.Status == models.ProductStatusActive && p.Price.Equal(req.Price)
		})).Return(nil).Once()

		// Act
		product, err := productService.CreateProduct(ctx, req)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "Solid walnut frame", product.Description)
	})

	t.Run("Failure - Negative Price", func(t *testing.T) {
		mockRepo := repoMocks.NewMockProductRepository(t)
		productService := service.NewProductService(mockRepo)

		bad := *req
		bad.Price = decimal.NewFromInt(-1)

		product, err := productService.CreateProduct(ctx, &bad)

		assert.Nil(t, product)
		assertAppError(t, err, appErrors.ErrCodeValidation)
	})

	t.Run("Failure - Duplicate ID", func(t *testing.T) {
		mockRepo := repoMocks.NewMockProductRepository(t)
		productService := service.NewProductService(mockRepo)

		mockRepo.On("CreateProduct", ctx, mock.Anything).Return(repository.ErrDuplicate).Once()

		product, err := productService.CreateProduct(ctx, req)

		assert.Nil(t, product)
		assertAppError(t, err, appErrors.ErrCodeDuplicateEntry)
	})
}

func TestGetProductByID(t *testing.T) {
	ctx := t.Context()

	t.Run("Success", func(t *testing.T) {
		mockRepo := repoMocks.NewMockProductRepository(t)
		productService := service.NewProductService(mockRepo)

		expected := &models.Product{ID: "classic-black-a4", Name: "Classic Black A4"}
		mockRepo.On("GetProductByID", ctx, "classic-black-a4").Return(expected, nil).Once()

		product, err := productService.GetProductByID(ctx, "classic-black-a4")

		require.NoError(t, err)
		assert.Equal(t, expected, product)
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		mockRepo := repoMocks.NewMockProductRepository(t)
		productService := service.NewProductService(mockRepo)

		mockRepo.On("GetProductByID", ctx, "missing").Return(nil, repository.ErrNotFound).Once()

		product, err := productService.GetProductByID(ctx, "missing")

		assert.Nil(t, product)
		assertAppError(t, err, appErrors.ErrCodeNotFound)
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		mockRepo := repoMocks.NewMockProductRepository(t)
		productService := service.NewProductService(mockRepo)

		mockRepo.On("GetProductByID", ctx, "classic-black-a4").Return(nil, errors.New("connection reset")).Once()

		_, err := productService.GetProductByID(ctx, "classic-black-a4")

		assertAppError(t, err, appErrors.ErrCodeDatabaseError)
	})
}

func TestUpdateProduct(t *testing.T) {
	ctx := t.Context()

	t.Run("Success - Partial Update", func(t *testing.T) {
		mockRepo := repoMocks.NewMockProductRepository(t)
		productService := service.NewProductService(mockRepo)

		existing := &models.Product{ID: "classic-black-a4", Name: "Classic Black A4", Price: decimal.NewFromInt(899), Status: models.ProductStatusActive}
		newPrice := decimal.NewFromInt(999)
		inactive := models.ProductStatusInactive

		mockRepo.On("GetProductByID", ctx, existing.ID).Return(existing, nil).Once()
		mockRepo.On("UpdateProduct", ctx, mock.MatchedBy(func(p *models.Product) bool {
			return p.Price.Equal(newPrice) && p.Status == inactive && p.Name == "Classic Black A4"
		})).Return(nil).Once()

		product, err := productService.UpdateProduct(ctx, existing.ID, &models.UpdateProductRequest{Price: &newPrice, Status: &inactive})

		require.NoError(t, err)
		assert.Equal(t, inactive, product.Status)
	})

	t.Run("Failure - Negative Price", func(t *testing.T) {
		mockRepo := repoMocks.NewMockProductRepository(t)
		productService := service.NewProductService(mockRepo)

		negative := decimal.NewFromInt(-5)
		mockRepo.On("GetProductByID", ctx, "classic-black-a4").Return(&models.Product{ID: "classic-black-a4"}, nil).Once()

		_, err := productService.UpdateProduct(ctx, "classic-black-a4", &models.UpdateProductRequest{Price: &negative})

		assertAppError(t, err, appErrors.ErrCodeValidation)
	})
}

func TestListProducts(t *testing.T) {
	ctx := t.Context()

	t.Run("Success - Page Size Is Clamped", func(t *testing.T) {
		mockRepo := repoMocks.NewMockProductRepository(t)
		productService := service.NewProductService(mockRepo)

		products := []*models.Product{{ID: "classic-black-a4"}}
		mockRepo.On("ListProducts", ctx, 1, 50).Return(products, 1, nil).Once()

		result, total, err := productService.ListProducts(ctx, 0, 500)

		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Len(t, result, 1)
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		mockRepo := repoMocks.NewMockProductRepository(t)
		productService := service.NewProductService(mockRepo)

		mockRepo.On("ListProducts", ctx, 2, 10).Return(nil, 0, errors.New("timeout")).Once()

		_, _, err := productService.ListProducts(ctx, 2, 10)

		assertAppError(t, err, appErrors.ErrCodeDatabaseError)
	})
}
