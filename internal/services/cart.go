package service

import (
	"context"
	stdErrors "errors"

	"github.com/google/uuid"
	"github.com/revorbit/auto-frames/internal/errors"
	"github.com/revorbit/auto-frames/internal/models"
	"github.com/revorbit/auto-frames/internal/pricing"
	repository "github.com/revorbit/auto-frames/internal/repositories"
)

type CartService interface {
	GetCart(ctx context.Context, customerID uuid.UUID) (*models.Cart, error)
	AddItem(ctx context.Context, customerID uuid.UUID, req *models.AddItemRequest) (*models.Cart, error)
	UpdateQuantity(ctx context.Context, customerID, lineID uuid.UUID, req *models.UpdateQuantityRequest) (*models.Cart, error)
	RemoveItem(ctx context.Context, customerID, lineID uuid.UUID) (*models.Cart, error)
	ClearCart(ctx context.Context, customerID uuid.UUID) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{cartRepo: cartRepo, productRepo: productRepo}
}

func (s *cartService) GetCart(ctx context.Context, customerID uuid.UUID) (*models.Cart, error) {

	lines, err := s.cartRepo.ListLines(ctx, customerID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to get cart").WithError(err)
	}

	return buildCart(lines)
}

func buildCart(lines []models.CartLine) (*models.Cart, error) {

	cart := &models.Cart{Lines: lines}

	for _, line := range lines {
		cart.ItemCount += line.Quantity
	}

	// an empty cart has a zero subtotal here, though it cannot be checked out
	if len(lines) == 0 {
		return cart, nil
	}

	subtotal, err := pricing.Subtotal(pricing.CartSource{Lines: lines})
	if err != nil {
		return nil, errors.IncompleteDataError("Cart contains an invalid line").WithError(err)
	}
	cart.Subtotal = subtotal

	return cart, nil
}

// AddItem prices the line from the catalog; a repeated product and note merges into one line.
func (s *cartService) AddItem(ctx context.Context, customerID uuid.UUID, req *models.AddItemRequest) (*models.Cart, error) {

	product, err := s.productRepo.GetProductByID(ctx, req.ProductID)
	if err != nil {
		return nil, repoError(err, "Product not found", "Failed to get product")
	}

	if product.Status != models.ProductStatusActive {
		return nil, errors.BadRequestError("Product is not available")
	}

	line := &models.CartLine{
		ID:                uuid.New(),
		CustomerID:        customerID,
		ProductID:         product.ID,
		Name:              product.Name,
		UnitPrice:         product.Price,
		Quantity:          req.Quantity,
		ImageURL:          product.ImageURL,
		CustomizationNote: sanitizeText(req.CustomizationNote),
	}

	if err := s.cartRepo.UpsertLine(ctx, line); err != nil {
		return nil, errors.DatabaseError("Failed to add item to cart").WithError(err)
	}

	return s.GetCart(ctx, customerID)
}

func (s *cartService) UpdateQuantity(ctx context.Context, customerID, lineID uuid.UUID, req *models.UpdateQuantityRequest) (*models.Cart, error) {

	if req.Quantity == 0 {
		return s.RemoveItem(ctx, customerID, lineID)
	}

	if _, err := s.cartRepo.UpdateQuantity(ctx, customerID, lineID, req.Quantity); err != nil {
		return nil, repoError(err, "Cart item not found", "Failed to update cart item")
	}

	return s.GetCart(ctx, customerID)
}

func (s *cartService) RemoveItem(ctx context.Context, customerID, lineID uuid.UUID) (*models.Cart, error) {

	if err := s.cartRepo.RemoveLine(ctx, customerID, lineID); err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFoundError("Cart item not found").WithError(err)
		}
		return nil, errors.DatabaseError("Failed to remove cart item").WithError(err)
	}

	return s.GetCart(ctx, customerID)
}

func (s *cartService) ClearCart(ctx context.Context, customerID uuid.UUID) error {

	if err := s.cartRepo.Clear(ctx, customerID); err != nil {
		return errors.DatabaseError("Failed to clear cart").WithError(err)
	}

	return nil
}
