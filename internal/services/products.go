package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/prathvinaik206-create/farmdirect/internal/models"
	"github.com/prathvinaik206-create/farmdirect/internal/storage"
)

type CreateProductRequest struct {
	FarmerID    string  `json:"farmerId"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Unit        string  `json:"unit"`
	Description string  `json:"description"`
	Pincode     string  `json:"pincode"`
	Image       string  `json:"image"`
}

// ProductUpdate holds the editable listing fields. Nil fields are kept.
type ProductUpdate struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	Unit        *string  `json:"unit"`
	Description *string  `json:"description"`
	Pincode     *string  `json:"pincode"`
	Image       *string  `json:"image"`
}

type ProductService struct {
	users    storage.UserStore
	products storage.ProductStore
}

func NewProductService(store storage.Store) *ProductService {
	return &ProductService{users: store, products: store}
}

// Create lists a product for a farmer, copying the farmer's current name and
// address onto the listing.
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (models.Product, error) {
	if strings.TrimSpace(req.FarmerID) == "" || strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Unit) == "" {
		return models.Product{}, invalid("farmerId, name and unit are required")
	}
	if req.Price <= 0 {
		return models.Product{}, invalid("price must be positive")
	}

	farmer, err := s.users.FindUser(ctx, req.FarmerID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Product{}, invalid("invalid farmer id")
		}
		return models.Product{}, storageErr("fetch farmer", err)
	}
	if !farmer.IsFarmer() {
		return models.Product{}, invalid("invalid farmer id")
	}

	product := models.Product{
		ID:            uuid.NewString(),
		FarmerID:      farmer.ID,
		FarmerName:    farmer.Name,
		FarmerAddress: farmer.Address,
		Name:          req.Name,
		Price:         req.Price,
		Unit:          req.Unit,
		Description:   req.Description,
		Pincode:       req.Pincode,
		Image:         req.Image,
	}
	created, err := s.products.CreateProduct(ctx, product)
	if err != nil {
		return models.Product{}, storageErr("create product", err)
	}
	return created, nil
}

func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	products, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, storageErr("list products", err)
	}
	return products, nil
}

func (s *ProductService) ListByFarmer(ctx context.Context, farmerID string) ([]models.Product, error) {
	products, err := s.products.ListByFarmer(ctx, farmerID)
	if err != nil {
		return nil, storageErr("list farmer products", err)
	}
	return products, nil
}

// Update edits a listing owned by callerID.
func (s *ProductService) Update(ctx context.Context, callerID, id string, update ProductUpdate) (models.Product, error) {
	product, err := s.owned(ctx, callerID, id)
	if err != nil {
		return models.Product{}, err
	}

	if update.Name != nil {
		product.Name = *update.Name
	}
	if update.Price != nil {
		if *update.Price <= 0 {
			return models.Product{}, invalid("price must be positive")
		}
		product.Price = *update.Price
	}
	if update.Unit != nil {
		product.Unit = *update.Unit
	}
	if update.Description != nil {
		product.Description = *update.Description
	}
	if update.Pincode != nil {
		product.Pincode = *update.Pincode
	}
	if update.Image != nil {
		product.Image = *update.Image
	}
	if strings.TrimSpace(product.Name) == "" || strings.TrimSpace(product.Unit) == "" {
		return models.Product{}, invalid("name and unit must not be empty")
	}

	updated, err := s.products.UpdateProduct(ctx, product)
	if err != nil {
		return models.Product{}, storageErr("update product", err)
	}
	return updated, nil
}

// Delete removes a listing owned by callerID.
func (s *ProductService) Delete(ctx context.Context, callerID, id string) error {
	if _, err := s.owned(ctx, callerID, id); err != nil {
		return err
	}
	if err := s.products.DeleteProduct(ctx, id); err != nil {
		return storageErr("delete product", err)
	}
	return nil
}

func (s *ProductService) owned(ctx context.Context, callerID, id string) (models.Product, error) {
	product, err := s.products.FindProduct(ctx, id)
	if err != nil {
		return models.Product{}, storageErr("fetch product", err)
	}
	if product.FarmerID != callerID {
		return models.Product{}, ErrForbidden
	}
	return product, nil
}
