package storage

import (
	"context"
	"errors"
	"time"

	"github.com/prathvinaik206-create/farmdirect/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// UserStore is the account ledger: user records plus the farmer accumulators.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUser(ctx context.Context, id string) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	UpdateProfile(ctx context.Context, id string, update models.ProfileUpdate) (models.User, error)
	DeleteUser(ctx context.Context, id string) error
	// IncrementCounters adds to a farmer's revenue and sales in a single
	// document update.
	IncrementCounters(ctx context.Context, id string, revenue float64, sales int) error
}

// ProductStore is the product catalog.
type ProductStore interface {
	CreateProduct(ctx context.Context, product models.Product) (models.Product, error)
	FindProduct(ctx context.Context, id string) (models.Product, error)
	// FindProducts returns the products that exist among ids, keyed by id.
	// Unknown ids are absent from the map rather than reported as errors.
	FindProducts(ctx context.Context, ids []string) (map[string]models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListByFarmer(ctx context.Context, farmerID string) ([]models.Product, error)
	UpdateProduct(ctx context.Context, product models.Product) (models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// OrderStore persists checkout results.
type OrderStore interface {
	CreateOrder(ctx context.Context, order models.Order) error
	// OrdersSince returns orders with CreatedAt >= since.
	OrdersSince(ctx context.Context, since time.Time) ([]models.Order, error)
	// ListByConsumer returns a consumer's orders, newest first.
	ListByConsumer(ctx context.Context, consumerID string) ([]models.Order, error)
}

// Store bundles every collection the API needs.
type Store interface {
	UserStore
	ProductStore
	OrderStore
	Close(ctx context.Context) error
}
