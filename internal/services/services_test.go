package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/prathvinaik206-create/farmdirect/internal/models"
	"github.com/prathvinaik206-create/farmdirect/internal/notify"
	"github.com/prathvinaik206-create/farmdirect/internal/storage"
	"github.com/prathvinaik206-create/farmdirect/internal/storage/memory"
)

var errBoom = errors.New("boom")

// recorder collects every message handed to the notifier.
type recorder struct {
	mu   sync.Mutex
	msgs []notify.Message
}

func (r *recorder) Send(_ context.Context, msg notify.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
	return nil
}

func (r *recorder) sent() []notify.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Message(nil), r.msgs...)
}

// failingStore wraps the memory store and fails selected operations.
type failingStore struct {
	*memory.Store
	failCreateOrder bool
	failIncrement   bool
	failOrdersSince bool
}

func (f *failingStore) CreateOrder(ctx context.Context, order models.Order) error {
	if f.failCreateOrder {
		return errBoom
	}
	return f.Store.CreateOrder(ctx, order)
}

func (f *failingStore) IncrementCounters(ctx context.Context, id string, revenue float64, sales int) error {
	if f.failIncrement {
		return errBoom
	}
	return f.Store.IncrementCounters(ctx, id, revenue, sales)
}

func (f *failingStore) OrdersSince(ctx context.Context, since time.Time) ([]models.Order, error) {
	if f.failOrdersSince {
		return nil, errBoom
	}
	return f.Store.OrdersSince(ctx, since)
}

var _ storage.Store = (*failingStore)(nil)

func seedUser(t *testing.T, s storage.UserStore, id, role string) models.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), models.User{
		ID:       id,
		Role:     role,
		Name:     "Name " + id,
		Email:    id + "@farmdirect.in",
		Username: "user_" + id,
		Mobile:   "98765" + id,
		Address:  "Address " + id,
	})
	require.NoError(t, err)
	return u
}

func seedProduct(t *testing.T, s storage.ProductStore, id, farmerID string, price float64) models.Product {
	t.Helper()
	p, err := s.CreateProduct(context.Background(), models.Product{
		ID:       id,
		FarmerID: farmerID,
		Name:     "Product " + id,
		Price:    price,
		Unit:     "kg",
	})
	require.NoError(t, err)
	return p
}
