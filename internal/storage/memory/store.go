package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/prathvinaik206-create/farmdirect/internal/models"
	"github.com/prathvinaik206-create/farmdirect/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store keeps every collection in maps guarded by one RWMutex. It backs the
// tests and the "memory" driver for local runs.
type Store struct {
	mu sync.RWMutex

	users    map[string]models.User
	products map[string]models.Product
	orders   []models.Order
}

func NewStore() *Store {
	return &Store{
		users:    make(map[string]models.User),
		products: make(map[string]models.Product),
	}
}

func (s *Store) Close(context.Context) error { return nil }

func (s *Store) CreateUser(_ context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; ok {
		return models.User{}, storage.ErrAlreadyExists
	}
	for _, u := range s.users {
		if u.Username == user.Username {
			return models.User{}, storage.ErrAlreadyExists
		}
	}
	s.users[user.ID] = user
	return user, nil
}

func (s *Store) FindUser(_ context.Context, id string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return u, nil
}

func (s *Store) FindByUsername(_ context.Context, username string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

func (s *Store) UpdateProfile(_ context.Context, id string, update models.ProfileUpdate) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	if update.Name != nil {
		u.Name = *update.Name
	}
	if update.Email != nil {
		u.Email = *update.Email
	}
	if update.Mobile != nil {
		u.Mobile = *update.Mobile
	}
	if update.Address != nil {
		u.Address = *update.Address
	}
	s.users[id] = u
	return u, nil
}

func (s *Store) DeleteUser(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *Store) IncrementCounters(_ context.Context, id string, revenue float64, sales int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	u.Revenue += revenue
	u.Sales += sales
	s.users[id] = u
	return nil
}

func (s *Store) CreateProduct(_ context.Context, product models.Product) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[product.ID]; ok {
		return models.Product{}, storage.ErrAlreadyExists
	}
	s.products[product.ID] = product
	return product, nil
}

func (s *Store) FindProduct(_ context.Context, id string) (models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return models.Product{}, storage.ErrNotFound
	}
	return p, nil
}

func (s *Store) FindProducts(_ context.Context, ids []string) (map[string]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make(map[string]models.Product, len(ids))
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			res[id] = p
		}
	}
	return res, nil
}

func (s *Store) ListProducts(_ context.Context) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		res = append(res, p)
	}
	sortProducts(res)
	return res, nil
}

func (s *Store) ListByFarmer(_ context.Context, farmerID string) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := []models.Product{}
	for _, p := range s.products {
		if p.FarmerID == farmerID {
			res = append(res, p)
		}
	}
	sortProducts(res)
	return res, nil
}

func (s *Store) UpdateProduct(_ context.Context, product models.Product) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[product.ID]; !ok {
		return models.Product{}, storage.ErrNotFound
	}
	s.products[product.ID] = product
	return product, nil
}

func (s *Store) DeleteProduct(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *Store) CreateOrder(_ context.Context, order models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.orders {
		if o.ID == order.ID {
			return storage.ErrAlreadyExists
		}
	}
	s.orders = append(s.orders, cloneOrder(order))
	return nil
}

func (s *Store) OrdersSince(_ context.Context, since time.Time) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := []models.Order{}
	for _, o := range s.orders {
		if !o.CreatedAt.Before(since) {
			res = append(res, cloneOrder(o))
		}
	}
	return res, nil
}

func (s *Store) ListByConsumer(_ context.Context, consumerID string) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := []models.Order{}
	for _, o := range s.orders {
		if o.ConsumerID == consumerID {
			res = append(res, cloneOrder(o))
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].CreatedAt.After(res[j].CreatedAt)
	})
	return res, nil
}

// cloneOrder copies the items so callers never share the store's slices.
func cloneOrder(o models.Order) models.Order {
	o.Items = append([]models.OrderItem(nil), o.Items...)
	return o
}

func sortProducts(products []models.Product) {
	sort.Slice(products, func(i, j int) bool {
		return products[i].ID < products[j].ID
	})
}
