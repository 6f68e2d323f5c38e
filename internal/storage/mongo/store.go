package mongo

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/prathvinaik206-create/farmdirect/internal/db"
	"github.com/prathvinaik206-create/farmdirect/internal/models"
	"github.com/prathvinaik206-create/farmdirect/internal/storage"
)

var _ storage.Store = (*Store)(nil)

const (
	usersCollection    = "users"
	productsCollection = "products"
	ordersCollection   = "orders"

	lookupTimeout = 5 * time.Second
	scanTimeout   = 10 * time.Second
)

// Store persists users, products and orders as MongoDB documents.
type Store struct {
	client   *mongo.Client
	users    *mongo.Collection
	products *mongo.Collection
	orders   *mongo.Collection
}

// NewStore connects to uri, selects database and creates the indexes the
// queries rely on.
func NewStore(ctx context.Context, uri, database string) (*Store, error) {
	client, err := db.Connect(ctx, uri)
	if err != nil {
		return nil, err
	}

	s := newStore(client, client.Database(database))
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

func newStore(client *mongo.Client, database *mongo.Database) *Store {
	return &Store{
		client:   client,
		users:    database.Collection(usersCollection),
		products: database.Collection(productsCollection),
		orders:   database.Collection(ordersCollection),
	}
}

// EnsureIndexes creates necessary indexes for every collection.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, scanTimeout)
	defer cancel()

	indexes := map[*mongo.Collection][]mongo.IndexModel{
		s.users: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		s.products: {
			{Keys: bson.D{{Key: "farmer_id", Value: 1}}},
		},
		s.orders: {
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "consumer_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
	}
	for coll, idx := range indexes {
		if _, err := coll.Indexes().CreateMany(ctx, idx); err != nil {
			log.Printf("Failed to create indexes on %s: %v", coll.Name(), err)
			return fmt.Errorf("failed to create indexes: %w", err)
		}
	}
	return nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	if _, err := s.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

func (s *Store) FindUser(ctx context.Context, id string) (models.User, error) {
	return s.findUser(ctx, bson.M{"_id": id})
}

func (s *Store) FindByUsername(ctx context.Context, username string) (models.User, error) {
	return s.findUser(ctx, bson.M{"username": username})
}

func (s *Store) findUser(ctx context.Context, filter bson.M) (models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	var user models.User
	if err := s.users.FindOne(ctx, filter).Decode(&user); err != nil {
		return models.User{}, notFound(err, "fetch user")
	}
	return user, nil
}

func (s *Store) UpdateProfile(ctx context.Context, id string, update models.ProfileUpdate) (models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	set := bson.M{}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Email != nil {
		set["email"] = *update.Email
	}
	if update.Mobile != nil {
		set["mobile"] = *update.Mobile
	}
	if update.Address != nil {
		set["address"] = *update.Address
	}
	if len(set) == 0 {
		return s.FindUser(ctx, id)
	}

	var user models.User
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := s.users.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&user); err != nil {
		return models.User{}, notFound(err, "update user")
	}
	return user, nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	res, err := s.users.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) IncrementCounters(ctx context.Context, id string, revenue float64, sales int) error {
	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	update := bson.M{"$inc": bson.M{"revenue": revenue, "sales": sales}}
	res, err := s.users.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("increment counters: %w", err)
	}
	if res.MatchedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) CreateProduct(ctx context.Context, product models.Product) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	if _, err := s.products.InsertOne(ctx, product); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.Product{}, storage.ErrAlreadyExists
		}
		return models.Product{}, fmt.Errorf("insert product: %w", err)
	}
	return product, nil
}

func (s *Store) FindProduct(ctx context.Context, id string) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	var product models.Product
	if err := s.products.FindOne(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
		return models.Product{}, notFound(err, "fetch product")
	}
	return product, nil
}

func (s *Store) FindProducts(ctx context.Context, ids []string) (map[string]models.Product, error) {
	res := make(map[string]models.Product, len(ids))
	if len(ids) == 0 {
		return res, nil
	}

	products, err := s.findProducts(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		res[p.ID] = p
	}
	return res, nil
}

func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.findProducts(ctx, bson.M{})
}

func (s *Store) ListByFarmer(ctx context.Context, farmerID string) ([]models.Product, error) {
	return s.findProducts(ctx, bson.M{"farmer_id": farmerID})
}

func (s *Store) findProducts(ctx context.Context, filter bson.M) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, scanTimeout)
	defer cancel()

	cur, err := s.products.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	defer cur.Close(ctx)

	products := []models.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

func (s *Store) UpdateProduct(ctx context.Context, product models.Product) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	res, err := s.products.ReplaceOne(ctx, bson.M{"_id": product.ID}, product)
	if err != nil {
		return models.Product{}, fmt.Errorf("update product: %w", err)
	}
	if res.MatchedCount == 0 {
		return models.Product{}, storage.ErrNotFound
	}
	return product, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	res, err := s.products.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) CreateOrder(ctx context.Context, order models.Order) error {
	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	if _, err := s.orders.InsertOne(ctx, order); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (s *Store) OrdersSince(ctx context.Context, since time.Time) ([]models.Order, error) {
	return s.findOrders(ctx, bson.M{"created_at": bson.M{"$gte": since}}, nil)
}

func (s *Store) ListByConsumer(ctx context.Context, consumerID string) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return s.findOrders(ctx, bson.M{"consumer_id": consumerID}, opts)
}

func (s *Store) findOrders(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, scanTimeout)
	defer cancel()

	var findOpts []*options.FindOptions
	if opts != nil {
		findOpts = append(findOpts, opts)
	}
	cur, err := s.orders.Find(ctx, filter, findOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}
	defer cur.Close(ctx)

	orders := []models.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, nil
}

func notFound(err error, op string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return storage.ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
