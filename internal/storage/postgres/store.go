package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prathvinaik206-create/farmdirect/internal/models"
	"github.com/prathvinaik206-create/farmdirect/internal/storage"
)

// Ensure Store satisfies the storage.Store interface at compile time.
var _ storage.Store = (*Store)(nil)

const uniqueViolation = "23505"

// Store provides Postgres-backed persistence. Order line items live in a
// JSONB column so an order stays a single row.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store and runs migrations.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close(context.Context) error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			role TEXT NOT NULL,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			username TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			mobile TEXT NOT NULL,
			address TEXT NOT NULL DEFAULT '',
			ratings DOUBLE PRECISION NOT NULL DEFAULT 0,
			revenue NUMERIC(24,2) NOT NULL DEFAULT 0,
			sales BIGINT NOT NULL DEFAULT 0,
			joined_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			farmer_id TEXT NOT NULL,
			farmer_name TEXT NOT NULL,
			farmer_address TEXT NOT NULL DEFAULT '',
			name TEXT NOT NULL,
			price NUMERIC(12,2) NOT NULL,
			unit TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			pincode TEXT NOT NULL DEFAULT '',
			image TEXT NOT NULL DEFAULT '',
			rating DOUBLE PRECISION NOT NULL DEFAULT 0
		);`,
		`CREATE INDEX IF NOT EXISTS products_farmer_idx ON products (farmer_id);`,
		`CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			consumer_id TEXT NOT NULL,
			items JSONB NOT NULL,
			total_amount NUMERIC(24,2) NOT NULL,
			status TEXT NOT NULL DEFAULT 'placed',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS orders_created_idx ON orders (created_at DESC);`,
		`CREATE INDEX IF NOT EXISTS orders_consumer_idx ON orders (consumer_id, created_at DESC);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

const userColumns = `id, role, name, email, username, password_hash, mobile, address, ratings, revenue, sales, joined_at`

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	const query = `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + userColumns
	row := s.pool.QueryRow(ctx, query, user.ID, user.Role, user.Name, user.Email, user.Username,
		user.PasswordHash, user.Mobile, user.Address, user.Ratings, user.Revenue, user.Sales, user.JoinedAt)
	created, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, err
	}
	return created, nil
}

// FindUser fetches a user by id.
func (s *Store) FindUser(ctx context.Context, id string) (models.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// FindByUsername fetches a user by username.
func (s *Store) FindByUsername(ctx context.Context, username string) (models.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	return scanUser(row)
}

// UpdateProfile applies the non-nil fields of update.
func (s *Store) UpdateProfile(ctx context.Context, id string, update models.ProfileUpdate) (models.User, error) {
	const query = `
		UPDATE users SET
			name = COALESCE($2, name),
			email = COALESCE($3, email),
			mobile = COALESCE($4, mobile),
			address = COALESCE($5, address)
		WHERE id = $1
		RETURNING ` + userColumns
	row := s.pool.QueryRow(ctx, query, id, update.Name, update.Email, update.Mobile, update.Address)
	return scanUser(row)
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// IncrementCounters bumps revenue and sales in one statement.
func (s *Store) IncrementCounters(ctx context.Context, id string, revenue float64, sales int) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET revenue = revenue + $2, sales = sales + $3 WHERE id = $1`, id, revenue, sales)
	if err != nil {
		return fmt.Errorf("increment counters: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

const productColumns = `id, farmer_id, farmer_name, farmer_address, name, price, unit, description, pincode, image, rating`

func (s *Store) CreateProduct(ctx context.Context, product models.Product) (models.Product, error) {
	const query = `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + productColumns
	row := s.pool.QueryRow(ctx, query, productArgs(product)...)
	created, err := scanProduct(row)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Product{}, storage.ErrAlreadyExists
		}
		return models.Product{}, err
	}
	return created, nil
}

func (s *Store) FindProduct(ctx context.Context, id string) (models.Product, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	return scanProduct(row)
}

func (s *Store) FindProducts(ctx context.Context, ids []string) (map[string]models.Product, error) {
	res := make(map[string]models.Product, len(ids))
	if len(ids) == 0 {
		return res, nil
	}
	products, err := s.queryProducts(ctx, `SELECT `+productColumns+` FROM products WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		res[p.ID] = p
	}
	return res, nil
}

func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.queryProducts(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
}

func (s *Store) ListByFarmer(ctx context.Context, farmerID string) ([]models.Product, error) {
	return s.queryProducts(ctx, `SELECT `+productColumns+` FROM products WHERE farmer_id = $1 ORDER BY id`, farmerID)
}

func (s *Store) UpdateProduct(ctx context.Context, product models.Product) (models.Product, error) {
	const query = `
		UPDATE products SET
			farmer_id = $2, farmer_name = $3, farmer_address = $4, name = $5, price = $6,
			unit = $7, description = $8, pincode = $9, image = $10, rating = $11
		WHERE id = $1
		RETURNING ` + productColumns
	row := s.pool.QueryRow(ctx, query, productArgs(product)...)
	return scanProduct(row)
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) queryProducts(ctx context.Context, query string, args ...any) ([]models.Product, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

const orderColumns = `id, consumer_id, items, total_amount, status, created_at`

func (s *Store) CreateOrder(ctx context.Context, order models.Order) error {
	const query = `INSERT INTO orders (` + orderColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := s.pool.Exec(ctx, query, order.ID, order.ConsumerID, order.Items, order.TotalAmount, order.Status, order.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (s *Store) OrdersSince(ctx context.Context, since time.Time) ([]models.Order, error) {
	return s.queryOrders(ctx, `SELECT `+orderColumns+` FROM orders WHERE created_at >= $1`, since)
}

func (s *Store) ListByConsumer(ctx context.Context, consumerID string) ([]models.Order, error) {
	return s.queryOrders(ctx, `SELECT `+orderColumns+` FROM orders WHERE consumer_id = $1 ORDER BY created_at DESC`, consumerID)
}

func (s *Store) queryOrders(ctx context.Context, query string, args ...any) ([]models.Order, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.ConsumerID, &o.Items, &o.TotalAmount, &o.Status, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func productArgs(p models.Product) []any {
	return []any{p.ID, p.FarmerID, p.FarmerName, p.FarmerAddress, p.Name, p.Price, p.Unit, p.Description, p.Pincode, p.Image, p.Rating}
}

func scanUser(row pgx.Row) (models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Role, &u.Name, &u.Email, &u.Username, &u.PasswordHash, &u.Mobile,
		&u.Address, &u.Ratings, &u.Revenue, &u.Sales, &u.JoinedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	return u, nil
}

func scanProduct(row pgx.Row) (models.Product, error) {
	var p models.Product
	if err := row.Scan(&p.ID, &p.FarmerID, &p.FarmerName, &p.FarmerAddress, &p.Name, &p.Price, &p.Unit,
		&p.Description, &p.Pincode, &p.Image, &p.Rating); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Product{}, storage.ErrNotFound
		}
		return models.Product{}, err
	}
	return p, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
