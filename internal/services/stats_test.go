package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prathvinaik206-create/farmdirect/internal/models"
	"github.com/prathvinaik206-create/farmdirect/internal/storage"
	"github.com/prathvinaik206-create/farmdirect/internal/storage/memory"
)

func TestMonthStart(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	got := MonthStart(time.Date(2026, 10, 17, 15, 4, 5, 6, loc))
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, loc), got)
}

func TestFarmerStatsZeroMonth(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	seedUser(t, store, "f1", models.RoleFarmer)
	require.NoError(t, store.IncrementCounters(ctx, "f1", 420, 12))

	svc := NewStatsService(store)
	stats, err := svc.FarmerStats(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, models.FarmerStats{MonthlyRevenue: 0, MonthlySales: 0, TotalRevenue: 420, TotalSales: 12}, stats)
}

func TestFarmerStatsCountsOnlyThisMonthAndOwnProducts(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	seedUser(t, store, "f1", models.RoleFarmer)
	seedUser(t, store, "f2", models.RoleFarmer)
	seedProduct(t, store, "p1", "f1", 50)
	seedProduct(t, store, "p2", "f2", 30)

	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.Local)
	start := MonthStart(now)
	orders := []models.Order{
		{ID: "last-month", CreatedAt: start.Add(-time.Second), Items: []models.OrderItem{{ProductID: "p1", Quantity: 10, Price: 50}}},
		{ID: "at-boundary", CreatedAt: start, Items: []models.OrderItem{{ProductID: "p1", Quantity: 1, Price: 45.5}}},
		{ID: "mixed", CreatedAt: now, Items: []models.OrderItem{
			{ProductID: "p1", Quantity: 2, Price: 50},
			{ProductID: "p2", Quantity: 4, Price: 30},
			{ProductID: "ghost", Quantity: 1, Price: 99},
		}},
	}
	for _, o := range orders {
		require.NoError(t, store.CreateOrder(ctx, o))
	}

	svc := NewStatsService(store)
	svc.now = func() time.Time { return now }

	stats, err := svc.FarmerStats(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, 145.5, stats.MonthlyRevenue)
	assert.Equal(t, 3, stats.MonthlySales)

	stats, err = svc.FarmerStats(ctx, "f2")
	require.NoError(t, err)
	assert.Equal(t, 120.0, stats.MonthlyRevenue)
	assert.Equal(t, 4, stats.MonthlySales)
}

func TestFarmerStatsAfterCheckout(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	seedUser(t, store, "f1", models.RoleFarmer)
	seedProduct(t, store, "p1", "f1", 50)

	orders := NewOrderService(store, nil)
	_, err := orders.PlaceOrder(ctx, PlaceOrderRequest{
		ConsumerID:  "c1",
		Items:       []models.OrderItem{{ProductID: "p1", Quantity: 2, Price: 50}},
		TotalAmount: 100,
	})
	require.NoError(t, err)

	stats, err := NewStatsService(store).FarmerStats(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, models.FarmerStats{MonthlyRevenue: 100, MonthlySales: 2, TotalRevenue: 100, TotalSales: 2}, stats)
}

func TestFarmerStatsErrors(t *testing.T) {
	store := memory.NewStore()
	_, err := NewStatsService(store).FarmerStats(context.Background(), "nobody")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	seedUser(t, store, "f1", models.RoleFarmer)
	failing := &failingStore{Store: store, failOrdersSince: true}
	_, err = NewStatsService(failing).FarmerStats(context.Background(), "f1")
	assert.ErrorIs(t, err, ErrStorage)
}
