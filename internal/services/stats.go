package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/prathvinaik206-create/farmdirect/internal/models"
	"github.com/prathvinaik206-create/farmdirect/internal/pricing"
	"github.com/prathvinaik206-create/farmdirect/internal/storage"
)

type StatsService struct {
	users    storage.UserStore
	products storage.ProductStore
	orders   storage.OrderStore
	now      func() time.Time
}

func NewStatsService(store storage.Store) *StatsService {
	return &StatsService{users: store, products: store, orders: store, now: time.Now}
}

// MonthStart returns midnight on the first day of t's month in t's location.
func MonthStart(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// FarmerStats returns the farmer's all-time accumulators and the revenue and
// units sold since the start of the current calendar month.
func (s *StatsService) FarmerStats(ctx context.Context, farmerID string) (models.FarmerStats, error) {
	ctx, span := tracer.Start(ctx, "StatsService.FarmerStats")
	defer span.End()
	span.SetAttributes(attribute.String("farmer.id", farmerID))

	farmer, err := s.users.FindUser(ctx, farmerID)
	if err != nil {
		return models.FarmerStats{}, storageErr("fetch farmer", err)
	}

	orders, err := s.orders.OrdersSince(ctx, MonthStart(s.now()))
	if err != nil {
		return models.FarmerStats{}, storageErr("fetch monthly orders", err)
	}

	var ids []string
	for _, order := range orders {
		for _, item := range order.Items {
			ids = append(ids, item.ProductID)
		}
	}
	products, err := s.products.FindProducts(ctx, productIDsOf(ids))
	if err != nil {
		return models.FarmerStats{}, storageErr("resolve products", err)
	}

	revenue := decimal.Zero
	sales := 0
	for _, order := range orders {
		for _, item := range order.Items {
			product, ok := products[item.ProductID]
			if !ok || product.FarmerID != farmerID {
				continue
			}
			revenue = revenue.Add(pricing.LineTotal(item))
			sales += item.Quantity
		}
	}
	span.SetAttributes(attribute.Int("stats.orders_scanned", len(orders)))

	return models.FarmerStats{
		MonthlyRevenue: revenue.Round(2).InexactFloat64(),
		MonthlySales:   sales,
		TotalRevenue:   farmer.Revenue,
		TotalSales:     farmer.Sales,
	}, nil
}

func productIDsOf(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
