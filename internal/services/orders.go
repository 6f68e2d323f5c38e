package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/prathvinaik206-create/farmdirect/internal/models"
	"github.com/prathvinaik206-create/farmdirect/internal/notify"
	"github.com/prathvinaik206-create/farmdirect/internal/pricing"
	"github.com/prathvinaik206-create/farmdirect/internal/storage"
	"github.com/prathvinaik206-create/farmdirect/internal/telemetry"
)

var tracer = telemetry.Tracer("github.com/prathvinaik206-create/farmdirect/internal/services")

type PlaceOrderRequest struct {
	ConsumerID  string             `json:"consumerId"`
	Items       []models.OrderItem `json:"items"`
	TotalAmount float64            `json:"totalAmount"`
}

// PlaceOrderResult is the persisted order plus what checkout did with it.
type PlaceOrderResult struct {
	Order models.Order
	// FarmerItems groups the resolved line items by owning farmer.
	FarmerItems map[string][]models.OrderItem
	// Skipped counts line items whose product no longer exists.
	Skipped int
}

type OrderService struct {
	users      storage.UserStore
	products   storage.ProductStore
	orders     storage.OrderStore
	dispatcher *notify.Dispatcher
	now        func() time.Time
}

func NewOrderService(store storage.Store, dispatcher *notify.Dispatcher) *OrderService {
	return &OrderService{
		users:      store,
		products:   store,
		orders:     store,
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

func validateItems(items []models.OrderItem) error {
	if len(items) == 0 {
		return invalid("items are required")
	}
	for i, item := range items {
		switch {
		case strings.TrimSpace(item.ProductID) == "":
			return invalid(fmt.Sprintf("item %d: productId is required", i))
		case item.Quantity <= 0:
			return invalid(fmt.Sprintf("item %d: quantity must be positive", i))
		case item.Price < 0:
			return invalid(fmt.Sprintf("item %d: price must not be negative", i))
		}
	}
	return nil
}

// Quote prices a cart without placing it.
func (s *OrderService) Quote(items []models.OrderItem) (pricing.Quote, error) {
	if err := validateItems(items); err != nil {
		return pricing.Quote{}, err
	}
	return pricing.QuoteItems(items), nil
}

// PlaceOrder persists the order, credits every farmer whose products were
// bought and queues the confirmation and new-order notifications.
//
// The order is written first. Counter updates that follow are independent
// document updates; if one fails the order and earlier updates stay in place.
func (s *OrderService) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (PlaceOrderResult, error) {
	ctx, span := tracer.Start(ctx, "OrderService.PlaceOrder")
	defer span.End()

	if strings.TrimSpace(req.ConsumerID) == "" {
		return PlaceOrderResult{}, invalid("consumerId is required")
	}
	if err := validateItems(req.Items); err != nil {
		return PlaceOrderResult{}, err
	}

	items := make([]models.OrderItem, len(req.Items))
	copy(items, req.Items)

	order := models.Order{
		ID:          uuid.NewString(),
		ConsumerID:  req.ConsumerID,
		Items:       items,
		TotalAmount: req.TotalAmount,
		Status:      models.OrderStatusPlaced,
		CreatedAt:   s.now(),
	}
	span.SetAttributes(
		attribute.String("order.id", order.ID),
		attribute.Int("order.items", len(items)),
	)

	if quote := pricing.QuoteItems(items); !quote.Matches(req.TotalAmount) {
		log.Printf("order %s: submitted total %.2f differs from computed total %.2f", order.ID, req.TotalAmount, quote.Total)
	}

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create order")
		return PlaceOrderResult{}, storageErr("create order", err)
	}

	products, err := s.products.FindProducts(ctx, productIDs(items))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "resolve products")
		return PlaceOrderResult{Order: order}, storageErr("resolve products", err)
	}

	result := PlaceOrderResult{Order: order, FarmerItems: map[string][]models.OrderItem{}}
	for _, item := range items {
		product, ok := products[item.ProductID]
		if !ok {
			result.Skipped++
			log.Printf("order %s: product %s not found, not credited to any farmer", order.ID, item.ProductID)
			continue
		}
		result.FarmerItems[product.FarmerID] = append(result.FarmerItems[product.FarmerID], item)
	}
	span.SetAttributes(
		attribute.Int("order.farmers", len(result.FarmerItems)),
		attribute.Int("order.skipped_items", result.Skipped),
	)

	for _, farmerID := range sortedKeys(result.FarmerItems) {
		farmerItems := result.FarmerItems[farmerID]
		revenue := pricing.Subtotal(farmerItems)
		sales := 0
		for _, item := range farmerItems {
			sales += item.Quantity
		}

		err := s.users.IncrementCounters(ctx, farmerID, revenue.InexactFloat64(), sales)
		switch {
		case err == nil:
		case errors.Is(err, storage.ErrNotFound):
			log.Printf("order %s: farmer %s no longer exists, counters not updated", order.ID, farmerID)
		default:
			span.RecordError(err)
			span.SetStatus(codes.Error, "increment counters")
			return result, storageErr("update farmer "+farmerID, err)
		}
	}

	if s.dispatcher != nil {
		s.queueNotifications(order, result.FarmerItems, products)
	}
	return result, nil
}

// ListByConsumer returns a consumer's order history, newest first.
func (s *OrderService) ListByConsumer(ctx context.Context, consumerID string) ([]models.Order, error) {
	orders, err := s.orders.ListByConsumer(ctx, consumerID)
	if err != nil {
		return nil, storageErr("list orders", err)
	}
	return orders, nil
}

func (s *OrderService) queueNotifications(order models.Order, byFarmer map[string][]models.OrderItem, products map[string]models.Product) {
	s.dispatcher.Go(func(ctx context.Context) {
		var msgs []notify.Message
		consumer, err := s.users.FindUser(ctx, order.ConsumerID)
		if err != nil {
			log.Printf("order %s: cannot notify consumer %s: %v", order.ID, order.ConsumerID, err)
			consumer = models.User{ID: order.ConsumerID, Name: order.ConsumerID}
		} else {
			msgs = append(msgs, confirmationMessage(consumer, order, products))
		}

		for _, farmerID := range sortedKeys(byFarmer) {
			farmer, err := s.users.FindUser(ctx, farmerID)
			if err != nil {
				log.Printf("order %s: cannot notify farmer %s: %v", order.ID, farmerID, err)
				continue
			}
			msgs = append(msgs, newOrderMessage(farmer, consumer, order, byFarmer[farmerID], products))
		}
		if len(msgs) > 0 {
			s.dispatcher.Dispatch(msgs...)
		}
	})
}

func confirmationMessage(consumer models.User, order models.Order, products map[string]models.Product) notify.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\nThank you for your order %s.\n\n", consumer.Name, order.ID)
	writeItems(&b, order.Items, products)
	fmt.Fprintf(&b, "\nTotal: Rs %.2f\n\nFarmDirect", order.TotalAmount)
	return notify.Message{
		To:      consumer.Email,
		Subject: "Order Confirmation - FarmDirect",
		Body:    b.String(),
	}
}

func newOrderMessage(farmer, consumer models.User, order models.Order, items []models.OrderItem, products map[string]models.Product) notify.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\nYou have a new order %s.\n\n", farmer.Name, order.ID)
	writeItems(&b, items, products)
	fmt.Fprintf(&b, "\nAmount: Rs %.2f\n", pricing.Subtotal(items).Round(2).InexactFloat64())
	fmt.Fprintf(&b, "\nCustomer: %s\nEmail: %s\nMobile: %s\nAddress: %s\n", consumer.Name, consumer.Email, consumer.Mobile, consumer.Address)
	return notify.Message{
		To:      farmer.Email,
		Subject: "New Order Received - FarmDirect",
		Body:    b.String(),
	}
}

func writeItems(b *strings.Builder, items []models.OrderItem, products map[string]models.Product) {
	for _, item := range items {
		name := item.ProductID
		unit := ""
		if p, ok := products[item.ProductID]; ok {
			name, unit = p.Name, p.Unit
		}
		line := pricing.LineTotal(item).Round(2)
		fmt.Fprintf(b, "- %s x %d %s @ Rs %s = Rs %s\n", name, item.Quantity, unit,
			decimal.NewFromFloat(item.Price).StringFixed(2), line.StringFixed(2))
	}
}

func productIDs(items []models.OrderItem) []string {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	return productIDsOf(ids)
}

func sortedKeys(m map[string][]models.OrderItem) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
