package models

import (
	"time"
)

const OrderStatusPlaced = "placed"

// OrderItem is one line of an order. Price is the unit price at checkout time.
type OrderItem struct {
	ProductID string  `bson:"product_id" json:"productId"`
	Quantity  int     `bson:"quantity" json:"quantity"`
	Price     float64 `bson:"price" json:"price"`
}

// Order is written once at checkout and never modified.
type Order struct {
	ID          string      `bson:"_id" json:"id"`
	ConsumerID  string      `bson:"consumer_id" json:"consumerId"`
	Items       []OrderItem `bson:"items" json:"items"`
	TotalAmount float64     `bson:"total_amount" json:"totalAmount"`
	Status      string      `bson:"status" json:"status"`
	CreatedAt   time.Time   `bson:"created_at" json:"createdAt"`
}

// FarmerStats is the dashboard summary for a single farmer.
type FarmerStats struct {
	MonthlyRevenue float64 `json:"monthlyRevenue"`
	MonthlySales   int     `json:"monthlySales"`
	TotalRevenue   float64 `json:"totalRevenue"`
	TotalSales     int     `json:"totalSales"`
}
