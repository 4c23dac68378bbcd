package services

import (
	"fmt"
	"log"
	"sort"
	"strconv"

	"github.com/IaraKrasnoff/OnesToManys/internal/cache"
	"github.com/IaraKrasnoff/OnesToManys/internal/models"
	"github.com/IaraKrasnoff/OnesToManys/internal/repository"
	"github.com/shopspring/decimal"
)

// DatabaseStats is the aggregate view over the whole store. Slices and maps
// are always present, empty when the store is.
type DatabaseStats struct {
	TotalOrders       int                    `json:"total_orders"`
	TotalItems        int                    `json:"total_items"`
	TotalRevenue      decimal.Decimal        `json:"total_revenue"`
	AverageOrderValue decimal.Decimal        `json:"average_order_value"`
	UniqueCustomers   int                    `json:"unique_customers"`
	UniqueProducts    int                    `json:"unique_products"`
	CustomerIDs       []int64                `json:"customer_ids"`
	ProductStats      map[string]ProductStat `json:"product_stats"`
	DateRange         *DateRange             `json:"date_range,omitempty"`
}

type ProductStat struct {
	Quantity int             `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

type DateRange struct {
	EarliestOrder string `json:"earliest_order"`
	LatestOrder   string `json:"latest_order"`
}

// OrderSummary pairs an order and its items with per-order rollups.
type OrderSummary struct {
	Order   models.Order       `json:"order"`
	Items   []models.OrderItem `json:"items"`
	Summary SummaryTotals      `json:"summary"`
}

type SummaryTotals struct {
	TotalItems         int                         `json:"total_items"`
	TotalQuantity      int                         `json:"total_quantity"`
	TotalAmount        decimal.Decimal             `json:"total_amount"`
	ItemCountByProduct map[string]ProductBreakdown `json:"item_count_by_product"`
}

// ProductBreakdown accumulates quantity and line totals per product within a
// single order. The unit price shown is the one from the first line seen.
type ProductBreakdown struct {
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

type ReportService interface {
	GetStats() (*DatabaseStats, error)
	GetOrderSummary(orderID uint) (*OrderSummary, error)
}

type reportService struct {
	orderRepo     repository.OrderRepository
	orderItemRepo repository.OrderItemRepository
	statsCache    *cache.Client
}

func NewReportService(orderRepo repository.OrderRepository, orderItemRepo repository.OrderItemRepository, statsCache *cache.Client) ReportService {
	return &reportService{orderRepo: orderRepo, orderItemRepo: orderItemRepo, statsCache: statsCache}
}

// GetStats aggregates counts, revenue and per-product rollups across the
// store. Results are served from the cache when one is configured; every
// write through the order service invalidates it.
func (s *reportService) GetStats() (*DatabaseStats, error) {
	var cached DatabaseStats
	if hit, err := s.statsCache.GetStats(&cached); err != nil {
		log.Printf("Failed to read stats cache: %v", err)
	} else if hit {
		return &cached, nil
	}

	orders, err := s.orderRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	items, err := s.orderItemRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}

	stats := &DatabaseStats{
		TotalOrders:  len(orders),
		TotalItems:   len(items),
		CustomerIDs:  []int64{},
		ProductStats: map[string]ProductStat{},
	}

	if len(orders) == 0 {
		return stats, nil
	}

	revenue := decimal.Zero
	customers := make(map[int64]struct{})
	earliest := orders[0].OrderDate
	latest := orders[0].OrderDate
	for _, order := range orders {
		revenue = revenue.Add(order.TotalAmount)
		customers[order.CustomerID] = struct{}{}
		if order.OrderDate.Before(earliest.Time) {
			earliest = order.OrderDate
		}
		if order.OrderDate.After(latest.Time) {
			latest = order.OrderDate
		}
	}

	products := make(map[int64]struct{})
	perProduct := make(map[string]ProductStat)
	for _, item := range items {
		products[item.ProductID] = struct{}{}
		key := strconv.FormatInt(item.ProductID, 10)
		stat := perProduct[key]
		stat.Quantity += item.Quantity
		stat.Revenue = stat.Revenue.Add(item.LineTotal)
		perProduct[key] = stat
	}
	for key, stat := range perProduct {
		stat.Revenue = stat.Revenue.Round(2)
		perProduct[key] = stat
	}

	customerIDs := make([]int64, 0, len(customers))
	for id := range customers {
		customerIDs = append(customerIDs, id)
	}
	sort.Slice(customerIDs, func(i, j int) bool { return customerIDs[i] < customerIDs[j] })

	stats.TotalRevenue = revenue.Round(2)
	stats.AverageOrderValue = revenue.Div(decimal.NewFromInt(int64(len(orders)))).Round(2)
	stats.UniqueCustomers = len(customers)
	stats.UniqueProducts = len(products)
	stats.CustomerIDs = customerIDs
	stats.ProductStats = perProduct
	stats.DateRange = &DateRange{
		EarliestOrder: earliest.String(),
		LatestOrder:   latest.String(),
	}

	if err := s.statsCache.SetStats(stats); err != nil {
		log.Printf("Failed to write stats cache: %v", err)
	}
	return stats, nil
}

// GetOrderSummary returns one order with its items and per-product totals.
func (s *reportService) GetOrderSummary(orderID uint) (*OrderSummary, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	items, err := s.orderItemRepo.GetByOrderID(orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load items for order %d: %w", orderID, err)
	}

	totalQuantity := 0
	byProduct := make(map[string]ProductBreakdown)
	for _, item := range items {
		totalQuantity += item.Quantity

		key := strconv.FormatInt(item.ProductID, 10)
		if existing, ok := byProduct[key]; ok {
			existing.Quantity += item.Quantity
			existing.Total = existing.Total.Add(item.LineTotal)
			byProduct[key] = existing
		} else {
			byProduct[key] = ProductBreakdown{
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
				Total:     item.LineTotal,
			}
		}
	}

	return &OrderSummary{
		Order: *order,
		Items: items,
		Summary: SummaryTotals{
			TotalItems:         len(items),
			TotalQuantity:      totalQuantity,
			TotalAmount:        order.TotalAmount,
			ItemCountByProduct: byProduct,
		},
	}, nil
}
