package migrations

import (
	"log"
	"time"

	"github.com/IaraKrasnoff/OnesToManys/internal/models"
	"github.com/IaraKrasnoff/OnesToManys/internal/repository"
	"github.com/IaraKrasnoff/OnesToManys/internal/services"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RunMigrations recreates the schema from scratch and loads the sample
// dataset. Meant for the seed script, not the server: it drops both tables.
func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	log.Println("Dropping existing tables...")
	err := db.Migrator().DropTable(
		&models.OrderItem{},
		&models.Order{},
	)
	if err != nil {
		log.Printf("Warning: Error dropping tables: %v", err)
	}

	log.Println("Creating tables...")
	err = db.AutoMigrate(
		&models.Order{},
		&models.OrderItem{},
	)
	if err != nil {
		return err
	}

	if err := SeedSampleData(db); err != nil {
		log.Printf("Warning: Failed to create sample data: %v", err)
	}

	log.Println("Database migrations completed successfully!")
	return nil
}

// SeedSampleData loads a small set of orders and items through the service
// layer, so order totals are derived exactly as they are in production.
func SeedSampleData(db *gorm.DB) error {
	log.Println("Creating sample orders...")

	orderRepo := repository.NewOrderRepository(db)
	orderItemRepo := repository.NewOrderItemRepository(db)
	orderService := services.NewOrderService(orderRepo, orderItemRepo, nil)

	orders := []*models.Order{
		{CustomerID: 101, OrderDate: models.NewDate(2025, time.August, 10)},
		{CustomerID: 102, OrderDate: models.NewDate(2025, time.August, 11)},
		{CustomerID: 103, OrderDate: models.NewDate(2025, time.August, 12)},
	}
	for _, order := range orders {
		if err := orderService.CreateOrder(order); err != nil {
			return err
		}
		log.Printf("Created order %d for customer %d", order.OrderID, order.CustomerID)
	}

	log.Println("Creating sample order items...")

	items := []struct {
		order     *models.Order
		productID int64
		quantity  int
		unitPrice decimal.Decimal
	}{
		{orders[0], 501, 2, decimal.NewFromFloat(10.50)},
		{orders[0], 502, 1, decimal.NewFromFloat(25.00)},
		{orders[1], 503, 3, decimal.NewFromFloat(15.75)},
		{orders[1], 504, 1, decimal.NewFromFloat(32.99)},
		{orders[1], 505, 2, decimal.NewFromFloat(8.50)},
		{orders[2], 506, 4, decimal.NewFromFloat(12.25)},
		{orders[2], 507, 1, decimal.NewFromFloat(45.00)},
	}
	for _, seed := range items {
		item := &models.OrderItem{
			ProductID: seed.productID,
			Quantity:  seed.quantity,
			UnitPrice: seed.unitPrice,
		}
		if err := orderService.AddItemToOrder(seed.order.OrderID, item); err != nil {
			return err
		}
		log.Printf("Created order item %d: Product %d (qty: %d, price: $%s, total: $%s)",
			item.OrderItemID, item.ProductID, item.Quantity,
			item.UnitPrice.StringFixed(2), item.LineTotal.StringFixed(2))
	}

	log.Println("Sample data created successfully!")
	log.Println("Summary:")
	for _, order := range orders {
		updated, err := orderService.GetOrderByID(order.OrderID)
		if err != nil || updated == nil {
			continue
		}
		orderItems, err := orderService.GetOrderItems(order.OrderID)
		if err != nil {
			return err
		}
		log.Printf("Order %d: Customer %d, Total: $%s, Items: %d",
			updated.OrderID, updated.CustomerID, updated.TotalAmount.StringFixed(2), len(orderItems))
	}
	return nil
}
