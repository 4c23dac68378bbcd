package main

import (
	"fmt"
	"os"

	"github.com/IaraKrasnoff/OnesToManys/internal/config"
	"github.com/IaraKrasnoff/OnesToManys/internal/database"
	"github.com/IaraKrasnoff/OnesToManys/internal/repository"
	"github.com/IaraKrasnoff/OnesToManys/internal/services"
)

// datamanager is the file-based counterpart of the HTTP transfer endpoints:
// it exports, imports and backs up the orders database from the shell.
func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: datamanager [export-json|export-sql|import-json|backup|info] [filename]")
		os.Exit(1)
	}

	command := os.Args[1]
	filename := ""
	if len(os.Args) > 2 {
		filename = os.Args[2]
	}

	cfg := config.Load()
	db, err := database.Initialize(cfg)
	if err != nil {
		fmt.Println("Failed to connect to database:", err)
		os.Exit(1)
	}

	orderRepo := repository.NewOrderRepository(db)
	orderItemRepo := repository.NewOrderItemRepository(db)
	orderService := services.NewOrderService(orderRepo, orderItemRepo, nil)
	transferService := services.NewTransferService(orderRepo, orderItemRepo, orderService, cfg.DBDriver, cfg.DBSource)

	switch command {
	case "export-json":
		doc, path, err := transferService.ExportJSONToFile(filename)
		if err != nil {
			fail(err)
		}
		totalItems := 0
		for _, entry := range doc.Data {
			totalItems += len(entry.Items)
		}
		fmt.Printf("Data exported to %s\n", path)
		fmt.Printf("Exported %d orders with %d items\n", doc.TotalOrders, totalItems)

	case "export-sql":
		_, path, err := transferService.ExportSQLToFile(filename)
		if err != nil {
			fail(err)
		}
		fmt.Printf("SQL export completed: %s\n", path)

	case "import-json":
		if filename == "" {
			fmt.Println("Filename required for import")
			os.Exit(1)
		}
		result, err := transferService.ImportFromFile(filename)
		if err != nil {
			fmt.Printf("Import failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Import completed successfully:")
		fmt.Printf("Imported %d orders\n", result.ImportedOrders)
		fmt.Printf("Imported %d items\n", result.ImportedItems)

	case "backup":
		path, err := transferService.Backup(filename)
		if err != nil {
			fail(err)
		}
		fmt.Printf("Database backed up to: %s\n", path)

	case "info":
		info, err := transferService.Info()
		if err != nil {
			fail(err)
		}
		fmt.Println("\nDatabase Information:")
		fmt.Printf("  status: %s\n", info.Status)
		fmt.Printf("  total_orders: %d\n", info.TotalOrders)
		fmt.Printf("  total_items: %d\n", info.TotalItems)
		if info.TotalRevenue != nil {
			fmt.Printf("  total_revenue: %s\n", info.TotalRevenue.StringFixed(2))
		}
		if info.DateRange != nil {
			fmt.Printf("  date_range: %s to %s\n", info.DateRange.Earliest, info.DateRange.Latest)
		}
		fmt.Printf("  database_file: %s\n", info.DatabaseFile)
		if info.Status == "active" {
			fmt.Printf("  customer_count: %d\n", info.CustomerCount)
			fmt.Printf("  product_count: %d\n", info.ProductCount)
		}

	default:
		fmt.Println("Unknown command. Available: export-json, export-sql, import-json, backup, info")
		os.Exit(1)
	}
}

func fail(err error) {
	fmt.Println("Error:", err)
	os.Exit(1)
}
