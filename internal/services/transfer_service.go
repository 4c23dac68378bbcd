package services

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/IaraKrasnoff/OnesToManys/internal/models"
	"github.com/IaraKrasnoff/OnesToManys/internal/repository"
	"github.com/shopspring/decimal"
)

// ExportDocument is the interchange format for bulk transfer: one entry per
// order, each pairing the order with its items in ascending id order.
type ExportDocument struct {
	ExportDate  string        `json:"export_date"`
	TotalOrders int           `json:"total_orders"`
	Data        []ExportEntry `json:"data"`
}

type ExportEntry struct {
	Order models.Order       `json:"order"`
	Items []models.OrderItem `json:"items"`
}

// SQLExport carries the same graph rendered as executable SQL, both as
// individual statements and as one joined script.
type SQLExport struct {
	ExportDate string   `json:"export_date"`
	Statements []string `json:"sql_statements"`
	Content    string   `json:"sql_content"`
}

// ImportDocument mirrors ExportDocument on the way back in. Pointer and slice
// fields distinguish a missing sub-field from an empty one.
type ImportDocument struct {
	ExportDate  string        `json:"export_date"`
	TotalOrders int           `json:"total_orders"`
	Data        []ImportEntry `json:"data"`
}

type ImportEntry struct {
	Order *ImportOrder `json:"order"`
	Items []ImportItem `json:"items"`
}

// ImportOrder carries only the fields the import honours. Identifiers and
// totals present in the document are discarded: ids are reassigned by the
// store and totals re-derived from the imported items.
type ImportOrder struct {
	CustomerID int64       `json:"customer_id"`
	OrderDate  models.Date `json:"order_date"`
}

type ImportItem struct {
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type ImportResult struct {
	ImportedOrders int `json:"imported_orders"`
	ImportedItems  int `json:"imported_items"`
}

// DatabaseInfo summarises the backing store for the management CLI.
type DatabaseInfo struct {
	Status        string           `json:"status"`
	TotalOrders   int              `json:"total_orders"`
	TotalItems    int              `json:"total_items"`
	TotalRevenue  *decimal.Decimal `json:"total_revenue,omitempty"`
	DateRange     *InfoDateRange   `json:"date_range,omitempty"`
	DatabaseFile  string           `json:"database_file"`
	CustomerCount int              `json:"customer_count,omitempty"`
	ProductCount  int              `json:"product_count,omitempty"`
}

type InfoDateRange struct {
	Earliest string `json:"earliest"`
	Latest   string `json:"latest"`
}

type TransferService interface {
	ExportJSON() (*ExportDocument, error)
	ExportJSONToFile(filename string) (*ExportDocument, string, error)
	ExportSQL() (*SQLExport, error)
	ExportSQLToFile(filename string) (*SQLExport, string, error)
	Import(doc *ImportDocument) (*ImportResult, error)
	ImportFromFile(filename string) (*ImportResult, error)
	Backup(filename string) (string, error)
	Info() (*DatabaseInfo, error)
}

type transferService struct {
	orderRepo     repository.OrderRepository
	orderItemRepo repository.OrderItemRepository
	orders        OrderService
	dbDriver      string
	dbSource      string
}

func NewTransferService(orderRepo repository.OrderRepository, orderItemRepo repository.OrderItemRepository, orders OrderService, dbDriver, dbSource string) TransferService {
	return &transferService{
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		orders:        orders,
		dbDriver:      dbDriver,
		dbSource:      dbSource,
	}
}

const exportDateLayout = "2006-01-02"

// ExportJSON serialises every order with its items into one self-describing
// document.
func (s *transferService) ExportJSON() (*ExportDocument, error) {
	orders, err := s.orderRepo.GetAllWithItems()
	if err != nil {
		return nil, fmt.Errorf("failed to export orders: %w", err)
	}

	data := make([]ExportEntry, 0, len(orders))
	for _, order := range orders {
		items := order.Items
		if items == nil {
			items = []models.OrderItem{}
		}
		order.Items = nil
		data = append(data, ExportEntry{Order: order, Items: items})
	}

	return &ExportDocument{
		ExportDate:  time.Now().Format(exportDateLayout),
		TotalOrders: len(data),
		Data:        data,
	}, nil
}

func (s *transferService) ExportJSONToFile(filename string) (*ExportDocument, string, error) {
	if filename == "" {
		filename = fmt.Sprintf("orders_export_%s.json", time.Now().Format(exportDateLayout))
	}

	doc, err := s.ExportJSON()
	if err != nil {
		return nil, "", err
	}

	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode export document: %w", err)
	}
	if err := os.WriteFile(filename, payload, 0644); err != nil {
		return nil, "", fmt.Errorf("failed to write export file: %w", err)
	}
	return doc, filename, nil
}

// ExportSQL renders the full graph as schema statements followed by row
// inserts, orders each followed by their items, blank line between orders.
func (s *transferService) ExportSQL() (*SQLExport, error) {
	orders, err := s.orderRepo.GetAllWithItems()
	if err != nil {
		return nil, fmt.Errorf("failed to export orders: %w", err)
	}

	statements := []string{
		"-- Orders and Order Items Export",
		"-- Generated on " + time.Now().Format(exportDateLayout),
		"",
		"CREATE TABLE IF NOT EXISTS orders (",
		"    order_id INTEGER PRIMARY KEY AUTOINCREMENT,",
		"    customer_id INTEGER NOT NULL,",
		"    order_date DATE NOT NULL,",
		"    total_amount DECIMAL(10, 2) DEFAULT 0.00",
		");",
		"",
		"CREATE TABLE IF NOT EXISTS order_items (",
		"    order_item_id INTEGER PRIMARY KEY AUTOINCREMENT,",
		"    order_id INTEGER NOT NULL,",
		"    product_id INTEGER NOT NULL,",
		"    quantity INTEGER NOT NULL,",
		"    unit_price DECIMAL(10, 2) NOT NULL,",
		"    line_total DECIMAL(10, 2) NOT NULL,",
		"    FOREIGN KEY (order_id) REFERENCES orders(order_id)",
		");",
		"",
		"-- Data Inserts",
		"",
	}

	for _, order := range orders {
		statements = append(statements, fmt.Sprintf(
			"INSERT INTO orders (order_id, customer_id, order_date, total_amount) VALUES (%d, %d, '%s', %s);",
			order.OrderID, order.CustomerID, order.OrderDate.String(), order.TotalAmount.StringFixed(2)))

		for _, item := range order.Items {
			statements = append(statements, fmt.Sprintf(
				"INSERT INTO order_items (order_item_id, order_id, product_id, quantity, unit_price, line_total) VALUES (%d, %d, %d, %d, %s, %s);",
				item.OrderItemID, item.OrderID, item.ProductID, item.Quantity,
				item.UnitPrice.StringFixed(2), item.LineTotal.StringFixed(2)))
		}

		statements = append(statements, "")
	}

	return &SQLExport{
		ExportDate: time.Now().Format(exportDateLayout),
		Statements: statements,
		Content:    strings.Join(statements, "\n"),
	}, nil
}

func (s *transferService) ExportSQLToFile(filename string) (*SQLExport, string, error) {
	if filename == "" {
		filename = fmt.Sprintf("orders_export_%s.sql", time.Now().Format(exportDateLayout))
	}

	export, err := s.ExportSQL()
	if err != nil {
		return nil, "", err
	}
	if err := os.WriteFile(filename, []byte(export.Content), 0644); err != nil {
		return nil, "", fmt.Errorf("failed to write export file: %w", err)
	}
	return export, filename, nil
}

// Import rebuilds orders and items from an interchange document. Entries
// missing their order or items sub-field are skipped and logged; any failure
// while creating records aborts the remainder without rolling back what was
// already imported.
func (s *transferService) Import(doc *ImportDocument) (*ImportResult, error) {
	if doc == nil || doc.Data == nil {
		return nil, ErrMissingDataField
	}

	result := &ImportResult{}
	for _, entry := range doc.Data {
		if entry.Order == nil || entry.Items == nil {
			log.Printf("Skipping invalid import entry: missing order or items field")
			continue
		}

		order := &models.Order{
			CustomerID: entry.Order.CustomerID,
			OrderDate:  entry.Order.OrderDate,
		}
		if err := s.orders.CreateOrder(order); err != nil {
			return nil, err
		}
		result.ImportedOrders++

		for _, itemInfo := range entry.Items {
			item := &models.OrderItem{
				ProductID: itemInfo.ProductID,
				Quantity:  itemInfo.Quantity,
				UnitPrice: itemInfo.UnitPrice,
			}
			if err := s.orders.AddItemToOrder(order.OrderID, item); err != nil {
				return nil, err
			}
			result.ImportedItems++
		}
	}
	return result, nil
}

func (s *transferService) ImportFromFile(filename string) (*ImportResult, error) {
	payload, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s", filename)
		}
		return nil, fmt.Errorf("failed to read import file: %w", err)
	}

	var doc ImportDocument
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse import file: %w", err)
	}
	return s.Import(&doc)
}

// Backup copies the backing store's file to a new location. Only the sqlite
// driver has a single file to copy; the copy assumes no concurrent writers.
func (s *transferService) Backup(filename string) (string, error) {
	if s.dbDriver != "sqlite" {
		return "", ErrBackupUnsupported
	}
	if filename == "" {
		filename = fmt.Sprintf("orders_backup_%s.db", time.Now().Format(exportDateLayout))
	}

	src, err := os.Open(s.dbSource)
	if err != nil {
		return "", fmt.Errorf("failed to open database file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("failed to create backup file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to copy database file: %w", err)
	}
	return filename, nil
}

// Info reports a short health summary of the store for the management CLI.
func (s *transferService) Info() (*DatabaseInfo, error) {
	orders, err := s.orderRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	items, err := s.orderItemRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}

	if len(orders) == 0 {
		return &DatabaseInfo{
			Status:       "empty",
			DatabaseFile: s.dbSource,
		}, nil
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
	for _, item := range items {
		products[item.ProductID] = struct{}{}
	}

	revenue = revenue.Round(2)
	return &DatabaseInfo{
		Status:       "active",
		TotalOrders:  len(orders),
		TotalItems:   len(items),
		TotalRevenue: &revenue,
		DateRange: &InfoDateRange{
			Earliest: earliest.String(),
			Latest:   latest.String(),
		},
		DatabaseFile:  s.dbSource,
		CustomerCount: len(customers),
		ProductCount:  len(products),
	}, nil
}
