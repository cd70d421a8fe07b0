package database

import (
	"fmt"
	"time"

	"gddi/model"
)

// The movement table carries both sales and returns, told apart by
// movement_type: 'S' for billed sales, 'D' for returns/cancellations.

const movementColumns = `
    branch_code, customer_code, product_code, exit_date, quantity,
    unit_price, list_price, free_goods, fiscal_key, fiscal_series,
    fiscal_number, icms_rate, icms_value, tax_situation`

const selectMovementQuery = `
SELECT ` + movementColumns + `
FROM movement
WHERE movement_type = 'S'
  AND date(exit_date) = ?
  AND branch_code = ?
ORDER BY exit_date, fiscal_number`

const selectReturnsQuery = `
SELECT branch_code, customer_code, product_code, exit_date, quantity
FROM movement
WHERE movement_type = 'D'
  AND date(exit_date) = ?
  AND branch_code = ?
ORDER BY exit_date, fiscal_number`

const selectBranchesQuery = `
SELECT branch_code, document, legal_name, trade_name, street, cep, city, state, phone
FROM branches
WHERE branch_code = ?`

const selectCustomersQuery = `
SELECT customer_code, document, name, trade_name, street, cep, city, state, phone
FROM customers
WHERE customer_code IN (
    SELECT DISTINCT customer_code
    FROM movement
    WHERE date(exit_date) = ? AND branch_code = ?
)
ORDER BY customer_code`

const selectStockQuery = `
SELECT s.branch_code, s.product_code, p.barcode, s.on_hand
FROM stock s
LEFT JOIN products p ON p.product_code = s.product_code
WHERE s.branch_code = ?
ORDER BY s.product_code`

const selectProductsQuery = `
SELECT DISTINCT p.product_code, p.barcode, p.ncm, p.description, p.manufacturer, p.list_price
FROM products p
JOIN movement m ON m.product_code = p.product_code
WHERE date(m.exit_date) = ? AND m.branch_code = ?
ORDER BY p.product_code`

const selectIncomingQuery = `
SELECT product_code, barcode, list_price
FROM incoming_goods
WHERE date(received_at) <= ?
ORDER BY received_at`

func day(d time.Time) string {
	return d.Format("2006-01-02")
}

// Movement returns the billed sale lines of one day at one branch.
func (s *Source) Movement(d time.Time, branch int64) ([]model.MovementRow, error) {
	var rows []model.MovementRow
	if err := s.db.Select(&rows, selectMovementQuery, day(d), branch); err != nil {
		return nil, fmt.Errorf("failed to select movement for %s: %w", day(d), err)
	}
	return rows, nil
}

// Returns returns the return/cancellation lines of one day at one branch.
func (s *Source) Returns(d time.Time, branch int64) ([]model.ReturnRow, error) {
	var rows []model.ReturnRow
	if err := s.db.Select(&rows, selectReturnsQuery, day(d), branch); err != nil {
		return nil, fmt.Errorf("failed to select returns for %s: %w", day(d), err)
	}
	return rows, nil
}

// Branches returns the reporting site rows for the configured branch.
func (s *Source) Branches(d time.Time, branch int64) ([]model.BranchRow, error) {
	var rows []model.BranchRow
	if err := s.db.Select(&rows, selectBranchesQuery, branch); err != nil {
		return nil, fmt.Errorf("failed to select branches: %w", err)
	}
	return rows, nil
}

// Customers returns every customer that bought on the given day.
func (s *Source) Customers(d time.Time, branch int64) ([]model.CustomerRow, error) {
	var rows []model.CustomerRow
	if err := s.db.Select(&rows, selectCustomersQuery, day(d), branch); err != nil {
		return nil, fmt.Errorf("failed to select customers for %s: %w", day(d), err)
	}
	return rows, nil
}

// Stock returns the current on-hand counts at the branch.
func (s *Source) Stock(d time.Time, branch int64) ([]model.StockRow, error) {
	var rows []model.StockRow
	if err := s.db.Select(&rows, selectStockQuery, branch); err != nil {
		return nil, fmt.Errorf("failed to select stock: %w", err)
	}
	return rows, nil
}

// Products returns the distinct products that moved on the given day.
func (s *Source) Products(d time.Time, branch int64) ([]model.ProductRow, error) {
	var rows []model.ProductRow
	if err := s.db.Select(&rows, selectProductsQuery, day(d), branch); err != nil {
		return nil, fmt.Errorf("failed to select products for %s: %w", day(d), err)
	}
	return rows, nil
}

// ProductLookup builds the day's auxiliary lookup from the incoming-goods
// rows: the last received barcode and reference price win per product. It is
// built once per processing day and read-only afterwards.
func (s *Source) ProductLookup(d time.Time, branch int64) (map[int64]model.ProductEntry, error) {
	var rows []model.IncomingRow
	if err := s.db.Select(&rows, selectIncomingQuery, day(d)); err != nil {
		return nil, fmt.Errorf("failed to select incoming goods for %s: %w", day(d), err)
	}

	lookup := make(map[int64]model.ProductEntry, len(rows))
	for _, r := range rows {
		entry := lookup[r.ProductCode]
		if barcode := model.Str(r.Barcode); barcode != "" {
			entry.Barcode = barcode
		}
		if price := model.Float(r.ListPrice); price != 0 {
			entry.ReferencePrice = price
		}
		lookup[r.ProductCode] = entry
	}
	return lookup, nil
}
