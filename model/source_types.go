package model

import "database/sql"

// Source row shapes, one per provider query. Required identifiers are plain
// columns; everything the source may omit is nullable and read through the
// accessors below, so a missing column always degrades to ""/0 instead of a
// scan error.

// MovementRow is one billed sale line from the daily movement query.
type MovementRow struct {
	BranchCode   int64           `db:"branch_code"`
	CustomerCode int64           `db:"customer_code"`
	ProductCode  int64           `db:"product_code"`
	ExitDate     string          `db:"exit_date"`
	Quantity     sql.NullInt64   `db:"quantity"`
	UnitPrice    sql.NullFloat64 `db:"unit_price"`
	ListPrice    sql.NullFloat64 `db:"list_price"`
	FreeGoods    sql.NullString  `db:"free_goods"`
	FiscalKey    sql.NullString  `db:"fiscal_key"`
	FiscalSeries sql.NullInt64   `db:"fiscal_series"`
	FiscalNumber sql.NullInt64   `db:"fiscal_number"`
	ICMSRate     sql.NullFloat64 `db:"icms_rate"`
	ICMSValue    sql.NullFloat64 `db:"icms_value"`
	TaxSituation sql.NullString  `db:"tax_situation"`
}

// ReturnRow is one returned or cancelled sale line.
type ReturnRow struct {
	BranchCode   int64         `db:"branch_code"`
	CustomerCode int64         `db:"customer_code"`
	ProductCode  int64         `db:"product_code"`
	ExitDate     string        `db:"exit_date"`
	Quantity     sql.NullInt64 `db:"quantity"`
}

// BranchRow describes one reporting site.
type BranchRow struct {
	BranchCode int64          `db:"branch_code"`
	Document   sql.NullString `db:"document"`
	LegalName  sql.NullString `db:"legal_name"`
	TradeName  sql.NullString `db:"trade_name"`
	Street     sql.NullString `db:"street"`
	CEP        sql.NullString `db:"cep"`
	City       sql.NullString `db:"city"`
	State      sql.NullString `db:"state"`
	Phone      sql.NullString `db:"phone"`
}

// CustomerRow describes one buyer.
type CustomerRow struct {
	CustomerCode int64          `db:"customer_code"`
	Document     sql.NullString `db:"document"`
	Name         sql.NullString `db:"name"`
	TradeName    sql.NullString `db:"trade_name"`
	Street       sql.NullString `db:"street"`
	CEP          sql.NullString `db:"cep"`
	City         sql.NullString `db:"city"`
	State        sql.NullString `db:"state"`
	Phone        sql.NullString `db:"phone"`
}

// StockRow is the current on-hand count of one product at one site.
type StockRow struct {
	BranchCode  int64          `db:"branch_code"`
	ProductCode int64          `db:"product_code"`
	Barcode     sql.NullString `db:"barcode"`
	OnHand      sql.NullInt64  `db:"on_hand"`
}

// ProductRow is one distinct product that moved on the reference date.
type ProductRow struct {
	ProductCode  int64           `db:"product_code"`
	Barcode      sql.NullString  `db:"barcode"`
	NCM          sql.NullString  `db:"ncm"`
	Description  sql.NullString  `db:"description"`
	Manufacturer sql.NullString  `db:"manufacturer"`
	ListPrice    sql.NullFloat64 `db:"list_price"`
}

// IncomingRow is one incoming-goods line, the fallback source for barcodes
// and reference prices the product master lacks.
type IncomingRow struct {
	ProductCode int64           `db:"product_code"`
	Barcode     sql.NullString  `db:"barcode"`
	ListPrice   sql.NullFloat64 `db:"list_price"`
}

// ProductEntry is the auxiliary lookup value built once per processing day
// from the incoming-goods rows, keyed by product code.
type ProductEntry struct {
	Barcode        string
	ReferencePrice float64
}

// Str returns the string value or "" when the column was NULL/absent.
func Str(v sql.NullString) string {
	if v.Valid {
		return v.String
	}
	return ""
}

// Float returns the float value or 0 when the column was NULL/absent.
func Float(v sql.NullFloat64) float64 {
	if v.Valid {
		return v.Float64
	}
	return 0
}

// Int returns the integer value or 0 when the column was NULL/absent.
func Int(v sql.NullInt64) int64 {
	if v.Valid {
		return v.Int64
	}
	return 0
}
