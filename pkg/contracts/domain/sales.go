package domain

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Well-known column names of the sales dataset
const (
	ColumnOrderDate = "ORDERDATE"
	ColumnSales     = "SALES"
	ColumnProduct   = "PRODUCTCODE"
	ColumnPriceEach = "PRICEEACH"
	ColumnMSRP      = "MSRP"
	ColumnQuantity  = "QUANTITYORDERED"
	ColumnYearMonth = "YearMonth"
)

// SalesRecord represents one sales transaction row.
// Fields keeps every decoded cell in header order so the record can be
// written back unchanged; the typed fields are parsed views of those cells.
type SalesRecord struct {
	OrderDate   time.Time           `json:"order_date"`
	DateValid   bool                `json:"date_valid"`
	Sales       decimal.NullDecimal `json:"sales"`
	ProductCode string              `json:"product_code"`
	PriceEach   decimal.NullDecimal `json:"price_each"`
	MSRP        decimal.NullDecimal `json:"msrp"`
	Quantity    sql.NullInt64       `json:"quantity"`
	YearMonth   YearMonth           `json:"year_month"`
	Fields      []string            `json:"-"`
}

// HasOrderDate reports whether the order date was parsed successfully
func (r SalesRecord) HasOrderDate() bool {
	return r.DateValid
}

// SalesTable is an ordered in-memory collection of records sharing one header.
// NumericColumns lists the cells compared by numeric value rather than text.
type SalesTable struct {
	Header         []string      `json:"header"`
	DateColumn     int           `json:"date_column"`
	NumericColumns []int         `json:"numeric_columns,omitempty"`
	Records        []SalesRecord `json:"records"`
}

// Len returns the number of records in the table
func (t *SalesTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// YearMonth is an order date truncated to calendar month granularity
type YearMonth struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// YearMonthOf truncates t to its calendar month
func YearMonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// IsZero reports whether the bucket has not been assigned
func (ym YearMonth) IsZero() bool {
	return ym.Year == 0 && ym.Month == 0
}

// Before reports whether ym is chronologically earlier than other
func (ym YearMonth) Before(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year < other.Year
	}
	return ym.Month < other.Month
}

// FirstDay returns the first day of the month at midnight UTC
func (ym YearMonth) FirstDay() time.Time {
	return time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC)
}

// String formats the bucket as YYYY-MM
func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// MonthlySales is the summed sales of one year-month bucket
type MonthlySales struct {
	Month   YearMonth       `json:"month"`
	Date    time.Time       `json:"date"`
	Total   decimal.Decimal `json:"total"`
	Records int             `json:"records"`
}

// ProductSales is the summed sales of one product
type ProductSales struct {
	ProductCode string          `json:"product_code"`
	Total       decimal.Decimal `json:"total"`
	Records     int             `json:"records"`
}

// Correlation is a Pearson coefficient that may be undefined
type Correlation struct {
	Value   float64 `json:"value"`
	Defined bool    `json:"defined"`
	Samples int     `json:"samples"`
}

// UndefinedCorrelation returns an undefined coefficient over n samples
func UndefinedCorrelation(n int) Correlation {
	return Correlation{Value: math.NaN(), Defined: false, Samples: n}
}

// String formats the coefficient to two decimals, or "undefined"
func (c Correlation) String() string {
	if !c.Defined || math.IsNaN(c.Value) || math.IsInf(c.Value, 0) {
		return "undefined"
	}
	return fmt.Sprintf("%.2f", c.Value)
}

// MarshalJSON renders undefined coefficients as null
func (c Correlation) MarshalJSON() ([]byte, error) {
	if c.String() == "undefined" {
		return []byte(fmt.Sprintf(`{"value":null,"defined":false,"samples":%d}`, c.Samples)), nil
	}
	return []byte(fmt.Sprintf(`{"value":%g,"defined":true,"samples":%d}`, c.Value, c.Samples)), nil
}

// CleaningStats counts the records removed by each cleaning operation
type CleaningStats struct {
	Loaded             int `json:"loaded"`
	DroppedMissingDate int `json:"dropped_missing_date"`
	DroppedDuplicates  int `json:"dropped_duplicates"`
	Kept               int `json:"kept"`
}

// SalesReport holds the aggregate views produced by the reporting stage
type SalesReport struct {
	Monthly     []MonthlySales `json:"monthly"`
	TopProducts []ProductSales `json:"top_products"`
	Correlation Correlation    `json:"correlation"`
	Cleaning    CleaningStats  `json:"cleaning"`
	Written     int            `json:"written"`
}
