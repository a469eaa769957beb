package dataprocessing

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"salesreport/internal/config"
	"salesreport/pkg/contracts/domain"
)

const testHeader = "ORDERNUMBER,QUANTITYORDERED,PRICEEACH,SALES,ORDERDATE,PRODUCTCODE,MSRP"

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func utf8Input() config.InputConfig {
	return config.InputConfig{
		Encoding:   "utf-8",
		DateColumn: domain.ColumnOrderDate,
		Delimiter:  ",",
	}
}

// parseCSV loads UTF-8 CSV text into a table
func parseCSV(t *testing.T, text string) *domain.SalesTable {
	t.Helper()
	loader, err := NewLoader(utf8Input(), testLogger())
	require.NoError(t, err)

	table, _, err := loader.Parse(context.Background(), strings.NewReader(text))
	require.NoError(t, err)
	return table
}

// record builds a dated record directly. Empty numeric strings are missing.
func record(date, product, sales, price, msrp string, qty int64) domain.SalesRecord {
	rec := domain.SalesRecord{
		ProductCode: product,
		Sales:       nullDecimal(sales),
		PriceEach:   nullDecimal(price),
		MSRP:        nullDecimal(msrp),
		Quantity:    sql.NullInt64{Int64: qty, Valid: qty >= 0},
		Fields:      []string{date, product, sales, price, msrp},
	}
	if date != "" {
		rec.OrderDate, _ = time.Parse("2006-01-02", date)
		rec.DateValid = true
		rec.YearMonth = domain.YearMonthOf(rec.OrderDate)
	}
	return rec
}

func nullDecimal(s string) decimal.NullDecimal {
	if s == "" {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(s), Valid: true}
}
