package dataprocessing

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesreport/pkg/contracts/domain"
)

func TestMonthlySalesTrend_Scenario(t *testing.T) {
	table := parseCSV(t, testHeader+`
1,10,10,100,2024-01-15,A,12
2,5,10,50,,B,12
`)
	Clean(table)
	AssignYearMonth(table)

	require.Equal(t, 1, table.Len())
	assert.Equal(t, "A", table.Records[0].ProductCode)

	trend := MonthlySalesTrend(table.Records)
	require.Len(t, trend, 1)
	assert.Equal(t, domain.YearMonth{Year: 2024, Month: time.January}, trend[0].Month)
	assert.True(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Equal(trend[0].Date))
	assert.Equal(t, "100", trend[0].Total.String())
	assert.Equal(t, 1, trend[0].Records)
}

func TestMonthlySalesTrend_Ordering(t *testing.T) {
	records := []domain.SalesRecord{
		record("2024-03-05", "A", "10", "", "", 1),
		record("2023-12-31", "A", "5", "", "", 1),
		record("2024-01-02", "B", "7", "", "", 1),
		record("2024-03-20", "C", "2.5", "", "", 1),
		record("2024-03-21", "C", "", "", "", 1),
	}

	trend := MonthlySalesTrend(records)

	require.Len(t, trend, 3, "no zero-filled months")
	assert.Equal(t, "2023-12", trend[0].Month.String())
	assert.Equal(t, "2024-01", trend[1].Month.String())
	assert.Equal(t, "2024-03", trend[2].Month.String())
	assert.Equal(t, "12.5", trend[2].Total.String(), "missing sales contribute nothing")
	assert.Equal(t, 3, trend[2].Records)
}

func TestMonthlySalesTrend_Conservation(t *testing.T) {
	table := randomTable(t, 1000, 11)
	Clean(table)
	AssignYearMonth(table)

	sum := decimal.Zero
	for _, month := range MonthlySalesTrend(table.Records) {
		sum = sum.Add(month.Total)
	}

	assert.True(t, sum.Equal(TotalSales(table.Records)), "%s != %s", sum, TotalSales(table.Records))
}

func TestTopProducts(t *testing.T) {
	var records []domain.SalesRecord
	for i := 1; i <= 12; i++ {
		// product Pi totals i*100 split over two records
		code := fmt.Sprintf("P%02d", i)
		records = append(records,
			record("2024-01-01", code, fmt.Sprintf("%d", i*60), "", "", 1),
			record("2024-02-01", code, fmt.Sprintf("%d", i*40), "", "", 1))
	}

	top := TopProducts(records, 10)

	require.Len(t, top, 10)
	assert.Equal(t, "P12", top[0].ProductCode)
	assert.Equal(t, "1200", top[0].Total.String())
	assert.Equal(t, 2, top[0].Records)
	assert.Equal(t, "P03", top[9].ProductCode)

	for i := 1; i < len(top); i++ {
		assert.False(t, top[i].Total.GreaterThan(top[i-1].Total), "sorted non-increasing")
	}

	all := TopProducts(records, 0)
	require.Len(t, all, 12)
	minimum := top[len(top)-1].Total
	for _, p := range all[10:] {
		assert.False(t, p.Total.GreaterThan(minimum), "%s outside the list exceeds the minimum", p.ProductCode)
	}
}

func TestTopProducts_FewerThanN(t *testing.T) {
	records := []domain.SalesRecord{
		record("2024-01-01", "B", "5", "", "", 1),
		record("2024-01-01", "A", "5", "", "", 1),
		record("2024-01-01", "C", "9", "", "", 1),
		record("2024-01-01", "D", "", "", "", 1),
	}

	top := TopProducts(records, 10)

	require.Len(t, top, 4)
	assert.Equal(t, []string{"C", "A", "B", "D"}, []string{
		top[0].ProductCode, top[1].ProductCode, top[2].ProductCode, top[3].ProductCode,
	}, "ties ordered by product code")
	assert.True(t, top[3].Total.IsZero())
}

func TestDiscountPercent(t *testing.T) {
	tests := []struct {
		name  string
		price string
		msrp  string
		want  string
		ok    bool
	}{
		{name: "twenty percent", price: "80", msrp: "100", want: "20.00", ok: true},
		{name: "no discount", price: "100", msrp: "100", want: "0.00", ok: true},
		{name: "above msrp", price: "120", msrp: "100", want: "-20.00", ok: true},
		{name: "repeating fraction", price: "2", msrp: "3", want: "33.33", ok: true},
		{name: "zero msrp", price: "80", msrp: "0"},
		{name: "missing msrp", price: "80", msrp: ""},
		{name: "missing price", price: "", msrp: "100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DiscountPercent(record("2024-01-01", "P", "1", tt.price, tt.msrp, 1))
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got.StringFixed(2))
			}
		})
	}
}

func TestDiscountQuantityCorrelation(t *testing.T) {
	tests := []struct {
		name        string
		records     []domain.SalesRecord
		wantDefined bool
		wantValue   float64
		wantSamples int
	}{
		{
			name:        "single row is undefined",
			records:     []domain.SalesRecord{record("2024-01-01", "P", "1", "80", "100", 3)},
			wantSamples: 1,
		},
		{
			name: "empty table is undefined",
		},
		{
			name: "constant quantity is undefined",
			records: []domain.SalesRecord{
				record("2024-01-01", "P", "1", "80", "100", 3),
				record("2024-01-01", "P", "1", "70", "100", 3),
			},
			wantSamples: 2,
		},
		{
			name: "constant discount is undefined",
			records: []domain.SalesRecord{
				record("2024-01-01", "P", "1", "80", "100", 3),
				record("2024-01-01", "P", "1", "40", "50", 5),
			},
			wantSamples: 2,
		},
		{
			name: "perfect positive",
			records: []domain.SalesRecord{
				record("2024-01-01", "P", "1", "90", "100", 1),
				record("2024-01-01", "P", "1", "80", "100", 2),
				record("2024-01-01", "P", "1", "70", "100", 3),
			},
			wantDefined: true,
			wantValue:   1,
			wantSamples: 3,
		},
		{
			name: "perfect negative with incomplete rows dropped",
			records: []domain.SalesRecord{
				record("2024-01-01", "P", "1", "90", "100", 30),
				record("2024-01-01", "P", "1", "80", "100", 20),
				record("2024-01-01", "P", "1", "", "100", 99),
				record("2024-01-01", "P", "1", "0", "0", 99),
				record("2024-01-01", "P", "1", "60", "100", -1),
				record("2024-01-01", "P", "1", "70", "100", 10),
			},
			wantDefined: true,
			wantValue:   -1,
			wantSamples: 3,
		},
		{
			name: "zero msrp with a price is undefined",
			records: []domain.SalesRecord{
				record("2024-01-01", "P", "1", "90", "100", 1),
				record("2024-01-01", "P", "1", "80", "100", 2),
				record("2024-01-01", "P", "1", "70", "100", 3),
				record("2024-01-01", "P", "1", "70", "0", 4),
			},
			wantSamples: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DiscountQuantityCorrelation(tt.records)

			assert.Equal(t, tt.wantDefined, got.Defined)
			assert.Equal(t, tt.wantSamples, got.Samples)
			if tt.wantDefined {
				assert.InDelta(t, tt.wantValue, got.Value, 1e-9)
				assert.Equal(t, fmt.Sprintf("%.2f", tt.wantValue), got.String())
			} else {
				assert.True(t, math.IsNaN(got.Value))
				assert.Equal(t, "undefined", got.String())
			}
		})
	}
}

func TestBuildReport(t *testing.T) {
	table := parseCSV(t, testHeader+`
1,10,90,100,2024-01-15,A,100
2,20,80,300,2024-01-20,B,100
3,30,70,50,2024-02-03,A,100
`)
	stats := Clean(table)
	AssignYearMonth(table)

	report := BuildReport(table, 1, stats)

	require.Len(t, report.Monthly, 2)
	assert.Equal(t, "400", report.Monthly[0].Total.String())
	require.Len(t, report.TopProducts, 1)
	assert.Equal(t, "B", report.TopProducts[0].ProductCode)
	assert.True(t, report.Correlation.Defined)
	assert.Equal(t, "1.00", report.Correlation.String())
	assert.Equal(t, 3, report.Cleaning.Kept)

	empty := BuildReport(nil, 10, domain.CleaningStats{})
	assert.Empty(t, empty.Monthly)
	assert.Empty(t, empty.TopProducts)
	assert.False(t, empty.Correlation.Defined)
}
