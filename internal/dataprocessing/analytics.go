package dataprocessing

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"

	"salesreport/pkg/contracts/domain"
)

var hundred = decimal.NewFromInt(100)

// MonthlySalesTrend sums sales per year-month bucket in chronological order.
// Months without records do not appear. Missing sales contribute nothing.
func MonthlySalesTrend(records []domain.SalesRecord) []domain.MonthlySales {
	groups := make(map[domain.YearMonth]*domain.MonthlySales)

	for _, rec := range records {
		month := rec.YearMonth
		if month.IsZero() {
			if !rec.HasOrderDate() {
				continue
			}
			month = domain.YearMonthOf(rec.OrderDate)
		}

		group, ok := groups[month]
		if !ok {
			group = &domain.MonthlySales{Month: month, Date: month.FirstDay()}
			groups[month] = group
		}
		group.Records++
		if rec.Sales.Valid {
			group.Total = group.Total.Add(rec.Sales.Decimal)
		}
	}

	trend := make([]domain.MonthlySales, 0, len(groups))
	for _, group := range groups {
		trend = append(trend, *group)
	}
	sort.Slice(trend, func(i, j int) bool {
		return trend[i].Month.Before(trend[j].Month)
	})

	return trend
}

// TopProducts returns the n products with the largest summed sales, largest
// first. Equal totals are ordered by product code. n <= 0 returns every product.
func TopProducts(records []domain.SalesRecord, n int) []domain.ProductSales {
	groups := make(map[string]*domain.ProductSales)

	for _, rec := range records {
		group, ok := groups[rec.ProductCode]
		if !ok {
			group = &domain.ProductSales{ProductCode: rec.ProductCode}
			groups[rec.ProductCode] = group
		}
		group.Records++
		if rec.Sales.Valid {
			group.Total = group.Total.Add(rec.Sales.Decimal)
		}
	}

	products := make([]domain.ProductSales, 0, len(groups))
	for _, group := range groups {
		products = append(products, *group)
	}
	sort.Slice(products, func(i, j int) bool {
		if c := products[i].Total.Cmp(products[j].Total); c != 0 {
			return c > 0
		}
		return products[i].ProductCode < products[j].ProductCode
	})

	if n > 0 && len(products) > n {
		products = products[:n]
	}
	return products
}

// TotalSales sums every present sales amount
func TotalSales(records []domain.SalesRecord) decimal.Decimal {
	total := decimal.Zero
	for _, rec := range records {
		if rec.Sales.Valid {
			total = total.Add(rec.Sales.Decimal)
		}
	}
	return total
}

// DiscountPercent computes 100 * (1 - PRICEEACH/MSRP). It is undefined when
// either price is missing or MSRP is zero.
func DiscountPercent(rec domain.SalesRecord) (decimal.Decimal, bool) {
	if !rec.PriceEach.Valid || !rec.MSRP.Valid || rec.MSRP.Decimal.IsZero() {
		return decimal.Decimal{}, false
	}
	ratio := rec.PriceEach.Decimal.Div(rec.MSRP.Decimal)
	return hundred.Mul(decimal.NewFromInt(1).Sub(ratio)), true
}

// DiscountQuantityCorrelation computes the Pearson coefficient between the
// discount percent and quantity ordered of each record. Records missing
// either value are left out. The result is undefined with fewer than two
// pairs, when either series is constant, or when a priced record has a zero
// MSRP and so an unbounded discount.
func DiscountQuantityCorrelation(records []domain.SalesRecord) domain.Correlation {
	discounts := make([]float64, 0, len(records))
	quantities := make([]float64, 0, len(records))
	unbounded := false

	for _, rec := range records {
		if !rec.Quantity.Valid {
			continue
		}
		discount, ok := DiscountPercent(rec)
		if !ok {
			if unboundedDiscount(rec) {
				unbounded = true
				discounts = append(discounts, math.Inf(-1))
				quantities = append(quantities, float64(rec.Quantity.Int64))
			}
			continue
		}
		discounts = append(discounts, discount.InexactFloat64())
		quantities = append(quantities, float64(rec.Quantity.Int64))
	}

	n := len(discounts)
	if unbounded || n < 2 || constant(discounts) || constant(quantities) {
		return domain.UndefinedCorrelation(n)
	}

	r := stat.Correlation(discounts, quantities, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return domain.UndefinedCorrelation(n)
	}
	return domain.Correlation{Value: r, Defined: true, Samples: n}
}

// unboundedDiscount reports a nonzero price over a zero MSRP
func unboundedDiscount(rec domain.SalesRecord) bool {
	return rec.PriceEach.Valid && !rec.PriceEach.Decimal.IsZero() &&
		rec.MSRP.Valid && rec.MSRP.Decimal.IsZero()
}

// constant reports whether every value equals the first
func constant(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}

// BuildReport computes the aggregate views over a cleaned, enriched table
func BuildReport(table *domain.SalesTable, topN int, stats domain.CleaningStats) *domain.SalesReport {
	var records []domain.SalesRecord
	if table != nil {
		records = table.Records
	}

	return &domain.SalesReport{
		Monthly:     MonthlySalesTrend(records),
		TopProducts: TopProducts(records, topN),
		Correlation: DiscountQuantityCorrelation(records),
		Cleaning:    stats,
	}
}
