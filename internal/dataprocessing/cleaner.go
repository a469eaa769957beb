package dataprocessing

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"salesreport/pkg/contracts/domain"
)

// FilterMissingDates removes records without a parsed order date, keeping
// the order of the rest. It returns the number of records dropped.
func FilterMissingDates(table *domain.SalesTable) int {
	if table == nil {
		return 0
	}

	kept := table.Records[:0]
	for _, rec := range table.Records {
		if rec.HasOrderDate() {
			kept = append(kept, rec)
		}
	}

	dropped := len(table.Records) - len(kept)
	clear(table.Records[len(kept):])
	table.Records = kept
	return dropped
}

// Deduplicate removes records identical to an earlier record, keeping the
// first occurrence. It returns the number of records dropped.
func Deduplicate(table *domain.SalesTable) int {
	if table == nil {
		return 0
	}

	numeric := make(map[int]bool, len(table.NumericColumns))
	for _, col := range table.NumericColumns {
		numeric[col] = true
	}

	seen := make(map[string]struct{}, len(table.Records))
	kept := table.Records[:0]
	for _, rec := range table.Records {
		key := recordKey(rec, table.DateColumn, numeric)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, rec)
	}

	dropped := len(table.Records) - len(kept)
	clear(table.Records[len(kept):])
	table.Records = kept
	return dropped
}

// Clean applies the date filter and then deduplication
func Clean(table *domain.SalesTable) domain.CleaningStats {
	stats := domain.CleaningStats{Loaded: table.Len()}
	stats.DroppedMissingDate = FilterMissingDates(table)
	stats.DroppedDuplicates = Deduplicate(table)
	stats.Kept = table.Len()
	return stats
}

// recordKey identifies a record by its parsed date and every other cell.
// Numeric cells compare by value, so "100" and "100.0" are equal, as are two
// spellings of the same instant. Each part is quoted so cells cannot run
// together.
func recordKey(rec domain.SalesRecord, dateColumn int, numeric map[int]bool) string {
	var b strings.Builder
	if rec.DateValid {
		b.WriteString(rec.OrderDate.UTC().Format(time.RFC3339Nano))
	}
	for i, cell := range rec.Fields {
		if i == dateColumn {
			continue
		}
		if numeric[i] {
			cell = canonicalNumber(cell)
		}
		b.WriteByte(',')
		b.WriteString(strconv.Quote(cell))
	}
	return b.String()
}

// canonicalNumber renders a numeric cell in its shortest form. Text that is
// not a number is kept as written.
func canonicalNumber(cell string) string {
	d, err := decimal.NewFromString(strings.TrimSpace(cell))
	if err != nil {
		return cell
	}
	return d.String()
}
