package dataprocessing

import (
	"salesreport/pkg/contracts/domain"
)

// AssignYearMonth sets the year-month bucket of every dated record.
// Recomputing is a no-op.
func AssignYearMonth(table *domain.SalesTable) {
	if table == nil {
		return
	}
	for i := range table.Records {
		rec := &table.Records[i]
		if rec.HasOrderDate() {
			rec.YearMonth = domain.YearMonthOf(rec.OrderDate)
		}
	}
}
