package anomaly

import (
	"fmt"
	"sort"
)

// ReportOrder chooses how findings are ordered.
type ReportOrder string

const (
	// OrderMean sorts categories by mean calories ascending, matching the chart.
	OrderMean ReportOrder = "mean"
	// OrderEncounter keeps the order in which each category's first anomaly appears.
	OrderEncounter ReportOrder = "encounter"
)

// ParseReportOrder validates an order name. The empty string means OrderMean.
func ParseReportOrder(s string) (ReportOrder, error) {
	switch ReportOrder(s) {
	case "", OrderMean:
		return OrderMean, nil
	case OrderEncounter:
		return OrderEncounter, nil
	}
	return "", fmt.Errorf("invalid report order %q (use mean or encounter)", s)
}

// OrderByMean returns category names sorted by mean calories ascending.
// Ties break on the category name so the order is total.
func OrderByMean(stats []CategoryStats) []string {
	sorted := make([]CategoryStats, len(stats))
	copy(sorted, stats)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Mean == sorted[j].Mean {
			return sorted[i].Category < sorted[j].Category
		}
		return sorted[i].Mean < sorted[j].Mean
	})
	out := make([]string, len(sorted))
	for i, s := range sorted {
		out[i] = s.Category
	}
	return out
}
