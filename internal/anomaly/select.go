package anomaly

import "sort"

// Selection holds one representative anomaly per category.
type Selection struct {
	order    []string
	examples map[string]ScoredRecord
}

// Select keeps, per category, the anomalous record with the lowest input index.
// Categories are ordered by when their first anomaly appears in the input.
func Select(flagged []ScoredRecord) *Selection {
	byIndex := make([]ScoredRecord, 0, len(flagged))
	for _, r := range flagged {
		if r.Anomaly {
			byIndex = append(byIndex, r)
		}
	}
	sort.SliceStable(byIndex, func(i, j int) bool { return byIndex[i].Index < byIndex[j].Index })

	s := &Selection{examples: make(map[string]ScoredRecord)}
	for _, r := range byIndex {
		if _, ok := s.examples[r.Category]; ok {
			continue
		}
		s.examples[r.Category] = r
		s.order = append(s.order, r.Category)
	}
	return s
}

// Categories lists the categories with an example, in encounter order.
func (s *Selection) Categories() []string {
	return append([]string(nil), s.order...)
}

// Example returns the selected record for a category.
func (s *Selection) Example(category string) (ScoredRecord, bool) {
	r, ok := s.examples[category]
	return r, ok
}

// Len is the number of categories with an example.
func (s *Selection) Len() int { return len(s.order) }

// InOrder projects the selection onto a category order, skipping categories
// without an example.
func (s *Selection) InOrder(order []string) []ScoredRecord {
	out := make([]ScoredRecord, 0, len(s.order))
	for _, c := range order {
		if r, ok := s.examples[c]; ok {
			out = append(out, r)
		}
	}
	return out
}
