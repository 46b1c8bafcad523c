package diff

// Stats holds flat counts aggregated over a set of entries.
type Stats struct {
	Added     int `json:"added"`
	Removed   int `json:"removed"`
	Modified  int `json:"modified"`
	Unchanged int `json:"unchanged"`
	Total     int `json:"total"`
}

// Changes is the number of counted entries that denote a difference.
func (s Stats) Changes() int {
	return s.Added + s.Removed + s.Modified
}

// Aggregate counts entries by type. Entries carrying nested Children are
// counted themselves and then descended into, folding everything into the
// same flat totals.
func Aggregate(entries []Entry) Stats {
	var stats Stats
	tally(&stats, entries)
	return stats
}

func tally(stats *Stats, entries []Entry) {
	for _, e := range entries {
		switch e.Type {
		case Added:
			stats.Added++
		case Removed:
			stats.Removed++
		case Modified:
			stats.Modified++
		case Unchanged:
			stats.Unchanged++
		}
		stats.Total++
		if len(e.Children) > 0 {
			tally(stats, e.Children)
		}
	}
}

// ValueStats describes the shape of a single document.
type ValueStats struct {
	Mappings  int `json:"mappings"`
	Sequences int `json:"sequences"`
	Leaves    int `json:"leaves"`
	Nulls     int `json:"nulls"`
	MaxDepth  int `json:"maxDepth"`
}

// CountValues walks one document and tallies its shape. A bare scalar has
// depth 1.
func CountValues(doc any) ValueStats {
	var stats ValueStats
	census(&stats, doc, 1)
	return stats
}

func census(stats *ValueStats, v any, depth int) {
	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}
	switch KindOf(v) {
	case Null:
		stats.Nulls++
	case Sequence:
		stats.Sequences++
		for _, item := range v.([]any) {
			census(stats, item, depth+1)
		}
	case Mapping:
		stats.Mappings++
		for _, item := range v.(map[string]any) {
			census(stats, item, depth+1)
		}
	default:
		stats.Leaves++
	}
}
