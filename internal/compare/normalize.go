package compare

import (
	"errors"
	"sort"

	"market-sentiment-analyzer/internal/types"
)

// ErrNoComparableData is returned when the inner join across series leaves
// no surviving dates. Callers can distinguish "nothing to compare" from
// "compared, trivially equal".
var ErrNoComparableData = errors.New("no comparable data: series share no common dates")

// ConstantColumnValue is the normalized output for a column whose raw
// values are all identical. Min-max scaling is undefined there (max ==
// min); pinning the column to mid-scale keeps it visible on a [0,1] chart
// without suggesting a trend.
const ConstantColumnValue = 0.5

// Table maps calendar date to named series values for that date.
type Table map[types.Date]map[string]float64

// Normalize inner-joins all named series on date and min-max scales every
// column independently onto [0, 1]. Only dates present in every series
// survive the join; the restriction is intentional.
func Normalize(table Table) (Table, error) {
	names := seriesNames(table)
	if len(names) == 0 {
		return nil, ErrNoComparableData
	}

	// Inner join: a date survives only if every series has a value there.
	var surviving []types.Date
	for date, row := range table {
		complete := true
		for _, name := range names {
			if _, ok := row[name]; !ok {
				complete = false
				break
			}
		}
		if complete {
			surviving = append(surviving, date)
		}
	}
	if len(surviving) == 0 {
		return nil, ErrNoComparableData
	}

	// Per-column min and max over the surviving dates.
	mins := make(map[string]float64, len(names))
	maxs := make(map[string]float64, len(names))
	for _, name := range names {
		first := true
		for _, date := range surviving {
			v := table[date][name]
			if first || v < mins[name] {
				mins[name] = v
			}
			if first || v > maxs[name] {
				maxs[name] = v
			}
			first = false
		}
	}

	out := make(Table, len(surviving))
	for _, date := range surviving {
		row := make(map[string]float64, len(names))
		for _, name := range names {
			lo, hi := mins[name], maxs[name]
			if hi == lo {
				row[name] = ConstantColumnValue
				continue
			}
			row[name] = (table[date][name] - lo) / (hi - lo)
		}
		out[date] = row
	}
	return out, nil
}

// Build assembles a comparison table from index closes and a date-keyed
// average sentiment series. The sentiment series joins under sentimentName.
func Build(points []types.IndexPoint, sentiments map[types.Date]float64, sentimentName string) Table {
	table := make(Table)
	for _, p := range points {
		row, ok := table[p.Date]
		if !ok {
			row = make(map[string]float64)
			table[p.Date] = row
		}
		row[p.IndexName] = p.Close
	}
	for date, v := range sentiments {
		row, ok := table[date]
		if !ok {
			row = make(map[string]float64)
			table[date] = row
		}
		row[sentimentName] = v
	}
	return table
}

// Dates returns the table's dates in ascending order.
func (t Table) Dates() []types.Date {
	dates := make([]types.Date, 0, len(t))
	for d := range t {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// seriesNames returns the sorted union of series names across all dates.
func seriesNames(t Table) []string {
	set := make(map[string]bool)
	for _, row := range t {
		for name := range row {
			set[name] = true
		}
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
