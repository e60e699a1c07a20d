package table

import (
	"sort"

	"missviz/internal/model"
)

// Order returns t with rows stably sorted ascending by column when enabled
// is true, or t itself when it is false. Link and Website_active compare as
// strings; a flag column compares false before true.
func Order(t *model.Table, enabled bool, column string) (*model.Table, error) {
	less, err := lessFunc(t, column)
	if err != nil {
		return nil, err
	}
	if !enabled {
		return t, nil
	}

	perm := make([]int, len(t.Records))
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool { return less(perm[a], perm[b]) })

	out := &model.Table{
		Columns:    t.Columns,
		Records:    make([]model.Record, len(perm)),
		Flags:      make([][]bool, len(perm)),
		Deselected: t.Deselected,
	}
	for i, src := range perm {
		out.Records[i] = t.Records[src]
		out.Flags[i] = t.Flags[src]
	}
	return out, nil
}

// lessFunc resolves column to a row comparison. The column must exist even
// when sorting is disabled so a bad SORT_COLUMN fails early.
func lessFunc(t *model.Table, column string) (func(i, j int) bool, error) {
	switch column {
	case model.ColumnLink:
		return func(i, j int) bool { return t.Records[i].Link < t.Records[j].Link }, nil
	case model.ColumnWebsiteActive:
		return func(i, j int) bool { return t.Records[i].WebsiteActive < t.Records[j].WebsiteActive }, nil
	}
	col := t.ColumnIndex(column)
	if col < 0 {
		for _, c := range t.Deselected {
			if c.Name == column {
				return nil, &model.ConfigurationError{Option: "SORT_COLUMN", Value: column, Reason: "column deselected by SELECTED_BASES"}
			}
		}
		return nil, &model.ConfigurationError{Option: "SORT_COLUMN", Value: column, Reason: "column not found in flags file"}
	}
	return func(i, j int) bool { return !t.Flags[i][col] && t.Flags[j][col] }, nil
}
