package table

import (
	"sort"

	"missviz/internal/model"
)

// Select keeps the flag columns whose base is listed in bases, ordered by
// list position and then by input order. An empty list keeps everything.
func Select(t *model.Table, bases []string) (*model.Table, error) {
	if len(bases) == 0 {
		return t, nil
	}

	rank := make(map[string]int, len(bases))
	for i, b := range bases {
		if _, dup := rank[b]; !dup {
			rank[b] = i
		}
	}

	var keep []int
	var dropped []model.FlagColumn
	found := make(map[string]bool)
	for i, c := range t.Columns {
		if _, ok := rank[c.Base]; ok {
			keep = append(keep, i)
			found[c.Base] = true
		} else {
			dropped = append(dropped, c)
		}
	}
	for _, b := range bases {
		if !found[b] {
			return nil, &model.ConfigurationError{Option: "SELECTED_BASES", Value: b, Reason: "no flag column has this base name"}
		}
	}
	sort.SliceStable(keep, func(a, b int) bool {
		return rank[t.Columns[keep[a]].Base] < rank[t.Columns[keep[b]].Base]
	})

	out := &model.Table{
		Records:    t.Records,
		Columns:    make([]model.FlagColumn, len(keep)),
		Flags:      make([][]bool, len(t.Flags)),
		Deselected: append(append([]model.FlagColumn(nil), t.Deselected...), dropped...),
	}
	for i, src := range keep {
		out.Columns[i] = t.Columns[src]
	}
	for row, flags := range t.Flags {
		picked := make([]bool, len(keep))
		for i, src := range keep {
			picked[i] = flags[src]
		}
		out.Flags[row] = picked
	}
	return out, nil
}
