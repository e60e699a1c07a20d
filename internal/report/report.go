// Package report summarizes missing values per flag column.
package report

import (
	"fmt"
	"strings"

	"missviz/internal/model"
	"missviz/internal/palette"
)

// ColumnSummary counts missing values in one flag column.
type ColumnSummary struct {
	Name    string  `json:"name"`
	Base    string  `json:"base"`
	Version string  `json:"version"`
	Missing int     `json:"missing"`
	Total   int     `json:"total"`
	Percent float64 `json:"percent"`
}

// BaseSummary lists the versions of one field and its assigned color.
type BaseSummary struct {
	Base     string   `json:"base"`
	Color    string   `json:"color"`
	Versions []string `json:"versions"`
}

// Summary is the whole-table overview.
type Summary struct {
	Source   string          `json:"source,omitempty"`
	Records  int             `json:"records"`
	Active   int             `json:"active"`
	Inactive int             `json:"inactive"`
	Columns  []ColumnSummary `json:"columns"`
	Bases    []BaseSummary   `json:"bases"`

	// MissingByRecord lists, per link, the columns missing a value.
	// Only records with at least one missing value appear.
	MissingByRecord map[string][]string `json:"missing_by_record,omitempty"`
}

// Summarize counts missing flags in t. colors supplies the legend colors.
func Summarize(source string, t *model.Table, colors *palette.Map) Summary {
	s := Summary{
		Source:          source,
		Records:         len(t.Records),
		MissingByRecord: make(map[string][]string),
	}
	for _, r := range t.Records {
		if r.Active() {
			s.Active++
		} else {
			s.Inactive++
		}
	}

	for col, c := range t.Columns {
		cs := ColumnSummary{Name: c.Name, Base: c.Base, Version: c.Version, Total: len(t.Records)}
		for row := range t.Records {
			if t.Flags[row][col] {
				cs.Missing++
				link := t.Records[row].Link
				s.MissingByRecord[link] = append(s.MissingByRecord[link], c.Name)
			}
		}
		if cs.Total > 0 {
			cs.Percent = 100 * float64(cs.Missing) / float64(cs.Total)
		}
		s.Columns = append(s.Columns, cs)
	}

	versions := make(map[string][]string)
	for _, c := range t.Columns {
		versions[c.Base] = append(versions[c.Base], c.Version)
	}
	for _, base := range t.Bases() {
		bs := BaseSummary{Base: base, Versions: versions[base]}
		if c, ok := colors.Color(base); ok {
			bs.Color = palette.Hex(c)
		}
		s.Bases = append(s.Bases, bs)
	}
	return s
}

// Generate formats s as a plain-text report. verbose adds the per-record
// missing lists in table order.
func Generate(s Summary, t *model.Table, verbose bool) string {
	var b strings.Builder

	b.WriteString("MISSING VALUES COMPARISON\n")
	b.WriteString("=========================\n\n")
	if s.Source != "" {
		fmt.Fprintf(&b, "Source:   %s\n", s.Source)
	}
	fmt.Fprintf(&b, "Records:  %d (%s %d active, %s %d inactive)\n", s.Records, model.IconActive, s.Active, model.IconInactive, s.Inactive)
	fmt.Fprintf(&b, "Fields:   %d across %d flag columns\n\n", len(s.Bases), len(s.Columns))

	width := len("COLUMN")
	for _, c := range s.Columns {
		width = max(width, len(c.Name))
	}
	fmt.Fprintf(&b, "%-*s  %8s  %8s\n", width, "COLUMN", "MISSING", "PERCENT")
	lastBase := ""
	for i, c := range s.Columns {
		if i > 0 && c.Base != lastBase {
			b.WriteString("\n")
		}
		lastBase = c.Base
		fmt.Fprintf(&b, "%-*s  %8d  %7.1f%%\n", width, c.Name, c.Missing, c.Percent)
	}

	b.WriteString("\nLEGEND\n")
	for _, base := range s.Bases {
		label := base.Base
		if label == "" {
			label = "default"
		}
		var vs []string
		for _, v := range base.Versions {
			vs = append(vs, model.VersionLabel(v))
		}
		fmt.Fprintf(&b, "  %s %-*s %s\n", base.Color, width, label, strings.Join(vs, ", "))
	}

	if verbose && t != nil {
		b.WriteString("\nMISSING BY RECORD\n")
		printed := make(map[string]bool)
		for _, r := range t.Records {
			cols, ok := s.MissingByRecord[r.Link]
			if !ok || printed[r.Link] {
				continue
			}
			printed[r.Link] = true
			fmt.Fprintf(&b, "  %s %s\n", model.IconMissing, r.Link)
			for _, c := range dedupe(cols) {
				fmt.Fprintf(&b, "      %s\n", c)
			}
		}
		if len(printed) == 0 {
			fmt.Fprintf(&b, "  %s no missing values\n", model.IconPresent)
		}
	}
	return b.String()
}

// dedupe drops repeats while keeping order. Links are not unique, so one
// link can collect the same column more than once.
func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0:0]
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
