package model

import "strings"

// Names of the two scalar columns every flags file carries.
const (
	ColumnLink          = "Link"
	ColumnWebsiteActive = "Website_active"
)

// Record holds the scalar columns of one row in the flags file.
type Record struct {
	Link          string `csv:"Link"`           // Tracked link or resource
	WebsiteActive string `csv:"Website_active"` // "yes" or "no"
}

// Active reports whether the record's website is marked active.
// Anything other than "yes" (case-insensitive) counts as inactive.
func (r Record) Active() bool {
	return strings.EqualFold(strings.TrimSpace(r.WebsiteActive), "yes")
}

// FlagColumn describes one <Base>_<Version> column.
type FlagColumn struct {
	Name    string // Full header, e.g. Title_dataset1.csv
	Base    string // Field identity shared across versions, e.g. Title
	Version string // Dataset version suffix, e.g. dataset1.csv
}

// Label is the short display name used on axes: the base plus the version
// with any ".csv" extension dropped.
func (c FlagColumn) Label() string {
	v := VersionLabel(c.Version)
	if v == "" {
		return c.Base
	}
	return c.Base + " " + v
}

// VersionLabel strips the ".csv" extension from a version suffix.
func VersionLabel(version string) string {
	return strings.TrimSuffix(version, ".csv")
}

// ParseFlagColumn splits a header at its last underscore. A header with no
// underscore is its own base with an empty version.
func ParseFlagColumn(name string) FlagColumn {
	idx := strings.LastIndex(name, "_")
	if idx < 0 {
		return FlagColumn{Name: name, Base: name}
	}
	return FlagColumn{Name: name, Base: name[:idx], Version: name[idx+1:]}
}

// RawTable is the flags file as read from disk, before normalization.
type RawTable struct {
	Records []Record
	Columns []FlagColumn
	Values  [][]string // Values[row][column], raw cell text
}

// Table is the normalized flags table.
type Table struct {
	Records []Record
	Columns []FlagColumn
	Flags   [][]bool // Flags[row][column]; true means the value was missing

	// Deselected holds the flag columns dropped by a base selection.
	Deselected []FlagColumn
}

// ColumnIndex returns the position of the flag column with the given header,
// or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Bases returns the distinct base names in first-seen column order.
func (t *Table) Bases() []string {
	seen := make(map[string]bool)
	var bases []string
	for _, c := range t.Columns {
		if !seen[c.Base] {
			seen[c.Base] = true
			bases = append(bases, c.Base)
		}
	}
	return bases
}

// Links returns the Link value of every record in table order.
func (t *Table) Links() []string {
	links := make([]string, len(t.Records))
	for i, r := range t.Records {
		links[i] = r.Link
	}
	return links
}
