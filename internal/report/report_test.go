package report

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"missviz/internal/model"
	"missviz/internal/palette"
)

func sampleTable() *model.Table {
	return &model.Table{
		Columns: []model.FlagColumn{
			model.ParseFlagColumn("Title_dataset1.csv"),
			model.ParseFlagColumn("Title_fusioned"),
			model.ParseFlagColumn("h1_dataset1.csv"),
		},
		Records: []model.Record{
			{Link: "a.com", WebsiteActive: "yes"},
			{Link: "b.com", WebsiteActive: "no"},
			{Link: "c.com", WebsiteActive: "yes"},
			{Link: "d.com", WebsiteActive: "yes"},
		},
		Flags: [][]bool{
			{true, false, false},
			{true, false, true},
			{false, false, false},
			{false, false, false},
		},
	}
}

func TestSummarizeCounts(t *testing.T) {
	tbl := sampleTable()
	s := Summarize("flags.csv", tbl, palette.ForTable(tbl))

	if s.Records != 4 || s.Active != 3 || s.Inactive != 1 {
		t.Fatalf("records/active/inactive = %d/%d/%d", s.Records, s.Active, s.Inactive)
	}
	if len(s.Columns) != 3 {
		t.Fatalf("expected 3 column summaries, got %d", len(s.Columns))
	}
	if c := s.Columns[0]; c.Missing != 2 || c.Total != 4 || math.Abs(c.Percent-50) > 1e-9 {
		t.Errorf("Title_dataset1.csv summary = %+v", c)
	}
	if c := s.Columns[1]; c.Missing != 0 || c.Percent != 0 {
		t.Errorf("Title_fusioned summary = %+v", c)
	}
	if len(s.Bases) != 2 || s.Bases[0].Base != "Title" || s.Bases[1].Base != "h1" {
		t.Fatalf("bases = %+v", s.Bases)
	}
	if got := s.Bases[0].Versions; len(got) != 2 || got[0] != "dataset1.csv" || got[1] != "fusioned" {
		t.Errorf("Title versions = %q", got)
	}
	if !strings.HasPrefix(s.Bases[0].Color, "#") || s.Bases[0].Color == s.Bases[1].Color {
		t.Errorf("unexpected base colors %q / %q", s.Bases[0].Color, s.Bases[1].Color)
	}
	if got := s.MissingByRecord["b.com"]; len(got) != 2 {
		t.Errorf("b.com missing = %q", got)
	}
	if _, ok := s.MissingByRecord["c.com"]; ok {
		t.Errorf("c.com has no missing values and should not be listed")
	}
}

func TestSummaryJSON(t *testing.T) {
	tbl := sampleTable()
	data, err := json.Marshal(Summarize("", tbl, palette.ForTable(tbl)))
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	for _, key := range []string{`"records":4`, `"columns":[`, `"bases":[`, `"missing_by_record":{`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("JSON lacks %s: %s", key, data)
		}
	}
	if strings.Contains(string(data), `"source"`) {
		t.Errorf("empty source should be omitted")
	}
}

func TestGenerate(t *testing.T) {
	tbl := sampleTable()
	s := Summarize("flags.csv", tbl, palette.ForTable(tbl))

	plain := Generate(s, tbl, false)
	for _, want := range []string{"MISSING VALUES COMPARISON", "Source:   flags.csv", "Records:  4", "Title_dataset1.csv", "50.0%", "LEGEND", "dataset1, fusioned"} {
		if !strings.Contains(plain, want) {
			t.Errorf("report lacks %q:\n%s", want, plain)
		}
	}
	if strings.Contains(plain, "MISSING BY RECORD") {
		t.Errorf("non-verbose report should not list records")
	}

	verbose := Generate(s, tbl, true)
	if !strings.Contains(verbose, "MISSING BY RECORD") || !strings.Contains(verbose, model.IconMissing+" b.com") {
		t.Errorf("verbose report lacks record detail:\n%s", verbose)
	}
	if strings.Contains(verbose, " c.com") {
		t.Errorf("verbose report lists a complete record:\n%s", verbose)
	}
}

func TestGenerateNothingMissing(t *testing.T) {
	tbl := sampleTable()
	for _, row := range tbl.Flags {
		for i := range row {
			row[i] = false
		}
	}
	s := Summarize("", tbl, palette.ForTable(tbl))
	if out := Generate(s, tbl, true); !strings.Contains(out, "no missing values") {
		t.Errorf("expected a no-missing note:\n%s", out)
	}
}
