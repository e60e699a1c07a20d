package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"missviz/internal/model"
)

// Write emits t as CSV: Link, Website_active, then the flag columns with
// True/False cells. The output reads back through Read and Normalize.
func Write(w io.Writer, t *model.Table) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(t.Columns)+2)
	header = append(header, model.ColumnLink, model.ColumnWebsiteActive)
	for _, c := range t.Columns {
		header = append(header, c.Name)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, len(header))
	for i, rec := range t.Records {
		row[0] = rec.Link
		row[1] = rec.WebsiteActive
		for j, f := range t.Flags[i] {
			row[j+2] = FormatFlag(f)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes t to path with Write.
func WriteFile(path string, t *model.Table) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()

	if err := Write(f, t); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
