package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jszwec/csvutil"

	"missviz/internal/model"
)

// LoadFile opens path and reads it with Read. A missing or unreadable file
// is a configuration error: the path option does not resolve.
func LoadFile(path string) (*model.RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &model.ConfigurationError{Option: "MISSING_FLAGS_FILENAME", Value: path, Reason: "cannot open flags file", Err: err}
	}
	defer f.Close()

	raw, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return raw, nil
}

// Read decodes a flags CSV. The header must contain Link and Website_active;
// every other column is a flag column.
func Read(r io.Reader) (*model.RawTable, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &model.DataContractViolation{Reason: "empty file, header row required"}
		}
		return nil, &model.DataContractViolation{Reason: "malformed header: " + err.Error()}
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	flagIdx, columns, err := splitHeader(header)
	if err != nil {
		return nil, err
	}

	decoder, err := csvutil.NewDecoder(reader, header...)
	if err != nil {
		return nil, &model.DataContractViolation{Reason: "malformed header: " + err.Error()}
	}

	raw := &model.RawTable{Columns: columns}
	for row := 1; ; row++ {
		var rec model.Record
		if err := decoder.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, &model.DataContractViolation{Row: row, Reason: "malformed row: " + err.Error()}
		}

		record := decoder.Record()
		values := make([]string, len(flagIdx))
		for i, idx := range flagIdx {
			values[i] = record[idx]
		}
		raw.Records = append(raw.Records, rec)
		raw.Values = append(raw.Values, values)
	}
	return raw, nil
}

// splitHeader checks the required columns and returns the positions and
// descriptions of the flag columns.
func splitHeader(header []string) ([]int, []model.FlagColumn, error) {
	seen := make(map[string]bool, len(header))
	var idx []int
	var columns []model.FlagColumn
	for i, name := range header {
		if seen[name] {
			return nil, nil, &model.DataContractViolation{Column: name, Reason: "duplicate column"}
		}
		seen[name] = true
		if name == model.ColumnLink || name == model.ColumnWebsiteActive {
			continue
		}
		idx = append(idx, i)
		columns = append(columns, model.ParseFlagColumn(name))
	}

	for _, required := range []string{model.ColumnLink, model.ColumnWebsiteActive} {
		if !seen[required] {
			return nil, nil, &model.DataContractViolation{Column: required, Reason: "required column missing"}
		}
	}
	if len(columns) == 0 {
		return nil, nil, &model.DataContractViolation{Reason: "no flag columns besides Link and Website_active"}
	}
	return idx, columns, nil
}
