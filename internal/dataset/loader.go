package dataset

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"team-insights-go/internal/logger"
	"team-insights-go/internal/types"
)

// LoadRows reads the first sheet of an xlsx file into header-keyed rows.
// Row 0 is treated as the header; downstream alias matching handles
// whatever column names the sheet actually carries.
func LoadRows(path string) ([]types.Row, []string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()
	return rowsFromFile(f)
}

// ParseRows reads an uploaded xlsx payload, same contract as LoadRows.
func ParseRows(r io.Reader) ([]types.Row, []string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	return rowsFromFile(f)
}

func rowsFromFile(f *excelize.File) ([]types.Row, []string, error) {
	log := logger.Component("dataset")

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) <= 1 {
		return nil, nil, fmt.Errorf("no data rows")
	}

	header := make([]string, 0, len(rows[0]))
	for _, h := range rows[0] {
		header = append(header, strings.TrimSpace(h))
	}

	var out []types.Row
	for i, r := range rows {
		if i == 0 {
			continue
		}
		row := types.Row{}
		empty := true
		for j, cell := range r {
			if j >= len(header) || header[j] == "" {
				continue
			}
			cell = strings.TrimSpace(cell)
			if cell != "" {
				empty = false
			}
			row[header[j]] = cell
		}
		// skip fully blank rows quietly
		if empty {
			continue
		}
		out = append(out, row)
	}

	log.WithField("sheet", sheets[0]).
		WithField("columns", len(header)).
		WithField("data_rows", len(out)).Info("spreadsheet decoded")
	return out, header, nil
}
