package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
)

// LoadCSV reads a dataset from a CSV file. The first row is the header and
// provides feature ids. A column is treated as numeric if every value
// parses as a float; otherwise it is categorical and its values are encoded
// as level codes in first-seen order.
//
// If labelColumn is non-empty, that column is extracted as the label vector
// and excluded from the feature set. Categorical labels are encoded the
// same way as categorical features.
func LoadCSV(path, labelColumn string) (*Dataset, []float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("dataset: open %s: %w", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("dataset: parse %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, nil, fmt.Errorf("dataset: %s needs a header row and at least one data row", path)
	}

	header := records[0]
	data := records[1:]

	labelIdx := -1
	if labelColumn != "" {
		for i, name := range header {
			if name == labelColumn {
				labelIdx = i
				break
			}
		}
		if labelIdx < 0 {
			return nil, nil, fmt.Errorf("dataset: label column %q not found in %s", labelColumn, path)
		}
	}

	numeric := make([]bool, len(header))
	for c := range header {
		numeric[c] = true
		for _, row := range data {
			if _, err := strconv.ParseFloat(row[c], 64); err != nil {
				numeric[c] = false
				break
			}
		}
	}

	encodeColumn := func(c int) ([]float64, []string) {
		out := make([]float64, len(data))
		if numeric[c] {
			for r, row := range data {
				out[r], _ = strconv.ParseFloat(row[c], 64)
			}
			return out, nil
		}
		codes := make(map[string]int)
		var levels []string
		for r, row := range data {
			code, ok := codes[row[c]]
			if !ok {
				code = len(levels)
				codes[row[c]] = code
				levels = append(levels, row[c])
			}
			out[r] = float64(code)
		}
		return out, levels
	}

	var features []Feature
	var columns [][]float64
	levelsByID := make(map[string][]string)
	for c, name := range header {
		if c == labelIdx {
			continue
		}
		values, levels := encodeColumn(c)
		features = append(features, Feature{ID: name, Numeric: numeric[c]})
		columns = append(columns, values)
		if levels != nil {
			levelsByID[name] = levels
		}
	}

	rows := make([][]float64, len(data))
	for r := range data {
		row := make([]float64, len(columns))
		for c := range columns {
			row[c] = columns[c][r]
		}
		rows[r] = row
	}

	ds, err := New(features, rows)
	if err != nil {
		return nil, nil, err
	}
	for id, levels := range levelsByID {
		ds.SetLevels(id, levels)
	}

	var labels []float64
	if labelIdx >= 0 {
		labels, _ = encodeColumn(labelIdx)
	}

	log.Debug().
		Str("path", path).
		Int("rows", ds.NRows()).
		Int("features", len(features)).
		Bool("labeled", labels != nil).
		Msg("dataset loaded")

	return ds, labels, nil
}
