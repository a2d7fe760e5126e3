package diary

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	go_json "github.com/goccy/go-json"
)

// ReadCSV imports a CSV export with a header row. Malformed entries are
// skipped and reported rather than failing the import.
func ReadCSV(r io.Reader, opts Options) (Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return Result{}, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("failed to read csv header: %w", err)
	}
	for i, h := range header {
		header[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	}

	var res Result
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Result{}, fmt.Errorf("failed to read csv: %w", err)
		}

		line, _ := cr.FieldPos(0)
		fields := make(map[string]string, len(header))
		for i, v := range row {
			if i < len(header) {
				fields[header[i]] = v
			}
		}
		res.add(line, fields, opts)
	}
	return res, nil
}

// ReadJSON imports a JSON array of entry objects. Values may be strings,
// numbers, booleans or null.
func ReadJSON(r io.Reader, opts Options) (Result, error) {
	var entries []map[string]any
	if err := go_json.NewDecoder(r).Decode(&entries); err != nil {
		return Result{}, fmt.Errorf("failed to decode json: %w", err)
	}

	var res Result
	for i, entry := range entries {
		fields := make(map[string]string, len(entry))
		for k, v := range entry {
			fields[strings.ToLower(k)] = stringify(v)
		}
		res.add(i+1, fields, opts)
	}
	return res, nil
}

func stringify(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
