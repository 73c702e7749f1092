package providers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"aerocleanse/etl/internal/constants"
	"aerocleanse/etl/internal/models/entities"
)

// CSVParser reads delimited text whose first row names the record fields
type CSVParser struct{}

func (CSVParser) Format() constants.FileFormat { return constants.FileFormatCSV }

func (CSVParser) Parse(r io.Reader) ([]entities.MaintenanceRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("no columns to parse from file")
		}
		return nil, fmt.Errorf("reading csv header: %w", err)
	}
	for i, h := range headers {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		headers[i] = strings.TrimSpace(h)
	}

	var records []entities.MaintenanceRecord
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv row: %w", err)
		}

		line, _ := reader.FieldPos(0)
		if len(row) > len(headers) {
			return nil, fmt.Errorf("line %d: expected %d fields, saw %d", line, len(headers), len(row))
		}

		var rec entities.MaintenanceRecord
		for j, cell := range row {
			// empty cells are absent, short rows leave trailing fields absent
			if cell == "" {
				continue
			}
			value := cell
			assignField(&rec, headers[j], &value)
		}
		records = append(records, rec)
	}

	return records, nil
}
