package providers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"aerocleanse/etl/internal/constants"
	"aerocleanse/etl/internal/models/entities"
)

// JSONParser reads a top-level array of field objects
type JSONParser struct{}

func (JSONParser) Format() constants.FileFormat { return constants.FileFormatJSON }

func (JSONParser) Parse(r io.Reader) ([]entities.MaintenanceRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading json: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("expected a JSON array of records")
	}

	var rows []map[string]any
	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()
	if err := decoder.Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}
	if decoder.More() {
		return nil, fmt.Errorf("unexpected data after JSON array")
	}

	records := make([]entities.MaintenanceRecord, 0, len(rows))
	for _, row := range rows {
		var rec entities.MaintenanceRecord
		for column, value := range row {
			assignField(&rec, column, textValue(value))
		}
		records = append(records, rec)
	}
	return records, nil
}
