package providers

import (
	"encoding/json"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"aerocleanse/etl/internal/constants"
	"aerocleanse/etl/internal/models/entities"
)

// RecordParser turns one staged file into raw maintenance records
type RecordParser interface {
	// Parse reads the whole file; any error discards every row of that file
	Parse(r io.Reader) ([]entities.MaintenanceRecord, error)

	// Format returns the format identifier handled by this parser
	Format() constants.FileFormat
}

// parsers maps lower-cased file extensions to their parser
var parsers = map[string]RecordParser{
	".csv":  CSVParser{},
	".json": JSONParser{},
}

// ParserFor returns the parser for a staged file name, or nil when the extension is not handled
func ParserFor(name string) RecordParser {
	return parsers[strings.ToLower(filepath.Ext(name))]
}

// assignField copies a column value onto the typed record. Unknown columns
// (including a user-supplied source_file) are ignored.
func assignField(rec *entities.MaintenanceRecord, column string, value *string) {
	switch column {
	case constants.FieldAircraftID:
		rec.AircraftID = value
	case constants.FieldEventDate:
		rec.RawEventDate = value
	case constants.FieldDescription:
		rec.Description = value
	case constants.FieldTechnician:
		rec.Technician = value
	case constants.FieldLocation:
		rec.Location = value
	case constants.FieldPartsReplaced:
		rec.PartsReplaced = value
	}
}

// textValue renders a decoded JSON value as record text; nil means absent
func textValue(v any) *string {
	var s string
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		s = val
	case json.Number:
		s = val.String()
	case bool:
		s = strconv.FormatBool(val)
	default:
		raw, err := json.Marshal(val)
		if err != nil {
			return nil
		}
		s = string(raw)
	}
	return &s
}
