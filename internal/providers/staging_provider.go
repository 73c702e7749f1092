package providers

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"aerocleanse/etl/internal/constants"
	"aerocleanse/etl/internal/logging"
	"aerocleanse/etl/internal/models/entities"
)

// FileResult describes what happened to one staged file during extraction
type FileResult struct {
	Name    string
	Format  constants.FileFormat
	Rows    int
	Skipped bool  // extension not handled; the file is still part of the snapshot
	Err     error // read or parse failure; the file contributed no rows
}

// ExtractResult is the concatenated raw batch plus the per-file outcome
type ExtractResult struct {
	Records []entities.MaintenanceRecord
	Files   []FileResult
}

// FileNames returns every file in the extraction snapshot, in processing order
func (r *ExtractResult) FileNames() []string {
	names := make([]string, 0, len(r.Files))
	for _, f := range r.Files {
		names = append(names, f.Name)
	}
	return names
}

// FailedFiles returns the files that could not be read or parsed
func (r *ExtractResult) FailedFiles() []FileResult {
	var failed []FileResult
	for _, f := range r.Files {
		if f.Err != nil {
			failed = append(failed, f)
		}
	}
	return failed
}

// StagingProvider reads every pending file from the staging directory
type StagingProvider struct {
	dir string
}

// NewStagingProvider creates a provider over dir
func NewStagingProvider(dir string) *StagingProvider {
	return &StagingProvider{dir: dir}
}

// Extract parses all staged files into one batch. Rows keep file-then-row
// order; files are visited in name order. Hidden files and directories are
// not staged inputs. Only a failure to list the directory is returned.
func (p *StagingProvider) Extract() (*ExtractResult, error) {
	result := &ExtractResult{}

	entries, err := os.ReadDir(p.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if err := os.MkdirAll(p.dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create staging dir %s: %w", p.dir, err)
			}
			logging.Info(constants.MsgNoFilesFound, "staging_dir", p.dir)
			return result, nil
		}
		return nil, fmt.Errorf("failed to list staging dir %s: %w", p.dir, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		parser := ParserFor(name)
		if parser == nil {
			logging.Debug("Skipping staged file with unsupported extension", "file", name)
			result.Files = append(result.Files, FileResult{Name: name, Skipped: true})
			continue
		}

		records, err := p.readFile(name, parser)
		if err != nil {
			logging.Error(constants.MsgReadFileFailed, "file", name, "format", parser.Format(), "error", err.Error())
			result.Files = append(result.Files, FileResult{Name: name, Format: parser.Format(), Err: err})
			continue
		}

		result.Records = append(result.Records, records...)
		result.Files = append(result.Files, FileResult{Name: name, Format: parser.Format(), Rows: len(records)})
	}

	logging.Info("Found files to process",
		"staging_dir", p.dir,
		"files", len(result.Files),
		"failed", len(result.FailedFiles()),
		"rows", len(result.Records),
	)
	return result, nil
}

func (p *StagingProvider) readFile(name string, parser RecordParser) ([]entities.MaintenanceRecord, error) {
	f, err := os.Open(filepath.Join(p.dir, name))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := parser.Parse(f)
	if err != nil {
		return nil, err
	}

	for i := range records {
		records[i].SourceFile = name
	}
	return records, nil
}
