package services

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"aerocleanse/etl/internal/constants"
	"aerocleanse/etl/internal/logging"
)

// ArchiveFailure is a staged file that could not be moved
type ArchiveFailure struct {
	Name string
	Err  error
}

// ArchiveResult reports where staged files went
type ArchiveResult struct {
	Destination string
	Moved       []string
	Failed      []ArchiveFailure
}

// ArchiveService moves consumed files out of the staging directory
type ArchiveService struct {
	stagingDir string
}

// NewArchiveService creates an archiver for stagingDir
func NewArchiveService(stagingDir string) *ArchiveService {
	return &ArchiveService{stagingDir: stagingDir}
}

// Archive moves the named staging files into destDir, keeping their names.
// An existing file with the same name in destDir is overwritten.
// A failed move is logged and the remaining files are still moved.
func (s *ArchiveService) Archive(names []string, destDir string) ArchiveResult {
	result := ArchiveResult{Destination: destDir}
	if len(names) == 0 {
		return result
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		err = fmt.Errorf("failed to create archive dir %s: %w", destDir, err)
		for _, name := range names {
			logging.Error(constants.MsgArchiveFileFailed, "file", name, "error", err.Error())
			result.Failed = append(result.Failed, ArchiveFailure{Name: name, Err: err})
		}
		return result
	}

	for _, name := range names {
		src := filepath.Join(s.stagingDir, name)
		dst := filepath.Join(destDir, name)
		if err := moveFile(src, dst); err != nil {
			logging.Error(constants.MsgArchiveFileFailed, "file", name, "destination", destDir, "error", err.Error())
			result.Failed = append(result.Failed, ArchiveFailure{Name: name, Err: err})
			continue
		}
		result.Moved = append(result.Moved, name)
	}

	logging.Info("Archived staging files",
		"destination", destDir,
		"moved", len(result.Moved),
		"failed", len(result.Failed),
	)
	return result
}

// Drain archives every regular, non-hidden file currently in staging
func (s *ArchiveService) Drain(destDir string) (ArchiveResult, error) {
	entries, err := os.ReadDir(s.stagingDir)
	if err != nil {
		return ArchiveResult{Destination: destDir}, fmt.Errorf("failed to list staging dir %s: %w", s.stagingDir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		names = append(names, entry.Name())
	}
	return s.Archive(names, destDir), nil
}

// moveFile renames src to dst, copying across filesystems when rename cannot
func moveFile(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return err
	}
	return copyAndRemove(src, dst)
}

func copyAndRemove(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("copying %s: %w", src, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, info.Mode().Perm()); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return err
	}

	in.Close()
	return os.Remove(src)
}
