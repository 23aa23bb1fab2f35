package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/MichalMitros/az-phone-market/internal/platform/models"
)

const (
	// DatasetFile is name of the unified CSV.
	DatasetFile = "data.csv"
	// DiagnosticsFile is name of the combine report.
	DiagnosticsFile = "diagnostics.json"
)

// Exports stores run artifacts in a data directory.
type Exports struct {
	dir string
}

// NewExports returns Exports rooted at dir.
func NewExports(dir string) *Exports {
	return &Exports{dir: dir}
}

// RawPath returns path of raw export of the source.
func (e Exports) RawPath(source string) string {
	return filepath.Join(e.dir, source+".csv")
}

// DatasetPath returns path of the unified CSV.
func (e Exports) DatasetPath() string {
	return filepath.Join(e.dir, DatasetFile)
}

// WriteRaw replaces raw export of the source.
func (e Exports) WriteRaw(source string, fields []string, records []models.RawRecord) error {
	return e.write(e.RawPath(source), func(w io.Writer) error {
		return WriteRecords(w, fields, records)
	})
}

// ReadRaw reads raw export of the source.
// Returns ErrExportMissing when the source was never scraped.
func (e Exports) ReadRaw(source string) (models.SourceRecords, error) {
	f, err := os.Open(e.RawPath(source))
	if errors.Is(err, fs.ErrNotExist) {
		return models.SourceRecords{}, fmt.Errorf("%w: %s", ErrExportMissing, source)
	}
	if err != nil {
		return models.SourceRecords{}, fmt.Errorf("can't open raw export: %w", err)
	}
	defer f.Close()

	_, records, err := ReadRecords(f)
	if err != nil {
		return models.SourceRecords{}, fmt.Errorf("can't read raw export of %s: %w", source, err)
	}

	return models.SourceRecords{Source: source, Records: records}, nil
}

// WriteDataset replaces the unified CSV.
func (e Exports) WriteDataset(ds models.Dataset) error {
	return e.write(e.DatasetPath(), func(w io.Writer) error {
		return WriteListings(w, ds)
	})
}

// ReadDataset reads the unified CSV.
func (e Exports) ReadDataset() (models.Dataset, error) {
	f, err := os.Open(e.DatasetPath())
	if err != nil {
		return nil, fmt.Errorf("can't open dataset: %w", err)
	}
	defer f.Close()

	return ReadListings(f)
}

// WriteDiagnostics replaces the combine report.
func (e Exports) WriteDiagnostics(d models.Diagnostics) error {
	return e.write(filepath.Join(e.dir, DiagnosticsFile), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	})
}

// ReadDiagnostics reads the combine report.
// Missing report gives empty diagnostics.
func (e Exports) ReadDiagnostics() (models.Diagnostics, error) {
	var d models.Diagnostics

	f, err := os.Open(filepath.Join(e.dir, DiagnosticsFile))
	if errors.Is(err, fs.ErrNotExist) {
		return d, nil
	}
	if err != nil {
		return d, fmt.Errorf("can't open diagnostics: %w", err)
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(&d); err != nil {
		return d, fmt.Errorf("can't decode diagnostics: %w", err)
	}

	return d, nil
}

// write writes file through a temporary file, so readers never see partial content.
func (e Exports) write(path string, fn func(w io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("can't create directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("can't create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("can't set file mode: %w", err)
	}

	if err := fn(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("can't write %s: %w", filepath.Base(path), err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("can't close %s: %w", filepath.Base(path), err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("can't replace %s: %w", filepath.Base(path), err)
	}

	return nil
}
