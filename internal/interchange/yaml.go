package interchange

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"timecapsule/internal/logs"
	"timecapsule/internal/records"
)

const backupVersion = 1

// Backup is the YAML document holding both stores.
type Backup struct {
	Version    int                  `yaml:"version"`
	Dates      []records.DateRecord `yaml:"dates"`
	Categories []records.Category   `yaml:"categories"`
}

// WriteYAML encodes recs and cats as a Backup document.
func WriteYAML(recs *records.Records, cats *records.Categories, w io.Writer) error {
	doc := Backup{
		Version:    backupVersion,
		Dates:      recs.All(),
		Categories: cats.All(),
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

// ExportYAML writes a Backup of recs and cats to path.
func ExportYAML(recs *records.Records, cats *records.Categories, path string) error {
	var buf bytes.Buffer
	if err := WriteYAML(recs, cats, &buf); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	logs.Logger.Printf("Exported %d records and %d categories to %s", recs.Len(), cats.Len(), path)
	return nil
}

// ReadYAML decodes a Backup document. Dates that do not parse, entries without
// a name and categories with a bad color are rejected into the report.
func ReadYAML(r io.Reader) (*records.Records, *records.Categories, ImportReport, error) {
	var report ImportReport
	var doc Backup
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, nil, report, err
	}
	if doc.Version > backupVersion {
		return nil, nil, report, fmt.Errorf("unsupported backup version %d", doc.Version)
	}

	recs := records.NewRecords()
	for i, rec := range doc.Dates {
		if rec.Name == "" {
			report.Rejected = append(report.Rejected, RowError{Line: i + 1, Err: errors.New("empty event name")})
			continue
		}
		if _, err := records.ParseDate(rec.Date); err != nil {
			report.Rejected = append(report.Rejected, RowError{Line: i + 1, Event: rec.Name, Err: err})
			continue
		}
		recs.Upsert(rec)
	}

	cats := records.NewCategories()
	for i, c := range doc.Categories {
		if c.Name == "" {
			report.Rejected = append(report.Rejected, RowError{Line: i + 1, Err: errors.New("empty category name")})
			continue
		}
		if err := records.ValidateColor(c.Color); err != nil {
			report.Rejected = append(report.Rejected, RowError{Line: i + 1, Event: c.Name, Err: err})
			continue
		}
		cats.Set(c.Name, c.Color)
	}

	report.Imported = recs.Len()
	return recs, cats, report, nil
}

// ImportYAML reads a Backup from path. A missing file yields ErrNotFound.
func ImportYAML(path string) (*records.Records, *records.Categories, ImportReport, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, ImportReport{}, fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return nil, nil, ImportReport{}, fmt.Errorf("error reading %s: %w", path, err)
	}
	defer f.Close()

	recs, cats, report, err := ReadYAML(f)
	if err != nil {
		return nil, nil, report, fmt.Errorf("error reading %s: %w", path, err)
	}
	return recs, cats, report, nil
}
