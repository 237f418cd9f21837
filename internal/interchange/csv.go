package interchange

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"timecapsule/internal/logs"
	"timecapsule/internal/records"
)

// ErrNotFound is matched when an import file does not exist.
var ErrNotFound = errors.New("file not found")

// Header is the fixed CSV column order.
var Header = []string{"Event", "Date", "Notes", "Category"}

// RowError describes an import row that was rejected.
type RowError struct {
	Line  int
	Event string
	Err   error
}

func (e RowError) Error() string {
	if e.Event == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d (%s): %v", e.Line, e.Event, e.Err)
}

// ImportReport summarizes an import.
type ImportReport struct {
	Imported int
	Rejected []RowError
}

// WriteCSV writes recs with the fixed header, one row per record in insertion order.
func WriteCSV(recs *records.Records, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, rec := range recs.All() {
		if err := cw.Write([]string{rec.Name, rec.Date, rec.Notes, rec.Category}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportCSV writes recs to path, replacing it.
func ExportCSV(recs *records.Records, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	if err := WriteCSV(recs, f); err != nil {
		f.Close()
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	logs.Logger.Printf("Exported %d records to %s", recs.Len(), path)
	return nil
}

// ReadCSV reads records from a CSV with a header row. Event and Date columns
// are required; Notes and Category default to empty. Rows with an empty event
// or an unparsable date are rejected and listed in the report.
func ReadCSV(r io.Reader) (*records.Records, ImportReport, error) {
	var report ImportReport

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, report, fmt.Errorf("missing header row")
	}
	if err != nil {
		return nil, report, err
	}

	cols := make(map[string]int)
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}
	for _, required := range []string{"Event", "Date"} {
		if _, ok := cols[required]; !ok {
			return nil, report, fmt.Errorf("missing %q column in header", required)
		}
	}

	field := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	recs := records.NewRecords()
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, report, err
		}
		line, _ := cr.FieldPos(0)

		rec := records.DateRecord{
			Name:     field(row, "Event"),
			Date:     field(row, "Date"),
			Notes:    field(row, "Notes"),
			Category: field(row, "Category"),
		}
		if rec.Name == "" {
			report.Rejected = append(report.Rejected, RowError{Line: line, Err: errors.New("empty event name")})
			continue
		}
		if _, err := records.ParseDate(rec.Date); err != nil {
			report.Rejected = append(report.Rejected, RowError{Line: line, Event: rec.Name, Err: err})
			continue
		}
		recs.Upsert(rec)
	}

	report.Imported = recs.Len()
	return recs, report, nil
}

// ImportCSV reads the CSV file at path. A missing file yields an error
// matching ErrNotFound.
func ImportCSV(path string) (*records.Records, ImportReport, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ImportReport{}, fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return nil, ImportReport{}, fmt.Errorf("error reading %s: %w", path, err)
	}
	defer f.Close()

	recs, report, err := ReadCSV(f)
	if err != nil {
		return nil, report, fmt.Errorf("error reading %s: %w", path, err)
	}
	logs.Logger.Printf("Read %d records from %s (%d rejected)", report.Imported, path, len(report.Rejected))
	return recs, report, nil
}
