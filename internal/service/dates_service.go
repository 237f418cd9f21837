package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"timecapsule/internal/interchange"
	"timecapsule/internal/logs"
	"timecapsule/internal/records"
	"timecapsule/internal/view"
)

// CorruptPolicy decides what Open does with a store file that does not parse.
type CorruptPolicy int

const (
	// CorruptAbort returns the records.ErrCorrupt error to the caller.
	CorruptAbort CorruptPolicy = iota
	// CorruptStartEmpty moves the corrupt file aside and starts with an empty store.
	CorruptStartEmpty
)

// Options configures a DatesService.
type Options struct {
	DatesFile      string
	CategoriesFile string
	OnCorrupt      CorruptPolicy
	SortMode       view.SortMode
	// Now defaults to time.Now.
	Now func() time.Time
}

// DatesService owns the loaded records and categories. Every mutation is
// validated, applied and persisted before it returns.
type DatesService interface {
	Records() *records.Records
	Categories() *records.Categories
	Get(name string) (records.DateRecord, error)
	Add(rec records.DateRecord) error
	Edit(original string, rec records.DateRecord) error
	Delete(name string) (bool, error)
	SetCategory(name, color string) error
	DeleteCategory(name string) (bool, error)
	Project(query string) []view.Row
	Sort(rows []view.Row, column view.Column, descending bool) []view.Row
	ImportCSV(path string) (interchange.ImportReport, error)
	ExportCSV(path string) error
	ImportYAML(path string) (interchange.ImportReport, error)
	ExportYAML(path string) error
	Reload() error
	Recovered() []string
}

type datesServiceImpl struct {
	dates      *records.DateStore
	cats       *records.CategoryStore
	records    *records.Records
	categories *records.Categories
	opts       Options
	recovered  []string
}

// Open loads both stores and returns a service over them.
func Open(opts Options) (DatesService, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.SortMode == "" {
		opts.SortMode = view.SortText
	}
	svc := &datesServiceImpl{
		dates: records.NewDateStore(opts.DatesFile),
		cats:  records.NewCategoryStore(opts.CategoriesFile),
		opts:  opts,
	}
	if err := svc.Reload(); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *datesServiceImpl) Reload() error {
	recs, recsErr := s.dates.Load()
	cats, catsErr := s.cats.Load()
	// Nothing is moved aside unless every failed load can start empty.
	for _, err := range []error{recsErr, catsErr} {
		if err != nil && !s.canStartEmpty(err) {
			return err
		}
	}
	if recsErr != nil {
		if err := s.quarantine(s.dates.Path()); err != nil {
			return err
		}
		recs = records.NewRecords()
	}
	if catsErr != nil {
		if err := s.quarantine(s.cats.Path()); err != nil {
			return err
		}
		cats = records.NewCategories()
	}
	s.records = recs
	s.categories = cats
	logs.Logger.Printf("Loaded %d records and %d categories", recs.Len(), cats.Len())
	return nil
}

// Recovered lists the quarantined copies of corrupt files moved aside by Open or Reload.
func (s *datesServiceImpl) Recovered() []string {
	return s.recovered
}

func (s *datesServiceImpl) Records() *records.Records {
	return s.records
}

func (s *datesServiceImpl) Categories() *records.Categories {
	return s.categories
}

func (s *datesServiceImpl) Get(name string) (records.DateRecord, error) {
	rec, ok := s.records.Get(name)
	if !ok {
		return records.DateRecord{}, fmt.Errorf("no event named %q", name)
	}
	return rec, nil
}

func (s *datesServiceImpl) Add(rec records.DateRecord) error {
	rec, err := s.validate(rec, "")
	if err != nil {
		return err
	}
	logs.Logger.Printf("Service: Add: %s", rec)
	next := s.records.Clone()
	next.Upsert(rec)
	return s.saveRecords(next)
}

// Edit fully replaces the record named original with rec. When rec has a new
// name the original entry is removed.
func (s *datesServiceImpl) Edit(original string, rec records.DateRecord) error {
	current, ok := s.records.Get(original)
	if !ok {
		return fmt.Errorf("no event named %q", original)
	}
	rec, err := s.validate(rec, current.Category)
	if err != nil {
		return err
	}
	logs.Logger.Printf("Service: Edit %q: %s", original, rec)
	next := s.records.Clone()
	if rec.Name != original {
		next.Delete(original)
	}
	next.Upsert(rec)
	return s.saveRecords(next)
}

// Delete removes name. It reports false, and writes nothing, if name is absent.
func (s *datesServiceImpl) Delete(name string) (bool, error) {
	if !s.records.Has(name) {
		return false, nil
	}
	logs.Logger.Printf("Service: Delete: %q", name)
	next := s.records.Clone()
	next.Delete(name)
	if err := s.saveRecords(next); err != nil {
		return false, err
	}
	return true, nil
}

func (s *datesServiceImpl) SetCategory(name, color string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalid("category", "name is required")
	}
	if err := records.ValidateColor(color); err != nil {
		return invalid("color", "%v", err)
	}
	next := cloneCategories(s.categories)
	next.Set(name, color)
	if err := s.cats.Save(next); err != nil {
		return err
	}
	s.categories = next
	logs.Logger.Printf("Service: SetCategory: %s %s", name, color)
	return nil
}

// DeleteCategory removes a category. Records that use it keep the name and
// render as uncategorized.
func (s *datesServiceImpl) DeleteCategory(name string) (bool, error) {
	if !s.categories.Has(name) {
		return false, nil
	}
	next := cloneCategories(s.categories)
	next.Delete(name)
	if err := s.cats.Save(next); err != nil {
		return false, err
	}
	s.categories = next
	logs.Logger.Printf("Service: DeleteCategory: %q", name)
	return true, nil
}

func (s *datesServiceImpl) Project(query string) []view.Row {
	return view.Filter(s.records, s.categories, query, s.opts.Now())
}

func (s *datesServiceImpl) Sort(rows []view.Row, column view.Column, descending bool) []view.Row {
	return view.SortRows(rows, column, descending, s.opts.SortMode)
}

// ImportCSV merges the rows of a CSV file into the store, overwriting by name.
// Nothing changes when the file is missing or unreadable.
func (s *datesServiceImpl) ImportCSV(path string) (interchange.ImportReport, error) {
	imported, report, err := interchange.ImportCSV(path)
	if err != nil {
		return report, err
	}
	next := s.records.Clone()
	next.Merge(imported)
	if err := s.saveRecords(next); err != nil {
		return report, err
	}
	logs.Logger.Printf("Service: ImportCSV: %d imported, %d rejected", report.Imported, len(report.Rejected))
	return report, nil
}

func (s *datesServiceImpl) ExportCSV(path string) error {
	return interchange.ExportCSV(s.records, path)
}

// ImportYAML merges a YAML backup into both stores. Records are saved first:
// if the categories save then fails, the new records only hold dangling
// category references, which render as uncategorized.
func (s *datesServiceImpl) ImportYAML(path string) (interchange.ImportReport, error) {
	recs, cats, report, err := interchange.ImportYAML(path)
	if err != nil {
		return report, err
	}

	next := s.records.Clone()
	next.Merge(recs)
	if err := s.saveRecords(next); err != nil {
		return report, err
	}

	nextCats := cloneCategories(s.categories)
	for _, c := range cats.All() {
		nextCats.Set(c.Name, c.Color)
	}
	if err := s.cats.Save(nextCats); err != nil {
		return report, err
	}
	s.categories = nextCats
	logs.Logger.Printf("Service: ImportYAML: %d imported, %d rejected", report.Imported, len(report.Rejected))
	return report, nil
}

func (s *datesServiceImpl) ExportYAML(path string) error {
	return interchange.ExportYAML(s.records, s.categories, path)
}

// validate checks the required fields and normalizes rec. kept names a
// category the record already carries; it passes even after the category
// was deleted.
func (s *datesServiceImpl) validate(rec records.DateRecord, kept string) (records.DateRecord, error) {
	rec.Name = strings.TrimSpace(rec.Name)
	rec.Date = strings.TrimSpace(rec.Date)
	// CSV readers turn CRLF into LF, so notes are stored with LF only.
	rec.Notes = strings.TrimSpace(strings.ReplaceAll(rec.Notes, "\r\n", "\n"))
	rec.Category = strings.TrimSpace(rec.Category)

	if rec.Name == "" {
		return rec, invalid("event", "event name is required")
	}
	if rec.Date == "" {
		return rec, invalid("date", "date is required")
	}
	d, err := records.ParseDate(rec.Date)
	if err != nil {
		return rec, invalid("date", "%v", err)
	}
	rec.Date = records.FormatDate(d)
	if rec.Category != "" && rec.Category != kept && !s.categories.Has(rec.Category) {
		return rec, invalid("category", "unknown category %q", rec.Category)
	}
	return rec, nil
}

// saveRecords persists next and only then makes it current.
func (s *datesServiceImpl) saveRecords(next *records.Records) error {
	if err := s.dates.Save(next); err != nil {
		return err
	}
	s.records = next
	return nil
}

func (s *datesServiceImpl) canStartEmpty(err error) bool {
	return errors.Is(err, records.ErrCorrupt) && s.opts.OnCorrupt == CorruptStartEmpty
}

func (s *datesServiceImpl) quarantine(path string) error {
	moved, err := records.Quarantine(path)
	if err != nil {
		return err
	}
	s.recovered = append(s.recovered, moved)
	return nil
}

func cloneCategories(c *records.Categories) *records.Categories {
	next := records.NewCategories()
	for _, cat := range c.All() {
		next.Set(cat.Name, cat.Color)
	}
	return next
}
