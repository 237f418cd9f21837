package cli

import (
	"errors"
	"flag"
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"timecapsule/internal/interchange"
	"timecapsule/internal/records"
	"timecapsule/internal/service"
	"timecapsule/internal/view"
)

const notesWidth = 40

func (r *runner) runList(args []string) int {
	fs := r.newFlagSet("list")
	query := fs.String("s", "", "Search name, notes and category")
	sortCol := fs.String("sort", r.cfg.DefaultSort, "Sort column: event, date, elapsed, notes, category")
	desc := fs.Bool("desc", false, "Sort descending")

	if _, err := parse(fs, args); err != nil {
		return 1
	}

	rows := r.svc.Project(*query)
	if *sortCol != "" {
		col, err := view.ParseColumn(*sortCol)
		if err != nil {
			return r.fail("%v", err)
		}
		rows = r.svc.Sort(rows, col, *desc)
	}

	if len(rows) == 0 {
		fmt.Fprintln(r.io.Out, "No events found.")
		return 0
	}

	tw := tabwriter.NewWriter(r.io.Out, 0, 0, 2, ' ', 0)
	headers := make([]string, len(view.Columns))
	for i, c := range view.Columns {
		headers[i] = c.String()
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			row.Name, row.Date, row.Elapsed, view.NotesPreview(row.Notes, notesWidth), row.Category)
	}
	tw.Flush()

	fmt.Fprintf(r.io.Out, "\n%d event(s)\n", len(rows))
	return 0
}

func (r *runner) runAdd(args []string) int {
	fs := r.newFlagSet("add")
	name := fs.String("n", "", "Event name")
	date := fs.String("d", "", "Date (MM-DD-YYYY)")
	notes := fs.String("notes", "", "Notes")
	category := fs.String("c", "", "Category")

	rest, err := parse(fs, args)
	if err != nil {
		return 1
	}
	if *name == "" && len(rest) > 0 {
		*name = strings.Join(rest, " ")
	}

	rec := records.DateRecord{Name: *name, Date: *date, Notes: *notes, Category: *category}
	replacing := r.svc.Records().Has(strings.TrimSpace(*name))
	if err := r.svc.Add(rec); err != nil {
		return r.fail("%v", err)
	}

	stored, _ := r.svc.Get(strings.TrimSpace(*name))
	if replacing {
		fmt.Fprintf(r.io.Out, "Replaced: %s\n", stored)
	} else {
		fmt.Fprintf(r.io.Out, "Added: %s\n", stored)
	}
	return 0
}

func (r *runner) runEdit(args []string) int {
	fs := r.newFlagSet("edit")
	name := fs.String("n", "", "New event name")
	date := fs.String("d", "", "Date (MM-DD-YYYY)")
	notes := fs.String("notes", "", "Notes")
	category := fs.String("c", "", "Category (empty to clear)")

	rest, err := parse(fs, args)
	if err != nil {
		return 1
	}
	if len(rest) == 0 {
		fmt.Fprintln(r.io.Err, "Error: event name required")
		fmt.Fprintln(r.io.Err, "Usage: timecapsule edit <name> [-n newname] [-d date] [--notes text] [-c category]")
		return 1
	}

	original := rest[0]
	rec, err := r.svc.Get(original)
	if err != nil {
		return r.fail("%v", err)
	}

	// Only flags that were given replace fields, so --notes "" clears notes.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "n":
			rec.Name = *name
		case "d":
			rec.Date = *date
		case "notes":
			rec.Notes = *notes
		case "c":
			rec.Category = *category
		}
	})

	if err := r.svc.Edit(original, rec); err != nil {
		return r.fail("%v", err)
	}
	stored, _ := r.svc.Get(strings.TrimSpace(rec.Name))
	fmt.Fprintf(r.io.Out, "Updated: %s\n", stored)
	return 0
}

func (r *runner) runDelete(args []string) int {
	fs := r.newFlagSet("rm")
	yes := fs.Bool("y", false, "Do not ask for confirmation")

	rest, err := parse(fs, args)
	if err != nil {
		return 1
	}
	if len(rest) == 0 {
		fmt.Fprintln(r.io.Err, "Error: event name required")
		fmt.Fprintln(r.io.Err, "Usage: timecapsule rm <name> [-y]")
		return 1
	}

	name := rest[0]
	if !r.svc.Records().Has(name) {
		fmt.Fprintf(r.io.Out, "No event named %q.\n", name)
		return 0
	}
	if !*yes && !r.confirm(fmt.Sprintf("Delete %q?", name)) {
		fmt.Fprintln(r.io.Out, "Cancelled.")
		return 0
	}

	if _, err := r.svc.Delete(name); err != nil {
		return r.fail("deleting event: %v", err)
	}
	fmt.Fprintf(r.io.Out, "Deleted: %s\n", name)
	return 0
}

func (r *runner) runExport(args []string) int {
	fs := r.newFlagSet("export")
	path := fs.String("o", "", "Output file")
	format := fs.String("format", "", "csv or yaml (default from the file extension)")

	if _, err := parse(fs, args); err != nil {
		return 1
	}

	kind, err := resolveFormat(*format, *path)
	if err != nil {
		return r.fail("%v", err)
	}
	target := *path
	if target == "" {
		target = r.defaultPath(kind, r.cfg.ExportFile)
	}

	if kind == "yaml" {
		err = r.svc.ExportYAML(target)
	} else {
		err = r.svc.ExportCSV(target)
	}
	if err != nil {
		return r.fail("exporting: %v", err)
	}
	fmt.Fprintf(r.io.Out, "Exported %d event(s) to %s\n", r.svc.Records().Len(), target)
	return 0
}

func (r *runner) runImport(args []string) int {
	fs := r.newFlagSet("import")
	path := fs.String("i", "", "Input file")
	format := fs.String("format", "", "csv or yaml (default from the file extension)")

	if _, err := parse(fs, args); err != nil {
		return 1
	}

	kind, err := resolveFormat(*format, *path)
	if err != nil {
		return r.fail("%v", err)
	}
	source := *path
	if source == "" {
		source = r.defaultPath(kind, r.cfg.ImportFile)
	}

	var report interchange.ImportReport
	if kind == "yaml" {
		report, err = r.svc.ImportYAML(source)
	} else {
		report, err = r.svc.ImportCSV(source)
	}
	if errors.Is(err, interchange.ErrNotFound) {
		return r.fail("import file %s not found", source)
	}
	if err != nil {
		return r.fail("importing: %v", err)
	}

	for _, rej := range report.Rejected {
		fmt.Fprintf(r.io.Err, "Skipped %v\n", rej)
	}
	fmt.Fprintf(r.io.Out, "Imported %d event(s) from %s\n", report.Imported, source)
	return 0
}

func (r *runner) defaultPath(kind, csvPath string) string {
	if kind == "yaml" {
		return r.cfg.BackupFile
	}
	return csvPath
}

// resolveFormat picks the interchange format from the flag or, failing
// that, from the file extension.
func resolveFormat(format, path string) (string, error) {
	switch strings.ToLower(format) {
	case "csv":
		return "csv", nil
	case "yaml", "yml":
		return "yaml", nil
	case "":
	default:
		return "", &service.ValidationError{Field: "format", Msg: fmt.Sprintf("unknown format %q, use csv or yaml", format)}
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml", nil
	}
	return "csv", nil
}
