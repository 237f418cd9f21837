package cli

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"timecapsule/internal/config"
	"timecapsule/internal/service"
)

// Streams are the terminal endpoints a command reads from and writes to.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StdStreams returns the process's standard streams.
func StdStreams() Streams {
	return Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

type runner struct {
	svc service.DatesService
	cfg *config.Config
	io  Streams
	in  *bufio.Reader
}

// Run executes the CLI with the given arguments on the standard streams.
// The first argument is the command name.
func Run(args []string, svc service.DatesService, cfg *config.Config) int {
	return RunWith(args, svc, cfg, StdStreams())
}

// RunWith is Run with explicit streams.
func RunWith(args []string, svc service.DatesService, cfg *config.Config, streams Streams) int {
	r := &runner{svc: svc, cfg: cfg, io: streams, in: bufio.NewReader(streams.In)}

	if len(args) == 0 {
		r.printUsage()
		return 1
	}

	command := args[0]
	cmdArgs := args[1:]

	switch command {
	case "list", "ls", "l":
		return r.runList(cmdArgs)
	case "add", "a":
		return r.runAdd(cmdArgs)
	case "edit", "e":
		return r.runEdit(cmdArgs)
	case "rm", "delete", "del":
		return r.runDelete(cmdArgs)
	case "export":
		return r.runExport(cmdArgs)
	case "import":
		return r.runImport(cmdArgs)
	case "category", "cat":
		return r.runCategoryCommand(cmdArgs)
	case "about":
		r.printAbout()
		return 0
	case "help", "-h", "--help":
		r.printUsage()
		return 0
	default:
		fmt.Fprintf(r.io.Err, "Unknown command: %s\n", command)
		r.printUsage()
		return 1
	}
}

// parse parses fs over args, allowing a single leading positional argument
// before the flags ("rm Birthday -y" as well as "rm -y Birthday").
func parse(fs *flag.FlagSet, args []string) ([]string, error) {
	var lead []string
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		lead, args = args[:1], args[1:]
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return append(lead, fs.Args()...), nil
}

func (r *runner) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(r.io.Err)
	return fs
}

// confirm asks a yes/no question and reports whether the answer was yes.
func (r *runner) confirm(prompt string) bool {
	fmt.Fprintf(r.io.Out, "%s [y/N]: ", prompt)
	line, err := r.in.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(r.io.Out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func (r *runner) fail(format string, args ...any) int {
	fmt.Fprintf(r.io.Err, "Error: "+format+"\n", args...)
	return 1
}

func (r *runner) printAbout() {
	fmt.Fprintln(r.io.Out, `timecapsule - important dates and the time since them

Keeps named dates with notes and a colored category, and shows how many
years, months and days have passed since each one.

Data directory: `+r.cfg.DataDir)
}

func (r *runner) printUsage() {
	fmt.Fprintln(r.io.Out, `timecapsule - Track important dates and the time since them

Usage: timecapsule [flags] [command] [arguments]

Commands:
  list, ls    List events with the time since each date
              timecapsule list -s trip --sort date --desc
  add, a      Add (or replace) an event
              timecapsule add -n Birthday -d 01-01-2000 --notes "cake" -c Family
  edit, e     Edit an event; only the given fields change
              timecapsule edit Birthday -d 01-02-2000
  rm          Delete an event
              timecapsule rm Birthday [-y]
  export      Write events to CSV (or a YAML backup with --format yaml)
              timecapsule export [-o path] [--format csv|yaml]
  import      Merge events from CSV (or a YAML backup)
              timecapsule import [-i path] [--format csv|yaml]
  category    Manage categories
              timecapsule category list
              timecapsule category add Family "#FF8800"
              timecapsule category rm Family [-y]
  about       About timecapsule
  help        Show this help message

Flags:
      --data-dir <dir>          Data directory (default ~/timecapsule)
      --dates-file <file>       Events file (default important_dates.json)
      --categories-file <file>  Categories file (default categories.json)
      --start-empty             Move corrupt data files aside and start empty

Running timecapsule without a command launches the interactive TUI.`)
}
