package cli

import (
	"fmt"
	"strings"
)

func (r *runner) runCategoryCommand(args []string) int {
	if len(args) == 0 {
		return r.runCategoryList()
	}

	command := args[0]
	cmdArgs := args[1:]

	switch command {
	case "list", "ls":
		return r.runCategoryList()
	case "add", "set":
		return r.runCategoryAdd(cmdArgs)
	case "rm", "delete", "del":
		return r.runCategoryDelete(cmdArgs)
	default:
		fmt.Fprintf(r.io.Err, "Unknown category command: %s\n", command)
		fmt.Fprintln(r.io.Err, "Usage: timecapsule category list|add <name> <#hex>|rm <name> [-y]")
		return 1
	}
}

func (r *runner) runCategoryList() int {
	cats := r.svc.Categories().All()
	if len(cats) == 0 {
		fmt.Fprintln(r.io.Out, "No categories.")
		return 0
	}

	used := map[string]int{}
	for _, rec := range r.svc.Records().All() {
		used[rec.Category]++
	}
	for _, c := range cats {
		fmt.Fprintf(r.io.Out, "%s  %s  (%d event(s))\n", c.Color, c.Name, used[c.Name])
	}
	return 0
}

func (r *runner) runCategoryAdd(args []string) int {
	if len(args) < 2 {
		fmt.Fprintln(r.io.Err, "Error: category name and color required")
		fmt.Fprintln(r.io.Err, `Usage: timecapsule category add <name> "#RRGGBB"`)
		return 1
	}

	name := strings.Join(args[:len(args)-1], " ")
	color := args[len(args)-1]
	if err := r.svc.SetCategory(name, color); err != nil {
		return r.fail("%v", err)
	}
	fmt.Fprintf(r.io.Out, "Saved category: %s %s\n", strings.TrimSpace(name), color)
	return 0
}

func (r *runner) runCategoryDelete(args []string) int {
	fs := r.newFlagSet("category rm")
	yes := fs.Bool("y", false, "Do not ask for confirmation")

	rest, err := parse(fs, args)
	if err != nil {
		return 1
	}
	if len(rest) == 0 {
		fmt.Fprintln(r.io.Err, "Error: category name required")
		return 1
	}

	name := rest[0]
	if !r.svc.Categories().Has(name) {
		fmt.Fprintf(r.io.Out, "No category named %q.\n", name)
		return 0
	}
	if !*yes && !r.confirm(fmt.Sprintf("Delete category %q? Events using it become uncategorized.", name)) {
		fmt.Fprintln(r.io.Out, "Cancelled.")
		return 0
	}

	if _, err := r.svc.DeleteCategory(name); err != nil {
		return r.fail("deleting category: %v", err)
	}
	fmt.Fprintf(r.io.Out, "Deleted category: %s\n", name)
	return 0
}
