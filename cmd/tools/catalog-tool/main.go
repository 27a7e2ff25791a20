// cmd/tools/catalog-tool/main.go
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"activity-registry/pkg/catalog"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) < 1 {
		help(out)
		return fmt.Errorf("missing command")
	}

	var path string
	switch args[0] {
	case "init":
		cmd := flag.NewFlagSet("init", flag.ContinueOnError)
		cmd.StringVar(&path, "path", "configs/catalog.json", "Path to catalog file")
		if err := cmd.Parse(args[1:]); err != nil {
			return err
		}
		if err := initCatalog(path); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote default catalog to %s\n", path)

	case "add":
		cmd := flag.NewFlagSet("add", flag.ContinueOnError)
		cmd.StringVar(&path, "path", "configs/catalog.json", "Path to catalog file")
		name := cmd.String("name", "", "Activity name (e.g., Chess Club)")
		description := cmd.String("description", "", "Description")
		schedule := cmd.String("schedule", "", "Schedule (e.g., Fridays, 3:30 PM - 5:00 PM)")
		maxParticipants := cmd.Int("max", 0, "Maximum number of participants")
		if err := cmd.Parse(args[1:]); err != nil {
			return err
		}
		if *name == "" || *maxParticipants <= 0 {
			cmd.Usage()
			return fmt.Errorf("name and a positive max are required for add")
		}
		err := addActivity(path, catalog.Activity{
			Name:            *name,
			Description:     *description,
			Schedule:        *schedule,
			MaxParticipants: *maxParticipants,
			Participants:    []string{},
		})
		if err != nil {
			return fmt.Errorf("adding activity: %w", err)
		}
		fmt.Fprintf(out, "Added activity: %s\n", *name)

	case "update":
		cmd := flag.NewFlagSet("update", flag.ContinueOnError)
		cmd.StringVar(&path, "path", "configs/catalog.json", "Path to catalog file")
		name := cmd.String("name", "", "Activity name to update")
		field := cmd.String("field", "", "Field to update (description, schedule, max)")
		value := cmd.String("value", "", "New value for the field")
		if err := cmd.Parse(args[1:]); err != nil {
			return err
		}
		if *name == "" || *field == "" || *value == "" {
			cmd.Usage()
			return fmt.Errorf("name, field, and value are required for update")
		}
		if err := updateActivity(path, *name, *field, *value); err != nil {
			return fmt.Errorf("updating activity: %w", err)
		}
		fmt.Fprintf(out, "Updated activity %s, field %s to %s\n", *name, *field, *value)

	case "validate":
		cmd := flag.NewFlagSet("validate", flag.ContinueOnError)
		cmd.StringVar(&path, "path", "configs/catalog.json", "Path to catalog file")
		if err := cmd.Parse(args[1:]); err != nil {
			return err
		}
		cat, err := catalog.Load(path)
		if err != nil {
			return fmt.Errorf("catalog validation failed: %w", err)
		}
		fmt.Fprintf(out, "Catalog validation passed (%d activities).\n", len(cat.Activities))

	case "list":
		cmd := flag.NewFlagSet("list", flag.ContinueOnError)
		cmd.StringVar(&path, "path", "", "Path to catalog file (default: built-in catalog)")
		if err := cmd.Parse(args[1:]); err != nil {
			return err
		}
		return listActivities(path, out)

	case "help":
		help(out)

	default:
		help(out)
		return fmt.Errorf("unknown command %q", args[0])
	}
	return nil
}

func initCatalog(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	cat, err := catalog.Default()
	if err != nil {
		return err
	}
	cat.LastUpdated = time.Now().Format(time.RFC3339)
	return catalog.Save(path, cat)
}

func addActivity(path string, activity catalog.Activity) error {
	cat, err := catalog.Load(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to load catalog: %w", err)
		}
		cat = &catalog.Catalog{Version: "1.0.0", Activities: []catalog.Activity{}}
	}

	if _, exists := cat.Find(activity.Name); exists {
		return fmt.Errorf("activity %q already exists", activity.Name)
	}

	cat.Activities = append(cat.Activities, activity)
	cat.LastUpdated = time.Now().Format(time.RFC3339)
	return catalog.Save(path, cat)
}

func updateActivity(path, name, field, value string) error {
	cat, err := catalog.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	a, ok := cat.Find(name)
	if !ok {
		return fmt.Errorf("activity %q not found", name)
	}

	switch field {
	case "description":
		a.Description = value
	case "schedule":
		a.Schedule = value
	case "max":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid max value: %w", err)
		}
		a.MaxParticipants = n
	default:
		return fmt.Errorf("unknown field: %s", field)
	}

	cat.LastUpdated = time.Now().Format(time.RFC3339)
	return catalog.Save(path, cat)
}

func listActivities(path string, out io.Writer) error {
	var (
		cat *catalog.Catalog
		err error
	)
	if path == "" {
		cat, err = catalog.Default()
	} else {
		cat, err = catalog.Load(path)
	}
	if err != nil {
		return err
	}

	activities := append([]catalog.Activity(nil), cat.Activities...)
	sort.Slice(activities, func(i, j int) bool { return activities[i].Name < activities[j].Name })

	width := 0
	for _, a := range activities {
		if len(a.Name) > width {
			width = len(a.Name)
		}
	}
	for _, a := range activities {
		fmt.Fprintf(out, "%-*s  %2d/%-2d  %s\n", width, a.Name, len(a.Participants), a.MaxParticipants, a.Schedule)
	}
	return nil
}

func help(out io.Writer) {
	fmt.Fprintln(out, strings.TrimSpace(`
Usage: catalog-tool <command> [flags]

Commands:
  init      Write the built-in catalog to -path
  add       Add an activity (-name, -description, -schedule, -max)
  update    Update a field of an activity (-name, -field, -value)
  validate  Validate a catalog file
  list      Print activities with roster sizes
  help      Show this help`))
}
