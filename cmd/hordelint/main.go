package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/milk9111/hordewave/prefabs"
)

func main() {
	prefabDir := flag.String("prefabs", "prefabs", "directory checked for prefab overrides before the embedded copies")
	github := flag.Bool("github", false, "print findings as GitHub Actions annotations")
	strict := flag.Bool("strict", false, "treat warnings as errors")
	flag.Parse()

	prefabs.SetDiskDir(*prefabDir)
	os.Exit(lint(os.Stdout, *github, *strict))
}

// lint loads the catalog, prints every finding and returns the exit code.
func lint(out io.Writer, github, strict bool) int {
	cat, err := prefabs.LoadCatalog()
	if err != nil {
		fmt.Fprintf(out, "load: %v\n", err)
		return 2
	}
	issues := cat.Lint()
	prefabs.SortIssues(issues)

	failed := false
	for _, is := range issues {
		fatal := is.Severity == prefabs.SeverityError || strict
		failed = failed || fatal
		fmt.Fprintln(out, format(is, github, fatal))
	}
	if !github {
		fmt.Fprintf(out, "%d archetypes, %d findings\n", len(cat.Names()), len(issues))
	}
	if failed {
		return 1
	}
	return 0
}

func format(is prefabs.Issue, github, fatal bool) string {
	if !github {
		return fmt.Sprintf("%s: %s", is.Severity, is.Error())
	}
	level := "warning"
	if fatal {
		level = "error"
	}
	file := is.File
	if dir := prefabs.DiskDir(); dir != "" {
		file = dir + "/" + file
	}
	return fmt.Sprintf("::%s file=%s,title=%s::%s", level, file, is.Path, is.Message)
}
