package main

import (
	"fmt"
	"os"

	"github.com/mkurosawa/mystery-engine/pkg/scenario"
)

// validate loads scenario documents and reports structural problems
// before they reach a running server.
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <scenario.json> [...]\n", os.Args[0])
		os.Exit(2)
	}

	failed := false
	for _, path := range os.Args[1:] {
		sc, err := scenario.Load(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			failed = true
			continue
		}
		if err := sc.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			failed = true
			continue
		}
		for _, warning := range sc.Warnings() {
			fmt.Printf("%s: warning: %s\n", path, warning)
		}
		fmt.Printf("%s: ok (%d characters, %d evidences, %d locations)\n",
			path, len(sc.Characters), len(sc.Evidences), len(sc.Locations))
	}

	if failed {
		os.Exit(1)
	}
}
