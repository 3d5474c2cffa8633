// cmd/tools/nickname-inspect/main.go

// nickname-inspect loads a nickname dataset and prints the linked set for
// each requested name, for dataset curation.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"people-matcher/internal/matching/nickname"
)

func main() {
	dataset := flag.String("dataset", "data/nicknames.csv", "path to the nickname dataset")
	flag.Parse()

	idx, err := nickname.Load(*dataset)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dataset load failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("indexed names: %d\n", idx.Size())

	for _, name := range flag.Args() {
		linked := idx.Linked(name)
		sort.Strings(linked)
		fmt.Printf("%s -> %v\n", name, linked)
	}
}
