package main

import (
	"flag"
	"fmt"
	"os"

	"chosenoffset.com/stationkeeper/internal/placeholders"
)

func main() {
	dir := flag.String("out", "data/images", "output directory")
	cols := flag.Int("cols", 20, "tileset columns")
	rows := flag.Int("rows", 100, "tileset rows")
	flag.Parse()

	fmt.Println("Station Keeper Placeholder Graphics Generator")
	fmt.Println("=============================================")
	fmt.Println()

	if err := placeholders.GenerateAndSave(*dir, *cols, *rows); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("Done! Placeholder graphics are ready to use.")
}
