// Command beamdump prints the decoded chunks of a BEAM file as JSON.
//
// Usage:
//
//	beamdump <file.beam>
//
// Atom, export and import tables are decoded; every other chunk is shown
// as null.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/wippyai/beamfile/beam"
	"github.com/wippyai/beamfile/render"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "Usage: beamdump <file.beam>")
		os.Exit(1)
	}

	if err := run(os.Args[1], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(path string, w io.Writer) error {
	c, err := beam.DecodeFile(path)
	if err != nil {
		return err
	}
	return render.JSON(w, c)
}
