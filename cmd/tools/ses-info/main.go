// Command ses-info inspects a single SES export: where the data marker
// sits, which header lines are angle candidates, and the body dimensions.
// Useful when a beamline export refuses to load and the offsets need
// checking.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/beamline-data/spectra.report/internal/ses"
)

func main() {
	marker := flag.String("marker", ses.DefaultMarker, "Data marker substring")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: ses-info [flags] <file>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("failed to open %s: %v", path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("failed to read %s: %v", path, err)
	}

	fmt.Print(describe(path, lines, *marker))
}

// describe renders the diagnosis report for one file's lines.
func describe(path string, lines []string, marker string) string {
	var b strings.Builder

	markerLine := -1
	for i, line := range lines {
		if strings.Contains(line, marker) {
			markerLine = i
			break
		}
	}

	fmt.Fprintf(&b, "File: %s (%d lines)\n", path, len(lines))
	if markerLine < 0 {
		fmt.Fprintf(&b, "Marker %q: not found; file would be skipped\n", marker)
		return b.String()
	}
	fmt.Fprintf(&b, "Marker %q: line %d\n", marker, markerLine+1)

	b.WriteString("Angle candidates:\n")
	for _, offset := range ses.DefaultAngleOffsets {
		idx := markerLine - offset
		if idx < 0 {
			fmt.Fprintf(&b, "  offset %d: line out of range\n", offset)
			continue
		}
		raw := strings.TrimSpace(lines[idx])
		if angle, err := strconv.ParseFloat(raw, 64); err == nil {
			fmt.Fprintf(&b, "  offset %d (line %d): %g\n", offset, idx+1, angle)
		} else {
			fmt.Fprintf(&b, "  offset %d (line %d): %q (not a number)\n", offset, idx+1, raw)
		}
	}

	rows, cols := 0, 0
	for _, line := range lines[markerLine+1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if rows == 0 {
			cols = len(fields) - 1
		}
		rows++
	}
	fmt.Fprintf(&b, "Body: %d energy rows x %d pixel columns\n", rows, cols)
	return b.String()
}
