// Command gen-ses writes a directory of synthetic SES exports for testing
// the loader and API without instrument data. One file per emission angle,
// with a faked dispersing band so heatmaps have something to show.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
)

var (
	outDir       = flag.String("out", "testdata/ses", "Output directory")
	count        = flag.Int("count", 5, "Number of files to generate")
	prefix       = flag.String("prefix", "S313_MgB2_", "File name prefix")
	angleStart   = flag.Float64("angle-start", -6.0, "First emission angle (deg)")
	angleStep    = flag.Float64("angle-step", 0.5, "Angle increment between files (deg)")
	energyMin    = flag.Float64("energy-min", 19.5, "Lowest kinetic energy (eV)")
	energyMax    = flag.Float64("energy-max", 21.2, "Highest kinetic energy (eV)")
	energyPoints = flag.Int("energy-points", 200, "Energy rows per file")
	pixels       = flag.Int("pixels", 128, "Detector pixel columns per file")
	badAngle     = flag.Int("bad-angle", -1, "File index to write with an unparseable angle (-1 for none)")
	noMarker     = flag.Int("no-marker", -1, "File index to write without a data marker (-1 for none)")
)

func main() {
	flag.Parse()

	// intensity divides by pixels-1 to place ky, so one column is too few
	if *count < 1 || *energyPoints < 2 || *pixels < 2 {
		log.Fatal("count must be at least 1; energy-points and pixels at least 2")
	}

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		log.Fatalf("failed to create %s: %v", *outDir, err)
	}

	for i := 0; i < *count; i++ {
		angle := *angleStart + float64(i)*(*angleStep)
		name := fmt.Sprintf("%s%04d.txt", *prefix, i+1)
		path := filepath.Join(*outDir, name)

		content := renderFile(angle, i == *badAngle, i == *noMarker)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			log.Fatalf("failed to write %s: %v", path, err)
		}
		log.Printf("wrote %s (angle %.2f)", path, angle)
	}
}

// intensity fakes a dispersing band: a Gaussian in energy whose center
// moves with pixel position and emission angle.
func intensity(energy, angle float64, pixel int) float64 {
	ky := -1.0 + 2.0*float64(pixel)/float64(*pixels-1)
	center := (*energyMin+*energyMax)/2 + 0.3*math.Cos(angle*math.Pi/180)*ky
	d := (energy - center) / 0.15
	return 1000*math.Exp(-d*d) + 20
}

func renderFile(angle float64, corruptAngle, omitMarker bool) string {
	var b strings.Builder

	b.WriteString("[Region 1]\n")
	b.WriteString("Region Name=Synthetic\n")
	if corruptAngle {
		b.WriteString("n/a\n")
	} else {
		fmt.Fprintf(&b, "%.4f\n", angle)
	}
	b.WriteString("Dimension 2 scale\n")
	b.WriteString("Excitation Energy=21.2182\n")
	if !omitMarker {
		b.WriteString("[Data]\n")
	}

	step := (*energyMax - *energyMin) / float64(*energyPoints-1)
	for r := 0; r < *energyPoints; r++ {
		energy := *energyMin + float64(r)*step
		fmt.Fprintf(&b, "%.5f", energy)
		for p := 0; p < *pixels; p++ {
			fmt.Fprintf(&b, "\t%.3f", intensity(energy, angle, p))
		}
		b.WriteString("\n")
	}
	return b.String()
}
