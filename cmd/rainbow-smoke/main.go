package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	smoke "github.com/kevinastock/rainbow-smoke"
	"github.com/kevinastock/rainbow-smoke/imageutil"
	"github.com/mattn/go-isatty"
)

func main() {
	outputFile := flag.String("out", "out.png",
		"Path to save the output image (.png, .tif, .ppm, ...)")
	bits := flag.Int("bits", 8,
		"Bits per channel: 2, 4, 6, or 8 "+
			"(8 places all 16,777,216 colors on a 4096x4096 grid)")
	seed := flag.Int64("seed", -1,
		"Shuffle seed for the color processing order, -1 picks one from the clock")
	preview := flag.Int("preview", 0,
		"Also write a preview downscaled to this width, 0 to disable")
	quiet := flag.Bool("quiet", false,
		"Suppress progress and timing output")
	flag.Parse()

	logf := func(format string, args ...interface{}) {
		if !*quiet {
			fmt.Printf(format, args...)
		}
	}

	if *outputFile == "" {
		fmt.Println("Please provide an output path using the -out flag")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if *seed < 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))

	begin := time.Now()
	cat, err := smoke.NewFullCatalog(*bits, rng)
	if err != nil {
		fmt.Printf("Error building catalog: %v\n", err)
		os.Exit(1)
	}

	var opts []smoke.GeneratorOption
	showProgress := !*quiet && isatty.IsTerminal(os.Stderr.Fd())
	if showProgress {
		opts = append(opts, smoke.WithProgress(func(placed, total int) {
			fmt.Fprintf(os.Stderr, "\rPlaced %d/%d colors (%.1f%%)",
				placed, total, float64(placed)*100/float64(total))
		}))
	}
	gen, err := smoke.NewGenerator(cat, opts...)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	endInit := time.Now()
	logf(
		"seed: %d\n"+
			"colors: %d\n"+
			"grid: %dx%d\n",
		*seed, cat.Len(), gen.Grid().Side(), gen.Grid().Side())
	logf("Initialization time: %v\n", endInit.Sub(begin))

	gen.Run()
	if showProgress {
		fmt.Fprintln(os.Stderr)
	}
	endPlacement := time.Now()
	logf("Placement time: %v\n", endPlacement.Sub(endInit))

	img, err := smoke.RenderImage(gen.Grid(), cat)
	if err != nil {
		fmt.Printf("Error rendering image: %v\n", err)
		os.Exit(1)
	}
	if err := imageutil.SaveImage(img, *outputFile); err != nil {
		fmt.Printf("Error writing image: %v\n", err)
		os.Exit(1)
	}
	logf("Output written to %s\n", *outputFile)

	if *preview > 0 {
		small := imageutil.ResizeToWidth(img, *preview, imageutil.InterpolationArea)
		path := previewPath(*outputFile)
		if err := imageutil.SaveImage(small, path); err != nil {
			fmt.Printf("Error writing preview: %v\n", err)
			os.Exit(1)
		}
		logf("Preview written to %s\n", path)
	}
	endEncode := time.Now()
	logf("Encode time: %v\n", endEncode.Sub(endPlacement))

	placed, frontierPeak, recomputes := gen.PlacementStats()
	logf("Placed cells: %d\n", placed)
	logf("Frontier peak: %d\n", frontierPeak)
	logf("Desired-color recomputes: %d\n", recomputes)

	if err := smoke.VerifyBijection(gen.Grid(), cat.Len()); err != nil {
		fmt.Printf("Integrity check failed: %v\n", err)
		os.Exit(2)
	}
	logf("Integrity check passed: every color placed exactly once\n")
}

// previewPath derives the preview file name from the output path,
// keeping the extension so both go through the same encoder.
func previewPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_preview" + ext
}
