// cmd/texel/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kaiesamurai/mattock/tuner"
)

var (
	dataPath = flag.String("data", "", "Path to TSV/CSV with FEN and label")
	outJSON  = flag.String("out", "pst_out.json", "Where to write the tuned PST as JSON")
	inJSON   = flag.String("init", "", "Optional JSON with initial PST and k")
	isCSV    = flag.Bool("csv", false, "Input is CSV (default TSV)")
	epochs   = flag.Int("epochs", 20, "Training epochs")
	lr       = flag.Float64("lr", 1.0, "Gradient descent learning rate")
	kScale   = flag.Float64("k", 1.0/400.0, "Logistic scale k for centipawns")
	maxRows  = flag.Int("max_rows", 0, "Optional cap on rows loaded (0=all)")
)

// texel runs the quick PST-only tuner over an arbitrary FEN+result corpus.
// For the fuller material/structural-term tuner, see InitEntry's .book-file
// driven path (not called by this CLI or by any test).
func main() {
	flag.Parse()
	if *dataPath == "" {
		fmt.Println("Usage:")
		flag.PrintDefaults()
		os.Exit(2)
	}

	fmt.Printf("Loading dataset: %s\n", *dataPath)
	samples, err := tuner.LoadDataset(*dataPath, *isCSV, *maxRows)
	if err != nil {
		panic(err)
	}
	fmt.Printf("Loaded %d samples\n", len(samples))

	var pst tuner.PST
	if *inJSON != "" {
		if err := tuner.LoadPST(*inJSON, &pst); err != nil {
			panic(err)
		}
		fmt.Printf("Loaded init weights from %s\n", *inJSON)
	} else {
		pst.K = *kScale
		tuner.SeedPSTDefaults(&pst)
	}

	tuner.TrainPST(samples, &pst, *epochs, *lr)

	if err := os.MkdirAll(filepath.Dir(*outJSON), 0o755); err != nil && !os.IsExist(err) {
		panic(err)
	}
	if err := tuner.SavePST(*outJSON, &pst); err != nil {
		panic(err)
	}
	fmt.Printf("Saved tuned PST to %s\n", *outJSON)
}
