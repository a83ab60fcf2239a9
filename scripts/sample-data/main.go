// Generates a synthetic CSV dataset for trying the importance engine: a
// few numeric columns with known coefficients, one categorical column, and
// a label column. Pair it with scripts/mock-model to run the tool without
// a real model.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
)

func main() {
	var (
		out  = flag.String("out", "sample.csv", "Output CSV path")
		rows = flag.Int("rows", 1000, "Number of rows to generate")
		seed = flag.Int64("seed", 1, "RNG seed")
	)
	flag.Parse()

	fmt.Printf("Generating %d rows to %s...\n", *rows, *out)

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("Failed to create output: %v", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"age", "income", "tenure", "segment", "label"}); err != nil {
		log.Fatalf("Failed to write header: %v", err)
	}

	segments := []string{"retail", "smb", "enterprise"}
	rng := rand.New(rand.NewSource(*seed))

	for i := 0; i < *rows; i++ {
		age := 20 + rng.Float64()*50
		income := 30000 + rng.Float64()*90000
		tenure := rng.Float64() * 15
		segment := segments[rng.Intn(len(segments))]

		// Known ground truth: income dominates, age contributes, tenure
		// and segment are noise.
		label := 0.00005*income + 0.01*age + rng.NormFloat64()*0.1

		record := []string{
			strconv.FormatFloat(age, 'f', 2, 64),
			strconv.FormatFloat(income, 'f', 2, 64),
			strconv.FormatFloat(tenure, 'f', 2, 64),
			segment,
			strconv.FormatFloat(label, 'f', 4, 64),
		}
		if err := w.Write(record); err != nil {
			log.Fatalf("Failed to write row %d: %v", i, err)
		}
	}

	fmt.Printf("Done. Try: DATASET_PATH=%s LABEL_COLUMN=label MODEL_ENDPOINT=http://localhost:8900/predict featimp\n", *out)
}
