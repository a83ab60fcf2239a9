// A stand-in scoring service speaking the engine's wire format: POST
// {"rows": [[...]]} returning {"predictions": [[...]]}. It scores rows
// with a fixed linear model over the first columns, matching the data
// produced by scripts/sample-data.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
)

type predictRequest struct {
	Rows [][]float64 `json:"rows"`
}

type predictResponse struct {
	Predictions [][]float64 `json:"predictions"`
	Error       string      `json:"error,omitempty"`
}

// Column order follows the sample-data generator: age, income, tenure,
// segment code.
var coefficients = []float64{0.01, 0.00005, 0, 0}

func main() {
	port := flag.Int("port", 8900, "Listen port")
	flag.Parse()

	http.HandleFunc("/predict", func(w http.ResponseWriter, r *http.Request) {
		var req predictRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, predictResponse{Error: err.Error()})
			return
		}

		preds := make([][]float64, len(req.Rows))
		for i, row := range req.Rows {
			var y float64
			for c, v := range row {
				if c < len(coefficients) {
					y += coefficients[c] * v
				}
			}
			preds[i] = []float64{y}
		}
		writeJSON(w, predictResponse{Predictions: preds})
	})

	addr := fmt.Sprintf(":%d", *port)
	fmt.Printf("Mock scoring service listening on %s\n", addr)
	log.Fatal(http.ListenAndServe(addr, nil))
}

func writeJSON(w http.ResponseWriter, resp predictResponse) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
