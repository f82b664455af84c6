// Command gencloud writes a sample CSV of Gaussian clusters for the viewer:
// N points, K clusters, D axis columns, one category and color per cluster.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"math/rand"
	"os"
)

var clusterColors = []string{
	"#4AD1FF", "#FFD14A", "#7FFF7F", "#FF7FFF", "#FF8A5C", "#9F8AFF",
}

func main() {
	out := flag.String("o", "cloud.csv", "Output CSV path")
	n := flag.Int("n", 600, "Total point count")
	clusters := flag.Int("clusters", 4, "Cluster count")
	dims := flag.Int("dims", 5, "Axis column count")
	spread := flag.Float64("spread", 0.35, "Cluster standard deviation")
	seed := flag.Int64("seed", 1, "Random seed")
	flag.Parse()

	if *n <= 0 || *clusters <= 0 || *dims <= 0 {
		fmt.Fprintf(os.Stderr, "n, clusters and dims must be positive\n")
		os.Exit(1)
	}

	rng := rand.New(rand.NewSource(*seed))

	centers := make([][]float64, *clusters)
	for c := range centers {
		centers[c] = make([]float64, *dims)
		for d := range centers[c] {
			centers[c][d] = rng.Float64()*4 - 2
		}
	}

	f, err := os.Create(*out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create %s: %v\n", *out, err)
		os.Exit(1)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := make([]string, 0, *dims+2)
	for d := 0; d < *dims; d++ {
		header = append(header, fmt.Sprintf("E%d", d+1))
	}
	header = append(header, "name", "color")
	if err := w.Write(header); err != nil {
		fmt.Fprintf(os.Stderr, "Write failed: %v\n", err)
		os.Exit(1)
	}

	rec := make([]string, len(header))
	for i := 0; i < *n; i++ {
		c := i % *clusters
		for d := 0; d < *dims; d++ {
			v := centers[c][d] + rng.NormFloat64()**spread
			rec[d] = fmt.Sprintf("%.5f", v)
		}
		rec[*dims] = fmt.Sprintf("cluster-%d", c+1)
		rec[*dims+1] = clusterColors[c%len(clusterColors)]
		if err := w.Write(rec); err != nil {
			fmt.Fprintf(os.Stderr, "Write failed: %v\n", err)
			os.Exit(1)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		fmt.Fprintf(os.Stderr, "Write failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("wrote %d points, %d clusters, %d axes to %s\n", *n, *clusters, *dims, *out)
}
