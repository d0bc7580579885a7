package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"risk-mcs/cmd/mockgen/generator"
	"risk-mcs/internal/register"
)

func main() {
	scenario := flag.String("scenario", "mild", "Scenario to generate: mild, chaos, killer")
	format := flag.String("format", "yaml", "Register format: json, yaml")
	outDir := flag.String("out", "./.cache", "Output directory for mock registers")
	count := flag.Int("count", 20, "Number of risks to generate")
	iterations := flag.Int("iterations", 10000, "Iterations stored in the register")
	seed := flag.Uint("seed", 1, "Seed for the generator; the same seed yields the same register")
	flag.Parse()

	cfg := generator.Config{
		Scenario:   *scenario,
		Count:      *count,
		Iterations: *iterations,
		Seed:       uint32(*seed),
	}

	path := filepath.Join(*outDir, fmt.Sprintf("%s.%s", cfg.Scenario, *format))
	fmt.Printf("Generating scenario '%s' (Count: %d, Seed: %d) to %s...\n", cfg.Scenario, cfg.Count, cfg.Seed, path)

	req, err := generator.Generate(cfg)
	if err != nil {
		fmt.Printf("Failed to generate register: %v\n", err)
		os.Exit(1)
	}

	if err := register.Save(path, req); err != nil {
		fmt.Printf("Failed to save register: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Done.")
}
