package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/DjordjeVuckovic/rerank-eval/internal/eval/dataset"
	"github.com/DjordjeVuckovic/rerank-eval/internal/eval/spec"
	"github.com/DjordjeVuckovic/rerank-eval/pkg/schema"
)

func main() {
	outputDir := flag.String("output", "api", "Output directory for generated schemas")
	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	generator := schema.NewGenerator()

	targets := []struct {
		file  string
		value interface{}
	}{
		{"run-spec-v1.json", spec.RunSpec{}},
		{"reranker-catalog-v1.json", spec.Catalog{}},
		{"dataset-v1.json", dataset.File{}},
	}

	for _, t := range targets {
		schemaJSON, err := generator.GenerateJSONSchema(t.value)
		if err != nil {
			log.Fatalf("Failed to generate schema %s: %v", t.file, err)
		}

		path := filepath.Join(*outputDir, t.file)
		if err := os.WriteFile(path, []byte(schemaJSON), 0644); err != nil {
			log.Fatalf("Failed to write JSON schema: %v", err)
		}
		fmt.Printf("Generated JSON schema: %s\n", path)
	}
}
