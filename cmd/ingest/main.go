package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"repoflow/internal/githubrepo"
	"repoflow/internal/ingest"
	"repoflow/internal/llm"
)

func main() {
	repo := flag.String("repo", "", "GitHub repository URL or owner/name shorthand")
	outDir := flag.String("out", "out", "output directory")
	model := flag.String("model", "gemini-2.5-flash", "Gemini model id")
	verbose := flag.Bool("v", false, "verbose ingestion logging")
	flag.Parse()
	if *repo == "" {
		log.Fatal("--repo is required")
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatal(err)
	}

	_ = godotenv.Load()

	ctx := context.Background()

	var llmCli llm.Client
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		cli, err := llm.NewGeminiClient(ctx, apiKey, *model)
		if err != nil {
			log.Fatal(err)
		}
		defer cli.Close()
		llmCli = cli
	} else {
		log.Println("GEMINI_API_KEY is not set; using fallback diagram templates")
	}

	pipe := ingest.New(&githubrepo.GitFetcher{}, llmCli)
	res, err := pipe.Ingest(ctx, *repo, ingest.Options{Verbose: *verbose})
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("ingested %s (%d files, %d bytes)", res.Identity.FullName(), res.FileCount, res.ArtifactSize())

	writeFile(*outDir, "artifact.xml", []byte(res.XML))
	writeFile(*outDir, "business_flow.mmd", []byte(res.Diagrams.BusinessFlow.SourceText))
	writeFile(*outDir, "data_flow.mmd", []byte(res.Diagrams.DataFlow.SourceText))
	writeJSON(*outDir, "result.json", map[string]any{
		"repository": res.Identity.FullName(),
		"url":        res.RepoURL,
		"metadata":   res.Metadata,
		"fileCount":  res.FileCount,
		"sizeBytes":  res.ArtifactSize(),
		"diagrams":   res.Diagrams,
	})
}

func writeFile(dir, name string, data []byte) {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %s", path)
}

func writeJSON(dir, name string, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	writeFile(dir, name, append(data, '\n'))
}
