// Package ingest sequences the pipeline: locate -> fetch -> serialize ->
// synthesize. It owns the temporary checkout and guarantees its removal on
// every exit path.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"repoflow/internal/diagram"
	"repoflow/internal/githubrepo"
	"repoflow/internal/llm"
	"repoflow/internal/serialize"
)

// ErrIngestionFailed wraps locate/fetch/serialize failures. Diagram failures
// never surface here; they degrade to fallbacks inside the synthesizer.
var ErrIngestionFailed = errors.New("ingest: repository ingestion failed")

// Options tunes a single ingestion call.
type Options struct {
	// OutputFormat selects the artifact serialization. "" and "xml" are the
	// only accepted values.
	OutputFormat string
	Verbose      bool
}

// Metadata describes the checkout the artifact was built from.
type Metadata struct {
	Branch        string `json:"branch"`
	Commit        string `json:"commit"`
	CommitMessage string `json:"commitMessage,omitempty"`
}

// Result is the pipeline's sole output: created once, returned, never
// mutated afterwards.
type Result struct {
	Identity  githubrepo.Identity
	RepoURL   string
	XML       string
	Metadata  Metadata
	FileCount int
	Diagrams  diagram.Pair
}

// ArtifactSize returns the serialized artifact's size in bytes.
func (r *Result) ArtifactSize() int { return len(r.XML) }

// Pipeline wires the pipeline's collaborators together.
type Pipeline struct {
	Fetcher    githubrepo.Fetcher
	Serializer *serialize.Serializer
	Diagrams   *diagram.Synthesizer
}

// New builds a pipeline with the default serializer around the given fetch
// and completion collaborators. llmClient may be nil; diagrams then come
// from the fallback templates.
func New(fetcher githubrepo.Fetcher, llmClient llm.Client) *Pipeline {
	return &Pipeline{
		Fetcher:    fetcher,
		Serializer: serialize.New(),
		Diagrams:   &diagram.Synthesizer{LLM: llmClient},
	}
}

// Ingest converts one repository URL into a Result. The only fatal paths
// are an invalid URL, a failed fetch, and a failed serialization; diagram
// synthesis self-heals per kind.
func (p *Pipeline) Ingest(ctx context.Context, repoURL string, opts Options) (*Result, error) {
	if opts.OutputFormat != "" && opts.OutputFormat != "xml" {
		return nil, fmt.Errorf("%w: unsupported output format %q", ErrIngestionFailed, opts.OutputFormat)
	}

	normalized, id, err := githubrepo.Locate(repoURL)
	if err != nil {
		// Invalid input is surfaced verbatim, before any network work.
		return nil, err
	}
	if opts.Verbose {
		log.Printf("ingest: located %s", normalized)
	}

	co, err := p.Fetcher.Fetch(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIngestionFailed, err)
	}
	defer func() {
		if co.Path != "" {
			_ = os.RemoveAll(co.Path)
		}
	}()
	id.DefaultBranch = co.Branch

	art, err := p.Serializer.Walk(co.Path, id.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIngestionFailed, err)
	}
	xml := art.XML()
	if opts.Verbose {
		log.Printf("ingest: serialized %d files (%d bytes) from %s", art.FileCount(), len(xml), id.FullName())
	}

	pair := p.Diagrams.Generate(ctx, id, xml)

	return &Result{
		Identity: id,
		RepoURL:  normalized,
		XML:      xml,
		Metadata: Metadata{
			Branch:        co.Branch,
			Commit:        co.Commit,
			CommitMessage: co.CommitMessage,
		},
		FileCount: art.FileCount(),
		Diagrams:  pair,
	}, nil
}
