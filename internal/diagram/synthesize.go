package diagram

import (
	"context"
	"log"
	"strings"
	"sync"

	"repoflow/internal/githubrepo"
	"repoflow/internal/llm"
)

// Synthesizer fans two prompts out to the completion service and cleans
// the replies. It never fails as a whole: each kind degrades to its
// fallback template independently.
type Synthesizer struct {
	LLM llm.Client
}

// Generate builds both diagrams concurrently and returns once both settle.
func (s *Synthesizer) Generate(ctx context.Context, id githubrepo.Identity, artifactXML string) Pair {
	kinds := [2]Kind{KindBusinessFlow, KindDataFlow}
	var specs [2]Spec

	var wg sync.WaitGroup
	for i, kind := range kinds {
		wg.Add(1)
		go func(i int, kind Kind) {
			defer wg.Done()
			specs[i] = s.generateOne(ctx, kind, id, artifactXML)
		}(i, kind)
	}
	wg.Wait()

	return Pair{BusinessFlow: specs[0], DataFlow: specs[1]}
}

func (s *Synthesizer) generateOne(ctx context.Context, kind Kind, id githubrepo.Identity, artifactXML string) Spec {
	if s.LLM == nil {
		return Fallback(kind, id.Name)
	}
	prompt, contextText := BuildPrompt(kind, id, artifactXML)
	raw, err := s.LLM.GenerateText(llm.WithPhase(ctx, string(kind)), prompt, contextText)
	if err != nil {
		log.Printf("diagram: %s synthesis failed, using fallback: %v", kind, err)
		return Fallback(kind, id.Name)
	}
	cleaned := Clean(raw)
	if !strings.HasPrefix(cleaned, "flowchart") {
		log.Printf("diagram: %s completion had no diagram body, using fallback", kind)
		return Fallback(kind, id.Name)
	}
	return Spec{Kind: kind, SourceText: cleaned}
}
