package diagram

import (
	"context"
	"errors"
	"strings"
	"testing"

	"repoflow/internal/githubrepo"
	"repoflow/internal/llm"
)

var testIdentity = githubrepo.Identity{Owner: "octocat", Name: "Hello-World"}

func TestGenerateBothSynthesized(t *testing.T) {
	s := &Synthesizer{LLM: &llm.FakeClient{
		ByPhase: map[string]string{
			"businessFlow": "flowchart TD\n    U[User] --> S[Service]",
			"dataFlow":     "flowchart LR\n    I[In] --> O[Out]",
		},
	}}
	pair := s.Generate(context.Background(), testIdentity, "<repository/>")

	if pair.BusinessFlow.Fallback || pair.DataFlow.Fallback {
		t.Fatalf("unexpected fallback: %+v", pair)
	}
	if !strings.HasPrefix(pair.BusinessFlow.SourceText, "flowchart TD") {
		t.Fatalf("business flow = %q", pair.BusinessFlow.SourceText)
	}
	if !strings.HasPrefix(pair.DataFlow.SourceText, "flowchart LR") {
		t.Fatalf("data flow = %q", pair.DataFlow.SourceText)
	}
}

func TestGeneratePartialFailureIsolation(t *testing.T) {
	s := &Synthesizer{LLM: &llm.FakeClient{
		ByPhase: map[string]string{
			"businessFlow": "flowchart TD\n    U[User] --> S[Service]",
		},
		ErrByPhase: map[string]error{
			"dataFlow": errors.New("completion timed out"),
		},
	}}
	pair := s.Generate(context.Background(), testIdentity, "<repository/>")

	if pair.BusinessFlow.Fallback {
		t.Fatal("business flow should not have fallen back")
	}
	if !pair.DataFlow.Fallback {
		t.Fatal("data flow should have fallen back")
	}
	if !strings.HasPrefix(pair.DataFlow.SourceText, "flowchart LR") {
		t.Fatalf("fallback data flow = %q", pair.DataFlow.SourceText)
	}
}

func TestGenerateTotalFailure(t *testing.T) {
	s := &Synthesizer{LLM: &llm.FakeClient{Err: errors.New("service unavailable")}}
	pair := s.Generate(context.Background(), testIdentity, "<repository/>")

	for _, spec := range []Spec{pair.BusinessFlow, pair.DataFlow} {
		if !spec.Fallback {
			t.Fatalf("%s should be a fallback", spec.Kind)
		}
		if spec.SourceText == "" || !strings.HasPrefix(spec.SourceText, "flowchart") {
			t.Fatalf("%s fallback source = %q", spec.Kind, spec.SourceText)
		}
	}
}

func TestGenerateGarbageCompletionFallsBack(t *testing.T) {
	s := &Synthesizer{LLM: &llm.FakeClient{
		ByPhase: map[string]string{
			"businessFlow": "Sorry, I cannot help with that.",
			"dataFlow":     "flowchart LR\n    I[In] --> O[Out]",
		},
	}}
	pair := s.Generate(context.Background(), testIdentity, "<repository/>")

	if !pair.BusinessFlow.Fallback {
		t.Fatal("garbage completion should fall back")
	}
	if pair.DataFlow.Fallback {
		t.Fatal("valid completion should not fall back")
	}
}

func TestGenerateNilClient(t *testing.T) {
	s := &Synthesizer{}
	pair := s.Generate(context.Background(), testIdentity, "<repository/>")
	if !pair.BusinessFlow.Fallback || !pair.DataFlow.Fallback {
		t.Fatal("nil client must fall back for both kinds")
	}
}

func TestFallbackInterpolatesName(t *testing.T) {
	spec := Fallback(KindBusinessFlow, "Hello-World")
	if !strings.Contains(spec.SourceText, "Hello-World") {
		t.Fatalf("fallback missing repo name:\n%s", spec.SourceText)
	}
	if !strings.HasPrefix(spec.SourceText, "flowchart TD") {
		t.Fatalf("fallback header wrong:\n%s", spec.SourceText)
	}
	data := Fallback(KindDataFlow, "Hello-World")
	if !strings.HasPrefix(data.SourceText, "flowchart LR") {
		t.Fatalf("data fallback header wrong:\n%s", data.SourceText)
	}
}

func TestBuildPromptTruncatesContext(t *testing.T) {
	big := strings.Repeat("x", maxContextChars+5000)
	_, contextText := BuildPrompt(KindBusinessFlow, testIdentity, big)
	if len(contextText) != maxContextChars {
		t.Fatalf("context length = %d, want %d", len(contextText), maxContextChars)
	}
	prompt, _ := BuildPrompt(KindDataFlow, testIdentity, "short")
	if !strings.Contains(prompt, "flowchart LR") {
		t.Fatalf("data flow prompt missing header constraint:\n%s", prompt)
	}
}
