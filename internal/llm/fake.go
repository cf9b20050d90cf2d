package llm

import (
	"context"
	"strings"
)

// FakeClient returns deterministic completions per phase for offline use
// and tests.
type FakeClient struct {
	// ByPhase maps a phase label to a canned completion.
	ByPhase map[string]string
	// ErrByPhase injects a failure for specific phases only.
	ErrByPhase map[string]error
	// Err fails every call when set.
	Err error
}

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) GenerateText(ctx context.Context, prompt, contextText string) (string, error) {
	phase := PhaseFrom(ctx)
	if err, ok := f.ErrByPhase[phase]; ok && err != nil {
		return "", err
	}
	if f.Err != nil {
		return "", f.Err
	}
	if out, ok := f.ByPhase[phase]; ok {
		return out, nil
	}
	if strings.Contains(prompt, "flowchart LR") {
		return "flowchart LR\n    Input[Input] --> Process[Process]\n    Process --> Output[Output]", nil
	}
	return "flowchart TD\n    User([User]) --> App[Application]", nil
}
