// Package diagram turns a serialized repository artifact into a pair of
// mermaid flowcharts via an LLM, with deterministic fallbacks when the
// model fails or misbehaves.
package diagram

// Kind selects one of the two diagram views.
type Kind string

const (
	KindBusinessFlow Kind = "businessFlow"
	KindDataFlow     Kind = "dataFlow"
)

// Header is the required first line for a kind's diagram source.
func (k Kind) Header() string {
	if k == KindDataFlow {
		return "flowchart LR"
	}
	return "flowchart TD"
}

// Spec is one diagram's source text. SourceText always begins with the
// "flowchart" keyword, whether synthesized or templated.
type Spec struct {
	Kind       Kind   `json:"kind"`
	SourceText string `json:"sourceText"`
	// Fallback is true when the template generator produced the source.
	Fallback bool `json:"fallback"`
}

// Pair is always fully populated: under partial failure one side is a
// fallback and the other is synthesized.
type Pair struct {
	BusinessFlow Spec `json:"businessFlow"`
	DataFlow     Spec `json:"dataFlow"`
}
