package diagram

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"repoflow/internal/githubrepo"
)

// maxContextChars caps how much of the serialized artifact is embedded as
// grounding context.
const maxContextChars = 20000

// classVocabulary is the only set of CSS class names the model may assign
// to nodes. Styling (colors) is the renderer's concern, never the model's.
var classVocabulary = []string{
	"frontend", "backend", "database", "storage",
	"external", "process", "input", "output",
}

// BuildPrompt returns the instruction block for a kind and the truncated
// artifact context to ground it with.
func BuildPrompt(kind Kind, id githubrepo.Identity, artifactXML string) (prompt, contextText string) {
	subject := "the user journeys and business processes this application supports, top-down"
	if kind == KindDataFlow {
		subject = "how data moves through this system, left to right: sources, processing, storage, output"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are generating a mermaid flowchart for the GitHub repository %s.\n", id.FullName())
	fmt.Fprintf(&b, "Describe %s.\n\n", subject)
	b.WriteString("Rules, all mandatory:\n")
	fmt.Fprintf(&b, "- The very first token of your reply must be: %s\n", kind.Header())
	b.WriteString("- Output mermaid source only. No markdown code fences, no prose before or after, no explanations.\n")
	b.WriteString("- Use node labels taken from the actual files, directories and components in the context.\n")
	b.WriteString("- Never emit style, classDef color values, or inline hex colors.\n")
	fmt.Fprintf(&b, "- You may tag nodes with `class` using only these names: %s.\n", strings.Join(classVocabulary, ", "))
	b.WriteString("- Keep it readable: at most 20 nodes.\n")

	return b.String(), truncate(artifactXML, maxContextChars)
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := s[:n]
	for len(cut) > 0 && !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}
	return cut
}
