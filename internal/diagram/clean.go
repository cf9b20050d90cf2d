package diagram

import (
	"regexp"
	"strings"
)

// scanState drives the line scanner over a raw completion.
type scanState int

const (
	beforeDiagram scanState = iota
	inDiagram
	done
)

var reNumberedItem = regexp.MustCompile(`^\d+[.)]\s`)

// Openers of trailing explanatory prose. Matched case-insensitively
// against the start of a line once inside the diagram body.
var proseOpeners = []string{
	"this diagram",
	"the diagram",
	"the above",
	"here is",
	"here's",
	"note:",
	"explanation",
	"in summary",
	"in this diagram",
	"i have",
	"i've",
	"hope this",
	"let me know",
	"key:",
	"legend:",
}

// Clean extracts the diagram body from a raw model completion: code fences
// are dropped, everything before the first "flowchart" line is discarded,
// and capture stops at the first line that reads like trailing prose.
// Feeding an already-clean diagram through returns it unchanged.
func Clean(raw string) string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")

	state := beforeDiagram
	var kept []string
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		switch state {
		case beforeDiagram:
			if isFence(trimmed) {
				continue
			}
			if strings.HasPrefix(trimmed, "flowchart") {
				state = inDiagram
				kept = append(kept, line)
			}
		case inDiagram:
			if isFence(trimmed) || looksLikeProse(trimmed) {
				state = done
				continue
			}
			kept = append(kept, line)
		case done:
			// everything after the diagram body is discarded
		}
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

func isFence(line string) bool {
	return strings.HasPrefix(line, "```")
}

func looksLikeProse(line string) bool {
	if line == "" {
		return false
	}
	if reNumberedItem.MatchString(line) {
		return true
	}
	lower := strings.ToLower(line)
	for _, p := range proseOpeners {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}
