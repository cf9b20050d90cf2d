package diagram

import "fmt"

// Fallback returns a deterministic template diagram for the given kind.
// Pure, no external calls, always succeeds.
func Fallback(kind Kind, repoName string) Spec {
	if repoName == "" {
		repoName = "Application"
	}
	var src string
	switch kind {
	case KindDataFlow:
		src = fmt.Sprintf(`flowchart LR
    Sources[Input Data] --> Process[%s Processing]
    Process --> Store[(Data Storage)]
    Store --> Out[Output]
    class Sources input
    class Process process
    class Store storage
    class Out output`, repoName)
	default:
		src = fmt.Sprintf(`flowchart TD
    User([User]) --> Auth[Authentication]
    Auth --> Dash[%s Dashboard]
    Dash --> Data[(Application Data)]
    class User frontend
    class Auth backend
    class Dash frontend
    class Data database`, repoName)
	}
	return Spec{Kind: kind, SourceText: src, Fallback: true}
}
