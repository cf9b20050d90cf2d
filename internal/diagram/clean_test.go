package diagram

import "testing"

func TestCleanStripsFencesAndProse(t *testing.T) {
	raw := "Sure! Here is your diagram:\n" +
		"```mermaid\n" +
		"flowchart TD\n" +
		"    A[User] --> B[API]\n" +
		"    B --> C[(DB)]\n" +
		"```\n" +
		"This diagram shows the main flow.\n"

	want := "flowchart TD\n    A[User] --> B[API]\n    B --> C[(DB)]"
	if got := Clean(raw); got != want {
		t.Fatalf("Clean = %q, want %q", got, want)
	}
}

func TestCleanStopsAtTrailingProse(t *testing.T) {
	raw := "flowchart LR\n" +
		"    In[Input] --> Out[Output]\n" +
		"1. The input node reads data\n" +
		"2. The output node writes data\n"

	want := "flowchart LR\n    In[Input] --> Out[Output]"
	if got := Clean(raw); got != want {
		t.Fatalf("Clean = %q, want %q", got, want)
	}
}

func TestCleanIdempotent(t *testing.T) {
	clean := "flowchart TD\n    A[User] --> B[Dashboard]\n    class A frontend"
	if got := Clean(clean); got != clean {
		t.Fatalf("Clean changed an already-clean diagram:\n%q\n%q", got, clean)
	}
	if got := Clean(Clean(clean)); got != clean {
		t.Fatal("Clean is not idempotent")
	}
}

func TestCleanNoDiagram(t *testing.T) {
	if got := Clean("I cannot generate a diagram for this repository."); got != "" {
		t.Fatalf("Clean = %q, want empty", got)
	}
}

func TestCleanCRLF(t *testing.T) {
	raw := "```\r\nflowchart TD\r\n    A --> B\r\n```\r\n"
	want := "flowchart TD\n    A --> B"
	if got := Clean(raw); got != want {
		t.Fatalf("Clean = %q, want %q", got, want)
	}
}
