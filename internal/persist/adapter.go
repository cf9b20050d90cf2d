package persist

import (
	"context"
	"log"

	"repoflow/internal/ingest"
)

// Blob paths within a project's namespace.
const (
	ArtifactBlobPath = "artifact.xml"
	BusinessFlowPath = "diagrams/business_flow.mmd"
	DataFlowPath     = "diagrams/data_flow.mmd"
)

// OutcomeKind tags where an ingestion result was persisted. Callers switch
// on the tag, never on field presence.
type OutcomeKind int

const (
	// OutcomeEphemeral: nothing written durably; the caller keeps the
	// result in its own session-scoped storage.
	OutcomeEphemeral OutcomeKind = iota
	// OutcomeDurable: the signed-in path ran; WriteSucceeded says whether
	// every durable write landed.
	OutcomeDurable
)

type Outcome struct {
	Kind           OutcomeKind
	ProjectID      string
	WriteSucceeded bool
}

// Caller identifies who asked for the ingestion.
type Caller struct {
	SignedIn bool
	UserID   string
}

// Adapter routes a pipeline result to durable storage for signed-in callers
// and leaves it inline for anonymous ones. Durable-write failures degrade:
// they are logged and reflected in the outcome, never returned as errors,
// so the ingestion response always reaches the caller.
type Adapter struct {
	Blobs    Store
	Projects ProjectStore
}

func (a *Adapter) Persist(ctx context.Context, res *ingest.Result, caller Caller) Outcome {
	if a == nil || !caller.SignedIn || caller.UserID == "" {
		return Outcome{Kind: OutcomeEphemeral}
	}
	if a.Blobs == nil || a.Projects == nil {
		log.Printf("persist: durable stores not configured; returning result inline")
		return Outcome{Kind: OutcomeEphemeral}
	}

	project, err := a.Projects.Ensure(ctx, caller.UserID, res.RepoURL, res.Identity.Name)
	if err != nil {
		log.Printf("persist: ensure project for %s: %v", res.RepoURL, err)
		return Outcome{Kind: OutcomeDurable, WriteSucceeded: false}
	}

	ok := true
	put := func(path string, content []byte) {
		if perr := a.Blobs.Put(ctx, project.ID, path, content); perr != nil {
			log.Printf("persist: put %s/%s: %v", project.ID, path, perr)
			ok = false
		}
	}
	put(ArtifactBlobPath, []byte(res.XML))
	put(BusinessFlowPath, []byte(res.Diagrams.BusinessFlow.SourceText))
	put(DataFlowPath, []byte(res.Diagrams.DataFlow.SourceText))

	if merr := a.Projects.PutArtifactMeta(ctx, ArtifactMeta{
		ProjectID: project.ID,
		Path:      ArtifactBlobPath,
		SizeBytes: int64(res.ArtifactSize()),
		FileCount: res.FileCount,
		Branch:    res.Metadata.Branch,
		Commit:    res.Metadata.Commit,
	}); merr != nil {
		log.Printf("persist: artifact meta for %s: %v", project.ID, merr)
		ok = false
	}
	if serr := a.Projects.SetSummary(ctx, project.ID, res.Diagrams.BusinessFlow.SourceText); serr != nil {
		log.Printf("persist: summary for %s: %v", project.ID, serr)
		ok = false
	}

	return Outcome{Kind: OutcomeDurable, ProjectID: project.ID, WriteSucceeded: ok}
}
