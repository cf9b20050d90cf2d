package persist

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"
)

// Project is one durable record per (userID, repoURL).
type Project struct {
	ID      string
	UserID  string
	RepoURL string
	Name    string
	// Summary mirrors the business-flow diagram for quick access.
	Summary string
}

// ArtifactMeta is the single metadata row kept per project; re-ingestion
// replaces it (last write wins).
type ArtifactMeta struct {
	ProjectID string
	Path      string
	SizeBytes int64
	FileCount int
	Branch    string
	Commit    string
	CreatedAt time.Time
}

// ProjectStore is the row-level persistence contract. The backend owns the
// schema; this package only relies on (userID, repoURL) uniqueness.
type ProjectStore interface {
	// Ensure looks up or creates the record for (userID, repoURL).
	// Idempotent: re-ingesting a known repo reuses the existing id.
	Ensure(ctx context.Context, userID, repoURL, name string) (Project, error)
	SetSummary(ctx context.Context, projectID, summary string) error
	PutArtifactMeta(ctx context.Context, meta ArtifactMeta) error
}

func newProjectID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "p-" + hex.EncodeToString([]byte(time.Now().Format("20060102150405.000")))
	}
	return hex.EncodeToString(b[:])
}

// MemoryProjectStore backs ProjectStore with process memory for tests and
// database-less runs.
type MemoryProjectStore struct {
	mu    sync.Mutex
	byKey map[string]*Project
	byID  map[string]*Project
	Meta  map[string]ArtifactMeta
}

func NewMemoryProjectStore() *MemoryProjectStore {
	return &MemoryProjectStore{
		byKey: make(map[string]*Project),
		byID:  make(map[string]*Project),
		Meta:  make(map[string]ArtifactMeta),
	}
}

func (s *MemoryProjectStore) Ensure(_ context.Context, userID, repoURL, name string) (Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := userID + "\x00" + repoURL
	if p, ok := s.byKey[key]; ok {
		return *p, nil
	}
	p := &Project{ID: newProjectID(), UserID: userID, RepoURL: repoURL, Name: name}
	s.byKey[key] = p
	s.byID[p.ID] = p
	return *p, nil
}

func (s *MemoryProjectStore) SetSummary(_ context.Context, projectID, summary string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.byID[projectID]; ok {
		p.Summary = summary
	}
	return nil
}

func (s *MemoryProjectStore) PutArtifactMeta(_ context.Context, meta ArtifactMeta) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Meta[meta.ProjectID] = meta
	return nil
}

// Get is a test helper.
func (s *MemoryProjectStore) Get(projectID string) (Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[projectID]
	if !ok {
		return Project{}, false
	}
	return *p, true
}
