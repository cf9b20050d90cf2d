package persist

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresProjectStore keeps project records and artifact metadata in
// Postgres, with a small LRU in front of record lookups.
type PostgresProjectStore struct {
	db *sql.DB

	schemaOnce sync.Once
	schemaErr  error

	cache *lru.Cache[string, Project]
}

func NewPostgresProjectStore(dsn string) (*PostgresProjectStore, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	cache, err := lru.New[string, Project](1024)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &PostgresProjectStore{db: db, cache: cache}, nil
}

func (s *PostgresProjectStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *PostgresProjectStore) ensureSchema() error {
	if s == nil || s.db == nil {
		return fmt.Errorf("db is nil")
	}
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.Exec(`
CREATE TABLE IF NOT EXISTS projects (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  repo_url TEXT NOT NULL,
  name TEXT NOT NULL DEFAULT '',
  summary TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
  updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
  UNIQUE (user_id, repo_url)
);

CREATE TABLE IF NOT EXISTS artifact_meta (
  project_id TEXT PRIMARY KEY,
  path TEXT NOT NULL,
  size_bytes BIGINT NOT NULL,
  file_count INT NOT NULL,
  branch TEXT NOT NULL DEFAULT '',
  commit_sha TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_projects_user_id ON projects (user_id);
`)
	})
	return s.schemaErr
}

func cacheKey(userID, repoURL string) string { return userID + "\x00" + repoURL }

func (s *PostgresProjectStore) Ensure(ctx context.Context, userID, repoURL, name string) (Project, error) {
	userID = strings.TrimSpace(userID)
	repoURL = strings.TrimSpace(repoURL)
	if userID == "" || repoURL == "" {
		return Project{}, fmt.Errorf("user id and repo url are required")
	}
	if p, ok := s.cache.Get(cacheKey(userID, repoURL)); ok {
		return p, nil
	}
	if err := s.ensureSchema(); err != nil {
		return Project{}, err
	}

	p := Project{UserID: userID, RepoURL: repoURL, Name: name}
	err := s.db.QueryRowContext(ctx, `
INSERT INTO projects (id, user_id, repo_url, name, updated_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (user_id, repo_url)
DO UPDATE SET updated_at = EXCLUDED.updated_at
RETURNING id, name, summary
`, newProjectID(), userID, repoURL, name, time.Now()).Scan(&p.ID, &p.Name, &p.Summary)
	if err != nil {
		return Project{}, err
	}
	s.cache.Add(cacheKey(userID, repoURL), p)
	return p, nil
}

func (s *PostgresProjectStore) SetSummary(ctx context.Context, projectID, summary string) error {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return fmt.Errorf("project id is required")
	}
	if err := s.ensureSchema(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
UPDATE projects SET summary = $2, updated_at = $3 WHERE id = $1`,
		projectID, summary, time.Now())
	if err != nil {
		return err
	}
	// Keep the lookup cache coherent with the new summary.
	for _, key := range s.cache.Keys() {
		if p, ok := s.cache.Peek(key); ok && p.ID == projectID {
			p.Summary = summary
			s.cache.Add(key, p)
		}
	}
	return nil
}

func (s *PostgresProjectStore) PutArtifactMeta(ctx context.Context, meta ArtifactMeta) error {
	if strings.TrimSpace(meta.ProjectID) == "" {
		return fmt.Errorf("project id is required")
	}
	if err := s.ensureSchema(); err != nil {
		return err
	}
	created := meta.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO artifact_meta (project_id, path, size_bytes, file_count, branch, commit_sha, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (project_id)
DO UPDATE SET path = EXCLUDED.path,
  size_bytes = EXCLUDED.size_bytes,
  file_count = EXCLUDED.file_count,
  branch = EXCLUDED.branch,
  commit_sha = EXCLUDED.commit_sha,
  created_at = EXCLUDED.created_at
`, meta.ProjectID, meta.Path, meta.SizeBytes, meta.FileCount, meta.Branch, meta.Commit, created)
	return err
}
