// Package persist holds the durable side of the pipeline: blob storage for
// artifacts and diagrams, project records, and the adapter that decides
// between durable and ephemeral persistence per caller.
package persist

import (
	"context"
	"errors"
)

// Store defines blob operations for persisted artifacts, namespaced by
// project id.
type Store interface {
	Put(ctx context.Context, projectID, path string, content []byte) error
	Get(ctx context.Context, projectID, path string) ([]byte, error)
	List(ctx context.Context, projectID string) ([]string, error)
}

var ErrNotFound = errors.New("persist: blob not found")
