// Package repomanager builds the metadata store for the configured backend
// and hands out its repositories.
package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/files"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/users"
)

// Supported metadata backends.
const (
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
	BackendMemory   = "memory"
)

// RepositoryManager owns a metadata store connection.
type RepositoryManager interface {
	Users() users.Repository
	Files() files.Repository
	// IsAlive reports whether the store currently answers requests.
	IsAlive(ctx context.Context) bool
	Close(ctx context.Context) error
}

// Options selects and configures a backend.
type Options struct {
	Backend       string
	DatabaseDSN   string
	MongoURI      string
	MongoDatabase string
}

// New connects to the backend named in opts.
func New(ctx context.Context, opts Options) (RepositoryManager, error) {
	switch opts.Backend {
	case BackendPostgres:
		return NewPostgresRepositoryManager(ctx, opts.DatabaseDSN)
	case BackendMongo:
		return NewMongoRepositoryManager(ctx, opts.MongoURI, opts.MongoDatabase)
	case BackendMemory:
		return NewMemoryRepositoryManager(), nil
	default:
		return nil, fmt.Errorf("unknown metadata backend %q", opts.Backend)
	}
}
