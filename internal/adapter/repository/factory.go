package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/simaogato/priorityflow-backend/internal/adapter/repository/jsonfile"
	"github.com/simaogato/priorityflow-backend/internal/adapter/repository/memory"
	"github.com/simaogato/priorityflow-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/priorityflow-backend/internal/domain"
)

const (
	BackendFile     = "file"
	BackendJSON     = "json"
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

// Factory builds sources and sinks from backend specs such as
// "file:portfolio.json", "json:/tmp/events.json.gz", "memory" or "postgres".
// A spec without a backend prefix is treated as a file path.
// The Postgres connection is opened lazily and shared.
type Factory struct {
	connStr string

	mu sync.Mutex
	db *postgres.DB
}

// NewFactory creates a factory; connStr is only used by postgres specs
func NewFactory(connStr string) *Factory {
	return &Factory{connStr: connStr}
}

// AssetRepository returns the asset source/sink for spec
func (f *Factory) AssetRepository(ctx context.Context, spec string) (domain.AssetRepository, error) {
	backend, arg := ParseSpec(spec)
	switch backend {
	case BackendFile, BackendJSON:
		if arg == "" {
			return nil, fmt.Errorf("backend %s requires a path", backend)
		}
		return jsonfile.NewAssetRepository(arg), nil
	case BackendMemory:
		return memory.NewAssetRepository(), nil
	case BackendPostgres:
		db, err := f.postgres(ctx)
		if err != nil {
			return nil, err
		}
		return postgres.NewAssetRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported asset backend: %s", backend)
	}
}

// EventSource returns the event source for spec
func (f *Factory) EventSource(ctx context.Context, spec string) (domain.EventSource, error) {
	backend, arg := ParseSpec(spec)
	switch backend {
	case BackendFile, BackendJSON:
		if arg == "" {
			return nil, fmt.Errorf("backend %s requires a path", backend)
		}
		return jsonfile.NewEventSource(arg), nil
	case BackendMemory:
		return memory.NewEventSource(), nil
	case BackendPostgres:
		db, err := f.postgres(ctx)
		if err != nil {
			return nil, err
		}
		return postgres.NewEventRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported event backend: %s", backend)
	}
}

// Postgres returns the shared database handle, opening it on first use
func (f *Factory) Postgres(ctx context.Context) (*postgres.DB, error) {
	return f.postgres(ctx)
}

func (f *Factory) postgres(ctx context.Context) (*postgres.DB, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.db != nil {
		return f.db, nil
	}
	if f.connStr == "" {
		return nil, errors.New("postgres backend requires a database connection string")
	}
	db, err := postgres.NewDB(f.connStr)
	if err != nil {
		return nil, err
	}
	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	f.db = db
	return db, nil
}

// Close releases the Postgres connection if one was opened
func (f *Factory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.db == nil {
		return nil
	}
	err := f.db.Close()
	f.db = nil
	return err
}

// ParseSpec splits a backend spec into backend name and argument.
// Only a known backend name is treated as a prefix; anything else, including
// paths that contain a colon, is a file path.
func ParseSpec(spec string) (backend, arg string) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return BackendMemory, ""
	}

	name, rest, hasPrefix := strings.Cut(spec, ":")
	name = strings.ToLower(name)
	if !isBackend(name) {
		return BackendFile, spec
	}
	if !hasPrefix {
		switch name {
		case BackendMemory, BackendPostgres:
			return name, ""
		default:
			// "file" or "json" on its own is a relative file name
			return BackendFile, spec
		}
	}
	return name, rest
}

func isBackend(name string) bool {
	switch name {
	case BackendFile, BackendJSON, BackendMemory, BackendPostgres:
		return true
	default:
		return false
	}
}
