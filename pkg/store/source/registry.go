package source

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"sync"

	"github.com/de-tools/campaign-atlas/pkg/errs"
	"github.com/de-tools/campaign-atlas/pkg/services/config"
)

// Factory opens a connection to the database holding the raw marketing tables.
type Factory func(ctx context.Context, settings config.SourceSettings) (*sql.DB, error)

// Registry manages source factories keyed by platform name.
type Registry interface {
	Register(platform string, factory Factory) error
	Open(ctx context.Context, settings config.SourceSettings) (*sql.DB, error)
	ListPlatforms() []string
}

type registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

func NewRegistry() Registry {
	return &registry{
		factories: make(map[string]Factory),
	}
}

// DefaultRegistry knows every platform the configuration accepts.
func DefaultRegistry() Registry {
	r := NewRegistry()
	_ = r.Register(PlatformDuckDB, DuckDBFactory)
	_ = r.Register(PlatformSnowflake, SnowflakeFactory)
	_ = r.Register(PlatformDatabricks, DatabricksFactory)
	_ = r.Register(PlatformPostgres, PostgresFactory)
	return r
}

func (r *registry) Register(platform string, factory Factory) error {
	if platform == "" {
		return fmt.Errorf("platform name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[platform]; exists {
		return fmt.Errorf("platform %q is already registered", platform)
	}

	r.factories[platform] = factory
	return nil
}

func (r *registry) Open(ctx context.Context, settings config.SourceSettings) (*sql.DB, error) {
	r.mu.RLock()
	factory, exists := r.factories[settings.Platform]
	r.mu.RUnlock()

	if !exists {
		return nil, errs.Configuration("source platform %q is not registered", settings.Platform)
	}

	db, err := factory(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("open %s source: %w", settings.Platform, err)
	}
	return db, nil
}

func (r *registry) ListPlatforms() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	platforms := make([]string, 0, len(r.factories))
	for platform := range r.factories {
		platforms = append(platforms, platform)
	}
	slices.Sort(platforms)
	return platforms
}
