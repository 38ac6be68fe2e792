package fetch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JKevinXu/NewsAgent/internal/config"
	"github.com/JKevinXu/NewsAgent/internal/domain"
	"github.com/JKevinXu/NewsAgent/internal/ports"
)

// Registry keeps a mapping from source names to fetcher implementations.
type Registry struct {
	fetchers map[domain.Source]ports.Fetcher
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{fetchers: map[domain.Source]ports.Fetcher{}}
}

// Register adds or replaces a fetcher implementation.
func (r *Registry) Register(f ports.Fetcher) {
	if r.fetchers == nil {
		r.fetchers = map[domain.Source]ports.Fetcher{}
	}
	r.fetchers[f.Name()] = f
}

// Resolve returns a fetcher by source name or an error if it is absent.
func (r *Registry) Resolve(name domain.Source) (ports.Fetcher, error) {
	if f, ok := r.fetchers[name]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("fetcher %s is not registered", name)
}

// MultiSource fans in items from all configured sources. A source that fails
// entirely contributes nothing; the remaining sources still run.
type MultiSource struct {
	registry *Registry
	sources  []config.SourceConfig
	logger   *slog.Logger
}

// NewMultiSource wires the fetcher registry with config-defined sources.
func NewMultiSource(reg *Registry, sources []config.SourceConfig, log *slog.Logger) *MultiSource {
	return &MultiSource{
		registry: reg,
		sources:  sources,
		logger:   log,
	}
}

// FetchAll runs each configured source sequentially and returns the combined
// item list, stamped with run-scoped identity: ID is date-source-index and
// Date is the run date.
func (m *MultiSource) FetchAll(ctx context.Context, date string) []domain.Item {
	var aggregated []domain.Item
	for _, src := range m.sources {
		if src.Limit <= 0 {
			continue
		}

		fetcher, err := m.registry.Resolve(src.Name)
		if err != nil {
			m.warn("skip source", "source", src.Name, "error", err)
			continue
		}

		items, err := fetcher.Fetch(ctx, src.Limit)
		if err != nil {
			m.warn("source fetch failed", "source", src.Name, "error", err)
			continue
		}

		for i := range items {
			items[i].ID = fmt.Sprintf("%s-%s-%d", date, src.Name, i+1)
			items[i].Date = date
			items[i].Source = src.Name
		}

		m.debug("source produced items", "source", src.Name, "count", len(items))
		aggregated = append(aggregated, items...)
	}

	m.debug("fetch done", "total_items", len(aggregated))
	return aggregated
}

func (m *MultiSource) debug(msg string, args ...any) {
	if m.logger != nil {
		m.logger.Debug(msg, args...)
	}
}

func (m *MultiSource) warn(msg string, args ...any) {
	if m.logger != nil {
		m.logger.Warn(msg, args...)
	}
}
