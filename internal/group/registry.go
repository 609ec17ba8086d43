package group

import (
	"context"
	"fmt"
	"sync"
)

// Logger defines the logging interface used by the Registry.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Registry caches all groups in memory on top of a Repository.
//
// The resolver needs the full group list on every request, so the cache is
// kept as a complete, immutable slice that is replaced wholesale after each
// write. Writes go through to the repository first, then the cache is
// reloaded.
//
// All public methods are thread-safe.
type Registry struct {
	repo   Repository
	groups []Group
	mu     sync.RWMutex
	logger Logger
}

// NewRegistry creates a registry over the given repository. Call Refresh
// before first use.
func NewRegistry(repo Repository) *Registry {
	return &Registry{
		repo:   repo,
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// Refresh reloads every group from the repository.
func (r *Registry) Refresh(ctx context.Context) error {
	groups, err := r.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("loading groups: %w", err)
	}

	r.mu.Lock()
	r.groups = groups
	r.mu.Unlock()

	r.logger.Info("group cache refreshed", "count", len(groups))
	return nil
}

// Groups returns the cached group list. The slice is shared with other
// readers and must not be modified.
func (r *Registry) Groups() []Group {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.groups
}

// List returns a deep copy of all cached groups; callers may modify it.
func (r *Registry) List() []Group {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Group, len(r.groups))
	for i := range r.groups {
		out[i] = r.groups[i].DeepCopy()
	}
	return out
}

// Get returns a copy of the cached group with the given ID.
func (r *Registry) Get(id string) (Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.groups {
		if r.groups[i].ID == id {
			return r.groups[i].DeepCopy(), nil
		}
	}
	return Group{}, ErrGroupNotFound
}

// Create persists a new group and refreshes the cache.
func (r *Registry) Create(ctx context.Context, g *Group) error {
	if err := r.repo.Create(ctx, g); err != nil {
		return err
	}
	r.logger.Info("group created", "id", g.ID, "name", g.Name, "members", len(g.DeviceIDs))
	return r.Refresh(ctx)
}

// Update persists changes to an existing group and refreshes the cache.
func (r *Registry) Update(ctx context.Context, g *Group) error {
	if err := r.repo.Update(ctx, g); err != nil {
		return err
	}
	r.logger.Info("group updated", "id", g.ID, "name", g.Name)
	return r.Refresh(ctx)
}

// Delete removes a group and refreshes the cache.
func (r *Registry) Delete(ctx context.Context, id string) error {
	if err := r.repo.Delete(ctx, id); err != nil {
		return err
	}
	r.logger.Info("group deleted", "id", id)
	return r.Refresh(ctx)
}
