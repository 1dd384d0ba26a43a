package provider

import (
	"fmt"
	"sync"
)

// noneSlug is the configured sentinel that disables fallback for a kind.
const noneSlug = "none"

// Selection holds the host-configured provider choice per capability kind.
type Selection struct {
	// Active maps kind to the configured active provider slug. A missing
	// entry means "first registered wins".
	Active map[Kind]string
	// Fallback maps kind to the slug retried once after an active-provider
	// failure. The literal "none" (or a missing entry) disables fallback.
	Fallback map[Kind]string
}

// Registry maps capability kinds to their registered providers and resolves
// the active and fallback instances from configuration. Registration happens
// once at startup; reads are safe for concurrent use afterwards.
type Registry struct {
	mu        sync.RWMutex
	byKind    map[Kind][]Provider
	selection Selection
}

// NewRegistry builds an empty registry with the given provider selection.
func NewRegistry(sel Selection) *Registry {
	return &Registry{
		byKind:    make(map[Kind][]Provider),
		selection: sel,
	}
}

// Register adds one provider under its capability kind. Duplicate slugs
// within a kind are rejected.
func (r *Registry) Register(p Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.byKind[p.Kind()] {
		if existing.Slug() == p.Slug() {
			return fmt.Errorf("provider %q already registered for kind %s", p.Slug(), p.Kind())
		}
	}
	r.byKind[p.Kind()] = append(r.byKind[p.Kind()], p)
	return nil
}

// Active returns the provider selected by configuration for the kind, the
// first registered provider when none is configured, or ErrNoProvider when
// the kind has no providers at all.
func (r *Registry) Active(kind Kind) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	providers := r.byKind[kind]
	if len(providers) == 0 {
		return nil, fmt.Errorf("%w: kind %s", ErrNoProvider, kind)
	}
	slug := r.selection.Active[kind]
	if slug == "" {
		return providers[0], nil
	}
	for _, p := range providers {
		if p.Slug() == slug {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: configured slug %q not registered for kind %s", ErrNoProvider, slug, kind)
}

// Fallback returns the provider to retry once after failedSlug failed, or
// false when fallback is disabled, unregistered, or would repeat the provider
// that just failed.
func (r *Registry) Fallback(kind Kind, failedSlug string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	slug := r.selection.Fallback[kind]
	if slug == "" || slug == noneSlug || slug == failedSlug {
		return nil, false
	}
	for _, p := range r.byKind[kind] {
		if p.Slug() == slug {
			return p, true
		}
	}
	return nil, false
}

// BySlug returns a specific provider for per-call override.
func (r *Registry) BySlug(kind Kind, slug string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.byKind[kind] {
		if p.Slug() == slug {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: slug %q not registered for kind %s", ErrNoProvider, slug, kind)
}

// All returns the registered providers of a kind, in registration order.
func (r *Registry) All(kind Kind) []Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Provider, len(r.byKind[kind]))
	copy(out, r.byKind[kind])
	return out
}
