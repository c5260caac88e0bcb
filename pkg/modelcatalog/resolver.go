package modelcatalog

import (
	"context"
	"errors"
)

var ErrNoMatch = errors.New("no catalog model matches the slug")

// Resolve maps slug to an identifier using overrides, then the given catalog snapshot.
func Resolve(slug string, overrides Overrides, catalog *Catalog) (Resolution, error) {
	if id, ok := overrides.Lookup(slug); ok {
		return Resolution{Slug: slug, Identifier: id, Confidence: scoreMax, Source: SourceOverride}, nil
	}

	m, score, ok := Best(slug, catalog)
	if !ok {
		return Resolution{Slug: slug}, ErrNoMatch
	}
	return Resolution{Slug: slug, Identifier: m.Identifier(), Confidence: score, Source: SourceCatalog}, nil
}

// ResolveOrFallback returns fallback whenever the best match scores below threshold.
func ResolveOrFallback(slug string, threshold int, fallback string, overrides Overrides, catalog *Catalog) Resolution {
	res, err := Resolve(slug, overrides, catalog)
	if err != nil || res.Confidence < threshold {
		return Resolution{Slug: slug, Identifier: fallback, Confidence: res.Confidence, Source: SourceFallback}
	}
	return res
}

// Resolver binds the override table to a live catalog cache.
type Resolver struct {
	overrides Overrides
	cache     *CatalogCache
}

func NewResolver(overrides Overrides, cache *CatalogCache) *Resolver {
	return &Resolver{overrides: overrides, cache: cache}
}

// Resolve never touches the catalog for overridden slugs. A catalog that cannot be loaded
// is treated as empty, so callers fall back.
func (r *Resolver) Resolve(ctx context.Context, slug string, threshold int, fallback string) Resolution {
	if id, ok := r.overrides.Lookup(slug); ok {
		return Resolution{Slug: slug, Identifier: id, Confidence: scoreMax, Source: SourceOverride}
	}

	var catalog *Catalog
	if r.cache != nil {
		catalog, _ = r.cache.Get(ctx)
	}
	return ResolveOrFallback(slug, threshold, fallback, r.overrides, catalog)
}

// Refresh forces an origin fetch. A failed fetch returns the stale snapshot and the error.
func (r *Resolver) Refresh(ctx context.Context) (*Catalog, error) {
	if r.cache == nil {
		return nil, errors.New("catalog cache not configured")
	}
	return r.cache.Refresh(ctx)
}
