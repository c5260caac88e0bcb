package modelcatalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"ai-studio-be/internal/pkg/logger"

	"github.com/replicate/replicate-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedCatalog() *Catalog {
	return NewCatalog([]Model{
		{Owner: "black-forest-labs", Name: "flux-schnell", Description: "Fast text to image", RunCount: 500},
		{Owner: "fofr", Name: "logo-maker", Description: "Generate a clean vector logo", RunCount: 20},
		{Owner: "someone", Name: "anime-diffusion", Description: "Anime style images", RunCount: 10, LatestVersion: "abc123"},
		{Owner: "lucataco", Name: "remove-bg", Description: "Remove image background", RunCount: 90},
	}, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
}

func TestOverrides_Lookup(t *testing.T) {
	o := Overrides{
		"ai-image-generator":  "black-forest-labs/flux-schnell",
		"tools/sticker-maker": "fofr/sticker-maker",
	}

	tests := []struct {
		slug string
		want string
		ok   bool
	}{
		{"ai-image-generator", "black-forest-labs/flux-schnell", true},
		{"/api/tools/ai-image-generator", "black-forest-labs/flux-schnell", true},
		{"tools/ai-image-generator", "black-forest-labs/flux-schnell", true},
		{"sticker-maker", "fofr/sticker-maker", true},
		{"/api/tools/sticker-maker", "fofr/sticker-maker", true},
		{"unknown", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			got, ok := o.Lookup(tt.slug)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name string
		slug string
		m    Model
		want int
	}{
		{"exact name", "flux-schnell", Model{Owner: "black-forest-labs", Name: "flux-schnell"}, 100},
		{"owner and name", "fofr-logo-maker", Model{Owner: "fofr", Name: "logo-maker"}, 95},
		{"contains", "logo", Model{Owner: "fofr", Name: "logo-maker"}, 70},
		{"contains with description", "logo", Model{Owner: "fofr", Name: "logo-maker", Description: "Logo designs"}, 80},
		{"half token overlap", "anime-portrait", Model{Owner: "x", Name: "anime-diffusion"}, 30},
		{"no overlap", "video", Model{Owner: "x", Name: "remove-bg"}, 0},
		{"capped", "flux-schnell", Model{Owner: "a", Name: "flux-schnell", Description: "flux schnell"}, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.slug, tt.m))
		})
	}
}

func TestResolve_OverrideIgnoresCatalog(t *testing.T) {
	o := Overrides{"logo-maker": "pinned/logo:v1"}

	for _, cat := range []*Catalog{nil, fixedCatalog(), NewCatalog(nil, time.Now())} {
		res, err := Resolve("logo-maker", o, cat)
		require.NoError(t, err)
		assert.Equal(t, "pinned/logo:v1", res.Identifier)
		assert.Equal(t, 100, res.Confidence)
		assert.Equal(t, SourceOverride, res.Source)
	}
}

func TestResolve_CatalogMatchUsesVersionPin(t *testing.T) {
	res, err := Resolve("anime-diffusion", Overrides{}, fixedCatalog())
	require.NoError(t, err)
	assert.Equal(t, "someone/anime-diffusion:abc123", res.Identifier)
	assert.Equal(t, SourceCatalog, res.Source)
}

func TestResolveOrFallback(t *testing.T) {
	cat := fixedCatalog()

	res := ResolveOrFallback("logo", 30, "fallback/model", Overrides{}, cat)
	assert.Equal(t, "fofr/logo-maker", res.Identifier)
	assert.Equal(t, SourceCatalog, res.Source)

	res = ResolveOrFallback("watercolor-painting", 30, "fallback/model", Overrides{}, cat)
	assert.Equal(t, "fallback/model", res.Identifier)
	assert.Equal(t, SourceFallback, res.Source)

	res = ResolveOrFallback("logo", 30, "fallback/model", Overrides{}, nil)
	assert.Equal(t, "fallback/model", res.Identifier)
}

type countingSource struct {
	calls atomic.Int32
	cat   *Catalog
	err   error
}

func (s *countingSource) Fetch(ctx context.Context) (*Catalog, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.cat, nil
}

func TestCatalogCache_LoadsOnceAndKeepsStale(t *testing.T) {
	src := &countingSource{cat: fixedCatalog()}
	cache := NewCatalogCache(src, nil, time.Hour, logger.NewNopLogger())
	ctx := context.Background()

	first, err := cache.Get(ctx)
	require.NoError(t, err)
	second, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, int32(1), src.calls.Load())

	src.err = errors.New("origin down")
	refreshed, err := cache.Refresh(ctx)
	assert.ErrorContains(t, err, "origin down")
	assert.Same(t, first, refreshed)

	served, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.Same(t, first, served)
}

func TestCatalogCache_BacksOffDuringOutage(t *testing.T) {
	src := &countingSource{cat: fixedCatalog()}
	cache := NewCatalogCache(src, nil, 20*time.Millisecond, logger.NewNopLogger())
	r := NewResolver(Overrides{}, cache)
	ctx := context.Background()

	_, err := cache.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, int32(1), src.calls.Load())

	src.err = errors.New("origin down")
	time.Sleep(40 * time.Millisecond)

	for i := 0; i < 10; i++ {
		res := r.Resolve(ctx, "logo", 30, "x/y")
		assert.Equal(t, "fofr/logo-maker", res.Identifier)
	}
	// one failed fetch after expiry, then the stale snapshot is served from memory
	assert.Equal(t, int32(2), src.calls.Load())
}

func TestCatalogCache_NoSnapshotReturnsError(t *testing.T) {
	cache := NewCatalogCache(&countingSource{err: errors.New("boom")}, nil, time.Hour, logger.NewNopLogger())
	_, err := cache.Get(context.Background())
	assert.Error(t, err)
}

func TestResolver_FallsBackWhenCatalogUnavailable(t *testing.T) {
	cache := NewCatalogCache(&countingSource{err: errors.New("boom")}, nil, time.Hour, logger.NewNopLogger())
	r := NewResolver(Overrides{"ai-image-generator": "black-forest-labs/flux-schnell"}, cache)

	res := r.Resolve(context.Background(), "/api/tools/ai-image-generator", 30, "x/y")
	assert.Equal(t, "black-forest-labs/flux-schnell", res.Identifier)

	res = r.Resolve(context.Background(), "logo-generator", 30, "x/y")
	assert.Equal(t, "x/y", res.Identifier)
	assert.Equal(t, SourceFallback, res.Source)
}

func TestReplicateSource_Paginates(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("Authorization"), "tok")
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("cursor") {
		case "":
			fmt.Fprintf(w, `{"next":"%s/models?cursor=2","results":[{"owner":"a","name":"one","visibility":"public","latest_version":{"id":"v1"}},{"owner":"a","name":"hidden","visibility":"private"}]}`, srv.URL)
		case "2":
			fmt.Fprintf(w, `{"next":"%s/models?cursor=3","results":[{"owner":"b","name":"two","visibility":"public","run_count":7}]}`, srv.URL)
		default:
			fmt.Fprint(w, `{"next":null,"results":[{"owner":"c","name":"three","visibility":"public"}]}`)
		}
	}))
	defer srv.Close()

	client, err := replicate.NewClient(replicate.WithToken("tok"), replicate.WithBaseURL(srv.URL))
	require.NoError(t, err)

	cat, err := NewReplicateSource(client, 2).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, cat.Models, 2)
	assert.Equal(t, "a/one:v1", cat.Models[0].Identifier())
	assert.Equal(t, "b/two", cat.Models[1].Identifier())
	assert.Equal(t, int64(7), cat.Models[1].RunCount)
	assert.False(t, cat.RefreshedAt.IsZero())
}

func TestReplicateSource_FirstPageFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"detail":"Invalid token.","status":401}`)
	}))
	defer srv.Close()

	client, err := replicate.NewClient(replicate.WithToken("bad"), replicate.WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = NewReplicateSource(client, 2).Fetch(context.Background())
	assert.ErrorContains(t, err, "list models")
}
