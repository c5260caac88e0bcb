package modelcatalog

import (
	"context"
	"fmt"
	"time"

	"github.com/replicate/replicate-go"
)

// ReplicateSource pages through the public Replicate model listing.
type ReplicateSource struct {
	client   *replicate.Client
	maxPages int
}

func NewReplicateSource(client *replicate.Client, maxPages int) *ReplicateSource {
	if maxPages <= 0 {
		maxPages = 5
	}
	return &ReplicateSource{client: client, maxPages: maxPages}
}

// Fetch reads at most maxPages pages. A failure after the first page keeps what was read.
func (s *ReplicateSource) Fetch(ctx context.Context) (*Catalog, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	first, err := s.client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	models := appendPublic(nil, first.Results)

	if s.maxPages > 1 && first.Next != nil {
		pages, errs := replicate.Paginate(ctx, s.client, &replicate.Page[replicate.Model]{Next: first.Next})
		fetched := 1
		for pages != nil {
			select {
			case batch, ok := <-pages:
				if !ok {
					pages = nil
					continue
				}
				if len(batch) == 0 || fetched >= s.maxPages {
					continue
				}
				fetched++
				models = appendPublic(models, batch)
				if fetched >= s.maxPages {
					cancel()
				}
			case _, ok := <-errs:
				if !ok {
					errs = nil
					continue
				}
				cancel()
			}
		}
	}

	return NewCatalog(models, time.Now()), nil
}

func appendPublic(models []Model, results []replicate.Model) []Model {
	for _, r := range results {
		if r.Visibility != "" && r.Visibility != "public" {
			continue
		}
		m := Model{
			Owner:       r.Owner,
			Name:        r.Name,
			Description: r.Description,
			RunCount:    int64(r.RunCount),
		}
		if r.LatestVersion != nil {
			m.LatestVersion = r.LatestVersion.ID
		}
		models = append(models, m)
	}
	return models
}
