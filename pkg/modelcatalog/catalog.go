// Package modelcatalog maps tool slugs to third-party model identifiers.
package modelcatalog

import "time"

type Source string

const (
	SourceOverride Source = "override"
	SourceCatalog  Source = "catalog"
	SourceFallback Source = "fallback"
)

// Model is one entry of a provider's public model listing.
type Model struct {
	Owner         string `json:"owner"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	LatestVersion string `json:"latest_version,omitempty"`
	RunCount      int64  `json:"run_count,omitempty"`
}

// Identifier returns owner/name, pinned to the latest version when one is known.
func (m Model) Identifier() string {
	id := m.Owner + "/" + m.Name
	if m.LatestVersion != "" {
		id += ":" + m.LatestVersion
	}
	return id
}

// Catalog is an immutable snapshot of a model listing.
type Catalog struct {
	Models      []Model   `json:"models"`
	RefreshedAt time.Time `json:"refreshed_at"`
}

func NewCatalog(models []Model, refreshedAt time.Time) *Catalog {
	return &Catalog{Models: models, RefreshedAt: refreshedAt}
}

// Age reports how old the snapshot is relative to now.
func (c *Catalog) Age(now time.Time) time.Duration {
	if c == nil || c.RefreshedAt.IsZero() {
		return 0
	}
	return now.Sub(c.RefreshedAt)
}

type Resolution struct {
	Slug       string `json:"slug"`
	Identifier string `json:"identifier"`
	Confidence int    `json:"confidence"`
	Source     Source `json:"source"`
}
