package modelcatalog

import (
	"strings"

	"github.com/gosimple/slug"
)

const (
	scoreExactName    = 100
	scoreExactOwner   = 95
	scoreContains     = 70
	scoreOverlapScale = 60
	scoreDescBonus    = 10
	scoreMax          = 100
)

// Score rates how well model m matches a tool slug, 0 to 100.
func Score(toolSlug string, m Model) int {
	want := slug.Make(StripPrefix(toolSlug))
	if want == "" {
		return 0
	}
	name := slug.Make(m.Name)
	full := slug.Make(m.Owner) + "/" + name

	var score int
	switch {
	case name == want:
		score = scoreExactName
	case full == want || strings.ReplaceAll(full, "/", "-") == want:
		score = scoreExactOwner
	case name != "" && (strings.Contains(name, want) || strings.Contains(want, name)):
		score = scoreContains
	default:
		score = overlap(want, name, slug.Make(m.Owner))
	}

	if score < scoreMax && describes(m.Description, want) {
		score += scoreDescBonus
	}
	if score > scoreMax {
		score = scoreMax
	}
	return score
}

// overlap is the share of slug tokens found among the model's owner and name tokens, scaled to 60.
func overlap(want, name, owner string) int {
	wantTokens := strings.Split(want, "-")
	have := make(map[string]struct{})
	for _, t := range strings.Split(name, "-") {
		have[t] = struct{}{}
	}
	for _, t := range strings.Split(owner, "-") {
		have[t] = struct{}{}
	}

	var hits int
	for _, t := range wantTokens {
		if _, ok := have[t]; ok && t != "" {
			hits++
		}
	}
	return hits * scoreOverlapScale / len(wantTokens)
}

func describes(description, want string) bool {
	if description == "" {
		return false
	}
	desc := slug.Make(description)
	for _, t := range strings.Split(want, "-") {
		if !strings.Contains(desc, t) {
			return false
		}
	}
	return true
}

// Best returns the highest scoring model of the catalog. Ties go to the most-run model.
func Best(toolSlug string, catalog *Catalog) (Model, int, bool) {
	if catalog == nil || len(catalog.Models) == 0 {
		return Model{}, 0, false
	}

	var (
		best      Model
		bestScore = -1
	)
	for _, m := range catalog.Models {
		s := Score(toolSlug, m)
		if s > bestScore || (s == bestScore && m.RunCount > best.RunCount) {
			best, bestScore = m, s
		}
	}
	return best, bestScore, true
}
