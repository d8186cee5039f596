package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Limits for favorite searches.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// SearchParams configures a favorites search.
type SearchParams struct {
	Query  string // Free text matched against name, venue and genre
	Genre  string // Exact genre filter; label or slug
	Limit  int
	Offset int
}

// Result is one page of favorite search hits.
type Result struct {
	Query string `json:"query"`
	Total uint64 `json:"total"`
	Hits  []Hit  `json:"hits"`
}

// Hit is a single matching favorite.
type Hit struct {
	EventID string  `json:"eventId"`
	Score   float64 `json:"score"`
	Name    string  `json:"name"`
	Venue   string  `json:"venue,omitempty"`
	Genre   string  `json:"genre,omitempty"`
	Date    string  `json:"date,omitempty"`
}

// Search runs params against the index. An empty query lists every favorite
// newest first; otherwise hits are ordered by relevance.
func (s *Index) Search(ctx context.Context, params SearchParams) (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit := params.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	limit = min(limit, MaxLimit)
	offset := max(params.Offset, 0)

	req := bleve.NewSearchRequestOptions(buildSearchQuery(params), limit, offset, false)
	if strings.TrimSpace(params.Query) == "" {
		req.SortBy([]string{"-created_at", "_id"})
	} else {
		req.SortBy([]string{"-_score", "-created_at"})
	}
	req.Fields = []string{"name", "venue", "genre", "date"}

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	out := &Result{
		Query: params.Query,
		Total: res.Total,
		Hits:  make([]Hit, 0, len(res.Hits)),
	}
	for _, h := range res.Hits {
		hit := Hit{EventID: h.ID, Score: h.Score}
		hit.Name, _ = h.Fields["name"].(string)
		hit.Venue, _ = h.Fields["venue"].(string)
		hit.Genre, _ = h.Fields["genre"].(string)
		hit.Date, _ = h.Fields["date"].(string)
		out.Hits = append(out.Hits, hit)
	}
	return out, nil
}

// buildSearchQuery constructs the Bleve query from params.
func buildSearchQuery(params SearchParams) query.Query {
	var queries []query.Query

	if q := strings.TrimSpace(params.Query); q != "" {
		nameMatch := bleve.NewMatchQuery(q)
		nameMatch.SetField("name")
		nameMatch.SetBoost(3.0)

		venueMatch := bleve.NewMatchQuery(q)
		venueMatch.SetField("venue")
		venueMatch.SetBoost(1.5)

		genreMatch := bleve.NewMatchQuery(q)
		genreMatch.SetField("genre")

		// Typo tolerance on the name
		fuzzy := bleve.NewFuzzyQuery(strings.ToLower(q))
		fuzzy.SetFuzziness(1)
		fuzzy.SetField("name")
		fuzzy.SetBoost(0.8)

		textQueries := []query.Query{nameMatch, venueMatch, genreMatch, fuzzy}

		// Autocomplete on the name, minimum 2 chars
		if len(q) >= 2 {
			prefix := bleve.NewPrefixQuery(strings.ToLower(q))
			prefix.SetField("name")
			prefix.SetBoost(0.5)
			textQueries = append(textQueries, prefix)
		}

		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	if slug := Slugify(params.Genre); slug != "" {
		tq := bleve.NewTermQuery(slug)
		tq.SetField("genre_slug")
		queries = append(queries, tq)
	}

	switch len(queries) {
	case 0:
		return bleve.NewMatchAllQuery()
	case 1:
		return queries[0]
	default:
		return bleve.NewConjunctionQuery(queries...)
	}
}
