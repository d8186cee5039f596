package client

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"
)

// DefaultSuggestDelay is the debounce window between keystrokes and a fetch.
const DefaultSuggestDelay = 400 * time.Millisecond

// SuggestionFetcher returns autocomplete names. *Client implements it.
type SuggestionFetcher interface {
	Suggestions(ctx context.Context, keyword string) ([]string, error)
}

// SuggesterOptions configures a Suggester.
type SuggesterOptions struct {
	Delay    time.Duration
	Logger   *slog.Logger
	OnUpdate func([]string)
}

// Suggester drives keyword autocomplete: input is debounced, a repeated query
// is not fetched again, and only the latest request may update the list.
type Suggester struct {
	fetcher  SuggestionFetcher
	delay    time.Duration
	logger   *slog.Logger
	onUpdate func([]string)
	seq      Sequencer

	mu          sync.Mutex
	timer       *time.Timer
	lastQuery   string
	suggestions []string
}

// NewSuggester creates a Suggester.
func NewSuggester(fetcher SuggestionFetcher, opts SuggesterOptions) *Suggester {
	if opts.Delay <= 0 {
		opts.Delay = DefaultSuggestDelay
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Suggester{
		fetcher:  fetcher,
		delay:    opts.Delay,
		logger:   opts.Logger,
		onUpdate: opts.OnUpdate,
	}
}

// Input records a keystroke. A non-blank value schedules a fetch after the
// debounce window; a blank one clears the list at once.
func (s *Suggester) Input(ctx context.Context, value string) {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if strings.TrimSpace(value) == "" {
		s.mu.Unlock()
		s.Clear()
		return
	}
	s.timer = time.AfterFunc(s.delay, func() {
		_, _ = s.Fetch(ctx, value)
	})
	s.mu.Unlock()
}

// Fetch loads suggestions for value now. applied is false when the result was
// discarded because a newer request was issued, or the query was unchanged.
func (s *Suggester) Fetch(ctx context.Context, value string) (suggestions []string, applied bool) {
	query := strings.TrimSpace(value)
	if query == "" {
		s.Clear()
		return nil, true
	}

	s.mu.Lock()
	if query == s.lastQuery {
		current := slices.Clone(s.suggestions)
		s.mu.Unlock()
		return current, false
	}
	s.mu.Unlock()

	ticket := s.seq.Next()
	items, err := s.fetcher.Suggestions(ctx, query)

	s.mu.Lock()
	if !s.seq.IsLatest(ticket) {
		s.mu.Unlock()
		return nil, false
	}
	if err != nil {
		s.logger.Warn("suggestions failed", "keyword", query, "error", err)
		// The typed text is still offered; lastQuery stays unset so it is retried.
		s.suggestions = []string{query}
	} else {
		s.suggestions = withInput(query, items)
		s.lastQuery = query
	}
	current := slices.Clone(s.suggestions)
	s.mu.Unlock()

	s.notify(current)
	return current, true
}

// Select accepts a suggestion: pending work is dropped and the list closes.
func (s *Suggester) Select(suggestion string) {
	s.reset(strings.TrimSpace(suggestion))
}

// Clear empties the list and forgets the last query.
func (s *Suggester) Clear() {
	s.reset("")
}

// Suggestions returns the current list.
func (s *Suggester) Suggestions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.suggestions)
}

// Close stops any scheduled fetch.
func (s *Suggester) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.seq.Invalidate()
}

func (s *Suggester) reset(lastQuery string) {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.seq.Invalidate()
	s.lastQuery = lastQuery
	s.suggestions = nil
	s.mu.Unlock()

	s.notify(nil)
}

func (s *Suggester) notify(list []string) {
	if s.onUpdate != nil {
		s.onUpdate(list)
	}
}

// withInput puts the typed text first, followed by the API items that differ
// from it ignoring case.
func withInput(input string, items []string) []string {
	out := make([]string, 0, len(items)+1)
	out = append(out, input)
	for _, item := range items {
		if strings.EqualFold(item, input) {
			continue
		}
		out = append(out, item)
	}
	return out
}
