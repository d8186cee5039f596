package ticketmaster

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventscope/eventscope-server/internal/domain"
	"github.com/eventscope/eventscope-server/internal/logger"
)

func newTestClient(t *testing.T, apiKey string, handler http.HandlerFunc) (*Client, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	client := New(Config{APIKey: apiKey, BaseURL: server.URL}, logger.Discard())
	t.Cleanup(client.Close)
	return client, &hits
}

func TestClient_MissingKeyFailsBeforeNetwork(t *testing.T) {
	client, hits := newTestClient(t, "", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	ctx := context.Background()

	_, err := client.SearchEvents(ctx, domain.EventSearch{Keyword: "jazz"})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = client.Suggestions(ctx, "jazz")
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = client.EventDetail(ctx, "vvG1")
	assert.ErrorIs(t, err, ErrNotConfigured)

	assert.Equal(t, int32(0), hits.Load())
	assert.False(t, client.Configured())
}

func TestClient_SearchEventsQuery(t *testing.T) {
	tests := []struct {
		name         string
		category     string
		wantCategory string
	}{
		{"all omits classification", domain.CategoryAll, ""},
		{"empty omits classification", "", ""},
		{"specific category is sent", "Music", "Music"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, "k1", func(w http.ResponseWriter, r *http.Request) {
				q := r.URL.Query()
				assert.Equal(t, "/events.json", r.URL.Path)
				assert.Equal(t, "k1", q.Get("apikey"))
				assert.Equal(t, "jazz", q.Get("keyword"))
				assert.Equal(t, "25", q.Get("radius"))
				assert.Equal(t, "miles", q.Get("unit"))
				assert.Equal(t, "30.2672,-97.7431", q.Get("latlong"))
				assert.Equal(t, tt.wantCategory, q.Get("classificationName"))
				assert.Equal(t, tt.wantCategory != "", q.Has("classificationName"))

				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"_embedded":{"events":[{"id":"vvG1","name":"Jazz Night"}]}}`))
			})

			events, err := client.SearchEvents(context.Background(), domain.EventSearch{
				Keyword: "jazz", Category: tt.category, Lat: 30.2672, Lng: -97.7431, Distance: 25,
			})
			require.NoError(t, err)
			require.Len(t, events, 1)
			assert.Equal(t, "Jazz Night", events[0].Name)
		})
	}
}

func TestClient_SearchEventsWithoutEmbedded(t *testing.T) {
	client, _ := newTestClient(t, "k1", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"page":{"size":20,"totalElements":0}}`))
	})

	events, err := client.SearchEvents(context.Background(), domain.EventSearch{Keyword: "zzz", Distance: 10})
	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}

func TestClient_UpstreamStatus(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		wantErr    error
	}{
		{"rate limited", http.StatusTooManyRequests, ErrRateLimited},
		{"server error", http.StatusBadGateway, ErrServer},
		{"bad request", http.StatusBadRequest, ErrBadRequest},
		{"unauthorized", http.StatusUnauthorized, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, "k1", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.statusCode)
			})

			_, err := client.Suggestions(context.Background(), "ad")
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Equal(t, tt.statusCode, StatusOf(err))

			var tmErr *Error
			require.True(t, errors.As(err, &tmErr))
			assert.Equal(t, "suggest", tmErr.Op)
		})
	}
}

func TestClient_EventDetail(t *testing.T) {
	client, _ := newTestClient(t, "k1", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/events/vvG1":
			_, _ = w.Write([]byte(`{"id":"vvG1","name":"Show","classifications":[{"segment":{"name":"Music"},"genre":{"name":"Rock"}}]}`))
		case "/events/empty":
			_, _ = w.Write([]byte(`{}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	detail, err := client.EventDetail(ctx, "vvG1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Music", "Rock"}, detail.Genres)
	assert.Nil(t, detail.Venue)

	_, err = client.EventDetail(ctx, "empty")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = client.EventDetail(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, http.StatusNotFound, StatusOf(err))
}

func TestClient_MalformedBody(t *testing.T) {
	client, _ := newTestClient(t, "k1", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	_, err := client.Suggestions(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse response")
}
