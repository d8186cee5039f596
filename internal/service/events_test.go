package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventscope/eventscope-server/internal/domain"
	domainerrors "github.com/eventscope/eventscope-server/internal/errors"
	"github.com/eventscope/eventscope-server/internal/logger"
	"github.com/eventscope/eventscope-server/internal/ticketmaster"
)

type fakeEvents struct {
	calls    int
	lastArgs domain.EventSearch
	events   []domain.Event
	detail   *domain.EventDetail
	err      error
}

func (f *fakeEvents) SearchEvents(_ context.Context, params domain.EventSearch) ([]domain.Event, error) {
	f.calls++
	f.lastArgs = params
	return f.events, f.err
}

func (f *fakeEvents) Suggestions(_ context.Context, keyword string) ([]string, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []string{keyword + " live"}, nil
}

func (f *fakeEvents) EventDetail(_ context.Context, _ string) (*domain.EventDetail, error) {
	f.calls++
	return f.detail, f.err
}

func TestEventService_SearchEvents_Defaults(t *testing.T) {
	fake := &fakeEvents{events: []domain.Event{{ID: "e1", Name: "Show"}}}
	svc := NewEventService(fake, logger.Discard())

	events, err := svc.SearchEvents(context.Background(), domain.EventSearch{Keyword: "  jazz ", Lat: 34.05, Lng: -118.24})
	require.NoError(t, err)

	assert.Len(t, events, 1)
	assert.Equal(t, "jazz", fake.lastArgs.Keyword)
	assert.Equal(t, domain.CategoryAll, fake.lastArgs.Category)
	assert.Equal(t, domain.DefaultDistanceMiles, fake.lastArgs.Distance)
}

func TestEventService_SearchEvents_Validation(t *testing.T) {
	tests := []struct {
		name   string
		params domain.EventSearch
		field  string
	}{
		{"blank keyword", domain.EventSearch{Keyword: "  ", Lat: 1, Lng: 1}, "keyword"},
		{"latitude out of range", domain.EventSearch{Keyword: "x", Lat: 91, Lng: 1}, "lat"},
		{"longitude out of range", domain.EventSearch{Keyword: "x", Lat: 1, Lng: -181}, "lng"},
		{"negative distance", domain.EventSearch{Keyword: "x", Lat: 1, Lng: 1, Distance: -5}, "distance"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeEvents{}
			svc := NewEventService(fake, logger.Discard())

			_, err := svc.SearchEvents(context.Background(), tt.params)
			require.Error(t, err)

			var derr *domainerrors.Error
			require.ErrorAs(t, err, &derr)
			assert.Equal(t, domainerrors.CodeValidation, derr.Code)
			assert.Contains(t, derr.Details, tt.field)
			assert.Zero(t, fake.calls)
		})
	}
}

func TestEventService_ErrorTranslation(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   domainerrors.Code
		wantStatus int
	}{
		{"missing key", &ticketmaster.Error{Op: "search", Err: ticketmaster.ErrNotConfigured}, domainerrors.CodeConfiguration, http.StatusInternalServerError},
		{"not found", &ticketmaster.Error{Op: "detail", Status: 404, Err: ticketmaster.ErrNotFound}, domainerrors.CodeNotFound, http.StatusNotFound},
		{"server error", &ticketmaster.Error{Op: "detail", Status: 502, Err: ticketmaster.ErrServer}, domainerrors.CodeUpstream, http.StatusInternalServerError},
		{"transport", errors.New("dial tcp: refused"), domainerrors.CodeUpstream, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewEventService(&fakeEvents{err: tt.err}, logger.Discard())

			_, err := svc.EventDetail(context.Background(), "G5v")
			var derr *domainerrors.Error
			require.ErrorAs(t, err, &derr)
			assert.Equal(t, tt.wantCode, derr.Code)
			assert.Equal(t, tt.wantStatus, derr.HTTPStatus())
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestEventService_ProviderNotFoundOnlyMeansMissingEvent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	tm := ticketmaster.New(ticketmaster.Config{APIKey: "key", BaseURL: server.URL}, logger.Discard())
	t.Cleanup(tm.Close)
	svc := NewEventService(tm, logger.Discard())
	ctx := context.Background()

	assertCode := func(t *testing.T, err error, code domainerrors.Code, status int) {
		t.Helper()
		var derr *domainerrors.Error
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, code, derr.Code)
		assert.Equal(t, status, derr.HTTPStatus())
	}

	_, err := svc.SearchEvents(ctx, domain.EventSearch{Keyword: "jazz", Lat: 1, Lng: 1})
	assertCode(t, err, domainerrors.CodeUpstream, http.StatusInternalServerError)
	assert.Contains(t, err.Error(), "404")

	_, err = svc.Suggestions(ctx, "jazz")
	assertCode(t, err, domainerrors.CodeUpstream, http.StatusInternalServerError)

	_, err = svc.EventDetail(ctx, "vvG1")
	assertCode(t, err, domainerrors.CodeNotFound, http.StatusNotFound)
}

func TestEventService_UpstreamMessageCarriesStatus(t *testing.T) {
	svc := NewEventService(&fakeEvents{err: &ticketmaster.Error{Op: "search", Status: 503, Err: ticketmaster.ErrServer}}, logger.Discard())

	_, err := svc.SearchEvents(context.Background(), domain.EventSearch{Keyword: "x", Lat: 1, Lng: 1})

	var derr *domainerrors.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "Ticketmaster request failed with status 503", derr.Message)
}

func TestEventService_BlankInputsSkipProvider(t *testing.T) {
	fake := &fakeEvents{}
	svc := NewEventService(fake, logger.Discard())

	_, err := svc.Suggestions(context.Background(), " ")
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = svc.EventDetail(context.Background(), "")
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	assert.Zero(t, fake.calls)
}

func TestEventService_Suggestions(t *testing.T) {
	svc := NewEventService(&fakeEvents{}, logger.Discard())

	got, err := svc.Suggestions(context.Background(), " taylor ")
	require.NoError(t, err)
	assert.Equal(t, []string{"taylor live"}, got)
}
