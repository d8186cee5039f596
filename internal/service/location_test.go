package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventscope/eventscope-server/internal/domain"
	domainerrors "github.com/eventscope/eventscope-server/internal/errors"
	"github.com/eventscope/eventscope-server/internal/geo"
	"github.com/eventscope/eventscope-server/internal/logger"
)

type fakeGeo struct {
	geocodeErr error
	locateErr  error
	lastIP     string
}

func (f *fakeGeo) Geocode(_ context.Context, address string) (*domain.GeoLocation, error) {
	if f.geocodeErr != nil {
		return nil, f.geocodeErr
	}
	return &domain.GeoLocation{Lat: 34.05, Lng: -118.24, FormattedAddress: address + ", USA"}, nil
}

func (f *fakeGeo) Locate(_ context.Context, ip string) (*domain.IPLocation, error) {
	f.lastIP = ip
	if f.locateErr != nil {
		return nil, f.locateErr
	}
	return &domain.IPLocation{City: "Los Angeles", Region: "California", Label: "Los Angeles, California"}, nil
}

func TestLocationService_Geocode(t *testing.T) {
	svc := NewLocationService(&fakeGeo{}, logger.Discard())

	loc, err := svc.Geocode(context.Background(), " Los Angeles ")
	require.NoError(t, err)
	assert.Equal(t, "Los Angeles, USA", loc.FormattedAddress)

	_, err = svc.Geocode(context.Background(), "")
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestLocationService_ErrorTranslation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want domainerrors.Code
	}{
		{"missing key", &geo.Error{Op: "geocode", Provider: "google", Err: geo.ErrNotConfigured}, domainerrors.CodeConfiguration},
		{"zero results", &geo.Error{Op: "geocode", Provider: "google", Status: 200, Err: geo.ErrNoResults}, domainerrors.CodeNotFound},
		{"denied", &geo.Error{Op: "geocode", Provider: "google", Status: 200, Err: geo.ErrDenied}, domainerrors.CodeUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewLocationService(&fakeGeo{geocodeErr: tt.err}, logger.Discard())
			_, err := svc.Geocode(context.Background(), "nowhere")
			assert.Equal(t, tt.want, domainerrors.CodeOf(err))
		})
	}
}

func TestLocationService_Locate(t *testing.T) {
	fake := &fakeGeo{}
	svc := NewLocationService(fake, logger.Discard())

	loc, err := svc.Locate(context.Background(), "8.8.8.8")
	require.NoError(t, err)
	assert.Equal(t, "8.8.8.8", fake.lastIP)
	assert.Equal(t, "Los Angeles, California", loc.Label)

	fake.locateErr = &geo.Error{Op: "locate", Provider: "ipinfo", Status: 503, Err: geo.ErrServer}
	_, err = svc.Locate(context.Background(), "")
	var derr *domainerrors.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "IPinfo request failed with status 503", derr.Message)
}
