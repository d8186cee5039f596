package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/eventscope/eventscope-server/internal/domain"
	domainerrors "github.com/eventscope/eventscope-server/internal/errors"
)

// LocationProvider resolves addresses and client IPs to coordinates.
type LocationProvider interface {
	Geocode(ctx context.Context, address string) (*domain.GeoLocation, error)
	Locate(ctx context.Context, ip string) (*domain.IPLocation, error)
}

// LocationService proxies geocoding and IP lookup so provider keys stay on
// the server.
type LocationService struct {
	geo    LocationProvider
	logger *slog.Logger
}

// NewLocationService creates a new location service.
func NewLocationService(geo LocationProvider, logger *slog.Logger) *LocationService {
	return &LocationService{geo: geo, logger: logger}
}

// Geocode resolves a free-form address.
func (s *LocationService) Geocode(ctx context.Context, address string) (*domain.GeoLocation, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, domainerrors.ValidationWithDetails("validation failed", map[string]string{"address": "is required"})
	}

	loc, err := s.geo.Geocode(ctx, address)
	if err != nil {
		return nil, geoError(err)
	}
	return loc, nil
}

// Locate approximates the location of ip. Private or empty addresses resolve
// to the server's own public address.
func (s *LocationService) Locate(ctx context.Context, ip string) (*domain.IPLocation, error) {
	loc, err := s.geo.Locate(ctx, ip)
	if err != nil {
		return nil, geoError(err)
	}
	return loc, nil
}
