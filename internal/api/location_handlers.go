package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/eventscope/eventscope-server/internal/domain"
)

func (s *Server) registerLocationRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "geocode",
		Method:      http.MethodGet,
		Path:        "/api/location/geocode",
		Summary:     "Geocode address",
		Description: "Resolves a free-form address to coordinates",
		Tags:        []string{"Location"},
	}, s.handleGeocode)

	huma.Register(s.api, huma.Operation{
		OperationID: "locateClient",
		Method:      http.MethodGet,
		Path:        "/api/location/ip",
		Summary:     "Locate caller",
		Description: "Approximates the caller's location from their IP address",
		Tags:        []string{"Location"},
	}, s.handleLocateClient)
}

// GeocodeInput contains the address to resolve.
type GeocodeInput struct {
	Address string `query:"address" required:"true" doc:"Free-form address"`
}

// GeocodeOutput contains the resolved location.
type GeocodeOutput struct {
	Body *domain.GeoLocation
}

// LocateOutput contains the approximate caller location.
type LocateOutput struct {
	Body *domain.IPLocation
}

func (s *Server) handleGeocode(ctx context.Context, input *GeocodeInput) (*GeocodeOutput, error) {
	loc, err := s.services.Locations.Geocode(ctx, input.Address)
	if err != nil {
		return nil, err
	}
	return &GeocodeOutput{Body: loc}, nil
}

func (s *Server) handleLocateClient(ctx context.Context, _ *struct{}) (*LocateOutput, error) {
	loc, err := s.services.Locations.Locate(ctx, clientIPFromContext(ctx))
	if err != nil {
		return nil, err
	}
	return &LocateOutput{Body: loc}, nil
}
