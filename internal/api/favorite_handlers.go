package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/eventscope/eventscope-server/internal/domain"
)

func (s *Server) registerFavoriteRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listFavorites",
		Method:      http.MethodGet,
		Path:        "/api/favorites",
		Summary:     "List favorites",
		Description: "Returns every saved event, oldest first",
		Tags:        []string{"Favorites"},
	}, s.handleListFavorites)

	huma.Register(s.api, huma.Operation{
		OperationID:   "addFavorite",
		Method:        http.MethodPost,
		Path:          "/api/favorites",
		Summary:       "Add favorite",
		Description:   "Saves an event. Saving an id again updates its fields and keeps the original createdAt",
		Tags:          []string{"Favorites"},
		DefaultStatus: http.StatusCreated,
	}, s.handleAddFavorite)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchFavorites",
		Method:      http.MethodGet,
		Path:        "/api/favorites/search",
		Summary:     "Search favorites",
		Description: "Full-text search over saved events with an optional genre filter",
		Tags:        []string{"Favorites"},
	}, s.handleSearchFavorites)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeFavorite",
		Method:      http.MethodDelete,
		Path:        "/api/favorites/{id}",
		Summary:     "Remove favorite",
		Description: "Removes a saved event. Removing an unknown id succeeds with removed: null",
		Tags:        []string{"Favorites"},
	}, s.handleRemoveFavorite)
}

// === DTOs ===

// ListFavoritesOutput contains all favorites.
type ListFavoritesOutput struct {
	Body []domain.FavoriteEvent
}

// AddFavoriteInput contains the event to save.
type AddFavoriteInput struct {
	Body domain.FavoriteInput
}

// AddFavoriteOutput is 201 for a new favorite and 200 for an update.
type AddFavoriteOutput struct {
	Status int
	Body   domain.FavoriteEvent
}

// SearchFavoritesInput contains favorite search parameters.
type SearchFavoritesInput struct {
	Query string `query:"q" doc:"Free text matched against name, venue and genre"`
	Genre string `query:"genre" doc:"Genre filter; All or empty for none"`
	Limit int    `query:"limit" default:"20" minimum:"1" maximum:"100"`
}

// RemoveFavoriteInput contains the event id to remove.
type RemoveFavoriteInput struct {
	ID string `path:"id" doc:"External event id"`
}

// RemoveFavoriteResponse contains the removed favorite.
type RemoveFavoriteResponse struct {
	Removed *domain.FavoriteEvent `json:"removed" doc:"The removed favorite, or null when there was none"`
}

// RemoveFavoriteOutput wraps the remove response for Huma.
type RemoveFavoriteOutput struct {
	Body RemoveFavoriteResponse
}

// === Handlers ===

func (s *Server) handleListFavorites(ctx context.Context, _ *struct{}) (*ListFavoritesOutput, error) {
	favs, err := s.services.Favorites.List(ctx)
	if err != nil {
		return nil, err
	}
	return &ListFavoritesOutput{Body: favs}, nil
}

func (s *Server) handleAddFavorite(ctx context.Context, input *AddFavoriteInput) (*AddFavoriteOutput, error) {
	fav, created, err := s.services.Favorites.Add(ctx, input.Body)
	if err != nil {
		return nil, err
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return &AddFavoriteOutput{Status: status, Body: fav}, nil
}

func (s *Server) handleSearchFavorites(ctx context.Context, input *SearchFavoritesInput) (*ListFavoritesOutput, error) {
	favs, err := s.services.Favorites.Search(ctx, input.Query, input.Genre, input.Limit)
	if err != nil {
		return nil, err
	}
	return &ListFavoritesOutput{Body: favs}, nil
}

func (s *Server) handleRemoveFavorite(ctx context.Context, input *RemoveFavoriteInput) (*RemoveFavoriteOutput, error) {
	removed, err := s.services.Favorites.Remove(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &RemoveFavoriteOutput{Body: RemoveFavoriteResponse{Removed: removed}}, nil
}
