package validation_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/eventscope/eventscope-server/internal/errors"
	"github.com/eventscope/eventscope-server/internal/validation"
)

type favoriteRequest struct {
	ID    string `json:"id" validate:"notblank"`
	Name  string `json:"name" validate:"notblank,max=512"`
	Image string `json:"image,omitempty" validate:"omitempty,url"`
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	err := v.Validate(favoriteRequest{ID: "vvG1", Name: "Tame Impala", Image: "https://img.example.com/a.jpg"})
	assert.NoError(t, err)
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name      string
		req       favoriteRequest
		wantField string
		wantMsg   string
	}{
		{"missing id", favoriteRequest{Name: "Show"}, "id", "is required"},
		{"blank name", favoriteRequest{ID: "x", Name: "   "}, "name", "is required"},
		{"bad image url", favoriteRequest{ID: "x", Name: "Show", Image: "not a url"}, "image", "must be a valid URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			require.Error(t, err)

			var domainErr *domainerrors.Error
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus())

			details, ok := domainErr.Details.(map[string]string)
			require.True(t, ok)
			assert.Equal(t, tt.wantMsg, details[tt.wantField])
		})
	}
}
