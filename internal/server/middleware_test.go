package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Toufik-CHAARI/Front-Semantic-Image-Segmentation/internal/correlation"
)

func TestCorrelationMiddlewareAttachesID(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotID string
	var gotOK bool
	handler := correlationMiddleware(func(c echo.Context) error {
		gotID, gotOK = correlation.ID(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})

	err := handler(c)

	require.NoError(t, err)
	assert.True(t, gotOK)
	assert.Len(t, gotID, 8)
}

func TestCorrelationMiddlewareUniquePerRequest(t *testing.T) {
	e := echo.New()

	ids := make(map[string]struct{})
	handler := correlationMiddleware(func(c echo.Context) error {
		id, _ := correlation.ID(c.Request().Context())
		ids[id] = struct{}{}
		return c.NoContent(http.StatusOK)
	})

	for i := 0; i < 10; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		require.NoError(t, handler(e.NewContext(req, rec)))
	}

	assert.Len(t, ids, 10)
}
