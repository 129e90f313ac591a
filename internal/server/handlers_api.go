package server

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) registerAPIRoutes() {
	s.echo.GET("/api/images", s.handleListImages)
	s.echo.GET("/api/images/:id", s.handleImageInfo)
	s.echo.GET("/api/dataset/stats", s.handleDatasetStats)
}

func (s *Server) handleListImages(c echo.Context) error {
	ids := s.app.AvailableImages()

	response := map[string]any{
		"images": ids,
		"count":  len(ids),
	}
	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleImageInfo(c echo.Context) error {
	info, err := s.app.ImageInfo(c.Param("id"))
	if err != nil {
		return err
	}

	if err := c.JSON(http.StatusOK, info); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleDatasetStats(c echo.Context) error {
	if err := c.JSON(http.StatusOK, s.app.DatasetStats()); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}
