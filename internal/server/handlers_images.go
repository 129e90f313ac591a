package server

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfnt/resize"

	_ "image/jpeg"

	"github.com/Toufik-CHAARI/Front-Semantic-Image-Segmentation/internal/domain"
	apperrors "github.com/Toufik-CHAARI/Front-Semantic-Image-Segmentation/internal/errors"
)

const thumbnailWidth = 192

func (s *Server) registerImageRoutes() {
	s.echo.GET("/images/:id", s.handleImage)
	s.echo.GET("/images/:id/thumbnail", s.handleThumbnail)
	s.echo.GET("/ground-truth/:id", s.handleGroundTruth)
}

func (s *Server) handleImage(c echo.Context) error {
	img, err := s.app.LoadDatasetImage(c.Param("id"))
	if err != nil {
		return err
	}
	return s.sendImage(c, img)
}

func (s *Server) handleGroundTruth(c echo.Context) error {
	img, err := s.app.LoadGroundTruth(c.Param("id"))
	if err != nil {
		return err
	}
	return s.sendImage(c, img)
}

// handleThumbnail serves a downscaled preview for the sample gallery so the
// index page does not pull full-resolution dataset images.
func (s *Server) handleThumbnail(c echo.Context) error {
	data, err := s.app.LoadDatasetImage(c.Param("id"))
	if err != nil {
		return err
	}

	decoded, _, err := image.Decode(bytes.NewReader(data.Bytes))
	if err != nil {
		return apperrors.InternalError("failed to decode image for thumbnail", err).
			WithField("image_id", c.Param("id"))
	}

	thumbnail := resize.Resize(thumbnailWidth, 0, decoded, resize.Lanczos3)

	var buf bytes.Buffer
	if err := png.Encode(&buf, thumbnail); err != nil {
		return apperrors.InternalError("failed to encode thumbnail", err).
			WithField("image_id", c.Param("id"))
	}

	if err := c.Blob(http.StatusOK, "image/png", buf.Bytes()); err != nil {
		return fmt.Errorf("failed to send thumbnail: %w", err)
	}
	return nil
}

func (s *Server) sendImage(c echo.Context, img *domain.ImageData) error {
	contentType := "image/png"
	if img.Format == "jpeg" {
		contentType = "image/jpeg"
	}
	if err := c.Blob(http.StatusOK, contentType, img.Bytes); err != nil {
		return fmt.Errorf("failed to send image: %w", err)
	}
	return nil
}
