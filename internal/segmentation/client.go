package segmentation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	_ "image/jpeg"
	_ "image/png"

	"github.com/Toufik-CHAARI/Front-Semantic-Image-Segmentation/internal/domain"
	"github.com/Toufik-CHAARI/Front-Semantic-Image-Segmentation/internal/metrics"
)

const (
	healthEndpoint  = "/"
	segmentEndpoint = "/api/segment"

	uploadField          = "file"
	statsHeader          = "x-image-stats"
	processingTimeHeader = "x-processing-time"

	defaultUploadName = "image.png"
)

// Client is the HTTP client for the remote segmentation API.
// It implements domain.SegmentationService.
type Client struct {
	baseURL       string
	predictClient *http.Client
	healthClient  *http.Client
}

// NewClient creates a segmentation API client. requestTimeout bounds
// prediction calls, healthTimeout bounds health probes.
func NewClient(baseURL string, requestTimeout, healthTimeout time.Duration) *Client {
	return &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		predictClient: &http.Client{Timeout: requestTimeout},
		healthClient:  &http.Client{Timeout: healthTimeout},
	}
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Health reports whether the API answers its root endpoint with HTTP 200
// within the health timeout. Any failure counts as unhealthy; it never
// returns an error.
func (c *Client) Health(ctx context.Context) bool {
	healthy := c.probe(ctx)
	if healthy {
		metrics.APIHealthUp.Set(1)
	} else {
		metrics.APIHealthUp.Set(0)
	}
	return healthy
}

func (c *Client) probe(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+healthEndpoint, nil)
	if err != nil {
		return false
	}

	start := time.Now()
	resp, err := c.healthClient.Do(req)
	metrics.APIRequestDuration.WithLabelValues("health").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues("health", "error").Inc()
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	metrics.APIRequestsTotal.WithLabelValues("health", strconv.Itoa(resp.StatusCode)).Inc()
	return resp.StatusCode == http.StatusOK
}

// Predict sends an image to the API as a multipart upload and returns the
// predicted mask together with per-class stats and the processing time the
// API reports. Transport failures map to domain.ErrAPITimeout or
// domain.ErrAPIUnreachable; an undecodable mask maps to domain.ErrBadResponse.
func (c *Client) Predict(ctx context.Context, imageBytes []byte, filename string) (*domain.Prediction, error) {
	if filename == "" {
		filename = defaultUploadName
	}

	body, contentType, err := encodeUpload(imageBytes, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to encode upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+segmentEndpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create predict request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	start := time.Now()
	resp, err := c.predictClient.Do(req)
	metrics.APIRequestDuration.WithLabelValues("segment").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues("segment", "error").Inc()
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	metrics.APIRequestsTotal.WithLabelValues("segment", strconv.Itoa(resp.StatusCode)).Inc()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransportError(err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusInternalServerError:
		return nil, fmt.Errorf("%w: server error (500): %s", domain.ErrAPIFailure, strings.TrimSpace(string(respBody)))
	default:
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrAPIFailure, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(respBody))
	if err != nil {
		return nil, fmt.Errorf("%w: body is not a decodable image", domain.ErrBadResponse)
	}

	return &domain.Prediction{
		Mask: domain.ImageData{
			Bytes:  respBody,
			Width:  cfg.Width,
			Height: cfg.Height,
			Format: format,
		},
		Stats:          parseStats(ctx, resp.Header.Get(statsHeader)),
		ProcessingTime: resp.Header.Get(processingTimeHeader),
	}, nil
}

// classifyTransportError distinguishes timeouts from connection failures so
// callers can tell the user which one happened.
func classifyTransportError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %v", domain.ErrAPITimeout, err)
	}
	return fmt.Errorf("%w: %v", domain.ErrAPIUnreachable, err)
}

// encodeUpload builds the multipart body the API expects: a single "file"
// part carrying the image with an image/png content type.
func encodeUpload(imageBytes []byte, filename string) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, uploadField, filename))
	header.Set("Content-Type", "image/png")

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form part: %w", err)
	}
	if _, err := part.Write(imageBytes); err != nil {
		return nil, "", fmt.Errorf("failed to write form part: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize form: %w", err)
	}

	return &buf, writer.FormDataContentType(), nil
}

// parseStats decodes the x-image-stats header. A missing or unparseable
// header degrades to nil stats; the prediction itself still succeeds.
func parseStats(ctx context.Context, raw string) map[string]domain.ClassStat {
	if raw == "" {
		return nil
	}

	var stats map[string]domain.ClassStat
	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		slog.WarnContext(ctx, "Failed to parse image stats header", "error", err)
		return nil
	}
	return stats
}
