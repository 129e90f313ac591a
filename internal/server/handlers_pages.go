package server

import (
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"mime/multipart"
	"sort"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Toufik-CHAARI/Front-Semantic-Image-Segmentation/internal/domain"
)

const sampleGallerySize = 6

// indexView feeds the index template. It is rebuilt per request; nothing in
// it survives past the response.
type indexView struct {
	APIHealthy   bool
	DataReady    bool
	DataProblems []string
	Error        string
	CSRFToken    string

	ImageIDs   []string
	ImageCount int
	Samples    []string

	APIBaseURL    string
	MaxFileSizeMB int
	AWSRegion     string
	DVCS3Bucket   string
	Stats         domain.DatasetStats

	Result *resultView
}

type resultView struct {
	RequestID string
	ImageID   string
	Source    string
	Width     int
	Height    int
	FileSize  int64

	OriginalURI    template.URL
	GroundTruthURI template.URL
	MaskURI        template.URL

	MaskDownloadName string
	Classes          []classRow
	ProcessingTime   string
	Elapsed          string
}

type classRow struct {
	Label      string
	Percentage float64
	PixelCount int64
}

func (s *Server) handleIndex(c echo.Context) error {
	return s.renderIndex(c, "", nil)
}

// handlePredict runs one prediction end to end and re-renders the index page
// with either a result section or an error banner. Prediction failures never
// escape as HTTP errors; the page stays interactive.
func (s *Server) handlePredict(c echo.Context) error {
	ctx := c.Request().Context()

	var (
		comparison *domain.Comparison
		err        error
	)

	if file, ferr := c.FormFile("file"); ferr == nil && file != nil && file.Filename != "" {
		var data []byte
		data, err = readUpload(file)
		if err == nil {
			comparison, err = s.app.PredictUpload(ctx, file.Filename, data)
		}
	} else {
		imageID := strings.TrimSpace(c.FormValue("image_id"))
		if imageID == "" {
			return s.renderIndex(c, "Choose a dataset image or upload a file first.", nil)
		}
		comparison, err = s.app.PredictDataset(ctx, imageID)
	}

	if err != nil {
		slog.WarnContext(ctx, "Prediction failed", "error", err)
		return s.renderIndex(c, s.errorBanner(err), nil)
	}

	return s.renderIndex(c, "", newResultView(comparison))
}

func (s *Server) renderIndex(c echo.Context, banner string, result *resultView) error {
	env := s.app.CheckEnvironment(c.Request().Context())
	ids := s.app.AvailableImages()

	token, _ := c.Get("csrf").(string)

	view := indexView{
		APIHealthy:    env.APIHealthy,
		DataReady:     env.DataReady,
		DataProblems:  env.DataProblems,
		Error:         banner,
		CSRFToken:     token,
		ImageIDs:      ids,
		ImageCount:    len(ids),
		Samples:       s.app.SampleImages(sampleGallerySize),
		APIBaseURL:    s.config.APIBaseURL,
		MaxFileSizeMB: s.config.MaxFileSizeMB,
		AWSRegion:     s.config.AWSRegion,
		DVCS3Bucket:   s.config.DVCS3Bucket,
		Stats:         s.app.DatasetStats(),
		Result:        result,
	}

	return s.renderTemplate(c, "index.html", view)
}

// errorBanner translates domain errors into the message shown to the user.
func (s *Server) errorBanner(err error) string {
	switch {
	case errors.Is(err, domain.ErrAPITimeout):
		return "The segmentation request timed out. The API may be overloaded; try again in a moment."
	case errors.Is(err, domain.ErrAPIUnreachable):
		return fmt.Sprintf("Could not reach the segmentation API at %s.", s.config.APIBaseURL)
	case errors.Is(err, domain.ErrBadResponse):
		return "The segmentation API returned something that is not a mask image."
	case errors.Is(err, domain.ErrAPIFailure):
		return "The segmentation API reported an error while processing the image."
	case errors.Is(err, domain.ErrImageNotFound):
		return "That image is not in the dataset anymore. Refresh the page and pick another one."
	case errors.Is(err, domain.ErrNotAnImage):
		return "The uploaded file is not a decodable PNG or JPEG image."
	case errors.Is(err, domain.ErrUnsupportedExt):
		return "Unsupported file type. Upload a .png, .jpg, or .jpeg image."
	case errors.Is(err, domain.ErrImageTooLarge):
		return fmt.Sprintf("The image is too large. The limit is %d MB.", s.config.MaxFileSizeMB)
	}
	return "Something went wrong while running the prediction."
}

func newResultView(comparison *domain.Comparison) *resultView {
	view := &resultView{
		RequestID:        comparison.RequestID,
		ImageID:          comparison.ImageID,
		Source:           string(comparison.Source),
		Width:            comparison.Original.Width,
		Height:           comparison.Original.Height,
		FileSize:         comparison.FileSize,
		OriginalURI:      dataURI(comparison.Original),
		MaskDownloadName: fmt.Sprintf("mask_%s.png", comparison.ImageID),
		Elapsed:          comparison.Elapsed.Round(time.Millisecond).String(),
	}

	if comparison.GroundTruth != nil {
		view.GroundTruthURI = dataURI(*comparison.GroundTruth)
	}

	if comparison.Prediction != nil {
		view.MaskURI = dataURI(comparison.Prediction.Mask)
		view.ProcessingTime = comparison.Prediction.ProcessingTime
		view.Classes = classRows(comparison.Prediction.Stats)
	}

	return view
}

// classRows orders per-class stats by coverage, largest first, so the table
// is stable across renders.
func classRows(stats map[string]domain.ClassStat) []classRow {
	rows := make([]classRow, 0, len(stats))
	for label, stat := range stats {
		rows = append(rows, classRow{
			Label:      label,
			Percentage: stat.Percentage,
			PixelCount: stat.PixelCount,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Percentage != rows[j].Percentage {
			return rows[i].Percentage > rows[j].Percentage
		}
		return rows[i].Label < rows[j].Label
	})

	return rows
}

// dataURI embeds an image into the page so no result bytes are kept
// server-side after the response is written. template.URL keeps the data:
// scheme from being filtered out of src attributes.
func dataURI(img domain.ImageData) template.URL {
	format := img.Format
	if format == "" {
		format = "png"
	}
	return template.URL("data:image/" + format + ";base64," + base64.StdEncoding.EncodeToString(img.Bytes))
}

func readUpload(file *multipart.FileHeader) ([]byte, error) {
	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	return data, nil
}
