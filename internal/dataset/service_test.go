package dataset

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Toufik-CHAARI/Front-Semantic-Image-Segmentation/internal/domain"
)

func writePNG(t *testing.T, dir, name string, width, height int) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		img.Set(x, 0, color.RGBA{R: uint8(x), A: 255})
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), buf.Bytes(), 0o644))
}

func newTestService(t *testing.T) (*Service, string, string) {
	t.Helper()

	imagesDir := t.TempDir()
	groundTruthDir := t.TempDir()
	return NewService(imagesDir, groundTruthDir), imagesDir, groundTruthDir
}

func TestListImageIDs(t *testing.T) {
	svc, imagesDir, _ := newTestService(t)

	writePNG(t, imagesDir, "frankfurt_000001_005898_leftImg8bit.png", 2, 2)
	writePNG(t, imagesDir, "aachen_000000_000019_leftImg8bit.png", 2, 2)
	writePNG(t, imagesDir, "frankfurt_000000_000294_leftImg8bit.png", 2, 2)
	writePNG(t, imagesDir, "unrelated.png", 2, 2)
	require.NoError(t, os.WriteFile(filepath.Join(imagesDir, "notes.txt"), []byte("x"), 0o644))

	ids := svc.ListImageIDs()

	assert.Equal(t, []string{
		"aachen_000000_000019",
		"frankfurt_000000_000294",
		"frankfurt_000001_005898",
	}, ids)
}

func TestListImageIDsMissingDir(t *testing.T) {
	svc := NewService("/does/not/exist", "/does/not/exist/either")

	ids := svc.ListImageIDs()

	assert.NotNil(t, ids)
	assert.Empty(t, ids)
}

func TestSampleImageIDs(t *testing.T) {
	svc, imagesDir, _ := newTestService(t)
	writePNG(t, imagesDir, "a_leftImg8bit.png", 2, 2)
	writePNG(t, imagesDir, "b_leftImg8bit.png", 2, 2)
	writePNG(t, imagesDir, "c_leftImg8bit.png", 2, 2)

	assert.Equal(t, []string{"a", "b"}, svc.SampleImageIDs(2))
	assert.Equal(t, []string{"a", "b", "c"}, svc.SampleImageIDs(10))
	assert.Empty(t, svc.SampleImageIDs(0))
	assert.Empty(t, svc.SampleImageIDs(-1))
}

func TestImagePaths(t *testing.T) {
	svc := NewService("/data/images", "/data/masks")

	assert.Equal(t, filepath.Join("/data/images", "frankfurt_000000_000294_leftImg8bit.png"),
		svc.ImagePath("frankfurt_000000_000294"))
	assert.Equal(t, filepath.Join("/data/masks", "frankfurt_000000_000294_gtFine_color.png"),
		svc.GroundTruthPath("frankfurt_000000_000294"))
}

func TestLoadImage(t *testing.T) {
	svc, imagesDir, _ := newTestService(t)
	writePNG(t, imagesDir, "a_leftImg8bit.png", 6, 3)

	t.Run("valid image", func(t *testing.T) {
		img, err := svc.LoadImage(svc.ImagePath("a"))

		require.NoError(t, err)
		assert.Equal(t, 6, img.Width)
		assert.Equal(t, 3, img.Height)
		assert.Equal(t, "png", img.Format)
		assert.NotEmpty(t, img.Bytes)
	})

	t.Run("missing image", func(t *testing.T) {
		_, err := svc.LoadImage(svc.ImagePath("missing"))

		assert.ErrorIs(t, err, domain.ErrImageNotFound)
	})

	t.Run("not an image", func(t *testing.T) {
		path := filepath.Join(imagesDir, "b_leftImg8bit.png")
		require.NoError(t, os.WriteFile(path, []byte("plain text"), 0o644))

		_, err := svc.LoadImage(path)

		assert.ErrorIs(t, err, domain.ErrNotAnImage)
	})
}

func TestHasGroundTruth(t *testing.T) {
	svc, _, groundTruthDir := newTestService(t)
	writePNG(t, groundTruthDir, "a_gtFine_color.png", 2, 2)

	assert.True(t, svc.HasGroundTruth("a"))
	assert.False(t, svc.HasGroundTruth("b"))
}

func TestValidate(t *testing.T) {
	t.Run("both directories populated", func(t *testing.T) {
		svc, imagesDir, groundTruthDir := newTestService(t)
		writePNG(t, imagesDir, "a_leftImg8bit.png", 2, 2)
		writePNG(t, groundTruthDir, "a_gtFine_color.png", 2, 2)

		ok, problems := svc.Validate()

		assert.True(t, ok)
		assert.Empty(t, problems)
	})

	t.Run("missing images directory", func(t *testing.T) {
		groundTruthDir := t.TempDir()
		writePNG(t, groundTruthDir, "a_gtFine_color.png", 2, 2)
		svc := NewService("/does/not/exist", groundTruthDir)

		ok, problems := svc.Validate()

		assert.False(t, ok)
		require.Len(t, problems, 1)
		assert.Equal(t, "Original images directory not found: /does/not/exist", problems[0])
	})

	t.Run("empty ground truth directory", func(t *testing.T) {
		svc, imagesDir, groundTruthDir := newTestService(t)
		writePNG(t, imagesDir, "a_leftImg8bit.png", 2, 2)

		ok, problems := svc.Validate()

		assert.False(t, ok)
		require.Len(t, problems, 1)
		assert.Equal(t, "Ground truth directory is empty: "+groundTruthDir, problems[0])
	})

	t.Run("both directories missing", func(t *testing.T) {
		svc := NewService("/missing/images", "/missing/masks")

		ok, problems := svc.Validate()

		assert.False(t, ok)
		assert.Len(t, problems, 2)
	})
}

func TestImageInfo(t *testing.T) {
	t.Run("with ground truth", func(t *testing.T) {
		svc, imagesDir, groundTruthDir := newTestService(t)
		writePNG(t, imagesDir, "a_leftImg8bit.png", 8, 4)
		writePNG(t, groundTruthDir, "a_gtFine_color.png", 8, 4)

		info, err := svc.ImageInfo("a")

		require.NoError(t, err)
		assert.Equal(t, "a", info.ID)
		assert.Equal(t, 8, info.Width)
		assert.Equal(t, 4, info.Height)
		assert.Equal(t, "png", info.Format)
		assert.Positive(t, info.FileSize)
		assert.True(t, info.HasGroundTruth)
		assert.Equal(t, 8, info.GroundTruthWidth)
		assert.Equal(t, 4, info.GroundTruthHeight)
	})

	t.Run("without ground truth", func(t *testing.T) {
		svc, imagesDir, _ := newTestService(t)
		writePNG(t, imagesDir, "a_leftImg8bit.png", 8, 4)

		info, err := svc.ImageInfo("a")

		require.NoError(t, err)
		assert.False(t, info.HasGroundTruth)
		assert.Zero(t, info.GroundTruthWidth)
		assert.Zero(t, info.GroundTruthHeight)
	})

	t.Run("unknown image", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		_, err := svc.ImageInfo("nope")

		assert.ErrorIs(t, err, domain.ErrImageNotFound)
	})
}

func TestStats(t *testing.T) {
	t.Run("existing directories", func(t *testing.T) {
		svc, imagesDir, groundTruthDir := newTestService(t)
		writePNG(t, imagesDir, "a_leftImg8bit.png", 2, 2)
		writePNG(t, imagesDir, "b_leftImg8bit.png", 2, 2)
		require.NoError(t, os.WriteFile(filepath.Join(imagesDir, "notes.txt"), []byte("x"), 0o644))
		writePNG(t, groundTruthDir, "a_gtFine_color.png", 2, 2)

		stats := svc.Stats()

		assert.True(t, stats.DirectoriesExist)
		assert.Equal(t, imagesDir, stats.OriginalImagesDir)
		assert.Equal(t, 3, stats.OriginalImagesCount)
		assert.Equal(t, groundTruthDir, stats.GroundTruthDir)
		assert.Equal(t, 1, stats.GroundTruthCount)
	})

	t.Run("missing directories", func(t *testing.T) {
		svc := NewService("/missing/images", "/missing/masks")

		stats := svc.Stats()

		assert.False(t, stats.DirectoriesExist)
		assert.Zero(t, stats.OriginalImagesCount)
		assert.Zero(t, stats.GroundTruthCount)
	})
}
