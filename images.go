package writedesk

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"
)

const (
	maxImageWidth = 1200
	jpegQuality   = 80
	maxUploadSize = 10 << 20 // 10MB
	uploadsSubdir = "uploads"
)

// imageView is the media-library JSON shape; URL is where the file is served.
type imageView struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	URL          string `json:"url"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Size         int    `json:"size"`
	UploadedAt   string `json:"uploadedAt"`
}

// processImage decodes an image from src, resizes it down to maxImageWidth if
// wider, and re-encodes it as JPEG. Returns metadata and the encoded bytes.
func processImage(src io.Reader, originalName string) (Image, []byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return Image{}, nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w > maxImageWidth {
		newH := h * maxImageWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
		w = maxImageWidth
		h = newH
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return Image{}, nil, fmt.Errorf("encode jpeg: %w", err)
	}

	base := Slugify(strings.TrimSuffix(originalName, filepath.Ext(originalName)))
	if base == "" {
		base = "image"
	}
	filename := base + "-" + uuid.NewString()[:8] + ".jpg"

	return Image{
		Filename:     filename,
		OriginalName: originalName,
		Width:        w,
		Height:       h,
		Size:         buf.Len(),
		UploadedAt:   time.Now().UTC().Format(time.RFC3339),
	}, buf.Bytes(), nil
}

func (a *App) handleImageUpload(c echo.Context) error {
	file, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "no image file provided")
	}
	if file.Size > maxUploadSize {
		return echo.NewHTTPError(http.StatusBadRequest, "file too large (max 10MB)")
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	img, data, err := processImage(src, file.Filename)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid image: "+err.Error())
	}

	dir := filepath.Join(a.staticDir, uploadsSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create uploads dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, img.Filename), data, 0o644); err != nil {
		return fmt.Errorf("write image: %w", err)
	}
	if err := a.Store.SaveImage(img); err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toImageView(img))
}

func (a *App) handleImageList(c echo.Context) error {
	images, err := a.Store.ListImages()
	if err != nil {
		return err
	}
	views := make([]imageView, len(images))
	for i, img := range images {
		views[i] = toImageView(img)
	}
	return c.JSON(http.StatusOK, views)
}

func (a *App) handleImageDelete(c echo.Context) error {
	filename := c.Param("filename")
	if filename == "" || filename != filepath.Base(filename) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid filename")
	}

	// Remove the file best-effort; metadata is the source of truth.
	_ = os.Remove(filepath.Join(a.staticDir, uploadsSubdir, filename))

	if err := a.Store.DeleteImage(filename); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func toImageView(img Image) imageView {
	return imageView{
		Filename:     img.Filename,
		OriginalName: img.OriginalName,
		URL:          "/public/" + uploadsSubdir + "/" + img.Filename,
		Width:        img.Width,
		Height:       img.Height,
		Size:         img.Size,
		UploadedAt:   img.UploadedAt,
	}
}

// SaveImage stores metadata for an uploaded image.
func (s *Store) SaveImage(img Image) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO images (filename, original_name, width, height, size, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		img.Filename, img.OriginalName, img.Width, img.Height, img.Size, img.UploadedAt)
	return err
}

// ListImages returns uploaded images, newest first.
func (s *Store) ListImages() ([]Image, error) {
	rows, err := s.db.Query(`SELECT filename, original_name, width, height, size, uploaded_at FROM images ORDER BY uploaded_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []Image
	for rows.Next() {
		var img Image
		if err := rows.Scan(&img.Filename, &img.OriginalName, &img.Width, &img.Height, &img.Size, &img.UploadedAt); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// DeleteImage removes image metadata by filename.
func (s *Store) DeleteImage(filename string) error {
	_, err := s.db.Exec(`DELETE FROM images WHERE filename = ?`, filename)
	return err
}
