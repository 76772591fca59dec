package storycarousel

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"

	"github.com/eringen/storycarousel/carousel"
)

const (
	maxImageWidth = 800
	jpegQuality   = 80
	maxUploadSize = 10 << 20 // 10MB
	uploadsSubdir = "uploads"

	fallbackImagePath = "/public/img/default-story.jpg"
)

// encodedImage is one JPEG ready to be written under a filename.
type encodedImage struct {
	suffix string // "" for the main file, "-<preset>" for renditions
	preset string
	data   []byte
	width  int
	height int
}

// scaleTo resizes img to w x h with CatmullRom.
func scaleTo(img image.Image, w, h int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

// fitWithin returns the size of a w x h image scaled down to fit the box.
// A zero box side leaves that side unconstrained. Images already inside the
// box keep their size.
func fitWithin(w, h, boxW, boxH int) (int, int) {
	scale := 1.0
	if boxW > 0 && w > boxW {
		scale = float64(boxW) / float64(w)
	}
	if boxH > 0 && float64(h)*scale > float64(boxH) {
		scale = float64(boxH) / float64(h)
	}
	nw, nh := int(float64(w)*scale), int(float64(h)*scale)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	return nw, nh
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// processImage decodes an image from src, resizes it to maxImageWidth, and
// encodes it plus one rendition per size preset smaller than the result.
func processImage(src io.Reader, sizes []ImageSize) ([]encodedImage, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w > maxImageWidth {
		w, h = fitWithin(w, h, maxImageWidth, 0)
		img = scaleTo(img, w, h)
	}

	data, err := encodeJPEG(img)
	if err != nil {
		return nil, err
	}
	out := []encodedImage{{data: data, width: w, height: h}}

	for _, sz := range sizes {
		if sz.Name == carousel.PresetFull || sz.Name == carousel.PresetCustom {
			continue
		}
		rw, rh := fitWithin(w, h, sz.Width, sz.Height)
		if rw == w && rh == h {
			continue
		}
		rdata, err := encodeJPEG(scaleTo(img, rw, rh))
		if err != nil {
			return nil, err
		}
		out = append(out, encodedImage{suffix: "-" + sz.Name, preset: sz.Name, data: rdata, width: rw, height: rh})
	}
	return out, nil
}

// slugifyFilename converts a filename (without extension) to a URL-safe slug.
func slugifyFilename(name string) string {
	ext := filepath.Ext(name)
	base := Slugify(strings.TrimSuffix(name, ext))
	if base == "" {
		base = "image"
	}
	return base
}

// uniqueBase appends a counter until neither the filesystem nor the
// database has the base name.
func (a *App) uniqueBase(base string) string {
	dir := filepath.Join(a.staticDir, uploadsSubdir)
	candidate := base
	for counter := 2; ; counter++ {
		name := candidate + ".jpg"
		_, statErr := os.Stat(filepath.Join(dir, name))
		exists, _ := a.Store.ImageExists(name)
		if statErr != nil && !exists {
			return candidate
		}
		candidate = fmt.Sprintf("%s-%d", base, counter)
	}
}

func (a *App) handleImageUpload(c echo.Context) error {
	file, err := c.FormFile("image")
	if err != nil {
		return c.String(http.StatusBadRequest, "No image file provided")
	}
	if file.Size > maxUploadSize {
		return c.String(http.StatusBadRequest, "File too large (max 10MB)")
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	sizes, err := a.Store.ListImageSizes()
	if err != nil {
		return err
	}
	encoded, err := processImage(src, sizes)
	if err != nil {
		return c.String(http.StatusBadRequest, "Invalid image: "+err.Error())
	}

	dir := filepath.Join(a.staticDir, uploadsSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create uploads dir: %w", err)
	}

	base := a.uniqueBase(slugifyFilename(file.Filename))
	img := Image{
		OriginalName: file.Filename,
		UploadedAt:   time.Now().UTC().Format(time.RFC3339),
		Renditions:   map[string]string{},
	}
	for _, e := range encoded {
		name := base + e.suffix + ".jpg"
		if err := os.WriteFile(filepath.Join(dir, name), e.data, 0o644); err != nil {
			return fmt.Errorf("write image: %w", err)
		}
		if e.preset == "" {
			img.Filename = name
			img.Width, img.Height, img.Size = e.width, e.height, len(e.data)
			continue
		}
		img.Renditions[e.preset] = name
	}

	if _, err := a.Store.SaveImage(img); err != nil {
		return err
	}
	return redirectMsg(c, "Image uploaded.")
}

func (a *App) handleImageDelete(c echo.Context) error {
	id := ParseID(c.Param("id"))
	img, err := a.Store.GetImage(id)
	if err != nil {
		if err == ErrNotFound {
			return redirectMsg(c, "Image not found.")
		}
		return err
	}

	dir := filepath.Join(a.staticDir, uploadsSubdir)
	_ = os.Remove(filepath.Join(dir, img.Filename)) // ignore error if file already gone
	for _, name := range img.Renditions {
		_ = os.Remove(filepath.Join(dir, name))
	}

	if err := a.Store.DeleteImage(id); err != nil {
		return err
	}
	return redirectMsg(c, "Image deleted.")
}

// fallbackImageURL is the card background for items without an image.
func (a *App) fallbackImageURL() string {
	return AssetURL(a.Config.URL, fallbackImagePath)
}

var (
	fallbackOnce sync.Once
	fallbackJPEG []byte
)

// fallbackImage draws the default story background: a vertical gradient
// upscaled from a 1x4 swatch.
func fallbackImage() []byte {
	fallbackOnce.Do(func() {
		swatch := image.NewRGBA(image.Rect(0, 0, 1, 4))
		for y, c := range []color.RGBA{
			{R: 0x3a, G: 0x3f, B: 0x58, A: 0xff},
			{R: 0x5b, G: 0x4b, B: 0x7a, A: 0xff},
			{R: 0x8a, G: 0x5a, B: 0x8c, A: 0xff},
			{R: 0x1f, G: 0x22, B: 0x30, A: 0xff},
		} {
			swatch.SetRGBA(0, y, c)
		}
		d := carousel.Defaults()
		data, err := encodeJPEG(scaleTo(swatch, d.CustomImageWidth, d.CustomImageHeight))
		if err == nil {
			fallbackJPEG = data
		}
	})
	return fallbackJPEG
}

func handleFallbackImage(c echo.Context) error {
	data := fallbackImage()
	if data == nil {
		return echo.ErrNotFound
	}
	return c.Blob(http.StatusOK, "image/jpeg", data)
}
