package coverart

import (
	"context"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"emperror.dev/errors"
	"github.com/qeesung/image2ascii/convert"
)

const (
	defaultWidth  = 25
	defaultHeight = 12
)

// Converter turns header images into ASCII art
type Converter struct {
	httpClient *http.Client
	converter  *convert.ImageConverter
	width      int
	height     int
}

// NewConverter creates a converter producing width x height characters,
// zero values select 25x12
func NewConverter(width, height int) *Converter {
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	return &Converter{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		converter: convert.NewImageConverter(),
		width:     width,
		height:    height,
	}
}

// Size returns the width and height of the art in characters
func (c *Converter) Size() (int, int) {
	return c.width, c.height
}

// Convert loads the image from a local path or an http(s) URL.
// The placeholder is returned along with any error.
func (c *Converter) Convert(ctx context.Context, source string) (string, error) {
	if source == "" {
		return c.Placeholder(), nil
	}

	r, err := c.open(ctx, source)
	if err != nil {
		return c.Placeholder(), err
	}
	defer r.Close()

	img, _, err := image.Decode(r)
	if err != nil {
		return c.Placeholder(), errors.Wrapf(err, "failed to decode %s", source)
	}
	return c.FromImage(img), nil
}

// FromImage renders img without colors, tview does not understand ANSI escapes
func (c *Converter) FromImage(img image.Image) string {
	convertOptions := convert.DefaultOptions
	convertOptions.FixedWidth = c.width
	convertOptions.FixedHeight = c.height
	convertOptions.Colored = false

	return c.converter.Image2ASCIIString(img, &convertOptions)
}

func (c *Converter) open(ctx context.Context, source string) (io.ReadCloser, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		f, err := os.Open(source)
		if err != nil {
			return nil, errors.Wrap(err, "failed to open cover")
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build request")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to download")
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, errors.Errorf("status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// Placeholder is shown when no cover art is available
func (c *Converter) Placeholder() string {
	return `[darkgray]┌─────────────────────────┐
[darkgray]│                         │
[darkgray]│         ♫  ♪  ♫         │
[darkgray]│      No Cover Art       │
[darkgray]│         ♫  ♪  ♫         │
[darkgray]│                         │
[darkgray]└─────────────────────────┘`
}
