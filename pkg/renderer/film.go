package renderer

import (
	"bufio"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"

	"github.com/pkg/errors"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// Filter selects how linear radiance is mapped to display values
type Filter = scene.Filter

const (
	FilterGamma = scene.FilterGamma
	FilterACES  = scene.FilterACES
)

const displayGamma = 2.2

// Film holds the linear radiance estimate of every pixel. Concurrent writers
// must touch disjoint pixels.
type Film struct {
	width, height int
	pixels        []core.Vec3
}

// NewFilm creates a black film of the given size
func NewFilm(width, height int) *Film {
	return &Film{width: width, height: height, pixels: make([]core.Vec3, width*height)}
}

// Width returns the film width in pixels
func (f *Film) Width() int { return f.width }

// Height returns the film height in pixels
func (f *Film) Height() int { return f.height }

// Set stores the radiance estimate for pixel (x, y); y = 0 is the top row
func (f *Film) Set(x, y int, radiance core.Vec3) {
	f.pixels[y*f.width+x] = radiance
}

// At returns the radiance estimate for pixel (x, y)
func (f *Film) At(x, y int) core.Vec3 {
	return f.pixels[y*f.width+x]
}

// Develop applies exposure and tone mapping and returns the final image
func (f *Film) Develop(exposure float64, filter Filter) *Image {
	img := &Image{
		radiance: append([]core.Vec3(nil), f.pixels...),
		rgba:     image.NewRGBA(image.Rect(0, 0, f.width, f.height)),
		width:    f.width,
	}

	scale := math.Exp2(exposure)
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			img.rgba.SetRGBA(x, y, toneMap(f.At(x, y).Multiply(scale), filter))
		}
	}
	return img
}

// toneMap converts linear radiance to an 8-bit display color
func toneMap(c core.Vec3, filter Filter) color.RGBA {
	if filter == FilterACES {
		c = core.NewVec3(aces(c.X), aces(c.Y), aces(c.Z))
	}
	c = c.Clamp(0, 1).GammaCorrect(displayGamma)
	return color.RGBA{
		R: quantize(c.X),
		G: quantize(c.Y),
		B: quantize(c.Z),
		A: 255,
	}
}

// aces is Narkowicz's fit of the ACES filmic curve
func aces(x float64) float64 {
	const (
		a = 2.51
		b = 0.03
		c = 2.43
		d = 0.59
		e = 0.14
	)
	return x * (a*x + b) / (x*(c*x+d) + e)
}

// quantize rounds a display value in [0, 1] to 8 bits
func quantize(v float64) uint8 {
	return uint8(v*255 + 0.5)
}

// Image is a finished render: the tone-mapped RGBA pixels plus the linear
// radiance they were developed from
type Image struct {
	radiance []core.Vec3
	rgba     *image.RGBA
	width    int
}

// RGBA returns the 8-bit image
func (img *Image) RGBA() *image.RGBA {
	return img.rgba
}

// Bounds returns the image rectangle
func (img *Image) Bounds() image.Rectangle {
	return img.rgba.Bounds()
}

// Radiance returns the linear radiance of pixel (x, y) before tone mapping
func (img *Image) Radiance(x, y int) core.Vec3 {
	return img.radiance[y*img.width+x]
}

// Encode writes the image as PNG
func (img *Image) Encode(w io.Writer) error {
	return errors.Wrap(png.Encode(w, img.rgba), "failed to encode PNG")
}

// Save writes the image to a PNG file
func (img *Image) Save(path string) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "failed to close %s", path)
		}
	}()

	w := bufio.NewWriter(file)
	if err := img.Encode(w); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return errors.Wrapf(w.Flush(), "failed to write %s", path)
}
