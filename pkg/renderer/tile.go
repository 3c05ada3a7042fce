package renderer

import (
	"context"
	"image"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/integrator"
)

const defaultTileSize = 32

// Tile represents a rectangular region of the image to be rendered
type Tile struct {
	ID     int             // Position in row-major tile order
	Bounds image.Rectangle // Pixel bounds (x0,y0,x1,y1)
}

// NewTileGrid creates a grid of tiles covering the entire image
func NewTileGrid(width, height, tileSize int) []Tile {
	tilesX := (width + tileSize - 1) / tileSize
	tilesY := (height + tileSize - 1) / tileSize
	tiles := make([]Tile, 0, tilesX*tilesY)

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width)
			y1 := min(y0+tileSize, height)
			tiles = append(tiles, Tile{ID: len(tiles), Bounds: image.Rect(x0, y0, x1, y1)})
		}
	}
	return tiles
}

// pixelSampler derives the random stream for one pixel. Streams depend only on
// the pixel position, never on which worker renders it.
func pixelSampler(seed uint64, x, y int) core.Sampler {
	return core.NewSeededSampler(seed, uint64(x), uint64(y))
}

// renderTile renders every pixel within the tile bounds into the film. The
// context is checked between rows.
func (r *Renderer) renderTile(ctx context.Context, tile Tile, film *Film, integ integrator.Integrator) error {
	width, height := film.Width(), film.Height()
	spp := r.config.SamplesPerPixel
	camera := r.camera

	for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
			sampler := pixelSampler(r.config.Seed, x, y)
			sum := core.Vec3{}
			for s := 0; s < spp; s++ {
				ray := camera.RayForPixel(x, y, width, height, sampler.Get2D())
				sum = sum.Add(integ.RayColor(ray, r.scene, sampler))
			}
			film.Set(x, y, sum.Multiply(1/float64(spp)))
		}
	}
	return nil
}
