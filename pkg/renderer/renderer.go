package renderer

import (
	"context"
	"log/slog"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// anomalyCounter is implemented by integrators that discard invalid samples
type anomalyCounter interface {
	AnomalyCount() int64
}

// Renderer renders a scene through a camera into an Image. Options are set
// with chained builder calls before Render.
type Renderer struct {
	scene      *scene.Scene
	camera     *geometry.Camera
	config     scene.SamplingConfig
	workers    int
	tileSize   int
	logger     *slog.Logger
	integrator integrator.Integrator
	stats      RenderStats
}

// New creates a renderer using the scene's sampling configuration. A nil
// camera uses the scene's own camera.
func New(s *scene.Scene, camera *geometry.Camera) *Renderer {
	if camera == nil {
		camera = s.Camera()
	}
	return &Renderer{
		scene:    s,
		camera:   camera,
		config:   s.SamplingConfig,
		workers:  runtime.NumCPU(),
		tileSize: defaultTileSize,
		logger:   slog.Default(),
	}
}

// Config replaces the whole sampling configuration
func (r *Renderer) Config(config scene.SamplingConfig) *Renderer {
	r.config = config
	return r
}

// Width sets the image width in pixels
func (r *Renderer) Width(width int) *Renderer {
	r.config.Width = width
	return r
}

// Height sets the image height in pixels
func (r *Renderer) Height(height int) *Renderer {
	r.config.Height = height
	return r
}

// Samples sets the number of camera rays per pixel
func (r *Renderer) Samples(samples int) *Renderer {
	r.config.SamplesPerPixel = samples
	return r
}

// MaxDepth sets the maximum number of indirect bounces
func (r *Renderer) MaxDepth(depth int) *Renderer {
	r.config.MaxDepth = depth
	return r
}

// Seed sets the base seed of the per-pixel random streams
func (r *Renderer) Seed(seed uint64) *Renderer {
	r.config.Seed = seed
	return r
}

// Exposure sets the exposure value; radiance is scaled by 2^ev
func (r *Renderer) Exposure(ev float64) *Renderer {
	r.config.Exposure = ev
	return r
}

// Filter sets the tone-mapping filter
func (r *Renderer) Filter(filter Filter) *Renderer {
	r.config.Filter = filter
	return r
}

// Workers sets how many tiles render concurrently; values below 1 use
// runtime.NumCPU()
func (r *Renderer) Workers(workers int) *Renderer {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	r.workers = workers
	return r
}

// TileSize sets the edge length of the square render tiles
func (r *Renderer) TileSize(size int) *Renderer {
	r.tileSize = size
	return r
}

// Logger sets the logger for progress reports
func (r *Renderer) Logger(logger *slog.Logger) *Renderer {
	r.logger = logger
	return r
}

// Integrator replaces the default path tracing integrator
func (r *Renderer) Integrator(integ integrator.Integrator) *Renderer {
	r.integrator = integ
	return r
}

// Stats returns the statistics of the last completed render
func (r *Renderer) Stats() RenderStats {
	return r.stats
}

func (r *Renderer) validate() error {
	switch {
	case r.scene == nil:
		return errors.New("renderer has no scene")
	case r.camera == nil:
		return errors.New("renderer has no camera")
	case r.config.Width < 1 || r.config.Height < 1:
		return errors.Errorf("invalid image size %dx%d", r.config.Width, r.config.Height)
	case r.config.SamplesPerPixel < 1:
		return errors.Errorf("invalid samples per pixel %d", r.config.SamplesPerPixel)
	case r.config.MaxDepth < 0:
		return errors.Errorf("invalid max depth %d", r.config.MaxDepth)
	case !r.config.Filter.Valid():
		return errors.Errorf("unknown filter %q", r.config.Filter)
	case r.tileSize < 1:
		return errors.Errorf("invalid tile size %d", r.tileSize)
	}
	return nil
}

// Render traces the image. Tiles are rendered concurrently, but each pixel
// draws from its own random stream, so the result for a fixed seed does not
// depend on the number of workers. Cancelling ctx stops the render and
// returns the context error.
func (r *Renderer) Render(ctx context.Context) (*Image, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}

	renderID := uuid.NewString()
	logger := r.logger.With("render_id", renderID)

	var integ integrator.Integrator = r.integrator
	if integ == nil {
		integ = integrator.NewPathTracingIntegrator(r.config).WithLogger(logger)
	}

	width, height := r.config.Width, r.config.Height
	film := NewFilm(width, height)
	tiles := NewTileGrid(width, height, r.tileSize)
	sceneStats := r.scene.Stats()

	logger.Info("render started",
		"width", width,
		"height", height,
		"samples", r.config.SamplesPerPixel,
		"max_depth", r.config.MaxDepth,
		"workers", r.workers,
		"tiles", len(tiles),
		"objects", sceneStats.Objects,
		"primitives", sceneStats.Primitives,
		"lights", sceneStats.Lights)

	start := time.Now()
	var completed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for _, tile := range tiles {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := r.renderTile(gctx, tile, film, integ); err != nil {
				return err
			}
			logger.Debug("tile finished",
				"tile", tile.ID,
				"completed", completed.Add(1),
				"total", len(tiles))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "render interrupted")
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "render interrupted")
	}

	stats := RenderStats{
		RenderID:        renderID,
		Width:           width,
		Height:          height,
		TotalPixels:     width * height,
		SamplesPerPixel: r.config.SamplesPerPixel,
		TotalSamples:    int64(width) * int64(height) * int64(r.config.SamplesPerPixel),
		MaxDepth:        r.config.MaxDepth,
		Tiles:           len(tiles),
		Workers:         r.workers,
	}
	if counter, ok := integ.(anomalyCounter); ok {
		stats.Anomalies = counter.AnomalyCount()
	}
	stats.finish(time.Since(start))
	r.stats = stats

	if stats.Anomalies > 0 {
		logger.Warn("discarded invalid samples", "count", stats.Anomalies)
	}
	logger.Info("render finished",
		"duration", stats.Duration,
		"samples_per_second", stats.SamplesPerSecond)

	return film.Develop(r.config.Exposure, r.config.Filter), nil
}
