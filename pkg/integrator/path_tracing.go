package integrator

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/lights"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/scene"
)

const (
	minSurvivalProbability = 0.05
	maxSurvivalProbability = 0.95

	// Relative tolerance between a scatter weight and f·cosθ/pdf
	scatterTolerance = 1e-6
	// Densities below this have lost too much precision to compare
	minCheckedPDF = 1e-100
)

// PathTracingIntegrator implements unidirectional path tracing with direct
// light evaluation at every vertex. It is safe for concurrent use.
type PathTracingIntegrator struct {
	config    scene.SamplingConfig
	logger    *slog.Logger
	anomalies atomic.Int64

	// Scatter weights are cross-checked against the BRDF and PDF only when
	// debug logging is on
	checkScatter bool
	mismatches   atomic.Int64
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(config scene.SamplingConfig) *PathTracingIntegrator {
	return &PathTracingIntegrator{config: config}
}

// WithLogger sets the logger that receives invalid-sample reports. A logger
// with debug enabled also turns on scatter weight checks.
func (pt *PathTracingIntegrator) WithLogger(logger *slog.Logger) *PathTracingIntegrator {
	pt.logger = logger
	pt.checkScatter = logger != nil && logger.Enabled(context.Background(), slog.LevelDebug)
	return pt
}

// AnomalyCount returns how many samples were NaN, infinite or negative
func (pt *PathTracingIntegrator) AnomalyCount() int64 {
	return pt.anomalies.Load()
}

// ScatterMismatchCount returns how many checked scatters had a weight that
// disagreed with f·cosθ/pdf
func (pt *PathTracingIntegrator) ScatterMismatchCount() int64 {
	return pt.mismatches.Load()
}

// RayColor computes the color for a single camera ray. MaxDepth counts
// indirect bounces, so 0 gives direct lighting only.
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, s *scene.Scene, sampler core.Sampler) core.Vec3 {
	radiance := core.Vec3{}
	throughput := core.Splat(1)

	for bounce := 0; ; bounce++ {
		hit, isHit := s.Intersect(ray)
		if !isHit {
			radiance = radiance.Add(throughput.MultiplyVec(s.Background))
			break
		}

		radiance = radiance.Add(throughput.MultiplyVec(pt.directLighting(s, ray, hit)))

		if bounce >= pt.config.MaxDepth {
			break
		}

		scatter, didScatter := hit.Material.Scatter(ray, hit.Hit, sampler)
		if !didScatter {
			break
		}
		if pt.checkScatter {
			pt.verifyScatter(ray, hit, scatter)
		}
		throughput = throughput.MultiplyVec(scatter.Weight)
		if throughput.IsZero() {
			break
		}

		if bounce >= pt.config.RussianRouletteMinBounces {
			survive, p := pt.russianRoulette(throughput, sampler.Get1D())
			if !survive {
				break
			}
			throughput = throughput.Multiply(1 / p)
		}

		ray = scatter.Scattered
	}

	return pt.sanitize(radiance)
}

// russianRoulette decides whether a path continues. The survival
// probability follows the throughput luminance, clamped so bright paths can
// still end and dim paths are not all cut.
func (pt *PathTracingIntegrator) russianRoulette(throughput core.Vec3, u float64) (bool, float64) {
	p := core.Clamp(throughput.Luminance(), minSurvivalProbability, maxSurvivalProbability)
	return u < p, p
}

// directLighting sums the contribution of every light at a path vertex
func (pt *PathTracingIntegrator) directLighting(s *scene.Scene, ray core.Ray, hit scene.Intersection) core.Vec3 {
	m := hit.Material
	total := core.Vec3{}

	for _, light := range s.Lights {
		switch l := light.(type) {
		case *lights.Ambient:
			total = total.Add(l.Contribution(m.Reflectance()))
		case *lights.Point:
			total = total.Add(pt.occludedLight(s, ray, hit, l))
		case *lights.Directional:
			total = total.Add(pt.occludedLight(s, ray, hit, l))
		default:
			panic(fmt.Sprintf("integrator: unhandled light type %T", light))
		}
	}
	return total
}

// occludedLight evaluates a shadow-tested light: f(wo, wi)·L·cosθ
func (pt *PathTracingIntegrator) occludedLight(s *scene.Scene, ray core.Ray, hit scene.Intersection, light lights.Occluder) core.Vec3 {
	// Mirrors only see lights through their reflection path
	if hit.Material.IsDelta() {
		return core.Vec3{}
	}

	sample := light.Illuminate(hit.Point)
	cosine := sample.Direction.Dot(hit.Normal)
	if cosine <= 0 {
		return core.Vec3{}
	}

	origin := hit.Point.Add(hit.Normal.Multiply(core.ShadowEpsilon))
	if !s.Visible(origin, sample.Point) {
		return core.Vec3{}
	}

	f := hit.Material.EvaluateBRDF(ray.Direction, sample.Direction, hit.Normal)
	return f.MultiplyVec(sample.Radiance).Multiply(cosine)
}

// verifyScatter recomputes a sampled weight from the material's BRDF and
// density and reports any disagreement
func (pt *PathTracingIntegrator) verifyScatter(ray core.Ray, hit scene.Intersection, scatter material.ScatterResult) bool {
	if scatter.IsSpecular() {
		return true
	}

	wi := scatter.Scattered.Direction
	pdf, isDelta := hit.Material.PDF(ray.Direction, wi, hit.Normal)
	if isDelta || pdf < minCheckedPDF {
		return true
	}

	f := hit.Material.EvaluateBRDF(ray.Direction, wi, hit.Normal)
	expected := f.Multiply(wi.Dot(hit.Normal) / pdf)
	weightOK := expected.Subtract(scatter.Weight).Length() <= scatterTolerance*(1+expected.Length())
	pdfOK := math.Abs(pdf-scatter.PDF) <= scatterTolerance*pdf
	if weightOK && pdfOK {
		return true
	}

	pt.mismatches.Add(1)
	if pt.logger != nil {
		pt.logger.Debug("scatter weight disagrees with brdf and pdf",
			"material", fmt.Sprintf("%T", hit.Material),
			"weight", scatter.Weight, "expected", expected,
			"pdf", scatter.PDF, "expected_pdf", pdf)
	}
	return false
}

// sanitize replaces NaN, infinite or negative samples with black
func (pt *PathTracingIntegrator) sanitize(radiance core.Vec3) core.Vec3 {
	if radiance.IsValidRadiance() {
		return radiance
	}
	pt.anomalies.Add(1)
	if pt.logger != nil {
		pt.logger.Debug("discarding invalid sample",
			"r", radiance.X, "g", radiance.Y, "b", radiance.Z)
	}
	return core.Vec3{}
}
