package renderer

import "time"

// RenderStats contains statistics about a finished render
type RenderStats struct {
	RenderID         string        `json:"render_id"`
	Width            int           `json:"width"`
	Height           int           `json:"height"`
	TotalPixels      int           `json:"total_pixels"`      // Total number of pixels rendered
	SamplesPerPixel  int           `json:"samples_per_pixel"` // Camera rays per pixel
	TotalSamples     int64         `json:"total_samples"`     // Total number of camera rays traced
	MaxDepth         int           `json:"max_depth"`
	Tiles            int           `json:"tiles"`
	Workers          int           `json:"workers"`
	Anomalies        int64         `json:"anomalies"` // Samples discarded as NaN, infinite or negative
	Duration         time.Duration `json:"-"`
	DurationSeconds  float64       `json:"duration_seconds"`
	SamplesPerSecond float64       `json:"samples_per_second"`
}

// finish records the elapsed time and derived throughput
func (s *RenderStats) finish(elapsed time.Duration) {
	s.Duration = elapsed
	s.DurationSeconds = elapsed.Seconds()
	if elapsed > 0 {
		s.SamplesPerSecond = float64(s.TotalSamples) / elapsed.Seconds()
	}
}
