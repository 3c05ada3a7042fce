package scene

// Filter selects how linear radiance is mapped to display values
type Filter string

const (
	FilterGamma Filter = "gamma" // Clamp then gamma 2.2
	FilterACES  Filter = "aces"  // ACES filmic curve, then gamma 2.2
)

// Valid reports whether f names a known filter. The empty filter is the
// zero value and develops as gamma.
func (f Filter) Valid() bool {
	switch f {
	case "", FilterGamma, FilterACES:
		return true
	}
	return false
}

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width                     int     // Image width
	Height                    int     // Image height
	SamplesPerPixel           int     // Number of rays per pixel
	MaxDepth                  int     // Maximum indirect bounces; 0 renders direct light only
	RussianRouletteMinBounces int     // Minimum bounces before Russian Roulette can activate
	Seed                      uint64  // Base seed for the per-pixel random streams
	Exposure                  float64 // Exposure value; radiance is scaled by 2^Exposure
	Filter                    Filter  // Tone mapping applied when the film is finalized
}

// DefaultSamplingConfig returns the configuration used when a scene does not
// set one
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Width:                     800,
		Height:                    800,
		SamplesPerPixel:           64,
		MaxDepth:                  4,
		RussianRouletteMinBounces: 3,
		Filter:                    FilterGamma,
	}
}
