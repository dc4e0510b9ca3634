// Package analysis builds derived reports from records fetched through the hub
// adapter: image comparisons with a recommendation, tag comparisons and
// per-platform size analysis.
package analysis

import (
	"context"
	"math"

	"github.com/ajitpratap0/hubscout/internal/hub"
	"github.com/ajitpratap0/hubscout/pkg/logging"
)

// ImageSource is the part of the hub client the analyzer reads from
type ImageSource interface {
	GetImageDetails(ctx context.Context, imageName string) (*hub.ImageDetails, error)
	GetTagDetails(ctx context.Context, imageName, tag string) (*hub.TagDetails, error)
}

// Analyzer produces comparison and analysis reports
type Analyzer struct {
	source ImageSource
	logger logging.Logger
}

// Option configures an Analyzer
type Option func(*Analyzer)

// WithLogger sets the logger
func WithLogger(logger logging.Logger) Option {
	return func(a *Analyzer) {
		a.logger = logger
	}
}

// New creates an Analyzer reading from source
func New(source ImageSource, opts ...Option) *Analyzer {
	a := &Analyzer{
		source: source,
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.WithFields(logging.String("component", "analysis"))
	return a
}

const bytesPerMB = 1024 * 1024

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func megabytes(bytes int64) float64 {
	return round2(float64(bytes) / bytesPerMB)
}

// percentChange returns (to-from)/from as a percentage, or 0 when from is 0
func percentChange(from, to int64) float64 {
	if from <= 0 {
		return 0
	}
	return round2(float64(to-from) / float64(from) * 100)
}

func sizeChange(diff int64) string {
	switch {
	case diff > 0:
		return "increased"
	case diff < 0:
		return "decreased"
	default:
		return "no change"
	}
}
