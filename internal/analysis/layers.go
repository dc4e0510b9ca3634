package analysis

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/ajitpratap0/hubscout/internal/hub"
)

// Size consistency bands, by spread between largest and smallest variant
// relative to the average
const (
	ConsistencyHigh     = "high"
	ConsistencyMedium   = "medium"
	ConsistencyVariable = "variable"

	highConsistencyBelow   = 20.0
	mediumConsistencyBelow = 50.0

	// a smallest variant under 70% of the average hints at a minimal base
	minimalBaseRatio = 0.7
)

// LayerSummary counts what a tag is made of
type LayerSummary struct {
	TotalVariants          int     `json:"total_variants"`
	ManifestEntries        int     `json:"manifest_entries"`
	ArchitecturesSupported int     `json:"architectures_supported"`
	TotalSizeAllVariantsMB float64 `json:"total_size_all_variants_mb"`
	PrimarySizeMB          float64 `json:"primary_size_mb"`
}

// PlatformBreakdown describes one runnable platform variant
type PlatformBreakdown struct {
	Architecture string     `json:"architecture"`
	OS           string     `json:"os"`
	Variant      string     `json:"variant,omitempty"`
	Platform     string     `json:"platform"`
	SizeBytes    int64      `json:"size_bytes"`
	SizeMB       float64    `json:"size_mb"`
	Size         string     `json:"size"`
	Digest       string     `json:"digest,omitempty"`
	LastPushed   *time.Time `json:"last_pushed,omitempty"`
}

// SizeEfficiency summarizes how variant sizes spread
type SizeEfficiency struct {
	SmallestVariantMB   float64 `json:"smallest_variant_mb"`
	LargestVariantMB    float64 `json:"largest_variant_mb"`
	AverageVariantMB    float64 `json:"average_variant_mb"`
	SizeVariancePercent float64 `json:"size_variance_percent"`
	SizeConsistency     string  `json:"size_consistency"`
}

// BaseImageHint is a heuristic guess about the base image
type BaseImageHint struct {
	Hint         string   `json:"hint"`
	Reason       string   `json:"reason"`
	Architecture string   `json:"architecture,omitempty"`
	SizeMB       *float64 `json:"size_mb,omitempty"`
	Tag          string   `json:"tag,omitempty"`
}

// VariantSize names a variant and its size
type VariantSize struct {
	Architecture string  `json:"architecture"`
	SizeMB       float64 `json:"size_mb"`
}

// LayerAnalysis is the composition report for one tag
type LayerAnalysis struct {
	Image          string              `json:"image"`
	Tag            string              `json:"tag"`
	Summary        LayerSummary        `json:"summary"`
	Breakdown      []PlatformBreakdown `json:"architecture_breakdown"`
	Efficiency     SizeEfficiency      `json:"size_efficiency"`
	BaseImageHints []BaseImageHint     `json:"base_image_hints"`
	Smallest       *VariantSize        `json:"smallest_variant"`
	Largest        *VariantSize        `json:"largest_variant"`
	LastUpdated    *time.Time          `json:"last_updated,omitempty"`
	Digest         string              `json:"digest,omitempty"`
}

// AnalyzeImageLayers fetches one tag and analyzes its platform variants
func (a *Analyzer) AnalyzeImageLayers(ctx context.Context, imageName, tag string) (*LayerAnalysis, error) {
	details, err := a.source.GetTagDetails(ctx, imageName, tag)
	if err != nil {
		return nil, err
	}
	return AnalyzeTag(details), nil
}

// AnalyzeTag analyzes already-fetched tag details. Manifest entries such as
// attestations are counted but excluded from size statistics.
func AnalyzeTag(details *hub.TagDetails) *LayerAnalysis {
	runnable := lo.Filter(details.Variants, func(v hub.ImageVariant, _ int) bool { return !v.IsManifestEntry() })

	breakdown := lo.Map(runnable, func(v hub.ImageVariant, _ int) PlatformBreakdown {
		return PlatformBreakdown{
			Architecture: v.Architecture,
			OS:           v.OS,
			Variant:      v.Variant,
			Platform:     v.Platform(),
			SizeBytes:    v.SizeBytes,
			SizeMB:       megabytes(v.SizeBytes),
			Size:         hub.HumanSize(v.SizeBytes),
			Digest:       v.Digest,
			LastPushed:   v.LastPushed,
		}
	})
	slices.SortStableFunc(breakdown, func(a, b PlatformBreakdown) int {
		switch {
		case a.SizeBytes > b.SizeBytes:
			return -1
		case a.SizeBytes < b.SizeBytes:
			return 1
		}
		return 0
	})

	report := &LayerAnalysis{
		Image: details.Image,
		Tag:   details.Tag,
		Summary: LayerSummary{
			TotalVariants:          len(runnable),
			ManifestEntries:        len(details.Variants) - len(runnable),
			ArchitecturesSupported: len(lo.Uniq(lo.Map(runnable, func(v hub.ImageVariant, _ int) string { return v.Architecture }))),
			TotalSizeAllVariantsMB: megabytes(details.TotalSizeAllVariants),
			PrimarySizeMB:          megabytes(details.SizeBytes),
		},
		Breakdown:      breakdown,
		BaseImageHints: []BaseImageHint{},
		LastUpdated:    details.LastUpdated,
		Digest:         details.Digest,
	}

	if len(runnable) > 0 {
		smallest := lo.MinBy(runnable, func(a, b hub.ImageVariant) bool { return a.SizeBytes < b.SizeBytes })
		largest := lo.MaxBy(runnable, func(a, b hub.ImageVariant) bool { return a.SizeBytes > b.SizeBytes })
		avg := float64(lo.SumBy(runnable, func(v hub.ImageVariant) int64 { return v.SizeBytes })) / float64(len(runnable))

		report.Smallest = &VariantSize{Architecture: smallest.Architecture, SizeMB: megabytes(smallest.SizeBytes)}
		report.Largest = &VariantSize{Architecture: largest.Architecture, SizeMB: megabytes(largest.SizeBytes)}
		report.Efficiency = sizeEfficiency(smallest.SizeBytes, largest.SizeBytes, avg)

		if float64(smallest.SizeBytes) < avg*minimalBaseRatio {
			size := megabytes(smallest.SizeBytes)
			report.BaseImageHints = append(report.BaseImageHints, BaseImageHint{
				Hint:         "possibly_alpine_based",
				Reason:       fmt.Sprintf("Smallest variant (%s) is significantly smaller than average", smallest.Architecture),
				Architecture: smallest.Architecture,
				SizeMB:       &size,
			})
		}
	} else {
		report.Efficiency = sizeEfficiency(0, 0, 0)
	}

	if hint, ok := tagNameHint(details.Tag); ok {
		report.BaseImageHints = append(report.BaseImageHints, hint)
	}

	return report
}

func sizeEfficiency(smallest, largest int64, avg float64) SizeEfficiency {
	var variance float64
	if avg > 0 {
		variance = float64(largest-smallest) / avg * 100
	}

	consistency := ConsistencyVariable
	switch {
	case variance < highConsistencyBelow:
		consistency = ConsistencyHigh
	case variance < mediumConsistencyBelow:
		consistency = ConsistencyMedium
	}

	return SizeEfficiency{
		SmallestVariantMB:   megabytes(smallest),
		LargestVariantMB:    megabytes(largest),
		AverageVariantMB:    round2(avg / bytesPerMB),
		SizeVariancePercent: round2(variance),
		SizeConsistency:     consistency,
	}
}

var debianCodenames = []string{"bookworm", "bullseye", "buster"}

func tagNameHint(tag string) (BaseImageHint, bool) {
	lower := strings.ToLower(tag)
	switch {
	case strings.Contains(lower, "alpine"):
		return BaseImageHint{Hint: "alpine_base_confirmed", Reason: "Tag name contains 'alpine'", Tag: tag}, true
	case strings.Contains(lower, "slim"):
		return BaseImageHint{Hint: "debian_slim_likely", Reason: "Tag name contains 'slim' (usually a Debian slim variant)", Tag: tag}, true
	case lo.SomeBy(debianCodenames, func(name string) bool { return strings.Contains(lower, name) }):
		return BaseImageHint{Hint: "debian_based", Reason: "Tag name contains a Debian release codename", Tag: tag}, true
	}
	return BaseImageHint{}, false
}
