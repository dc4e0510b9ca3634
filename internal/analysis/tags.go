package analysis

import (
	"context"
	"slices"
	"time"

	"github.com/samber/lo"

	"github.com/ajitpratap0/hubscout/internal/hub"
	hubErrors "github.com/ajitpratap0/hubscout/pkg/errors"
)

// SizeComparison compares the primary image size of two tags
type SizeComparison struct {
	Tag1Bytes            int64   `json:"tag1_bytes"`
	Tag2Bytes            int64   `json:"tag2_bytes"`
	DifferenceBytes      int64   `json:"difference_bytes"`
	DifferencePercent    float64 `json:"difference_percent"`
	Change               string  `json:"change"`
	Tag1TotalAllVariants int64   `json:"tag1_total_all_variants"`
	Tag2TotalAllVariants int64   `json:"tag2_total_all_variants"`
}

// ArchitectureSize compares one architecture present in both tags
type ArchitectureSize struct {
	Architecture      string  `json:"architecture"`
	Tag1Bytes         int64   `json:"tag1_bytes"`
	Tag2Bytes         int64   `json:"tag2_bytes"`
	DifferenceBytes   int64   `json:"difference_bytes"`
	DifferencePercent float64 `json:"difference_percent"`
	Change            string  `json:"change"`
}

// ArchitectureComparison lists which platforms each tag supports
type ArchitectureComparison struct {
	Common          []string           `json:"common"`
	OnlyInTag1      []string           `json:"only_in_tag1"`
	OnlyInTag2      []string           `json:"only_in_tag2"`
	PerArchitecture []ArchitectureSize `json:"per_architecture"`
}

// Timeline compares when the two tags were last updated
type Timeline struct {
	Tag1Updated        time.Time `json:"tag1_updated"`
	Tag2Updated        time.Time `json:"tag2_updated"`
	DaysBetweenUpdates float64   `json:"days_between_updates"`
	NewerTag           string    `json:"newer_tag"`
}

// DigestComparison reports whether both tags point at the same manifest
type DigestComparison struct {
	Tag1Digest string `json:"tag1_digest,omitempty"`
	Tag2Digest string `json:"tag2_digest,omitempty"`
	Match      bool   `json:"match"`
}

// TagComparison is a side-by-side view of two tags of one image
type TagComparison struct {
	Image         string                 `json:"image"`
	Tag1          string                 `json:"tag1"`
	Tag2          string                 `json:"tag2"`
	Size          SizeComparison         `json:"size"`
	Architectures ArchitectureComparison `json:"architectures"`
	// Timeline is nil when either tag has no update timestamp
	Timeline      *Timeline              `json:"timeline,omitempty"`
	Digests       DigestComparison       `json:"digests"`
	Tag1Variants  int                    `json:"tag1_variants"`
	Tag2Variants  int                    `json:"tag2_variants"`
}

// CompareTags fetches two tags of imageName and compares them
func (a *Analyzer) CompareTags(ctx context.Context, imageName, tag1, tag2 string) (*TagComparison, error) {
	var (
		details [2]*hub.TagDetails
		failed  []hubErrors.FailedSubject
	)
	for i, tag := range []string{tag1, tag2} {
		d, err := a.source.GetTagDetails(ctx, imageName, tag)
		if err != nil {
			// argument problems are the caller's to fix, not a partial result
			if hubErrors.IsKind(err, hubErrors.KindInvalidArgument) {
				return nil, err
			}
			failed = append(failed, hubErrors.FailedSubject{
				Image:  imageName + ":" + tag,
				Kind:   hubErrors.KindOf(err),
				Reason: err.Error(),
			})
			continue
		}
		details[i] = d
	}
	if len(failed) > 0 {
		return nil, hubErrors.PartialFailure(2, failed)
	}

	return CompareTagDetails(details[0], details[1]), nil
}

// CompareTagDetails compares two already-fetched tags
func CompareTagDetails(d1, d2 *hub.TagDetails) *TagComparison {
	diff := d2.SizeBytes - d1.SizeBytes

	archs1 := architectures(d1)
	archs2 := architectures(d2)
	common := lo.Filter(archs1, func(arch string, _ int) bool { return lo.Contains(archs2, arch) })
	only1, only2 := lo.Difference(archs1, archs2)

	perArch := lo.Map(common, func(arch string, _ int) ArchitectureSize {
		v1 := firstVariant(d1, arch)
		v2 := firstVariant(d2, arch)
		archDiff := v2.SizeBytes - v1.SizeBytes
		return ArchitectureSize{
			Architecture:      arch,
			Tag1Bytes:         v1.SizeBytes,
			Tag2Bytes:         v2.SizeBytes,
			DifferenceBytes:   archDiff,
			DifferencePercent: percentChange(v1.SizeBytes, v2.SizeBytes),
			Change:            sizeChange(archDiff),
		}
	})

	return &TagComparison{
		Image: d1.Image,
		Tag1:  d1.Tag,
		Tag2:  d2.Tag,
		Size: SizeComparison{
			Tag1Bytes:            d1.SizeBytes,
			Tag2Bytes:            d2.SizeBytes,
			DifferenceBytes:      diff,
			DifferencePercent:    percentChange(d1.SizeBytes, d2.SizeBytes),
			Change:               sizeChange(diff),
			Tag1TotalAllVariants: d1.TotalSizeAllVariants,
			Tag2TotalAllVariants: d2.TotalSizeAllVariants,
		},
		Architectures: ArchitectureComparison{
			Common:          nonNil(common),
			OnlyInTag1:      nonNil(only1),
			OnlyInTag2:      nonNil(only2),
			PerArchitecture: perArch,
		},
		Timeline: timeline(d1, d2),
		Digests: DigestComparison{
			Tag1Digest: d1.Digest,
			Tag2Digest: d2.Digest,
			Match:      d1.Digest != "" && d1.Digest == d2.Digest,
		},
		Tag1Variants: len(d1.Variants),
		Tag2Variants: len(d2.Variants),
	}
}

// architectures returns the sorted set of runnable architectures of a tag
func architectures(d *hub.TagDetails) []string {
	archs := lo.Uniq(lo.FilterMap(d.Variants, func(v hub.ImageVariant, _ int) (string, bool) {
		return v.Architecture, !v.IsManifestEntry()
	}))
	slices.Sort(archs)
	return archs
}

func firstVariant(d *hub.TagDetails, arch string) hub.ImageVariant {
	v, _ := lo.Find(d.Variants, func(v hub.ImageVariant) bool { return v.Architecture == arch })
	return v
}

func timeline(d1, d2 *hub.TagDetails) *Timeline {
	if d1.LastUpdated == nil || d2.LastUpdated == nil {
		return nil
	}
	t1, t2 := *d1.LastUpdated, *d2.LastUpdated

	newer := d1.Tag
	if t2.After(t1) {
		newer = d2.Tag
	}

	gap := t2.Sub(t1)
	if gap < 0 {
		gap = -gap
	}

	return &Timeline{
		Tag1Updated:        t1,
		Tag2Updated:        t2,
		DaysBetweenUpdates: round2(gap.Hours() / 24),
		NewerTag:           newer,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
