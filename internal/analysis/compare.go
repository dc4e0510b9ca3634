package analysis

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/ajitpratap0/hubscout/internal/hub"
	hubErrors "github.com/ajitpratap0/hubscout/pkg/errors"
	"github.com/ajitpratap0/hubscout/pkg/logging"
)

const (
	// MinSubjects is the smallest comparison
	MinSubjects = 2
	// MaxSubjects bounds the number of sequential upstream lookups per comparison
	MaxSubjects = 10

	starWeight     = 0.4
	pullWeight     = 0.4
	officialWeight = 0.2
	officialPoints = 10.0
	normalizedMax  = 10.0

	tieEpsilon = 1e-9
)

// SubjectScore breaks down the recommendation score of one subject
type SubjectScore struct {
	Image    string  `json:"image"`
	Score    float64 `json:"score"`
	Stars    float64 `json:"stars_component"`
	Pulls    float64 `json:"pulls_component"`
	Official float64 `json:"official_component"`
}

// ComparisonReport juxtaposes two or more images and recommends one.
// Winner is nil when the top score is shared.
type ComparisonReport struct {
	Subjects  []hub.ImageSummary `json:"subjects"`
	Winner    *string            `json:"winner"`
	Scores    []SubjectScore     `json:"scores"`
	Rationale []string           `json:"rationale"`
}

// CompareImages fetches every named image and ranks them. Any failed lookup
// fails the whole comparison with a partial_failure naming every failed image.
func (a *Analyzer) CompareImages(ctx context.Context, names []string) (*ComparisonReport, error) {
	repos, err := normalizeSubjects(names)
	if err != nil {
		return nil, err
	}

	subjects := make([]hub.ImageSummary, 0, len(repos))
	var failed []hubErrors.FailedSubject
	for _, repo := range repos {
		details, err := a.source.GetImageDetails(ctx, repo.String())
		if err != nil {
			a.logger.WithContext(ctx).WithError(err).Warn("Comparison subject lookup failed",
				logging.String("image", repo.String()),
			)
			failed = append(failed, hubErrors.FailedSubject{
				Image:  repo.String(),
				Kind:   hubErrors.KindOf(err),
				Reason: err.Error(),
			})
			continue
		}
		subjects = append(subjects, details.ImageSummary)
	}

	if len(failed) > 0 {
		return nil, hubErrors.PartialFailure(len(repos), failed)
	}

	return Compare(subjects)
}

// Compare ranks already-fetched subjects. It is deterministic: the same
// subjects in the same order always produce the same report.
func Compare(subjects []hub.ImageSummary) (*ComparisonReport, error) {
	if len(subjects) < MinSubjects {
		return nil, hubErrors.InvalidArgumentf("compare_images needs at least %d images, got %d", MinSubjects, len(subjects))
	}

	scores := Score(subjects)
	report := &ComparisonReport{
		Subjects: subjects,
		Scores:   scores,
	}

	report.Rationale = append(report.Rationale, metricRationale(subjects, "pulls", func(s hub.ImageSummary) int64 { return s.PullCount })...)
	report.Rationale = append(report.Rationale, metricRationale(subjects, "stars", func(s hub.ImageSummary) int64 { return s.StarCount })...)
	report.Rationale = append(report.Rationale, officialRationale(subjects)...)

	leaders := topScorers(scores)
	if len(leaders) == 1 {
		winner := leaders[0].Image
		report.Winner = &winner
		report.Rationale = append(report.Rationale, fmt.Sprintf(
			"%s ranks highest with a score of %s out of 10 (pulls 40%%, stars 40%%, official status 20%%)",
			winner, formatScore(leaders[0].Score)))
	} else {
		names := lo.Map(leaders, func(s SubjectScore, _ int) string { return s.Image })
		report.Rationale = append(report.Rationale, fmt.Sprintf(
			"%s tie with a score of %s out of 10, no single image is recommended",
			strings.Join(names, " and "), formatScore(leaders[0].Score)))
	}

	return report, nil
}

// Score computes stars*0.4 + pulls*0.4 + official*0.2 where stars and pulls
// are scaled to 0..10 against the largest value among the subjects and an
// official image earns 10 points before weighting.
func Score(subjects []hub.ImageSummary) []SubjectScore {
	maxStars := lo.MaxBy(subjects, func(a, b hub.ImageSummary) bool { return a.StarCount > b.StarCount }).StarCount
	maxPulls := lo.MaxBy(subjects, func(a, b hub.ImageSummary) bool { return a.PullCount > b.PullCount }).PullCount

	return lo.Map(subjects, func(s hub.ImageSummary, _ int) SubjectScore {
		stars := normalize(s.StarCount, maxStars) * starWeight
		pulls := normalize(s.PullCount, maxPulls) * pullWeight
		official := 0.0
		if s.IsOfficial {
			official = officialPoints * officialWeight
		}
		return SubjectScore{
			Image:    s.FullName(),
			Score:    stars + pulls + official,
			Stars:    stars,
			Pulls:    pulls,
			Official: official,
		}
	})
}

func normalize(value, maxValue int64) float64 {
	if maxValue <= 0 {
		return 0
	}
	return normalizedMax * float64(value) / float64(maxValue)
}

// topScorers returns every subject within tieEpsilon of the best score, in input order
func topScorers(scores []SubjectScore) []SubjectScore {
	best := lo.MaxBy(scores, func(a, b SubjectScore) bool { return a.Score > b.Score }).Score
	return lo.Filter(scores, func(s SubjectScore, _ int) bool {
		return math.Abs(s.Score-best) < tieEpsilon
	})
}

// metricRationale compares the subject leading on a metric with every other subject
func metricRationale(subjects []hub.ImageSummary, metric string, value func(hub.ImageSummary) int64) []string {
	lead := 0
	for i, s := range subjects {
		if value(s) > value(subjects[lead]) {
			lead = i
		}
	}
	leader := subjects[lead]

	var out []string
	for i, other := range subjects {
		if i == lead {
			continue
		}
		top, low := value(leader), value(other)
		switch {
		case top == low:
			out = append(out, fmt.Sprintf("%s and %s have the same number of %s", leader.FullName(), other.FullName(), metric))
		case low == 0:
			out = append(out, fmt.Sprintf("%s has %d %s, %s has none", leader.FullName(), top, metric, other.FullName()))
		default:
			pct := float64(top-low) / float64(low) * 100
			out = append(out, fmt.Sprintf("%s has %s%% more %s than %s", leader.FullName(), formatPercent(pct), metric, other.FullName()))
		}
	}
	return out
}

func officialRationale(subjects []hub.ImageSummary) []string {
	official := lo.Filter(subjects, func(s hub.ImageSummary, _ int) bool { return s.IsOfficial })
	community := lo.Filter(subjects, func(s hub.ImageSummary, _ int) bool { return !s.IsOfficial })

	switch {
	case len(community) == 0:
		return []string{"All compared images are official"}
	case len(official) == 0:
		return []string{"All compared images are community-maintained"}
	}

	names := lo.Map(official, func(s hub.ImageSummary, _ int) string { return s.FullName() })
	verb := "is"
	if len(names) > 1 {
		verb = "are"
	}
	lead := strings.Join(names, " and ")

	return lo.Map(community, func(c hub.ImageSummary, _ int) string {
		return fmt.Sprintf("%s %s official, %s is community-maintained", lead, verb, c.FullName())
	})
}

// normalizeSubjects validates the name list and resolves each name to a
// repository, rejecting duplicates such as "nginx" and "library/nginx"
func normalizeSubjects(names []string) ([]hub.Repository, error) {
	if len(names) < MinSubjects {
		return nil, hubErrors.ParameterTooSmall("image_names", len(names), MinSubjects)
	}
	if len(names) > MaxSubjects {
		return nil, hubErrors.ParameterTooLarge("image_names", len(names), MaxSubjects)
	}

	repos := make([]hub.Repository, 0, len(names))
	var errs []hubErrors.MCPError
	for i, name := range names {
		repo, err := hub.ParseRepository(name)
		if err != nil {
			errs = append(errs, hubErrors.InvalidFormat(fmt.Sprintf("image_names[%d]", i), name, "[namespace/]repository"))
			continue
		}
		repos = append(repos, repo)
	}
	if len(errs) > 0 {
		return nil, hubErrors.CombineValidationErrors(errs)
	}

	if dupes := lo.FindDuplicates(lo.Map(repos, func(r hub.Repository, _ int) string { return r.String() })); len(dupes) > 0 {
		return nil, hubErrors.InvalidArgumentf("image_names lists the same image more than once: %s", strings.Join(dupes, ", "))
	}

	return repos, nil
}

func formatPercent(pct float64) string {
	return strconv.FormatFloat(math.Round(pct*10)/10, 'f', -1, 64)
}

func formatScore(score float64) string {
	return strconv.FormatFloat(round2(score), 'f', 2, 64)
}
