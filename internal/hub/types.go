package hub

import (
	"strings"
	"time"

	"github.com/c2h5oh/datasize"
)

// ImageSummary is the normalized view of one repository
type ImageSummary struct {
	Name        string `json:"name"`
	Namespace   string `json:"namespace"`
	Description string `json:"description,omitempty"`
	StarCount   int64  `json:"star_count"`
	PullCount   int64  `json:"pull_count"`
	IsOfficial  bool   `json:"is_official"`
}

// FullName returns namespace/name
func (s ImageSummary) FullName() string {
	return s.Repository().String()
}

// Repository returns the repository the summary describes
func (s ImageSummary) Repository() Repository {
	return Repository{Namespace: s.Namespace, Name: s.Name}
}

// ImageDetails extends ImageSummary with repository metadata
type ImageDetails struct {
	ImageSummary
	IsAutomated       bool       `json:"is_automated"`
	IsPrivate         bool       `json:"is_private"`
	StatusDescription string     `json:"status_description,omitempty"`
	Categories        []string   `json:"categories,omitempty"`
	LastUpdated       *time.Time `json:"last_updated,omitempty"`
	DateRegistered    *time.Time `json:"date_registered,omitempty"`
}

// SearchPage is one page of search results
type SearchPage struct {
	Query      string         `json:"query"`
	Results    []ImageSummary `json:"results"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalCount int            `json:"total_count"`
	TotalPages int            `json:"total_pages"`
	HasNext    bool           `json:"has_next"`
}

// ImageTag is one tag of a repository
type ImageTag struct {
	Name         string     `json:"name"`
	LastUpdated  *time.Time `json:"last_updated,omitempty"`
	Digest       string     `json:"digest,omitempty"`
	SizeBytes    int64      `json:"size_bytes"`
	Size         string     `json:"size"`
	LastUpdater  string     `json:"last_updater,omitempty"`
	VariantCount int        `json:"variant_count"`
}

// TagPage is one page of tags, most recently updated first
type TagPage struct {
	Image      string     `json:"image"`
	Tags       []ImageTag `json:"tags"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalCount int        `json:"total_count"`
	TotalPages int        `json:"total_pages"`
	HasNext    bool       `json:"has_next"`
}

// ImageVariant is one platform-specific manifest behind a tag
type ImageVariant struct {
	Architecture string     `json:"architecture"`
	OS           string     `json:"os"`
	Variant      string     `json:"variant,omitempty"`
	SizeBytes    int64      `json:"size_bytes"`
	Digest       string     `json:"digest,omitempty"`
	Status       string     `json:"status,omitempty"`
	LastPushed   *time.Time `json:"last_pushed,omitempty"`
}

// Platform returns os/arch[/variant]
func (v ImageVariant) Platform() string {
	p := v.OS + "/" + v.Architecture
	if v.Variant != "" {
		p += "/" + v.Variant
	}
	return p
}

// IsManifestEntry reports whether the variant is an attestation or index
// entry rather than a runnable image. Docker Hub reports those with
// architecture "unknown".
func (v ImageVariant) IsManifestEntry() bool {
	return v.Architecture == "unknown"
}

// TagDetails is the manifest-level view of one tag
type TagDetails struct {
	Image                string         `json:"image"`
	Tag                  string         `json:"tag"`
	Digest               string         `json:"digest,omitempty"`
	SizeBytes            int64          `json:"size_bytes"`
	Size                 string         `json:"size"`
	TotalSizeAllVariants int64          `json:"total_size_all_variants"`
	LastUpdated          *time.Time     `json:"last_updated,omitempty"`
	LastUpdater          string         `json:"last_updater,omitempty"`
	TagStatus            string         `json:"tag_status,omitempty"`
	LastPushed           *time.Time     `json:"last_pushed,omitempty"`
	Variants             []ImageVariant `json:"variants"`
}

// HumanSize renders a byte count the way Docker Hub's UI does
func HumanSize(bytes int64) string {
	if bytes <= 0 {
		return "0 B"
	}
	return datasize.ByteSize(bytes).HumanReadable()
}

// upstream wire shapes

// hubTime tolerates the empty strings Docker Hub sends for unset timestamps
type hubTime struct {
	t *time.Time
}

func (h *hubTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return err
	}
	h.t = &t
	return nil
}

func (h hubTime) ptr() *time.Time {
	return h.t
}

type searchResponse struct {
	Count   int            `json:"count"`
	Results []searchResult `json:"results"`
}

type searchResult struct {
	RepoName         string `json:"repo_name"`
	ShortDescription string `json:"short_description"`
	StarCount        int64  `json:"star_count"`
	PullCount        int64  `json:"pull_count"`
	IsOfficial       bool   `json:"is_official"`
	IsAutomated      bool   `json:"is_automated"`
}

type repositoryResponse struct {
	Name              string     `json:"name"`
	Namespace         string     `json:"namespace"`
	Description       string     `json:"description"`
	StarCount         int64      `json:"star_count"`
	PullCount         int64      `json:"pull_count"`
	IsOfficial        *bool      `json:"is_official"`
	IsAutomated       bool       `json:"is_automated"`
	IsPrivate         bool       `json:"is_private"`
	StatusDescription string     `json:"status_description"`
	LastUpdated       hubTime    `json:"last_updated"`
	DateRegistered    hubTime    `json:"date_registered"`
	Categories        []category `json:"categories"`
}

type category struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type tagsResponse struct {
	Count   int           `json:"count"`
	Results []tagResponse `json:"results"`
}

type tagResponse struct {
	Name                string          `json:"name"`
	FullSize            int64           `json:"full_size"`
	LastUpdated         hubTime         `json:"last_updated"`
	LastUpdaterUsername string          `json:"last_updater_username"`
	Digest              string          `json:"digest"`
	TagStatus           string          `json:"tag_status"`
	TagLastPushed       hubTime         `json:"tag_last_pushed"`
	Images              []imageResponse `json:"images"`
}

type imageResponse struct {
	Architecture string  `json:"architecture"`
	OS           string  `json:"os"`
	Variant      string  `json:"variant"`
	Size         int64   `json:"size"`
	Digest       string  `json:"digest"`
	Status       string  `json:"status"`
	LastPushed   hubTime `json:"last_pushed"`
}
