// Package toolset declares the hubscout tool catalogue and binds each tool to
// the hub adapter and the analysis unit.
package toolset

import (
	"context"
	"fmt"

	"github.com/ajitpratap0/hubscout/internal/analysis"
	"github.com/ajitpratap0/hubscout/internal/hub"
	"github.com/ajitpratap0/hubscout/pkg/logging"
	"github.com/ajitpratap0/hubscout/pkg/tools"
)

// Tool categories
const (
	CategoryDemo     = "demo"
	CategorySearch   = "search"
	CategoryInspect  = "inspect"
	CategoryAnalysis = "analysis"
)

// HubAPI is the registry adapter surface the tools call into
type HubAPI interface {
	analysis.ImageSource
	SearchImages(ctx context.Context, query string, page, pageSize int) (*hub.SearchPage, error)
	ListImageTags(ctx context.Context, imageName string, page, pageSize int) (*hub.TagPage, error)
}

// Toolset holds the dependencies tool handlers share
type Toolset struct {
	hub      HubAPI
	analyzer *analysis.Analyzer
}

// New creates a Toolset backed by api
func New(api HubAPI, logger logging.Logger) *Toolset {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Toolset{
		hub:      api,
		analyzer: analysis.New(api, analysis.WithLogger(logger)),
	}
}

// Register adds every tool to reg in catalogue order
func (s *Toolset) Register(reg *tools.Registry) error {
	for _, def := range s.Definitions() {
		if err := reg.Register(def); err != nil {
			return fmt.Errorf("register %s: %w", def.Name, err)
		}
	}
	return nil
}

// Definitions returns the tool catalogue
func (s *Toolset) Definitions() []tools.Definition {
	return []tools.Definition{
		{
			Name:        "greet",
			Description: "Greet a person by name",
			InputSchema: greetSchema,
			Categories:  []string{CategoryDemo},
			Annotations: tools.Annotations{Title: "Greet", ReadOnly: true},
			Handler:     s.greet,
		},
		{
			Name:        "search_images",
			Description: "Search Docker Hub for images matching a query. Returns one page of results with star and pull counts and whether each image is official.",
			InputSchema: searchImagesSchema,
			Categories:  []string{CategorySearch},
			Annotations: tools.Annotations{Title: "Search images", ReadOnly: true, OpenWorld: true},
			Handler:     s.searchImages,
		},
		{
			Name:        "get_image_details",
			Description: "Get Docker Hub metadata for one image: description, popularity, official status and update dates. Official images may be named without the library/ namespace.",
			InputSchema: imageNameSchema,
			Categories:  []string{CategoryInspect},
			Annotations: tools.Annotations{Title: "Image details", ReadOnly: true, OpenWorld: true},
			Handler:     s.getImageDetails,
		},
		{
			Name:        "list_image_tags",
			Description: "List the tags of an image, most recently updated first, with digest and compressed size.",
			InputSchema: listImageTagsSchema,
			Categories:  []string{CategoryInspect},
			Annotations: tools.Annotations{Title: "List tags", ReadOnly: true, OpenWorld: true},
			Handler:     s.listImageTags,
		},
		{
			Name:        "get_tag_details",
			Description: "Get manifest-level metadata for one tag, including every platform variant and its size.",
			InputSchema: tagDetailsSchema,
			Categories:  []string{CategoryInspect},
			Annotations: tools.Annotations{Title: "Tag details", ReadOnly: true, OpenWorld: true},
			Handler:     s.getTagDetails,
		},
		{
			Name: "compare_images",
			Description: fmt.Sprintf("Compare %d to %d images on pulls, stars and official status and recommend one. "+
				"The recommendation is omitted when the top score is shared.", analysis.MinSubjects, analysis.MaxSubjects),
			InputSchema: compareImagesSchema,
			Categories:  []string{CategoryAnalysis},
			Annotations: tools.Annotations{Title: "Compare images", ReadOnly: true, OpenWorld: true},
			Handler:     s.compareImages,
		},
		{
			Name:        "compare_tags",
			Description: "Compare two tags of the same image: size change, supported architectures, update timeline and whether they share a digest.",
			InputSchema: compareTagsSchema,
			Categories:  []string{CategoryAnalysis},
			Annotations: tools.Annotations{Title: "Compare tags", ReadOnly: true, OpenWorld: true},
			Handler:     s.compareTags,
		},
		{
			Name:        "analyze_image_layers",
			Description: "Break a tag down by platform: per-variant sizes, size consistency across platforms and hints about the base image.",
			InputSchema: tagDetailsSchema,
			Categories:  []string{CategoryAnalysis},
			Annotations: tools.Annotations{Title: "Analyze image layers", ReadOnly: true, OpenWorld: true},
			Handler:     s.analyzeImageLayers,
		},
	}
}
