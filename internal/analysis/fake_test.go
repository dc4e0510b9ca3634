package analysis

import (
	"context"

	"github.com/ajitpratap0/hubscout/internal/hub"
	hubErrors "github.com/ajitpratap0/hubscout/pkg/errors"
)

// fakeSource serves canned records keyed by normalized name
type fakeSource struct {
	images map[string]hub.ImageSummary
	tags   map[string]*hub.TagDetails
	errs   map[string]error
	calls  []string
}

func newFakeSource(images ...hub.ImageSummary) *fakeSource {
	f := &fakeSource{
		images: make(map[string]hub.ImageSummary),
		tags:   make(map[string]*hub.TagDetails),
		errs:   make(map[string]error),
	}
	for _, img := range images {
		f.images[img.FullName()] = img
	}
	return f
}

func (f *fakeSource) GetImageDetails(ctx context.Context, imageName string) (*hub.ImageDetails, error) {
	f.calls = append(f.calls, imageName)
	if err, ok := f.errs[imageName]; ok {
		return nil, err
	}
	img, ok := f.images[imageName]
	if !ok {
		return nil, hubErrors.ImageNotFound(imageName)
	}
	return &hub.ImageDetails{ImageSummary: img}, nil
}

func (f *fakeSource) GetTagDetails(ctx context.Context, imageName, tag string) (*hub.TagDetails, error) {
	key := imageName + ":" + tag
	f.calls = append(f.calls, key)
	if err, ok := f.errs[key]; ok {
		return nil, err
	}
	d, ok := f.tags[key]
	if !ok {
		return nil, hubErrors.TagNotFound(imageName, tag)
	}
	return d, nil
}

func official(name string, stars, pulls int64) hub.ImageSummary {
	return hub.ImageSummary{Namespace: "library", Name: name, StarCount: stars, PullCount: pulls, IsOfficial: true}
}

func community(namespace, name string, stars, pulls int64) hub.ImageSummary {
	return hub.ImageSummary{Namespace: namespace, Name: name, StarCount: stars, PullCount: pulls}
}
