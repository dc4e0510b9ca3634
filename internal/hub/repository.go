package hub

import (
	"context"

	"github.com/samber/lo"

	hubErrors "github.com/ajitpratap0/hubscout/pkg/errors"
)

// GetImageDetails fetches repository metadata for imageName ([namespace/]repo)
func (c *Client) GetImageDetails(ctx context.Context, imageName string) (*ImageDetails, error) {
	repo, err := ParseRepository(imageName)
	if err != nil {
		return nil, err
	}

	var resp repositoryResponse
	err = c.getJSON(ctx, request{
		operation:     "get_image_details",
		endpoint:      "repository",
		path:          []string{"v2", "repositories", repo.Namespace, repo.Name},
		trailingSlash: true,
		notFound:      notFoundImage(repo),
	}, &resp)
	if err != nil {
		return nil, err
	}

	if resp.Namespace != "" {
		repo.Namespace = resp.Namespace
	}
	if resp.Name != "" {
		repo.Name = resp.Name
	}

	// The repository endpoint only sometimes carries is_official; when it is
	// absent the official images organization is authoritative.
	official := repo.IsOfficialNamespace()
	if resp.IsOfficial != nil {
		official = *resp.IsOfficial
	}

	return &ImageDetails{
		ImageSummary: ImageSummary{
			Name:        repo.Name,
			Namespace:   repo.Namespace,
			Description: resp.Description,
			StarCount:   max(resp.StarCount, 0),
			PullCount:   max(resp.PullCount, 0),
			IsOfficial:  official,
		},
		IsAutomated:       resp.IsAutomated,
		IsPrivate:         resp.IsPrivate,
		StatusDescription: resp.StatusDescription,
		Categories: lo.FilterMap(resp.Categories, func(cat category, _ int) (string, bool) {
			return cat.Name, cat.Name != ""
		}),
		LastUpdated:    resp.LastUpdated.ptr(),
		DateRegistered: resp.DateRegistered.ptr(),
	}, nil
}

func notFoundImage(repo Repository) func() error {
	return func() error {
		return hubErrors.ImageNotFound(repo.String())
	}
}
