package hub

import (
	"context"
	"net/url"
	"slices"
	"strconv"

	"github.com/samber/lo"

	hubErrors "github.com/ajitpratap0/hubscout/pkg/errors"
	"github.com/ajitpratap0/hubscout/pkg/logging"
	"github.com/ajitpratap0/hubscout/pkg/pagination"
)

// ListImageTags lists a page of tags for imageName, most recently updated
// first. Docker Hub is asked for that ordering and the page is re-sorted
// locally so the guarantee does not depend on upstream behaviour.
func (c *Client) ListImageTags(ctx context.Context, imageName string, page, pageSize int) (*TagPage, error) {
	repo, err := ParseRepository(imageName)
	if err != nil {
		return nil, err
	}

	p, err := pagination.Normalize(pagination.Params{Page: page, PageSize: pageSize})
	if err != nil {
		return nil, err
	}

	var resp tagsResponse
	err = c.getJSON(ctx, request{
		operation: "list_image_tags",
		endpoint:  "tags",
		path:      []string{"v2", "repositories", repo.Namespace, repo.Name, "tags"},
		query: url.Values{
			"page":      {strconv.Itoa(p.Page)},
			"page_size": {strconv.Itoa(p.PageSize)},
			"ordering":  {"-last_updated"},
		},
		notFound: func() error {
			if p.Page > pagination.FirstPage {
				return hubErrors.TagPageNotFound(repo.String(), p.Page)
			}
			return hubErrors.ImageNotFound(repo.String())
		},
	}, &resp)
	if err != nil {
		return nil, err
	}

	tags := make([]ImageTag, 0, len(resp.Results))
	for _, t := range pagination.Clip(resp.Results, p.PageSize) {
		tags = append(tags, ImageTag{
			Name:         t.Name,
			LastUpdated:  t.LastUpdated.ptr(),
			Digest:       c.digest(ctx, repo, t.Name, t.Digest),
			SizeBytes:    max(t.FullSize, 0),
			Size:         HumanSize(t.FullSize),
			LastUpdater:  t.LastUpdaterUsername,
			VariantCount: len(t.Images),
		})
	}
	slices.SortStableFunc(tags, newestFirst)

	total := pagination.ReconcileTotal(p, resp.Count, len(tags))
	return &TagPage{
		Image:      repo.String(),
		Tags:       tags,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalCount: total,
		TotalPages: pagination.TotalPages(p, total),
		HasNext:    pagination.HasNextPage(p, total),
	}, nil
}

// GetTagDetails fetches the per-platform manifest metadata behind one tag
func (c *Client) GetTagDetails(ctx context.Context, imageName, tag string) (*TagDetails, error) {
	repo, err := ParseRepository(imageName)
	if err != nil {
		return nil, err
	}
	tag, err = ValidateTag(repo, tag)
	if err != nil {
		return nil, err
	}

	var resp tagResponse
	err = c.getJSON(ctx, request{
		operation: "get_tag_details",
		endpoint:  "tag",
		path:      []string{"v2", "repositories", repo.Namespace, repo.Name, "tags", tag},
		notFound: func() error {
			return hubErrors.TagNotFound(repo.String(), tag)
		},
	}, &resp)
	if err != nil {
		return nil, err
	}

	variants := lo.Map(resp.Images, func(img imageResponse, _ int) ImageVariant {
		return ImageVariant{
			Architecture: img.Architecture,
			OS:           img.OS,
			Variant:      img.Variant,
			SizeBytes:    max(img.Size, 0),
			Digest:       c.digest(ctx, repo, tag, img.Digest),
			Status:       img.Status,
			LastPushed:   img.LastPushed.ptr(),
		}
	})

	return &TagDetails{
		Image:     repo.String(),
		Tag:       tag,
		Digest:    c.digest(ctx, repo, tag, resp.Digest),
		SizeBytes: max(resp.FullSize, 0),
		Size:      HumanSize(resp.FullSize),
		TotalSizeAllVariants: lo.SumBy(variants, func(v ImageVariant) int64 {
			return v.SizeBytes
		}),
		LastUpdated: resp.LastUpdated.ptr(),
		LastUpdater: resp.LastUpdaterUsername,
		TagStatus:   resp.TagStatus,
		LastPushed:  resp.TagLastPushed.ptr(),
		Variants:    variants,
	}, nil
}

// digest drops malformed digests rather than passing them to the caller
func (c *Client) digest(ctx context.Context, repo Repository, tag, digest string) string {
	d, ok := normalizeDigest(digest)
	if !ok {
		c.logger.WithContext(ctx).Warn("Dropping malformed digest",
			logging.String("image", repo.String()),
			logging.String("tag", tag),
			logging.String("digest", digest),
		)
	}
	return d
}

// newestFirst orders by last_updated descending; tags without a timestamp sort last
func newestFirst(a, b ImageTag) int {
	switch {
	case a.LastUpdated == nil && b.LastUpdated == nil:
		return 0
	case a.LastUpdated == nil:
		return 1
	case b.LastUpdated == nil:
		return -1
	}
	return b.LastUpdated.Compare(*a.LastUpdated)
}
