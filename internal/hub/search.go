package hub

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	hubErrors "github.com/ajitpratap0/hubscout/pkg/errors"
	"github.com/ajitpratap0/hubscout/pkg/pagination"
)

// SearchImages runs a repository search. page and pageSize of zero take the
// defaults; the returned page never holds more than pageSize results.
func (c *Client) SearchImages(ctx context.Context, query string, page, pageSize int) (*SearchPage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, hubErrors.MissingParameter("query")
	}

	p, err := pagination.Normalize(pagination.Params{Page: page, PageSize: pageSize})
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	err = c.getJSON(ctx, request{
		operation:     "search_images",
		endpoint:      "search",
		path:          []string{"v2", "search", "repositories"},
		trailingSlash: true,
		query: url.Values{
			"query":     {query},
			"page":      {strconv.Itoa(p.Page)},
			"page_size": {strconv.Itoa(p.PageSize)},
		},
	}, &resp)
	if err != nil {
		return nil, err
	}

	results := make([]ImageSummary, 0, len(resp.Results))
	for _, item := range pagination.Clip(resp.Results, p.PageSize) {
		repo := splitRepoName(item.RepoName)
		results = append(results, ImageSummary{
			Name:        repo.Name,
			Namespace:   repo.Namespace,
			Description: item.ShortDescription,
			StarCount:   max(item.StarCount, 0),
			PullCount:   max(item.PullCount, 0),
			IsOfficial:  item.IsOfficial,
		})
	}

	total := pagination.ReconcileTotal(p, resp.Count, len(results))
	return &SearchPage{
		Query:      query,
		Results:    results,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalCount: total,
		TotalPages: pagination.TotalPages(p, total),
		HasNext:    pagination.HasNextPage(p, total),
	}, nil
}
