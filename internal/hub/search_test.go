package hub

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/hubscout/internal/hub/hubtest"
	hubErrors "github.com/ajitpratap0/hubscout/pkg/errors"
)

func TestSearchImages(t *testing.T) {
	hub := hubtest.NewServer(t)
	hub.AddRepository(
		hubtest.Repository{Namespace: "library", Name: "nginx", Description: "Official build of Nginx.", StarCount: 20000, PullCount: 1_000_000_000, IsOfficial: true},
		hubtest.Repository{Namespace: "bitnami", Name: "nginx", StarCount: 190, PullCount: 50_000_000},
		hubtest.Repository{Namespace: "nginxinc", Name: "nginx-unprivileged", StarCount: 150},
	)
	hub.SetSearchCount(500)

	page, err := newClient(t, hub.URL).SearchImages(context.Background(), "nginx", 1, 2)
	require.NoError(t, err)

	assert.Equal(t, "nginx", page.Query)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 2, page.PageSize)
	assert.Equal(t, 500, page.TotalCount)
	assert.Equal(t, 250, page.TotalPages)
	assert.True(t, page.HasNext)
	require.Len(t, page.Results, 2)

	official := page.Results[0]
	assert.Equal(t, "library/nginx", official.FullName())
	assert.True(t, official.IsOfficial)
	assert.Equal(t, int64(1_000_000_000), official.PullCount)
	assert.Equal(t, "Official build of Nginx.", official.Description)

	community := page.Results[1]
	assert.Equal(t, "bitnami/nginx", community.FullName())
	assert.False(t, community.IsOfficial)

	reqs := hub.Requests()
	require.Len(t, reqs, 1)
	q := reqs[0].URL.Query()
	assert.Equal(t, "nginx", q.Get("query"))
	assert.Equal(t, "1", q.Get("page"))
	assert.Equal(t, "2", q.Get("page_size"))
}

func TestSearchImagesOfficialnessComesFromUpstream(t *testing.T) {
	hub := hubtest.NewServer(t)
	// "official" in the name must not make a community image official
	hub.AddRepository(hubtest.Repository{Namespace: "someone", Name: "official-nginx"})

	page, err := newClient(t, hub.URL).SearchImages(context.Background(), "official", 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.False(t, page.Results[0].IsOfficial)
}

func TestSearchImagesNeverExceedsPageSize(t *testing.T) {
	oversized := make([]string, 0, 30)
	for i := 0; i < 30; i++ {
		oversized = append(oversized, fmt.Sprintf(`{"repo_name":"user/img%d","star_count":%d,"pull_count":1}`, i, i))
	}
	body := fmt.Sprintf(`{"count":30,"results":[%s]}`, joinJSON(oversized))

	c := newStubClient(t, jsonHandler(body))
	for _, size := range []int{1, 2, 7, 25} {
		page, err := c.SearchImages(context.Background(), "img", 1, size)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(page.Results), size)
		assert.Equal(t, size, page.PageSize)
	}
}

func TestSearchImagesReconcilesUnderreportedTotal(t *testing.T) {
	c := newStubClient(t, jsonHandler(`{"count":0,"results":[{"repo_name":"a/b"},{"repo_name":"c/d"}]}`))

	page, err := c.SearchImages(context.Background(), "x", 3, 2)
	require.NoError(t, err)
	require.Len(t, page.Results, 2)
	assert.Equal(t, 6, page.TotalCount)
	assert.Less(t, page.PageSize*(page.Page-1), page.TotalCount)
}

func TestSearchImagesDefaults(t *testing.T) {
	hub := hubtest.NewServer(t)

	page, err := newClient(t, hub.URL).SearchImages(context.Background(), "anything", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 25, page.PageSize)
	assert.Empty(t, page.Results)
	assert.NotNil(t, page.Results)
	assert.Equal(t, 0, page.TotalCount)
	assert.Equal(t, 0, page.TotalPages)
}

func TestSearchImagesValidation(t *testing.T) {
	hub := hubtest.NewServer(t)
	c := newClient(t, hub.URL)

	tests := []struct {
		name     string
		query    string
		page     int
		pageSize int
		code     int
	}{
		{"empty query", "  ", 1, 10, hubErrors.CodeMissingParameter},
		{"negative page", "nginx", -1, 10, hubErrors.CodeInvalidPage},
		{"page size above max", "nginx", 1, 101, hubErrors.CodeInvalidPageSize},
		{"negative page size", "nginx", 1, -5, hubErrors.CodeInvalidPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.SearchImages(context.Background(), tt.query, tt.page, tt.pageSize)
			require.Error(t, err)
			assert.True(t, hubErrors.IsKind(err, hubErrors.KindInvalidArgument))
			assert.True(t, hubErrors.IsCode(err, tt.code), "got %v", err)
		})
	}

	assert.Empty(t, hub.Requests(), "invalid input never reaches Docker Hub")
}
