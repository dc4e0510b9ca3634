package hub

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/hubscout/internal/hub/hubtest"
	hubErrors "github.com/ajitpratap0/hubscout/pkg/errors"
)

func TestGetImageDetails(t *testing.T) {
	hub := hubtest.NewServer(t)
	hub.AddRepository(
		hubtest.Repository{Namespace: "library", Name: "nginx", Description: "Official build of Nginx.", StarCount: 20000, PullCount: 1_000_000_000},
		hubtest.Repository{Namespace: "bitnami", Name: "redis", StarCount: 300, PullCount: 4_000_000, ReportOfficial: true},
		hubtest.Repository{Namespace: "docker", Name: "compose", IsOfficial: true, ReportOfficial: true},
	)
	c := newClient(t, hub.URL)

	t.Run("official namespace", func(t *testing.T) {
		details, err := c.GetImageDetails(context.Background(), "nginx")
		require.NoError(t, err)
		assert.Equal(t, "library/nginx", details.FullName())
		assert.True(t, details.IsOfficial)
		assert.Equal(t, int64(20000), details.StarCount)
		assert.Equal(t, []string{"Web Servers"}, details.Categories)
		require.NotNil(t, details.LastUpdated)
		assert.Equal(t, 2024, details.LastUpdated.Year())
		assert.Nil(t, details.DateRegistered, "empty timestamps decode to nil")
	})

	t.Run("upstream flag wins", func(t *testing.T) {
		details, err := c.GetImageDetails(context.Background(), "bitnami/redis")
		require.NoError(t, err)
		assert.False(t, details.IsOfficial)

		details, err = c.GetImageDetails(context.Background(), "docker/compose")
		require.NoError(t, err)
		assert.True(t, details.IsOfficial)
	})

	t.Run("request path", func(t *testing.T) {
		reqs := hub.Requests()
		require.NotEmpty(t, reqs)
		assert.Equal(t, "/v2/repositories/library/nginx/", reqs[0].URL.Path)
	})
}

func TestGetImageDetailsNotFound(t *testing.T) {
	hub := hubtest.NewServer(t)

	_, err := newClient(t, hub.URL).GetImageDetails(context.Background(), "nonexistent/nonexistent-xyz")
	require.Error(t, err)
	assert.True(t, hubErrors.IsKind(err, hubErrors.KindNotFound))
	assert.Contains(t, err.Error(), "nonexistent/nonexistent-xyz")
	assert.False(t, hubErrors.IsRetryableError(err))
}

func TestGetImageDetailsInvalidName(t *testing.T) {
	hub := hubtest.NewServer(t)

	_, err := newClient(t, hub.URL).GetImageDetails(context.Background(), "nginx:latest")
	require.Error(t, err)
	assert.True(t, hubErrors.IsKind(err, hubErrors.KindInvalidArgument))
	assert.Empty(t, hub.Requests())
}

func TestGetImageDetailsUpstreamFailure(t *testing.T) {
	hub := hubtest.NewServer(t)
	hub.AddRepository(hubtest.Repository{Namespace: "library", Name: "nginx"})
	hub.FailPath("/v2/repositories/library/nginx/", http.StatusServiceUnavailable)

	_, err := newClient(t, hub.URL).GetImageDetails(context.Background(), "nginx")
	require.Error(t, err)
	assert.True(t, hubErrors.IsKind(err, hubErrors.KindRegistryUnavailable))
	assert.Len(t, hub.Requests(), 1, "no automatic retry")
}
