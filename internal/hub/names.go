package hub

import (
	"strings"

	"github.com/distribution/reference"
	"github.com/google/go-containerregistry/pkg/name"
	v1 "github.com/google/go-containerregistry/pkg/v1"

	hubErrors "github.com/ajitpratap0/hubscout/pkg/errors"
)

const (
	// OfficialNamespace holds the Docker Official Images
	OfficialNamespace = "library"

	// DefaultTag is used when a tag argument is omitted
	DefaultTag = "latest"

	dockerHubDomain = "docker.io"
	imageNameFormat = "[namespace/]repository, e.g. nginx or bitnami/redis"
)

// Repository identifies a Docker Hub repository
type Repository struct {
	Namespace string
	Name      string
}

// String returns namespace/name
func (r Repository) String() string {
	return r.Namespace + "/" + r.Name
}

// IsOfficialNamespace reports whether the repository lives in the official
// images organization
func (r Repository) IsOfficialNamespace() bool {
	return r.Namespace == OfficialNamespace
}

// ParseRepository validates an image name of the form [namespace/]repo and
// normalizes it. Single-component names resolve to the library namespace.
// Tags, digests and registries other than Docker Hub are rejected.
//   - "nginx" -> library/nginx
//   - "docker.io/bitnami/redis" -> bitnami/redis
func ParseRepository(s string) (Repository, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Repository{}, hubErrors.MissingParameter("image_name")
	}

	named, err := reference.ParseNormalizedNamed(s)
	if err != nil {
		return Repository{}, hubErrors.InvalidFormat("image_name", s, imageNameFormat).WithDetail(err.Error())
	}

	if _, ok := named.(reference.Digested); ok {
		return Repository{}, hubErrors.InvalidFormat("image_name", s, "a repository name without a digest")
	}
	if _, ok := named.(reference.Tagged); ok {
		return Repository{}, hubErrors.InvalidFormat("image_name", s, "a repository name without a tag, pass the tag separately")
	}
	if domain := reference.Domain(named); domain != dockerHubDomain {
		return Repository{}, hubErrors.InvalidFormat("image_name", s, "a Docker Hub repository, got registry "+domain)
	}

	namespace, repo, ok := strings.Cut(reference.Path(named), "/")
	if !ok || strings.Contains(repo, "/") {
		return Repository{}, hubErrors.InvalidFormat("image_name", s, imageNameFormat)
	}

	return Repository{Namespace: namespace, Name: repo}, nil
}

// splitRepoName splits a repo_name as returned by the search endpoint, where
// official images carry no namespace
func splitRepoName(repoName string) Repository {
	if namespace, repo, ok := strings.Cut(repoName, "/"); ok {
		return Repository{Namespace: namespace, Name: repo}
	}
	return Repository{Namespace: OfficialNamespace, Name: repoName}
}

// ValidateTag checks tag against the registry tag grammar. Empty means latest.
func ValidateTag(repo Repository, tag string) (string, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return DefaultTag, nil
	}

	t, err := name.NewTag(repo.String() + ":" + tag)
	if err != nil || t.TagStr() != tag {
		return "", hubErrors.InvalidFormat("tag", tag, "a tag of at most 128 word characters, dots or dashes")
	}
	return t.TagStr(), nil
}

// normalizeDigest returns digest when it is a well-formed content digest and
// "" otherwise
func normalizeDigest(digest string) (string, bool) {
	if digest == "" {
		return "", true
	}
	h, err := v1.NewHash(digest)
	if err != nil {
		return "", false
	}
	return h.String(), true
}
