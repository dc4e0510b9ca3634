// Package hubtest provides an in-memory fake of the Docker Hub v2 API for tests
package hubtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

// Repository is a fake repository. Official images use the library namespace.
type Repository struct {
	Namespace   string
	Name        string
	Description string
	StarCount   int64
	PullCount   int64
	// IsOfficial is reported by search. The repository endpoint only reports
	// it when ReportOfficial is set.
	IsOfficial     bool
	ReportOfficial bool
	Tags           []Tag
}

// FullName returns namespace/name
func (r Repository) FullName() string {
	return r.Namespace + "/" + r.Name
}

// Tag is a fake tag
type Tag struct {
	Name        string
	FullSize    int64
	LastUpdated time.Time
	Digest      string
	Images      []Image
}

// Image is one platform entry of a fake tag
type Image struct {
	Architecture string
	OS           string
	Variant      string
	Size         int64
	Digest       string
}

// Server serves the fake API
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	repos    map[string]Repository
	order    []string
	failures map[string]int
	// searchCount overrides the count reported by search when non-negative
	searchCount int
	requests    []*http.Request
}

// NewServer starts a fake Docker Hub that is closed when the test ends
func NewServer(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		repos:       make(map[string]Repository),
		failures:    make(map[string]int),
		searchCount: -1,
	}

	r := chi.NewRouter()
	r.Use(s.record)
	r.Get("/v2/search/repositories/", s.search)
	r.Get("/v2/repositories/{namespace}/{name}/", s.repository)
	r.Get("/v2/repositories/{namespace}/{name}/tags", s.tags)
	r.Get("/v2/repositories/{namespace}/{name}/tags/{tag}", s.tag)

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// AddRepository registers repositories; later additions replace earlier ones
func (s *Server) AddRepository(repos ...Repository) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, repo := range repos {
		name := repo.FullName()
		if _, exists := s.repos[name]; !exists {
			s.order = append(s.order, name)
		}
		s.repos[name] = repo
	}
}

// FailPath makes every request to path answer with status
func (s *Server) FailPath(path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[path] = status
}

// SetSearchCount overrides the total count reported by search
func (s *Server) SetSearchCount(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchCount = n
}

// Requests returns a copy of every request received so far
func (s *Server) Requests() []*http.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*http.Request(nil), s.requests...)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.Clone(r.Context()))
		status, failing := s.failures[r.URL.Path]
		s.mu.Unlock()

		if failing {
			http.Error(w, `{"message":"injected failure"}`, status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) lookup(r *http.Request) (Repository, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	repo, ok := s.repos[chi.URLParam(r, "namespace")+"/"+chi.URLParam(r, "name")]
	return repo, ok
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	query := strings.ToLower(r.URL.Query().Get("query"))
	page := intParam(r, "page", 1)
	pageSize := intParam(r, "page_size", 25)

	s.mu.Lock()
	var matches []Repository
	for _, name := range s.order {
		if strings.Contains(name, query) {
			matches = append(matches, s.repos[name])
		}
	}
	count := len(matches)
	if s.searchCount >= 0 {
		count = s.searchCount
	}
	s.mu.Unlock()

	results := make([]map[string]any, 0)
	for _, repo := range window(matches, page, pageSize) {
		repoName := repo.FullName()
		if repo.Namespace == "library" {
			repoName = repo.Name
		}
		results = append(results, map[string]any{
			"repo_name":         repoName,
			"short_description": repo.Description,
			"star_count":        repo.StarCount,
			"pull_count":        repo.PullCount,
			"is_official":       repo.IsOfficial,
			"is_automated":      false,
		})
	}

	writeJSON(w, map[string]any{"count": count, "results": results})
}

func (s *Server) repository(w http.ResponseWriter, r *http.Request) {
	repo, ok := s.lookup(r)
	if !ok {
		notFound(w)
		return
	}

	body := map[string]any{
		"name":               repo.Name,
		"namespace":          repo.Namespace,
		"description":        repo.Description,
		"star_count":         repo.StarCount,
		"pull_count":         repo.PullCount,
		"is_private":         false,
		"status_description": "active",
		"last_updated":       "2024-05-01T10:00:00.000000Z",
		"date_registered":    "",
		"categories":         []map[string]string{{"name": "Web Servers", "slug": "web-servers"}},
	}
	if repo.ReportOfficial {
		body["is_official"] = repo.IsOfficial
	}
	writeJSON(w, body)
}

func (s *Server) tags(w http.ResponseWriter, r *http.Request) {
	repo, ok := s.lookup(r)
	if !ok {
		notFound(w)
		return
	}

	tags := append([]Tag(nil), repo.Tags...)
	if r.URL.Query().Get("ordering") == "-last_updated" {
		sort.SliceStable(tags, func(i, j int) bool {
			return tags[i].LastUpdated.After(tags[j].LastUpdated)
		})
	}

	page := intParam(r, "page", 1)
	pageSize := intParam(r, "page_size", 25)
	results := make([]map[string]any, 0)
	for _, tag := range window(tags, page, pageSize) {
		results = append(results, tagBody(tag))
	}

	writeJSON(w, map[string]any{"count": len(tags), "results": results})
}

func (s *Server) tag(w http.ResponseWriter, r *http.Request) {
	repo, ok := s.lookup(r)
	if !ok {
		notFound(w)
		return
	}

	name := chi.URLParam(r, "tag")
	for _, tag := range repo.Tags {
		if tag.Name == name {
			writeJSON(w, tagBody(tag))
			return
		}
	}
	notFound(w)
}

func tagBody(tag Tag) map[string]any {
	images := make([]map[string]any, 0, len(tag.Images))
	for _, img := range tag.Images {
		images = append(images, map[string]any{
			"architecture": img.Architecture,
			"os":           img.OS,
			"variant":      img.Variant,
			"size":         img.Size,
			"digest":       img.Digest,
			"status":       "active",
			"last_pushed":  timestamp(tag.LastUpdated),
		})
	}

	return map[string]any{
		"name":                  tag.Name,
		"full_size":             tag.FullSize,
		"last_updated":          timestamp(tag.LastUpdated),
		"last_updater_username": "doijanky",
		"digest":                tag.Digest,
		"tag_status":            "active",
		"tag_last_pushed":       timestamp(tag.LastUpdated),
		"images":                images,
	}
}

func timestamp(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func window[T any](items []T, page, pageSize int) []T {
	start := (page - 1) * pageSize
	if start < 0 || start >= len(items) {
		return nil
	}
	end := min(start+pageSize, len(items))
	return items[start:end]
}

func intParam(r *http.Request, key string, def int) int {
	if n, err := strconv.Atoi(r.URL.Query().Get(key)); err == nil {
		return n
	}
	return def
}

func notFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte(`{"message":"object not found","errinfo":{}}`))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
