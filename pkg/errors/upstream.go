package errors

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// UpstreamErrorData contains structured data for Docker Hub request failures
type UpstreamErrorData struct {
	Endpoint   string        `json:"endpoint"`
	Operation  string        `json:"operation,omitempty"`
	StatusCode int           `json:"status_code,omitempty"`
	Timeout    time.Duration `json:"timeout,omitempty"`
	Reason     string        `json:"reason,omitempty"`
	Body       string        `json:"body,omitempty"`
}

// LookupErrorData contains structured data for missing images and tags
type LookupErrorData struct {
	Image string `json:"image"`
	Tag   string `json:"tag,omitempty"`
	Page  int    `json:"page,omitempty"`
}

// FailedSubject describes one image that could not be fetched during a comparison
type FailedSubject struct {
	Image  string `json:"image"`
	Kind   Kind   `json:"kind"`
	Reason string `json:"reason"`
}

// PartialFailureData lists every subject that failed during a comparison
type PartialFailureData struct {
	Requested int             `json:"requested"`
	Failed    []FailedSubject `json:"failed"`
}

// RegistryUnavailable reports a connection failure or 5xx from Docker Hub
func RegistryUnavailable(operation, endpoint string, statusCode int, cause error) MCPError {
	message := fmt.Sprintf("Docker Hub is unavailable during %s", operation)
	if statusCode > 0 {
		message = fmt.Sprintf("Docker Hub returned HTTP %d during %s", statusCode, operation)
	}

	return WrapError(cause, CodeRegistryUnavailable, message).WithData(&UpstreamErrorData{
		Endpoint:   redactEndpoint(endpoint),
		Operation:  operation,
		StatusCode: statusCode,
		Reason:     causeText(cause),
	})
}

// RateLimited reports a 429 from Docker Hub
func RateLimited(operation, endpoint string) MCPError {
	return NewError(
		CodeRateLimited,
		fmt.Sprintf("Docker Hub rate limit reached during %s", operation),
	).WithData(&UpstreamErrorData{
		Endpoint:   redactEndpoint(endpoint),
		Operation:  operation,
		StatusCode: 429,
		Reason:     "rate limited",
	})
}

// UpstreamTimeout reports a request that exceeded the configured timeout
func UpstreamTimeout(operation, endpoint string, timeout time.Duration, cause error) MCPError {
	return WrapError(
		cause,
		CodeUpstreamTimeout,
		fmt.Sprintf("Docker Hub request timed out after %v during %s", timeout, operation),
	).WithData(&UpstreamErrorData{
		Endpoint:  redactEndpoint(endpoint),
		Operation: operation,
		Timeout:   timeout,
		Reason:    "timeout",
	})
}

// InvalidQuery reports a 4xx rejection from Docker Hub
func InvalidQuery(operation, endpoint string, statusCode int, body string) MCPError {
	return NewError(
		CodeInvalidQuery,
		fmt.Sprintf("Docker Hub rejected the %s request with HTTP %d", operation, statusCode),
	).WithData(&UpstreamErrorData{
		Endpoint:   redactEndpoint(endpoint),
		Operation:  operation,
		StatusCode: statusCode,
		Body:       truncate(body, 256),
	})
}

// ResponseParse reports a Docker Hub response that could not be decoded
func ResponseParse(operation, endpoint string, cause error) MCPError {
	return WrapError(
		cause,
		CodeResponseParse,
		fmt.Sprintf("Could not decode Docker Hub response for %s", operation),
	).WithData(&UpstreamErrorData{
		Endpoint:  redactEndpoint(endpoint),
		Operation: operation,
		Reason:    causeText(cause),
	})
}

// ImageNotFound reports an image that does not exist on Docker Hub
func ImageNotFound(image string) MCPError {
	return NewError(
		CodeImageNotFound,
		fmt.Sprintf("Image '%s' not found", image),
	).WithData(&LookupErrorData{Image: image})
}

// TagNotFound reports a tag that does not exist for an image
func TagNotFound(image, tag string) MCPError {
	return NewError(
		CodeImageNotFound,
		fmt.Sprintf("Tag '%s' not found for image '%s'", tag, image),
	).WithData(&LookupErrorData{Image: image, Tag: tag})
}

// TagPageNotFound reports a 404 for a page of tags past the first. Docker
// Hub answers this way both for a page past the end and for a missing image.
func TagPageNotFound(image string, page int) MCPError {
	return NewError(
		CodeImageNotFound,
		fmt.Sprintf("Page %d of tags for image '%s' not found; the image has fewer tags than that or does not exist", page, image),
	).WithData(&LookupErrorData{Image: image, Page: page})
}

// PartialFailure reports that some comparison subjects could not be fetched
func PartialFailure(requested int, failed []FailedSubject) MCPError {
	names := make([]string, len(failed))
	for i, f := range failed {
		names[i] = f.Image
	}

	return NewError(
		CodePartialFailure,
		fmt.Sprintf("Could not fetch %d of %d images: %s", len(failed), requested, strings.Join(names, ", ")),
	).WithData(&PartialFailureData{
		Requested: requested,
		Failed:    failed,
	})
}

// redactEndpoint drops the query string so search terms do not leak into logs twice
func redactEndpoint(endpoint string) string {
	if endpoint == "" {
		return ""
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return endpoint
	}
	u.RawQuery = ""
	return u.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
