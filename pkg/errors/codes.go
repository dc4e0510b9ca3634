package errors

import "sort"

// JSON-RPC 2.0 standard error codes used at the protocol edge
const (
	CodeParseError     int = -32700
	CodeInvalidParams  int = -32602
	CodeInternalError  int = -32603
	CodeMethodNotFound int = -32601
)

// hubscout error codes
const (
	// Tool registry errors (-32100 to -32199)
	CodeDuplicateTool  int = -32100 // Tool name registered twice
	CodeToolNotFound   int = -32101 // No tool with the requested name
	CodeRegistrySealed int = -32102 // Registration attempted after startup
	CodeHandlerError   int = -32103 // Tool handler failed unexpectedly
	CodeInvalidSchema  int = -32104 // Declared input schema does not compile

	// Lookup errors (-32200 to -32299)
	CodeImageNotFound int = -32200 // Image or tag does not exist upstream

	// Comparison errors (-32300 to -32399)
	CodePartialFailure int = -32300 // One or more compared images could not be fetched

	// Upstream errors (-32500 to -32599)
	CodeRegistryUnavailable int = -32500 // Docker Hub unreachable, timed out or 5xx
	CodeInvalidQuery        int = -32501 // Docker Hub rejected the request (4xx)
	CodeResponseParse       int = -32502 // Docker Hub response could not be decoded
	CodeRateLimited         int = -32503 // Docker Hub answered 429
	CodeUpstreamTimeout     int = -32504 // Request exceeded the configured timeout

	// Validation errors (-32750 to -32799)
	CodeInvalidArgument   int = -32750 // Generic argument validation error
	CodeMissingParameter  int = -32751 // Required parameter missing
	CodeInvalidParameter  int = -32752 // Parameter has invalid value
	CodeParameterTooLarge int = -32753 // Parameter value too large
	CodeParameterTooSmall int = -32754 // Parameter value too small
	CodeInvalidFormat     int = -32755 // Parameter has invalid format

	// Pagination errors (-32800 to -32899)
	CodeInvalidPage     int = -32800 // Page number below 1
	CodeInvalidPageSize int = -32801 // Page size outside the accepted range
)

// ErrorCodeInfo provides human-readable information about error codes
type ErrorCodeInfo struct {
	Code        int
	Name        string
	Description string
	Kind        Kind
	Category    Category
	Severity    Severity
	Retryable   bool
}

var errorCodeRegistry = map[int]ErrorCodeInfo{
	CodeParseError:     {CodeParseError, "ParseError", "Invalid JSON was received", KindInvalidArgument, CategoryValidation, SeverityError, false},
	CodeInvalidParams:  {CodeInvalidParams, "InvalidParams", "Invalid method parameters", KindInvalidArgument, CategoryValidation, SeverityError, false},
	CodeInternalError:  {CodeInternalError, "InternalError", "Internal error", KindInternal, CategoryInternal, SeverityError, false},
	CodeMethodNotFound: {CodeMethodNotFound, "MethodNotFound", "Method does not exist", KindNotFound, CategoryNotFound, SeverityError, false},

	CodeDuplicateTool:  {CodeDuplicateTool, "DuplicateTool", "Tool already registered", KindDuplicateTool, CategoryRegistry, SeverityCritical, false},
	CodeToolNotFound:   {CodeToolNotFound, "ToolNotFound", "Tool not found", KindNotFound, CategoryNotFound, SeverityError, false},
	CodeRegistrySealed: {CodeRegistrySealed, "RegistrySealed", "Registry is sealed", KindInternal, CategoryRegistry, SeverityCritical, false},
	CodeHandlerError:   {CodeHandlerError, "HandlerError", "Tool handler failed", KindHandler, CategoryInternal, SeverityError, false},
	CodeInvalidSchema:  {CodeInvalidSchema, "InvalidSchema", "Tool input schema is invalid", KindInternal, CategoryRegistry, SeverityCritical, false},

	CodeImageNotFound: {CodeImageNotFound, "ImageNotFound", "Image not found", KindNotFound, CategoryNotFound, SeverityError, false},

	CodePartialFailure: {CodePartialFailure, "PartialFailure", "Some images could not be fetched", KindPartialFailure, CategoryUpstream, SeverityWarning, false},

	CodeRegistryUnavailable: {CodeRegistryUnavailable, "RegistryUnavailable", "Docker Hub unavailable", KindRegistryUnavailable, CategoryUpstream, SeverityError, true},
	CodeInvalidQuery:        {CodeInvalidQuery, "InvalidQuery", "Docker Hub rejected the request", KindInvalidQuery, CategoryValidation, SeverityError, false},
	CodeResponseParse:       {CodeResponseParse, "ResponseParse", "Docker Hub response could not be decoded", KindResponseParse, CategoryUpstream, SeverityError, false},
	CodeRateLimited:         {CodeRateLimited, "RateLimited", "Docker Hub rate limit reached", KindRegistryUnavailable, CategoryUpstream, SeverityWarning, true},
	CodeUpstreamTimeout:     {CodeUpstreamTimeout, "UpstreamTimeout", "Docker Hub request timed out", KindRegistryUnavailable, CategoryTimeout, SeverityError, true},

	CodeInvalidArgument:   {CodeInvalidArgument, "InvalidArgument", "Invalid argument", KindInvalidArgument, CategoryValidation, SeverityError, false},
	CodeMissingParameter:  {CodeMissingParameter, "MissingParameter", "Required parameter missing", KindInvalidArgument, CategoryValidation, SeverityError, false},
	CodeInvalidParameter:  {CodeInvalidParameter, "InvalidParameter", "Invalid parameter value", KindInvalidArgument, CategoryValidation, SeverityError, false},
	CodeParameterTooLarge: {CodeParameterTooLarge, "ParameterTooLarge", "Parameter value too large", KindInvalidArgument, CategoryValidation, SeverityError, false},
	CodeParameterTooSmall: {CodeParameterTooSmall, "ParameterTooSmall", "Parameter value too small", KindInvalidArgument, CategoryValidation, SeverityError, false},
	CodeInvalidFormat:     {CodeInvalidFormat, "InvalidFormat", "Invalid parameter format", KindInvalidArgument, CategoryValidation, SeverityError, false},

	CodeInvalidPage:     {CodeInvalidPage, "InvalidPage", "Invalid page number", KindInvalidArgument, CategoryValidation, SeverityError, false},
	CodeInvalidPageSize: {CodeInvalidPageSize, "InvalidPageSize", "Invalid page size", KindInvalidArgument, CategoryValidation, SeverityError, false},
}

func lookupCode(code int) ErrorCodeInfo {
	if info, exists := errorCodeRegistry[code]; exists {
		return info
	}
	return ErrorCodeInfo{
		Code:     code,
		Name:     "UnknownError",
		Kind:     KindInternal,
		Category: CategoryInternal,
		Severity: SeverityError,
	}
}

// ListErrorCodes returns every registered error code, from -32100 downwards
func ListErrorCodes() []ErrorCodeInfo {
	codes := make([]ErrorCodeInfo, 0, len(errorCodeRegistry))
	for _, info := range errorCodeRegistry {
		codes = append(codes, info)
	}
	sort.Slice(codes, func(i, j int) bool {
		return codes[i].Code > codes[j].Code
	})
	return codes
}
