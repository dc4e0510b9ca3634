package errors

import (
	"fmt"
)

// ToolErrorData contains structured data for tool registry errors
type ToolErrorData struct {
	Tool      string `json:"tool"`
	Operation string `json:"operation,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// DuplicateTool is returned when a tool name is registered twice
func DuplicateTool(name string) MCPError {
	return NewError(
		CodeDuplicateTool,
		fmt.Sprintf("Tool '%s' is already registered", name),
	).WithData(&ToolErrorData{
		Tool:      name,
		Operation: "register",
		Reason:    "duplicate name",
	})
}

// ToolNotFound is returned when a caller invokes an undeclared tool
func ToolNotFound(name string) MCPError {
	return NewError(
		CodeToolNotFound,
		fmt.Sprintf("Tool '%s' not found", name),
	).WithData(&ToolErrorData{
		Tool:      name,
		Operation: "invoke",
	})
}

// RegistrySealed is returned when registration happens after startup
func RegistrySealed(name string) MCPError {
	return NewError(
		CodeRegistrySealed,
		fmt.Sprintf("Cannot register tool '%s': registry is sealed", name),
	).WithData(&ToolErrorData{
		Tool:      name,
		Operation: "register",
		Reason:    "sealed",
	})
}

// InvalidSchema is returned when a declared input schema does not compile
func InvalidSchema(name string, cause error) MCPError {
	return WrapError(
		cause,
		CodeInvalidSchema,
		fmt.Sprintf("Tool '%s' declares an invalid input schema", name),
	).WithData(&ToolErrorData{
		Tool:      name,
		Operation: "register",
		Reason:    causeText(cause),
	})
}

// Handler wraps an unexpected failure raised by a tool handler
func Handler(tool string, cause error) MCPError {
	return WrapError(
		cause,
		CodeHandlerError,
		fmt.Sprintf("Tool '%s' failed: %s", tool, causeText(cause)),
	).WithData(&ToolErrorData{
		Tool:      tool,
		Operation: "invoke",
		Reason:    causeText(cause),
	})
}

func causeText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
