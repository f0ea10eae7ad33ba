// Package tools defines the agent's tool contracts and implementations.
//
// Includes:
//   - ToolDefinition: name, description, JSON input schema, handler.
//   - GenerateSchema[T](): derive JSON Schema from Go structs.
//   - Potpie tools: start_repo_parsing, check_repo_parsing_status,
//     ask_parsed_repo, analyze_repository, get_repository_trends.
//
// Failure contract: transport and API failures come back as a
// descriptive result string with a nil error, so the model can relay
// them in natural language. The error return is reserved for malformed
// tool input.
package tools
