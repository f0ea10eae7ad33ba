package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/repoqna/repoqna/internal/potpie"
)

type CheckParsingStatusInput struct {
	ProjectID string `json:"project_id" jsonschema_description:"Project ID returned by start_repo_parsing."`
}

var CheckParsingStatusInputSchema = GenerateSchema[CheckParsingStatusInput]()

// CheckParsingStatusDefinition probes the parse state of a project once,
// without waiting for completion.
func CheckParsingStatusDefinition(c *potpie.Client) ToolDefinition {
	return ToolDefinition{
		Name:        "check_repo_parsing_status",
		Description: "Check the current parsing status of a repository using its project_id.",
		InputSchema: CheckParsingStatusInputSchema,
		Function: func(ctx context.Context, input json.RawMessage) (string, error) {
			var in CheckParsingStatusInput
			if err := json.Unmarshal(input, &in); err != nil {
				return "", err
			}
			return checkParsingStatus(ctx, c, in)
		},
	}
}

func checkParsingStatus(ctx context.Context, c *potpie.Client, in CheckParsingStatusInput) (string, error) {
	if in.ProjectID == "" {
		return "Invalid project_id: Project ID cannot be empty", nil
	}

	body, err := c.ParsingStatus(ctx, in.ProjectID)
	if err != nil {
		return fmt.Sprintf("Failed to get parsing status: %v", err), nil
	}

	status := gjson.GetBytes(body, "status").String()
	if status == "" {
		return "Failed to get parsing status: invalid response format", nil
	}
	return fmt.Sprintf("Current parsing status: %s", status), nil
}
