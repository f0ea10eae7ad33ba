package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/repoqna/repoqna/internal/potpie"
)

type StartRepoParsingInput struct {
	RepoName   string `json:"repo_name" jsonschema_description:"Repository in 'owner/repo' form."`
	BranchName string `json:"branch_name,omitempty" jsonschema_description:"Branch to parse (defaults to main)."`
}

var StartRepoParsingInputSchema = GenerateSchema[StartRepoParsingInput]()

// StartRepoParsingDefinition submits a repository for parsing and
// reports the project_id needed for follow-up calls.
func StartRepoParsingDefinition(c *potpie.Client) ToolDefinition {
	return ToolDefinition{
		Name: "start_repo_parsing",
		Description: "Initiate parsing for a GitHub repository and branch. " +
			"Returns the project_id needed for follow-up actions. Example repo_name: 'owner/repo'.",
		InputSchema: StartRepoParsingInputSchema,
		Function: func(ctx context.Context, input json.RawMessage) (string, error) {
			var in StartRepoParsingInput
			if err := json.Unmarshal(input, &in); err != nil {
				return "", err
			}
			return startRepoParsing(ctx, c, in)
		},
	}
}

func startRepoParsing(ctx context.Context, c *potpie.Client, in StartRepoParsingInput) (string, error) {
	if in.RepoName == "" || !strings.Contains(in.RepoName, "/") {
		return "Invalid repository name format. Expected format: 'owner/repo'", nil
	}
	branch := in.BranchName
	if branch == "" {
		branch = "main"
	}

	body, err := c.ParseRepository(ctx, in.RepoName, branch)
	if err != nil {
		return fmt.Sprintf("Failed to parse repository: %v", err), nil
	}

	projectID := gjson.GetBytes(body, "project_id").String()
	if projectID == "" {
		return "Failed to parse repository: invalid API response format", nil
	}
	status := gjson.GetBytes(body, "status").String()
	if status == "" {
		status = "submitted"
	}
	return fmt.Sprintf("Successfully started parsing repository %s\nProject ID: %s\nStatus: %s",
		in.RepoName, projectID, status), nil
}
