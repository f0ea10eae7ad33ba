package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/repoqna/repoqna/internal/potpie"
)

type AskParsedRepoInput struct {
	ProjectID string `json:"project_id" jsonschema_description:"Project ID of an already-submitted repository."`
	Query     string `json:"query" jsonschema_description:"Question about the repository's code or structure."`
}

var AskParsedRepoInputSchema = GenerateSchema[AskParsedRepoInput]()

// AskParsedRepoDefinition asks a question about a parsed repository.
// It waits for parsing to complete before querying.
func AskParsedRepoDefinition(c *potpie.Client) ToolDefinition {
	return ToolDefinition{
		Name: "ask_parsed_repo",
		Description: "Ask a question about a repository identified by its project_id. " +
			"Waits for parsing to complete if it is still in progress.",
		InputSchema: AskParsedRepoInputSchema,
		Function: func(ctx context.Context, input json.RawMessage) (string, error) {
			var in AskParsedRepoInput
			if err := json.Unmarshal(input, &in); err != nil {
				return "", err
			}
			return askParsedRepo(ctx, c, in.ProjectID, in.Query)
		},
	}
}

// askParsedRepo is shared with the analysis and trends tools, which
// differ only in the query they send.
func askParsedRepo(ctx context.Context, c *potpie.Client, projectID, query string) (string, error) {
	if projectID == "" {
		return "Invalid project_id: Project ID cannot be empty", nil
	}

	statusBody, err := c.WaitUntilReady(ctx, projectID)
	if err != nil {
		if errors.Is(err, potpie.ErrReadyTimeout) {
			return fmt.Sprintf("Timeout waiting for repository parsing to complete: %v", err), nil
		}
		return fmt.Sprintf("Failed to get parsing status: %v", err), nil
	}
	if status := gjson.GetBytes(statusBody, "status").String(); status != potpie.StatusReady {
		return fmt.Sprintf("Project %s is not ready for querying. Status: %s", projectID, status), nil
	}

	convBody, err := c.CreateConversation(ctx, []string{projectID}, nil)
	if err != nil {
		return fmt.Sprintf("Failed to create conversation: %v", err), nil
	}
	conversationID := gjson.GetBytes(convBody, "conversation_id").String()
	if conversationID == "" {
		return "Failed to create conversation: no conversation_id in response", nil
	}

	respBody, err := c.SendMessage(ctx, conversationID, query, nil)
	if err != nil {
		return fmt.Sprintf("Failed to query repository: %v", err), nil
	}
	return string(respBody), nil
}
