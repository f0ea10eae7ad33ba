package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/repoqna/repoqna/internal/potpie"
)

const trendsQuery = "Provide recent trending metrics for this repository including: " +
	"star growth rate (e.g., percentage increase over the last month), " +
	"fork growth rate (e.g., percentage increase over the last month), " +
	"new contributor growth (e.g., number of new contributors in the last month), " +
	"and the recent commit frequency trend (e.g., Increasing, Stable, Decreasing)."

type RepositoryTrendsInput struct {
	RepoName string `json:"repo_name" jsonschema_description:"Repository in 'owner/repo' form."`
}

var RepositoryTrendsInputSchema = GenerateSchema[RepositoryTrendsInput]()

// RepositoryTrendsDefinition returns trending metrics (star and fork
// growth, new contributors, commit-frequency trend) for a repository.
func RepositoryTrendsDefinition(c *potpie.Client) ToolDefinition {
	return ToolDefinition{
		Name: "get_repository_trends",
		Description: "Get trending metrics for a GitHub repository: star and fork growth, " +
			"new contributor growth, and commit frequency trend. " +
			"Handles parsing initiation and querying; expects repo_name like 'owner/repo'.",
		InputSchema: RepositoryTrendsInputSchema,
		Function: func(ctx context.Context, input json.RawMessage) (string, error) {
			var in RepositoryTrendsInput
			if err := json.Unmarshal(input, &in); err != nil {
				return "", err
			}
			return repositoryTrends(ctx, c, in.RepoName)
		},
	}
}

func repositoryTrends(ctx context.Context, c *potpie.Client, repoName string) (string, error) {
	projectID, failMsg := submitForParsing(ctx, c, repoName)
	if failMsg != "" {
		return failMsg, nil
	}

	result, err := askParsedRepo(ctx, c, projectID, trendsQuery)
	if err != nil {
		return "", err
	}
	if strings.HasPrefix(result, "Failed") || strings.HasPrefix(result, "Timeout") {
		return result, nil
	}

	// The message endpoint usually answers with {"response": ...}; fall
	// back to the raw body when it doesn't.
	if gjson.Valid(result) {
		if e := gjson.Get(result, "error"); e.Exists() {
			return fmt.Sprintf("Trends query failed for %s: %s", repoName, e.String()), nil
		}
		if r := gjson.Get(result, "response"); r.Exists() {
			return fmt.Sprintf("Trends for repository %s: %s", repoName, r.String()), nil
		}
	}
	return fmt.Sprintf("Trends raw response for %s: %s", repoName, result), nil
}
