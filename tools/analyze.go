package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/repoqna/repoqna/internal/potpie"
)

const analysisQuery = "Provide a detailed analysis of this repository including: " +
	"current number of stars, current number of forks, typical commit frequency (e.g., High, Medium, Low), " +
	"estimated average issue response time, assessment of documentation quality (e.g., score 1-10 or description), " +
	"overall code quality assessment (e.g., Excellent, Good, Fair), community engagement level (e.g., Very Active, Active, Low), " +
	"and maintenance status (e.g., Well Maintained, Needs Attention)."

type AnalyzeRepositoryInput struct {
	RepoName string `json:"repo_name" jsonschema_description:"Repository in 'owner/repo' form."`
}

var AnalyzeRepositoryInputSchema = GenerateSchema[AnalyzeRepositoryInput]()

// AnalyzeRepositoryDefinition handles parsing initiation and querying in
// one step, returning general analysis metrics for a repository.
func AnalyzeRepositoryDefinition(c *potpie.Client) ToolDefinition {
	return ToolDefinition{
		Name: "analyze_repository",
		Description: "Analyze a GitHub repository and return metrics such as stars, forks, " +
			"commit frequency, documentation and code quality, community engagement, and maintenance status. " +
			"Handles parsing initiation and querying; expects repo_name like 'owner/repo'.",
		InputSchema: AnalyzeRepositoryInputSchema,
		Function: func(ctx context.Context, input json.RawMessage) (string, error) {
			var in AnalyzeRepositoryInput
			if err := json.Unmarshal(input, &in); err != nil {
				return "", err
			}
			return analyzeRepository(ctx, c, in.RepoName)
		},
	}
}

func analyzeRepository(ctx context.Context, c *potpie.Client, repoName string) (string, error) {
	projectID, failMsg := submitForParsing(ctx, c, repoName)
	if failMsg != "" {
		return failMsg, nil
	}

	result, err := askParsedRepo(ctx, c, projectID, analysisQuery)
	if err != nil {
		return "", err
	}
	if strings.HasPrefix(result, "Failed") || strings.HasPrefix(result, "Timeout") {
		return result, nil
	}
	return fmt.Sprintf("Analysis of repository %s: %s", repoName, result), nil
}

// submitForParsing starts a parse on the main branch and returns the
// project ID, or a user-facing failure message.
func submitForParsing(ctx context.Context, c *potpie.Client, repoName string) (projectID, failMsg string) {
	if repoName == "" || !strings.Contains(repoName, "/") {
		return "", "Invalid repository name format. Expected format: 'owner/repo'"
	}
	body, err := c.ParseRepository(ctx, repoName, "main")
	if err != nil {
		return "", fmt.Sprintf("Failed to parse repository: %v", err)
	}
	projectID = gjson.GetBytes(body, "project_id").String()
	if projectID == "" {
		return "", fmt.Sprintf("Failed to get project_id when starting parsing for %s. Response: %s", repoName, body)
	}
	return projectID, ""
}
