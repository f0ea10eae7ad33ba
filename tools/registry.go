package tools

import "github.com/repoqna/repoqna/internal/potpie"

// Registry returns all tool definitions wired to the given Potpie client
func Registry(c *potpie.Client) []ToolDefinition {
	return []ToolDefinition{
		StartRepoParsingDefinition(c),
		CheckParsingStatusDefinition(c),
		AskParsedRepoDefinition(c),
		AnalyzeRepositoryDefinition(c),
		RepositoryTrendsDefinition(c),
	}
}
