// Package agent assembles the model client, tool definitions,
// instructions, and session storage into a single conversational agent.
package agent

import (
	"context"
	"log"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/google/uuid"

	"github.com/repoqna/repoqna/internal/runner"
	"github.com/repoqna/repoqna/memory"
	"github.com/repoqna/repoqna/tools"
)

const DefaultName = "GitHub QnA Agent"

// Instructions is the agent persona and tool-routing guidance.
var Instructions = strings.Join([]string{
	"You are a specialized GitHub QnA agent.",
	"You have access to tools for analyzing repositories using Potpie.",
	"To answer questions about a specific repository's code or structure (e.g., 'What does function X do?', 'Summarize class Y', 'Find usages of Z'):",
	"1. Use 'start_repo_parsing' with the 'owner/repo' name. Get the 'project_id'.",
	"2. Inform the user parsing started.",
	"3. Use 'ask_parsed_repo' with the 'project_id' and the specific query. This tool waits for parsing to finish.",
	"To get a general analysis or metrics for a repository, use the 'analyze_repository' tool with the 'owner/repo' name.",
	"To get repository trends, use the 'get_repository_trends' tool with the 'owner/repo' name.",
	"Provide clear responses based only on the tool outputs.",
	"If a tool returns an error, report it clearly.",
}, "\n")

type Agent struct {
	name         string
	model        anthropic.Model
	defs         []tools.ToolDefinition
	runner       *runner.Runner
	store        *memory.Store
	historyTurns int
}

func New(client *anthropic.Client, model anthropic.Model, defs []tools.ToolDefinition, store *memory.Store, historyTurns int) *Agent {
	return &Agent{
		name:         DefaultName,
		model:        model,
		defs:         defs,
		runner:       runner.New(client, defs, Instructions),
		store:        store,
		historyTurns: historyTurns,
	}
}

func (a *Agent) Name() string { return a.name }

func (a *Agent) ModelName() string { return string(a.model) }

func (a *Agent) ToolNames() []string {
	names := make([]string, 0, len(a.defs))
	for _, d := range a.defs {
		names = append(names, d.Name)
	}
	return names
}

// Respond runs one user turn in the named session and returns the
// assistant's answer together with the session ID (generated when the
// caller passes an empty one). Only the newest turns of the persisted
// transcript are replayed to the model.
func (a *Agent) Respond(ctx context.Context, sessionID, message string) (string, string, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	history, err := a.store.Load(sessionID)
	if err != nil {
		return "", "", err
	}
	// Two messages per turn: user + assistant.
	history = memory.Tail(history, a.historyTurns*2)

	conv := make([]anthropic.MessageParam, 0, len(history)+1)
	for _, m := range history {
		if m.Role == "user" {
			conv = append(conv, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Text)))
		} else {
			conv = append(conv, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Text)))
		}
	}

	_, text, err := a.runner.RunTurn(ctx, a.model, conv, message)
	if err != nil {
		return "", "", err
	}

	// Persist minimal text-only transcript (user + assistant).
	toSave := []memory.Message{{Role: "user", Text: message}}
	if strings.TrimSpace(text) != "" {
		toSave = append(toSave, memory.Message{Role: "assistant", Text: text})
	}
	if err := a.store.Append(sessionID, toSave...); err != nil {
		log.Printf("warning: failed to save session %s: %v", sessionID, err)
	}
	return text, sessionID, nil
}
