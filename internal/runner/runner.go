package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/repoqna/repoqna/internal/telemetry"
	"github.com/repoqna/repoqna/tools"
)

const maxResponseTokens = 1024

type Runner struct {
	Client *anthropic.Client
	Tools  []tools.ToolDefinition
	System string
}

func New(client *anthropic.Client, toolDefs []tools.ToolDefinition, system string) *Runner {
	return &Runner{Client: client, Tools: toolDefs, System: system}
}

func (r *Runner) anthropicTools() []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(r.Tools))
	for _, t := range r.Tools {
		out = append(out, anthropic.ToolUnionParam{OfTool: &anthropic.ToolParam{
			Name:        t.Name,
			Description: anthropic.String(t.Description),
			InputSchema: t.InputSchema,
		}})
	}
	return out
}

// RunOneStep sends the conversation once and returns the assistant
// message plus any tool results to be appended by the caller.
func (r *Runner) RunOneStep(ctx context.Context, model anthropic.Model, conv []anthropic.MessageParam) (*anthropic.Message, []anthropic.ContentBlockParamUnion, error) {
	// Get turnID from context if present, else generate once for this call.
	turnID, ok := telemetry.TurnIDFromContext(ctx)
	if !ok {
		turnID = fmt.Sprintf("turn-%d", time.Now().UnixNano())
	}
	ctx = telemetry.WithTurnID(ctx, turnID)

	telemetry.Emit("model_step", map[string]any{
		"turn_id":  turnID,
		"model":    string(model),
		"messages": len(conv),
	})

	params := anthropic.MessageNewParams{
		Model:     model,
		MaxTokens: int64(maxResponseTokens),
		Messages:  conv,
		Tools:     r.anthropicTools(),
	}
	if r.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: r.System}}
	}

	msg, err := r.Client.Messages.New(ctx, params)
	if err != nil {
		return nil, nil, err
	}

	toolResults := []anthropic.ContentBlockParamUnion{}
	for _, block := range msg.Content {
		if v, ok := block.AsAny().(anthropic.ToolUseBlock); ok {
			// Pass raw JSON input through to the tool implementation
			input := json.RawMessage(v.JSON.Input.Raw())
			res := r.execTool(ctx, v.ID, v.Name, input)
			toolResults = append(toolResults, res)
		}
	}
	return msg, toolResults, nil
}

// RunTurn appends the user message and loops model steps, feeding tool
// results back, until the assistant stops requesting tools. It returns
// the updated conversation and the assistant's visible text.
func (r *Runner) RunTurn(ctx context.Context, model anthropic.Model, conv []anthropic.MessageParam, user string) ([]anthropic.MessageParam, string, error) {
	conv = append(conv, anthropic.NewUserMessage(anthropic.NewTextBlock(user)))

	var text string
	for {
		msg, toolResults, err := r.RunOneStep(ctx, model, conv)
		if err != nil {
			return conv, "", err
		}
		conv = append(conv, msg.ToParam())
		for _, b := range msg.Content {
			if tb, ok := b.AsAny().(anthropic.TextBlock); ok && tb.Text != "" {
				if text != "" {
					text += "\n"
				}
				text += tb.Text
			}
		}
		if len(toolResults) == 0 {
			break
		}
		// Provide tool results as a user message back to the model
		conv = append(conv, anthropic.NewUserMessage(toolResults...))
	}
	return conv, text, nil
}

func (r *Runner) execTool(ctx context.Context, id, name string, input json.RawMessage) anthropic.ContentBlockParamUnion {
	var def *tools.ToolDefinition
	for i := range r.Tools {
		if r.Tools[i].Name == name {
			def = &r.Tools[i]
			break
		}
	}

	turnID, _ := telemetry.TurnIDFromContext(ctx)

	// Helper to emit a tool_exec event
	emit := func(durationMs int64, inputSize int, outputSize int, errStr string) {
		fields := map[string]any{
			"tool_name":   name,
			"duration_ms": durationMs,
			"input_size":  inputSize,
			"output_size": outputSize,
			"turn_id":     turnID,
		}
		if errStr != "" {
			fields["error"] = errStr
		} else {
			fields["error"] = nil
		}
		telemetry.Emit("tool_exec", fields)
	}

	start := time.Now()
	inSize := len(input)

	// Handle "tool not found" as an error result and emit telemetry
	if def == nil {
		emit(time.Since(start).Milliseconds(), inSize, 0, "tool not found")
		return anthropic.NewToolResultBlock(id, "tool not found", true)
	}

	// Execute the tool
	resp, err := def.Function(ctx, input)
	if err != nil {
		// Emit a generic error string to avoid leaking raw payloads in telemetry
		emit(time.Since(start).Milliseconds(), inSize, 0, "tool error")
		// Preserve detailed error message in the tool result content returned to the model
		return anthropic.NewToolResultBlock(id, err.Error(), true)
	}
	outSize := len(resp)
	emit(time.Since(start).Milliseconds(), inSize, outSize, "")
	return anthropic.NewToolResultBlock(id, resp, false)
}
