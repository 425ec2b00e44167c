// Package agent implements a tool-calling loop over a chat model.
//
// Each iteration sends the conversation to the model, stops when the reply
// carries no tool calls, and otherwise runs the requested tools in order and
// feeds their results back as tool messages. If the model still asks for tools
// on the last allowed iteration, the tools are skipped and the conversation
// ends with NeedMoreStepsMessage.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
)

const defaultMaxIterations = 12

// NeedMoreStepsMessage is the final assistant content when the iteration
// limit is reached before the model stops requesting tools.
const NeedMoreStepsMessage = "Sorry, need more steps to process this request."

// Model generates the next assistant message for a conversation.
type Model interface {
	Generate(ctx context.Context, messages []Message, tools []ToolDefinition) (*Message, error)
}

// ToolDefinition describes a tool to the model.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  []ToolParameter
}

// ToolParameter is a single named argument. Only string parameters are used.
type ToolParameter struct {
	Name        string
	Description string
	Required    bool
}

// Tool is a function the model may call.
//
// Call returns any JSON-encodable value; strings are passed through as-is.
// A returned error is reported back to the model, not to the caller.
type Tool interface {
	Definition() ToolDefinition
	Call(ctx context.Context, args map[string]any) (any, error)
}

// Result holds the full conversation after an invocation: the input messages
// followed by every model and tool message produced.
type Result struct {
	Messages []Message `json:"messages"`
}

// Last returns the final message of the conversation.
func (r *Result) Last() (Message, bool) {
	if r == nil || len(r.Messages) == 0 {
		return Message{}, false
	}
	return r.Messages[len(r.Messages)-1], true
}

// Agent is immutable after New and safe for concurrent use.
type Agent struct {
	model         Model
	tools         map[string]Tool
	definitions   []ToolDefinition
	maxIterations int
}

type Option func(*Agent)

// WithMaxIterations bounds the number of model calls per invocation.
func WithMaxIterations(n int) Option {
	return func(a *Agent) {
		if n > 0 {
			a.maxIterations = n
		}
	}
}

func New(model Model, tools []Tool, opts ...Option) (*Agent, error) {
	if model == nil {
		return nil, fmt.Errorf("agent missing language model")
	}

	a := &Agent{
		model:         model,
		tools:         make(map[string]Tool, len(tools)),
		maxIterations: defaultMaxIterations,
	}
	for _, tool := range tools {
		def := tool.Definition()
		if _, dup := a.tools[def.Name]; dup {
			return nil, fmt.Errorf("duplicate tool name: %s", def.Name)
		}
		a.tools[def.Name] = tool
		a.definitions = append(a.definitions, def)
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Invoke runs the loop until the model answers without tool calls or the
// iteration limit is reached.
func (a *Agent) Invoke(ctx context.Context, messages []Message) (*Result, error) {
	conversation := make([]Message, len(messages), len(messages)+2*a.maxIterations)
	copy(conversation, messages)

	for iteration := 1; iteration <= a.maxIterations; iteration++ {
		reply, err := a.callModel(ctx, conversation)
		if err != nil {
			return nil, err
		}
		conversation = append(conversation, *reply)

		if a.done(reply) {
			return &Result{Messages: conversation}, nil
		}

		// 마지막 반복에서는 도구를 실행해도 결과를 볼 모델 호출이 없음
		if iteration == a.maxIterations {
			log.Printf("[Agent] Iteration limit reached (limit=%d), skipping %d tool call(s)", a.maxIterations, len(reply.ToolCalls))
			conversation[len(conversation)-1] = Message{Role: RoleAssistant, Content: NeedMoreStepsMessage}
			break
		}

		conversation = append(conversation, a.dispatchTools(ctx, reply.ToolCalls)...)
	}

	return &Result{Messages: conversation}, nil
}

func (a *Agent) callModel(ctx context.Context, conversation []Message) (*Message, error) {
	reply, err := a.model.Generate(ctx, conversation, a.definitions)
	if err != nil {
		return nil, err
	}
	if reply == nil {
		return nil, fmt.Errorf("model returned no message")
	}
	reply.Role = RoleAssistant
	return reply, nil
}

func (a *Agent) done(reply *Message) bool {
	return len(reply.ToolCalls) == 0
}

func (a *Agent) dispatchTools(ctx context.Context, calls []ToolCall) []Message {
	results := make([]Message, 0, len(calls))
	for _, call := range calls {
		results = append(results, Message{
			Role:       RoleTool,
			Content:    a.runTool(ctx, call),
			ToolCallID: call.ID,
			ToolName:   call.Name,
		})
	}
	return results
}

func (a *Agent) runTool(ctx context.Context, call ToolCall) string {
	tool, ok := a.tools[call.Name]
	if !ok {
		log.Printf("[Agent] model requested unknown tool %q", call.Name)
		return fmt.Sprintf("Error: %s is not a valid tool, try one of [%s].", call.Name, strings.Join(a.toolNames(), ", "))
	}

	log.Printf("[Agent] calling tool %s args=%v", call.Name, call.Arguments)
	out, err := tool.Call(ctx, call.Arguments)
	if err != nil {
		log.Printf("[Agent] tool %s failed: %v", call.Name, err)
		return fmt.Sprintf("Error: %v\n Please fix your mistakes.", err)
	}
	return encodeToolOutput(out)
}

func (a *Agent) toolNames() []string {
	names := make([]string, 0, len(a.definitions))
	for _, def := range a.definitions {
		names = append(names, def.Name)
	}
	return names
}

func encodeToolOutput(out any) string {
	switch v := out.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return fmt.Sprint(out)
	}
	return string(raw)
}
