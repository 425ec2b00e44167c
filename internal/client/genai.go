// Gemini(google.golang.org/genai) 기반 LLM 클라이언트
//
// 환경변수:
//   - GEMINI_API_KEY: 필수. 없으면 생성 실패 (서버 기동 중단)
//
// 모델/temperature는 고정: 사실 기반 티켓 요약이라 낮은 temperature 사용.
// 프로세스당 1회 생성 후 모든 세션에서 공유 (요청별 상태 없음).

package client

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"github.com/kube-rca/incident-chat/internal/agent"
	"github.com/kube-rca/incident-chat/internal/config"
)

const (
	GeminiModel       = "gemini-2.5-flash"
	GeminiTemperature = float32(0.2)
)

// GeminiClient 구조체 정의 (agent.Model 구현)
type GeminiClient struct {
	client      *genai.Client
	model       string
	temperature float32
}

var _ agent.Model = (*GeminiClient)(nil)

func NewGeminiClient(ctx context.Context, cfg config.GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("missing GEMINI_API_KEY")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiClient{client: client, model: GeminiModel, temperature: GeminiTemperature}, nil
}

// 대화 + 도구 목록을 보내고 다음 assistant 메시지를 받음
func (c *GeminiClient) Generate(ctx context.Context, messages []agent.Message, tools []agent.ToolDefinition) (*agent.Message, error) {
	system, contents := toGenaiContents(messages)
	if len(contents) == 0 {
		return nil, fmt.Errorf("no conversation content to send")
	}

	temperature := c.temperature
	genCfg := &genai.GenerateContentConfig{
		Temperature:       &temperature,
		SystemInstruction: system,
		Tools:             toGenaiTools(tools),
	}

	res, err := c.client.Models.GenerateContent(ctx, c.model, contents, genCfg)
	if err != nil {
		return nil, fmt.Errorf("gemini generate content failed: %w", err)
	}
	return fromGenaiResponse(res)
}

// system 메시지는 SystemInstruction으로 분리, 연속된 tool 결과는 한 턴으로 합침
func toGenaiContents(messages []agent.Message) (*genai.Content, []*genai.Content) {
	var systemParts []*genai.Part
	contents := make([]*genai.Content, 0, len(messages))

	for _, msg := range messages {
		switch msg.Role {
		case agent.RoleSystem:
			if text := msg.Text(); text != "" {
				systemParts = append(systemParts, &genai.Part{Text: text})
			}

		case agent.RoleAssistant:
			parts := make([]*genai.Part, 0, len(msg.Blocks)+len(msg.ToolCalls)+1)
			if msg.Content != "" {
				parts = append(parts, &genai.Part{Text: msg.Content})
			}
			for _, block := range msg.Blocks {
				parts = append(parts, &genai.Part{Text: block.Text})
			}
			for _, tc := range msg.ToolCalls {
				parts = append(parts, &genai.Part{
					FunctionCall:     &genai.FunctionCall{ID: tc.ID, Name: tc.Name, Args: tc.Arguments},
					ThoughtSignature: tc.Signature,
				})
			}
			if len(parts) > 0 {
				contents = append(contents, genai.NewContentFromParts(parts, genai.RoleModel))
			}

		case agent.RoleTool:
			part := &genai.Part{FunctionResponse: &genai.FunctionResponse{
				ID:       msg.ToolCallID,
				Name:     msg.ToolName,
				Response: map[string]any{"output": msg.Content},
			}}
			if n := len(contents); n > 0 && isFunctionResponseTurn(contents[n-1]) {
				contents[n-1].Parts = append(contents[n-1].Parts, part)
				continue
			}
			contents = append(contents, genai.NewContentFromParts([]*genai.Part{part}, genai.RoleUser))

		default:
			contents = append(contents, genai.NewContentFromText(msg.Text(), genai.RoleUser))
		}
	}

	var system *genai.Content
	if len(systemParts) > 0 {
		system = &genai.Content{Parts: systemParts}
	}
	return system, contents
}

func isFunctionResponseTurn(content *genai.Content) bool {
	if content == nil || len(content.Parts) == 0 {
		return false
	}
	for _, p := range content.Parts {
		if p.FunctionResponse == nil {
			return false
		}
	}
	return true
}

func toGenaiTools(tools []agent.ToolDefinition) []*genai.Tool {
	if len(tools) == 0 {
		return nil
	}
	decls := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, def := range tools {
		schema := &genai.Schema{
			Type:       genai.TypeObject,
			Properties: make(map[string]*genai.Schema, len(def.Parameters)),
		}
		for _, p := range def.Parameters {
			schema.Properties[p.Name] = &genai.Schema{Type: genai.TypeString, Description: p.Description}
			if p.Required {
				schema.Required = append(schema.Required, p.Name)
			}
		}
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        def.Name,
			Description: def.Description,
			Parameters:  schema,
		})
	}
	return []*genai.Tool{{FunctionDeclarations: decls}}
}

// 첫 번째 후보만 사용: 텍스트 파트 -> content block, 함수 호출 -> tool call (thought 파트는 버림)
func fromGenaiResponse(res *genai.GenerateContentResponse) (*agent.Message, error) {
	if res == nil || len(res.Candidates) == 0 || res.Candidates[0] == nil {
		return nil, fmt.Errorf("gemini returned no candidates")
	}

	msg := &agent.Message{Role: agent.RoleAssistant}
	content := res.Candidates[0].Content
	if content == nil {
		return msg, nil
	}

	for _, part := range content.Parts {
		if part == nil || part.Thought {
			continue
		}
		if fc := part.FunctionCall; fc != nil {
			id := fc.ID
			if id == "" {
				id = uuid.NewString()
			}
			msg.ToolCalls = append(msg.ToolCalls, agent.ToolCall{
				ID:        id,
				Name:      fc.Name,
				Arguments: fc.Args,
				Signature: part.ThoughtSignature,
			})
			continue
		}
		if part.Text != "" {
			msg.Blocks = append(msg.Blocks, agent.ContentBlock{Type: "text", Text: part.Text})
		}
	}
	return msg, nil
}
