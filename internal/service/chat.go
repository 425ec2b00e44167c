// 채팅 턴 처리 비즈니스 로직
//
// 처리 흐름:
//  1. 사용자 메시지를 세션 기록에 즉시 추가
//  2. [system 프롬프트, 현재 메시지]만으로 agent 호출 (이전 턴은 모델에 전달하지 않음)
//  3. 마지막 메시지에서 답변 추출 후 기록에 추가

package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/kube-rca/incident-chat/internal/agent"
	"github.com/kube-rca/incident-chat/internal/model"
)

var ErrInvalidChatRequest = errors.New("invalid chat request")

const SystemPrompt = `
You are a ServiceNow ITSM expert using Gemini 2.5 Flash.

Rules:
- ALWAYS call the tool ` + "`" + IncidentToolName + "`" + ` when asked about incident states.
- After tool execution, summarize the results clearly in bullet points.
- If the tool returns an ERROR, explain it clearly.
`

// agentInvoker - tool-calling agent 인터페이스
type agentInvoker interface {
	Invoke(ctx context.Context, messages []agent.Message) (*agent.Result, error)
}

type ChatService struct {
	agent       agentInvoker
	transcripts *TranscriptStore
}

func NewChatService(invoker agentInvoker, transcripts *TranscriptStore) *ChatService {
	return &ChatService{
		agent:       invoker,
		transcripts: transcripts,
	}
}

// HandleTurn은 agent 왕복이 끝날 때까지 블록됨. 요청이 끊겨도 턴은 끝까지 진행
func (s *ChatService) HandleTurn(ctx context.Context, sessionID, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: message is required", ErrInvalidChatRequest)
	}
	if sessionID == "" {
		return "", fmt.Errorf("%w: session is required", ErrInvalidChatRequest)
	}

	unlock := s.transcripts.Lock(sessionID)
	defer unlock()

	s.transcripts.Append(sessionID, model.ChatTurn{Role: model.ChatRoleUser, Text: text})

	messages := []agent.Message{
		agent.SystemMessage(SystemPrompt),
		agent.UserMessage(text),
	}

	result, err := s.agent.Invoke(context.WithoutCancel(ctx), messages)
	if err != nil {
		log.Printf("[ChatService] agent invocation failed (session=%s): %v", sessionID, err)
		return "", fmt.Errorf("agent invocation failed: %w", err)
	}

	last, ok := result.Last()
	if !ok {
		return "", fmt.Errorf("agent returned no messages")
	}
	answer := extractAnswer(last)

	s.transcripts.Append(sessionID, model.ChatTurn{Role: model.ChatRoleAssistant, Text: answer})
	return answer, nil
}

func (s *ChatService) History(sessionID string) []model.ChatTurn {
	return s.transcripts.Turns(sessionID)
}

// content block 목록이면 첫 블록 텍스트, 아니면 메시지 전체 문자열
func extractAnswer(msg agent.Message) string {
	if len(msg.Blocks) > 0 {
		return msg.Blocks[0].Text
	}
	return msg.String()
}
