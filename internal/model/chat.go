package model

const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Status string `json:"status"`
	Answer string `json:"answer"`
}

// ChatTurn - 세션 대화 기록 한 줄 (화면 표시용)
type ChatTurn struct {
	Role string `json:"role"` // user, assistant
	Text string `json:"text"`
}

type ChatHistoryResponse struct {
	Status string     `json:"status"`
	Data   []ChatTurn `json:"data"`
}
