package model

import "strings"

// ============================================================================
// ServiceNow Incident 상태 / 조회 결과
// ============================================================================

// ServiceNow incident.state 코드
const (
	IncidentStateNew        = "1"
	IncidentStateInProgress = "2"
	IncidentStateResolved   = "6"
	IncidentStateClosed     = "7"
)

// BodyPreviewLimit - LLM에 넘기는 응답 본문 최대 길이 (문자 수)
const BodyPreviewLimit = 2000

// 사람이 쓰는 상태 단어 -> state 코드 ("active"는 "in progress"의 별칭)
var incidentStates = map[string]string{
	"new":         IncidentStateNew,
	"in progress": IncidentStateInProgress,
	"active":      IncidentStateInProgress,
	"resolved":    IncidentStateResolved,
	"closed":      IncidentStateClosed,
}

// ParseIncidentState - 대소문자 무시하고 상태 단어를 state 코드로 변환
//
// 등록되지 않은 단어는 추측하지 않고 false 반환.
func ParseIncidentState(status string) (string, bool) {
	code, ok := incidentStates[strings.ToLower(status)]
	return code, ok
}

// IncidentQueryResult - ServiceNow 조회 성공 결과 (파싱하지 않은 원문 미리보기)
type IncidentQueryResult struct {
	StatusCode  int               `json:"status_code"`
	Headers     map[string]string `json:"headers"`
	BodyPreview string            `json:"body_preview"`
}

// TruncateBody - 본문 앞부분 최대 limit 문자만 남김
func TruncateBody(body string, limit int) string {
	if limit < 0 {
		limit = 0
	}
	count := 0
	for i := range body {
		if count == limit {
			return body[:i]
		}
		count++
	}
	return body
}
