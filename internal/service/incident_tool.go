// ServiceNow incident 조회 도구 (agent.Tool 구현)
//
// 처리 흐름:
//  1. 인스턴스/계정 누락 체크 (네트워크 호출 없이 에러 문자열 반환)
//  2. 상태 단어 -> state 코드 변환 (모르는 단어는 에러 문자열)
//  3. ServiceNow 조회 1회 (실패 시 "ERROR: <원인>")
//
// 에러는 모두 문자열로 모델에 전달되어 요약에 반영됨. Go error로 올리지 않음.

package service

import (
	"context"
	"log"

	"github.com/kube-rca/incident-chat/internal/agent"
	"github.com/kube-rca/incident-chat/internal/model"
)

const (
	IncidentToolName = "get_servicenow_incidents"

	errMissingServiceNowConfig = "ERROR: Missing SN_INSTANCE, SN_USERNAME, SN_PASSWORD."
	errInvalidIncidentStatus   = "ERROR: Invalid status. Use new, in progress, resolved, closed."
)

// incidentFetcher - ServiceNow 조회 인터페이스
type incidentFetcher interface {
	IsConfigured() bool
	FetchIncidents(ctx context.Context, stateCode string) (*model.IncidentQueryResult, error)
}

// IncidentTool 구조체 정의
type IncidentTool struct {
	fetcher incidentFetcher
}

var _ agent.Tool = (*IncidentTool)(nil)

func NewIncidentTool(fetcher incidentFetcher) *IncidentTool {
	return &IncidentTool{fetcher: fetcher}
}

func (t *IncidentTool) Definition() agent.ToolDefinition {
	return agent.ToolDefinition{
		Name:        IncidentToolName,
		Description: "Fetch incidents from ServiceNow by status.",
		Parameters: []agent.ToolParameter{
			{
				Name:        "status",
				Description: "Incident status: new, in progress (or active), resolved, closed.",
				Required:    true,
			},
		},
	}
}

func (t *IncidentTool) Call(ctx context.Context, args map[string]any) (any, error) {
	status, _ := args["status"].(string)
	return t.FetchIncidents(ctx, status), nil
}

// 성공 시 *model.IncidentQueryResult, 실패 시 "ERROR: ..." 문자열
func (t *IncidentTool) FetchIncidents(ctx context.Context, status string) any {
	if !t.fetcher.IsConfigured() {
		return errMissingServiceNowConfig
	}

	state, ok := model.ParseIncidentState(status)
	if !ok {
		log.Printf("[IncidentTool] rejected status=%q", status)
		return errInvalidIncidentStatus
	}

	res, err := t.fetcher.FetchIncidents(ctx, state)
	if err != nil {
		log.Printf("[IncidentTool] fetch failed (status=%s, state=%s): %v", status, state, err)
		return "ERROR: " + err.Error()
	}

	log.Printf("[IncidentTool] fetched incidents (status=%s, state=%s, http=%d)", status, state, res.StatusCode)
	return res
}
