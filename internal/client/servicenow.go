// ServiceNow Table API와 HTTP 통신하는 클라이언트 정의
//
// 환경변수:
//   - SN_INSTANCE: 인스턴스 호스트 (https://<SN_INSTANCE>/api/now/table/incident)
//   - SN_USERNAME / SN_PASSWORD: Basic Auth 계정
//
// 재시도 없음: 호출 1회당 요청 1회.

package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kube-rca/incident-chat/internal/config"
	"github.com/kube-rca/incident-chat/internal/model"
)

const (
	serviceNowIncidentPath = "/api/now/table/incident"
	serviceNowResultLimit  = 50
	serviceNowFields       = "number,short_description,priority,state,assigned_to"
	serviceNowTimeout      = 12 * time.Second
)

// ServiceNowClient 구조체 정의
type ServiceNowClient struct {
	instance   string
	username   string
	password   string
	httpClient *http.Client
}

// ServiceNowClient 객체 생성
func NewServiceNowClient(cfg config.ServiceNowConfig) *ServiceNowClient {
	return &ServiceNowClient{
		instance: strings.TrimSpace(cfg.Instance),
		username: cfg.Username,
		password: cfg.Password,
		httpClient: &http.Client{
			Timeout: serviceNowTimeout,
		},
	}
}

// 인스턴스/계정 정보가 모두 설정되어 있는지 체크
func (c *ServiceNowClient) IsConfigured() bool {
	return c.instance != "" && c.username != "" && c.password != ""
}

// GET /api/now/table/incident?sysparm_query=state=<code>
//
// 응답 본문은 파싱하지 않고 BodyPreviewLimit 문자까지만 잘라서 반환
func (c *ServiceNowClient) FetchIncidents(ctx context.Context, stateCode string) (*model.IncidentQueryResult, error) {
	if !c.IsConfigured() {
		return nil, fmt.Errorf("servicenow instance or credentials not configured")
	}

	endpoint := url.URL{
		Scheme: "https",
		Host:   c.instance,
		Path:   serviceNowIncidentPath,
	}
	q := endpoint.Query()
	q.Set("sysparm_limit", strconv.Itoa(serviceNowResultLimit))
	q.Set("sysparm_query", "state="+stateCode)
	q.Set("sysparm_fields", serviceNowFields)
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to servicenow: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return &model.IncidentQueryResult{
		StatusCode:  resp.StatusCode,
		Headers:     flattenHeaders(resp.Header),
		BodyPreview: model.TruncateBody(string(body), model.BodyPreviewLimit),
	}, nil
}

// 2xx 외 응답은 에러 (4xx: Client Error, 5xx: Server Error)
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	kind := "Client"
	if resp.StatusCode >= 500 {
		kind = "Server"
	}
	return fmt.Errorf("%d %s Error: %s for url: %s",
		resp.StatusCode, kind, http.StatusText(resp.StatusCode), resp.Request.URL.Redacted())
}

// 같은 이름의 헤더가 여러 개면 ", "로 합침
func flattenHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for key, values := range h {
		out[key] = strings.Join(values, ", ")
	}
	return out
}
