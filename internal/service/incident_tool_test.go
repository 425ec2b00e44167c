package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kube-rca/incident-chat/internal/model"
)

type fakeFetcher struct {
	configured bool
	result     *model.IncidentQueryResult
	err        error
	states     []string
}

func (f *fakeFetcher) IsConfigured() bool { return f.configured }

func (f *fakeFetcher) FetchIncidents(_ context.Context, stateCode string) (*model.IncidentQueryResult, error) {
	f.states = append(f.states, stateCode)
	return f.result, f.err
}

func TestIncidentToolDefinition(t *testing.T) {
	def := NewIncidentTool(&fakeFetcher{}).Definition()
	assert.Equal(t, "get_servicenow_incidents", def.Name)
	require.Len(t, def.Parameters, 1)
	assert.Equal(t, "status", def.Parameters[0].Name)
	assert.True(t, def.Parameters[0].Required)
}

func TestIncidentToolMissingConfig(t *testing.T) {
	for _, status := range []string{"resolved", "pineapple", ""} {
		f := &fakeFetcher{configured: false}
		out := NewIncidentTool(f).FetchIncidents(context.Background(), status)

		assert.Equal(t, "ERROR: Missing SN_INSTANCE, SN_USERNAME, SN_PASSWORD.", out, status)
		assert.Empty(t, f.states, "no network call expected")
	}
}

func TestIncidentToolInvalidStatus(t *testing.T) {
	for _, status := range []string{"pineapple", "", "open", "resolved!"} {
		f := &fakeFetcher{configured: true}
		out := NewIncidentTool(f).FetchIncidents(context.Background(), status)

		msg, ok := out.(string)
		require.True(t, ok)
		assert.Contains(t, msg, "ERROR: Invalid status")
		for _, option := range []string{"new", "in progress", "resolved", "closed"} {
			assert.Contains(t, msg, option)
		}
		assert.Empty(t, f.states)
	}
}

func TestIncidentToolMapsStatus(t *testing.T) {
	tests := map[string]string{
		"new":         "1",
		"In Progress": "2",
		"ACTIVE":      "2",
		"Resolved":    "6",
		"closed":      "7",
	}
	for status, want := range tests {
		f := &fakeFetcher{configured: true, result: &model.IncidentQueryResult{StatusCode: 200}}
		out := NewIncidentTool(f).FetchIncidents(context.Background(), status)

		res, ok := out.(*model.IncidentQueryResult)
		require.True(t, ok, status)
		assert.Equal(t, 200, res.StatusCode)
		assert.Equal(t, []string{want}, f.states)
	}
}

func TestIncidentToolFetchError(t *testing.T) {
	f := &fakeFetcher{configured: true, err: errors.New("401 Client Error: Unauthorized for url: https://x/api/now/table/incident")}
	out := NewIncidentTool(f).FetchIncidents(context.Background(), "new")
	assert.Equal(t, "ERROR: 401 Client Error: Unauthorized for url: https://x/api/now/table/incident", out)
}

func TestIncidentToolCallArgs(t *testing.T) {
	f := &fakeFetcher{configured: true, result: &model.IncidentQueryResult{StatusCode: 200}}
	tool := NewIncidentTool(f)

	out, err := tool.Call(context.Background(), map[string]any{"status": "resolved"})
	require.NoError(t, err)
	assert.IsType(t, &model.IncidentQueryResult{}, out)
	assert.Equal(t, []string{"6"}, f.states)

	// 인자 누락/타입 불일치는 잘못된 상태로 처리
	out, err = tool.Call(context.Background(), map[string]any{"status": 6})
	require.NoError(t, err)
	assert.Equal(t, errInvalidIncidentStatus, out)

	out, err = tool.Call(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, errInvalidIncidentStatus, out)
}
