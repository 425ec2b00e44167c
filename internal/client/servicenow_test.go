package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kube-rca/incident-chat/internal/config"
	"github.com/kube-rca/incident-chat/internal/model"
)

func newTestServiceNowClient(t *testing.T, handler http.HandlerFunc) (*ServiceNowClient, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	c := NewServiceNowClient(config.ServiceNowConfig{
		Instance: strings.TrimPrefix(srv.URL, "https://"),
		Username: "admin",
		Password: "secret",
	})
	c.httpClient.Transport = srv.Client().Transport
	return c, &hits
}

func TestServiceNowClientIsConfigured(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.ServiceNowConfig
		want bool
	}{
		{name: "all-set", cfg: config.ServiceNowConfig{Instance: "dev1.service-now.com", Username: "u", Password: "p"}, want: true},
		{name: "missing-instance", cfg: config.ServiceNowConfig{Username: "u", Password: "p"}},
		{name: "missing-username", cfg: config.ServiceNowConfig{Instance: "dev1.service-now.com", Password: "p"}},
		{name: "missing-password", cfg: config.ServiceNowConfig{Instance: "dev1.service-now.com", Username: "u"}},
		{name: "blank-instance", cfg: config.ServiceNowConfig{Instance: "  ", Username: "u", Password: "p"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewServiceNowClient(tt.cfg).IsConfigured())
		})
	}
}

func TestServiceNowClientTimeout(t *testing.T) {
	c := NewServiceNowClient(config.ServiceNowConfig{})
	assert.Equal(t, 12*time.Second, c.httpClient.Timeout)
}

func TestFetchIncidentsRequest(t *testing.T) {
	c, hits := newTestServiceNowClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/now/table/incident", r.URL.Path)
		assert.Equal(t, "50", r.URL.Query().Get("sysparm_limit"))
		assert.Equal(t, "state=6", r.URL.Query().Get("sysparm_query"))
		assert.Equal(t, "number,short_description,priority,state,assigned_to", r.URL.Query().Get("sysparm_fields"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "admin", user)
		assert.Equal(t, "secret", pass)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":[]}`))
	})

	_, err := c.FetchIncidents(context.Background(), model.IncidentStateResolved)
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(hits))
}

func TestFetchIncidentsSuccess(t *testing.T) {
	body := `{"result":[{"number":"INC0010001","state":"6"}]}` + strings.Repeat(" ", 3000)
	c, _ := newTestServiceNowClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json;charset=UTF-8")
		w.Header().Add("X-Total-Count", "1")
		w.Header().Add("Set-Cookie", "a=1")
		w.Header().Add("Set-Cookie", "b=2")
		_, _ = w.Write([]byte(body))
	})

	res, err := c.FetchIncidents(context.Background(), model.IncidentStateResolved)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "application/json;charset=UTF-8", res.Headers["Content-Type"])
	assert.Equal(t, "1", res.Headers["X-Total-Count"])
	assert.Equal(t, "a=1, b=2", res.Headers["Set-Cookie"])
	assert.Len(t, res.BodyPreview, model.BodyPreviewLimit)
	assert.True(t, strings.HasPrefix(body, res.BodyPreview))
}

func TestFetchIncidentsShortBodyUntouched(t *testing.T) {
	c, _ := newTestServiceNowClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":[]}`))
	})

	res, err := c.FetchIncidents(context.Background(), model.IncidentStateNew)
	require.NoError(t, err)
	assert.Equal(t, `{"result":[]}`, res.BodyPreview)
}

func TestFetchIncidentsIdempotentShape(t *testing.T) {
	c, hits := newTestServiceNowClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":[]}`))
	})

	first, err := c.FetchIncidents(context.Background(), model.IncidentStateClosed)
	require.NoError(t, err)
	second, err := c.FetchIncidents(context.Background(), model.IncidentStateClosed)
	require.NoError(t, err)

	assert.Equal(t, first.StatusCode, second.StatusCode)
	keys := func(h map[string]string) []string {
		out := make([]string, 0, len(h))
		for k := range h {
			if k != "Date" {
				out = append(out, k)
			}
		}
		return out
	}
	assert.ElementsMatch(t, keys(first.Headers), keys(second.Headers))
	assert.EqualValues(t, 2, atomic.LoadInt32(hits))
}

func TestFetchIncidentsHTTPErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantMsg string
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, wantMsg: "401 Client Error: Unauthorized for url: "},
		{name: "not-found", status: http.StatusNotFound, wantMsg: "404 Client Error: Not Found for url: "},
		{name: "server-error", status: http.StatusServiceUnavailable, wantMsg: "503 Server Error: Service Unavailable for url: "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, hits := newTestServiceNowClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})

			res, err := c.FetchIncidents(context.Background(), model.IncidentStateNew)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.Contains(t, err.Error(), "/api/now/table/incident")
			// 재시도 없음
			assert.EqualValues(t, 1, atomic.LoadInt32(hits))
		})
	}
}

func TestFetchIncidentsTimeout(t *testing.T) {
	c, _ := newTestServiceNowClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	c.httpClient.Timeout = 50 * time.Millisecond

	res, err := c.FetchIncidents(context.Background(), model.IncidentStateNew)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.Contains(t, err.Error(), "failed to send request to servicenow")
}

func TestFetchIncidentsNotConfigured(t *testing.T) {
	c := NewServiceNowClient(config.ServiceNowConfig{Instance: "dev1.service-now.com"})
	_, err := c.FetchIncidents(context.Background(), model.IncidentStateNew)
	require.Error(t, err)
}
