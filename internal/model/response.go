package model

type ErrorResponse struct {
	Error string `json:"error"`
}

type PingResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status               string `json:"status"`
	ServiceNowConfigured bool   `json:"servicenow_configured"`
}
