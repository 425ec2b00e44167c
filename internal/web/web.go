// Package web holds the chat page served at "/".
package web

import (
	"embed"
	"html/template"

	"github.com/kube-rca/incident-chat/internal/model"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const IndexTemplate = "index.tmpl"

// 사이드바 예시 질문
var ExampleQueries = []string{
	"show me new incidents",
	"list resolved tickets",
	"what is in progress?",
}

type PageData struct {
	Title       string
	Subtitle    string
	Placeholder string
	Examples    []string
	Turns       []model.ChatTurn
}

func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.tmpl"))
}
