package chat

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"
)

//go:embed knowledge.tmpl
var knowledgeText string

var knowledgeTmpl = template.Must(template.New("knowledge").Parse(knowledgeText))

type KnowledgeService struct {
	Name     string
	Duration int
	Price    float64
	Category string
}

// KnowledgeData is everything the system prompt says about the spa.
type KnowledgeData struct {
	SpaName    string
	Address    string
	Phone      string
	Email      string
	Hours      string
	ClosedDays string
	Services   []KnowledgeService
}

// Knowledge renders the system prompt for the responder.
func Knowledge(data KnowledgeData) (string, error) {
	var buf bytes.Buffer
	if err := knowledgeTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("error rendering knowledge base: %w", err)
	}
	return buf.String(), nil
}
