package llm

import (
	"fmt"
	"strings"
)

// ExtractionSchema describes the JSON object a prompt asks the model for.
type ExtractionSchema struct {
	Name        string        // Schema name (e.g., "ApplicationAnalysis")
	Description string        // Preamble describing the task
	Fields      []SchemaField // Expected output fields
}

// SchemaField defines a single field in the extraction output.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint: "string", "[]string"
	Description string // Description for the LLM
	Required    bool   // Whether this field is required
}

// BuildExtractionPrompt constructs the LLM prompt from schema and input text.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "string"
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		sb.WriteString(fmt.Sprintf("  \"%s\": %s%s", field.Name, typeHint, requiredHint))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Base every statement on the input text; do not invent experience.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	sb.WriteString("Input text:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// ApplicationAnalysisSchema asks for the recruiter-facing review of an
// application. description carries the job and rubric context.
func ApplicationAnalysisSchema(description string) ExtractionSchema {
	return ExtractionSchema{
		Name:        "ApplicationAnalysis",
		Description: description,
		Fields: []SchemaField{
			{
				Name:        "summary",
				Type:        "\"string\"",
				Description: "Two-sentence summary of the candidate",
				Required:    true,
			},
			{
				Name:        "strengths",
				Type:        "[\"string\"]",
				Description: "Strengths relevant to this job",
				Required:    true,
			},
			{
				Name:        "weaknesses",
				Type:        "[\"string\"]",
				Description: "Gaps against the job requirements",
				Required:    true,
			},
			{
				Name:        "skills",
				Type:        "[\"string\"]",
				Description: "Skills named in the resume",
				Required:    false,
			},
		},
	}
}
