package ai

import (
	_ "embed"
	"text/template"
)

//go:embed prompts/categorize_title.md
var categorizePromptRaw string

// CategorizeTemplate is the parsed prompt template for title categorization.
// Parsed once at package init; reused on every Categorize call.
var CategorizeTemplate = template.Must(template.New("categorize_title").Parse(categorizePromptRaw))
