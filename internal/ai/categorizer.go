package ai

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"text/template"

	"github.com/calebmills/redlead/internal/config"
	"github.com/calebmills/redlead/internal/model"
)

// Uncategorized is the sentinel label used when the LLM call fails or AI is
// disabled.
const Uncategorized = "Uncategorized"

// Ensure LLMCategorizer implements model.Categorizer.
var _ model.Categorizer = (*LLMCategorizer)(nil)

// LLMCategorizer maps a post title to one of the configured job categories
// via an LLM call. The response text is returned verbatim (trimmed); no
// validation that it is actually a member of the taxonomy.
type LLMCategorizer struct {
	provider   LLMProvider
	tmpl       *template.Template
	categories []config.Category
	logger     *slog.Logger
}

// NewLLMCategorizer creates a categorizer over the given provider and taxonomy.
func NewLLMCategorizer(provider LLMProvider, tmpl *template.Template, categories []config.Category, logger *slog.Logger) *LLMCategorizer {
	return &LLMCategorizer{
		provider:   provider,
		tmpl:       tmpl,
		categories: categories,
		logger:     logger,
	}
}

// Categorize returns the LLM's label for title. Any failure (prompt
// rendering, network, provider error) degrades to Uncategorized so one bad
// call never affects more than one post.
func (c *LLMCategorizer) Categorize(ctx context.Context, title string) string {
	var promptBuf bytes.Buffer
	err := c.tmpl.Execute(&promptBuf, struct {
		Title      string
		Categories []config.Category
	}{
		Title:      title,
		Categories: c.categories,
	})
	if err != nil {
		c.logger.Warn("render categorize prompt failed", "title", title, "error", err)
		return Uncategorized
	}

	raw, err := c.provider.Complete(ctx, promptBuf.String())
	if err != nil {
		c.logger.Warn("categorize call failed", "title", title, "error", err)
		return Uncategorized
	}

	label := strings.TrimSpace(raw)
	if label == "" {
		return Uncategorized
	}
	return label
}
