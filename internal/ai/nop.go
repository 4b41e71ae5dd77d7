package ai

import (
	"context"

	"github.com/calebmills/redlead/internal/model"
)

// StaticCategorizer labels every title Uncategorized. Used when ai.enabled
// is false, so the pipeline runs without any LLM calls.
type StaticCategorizer struct{}

// NewStaticCategorizer returns a StaticCategorizer.
func NewStaticCategorizer() *StaticCategorizer {
	return &StaticCategorizer{}
}

var _ model.Categorizer = (*StaticCategorizer)(nil)

// Categorize returns Uncategorized.
func (s *StaticCategorizer) Categorize(_ context.Context, _ string) string {
	return Uncategorized
}
