package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/compcheck/internal/ai"
	"github.com/xxxsen/compcheck/internal/model"
)

const extractMaxTokens = 300

// Extraction is the two-variant outcome of filter extraction: either a
// parsed FilterSet, or an explicit fallback after the model produced
// something unparsable. Keeping the distinction lets logs and tests tell
// "explicitly empty" apart from "recovered from garbage"; the pipeline
// flattens both to a plain FilterSet.
type Extraction struct {
	Filters  model.FilterSet
	Fallback bool
}

type FilterExtractor struct {
	gen ai.IGenerator
}

func NewFilterExtractor(gen ai.IGenerator) *FilterExtractor {
	return &FilterExtractor{gen: gen}
}

// Extract asks the model for structured filters with deterministic
// sampling. Provider errors propagate; a malformed completion degrades to
// the fallback variant, never to a pipeline failure.
func (e *FilterExtractor) Extract(ctx context.Context, query string) (Extraction, error) {
	temperature := float32(0)
	content, err := e.gen.Complete(ctx, systemPromptExtract, query, &ai.GenerateOptions{
		Temperature: &temperature,
		MaxTokens:   extractMaxTokens,
	})
	if err != nil {
		return Extraction{}, fmt.Errorf("extract filters: %w", err)
	}
	content = stripCodeFence(content)

	var filters model.FilterSet
	if err := json.Unmarshal([]byte(content), &filters); err != nil {
		logutil.GetLogger(ctx).Warn("filter extraction returned invalid json, using broad search",
			zap.String("raw", truncate(content, 200)),
			zap.Error(err),
		)
		return Extraction{Fallback: true}, nil
	}
	logutil.GetLogger(ctx).Info("filters extracted", zap.Bool("empty", filters.IsEmpty()))
	return Extraction{Filters: filters}, nil
}

func stripCodeFence(s string) string {
	clean := strings.TrimSpace(s)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	return strings.TrimSpace(clean)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
