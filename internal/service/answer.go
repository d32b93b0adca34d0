package service

import (
	"context"
	"fmt"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/compcheck/internal/ai"
)

const (
	answerTemperature = float32(0.2)
	answerMaxTokens   = 2048
)

// AnswerGenerator produces the grounded, structured answer. Failures are
// not retried; a completion already sent cannot be undone.
type AnswerGenerator struct {
	gen ai.IGenerator
}

func NewAnswerGenerator(gen ai.IGenerator) *AnswerGenerator {
	return &AnswerGenerator{gen: gen}
}

func (a *AnswerGenerator) Generate(ctx context.Context, query string, contextText string) (string, error) {
	temperature := answerTemperature
	user := fmt.Sprintf("User Query:\n%s\n\nContext:\n%s", query, contextText)
	answer, err := a.gen.Complete(ctx, systemPromptAnswer, user, &ai.GenerateOptions{
		Temperature: &temperature,
		MaxTokens:   answerMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}
	logutil.GetLogger(ctx).Info("answer generated", zap.Int("chars", len(answer)))
	return answer, nil
}
