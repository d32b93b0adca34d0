package service

import (
	"context"
	"fmt"
	"math"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/compcheck/internal/ai"
	appErr "github.com/xxxsen/compcheck/internal/pkg/errors"
)

// QueryEmbedder turns a query into a unit-normalized vector. One provider
// call per invocation, no caching.
type QueryEmbedder struct {
	emb ai.IEmbedder
}

func NewQueryEmbedder(emb ai.IEmbedder) *QueryEmbedder {
	return &QueryEmbedder{emb: emb}
}

// EmbedQuery embeds text and divides by the L2 norm. A zero-norm result is
// a hard error: it signals a degenerate embedding and must never be
// smoothed over into NaN or a zero vector.
func (q *QueryEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vec, err := q.emb.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	normalized, err := normalizeL2(vec)
	if err != nil {
		return nil, err
	}
	logutil.GetLogger(ctx).Info("query embedded", zap.Int("dim", len(normalized)))
	return normalized, nil
}

func normalizeL2(vec []float32) ([]float32, error) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return nil, appErr.ErrZeroEmbedding
	}
	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = float32(float64(v) / norm)
	}
	return out, nil
}
