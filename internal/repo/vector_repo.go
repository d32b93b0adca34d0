package repo

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"sync"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/compcheck/internal/model"
	appErr "github.com/xxxsen/compcheck/internal/pkg/errors"
)

// VectorRepo runs allow-list-scoped cosine searches over the pgvector
// collection of contract clause chunks. Search is never run unscoped: an
// empty allow-list short-circuits before any store call.
type VectorRepo struct {
	db         *sqlx.DB
	collection string

	mu       sync.Mutex
	verified bool
}

func NewVectorRepo(db *sqlx.DB, collection string) *VectorRepo {
	return &VectorRepo{db: db, collection: collection}
}

// Search returns the topK chunks nearest to vec among the allowed
// contract ids, highest similarity first. Scores are cosine similarity
// rounded to 6 decimals.
func (r *VectorRepo) Search(ctx context.Context, vec []float32, allowedIDs []int64, topK int) ([]model.RetrievedChunk, error) {
	if len(allowedIDs) == 0 {
		return []model.RetrievedChunk{}, nil
	}
	if err := r.ensureCollection(ctx); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
		SELECT contract_id, contract_type, text_chunk,
		       1 - (embedding <=> $1) AS similarity_score
		FROM %s
		WHERE contract_id = ANY($2)
		ORDER BY embedding <=> $1
		LIMIT $3
	`, pq.QuoteIdentifier(r.collection))

	chunks := make([]model.RetrievedChunk, 0, topK)
	if err := r.db.SelectContext(ctx, &chunks, query, pgvector.NewVector(vec), pq.Array(allowedIDs), topK); err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	for i := range chunks {
		chunks[i].SimilarityScore = roundScore(chunks[i].SimilarityScore)
	}
	logutil.GetLogger(ctx).Info("vector search done",
		zap.Int("allowed_ids", len(allowedIDs)),
		zap.Int("chunks", len(chunks)),
	)
	return chunks, nil
}

// CollectionExists exposes the provisioning check to the smoke-test
// command.
func (r *VectorRepo) CollectionExists(ctx context.Context) error {
	return r.ensureCollection(ctx)
}

// ensureCollection verifies the collection is provisioned, once per
// process. Only success is memoized: after a failure the next request
// checks again, so a transiently broken check cannot poison the handle.
func (r *VectorRepo) ensureCollection(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.verified {
		return nil
	}
	var reg sql.NullString
	if err := r.db.GetContext(ctx, &reg, "SELECT to_regclass($1)", r.collection); err != nil {
		return fmt.Errorf("check vector collection: %w", err)
	}
	if !reg.Valid {
		return fmt.Errorf("%w: %s", appErr.ErrMissingCollection, r.collection)
	}
	r.verified = true
	logutil.GetLogger(ctx).Info("vector collection verified", zap.String("collection", r.collection))
	return nil
}

func roundScore(s float64) float64 {
	return math.Round(s*1e6) / 1e6
}
