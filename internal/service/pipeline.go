package service

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/compcheck/internal/model"
)

// ContractStore is the relational side of the pipeline: predicate lookup
// plus row fetch. *repo.ContractRepo satisfies it; tests use doubles.
type ContractStore interface {
	ContractIDsByFilters(ctx context.Context, filters model.FilterSet) ([]int64, error)
	ContractsByIDs(ctx context.Context, ids []int64) ([]model.ContractRecord, error)
}

// ChunkSearcher is the allow-list-scoped similarity search.
// *repo.VectorRepo satisfies it.
type ChunkSearcher interface {
	Search(ctx context.Context, vec []float32, allowedIDs []int64, topK int) ([]model.RetrievedChunk, error)
}

// PipelineService sequences extraction, relational lookup, embedding,
// vector search and answer generation into one request transaction. All
// collaborators are injected; the service itself holds no per-request
// state.
type PipelineService struct {
	extractor *FilterExtractor
	contracts ContractStore
	embedder  *QueryEmbedder
	vectors   ChunkSearcher
	answerer  *AnswerGenerator
	topK      int
}

func NewPipelineService(
	extractor *FilterExtractor,
	contracts ContractStore,
	embedder *QueryEmbedder,
	vectors ChunkSearcher,
	answerer *AnswerGenerator,
	topK int,
) *PipelineService {
	return &PipelineService{
		extractor: extractor,
		contracts: contracts,
		embedder:  embedder,
		vectors:   vectors,
		answerer:  answerer,
		topK:      topK,
	}
}

// Run executes the full pipeline for one query. Two fallbacks are
// deliberate and distinct: a malformed extraction degrades to the
// unconstrained query, while a well-formed FilterSet matching zero rows
// skips vector search and proceeds with empty context. Every other
// failure aborts the request with no partial result.
func (s *PipelineService) Run(ctx context.Context, query string) (*model.PipelineResult, error) {
	logger := logutil.GetLogger(ctx)
	logger.Info("pipeline started", zap.Int("query_len", len(query)))

	extraction, err := s.extractor.Extract(ctx, query)
	if err != nil {
		return nil, err
	}
	filters := extraction.Filters
	if extraction.Fallback {
		logger.Warn("extraction fallback: running unconstrained contract query")
		filters = model.FilterSet{}
	}

	ids, err := s.contracts.ContractIDsByFilters(ctx, filters)
	if err != nil {
		return nil, err
	}

	vec, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	chunks := []model.RetrievedChunk{}
	if len(ids) > 0 {
		chunks, err = s.vectors.Search(ctx, vec, ids, s.topK)
		if err != nil {
			return nil, err
		}
	} else {
		logger.Warn("no contract candidates, skipping vector search")
	}

	records, err := s.contracts.ContractsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	contextText := BuildContext(records, chunks)
	answer, err := s.answerer.Generate(ctx, query, contextText)
	if err != nil {
		return nil, err
	}

	if chunks == nil {
		chunks = []model.RetrievedChunk{}
	}
	if records == nil {
		records = []model.ContractRecord{}
	}
	logger.Info("pipeline finished",
		zap.Int("records", len(records)),
		zap.Int("chunks", len(chunks)),
	)
	return &model.PipelineResult{
		Answer:            answer,
		RetrievedChunks:   chunks,
		StructuredRecords: records,
	}, nil
}
