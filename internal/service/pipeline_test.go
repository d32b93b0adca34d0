package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/compcheck/internal/ai"
	"github.com/xxxsen/compcheck/internal/model"
	appErr "github.com/xxxsen/compcheck/internal/pkg/errors"
)

// scriptedGenerator serves both model roles by keying on the system prompt,
// the same way one provider backs extraction and answering in production.
type scriptedGenerator struct {
	extractResp string
	answerResp  string
	answerErr   error
	answerUser  string
}

func (s *scriptedGenerator) Complete(ctx context.Context, system string, user string, opts *ai.GenerateOptions) (string, error) {
	if system == systemPromptExtract {
		return s.extractResp, nil
	}
	s.answerUser = user
	return s.answerResp, s.answerErr
}

type fakeContractStore struct {
	ids        []int64
	idsErr     error
	records    []model.ContractRecord
	fetchErr   error
	gotFilters model.FilterSet
	gotIDs     []int64
}

func (f *fakeContractStore) ContractIDsByFilters(ctx context.Context, filters model.FilterSet) ([]int64, error) {
	f.gotFilters = filters
	return f.ids, f.idsErr
}

func (f *fakeContractStore) ContractsByIDs(ctx context.Context, ids []int64) ([]model.ContractRecord, error) {
	f.gotIDs = ids
	return f.records, f.fetchErr
}

type fakeSearcher struct {
	chunks     []model.RetrievedChunk
	err        error
	called     bool
	gotAllowed []int64
	gotTopK    int
}

func (f *fakeSearcher) Search(ctx context.Context, vec []float32, allowedIDs []int64, topK int) ([]model.RetrievedChunk, error) {
	f.called = true
	f.gotAllowed = allowedIDs
	f.gotTopK = topK
	return f.chunks, f.err
}

func newTestPipeline(gen *scriptedGenerator, emb *fakeEmbedder, store *fakeContractStore, searcher *fakeSearcher, topK int) *PipelineService {
	return NewPipelineService(
		NewFilterExtractor(gen),
		store,
		NewQueryEmbedder(emb),
		searcher,
		NewAnswerGenerator(gen),
		topK,
	)
}

func TestPipelineRun_FullFlow(t *testing.T) {
	gen := &scriptedGenerator{
		extractResp: `{"contract_type": "SLA", "region": "EU"}`,
		answerResp:  "Two SLA contracts in the EU are out of compliance.",
	}
	store := &fakeContractStore{
		ids: []int64{3, 9},
		records: []model.ContractRecord{
			{ContractID: 3, VendorName: "Acme"},
			{ContractID: 9, VendorName: "Globex"},
		},
	}
	searcher := &fakeSearcher{
		chunks: []model.RetrievedChunk{{ContractID: 3, ChunkText: "clause", SimilarityScore: 0.91}},
	}

	pipeline := newTestPipeline(gen, &fakeEmbedder{vec: []float32{3, 4}}, store, searcher, 5)
	result, err := pipeline.Run(context.Background(), "which EU SLAs are failing?")
	require.NoError(t, err)

	require.Equal(t, "SLA", store.gotFilters.ContractType)
	require.Equal(t, "EU", store.gotFilters.Region)
	require.True(t, searcher.called)
	require.Equal(t, []int64{3, 9}, searcher.gotAllowed)
	require.Equal(t, 5, searcher.gotTopK)
	require.Equal(t, []int64{3, 9}, store.gotIDs)

	require.Equal(t, "Two SLA contracts in the EU are out of compliance.", result.Answer)
	require.Len(t, result.RetrievedChunks, 1)
	require.Len(t, result.StructuredRecords, 2)
	require.Contains(t, gen.answerUser, "which EU SLAs are failing?")
	require.Contains(t, gen.answerUser, "clause")
}

func TestPipelineRun_IdempotentWithDeterministicCollaborators(t *testing.T) {
	gen := &scriptedGenerator{extractResp: `{"region": "EU"}`, answerResp: "stable answer"}
	store := &fakeContractStore{
		ids:     []int64{5},
		records: []model.ContractRecord{{ContractID: 5, VendorName: "Acme"}},
	}
	searcher := &fakeSearcher{
		chunks: []model.RetrievedChunk{{ContractID: 5, ChunkText: "clause", SimilarityScore: 0.75}},
	}

	pipeline := newTestPipeline(gen, &fakeEmbedder{vec: []float32{1, 0}}, store, searcher, 5)
	first, err := pipeline.Run(context.Background(), "EU contracts?")
	require.NoError(t, err)
	second, err := pipeline.Run(context.Background(), "EU contracts?")
	require.NoError(t, err)

	require.Equal(t, first.StructuredRecords, second.StructuredRecords)
	require.Equal(t, first.RetrievedChunks, second.RetrievedChunks)
	require.Equal(t, first.Answer, second.Answer)
}

func TestPipelineRun_NoCandidatesSkipsVectorSearch(t *testing.T) {
	gen := &scriptedGenerator{
		extractResp: `{"vendor_name": "NoSuchVendor"}`,
		answerResp:  "No matching contracts were found.",
	}
	store := &fakeContractStore{ids: []int64{}}
	searcher := &fakeSearcher{}

	pipeline := newTestPipeline(gen, &fakeEmbedder{vec: []float32{1, 0}}, store, searcher, 5)
	result, err := pipeline.Run(context.Background(), "contracts for NoSuchVendor?")
	require.NoError(t, err)

	require.False(t, searcher.called)
	require.Equal(t, "No matching contracts were found.", result.Answer)
	require.NotNil(t, result.RetrievedChunks)
	require.Empty(t, result.RetrievedChunks)
	require.NotNil(t, result.StructuredRecords)
	require.Empty(t, result.StructuredRecords)
}

func TestPipelineRun_MalformedExtractionRunsUnconstrained(t *testing.T) {
	gen := &scriptedGenerator{
		extractResp: "I am sorry, I can only reply in prose.",
		answerResp:  "broad answer",
	}
	store := &fakeContractStore{ids: []int64{1}}
	searcher := &fakeSearcher{chunks: []model.RetrievedChunk{}}

	pipeline := newTestPipeline(gen, &fakeEmbedder{vec: []float32{1, 0}}, store, searcher, 5)
	_, err := pipeline.Run(context.Background(), "tell me about compliance")
	require.NoError(t, err)
	require.True(t, store.gotFilters.IsEmpty())
}

func TestPipelineRun_ZeroEmbeddingAborts(t *testing.T) {
	gen := &scriptedGenerator{extractResp: "{}", answerResp: "unused"}
	store := &fakeContractStore{ids: []int64{1}}
	searcher := &fakeSearcher{}

	pipeline := newTestPipeline(gen, &fakeEmbedder{vec: []float32{0, 0}}, store, searcher, 5)
	result, err := pipeline.Run(context.Background(), "anything")
	require.ErrorIs(t, err, appErr.ErrZeroEmbedding)
	require.Nil(t, result)
	require.False(t, searcher.called)
}

func TestPipelineRun_StoreErrorAborts(t *testing.T) {
	wantErr := errors.New("db unreachable")
	gen := &scriptedGenerator{extractResp: "{}", answerResp: "unused"}
	store := &fakeContractStore{idsErr: wantErr}
	searcher := &fakeSearcher{}

	pipeline := newTestPipeline(gen, &fakeEmbedder{vec: []float32{1, 0}}, store, searcher, 5)
	result, err := pipeline.Run(context.Background(), "anything")
	require.ErrorIs(t, err, wantErr)
	require.Nil(t, result)
	require.False(t, searcher.called)
}

func TestPipelineRun_SearchErrorAborts(t *testing.T) {
	wantErr := errors.New("collection missing")
	gen := &scriptedGenerator{extractResp: "{}", answerResp: "unused"}
	store := &fakeContractStore{ids: []int64{1}}
	searcher := &fakeSearcher{err: wantErr}

	pipeline := newTestPipeline(gen, &fakeEmbedder{vec: []float32{1, 0}}, store, searcher, 5)
	result, err := pipeline.Run(context.Background(), "anything")
	require.ErrorIs(t, err, wantErr)
	require.Nil(t, result)
}

func TestPipelineRun_AnswerErrorAborts(t *testing.T) {
	wantErr := errors.New("completion failed")
	gen := &scriptedGenerator{extractResp: "{}", answerErr: wantErr}
	store := &fakeContractStore{ids: []int64{}}
	searcher := &fakeSearcher{}

	pipeline := newTestPipeline(gen, &fakeEmbedder{vec: []float32{1, 0}}, store, searcher, 5)
	result, err := pipeline.Run(context.Background(), "anything")
	require.ErrorIs(t, err, wantErr)
	require.Nil(t, result)
}
