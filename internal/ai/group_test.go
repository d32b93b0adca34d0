package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	resp  string
	err   error
	calls int
}

func (s *stubGenerator) Complete(ctx context.Context, system string, user string, opts *GenerateOptions) (string, error) {
	s.calls++
	return s.resp, s.err
}

type stubEmbedder struct {
	vec   []float32
	err   error
	model string
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return s.vec, s.err
}

func (s *stubEmbedder) ModelName() string {
	return s.model
}

func TestNewGroupGenerator_SingleEntryIsUnwrapped(t *testing.T) {
	primary := &stubGenerator{resp: "hello"}
	got := NewGroupGenerator([]GeneratorEntry{{Name: "only", Generator: primary}})
	require.Equal(t, primary, got)
}

func TestGroupGenerator_FallsBackInOrder(t *testing.T) {
	primary := &stubGenerator{err: errors.New("quota exceeded")}
	secondary := &stubGenerator{resp: "fallback answer"}
	group := NewGroupGenerator([]GeneratorEntry{
		{Name: "primary", Generator: primary},
		{Name: "secondary", Generator: secondary},
	})

	got, err := group.Complete(context.Background(), "system", "user", nil)
	require.NoError(t, err)
	require.Equal(t, "fallback answer", got)
	require.Equal(t, 1, primary.calls)
	require.Equal(t, 1, secondary.calls)
}

func TestGroupGenerator_AllFailedReturnsLastError(t *testing.T) {
	lastErr := errors.New("second down")
	group := NewGroupGenerator([]GeneratorEntry{
		{Name: "a", Generator: &stubGenerator{err: errors.New("first down")}},
		{Name: "b", Generator: &stubGenerator{err: lastErr}},
	})

	_, err := group.Complete(context.Background(), "system", "user", nil)
	require.ErrorIs(t, err, lastErr)
}

func TestGroupEmbedder_FallsBackAndReportsFirstModel(t *testing.T) {
	group := NewGroupEmbedder([]EmbedderEntry{
		{Name: "a", Embedder: &stubEmbedder{err: errors.New("down"), model: "model-a"}},
		{Name: "b", Embedder: &stubEmbedder{vec: []float32{1, 2}, model: "model-b"}},
	})

	vec, err := group.Embed(context.Background(), "text")
	require.NoError(t, err)
	require.Equal(t, []float32{1, 2}, vec)
	require.Equal(t, "model-a", group.ModelName())
}
