package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVectorRepoSearch_EmptyAllowListSkipsStore(t *testing.T) {
	// nil db: any store round-trip would panic, so passing is proof the
	// short-circuit fires before the query.
	repo := NewVectorRepo(nil, "legal_policy_vectors")

	chunks, err := repo.Search(context.Background(), []float32{0.1, 0.2}, nil, 5)
	require.NoError(t, err)
	require.NotNil(t, chunks)
	require.Empty(t, chunks)

	chunks, err = repo.Search(context.Background(), []float32{0.1, 0.2}, []int64{}, 5)
	require.NoError(t, err)
	require.Empty(t, chunks)
}

func TestRoundScore_SixDecimals(t *testing.T) {
	require.Equal(t, 0.123457, roundScore(0.1234567))
	require.Equal(t, 0.123456, roundScore(0.1234564))
	require.Equal(t, 1.0, roundScore(0.9999999))
	require.Equal(t, 0.0, roundScore(0))
}
