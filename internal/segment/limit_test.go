package segment

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numberedChunks(n int) []string {
	chunks := make([]string, n)
	for i := range chunks {
		chunks[i] = fmt.Sprintf("chunk-%02d", i)
	}
	return chunks
}

func TestLimitChunks_IdentityWhenWithinBound(t *testing.T) {
	chunks := numberedChunks(5)
	assert.Equal(t, chunks, LimitChunks(chunks, 5))
	assert.Equal(t, chunks, LimitChunks(chunks, 10))
}

func TestLimitChunks_NonPositiveMax(t *testing.T) {
	chunks := numberedChunks(5)
	assert.Equal(t, chunks, LimitChunks(chunks, 0))
	assert.Equal(t, chunks, LimitChunks(chunks, -3))
}

func TestLimitChunks_EvenDistribution(t *testing.T) {
	// 10 chunks into 3 groups: sizes 4, 3, 3.
	got := LimitChunks(numberedChunks(10), 3)
	require.Len(t, got, 3)
	assert.Len(t, strings.Split(got[0], "\n"), 4)
	assert.Len(t, strings.Split(got[1], "\n"), 3)
	assert.Len(t, strings.Split(got[2], "\n"), 3)
}

func TestLimitChunks_DefaultBound(t *testing.T) {
	// 37 chunks into 30 groups: the first 7 groups merge two consecutive
	// chunks, the remaining 23 pass through untouched.
	got := LimitChunks(numberedChunks(37), 30)
	require.Len(t, got, 30)
	for i := 0; i < 7; i++ {
		assert.Len(t, strings.Split(got[i], "\n"), 2, "group %d", i)
	}
	for i := 7; i < 30; i++ {
		assert.Len(t, strings.Split(got[i], "\n"), 1, "group %d", i)
	}
	assert.Equal(t, "chunk-00\nchunk-01", got[0])
	assert.Equal(t, "chunk-14", got[7])
	assert.Equal(t, "chunk-36", got[29])
}

func TestLimitChunks_CountInvariant(t *testing.T) {
	for n := 1; n <= 40; n++ {
		for max := 1; max <= 12; max++ {
			got := LimitChunks(numberedChunks(n), max)
			want := n
			if max < n {
				want = max
			}
			assert.Len(t, got, want, "n=%d max=%d", n, max)
		}
	}
}

func TestLimitChunks_OrderAndCompleteness(t *testing.T) {
	chunks := numberedChunks(17)
	got := LimitChunks(chunks, 4)
	joined := strings.Join(got, "\n")
	assert.Equal(t, strings.Join(chunks, "\n"), joined)
}

func TestLimitChunks_Idempotent(t *testing.T) {
	once := LimitChunks(numberedChunks(23), 6)
	twice := LimitChunks(once, 6)
	assert.Equal(t, once, twice)
}
