package segment

import "strings"

// LimitChunks deterministically merges adjacent chunks so no more than
// maxChunks remain. Identity when the input already fits. With
// q = len/maxChunks and r = len%maxChunks, the first r output groups merge
// q+1 consecutive input chunks and the rest merge q, so every input chunk
// lands in exactly one group, in order.
func LimitChunks(chunks []string, maxChunks int) []string {
	if maxChunks < 1 || len(chunks) <= maxChunks {
		return chunks
	}

	q := len(chunks) / maxChunks
	r := len(chunks) % maxChunks

	result := make([]string, 0, maxChunks)
	idx := 0
	for group := 0; group < maxChunks; group++ {
		size := q
		if group < r {
			size = q + 1
		}
		end := idx + size
		if end > len(chunks) {
			end = len(chunks)
		}
		if idx < end {
			result = append(result, strings.Join(chunks[idx:end], "\n"))
		}
		idx = end
	}
	return result
}
