package anchor

import (
	"strings"

	"github.com/czfsss/word-tool/pkg/types"
)

// SplitRun partitions a run around the first occurrence of target,
// producing new runs that carry the original's formatting. before and
// after are nil when the target touches the run boundary. ok is false when
// the run does not contain the target at all; the caller falls back to
// whole-run or whole-paragraph anchoring rather than failing.
//
// The function is pure: it never mutates the input, and splicing the
// pieces back into a document tree is the write layer's business.
func SplitRun(run types.Run, target string) (before *types.Run, matched types.Run, after *types.Run, ok bool) {
	pre, post, hit := strings.Cut(run.Text, target)
	if !hit {
		return nil, types.Run{}, nil, false
	}

	clone := func(text string) types.Run {
		c := run
		c.Text = text
		if run.Bold != nil {
			b := *run.Bold
			c.Bold = &b
		}
		if run.Italic != nil {
			i := *run.Italic
			c.Italic = &i
		}
		return c
	}

	matched = clone(target)
	if pre != "" {
		b := clone(pre)
		before = &b
	}
	if post != "" {
		a := clone(post)
		after = &a
	}
	return before, matched, after, true
}
