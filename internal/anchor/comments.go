package anchor

import (
	"encoding/json"
	"strings"

	"github.com/czfsss/word-tool/pkg/types"
)

// placeholderKey is the prompt-template placeholder some upstream LLM
// outputs leak into the comment map; it never refers to document text.
const placeholderKey = "合同原文的问题句"

// ParseComments decodes a comments payload into a snippet→annotation map.
// Two shapes are accepted: a single object {"原文": "批注", ...} or an
// array of such objects whose entries are merged. Invalid pairs (empty
// keys or values, separator keys "--...", the known placeholder) are
// dropped silently; only a payload with the wrong overall shape or no
// surviving pairs is an error.
func ParseComments(data []byte) (map[string]string, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, types.ErrInvalidComments
	}

	merged := make(map[string]string)

	var object map[string]string
	if err := json.Unmarshal([]byte(trimmed), &object); err == nil {
		addValidComments(merged, object)
	} else {
		var groups []map[string]string
		if err := json.Unmarshal([]byte(trimmed), &groups); err != nil {
			return nil, types.ErrInvalidComments
		}
		for _, group := range groups {
			addValidComments(merged, group)
		}
	}

	if len(merged) == 0 {
		return nil, types.ErrNoValidComments
	}
	return merged, nil
}

// addValidComments copies the pairs that survive the denylist.
func addValidComments(dst, src map[string]string) {
	for key, value := range src {
		if !validCommentPair(key, value) {
			continue
		}
		dst[key] = value
	}
}

func validCommentPair(key, value string) bool {
	if strings.TrimSpace(key) == "" || strings.TrimSpace(value) == "" {
		return false
	}
	if strings.HasPrefix(key, "--") {
		return false
	}
	if key == placeholderKey {
		return false
	}
	return true
}
