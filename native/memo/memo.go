// Package memo implements the transfer memo grammar
// "zupy:v1:<source>:<source_id>".
package memo

import (
	"strings"

	"zupytoken/native/common"
	"zupytoken/native/token"
)

// Validate checks a memo against the grammar. The split takes at most
// four parts, so the identifier segment may itself contain colons. Prefix
// and version must match exactly; source and identifier must be
// non-empty. Nothing else (length, charset) is constrained.
func Validate(m string) error {
	parts := strings.SplitN(m, ":", 4)
	if len(parts) != 4 {
		return common.ErrInvalidMemoFormat
	}
	if parts[0] != token.MemoPrefix {
		return common.ErrInvalidMemoFormat
	}
	if parts[1] != token.MemoVersion {
		return common.ErrInvalidMemoFormat
	}
	if parts[2] == "" || parts[3] == "" {
		return common.ErrInvalidMemoFormat
	}
	return nil
}

// Parts returns the source and identifier segments of a valid memo.
func Parts(m string) (source, sourceID string, err error) {
	if err := Validate(m); err != nil {
		return "", "", err
	}
	parts := strings.SplitN(m, ":", 4)
	return parts[2], parts[3], nil
}

// Format renders a memo for a source system and identifier. The result
// validates iff both segments are non-empty and the source carries no
// colon.
func Format(source, sourceID string) string {
	return token.MemoPrefix + ":" + token.MemoVersion + ":" + source + ":" + sourceID
}
