package jsonpath

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/matzehuels/jsonlens/pkg/errors"
)

// Deserialize parses the canonical text form produced by [Serialize].
//
// Accepted input is "$" followed by zero or more groups, each either
// "[digits]" or "[<JSON string>]". Surrounding whitespace is ignored.
// Anything else fails with an [errors.ErrCodeInvalidPath] error naming the
// byte offset of the problem.
func Deserialize(s string) (Path, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, Root) {
		return nil, errors.New(errors.ErrCodeInvalidPath, "path %q must start with %q", s, Root)
	}

	var p Path
	pos := len(Root)
	for pos < len(s) {
		if s[pos] != '[' {
			return nil, errors.New(errors.ErrCodeInvalidPath, "path %q: expected '[' at offset %d", s, pos)
		}
		pos++
		if pos >= len(s) {
			return nil, errors.New(errors.ErrCodeInvalidPath, "path %q: unterminated segment", s)
		}

		var (
			seg Segment
			err error
		)
		if s[pos] == '"' {
			seg, pos, err = scanKey(s, pos)
		} else {
			seg, pos, err = scanIndex(s, pos)
		}
		if err != nil {
			return nil, err
		}

		if pos >= len(s) || s[pos] != ']' {
			return nil, errors.New(errors.ErrCodeInvalidPath, "path %q: expected ']' at offset %d", s, pos)
		}
		pos++
		p = append(p, seg)
	}
	return p, nil
}

// scanKey reads a JSON string literal starting at s[start] == '"'.
func scanKey(s string, start int) (Segment, int, error) {
	i := start + 1
	for i < len(s) {
		switch s[i] {
		case '\\':
			i += 2
			continue
		case '"':
			var key string
			if err := json.Unmarshal([]byte(s[start:i+1]), &key); err != nil {
				return Segment{}, 0, errors.Wrap(errors.ErrCodeInvalidPath, err, "path %q: bad key at offset %d", s, start)
			}
			return Key(key), i + 1, nil
		}
		i++
	}
	return Segment{}, 0, errors.New(errors.ErrCodeInvalidPath, "path %q: unterminated key at offset %d", s, start)
}

// scanIndex reads a run of decimal digits starting at s[start].
func scanIndex(s string, start int) (Segment, int, error) {
	i := start
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == start {
		return Segment{}, 0, errors.New(errors.ErrCodeInvalidPath, "path %q: expected index or quoted key at offset %d", s, start)
	}
	n, err := strconv.Atoi(s[start:i])
	if err != nil {
		return Segment{}, 0, errors.Wrap(errors.ErrCodeInvalidPath, err, "path %q: index out of range at offset %d", s, start)
	}
	return Index(n), i, nil
}

// DeserializeLenient parses path text the permissive way older exports did:
// strip a leading "$[" and a trailing "]", split on "][", read numerals as
// indices and everything else as keys with all double quotes removed.
//
// It never fails, and it mangles keys that contain quotes or "][". Prefer
// [Deserialize] for text produced by [Serialize].
func DeserializeLenient(s string) Path {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$[")
	s = strings.TrimSuffix(s, "]")
	if s == "" || s == Root {
		return nil
	}

	parts := strings.Split(s, "][")
	p := make(Path, 0, len(parts))
	for _, part := range parts {
		if n, err := strconv.Atoi(part); err == nil && n >= 0 {
			p = append(p, Index(n))
			continue
		}
		p = append(p, Key(strings.ReplaceAll(part, `"`, "")))
	}
	return p
}
