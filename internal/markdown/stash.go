package markdown

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	blockKind  = 'F'
	inlineKind = 'C'
)

var tokenPattern = regexp.MustCompile("\x00([FC])(\\d+)\x00")

// stash holds rendered code so later passes cannot rewrite its contents.
// Entries are referenced by NUL-delimited tokens in the working text.
type stash struct {
	entries []string
}

func (s *stash) put(kind byte, rendered string) string {
	s.entries = append(s.entries, rendered)
	return "\x00" + string(kind) + strconv.Itoa(len(s.entries)-1) + "\x00"
}

func (s *stash) restore(text string) string {
	return tokenPattern.ReplaceAllStringFunc(text, func(tok string) string {
		return s.lookup(tok)
	})
}

// plain swaps tokens for their text without markup.
func (s *stash) plain(text string) string {
	return tokenPattern.ReplaceAllStringFunc(text, func(tok string) string {
		rendered := s.lookup(tok)
		rendered = strings.TrimPrefix(rendered, "<code>")
		return strings.TrimSuffix(rendered, "</code>")
	})
}

func (s *stash) lookup(tok string) string {
	m := tokenPattern.FindStringSubmatch(tok)
	i, err := strconv.Atoi(m[2])
	if err != nil || i >= len(s.entries) {
		return ""
	}
	return s.entries[i]
}

func isBlockToken(block string) bool {
	m := tokenPattern.FindStringSubmatchIndex(block)
	return m != nil && m[0] == 0 && m[1] == len(block) && block[m[2]] == blockKind
}
