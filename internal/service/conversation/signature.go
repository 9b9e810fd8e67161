package conversation

import "strings"

var bracketPairs = map[byte]byte{
	')': '(',
	']': '[',
	'}': '{',
	'>': '<',
}

// stripSignature drops anything after the first line break and a trailing
// bracketed group, e.g. "woodward and warren (sent from my phone)".
func stripSignature(text string) string {
	s := strings.TrimSpace(text)
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}

	if s == "" {
		return s
	}
	open, ok := bracketPairs[s[len(s)-1]]
	if !ok {
		return s
	}
	i := strings.LastIndexByte(s, open)
	if i <= 0 {
		return s
	}
	if head := strings.TrimSpace(s[:i]); head != "" {
		return head
	}
	return s
}
