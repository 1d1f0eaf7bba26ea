package extractor

import (
	"regexp"
	"strings"
)

var separatorPattern = regexp.MustCompile(`[\n\r,;|\t]+`)

// ScanResult holds the candidates found in some input, in first-seen order,
// and the non-empty tokens that failed the shape filter.
type ScanResult struct {
	Numbers  []string
	Rejected []string
}

type scanner struct {
	result       ScanResult
	seen         map[string]struct{}
	seenRejected map[string]struct{}
}

func newScanner() *scanner {
	return &scanner{
		seen:         make(map[string]struct{}),
		seenRejected: make(map[string]struct{}),
	}
}

func (s *scanner) add(raw string) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return
	}
	token, ok := NormalizeCandidate(trimmed)
	if !ok {
		if _, dup := s.seenRejected[trimmed]; !dup {
			s.seenRejected[trimmed] = struct{}{}
			s.result.Rejected = append(s.result.Rejected, trimmed)
		}
		return
	}
	if _, dup := s.seen[token]; dup {
		return
	}
	s.seen[token] = struct{}{}
	s.result.Numbers = append(s.result.Numbers, token)
}

// ScanFreeText splits text on newlines, carriage returns, commas, semicolons,
// pipes and tabs, then normalizes and filters every piece.
func ScanFreeText(text string) ScanResult {
	s := newScanner()
	for _, piece := range separatorPattern.Split(text, -1) {
		s.add(piece)
	}
	return s.result
}

// ExtractFreeText returns the deduplicated candidates of text in first-seen order.
func ExtractFreeText(text string) []string {
	return ScanFreeText(text).Numbers
}
