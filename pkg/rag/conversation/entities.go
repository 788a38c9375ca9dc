package conversation

import "regexp"

// EntityExtractor derives candidate named entities from answer text.
type EntityExtractor interface {
	Extract(text string) []string
}

var bigramPattern = regexp.MustCompile(`\b[A-Z][a-z]+ [A-Z][a-z]+\b`)

// BigramExtractor treats two consecutive capitalised words as an entity ("City Council").
type BigramExtractor struct{}

func (BigramExtractor) Extract(text string) []string {
	matches := bigramPattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}
