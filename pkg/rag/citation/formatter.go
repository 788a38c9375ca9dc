// Package citation resolves [n] markers in model answers against the source list
// returned with the answer.
package citation

import (
	"fmt"
	"regexp"
	"strconv"

	"morning-pulse-be/pkg/store"
)

type Citation struct {
	Index int    `json:"index"`
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
}

// Formatted is answer text with resolved markers replaced by placeholders.
type Formatted struct {
	Text      string           `json:"text"`
	Citations map[int]Citation `json:"citations"`
	// Order lists resolved citation numbers by first appearance.
	Order []int `json:"order"`
}

var (
	markerPattern      = regexp.MustCompile(`\[(\d+)\]`)
	placeholderPattern = regexp.MustCompile(`\{\{cite:(\d+)\}\}`)
)

func Placeholder(n int) string {
	return fmt.Sprintf("{{cite:%d}}", n)
}

// Format rewrites every [n] that has a source with Index == n. Unmatched markers stay literal.
func Format(text string, sources []store.Source) Formatted {
	byIndex := make(map[int]store.Source, len(sources))
	for _, s := range sources {
		if s.Index <= 0 {
			continue
		}
		if _, dup := byIndex[s.Index]; !dup {
			byIndex[s.Index] = s
		}
	}

	out := Formatted{Citations: map[int]Citation{}}
	out.Text = markerPattern.ReplaceAllStringFunc(text, func(marker string) string {
		n, err := strconv.Atoi(marker[1 : len(marker)-1])
		if err != nil {
			return marker
		}
		src, ok := byIndex[n]
		if !ok {
			return marker
		}
		if _, seen := out.Citations[n]; !seen {
			out.Citations[n] = Citation{Index: n, Title: src.Title, URL: src.URL}
			out.Order = append(out.Order, n)
		}
		return Placeholder(n)
	})
	return out
}

// Render turns placeholders back into plain [n] markers.
func Render(f Formatted) string {
	return placeholderPattern.ReplaceAllString(f.Text, "[$1]")
}

// RenderMarkdown renders placeholders as markdown links where a URL is known.
func RenderMarkdown(f Formatted) string {
	return placeholderPattern.ReplaceAllStringFunc(f.Text, func(ph string) string {
		n, _ := strconv.Atoi(placeholderPattern.FindStringSubmatch(ph)[1])
		c, ok := f.Citations[n]
		if !ok || c.URL == "" {
			return fmt.Sprintf("[%d]", n)
		}
		return fmt.Sprintf("[[%d]](%s)", n, c.URL)
	})
}

// CitedIndices returns the distinct [n] numbers found in text, in order of first appearance.
func CitedIndices(text string) []int {
	var out []int
	seen := map[int]bool{}
	for _, m := range markerPattern.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
