// Package markup converts the assistant's lightweight response dialect
// (bold via **text**, links via [label](url), bare URLs) into an ordered
// sequence of typed segments safe to hand to a renderer.
package markup

import "regexp"

// Kind classifies a segment.
type Kind string

const (
	KindPlain Kind = "plain"
	KindBold  Kind = "bold"
	KindLink  Kind = "link"
)

// Segment is one classified unit of displayable content. For links,
// Text carries the label and URL the target; otherwise URL is empty.
type Segment struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`
	URL  string `json:"url,omitempty"`
}

var (
	// Bracketed label, optional whitespace (incl. newlines), then a
	// parenthesized http(s) URL with no whitespace or ')' inside.
	linkRe = regexp.MustCompile(`\[([^\]]+)\]\s*\((https?://[^)\s]+)\)`)
	bareRe = regexp.MustCompile(`https?://[^\s)]+`)
	boldRe = regexp.MustCompile(`\*\*([^*]+)\*\*`)
)

// Segments scans text left to right and returns its display segments.
// It is pure and total: malformed markup falls through as plain text.
//
// Links are matched first, leftmost and non-overlapping; text between
// links still gets bold treatment. When no bracketed link matches but
// the text contains bare URLs, each URL becomes a link labeled with
// itself and bold markup is left untouched. Downstream output depends
// on that quirk, so it stays.
func Segments(text string) []Segment {
	if text == "" {
		return nil
	}

	links := linkRe.FindAllStringSubmatchIndex(text, -1)
	if len(links) > 0 {
		var out []Segment
		last := 0
		for _, m := range links {
			if m[0] > last {
				out = append(out, boldSegments(text[last:m[0]])...)
			}
			out = append(out, Segment{Kind: KindLink, Text: text[m[2]:m[3]], URL: text[m[4]:m[5]]})
			last = m[1]
		}
		if last < len(text) {
			out = append(out, boldSegments(text[last:])...)
		}
		return out
	}

	if bares := bareRe.FindAllStringIndex(text, -1); len(bares) > 0 {
		var out []Segment
		last := 0
		for _, m := range bares {
			if m[0] > last {
				out = append(out, Segment{Kind: KindPlain, Text: text[last:m[0]]})
			}
			url := text[m[0]:m[1]]
			out = append(out, Segment{Kind: KindLink, Text: url, URL: url})
			last = m[1]
		}
		if last < len(text) {
			out = append(out, Segment{Kind: KindPlain, Text: text[last:]})
		}
		return out
	}

	return boldSegments(text)
}

// boldSegments splits text into plain and bold segments. Spans whose
// inner content contains '*' do not match and stay literal.
func boldSegments(text string) []Segment {
	if text == "" {
		return nil
	}
	var out []Segment
	last := 0
	for _, m := range boldRe.FindAllStringSubmatchIndex(text, -1) {
		if m[0] > last {
			out = append(out, Segment{Kind: KindPlain, Text: text[last:m[0]]})
		}
		out = append(out, Segment{Kind: KindBold, Text: text[m[2]:m[3]]})
		last = m[1]
	}
	if last < len(text) {
		out = append(out, Segment{Kind: KindPlain, Text: text[last:]})
	}
	return out
}
