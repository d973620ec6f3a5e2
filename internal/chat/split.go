package chat

import "strings"

// Fence is the fenced-code-block delimiter
const Fence = "```"

// DefaultCodeLabel is shown for code blocks without a language tag
const DefaultCodeLabel = "code"

// SegmentKind distinguishes prose from code in a message body
type SegmentKind int

const (
	SegmentProse SegmentKind = iota
	SegmentCode
)

func (k SegmentKind) String() string {
	if k == SegmentCode {
		return "code"
	}
	return "prose"
}

// Segment is one piece of a message body
type Segment struct {
	Kind SegmentKind
	// Lang is the trimmed language tag of a code segment; may be empty.
	Lang string
	Text string
}

// Label returns the language tag, or DefaultCodeLabel when it is empty
func (s Segment) Label() string {
	if s.Lang == "" {
		return DefaultCodeLabel
	}
	return s.Lang
}

// IsCode reports whether the segment is a fenced code block
func (s Segment) IsCode() bool {
	return s.Kind == SegmentCode
}

// Split breaks content on the ``` delimiter. Pieces at odd positions are
// code: their first line is the language tag and the rest is the body,
// verbatim. Pieces at even positions are prose and are kept even when empty.
//
// Delimiters are assumed to be paired. With an odd count the trailing piece
// is classified by position like any other, so an unterminated block's tail
// flips kind.
func Split(content string) []Segment {
	parts := strings.Split(content, Fence)
	segments := make([]Segment, 0, len(parts))

	for i, part := range parts {
		if i%2 == 0 {
			segments = append(segments, Segment{Kind: SegmentProse, Text: part})
			continue
		}

		tag, body, _ := strings.Cut(part, "\n")
		segments = append(segments, Segment{
			Kind: SegmentCode,
			Lang: strings.TrimSpace(tag),
			Text: body,
		})
	}

	return segments
}

// CodeBlock is a copy target: a code segment numbered across the transcript
type CodeBlock struct {
	Index int // 1-based
	Lang  string
	Code  string
}

// ExtractCodeBlocks returns the code segments of messages in order,
// numbered from 1
func ExtractCodeBlocks(messages []Message) []CodeBlock {
	var blocks []CodeBlock
	for _, msg := range messages {
		for _, seg := range Split(msg.Content) {
			if !seg.IsCode() {
				continue
			}
			blocks = append(blocks, CodeBlock{
				Index: len(blocks) + 1,
				Lang:  seg.Label(),
				Code:  seg.Text,
			})
		}
	}
	return blocks
}
