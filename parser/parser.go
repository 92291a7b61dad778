package parser

import (
	"regexp"
	"strings"
)

// CodeBlock represents a fenced code block.
type CodeBlock struct {
	// Language is the language specifier after the opening fence (e.g., "go", "tool_call").
	Language string

	// Content is the code inside the block, excluding fences.
	Content string

	// Raw is the complete block including the fences.
	Raw string

	// start and end locate Raw in the parsed text.
	start, end int
}

// Parser extracts structured content from model output.
type Parser struct {
	// codeBlockRegex matches fenced code blocks.
	codeBlockRegex *regexp.Regexp

	// toolLanguages are the fence languages that carry tool calls.
	toolLanguages map[string]bool
}

// Option configures a Parser.
type Option func(*Parser)

// WithToolLanguages replaces the fence languages recognised as tool calls.
// The default is "tool_call" and "tool".
func WithToolLanguages(languages ...string) Option {
	return func(p *Parser) {
		p.toolLanguages = make(map[string]bool, len(languages))
		for _, l := range languages {
			p.toolLanguages[strings.ToLower(l)] = true
		}
	}
}

// NewParser creates a new output parser with compiled regexes.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		codeBlockRegex: regexp.MustCompile("(?s)```(\\w*)[ \\t]*\\n(.*?)```"),
		toolLanguages:  map[string]bool{"tool_call": true, "tool": true},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ExtractAllCode extracts all code blocks from the output.
func (p *Parser) ExtractAllCode(text string) []CodeBlock {
	return p.extractCodeBlocks(text)
}

// IsToolBlock reports whether the block carries a tool call.
func (p *Parser) IsToolBlock(b CodeBlock) bool {
	return p.toolLanguages[strings.ToLower(b.Language)]
}

// extractCodeBlocks finds all fenced code blocks in the text.
func (p *Parser) extractCodeBlocks(text string) []CodeBlock {
	matches := p.codeBlockRegex.FindAllStringSubmatchIndex(text, -1)
	blocks := make([]CodeBlock, 0, len(matches))

	for _, m := range matches {
		if len(m) < 6 {
			continue
		}
		blocks = append(blocks, CodeBlock{
			Language: text[m[2]:m[3]],
			Content:  text[m[4]:m[5]],
			Raw:      text[m[0]:m[1]],
			start:    m[0],
			end:      m[1],
		})
	}

	return blocks
}

// ExtractAllCode is a convenience function using the default parser.
func ExtractAllCode(text string) []CodeBlock {
	return NewParser().ExtractAllCode(text)
}
