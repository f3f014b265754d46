// Package tstest is the test-support frontend for the translation passes:
// a scanner, parser, and checker for the TypeScript subset the test suite
// exercises, implementing the ts.Compiler contract. It is not part of the
// shipped core; production callers bring their own host compiler.
package tstest

import (
	"strings"

	"github.com/lucidsoftware/tsickle/ts"
)

type tokKind int

const (
	tokEOF tokKind = iota
	tokIdent
	tokString
	tokNumber
	tokPunct
)

type token struct {
	kind tokKind
	text string // identifier text, punct text, or raw literal text
	str  string // unquoted value for tokString
	pos  int
	end  int

	// fullPos is the start of the whitespace/comment run before the
	// token; leading holds the comments in that run.
	fullPos int
	leading []ts.Comment
}

// scan tokenizes the whole input. It never fails: unexpected bytes become
// single-character punct tokens.
func scan(text string) []token {
	var toks []token
	i := 0
	for {
		fullPos := i
		var leading []ts.Comment
		// trivia
		for i < len(text) {
			c := text[i]
			if c == ' ' || c == '\t' || c == '\r' || c == '\n' {
				i++
				continue
			}
			if c == '/' && i+1 < len(text) && text[i+1] == '/' {
				start := i
				for i < len(text) && text[i] != '\n' {
					i++
				}
				leading = append(leading, ts.Comment{Text: text[start:i], Pos: start, End: i})
				continue
			}
			if c == '/' && i+1 < len(text) && text[i+1] == '*' {
				start := i
				i += 2
				for i+1 < len(text) && !(text[i] == '*' && text[i+1] == '/') {
					i++
				}
				if i+1 < len(text) {
					i += 2
				} else {
					i = len(text)
				}
				leading = append(leading, ts.Comment{
					Text:  text[start:i],
					Pos:   start,
					End:   i,
					JSDoc: strings.HasPrefix(text[start:], "/**"),
				})
				continue
			}
			break
		}
		if i >= len(text) {
			toks = append(toks, token{kind: tokEOF, pos: i, end: i, fullPos: fullPos, leading: leading})
			return toks
		}
		start := i
		c := text[i]
		switch {
		case isIdentStart(c):
			for i < len(text) && isIdentPart(text[i]) {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: text[start:i], pos: start, end: i, fullPos: fullPos, leading: leading})
		case c >= '0' && c <= '9':
			for i < len(text) && (isIdentPart(text[i]) || text[i] == '.') {
				i++
			}
			toks = append(toks, token{kind: tokNumber, text: text[start:i], pos: start, end: i, fullPos: fullPos, leading: leading})
		case c == '"' || c == '\'' || c == '`':
			quote := c
			i++
			for i < len(text) && text[i] != quote {
				if text[i] == '\\' {
					i++
				}
				i++
			}
			if i < len(text) {
				i++
			}
			raw := text[start:i]
			val := raw
			if len(val) >= 2 {
				val = val[1 : len(val)-1]
			}
			toks = append(toks, token{kind: tokString, text: raw, str: val, pos: start, end: i, fullPos: fullPos, leading: leading})
		default:
			text2 := text[i:]
			punct := text[i : i+1]
			switch {
			case strings.HasPrefix(text2, "..."):
				punct = "..."
			case strings.HasPrefix(text2, "=>"):
				punct = "=>"
			case strings.HasPrefix(text2, "==="), strings.HasPrefix(text2, "!=="):
				punct = text2[:3]
			case strings.HasPrefix(text2, "=="), strings.HasPrefix(text2, "!="),
				strings.HasPrefix(text2, "&&"), strings.HasPrefix(text2, "||"),
				strings.HasPrefix(text2, "+="), strings.HasPrefix(text2, "-="):
				punct = text2[:2]
			}
			i += len(punct)
			toks = append(toks, token{kind: tokPunct, text: punct, pos: start, end: i, fullPos: fullPos, leading: leading})
		}
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
