// Package jsdoc parses and serializes JSDoc comment blocks in the subset
// the annotator manipulates: tags, Closure {type} expressions, and prose.
package jsdoc

import (
	"strings"
)

// Tag is a single JSDoc tag, or free-form prose when TagName is empty.
type Tag struct {
	// TagName is the tag without the @, e.g. "param", "return", "type".
	TagName string

	// Parameter is the named entity for tags that take one (@param x).
	Parameter string

	// Type is the Closure type expression without the surrounding braces.
	Type string

	// Text is the prose following the tag.
	Text string
}

// controlledTags are owned by the annotator: user-supplied occurrences are
// dropped during merge because the output would conflict with what the
// annotator synthesizes.
var controlledTags = map[string]bool{
	"augments":    true,
	"class":       true,
	"constructs":  true,
	"constructor": true,
	"enum":        true,
	"extends":     true,
	"implements":  true,
	"interface":   true,
	"lends":       true,
	"mixin":       true,
	"namespace":   true,
	"record":      true,
	"static":      true,
	"template":    true,
	"this":        true,
	"type":        true,
	"typedef":     true,
}

// passThroughTags survive merging untouched even when the annotator emits
// its own block.
var passThroughTags = map[string]bool{
	"fileoverview": true,
	"license":      true,
	"preserve":     true,
	"deprecated":   true,
	"export":       true,
	"suppress":     true,
}

// Parse splits a /** ... */ comment into tags. It returns nil when the
// text is not a JSDoc comment.
func Parse(comment string) []Tag {
	comment = strings.TrimSpace(comment)
	if !strings.HasPrefix(comment, "/**") || !strings.HasSuffix(comment, "*/") {
		return nil
	}
	body := strings.TrimSuffix(strings.TrimPrefix(comment, "/**"), "*/")
	var tags []Tag
	var cur *Tag
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "*")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "@") {
			tags = append(tags, parseTagLine(line))
			cur = &tags[len(tags)-1]
			continue
		}
		if cur != nil {
			if cur.Text != "" {
				cur.Text += " "
			}
			cur.Text += line
		} else {
			tags = append(tags, Tag{Text: line})
			cur = &tags[len(tags)-1]
		}
	}
	return tags
}

func parseTagLine(line string) Tag {
	rest := strings.TrimPrefix(line, "@")
	var tag Tag
	if i := strings.IndexAny(rest, " \t"); i >= 0 {
		tag.TagName = rest[:i]
		rest = strings.TrimSpace(rest[i:])
	} else {
		tag.TagName = rest
		return tag
	}
	if strings.HasPrefix(rest, "{") {
		if i := matchBrace(rest); i > 0 {
			tag.Type = rest[1:i]
			rest = strings.TrimSpace(rest[i+1:])
		}
	}
	if tag.TagName == "param" {
		if i := strings.IndexAny(rest, " \t"); i >= 0 {
			tag.Parameter = rest[:i]
			rest = strings.TrimSpace(rest[i:])
		} else {
			tag.Parameter = rest
			rest = ""
		}
	}
	tag.Text = rest
	return tag
}

// matchBrace returns the index of the brace closing the one at position 0,
// or -1 when unbalanced.
func matchBrace(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// Merge combines user-written tags with annotator-synthesized ones. User
// prose on @param tags is re-attached to the synthesized tag of the same
// parameter; controlled tags from the user are dropped; pass-through and
// unknown user tags are kept ahead of the synthesized block.
func Merge(user, synthesized []Tag) []Tag {
	paramText := make(map[string]string)
	var kept []Tag
	for _, t := range user {
		switch {
		case t.TagName == "param":
			if t.Text != "" {
				paramText[t.Parameter] = t.Text
			}
		case t.TagName == "return" || t.TagName == "returns":
			// prose re-attached below
			if t.Text != "" {
				paramText["@return"] = t.Text
			}
		case controlledTags[t.TagName]:
			// dropped: the annotator owns these
		default:
			kept = append(kept, t)
		}
	}
	out := kept
	for _, t := range synthesized {
		if t.TagName == "param" && t.Text == "" {
			t.Text = paramText[t.Parameter]
		}
		if (t.TagName == "return" || t.TagName == "returns") && t.Text == "" {
			t.Text = paramText["@return"]
		}
		out = append(out, t)
	}
	return out
}

// UserTypes returns the tags in user that carry a {type} annotation. Used
// by the annotator to report them when type annotations in comments are
// banned.
func UserTypes(user []Tag) []Tag {
	var out []Tag
	for _, t := range user {
		if t.Type != "" {
			out = append(out, t)
		}
	}
	return out
}

// IsPassThrough reports whether the tag survives merging untouched.
func IsPassThrough(tagName string) bool { return passThroughTags[tagName] }

// Serialize renders tags as a JSDoc comment. A single short tag without
// prose renders on one line; everything else renders as a block. The
// result ends without a trailing newline.
func Serialize(tags []Tag) string {
	if len(tags) == 0 {
		return ""
	}
	if len(tags) == 1 && tags[0].Text == "" && tags[0].TagName != "" {
		line := "/** " + renderTag(tags[0]) + " */"
		if len(line) <= 80 {
			return line
		}
	}
	var sb strings.Builder
	sb.WriteString("/**\n")
	for _, t := range tags {
		sb.WriteString(" * ")
		sb.WriteString(renderTag(t))
		sb.WriteString("\n")
	}
	sb.WriteString(" */")
	return sb.String()
}

func renderTag(t Tag) string {
	if t.TagName == "" {
		return t.Text
	}
	var sb strings.Builder
	sb.WriteString("@")
	sb.WriteString(t.TagName)
	if t.Type != "" {
		sb.WriteString(" {")
		sb.WriteString(t.Type)
		sb.WriteString("}")
	}
	if t.Parameter != "" {
		sb.WriteString(" ")
		sb.WriteString(t.Parameter)
	}
	if t.Text != "" {
		sb.WriteString(" ")
		sb.WriteString(t.Text)
	}
	return sb.String()
}
