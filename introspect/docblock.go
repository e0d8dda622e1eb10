package introspect

import (
	"strings"
)

// DocBlock is a parsed documentation comment.
//
// The summary is the first paragraph, the description every following
// paragraph up to the first annotation. Annotation lines start with "@name";
// the payload is the rest of the line plus any continuation lines up to the
// next annotation or blank line.
type DocBlock struct {
	Summary     string
	Description string
	Tags        []DocTag
}

// DocTag is one annotation occurrence.
type DocTag struct {
	Name    string
	Payload string
}

// ParseDocBlock parses comment text. Comment markers ("//", "/*", "*/" and
// leading "*") are stripped if present.
func ParseDocBlock(text string) DocBlock {
	var (
		block      DocBlock
		paragraphs []string
		current    []string
		tag        *DocTag
	)

	flushParagraph := func() {
		if len(current) > 0 {
			paragraphs = append(paragraphs, strings.Join(current, " "))
			current = nil
		}
	}
	flushTag := func() {
		if tag != nil {
			tag.Payload = strings.TrimSpace(tag.Payload)
			block.Tags = append(block.Tags, *tag)
			tag = nil
		}
	}

	for _, raw := range strings.Split(text, "\n") {
		line := stripCommentMarkers(raw)

		if strings.HasPrefix(line, "@") {
			flushParagraph()
			flushTag()
			name, payload := line[1:], ""
			if i := strings.IndexAny(name, " \t"); i >= 0 {
				name, payload = name[:i], name[i+1:]
			}
			if name == "" {
				continue
			}
			tag = &DocTag{Name: name, Payload: payload}
			continue
		}

		if line == "" {
			flushTag()
			flushParagraph()
			continue
		}

		if tag != nil {
			tag.Payload += "\n" + line
			continue
		}
		if len(block.Tags) == 0 {
			current = append(current, line)
		}
	}
	flushTag()
	flushParagraph()

	if len(paragraphs) > 0 {
		block.Summary = paragraphs[0]
		block.Description = strings.Join(paragraphs[1:], "\n\n")
	}
	return block
}

func stripCommentMarkers(line string) string {
	line = strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(line, "//"):
		line = line[2:]
	case strings.HasPrefix(line, "/**"):
		line = line[3:]
	case strings.HasPrefix(line, "/*"):
		line = line[2:]
	}
	line = strings.TrimSuffix(strings.TrimSpace(line), "*/")
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, "*") {
		line = strings.TrimSpace(line[1:])
	}
	return line
}

// Values returns every payload of the named annotation in occurrence order.
func (b DocBlock) Values(name string) []string {
	var out []string
	for _, t := range b.Tags {
		if t.Name == name {
			out = append(out, t.Payload)
		}
	}
	return out
}

// Last returns the payload of the last occurrence of the named annotation.
func (b DocBlock) Last(name string) (string, bool) {
	for i := len(b.Tags) - 1; i >= 0; i-- {
		if b.Tags[i].Name == name {
			return b.Tags[i].Payload, true
		}
	}
	return "", false
}
