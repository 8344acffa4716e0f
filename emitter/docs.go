package emitter

import (
	md "github.com/JohannesKaufmann/html-to-markdown"
)

// docConverter renders a shape's documentation trait (HTML, per the
// Smithy prelude's documented convention) into Markdown for a doc
// comment or Readme section (spec §4.5 "Docstring handling", §6.5
// Readme hook).
type docConverter struct {
	conv *md.Converter
}

func newDocConverter() *docConverter {
	return &docConverter{conv: md.NewConverter("", true, nil)}
}

// ToMarkdown converts html to Markdown, falling back to the raw input
// unchanged if conversion fails (documentation bodies are often already
// plain text with no markup, in which case conversion is a no-op).
func (d *docConverter) ToMarkdown(html string) string {
	out, err := d.conv.ConvertString(html)
	if err != nil {
		return html
	}
	return out
}
