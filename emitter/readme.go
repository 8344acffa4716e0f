package emitter

import (
	"fmt"
	"strings"

	"github.com/boynton/smithygen/id"
	"github.com/boynton/smithygen/model"
	"github.com/boynton/smithygen/traits"
)

// ReadmeContext is the caller-supplied context for RenderReadme (spec
// §6.5 Readme hook). Intro, when left empty, defaults to the service's
// own "documentation" trait converted from HTML to Markdown.
type ReadmeContext struct {
	Slug  string
	Title string
	Intro string
}

// RenderReadme renders a Markdown README for the service at serviceID,
// summarizing its bound operations (spec §6.5).
func RenderReadme(store *model.Store, serviceID id.ShapeId, ctx ReadmeContext) (string, error) {
	shape, ok := store.GetShape(serviceID)
	if !ok || shape.Kind != model.KindService {
		return "", fmt.Errorf("emitter: RenderReadme root %s is not a service shape", serviceID)
	}

	docs := newDocConverter()
	intro := ctx.Intro
	if intro == "" {
		intro = traitDoc(store, docs, serviceID)
	}

	var b strings.Builder
	title := ctx.Title
	if title == "" {
		title = ShapeName(store, serviceID)
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	if intro != "" {
		fmt.Fprintf(&b, "%s\n\n", intro)
	}

	if len(shape.Service.Operations) == 0 {
		return b.String(), nil
	}
	b.WriteString("## Operations\n\n")
	for _, opID := range shape.Service.Operations {
		fmt.Fprintf(&b, "- `%s`", ShapeName(store, opID))
		if d := traitDoc(store, docs, opID); d != "" {
			fmt.Fprintf(&b, " — %s", strings.TrimSpace(d))
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}

func traitDoc(store *model.Store, docs *docConverter, shapeID id.ShapeId) string {
	entry, ok := store.Trait(shapeID, traits.Documentation)
	if !ok {
		return ""
	}
	html, err := traits.Get[string](*entry.Payload)
	if err != nil {
		return ""
	}
	return docs.ToMarkdown(html)
}
