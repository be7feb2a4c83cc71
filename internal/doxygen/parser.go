// Package doxygen streams the XML documentation dump produced by the Doxygen
// extractor and builds DocFX items from it. Parsing is single-pass: each
// element gets a transient handler node, text accumulates bottom-up through
// the node chain, and all item mutation happens inside tag handlers.
package doxygen

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	doxyerrors "git.home.luguber.info/inful/doxyfx/internal/errors"
)

// Parse streams one XML document into the item graph. The dispatcher itself
// is stateless beyond the handler stack; unparseable XML is fatal.
func Parse(r io.Reader, g *ItemGraph) error {
	dec := xml.NewDecoder(r)
	dec.Strict = true

	var top *node
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return doxyerrors.NewParseError("malformed extractor XML", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := newNode(t, top)
			top = n
			n.h.enter(n, g)
		case xml.EndElement:
			if top == nil {
				return doxyerrors.NewParseError(
					fmt.Sprintf("unbalanced closing tag </%s>", t.Name.Local), nil)
			}
			top.h.leave(top, g)
			top = top.parent
		case xml.CharData:
			if top != nil {
				top.h.characters(top, string(t), g)
			}
		}
	}
}

func newNode(start xml.StartElement, parent *node) *node {
	attrs := make(map[string]string, len(start.Attr))
	for _, a := range start.Attr {
		attrs[a.Name.Local] = a.Value
	}
	n := &node{
		tag:    start.Name.Local,
		attrs:  attrs,
		parent: parent,
	}
	if h, ok := handlers[n.tag]; ok {
		n.h = h
	} else {
		n.h = defaultHandler{}
	}
	return n
}
