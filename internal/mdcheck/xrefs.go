// Package mdcheck validates the Markdown emitted into item summaries:
// every xref: destination must resolve in the global reference map.
package mdcheck

import (
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const xrefScheme = "xref:"

// ExtractXrefs parses a Markdown body and returns the uid of every xref link
// destination, in document order.
func ExtractXrefs(body []byte) []string {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(body))

	var uids []string
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}

		var dest string
		switch node := n.(type) {
		case *gmast.AutoLink:
			dest = string(node.URL(body))
		case *gmast.Link:
			dest = string(node.Destination)
		default:
			return gmast.WalkContinue, nil
		}
		if uid, ok := strings.CutPrefix(dest, xrefScheme); ok {
			uids = append(uids, uid)
		}
		return gmast.WalkContinue, nil
	})
	return uids
}
