package doxygen

import (
	"log/slog"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/doxyfx/internal/docfx"
)

// handler is the per-tag behavior for one element kind. Implementations are
// stateless singletons; per-element state lives on the node.
type handler interface {
	enter(n *node, g *ItemGraph)
	characters(n *node, content string, g *ItemGraph)
	leave(n *node, g *ItemGraph)
}

// handlers maps element names to their behavior. Unregistered tags fall back
// to defaultHandler, which only participates in text delegation.
var handlers = map[string]handler{
	"name":                nameHandler{},
	"definition":          signatureHandler{},
	"argsstring":          signatureHandler{},
	"listitem":            listItemHandler{},
	"para":                paraHandler{},
	"compounddef":         compoundDefHandler{},
	"compoundname":        compoundNameHandler{},
	"basecompoundref":     baseCompoundRefHandler{},
	"derivedcompoundref":  derivedCompoundRefHandler{},
	"memberdef":           memberDefHandler{},
	"computeroutput":      computerOutputHandler{},
	"programlisting":      programListingHandler{},
	"sp":                  spHandler{},
	"briefdescription":    briefDescriptionHandler{},
	"detaileddescription": detailedDescriptionHandler{},
	"ref":                 refHandler{},
	"location":            locationHandler{},
	"formula":             formulaHandler{},
	"reimplementedby":     reimplementedByHandler{},
}

// defaultHandler is the pass-through behavior: no structural effect, text is
// delegated up the node chain.
type defaultHandler struct{}

func (defaultHandler) enter(*node, *ItemGraph) {}
func (defaultHandler) leave(*node, *ItemGraph) {}
func (defaultHandler) characters(n *node, content string, _ *ItemGraph) {
	n.addContent(content)
}

// memberKindExcluded lists memberdef kinds that are not materialized as
// standalone items.
var memberKindExcluded = map[string]bool{
	"friend":   true,
	"type":     true,
	"typedef":  true,
	"variable": true,
}

// parentItem resolves the item owned by a node's parent element via its id
// attribute.
func parentItem(n *node, g *ItemGraph) (*docfx.Item, bool) {
	if n.parent == nil {
		return nil, false
	}
	id, ok := n.parent.attr("id")
	if !ok {
		return nil, false
	}
	item, ok := g.Get(id)
	return item, ok
}

// nameHandler covers two disjoint ancestry shapes: the member list of a
// compound (inherited-member backlinks) and regular name tags inside
// compound/member definitions (child registration and reclassification).
type nameHandler struct{ defaultHandler }

func (nameHandler) characters(n *node, content string, g *ItemGraph) {
	if hasTag(n.ancestor(2), "listofallmembers") {
		owner := n.ancestor(3)
		if owner == nil {
			return
		}
		ownerID, ok := owner.attr("id")
		if !ok {
			return
		}
		memberID, ok := n.parent.attr("refid")
		if !ok {
			return
		}
		item, ok := g.Get(ownerID)
		if !ok || slices.Contains(item.Children, memberID) {
			return
		}
		item.InheritedMembers = sortedIDSet(append(item.InheritedMembers, memberID))
		return
	}

	grand := n.ancestor(3)
	if grand == nil {
		return
	}
	ownerID, ok := grand.attr("id")
	if !ok {
		return
	}
	itemID, ok := n.parent.attr("id")
	if !ok {
		return
	}
	owner, ok := g.Get(ownerID)
	if !ok {
		// Name tags are expected to arrive after their enclosing compound
		// was materialized; anything else is skipped.
		slog.Debug("Name event without materialized owner", "owner", ownerID, "item", itemID)
		return
	}
	owner.Children = append(owner.Children, itemID)

	item, ok := g.Get(itemID)
	if !ok {
		return
	}
	item.Name = content
	item.FullName = owner.FullName + "::" + content
	if item.Type == "function" {
		kind := "method"
		if content == simpleName(owner.Name) {
			kind = "constructor"
		}
		item.Type = translate(kind)
	}
}

// simpleName strips any namespace qualification from a compound name.
func simpleName(name string) string {
	if i := strings.LastIndex(name, "::"); i >= 0 {
		return name[i+2:]
	}
	return name
}

// signatureHandler accumulates definition and argsstring text into the
// owning item's syntax content, each chunk trimmed independently.
type signatureHandler struct{ defaultHandler }

func (signatureHandler) characters(n *node, content string, g *ItemGraph) {
	item, ok := parentItem(n, g)
	if !ok {
		return
	}
	if item.Syntax == nil {
		item.Syntax = &docfx.Syntax{}
	}
	item.Syntax.Content += strings.TrimSpace(content)
}

type listItemHandler struct{ defaultHandler }

func (listItemHandler) enter(n *node, _ *ItemGraph) {
	n.addContent("  * ")
}

// admonitionRe matches a leading admonition marker in paragraph text.
var admonitionRe = regexp.MustCompile(`^ *(NOTE|WARNING|TIP|IMPORTANT|CAUTION):`)

type paraHandler struct{ defaultHandler }

func (paraHandler) characters(n *node, content string, _ *ItemGraph) {
	if m := admonitionRe.FindStringSubmatchIndex(content); m != nil {
		content = "\n> [!" + content[m[2]:m[3]] + "]\n> " + content[m[1]:]
	}
	n.addContent(content)
}

type compoundDefHandler struct{ defaultHandler }

func (compoundDefHandler) enter(n *node, g *ItemGraph) {
	kind, _ := n.attr("kind")
	if kind == "dir" {
		return
	}
	id, ok := n.attr("id")
	if !ok {
		return
	}
	item := &docfx.Item{
		UID:  id,
		ID:   id,
		Type: translate(kind),
	}
	if language, ok := n.attr("language"); ok {
		item.Langs = []string{translate(language)}
	}
	g.Add(item)
}

type compoundNameHandler struct{ defaultHandler }

func (compoundNameHandler) characters(n *node, content string, g *ItemGraph) {
	item, ok := parentItem(n, g)
	if !ok {
		return
	}
	item.Name = content
	item.FullName = content
}

type baseCompoundRefHandler struct{ defaultHandler }

func (baseCompoundRefHandler) enter(n *node, g *ItemGraph) {
	refid, ok := n.attr("refid")
	if !ok {
		return
	}
	if item, ok := parentItem(n, g); ok {
		item.Inheritance = append(item.Inheritance, refid)
	}
}

type derivedCompoundRefHandler struct{ defaultHandler }

func (derivedCompoundRefHandler) enter(n *node, g *ItemGraph) {
	refid, ok := n.attr("refid")
	if !ok {
		return
	}
	if item, ok := parentItem(n, g); ok {
		item.DerivedClasses = sortedIDSet(append(item.DerivedClasses, refid))
	}
}

type memberDefHandler struct{ defaultHandler }

func (memberDefHandler) enter(n *node, g *ItemGraph) {
	kind, _ := n.attr("kind")
	if memberKindExcluded[kind] {
		return
	}
	id, ok := n.attr("id")
	if !ok {
		return
	}
	compound := n.ancestor(2)
	if compound == nil {
		return
	}
	parentID, _ := compound.attr("id")
	g.Add(&docfx.Item{
		UID:    id,
		ID:     id,
		Parent: parentID,
		Type:   translate(kind),
	})
}

type computerOutputHandler struct{ defaultHandler }

func (computerOutputHandler) enter(n *node, _ *ItemGraph) {
	n.addContent("`")
}

func (computerOutputHandler) leave(n *node, _ *ItemGraph) {
	if !n.closed {
		n.addContent("`")
	}
}

// inferredCPPMarker is the synthetic first line Doxygen inserts when it
// guessed the listing language.
const inferredCPPMarker = " {c++}\n"

type programListingHandler struct{ defaultHandler }

func (programListingHandler) enter(n *node, _ *ItemGraph) {
	n.ownText()
}

func (programListingHandler) leave(n *node, _ *ItemGraph) {
	text := n.text.String()
	lang, _ := n.attr("filename")
	if strings.HasPrefix(text, inferredCPPMarker) {
		text = text[len(inferredCPPMarker):]
		lang = "cpp"
	}
	if lang == "c++" {
		lang = "cpp"
	}
	n.text = nil
	if n.parent != nil {
		n.parent.addContent("\n```" + lang + "\n" + text + "```\n")
	}
}

type spHandler struct{ defaultHandler }

func (spHandler) enter(n *node, _ *ItemGraph) {
	n.addContent(" ")
}

type briefDescriptionHandler struct{ defaultHandler }

func (briefDescriptionHandler) enter(n *node, _ *ItemGraph) {
	n.ownText()
}

func (briefDescriptionHandler) leave(n *node, g *ItemGraph) {
	if item, ok := parentItem(n, g); ok {
		brief := strings.TrimSpace(n.text.String())
		item.Brief = brief
		item.Summary = brief
	}
	n.text = nil
}

type detailedDescriptionHandler struct{ defaultHandler }

func (detailedDescriptionHandler) enter(n *node, _ *ItemGraph) {
	n.ownText()
}

func (detailedDescriptionHandler) leave(n *node, g *ItemGraph) {
	if item, ok := parentItem(n, g); ok {
		description := strings.TrimSpace(n.text.String())
		item.Description = description
		item.Summary = strings.TrimSpace(item.Summary + "\n\n" + description)
	}
	n.text = nil
}

// refHandler rewrites cross-reference links into [text](xref:uid) form. When
// the link is nested in an inline code span, the opening bracket is spliced
// in right after the span's leading backtick and the span is terminated
// early so it is not double-closed.
type refHandler struct{ defaultHandler }

func (refHandler) enter(n *node, _ *ItemGraph) {
	if hasTag(n.parent, "computeroutput") {
		if b := n.parent.buffered(); b != nil {
			b.insertBeforeLast("[")
		}
		return
	}
	n.addContent("[")
}

func (refHandler) leave(n *node, _ *ItemGraph) {
	if hasTag(n.parent, "computeroutput") {
		n.addContent("`")
		n.parent.closed = true
	}
	refid, _ := n.attr("refid")
	n.addContent("](xref:" + refid + ")")
}

// unknownEndLine is the sentinel the extractor emits when a body's end line
// could not be determined.
const unknownEndLine = "-1"

type locationHandler struct{ defaultHandler }

func (locationHandler) enter(n *node, g *ItemGraph) {
	item, ok := parentItem(n, g)
	if !ok {
		return
	}
	bodyFile, ok := n.attr("bodyfile")
	if !ok {
		return
	}
	bodyStart, ok := n.attr("bodystart")
	if !ok {
		return
	}
	startLine, err := strconv.Atoi(bodyStart)
	if err != nil {
		return
	}
	source := &docfx.Source{Path: bodyFile, StartLine: startLine}
	if bodyEnd, ok := n.attr("bodyend"); ok && bodyEnd != unknownEndLine {
		if endLine, err := strconv.Atoi(bodyEnd); err == nil {
			source.EndLine = endLine
		}
	}
	item.Source = source
}

var (
	displayMathRe = regexp.MustCompile(`^\s*\\\[(.*)\\\]\s*$`)
	inlineMathRe  = regexp.MustCompile(`^\s*\$(.*)\$\s*`)
)

type formulaHandler struct{ defaultHandler }

func (formulaHandler) enter(n *node, _ *ItemGraph) {
	n.ownText()
}

func (formulaHandler) leave(n *node, _ *ItemGraph) {
	content := n.text.String()
	// Exactly one wrapper is stripped; unmatched text passes through.
	if displayMathRe.MatchString(content) {
		content = displayMathRe.ReplaceAllString(content, "$1")
	} else if inlineMathRe.MatchString(content) {
		content = inlineMathRe.ReplaceAllString(content, "$1")
	}
	n.text = nil
	if n.parent != nil {
		n.parent.addContent("\n```math\n" + content + "\n```\n")
	}
	slog.Debug("Formula rewritten", "content", content)
}

type reimplementedByHandler struct{ defaultHandler }

func (reimplementedByHandler) enter(n *node, g *ItemGraph) {
	refid, ok := n.attr("refid")
	if !ok {
		return
	}
	if item, ok := parentItem(n, g); ok {
		// Overrides keep append order and duplicates, unlike the sorted
		// relationship sets.
		item.Overrides = append(item.Overrides, refid)
	}
}
