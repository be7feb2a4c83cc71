package doxygen

import (
	"log/slog"

	"git.home.luguber.info/inful/doxyfx/internal/docfx"
)

// ItemGraph is the shared item mapping for one Stage A pass: items keyed by
// uid, with document order preserved for serialization. It is scoped to the
// lifetime of a single parse and never shared between input files.
type ItemGraph struct {
	items map[string]*docfx.Item
	order []string
}

func NewItemGraph() *ItemGraph {
	return &ItemGraph{items: make(map[string]*docfx.Item)}
}

// Add registers an item under its uid. Colliding uids are last-write-wins;
// the original position in document order is kept.
func (g *ItemGraph) Add(item *docfx.Item) {
	if _, exists := g.items[item.UID]; exists {
		slog.Warn("Duplicate item uid, replacing earlier definition", "uid", item.UID)
	} else {
		g.order = append(g.order, item.UID)
	}
	g.items[item.UID] = item
}

func (g *ItemGraph) Get(uid string) (*docfx.Item, bool) {
	item, ok := g.items[uid]
	return item, ok
}

func (g *ItemGraph) Len() int { return len(g.order) }

// Items returns all items in document order.
func (g *ItemGraph) Items() []*docfx.Item {
	out := make([]*docfx.Item, 0, len(g.order))
	for _, uid := range g.order {
		out = append(out, g.items[uid])
	}
	return out
}
