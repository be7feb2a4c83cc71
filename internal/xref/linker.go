// Package xref implements the cross-reference linker: the second pass over
// the full record set that builds the global uid map, prunes dangling
// parent/children/inheritedMembers links, and embeds per-record reference
// lists. It requires the complete Stage A output before it can rewrite any
// single record.
package xref

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/doxyfx/internal/docfx"
	doxyerrors "git.home.luguber.info/inful/doxyfx/internal/errors"
	"git.home.luguber.info/inful/doxyfx/internal/util/sets"
)

// MapFileName is the consolidated reference-map artifact written next to the
// records.
const MapFileName = "xrefmap.yml"

// Linker resolves cross-references over a complete record set.
type Linker struct {
	// Root is the directory containing the records; record paths and hrefs
	// are relative to it.
	Root string
}

// Run executes both linker passes over the given record paths (slash form,
// relative to Root). Pass 1 builds the global reference map and writes
// xrefmap.yml; pass 2 rewrites every record in place. Table-of-contents
// files are ignored.
func (l *Linker) Run(ctx context.Context, paths []string) (*docfx.XrefMap, error) {
	index, list, err := l.buildMap(ctx, paths)
	if err != nil {
		return nil, err
	}

	xrefMap := &docfx.XrefMap{References: list}
	mapPath := filepath.Join(l.Root, MapFileName)
	if err := docfx.WriteFile(mapPath, "", xrefMap); err != nil {
		return nil, doxyerrors.NewLinkError("write "+MapFileName, err)
	}

	if err := l.rewriteRecords(ctx, paths, index); err != nil {
		return nil, err
	}
	return xrefMap, nil
}

// buildMap is the read-only pass: one GlobalReference per item, keyed by uid
// and accumulated in record order.
func (l *Linker) buildMap(ctx context.Context, paths []string) (map[string]*docfx.Reference, []*docfx.Reference, error) {
	index := make(map[string]*docfx.Reference)
	list := make([]*docfx.Reference, 0)
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		if docfx.IsTOC(p) {
			continue
		}
		var doc docfx.LinkedDocument
		if err := docfx.ReadFile(filepath.Join(l.Root, filepath.FromSlash(p)), &doc); err != nil {
			return nil, nil, doxyerrors.NewLinkError("load record "+p, err)
		}
		for _, item := range doc.Items {
			ref := &docfx.Reference{
				UID:      item.UID,
				Name:     item.Name,
				Href:     hrefFor(p),
				FullName: item.FullName,
			}
			list = append(list, ref)
			index[item.UID] = ref
		}
	}
	slog.Debug("Built cross-reference map", "references", len(list))
	return index, list, nil
}

// rewriteRecords is the mutate pass: prune dangling relationship links and
// attach the references used by each record.
func (l *Linker) rewriteRecords(ctx context.Context, paths []string, index map[string]*docfx.Reference) error {
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		if docfx.IsTOC(p) {
			continue
		}
		target := filepath.Join(l.Root, filepath.FromSlash(p))
		var doc docfx.LinkedDocument
		if err := docfx.ReadFile(target, &doc); err != nil {
			return doxyerrors.NewLinkError("reload record "+p, err)
		}

		referenced := sets.New[string]()
		for _, item := range doc.Items {
			if item.Parent != "" {
				if _, known := index[item.Parent]; known {
					referenced.Add(item.Parent)
				} else {
					item.Parent = ""
				}
			}
			item.Children = retainKnown(item.Children, index, referenced)
			item.InheritedMembers = retainKnown(item.InheritedMembers, index, referenced)
		}

		doc.References = make([]*docfx.Reference, 0, referenced.Len())
		for _, uid := range sets.SortedStrings(referenced) {
			doc.References = append(doc.References, index[uid])
		}

		if err := docfx.WriteFile(target, docfx.MimeManagedReference, &doc); err != nil {
			return doxyerrors.NewLinkError("rewrite record "+p, err)
		}
	}
	return nil
}

// retainKnown filters uids down to those present in the map, marking each
// survivor as referenced. A nil slice stays nil.
func retainKnown(uids []string, index map[string]*docfx.Reference, referenced sets.Set[string]) []string {
	if uids == nil {
		return nil
	}
	out := uids[:0]
	for _, uid := range uids {
		if _, known := index[uid]; known {
			out = append(out, uid)
			referenced.Add(uid)
		}
	}
	return out
}

// hrefFor derives the site href for a record path.
func hrefFor(recordPath string) string {
	return "/" + strings.TrimSuffix(recordPath, ".yml") + ".html"
}
