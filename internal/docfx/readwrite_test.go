package docfx

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteFile_HeaderAndLayout(t *testing.T) {
	target := filepath.Join(t.TempDir(), "api", "markov", "model.yml")
	doc := &Document{Items: []*Item{{
		UID:      "classmarkov_1_1Model",
		ID:       "classmarkov_1_1Model",
		Type:     "class",
		Summary:  "A transition model.",
		Langs:    []string{"cpp"},
		Name:     "markov::Model",
		FullName: "markov::Model",
		Syntax:   &Syntax{Content: "class Model"},
	}}}

	require.NoError(t, WriteFile(target, MimeUniversalReference, doc))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	body := string(data)

	require.True(t, strings.HasPrefix(body, "### YamlMime:UniversalReference\n"))
	// uid leads every item, and nesting is two-space indented.
	require.Contains(t, body, "- uid: classmarkov_1_1Model\n")
	require.Contains(t, body, "    syntax:\n      content: class Model\n")
	require.Less(t, strings.Index(body, "uid:"), strings.Index(body, "type:"))
}

func TestReadFile_StripsHeader(t *testing.T) {
	target := filepath.Join(t.TempDir(), "model.yml")
	require.NoError(t, WriteFile(target, MimeManagedReference, &Document{Items: []*Item{
		{UID: "classA", ID: "classA", Type: "class"},
	}}))

	var doc LinkedDocument
	require.NoError(t, ReadFile(target, &doc))
	require.Len(t, doc.Items, 1)
	require.Equal(t, "classA", doc.Items[0].UID)
}

func TestReadFile_NoHeader(t *testing.T) {
	target := filepath.Join(t.TempDir(), "xrefmap.yml")
	require.NoError(t, WriteFile(target, "", &XrefMap{References: []*Reference{
		{UID: "classA", Name: "A", Href: "/api/a.html", FullName: "A"},
	}}))

	var m XrefMap
	require.NoError(t, ReadFile(target, &m))
	require.Len(t, m.References, 1)
}

func TestIsTOC(t *testing.T) {
	require.True(t, IsTOC("api/toc.yml"))
	require.True(t, IsTOC("api/TOC.yml"))
	require.False(t, IsTOC("api/model.yml"))
	require.False(t, IsTOC("toc.yml.bak"))
}
