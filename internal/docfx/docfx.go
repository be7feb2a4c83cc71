// Package docfx defines the DocFX item model emitted by the converter and
// the YAML record format (a mapping document preceded by a YamlMime header
// line) used for every generated reference page.
package docfx

// MIME header lines for generated records. Stage A emits UniversalReference;
// the cross-reference rewrite pass re-emits records as ManagedReference.
const (
	MimeUniversalReference = "### YamlMime:UniversalReference\n"
	MimeManagedReference   = "### YamlMime:ManagedReference\n"
)

// Item is one documented entity: a compound (class, struct, namespace) or a
// member (method, constructor, field). Field order matters: yaml.v3 emits
// struct fields in declaration order and DocFX consumers rely on uid coming
// first.
type Item struct {
	UID              string   `yaml:"uid"`
	ID               string   `yaml:"id"`
	Parent           string   `yaml:"parent,omitempty"`
	Type             string   `yaml:"type"`
	Summary          string   `yaml:"summary"`
	Langs            []string `yaml:"langs,omitempty"`
	Name             string   `yaml:"name,omitempty"`
	FullName         string   `yaml:"fullName,omitempty"`
	Brief            string   `yaml:"brief,omitempty"`
	Description      string   `yaml:"description,omitempty"`
	Syntax           *Syntax  `yaml:"syntax,omitempty"`
	Source           *Source  `yaml:"source,omitempty"`
	Inheritance      []string `yaml:"inheritance,omitempty"`
	DerivedClasses   []string `yaml:"derivedClasses,omitempty"`
	Children         []string `yaml:"children,omitempty"`
	InheritedMembers []string `yaml:"inheritedMembers,omitempty"`
	Overrides        []string `yaml:"overrides,omitempty"`
}

// Syntax holds the declaration text for an item (definition plus argument
// string, each trimmed before concatenation).
type Syntax struct {
	Content string `yaml:"content"`
}

// Source points at the location of an item in the original sources.
// EndLine is omitted when the extractor reported it as unknown.
type Source struct {
	Path      string `yaml:"path"`
	StartLine int    `yaml:"startLine"`
	EndLine   int    `yaml:"endLine,omitempty"`
}

// Reference is one entry of the global cross-reference map.
type Reference struct {
	UID      string `yaml:"uid"`
	Name     string `yaml:"name"`
	Href     string `yaml:"href"`
	FullName string `yaml:"fullName"`
}

// Document is a Stage A output record: the items of one compound.
type Document struct {
	Items []*Item `yaml:"items"`
}

// LinkedDocument is a record after cross-reference resolution. References is
// always serialized, even when empty.
type LinkedDocument struct {
	Items      []*Item      `yaml:"items"`
	References []*Reference `yaml:"references"`
}

// XrefMap is the consolidated reference-map artifact (xrefmap.yml).
type XrefMap struct {
	References []*Reference `yaml:"references"`
}
