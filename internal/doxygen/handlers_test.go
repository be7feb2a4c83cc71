package doxygen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func parseString(t *testing.T, input string) *ItemGraph {
	t.Helper()
	g := NewItemGraph()
	require.NoError(t, Parse(strings.NewReader(input), g))
	return g
}

func TestParse_CompoundWithMethodMember(t *testing.T) {
	g := parseString(t, `<doxygen>
<compounddef id="classmatcher_1_1Matcher" kind="class" language="C++">
<compoundname>matcher::Matcher</compoundname>
<basecompoundref refid="classmatcher_1_1Base" prot="public">matcher::Base</basecompoundref>
<briefdescription><para>A matcher.</para></briefdescription>
<detaileddescription><para>Matches things.</para></detaileddescription>
<sectiondef kind="public-func">
<memberdef kind="function" id="classmatcher_1_1Matcher_1a1">
<definition>void matcher::Matcher::run</definition>
<argsstring>()</argsstring>
<name>run</name>
<briefdescription><para>Runs.</para></briefdescription>
<location file="matcher.h" line="10" bodyfile="matcher.h" bodystart="12" bodyend="20"/>
</memberdef>
</sectiondef>
</compounddef>
</doxygen>`)

	require.Equal(t, 2, g.Len())

	compound, ok := g.Get("classmatcher_1_1Matcher")
	require.True(t, ok)
	require.Equal(t, "class", compound.Type)
	require.Equal(t, []string{"cpp"}, compound.Langs)
	require.Equal(t, "matcher::Matcher", compound.Name)
	require.Equal(t, "matcher::Matcher", compound.FullName)
	require.Equal(t, "A matcher.", compound.Brief)
	require.Equal(t, "Matches things.", compound.Description)
	require.Equal(t, "A matcher.\n\nMatches things.", compound.Summary)
	require.Equal(t, []string{"classmatcher_1_1Base"}, compound.Inheritance)
	require.Equal(t, []string{"classmatcher_1_1Matcher_1a1"}, compound.Children)

	member, ok := g.Get("classmatcher_1_1Matcher_1a1")
	require.True(t, ok)
	require.Equal(t, "classmatcher_1_1Matcher", member.Parent)
	require.Equal(t, "method", member.Type)
	require.Equal(t, "run", member.Name)
	require.Equal(t, "matcher::Matcher::run", member.FullName)
	require.NotNil(t, member.Syntax)
	require.Equal(t, "void matcher::Matcher::run()", member.Syntax.Content)
	require.NotNil(t, member.Source)
	require.Equal(t, "matcher.h", member.Source.Path)
	require.Equal(t, 12, member.Source.StartLine)
	require.Equal(t, 20, member.Source.EndLine)
}

func TestParse_ConstructorReclassification(t *testing.T) {
	g := parseString(t, `<doxygen>
<compounddef id="classmatcher_1_1Matcher" kind="class">
<compoundname>matcher::Matcher</compoundname>
<sectiondef>
<memberdef kind="function" id="classmatcher_1_1Matcher_1a0">
<name>Matcher</name>
</memberdef>
</sectiondef>
</compounddef>
</doxygen>`)

	member, ok := g.Get("classmatcher_1_1Matcher_1a0")
	require.True(t, ok)
	require.Equal(t, "constructor", member.Type)
}

func TestParse_ExcludedMemberKindsNotMaterialized(t *testing.T) {
	g := parseString(t, `<doxygen>
<compounddef id="classA" kind="class">
<compoundname>A</compoundname>
<sectiondef>
<memberdef kind="typedef" id="classA_1t0"><name>value_type</name></memberdef>
<memberdef kind="variable" id="classA_1v0"><name>count_</name></memberdef>
<memberdef kind="friend" id="classA_1f0"><name>operator&lt;&lt;</name></memberdef>
</sectiondef>
</compounddef>
</doxygen>`)

	require.Equal(t, 1, g.Len())
	// The excluded members still register as children of the compound.
	compound, _ := g.Get("classA")
	require.Equal(t, []string{"classA_1t0", "classA_1v0", "classA_1f0"}, compound.Children)
}

func TestParse_DirCompoundSkipped(t *testing.T) {
	g := parseString(t, `<doxygen>
<compounddef id="dir_abc123" kind="dir">
<compoundname>src</compoundname>
</compounddef>
</doxygen>`)

	require.Equal(t, 0, g.Len())
}

func TestParse_InheritedMembersSortedAndDeduplicated(t *testing.T) {
	g := parseString(t, `<doxygen>
<compounddef id="classDerived" kind="class">
<compoundname>Derived</compoundname>
<listofallmembers>
<member refid="structOther_1a0"><scope>Other</scope><name>baz</name></member>
<member refid="classBase_1a1"><scope>Base</scope><name>foo</name></member>
<member refid="classBase_1a0"><scope>Base</scope><name>bar</name></member>
<member refid="classBase_1a1"><scope>Base</scope><name>foo</name></member>
</listofallmembers>
</compounddef>
</doxygen>`)

	compound, _ := g.Get("classDerived")
	// Sorted by the normalized id (kind prefix stripped), duplicates removed.
	require.Equal(t, []string{"classBase_1a0", "classBase_1a1", "structOther_1a0"}, compound.InheritedMembers)
}

func TestParse_MemberAlreadyChildNotInherited(t *testing.T) {
	g := parseString(t, `<doxygen>
<compounddef id="classA" kind="class">
<compoundname>A</compoundname>
<sectiondef>
<memberdef kind="function" id="classA_1a0"><name>f</name></memberdef>
</sectiondef>
<listofallmembers>
<member refid="classA_1a0"><scope>A</scope><name>f</name></member>
</listofallmembers>
</compounddef>
</doxygen>`)

	compound, _ := g.Get("classA")
	require.Equal(t, []string{"classA_1a0"}, compound.Children)
	require.Empty(t, compound.InheritedMembers)
}

func TestParse_DerivedClassesSortedDeduplicated(t *testing.T) {
	g := parseString(t, `<doxygen>
<compounddef id="classBase" kind="class">
<compoundname>Base</compoundname>
<derivedcompoundref refid="structZed">Zed</derivedcompoundref>
<derivedcompoundref refid="classApple">Apple</derivedcompoundref>
<derivedcompoundref refid="structZed">Zed</derivedcompoundref>
</compounddef>
</doxygen>`)

	compound, _ := g.Get("classBase")
	require.Equal(t, []string{"classApple", "structZed"}, compound.DerivedClasses)
}

func TestParse_OverridesKeepDuplicatesInOrder(t *testing.T) {
	g := parseString(t, `<doxygen>
<compounddef id="classA" kind="class">
<compoundname>A</compoundname>
<sectiondef>
<memberdef kind="function" id="classA_1a0">
<name>f</name>
<reimplementedby refid="classB_1a0">f</reimplementedby>
<reimplementedby refid="classB_1a0">f</reimplementedby>
<reimplementedby refid="classA_1a9">f</reimplementedby>
</memberdef>
</sectiondef>
</compounddef>
</doxygen>`)

	member, _ := g.Get("classA_1a0")
	require.Equal(t, []string{"classB_1a0", "classB_1a0", "classA_1a9"}, member.Overrides)
}

func TestParse_SourceEndLineSentinelOmitted(t *testing.T) {
	g := parseString(t, `<doxygen>
<compounddef id="classA" kind="class">
<compoundname>A</compoundname>
<location file="a.h" line="1" bodyfile="a.h" bodystart="3" bodyend="-1"/>
</compounddef>
</doxygen>`)

	compound, _ := g.Get("classA")
	require.NotNil(t, compound.Source)
	require.Equal(t, 3, compound.Source.StartLine)
	require.Zero(t, compound.Source.EndLine)
}

func TestParse_LocationWithoutBodyFileSkipped(t *testing.T) {
	g := parseString(t, `<doxygen>
<compounddef id="classA" kind="class">
<compoundname>A</compoundname>
<location file="a.h" line="1"/>
</compounddef>
</doxygen>`)

	compound, _ := g.Get("classA")
	require.Nil(t, compound.Source)
}

func TestParse_AdmonitionParagraph(t *testing.T) {
	g := parseString(t, `<doxygen>
<compounddef id="classA" kind="class">
<compoundname>A</compoundname>
<detaileddescription><para>NOTE: handle with care.</para></detaileddescription>
</compounddef>
</doxygen>`)

	compound, _ := g.Get("classA")
	require.Equal(t, "> [!NOTE]\n> handle with care.", compound.Description)
}

func TestParse_CodeBlockLanguageNormalization(t *testing.T) {
	g := parseString(t, `<doxygen>
<compounddef id="classA" kind="class">
<compoundname>A</compoundname>
<detaileddescription><para><programlisting filename="c++">int x;
</programlisting></para></detaileddescription>
</compounddef>
</doxygen>`)

	compound, _ := g.Get("classA")
	require.Equal(t, "```cpp\nint x;\n```", compound.Description)
}

func TestParse_CodeBlockInferredLanguageMarkerStripped(t *testing.T) {
	g := parseString(t, `<doxygen>
<compounddef id="classA" kind="class">
<compoundname>A</compoundname>
<detaileddescription><para><programlisting> {c++}
int x;
</programlisting></para></detaileddescription>
</compounddef>
</doxygen>`)

	compound, _ := g.Get("classA")
	require.Equal(t, "```cpp\nint x;\n```", compound.Description)
	require.NotContains(t, compound.Description, "{c++}")
}

func TestParse_FormulaRewrites(t *testing.T) {
	tests := []struct {
		name    string
		formula string
		want    string
	}{
		{"display math wrapper stripped", `\[x^2\]`, "```math\nx^2\n```"},
		{"inline math wrapper stripped", `$x^2$`, "```math\nx^2\n```"},
		{"unwrapped content passes through", `E=mc^2`, "```math\nE=mc^2\n```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := parseString(t, `<doxygen>
<compounddef id="classA" kind="class">
<compoundname>A</compoundname>
<detaileddescription><para><formula id="0">`+tt.formula+`</formula></para></detaileddescription>
</compounddef>
</doxygen>`)

			compound, _ := g.Get("classA")
			require.Equal(t, tt.want, compound.Description)
		})
	}
}

func TestParse_CrossReferenceLink(t *testing.T) {
	g := parseString(t, `<doxygen>
<compounddef id="classA" kind="class">
<compoundname>A</compoundname>
<briefdescription><para>See <ref refid="classFoo" kindref="compound">Foo</ref> here.</para></briefdescription>
</compounddef>
</doxygen>`)

	compound, _ := g.Get("classA")
	require.Equal(t, "See [Foo](xref:classFoo) here.", compound.Brief)
}

func TestParse_CrossReferenceInsideInlineCode(t *testing.T) {
	g := parseString(t, `<doxygen>
<compounddef id="classA" kind="class">
<compoundname>A</compoundname>
<briefdescription><para><computeroutput><ref refid="classFoo">Foo</ref></computeroutput></para></briefdescription>
</compounddef>
</doxygen>`)

	compound, _ := g.Get("classA")
	// The code span is reopened around the link and not double-terminated.
	require.Equal(t, "[`Foo`](xref:classFoo)", compound.Brief)
}

func TestParse_InlineCodeWithoutLink(t *testing.T) {
	g := parseString(t, `<doxygen>
<compounddef id="classA" kind="class">
<compoundname>A</compoundname>
<briefdescription><para>Call <computeroutput>run()</computeroutput> now.</para></briefdescription>
</compounddef>
</doxygen>`)

	compound, _ := g.Get("classA")
	require.Equal(t, "Call `run()` now.", compound.Brief)
}

func TestParse_ListItemsAndSpaceMarkers(t *testing.T) {
	g := parseString(t, `<doxygen>
<compounddef id="classA" kind="class">
<compoundname>A</compoundname>
<detaileddescription><para><itemizedlist><listitem><para>first</para></listitem><listitem><para>second</para></listitem></itemizedlist></para></detaileddescription>
</compounddef>
</doxygen>`)

	compound, _ := g.Get("classA")
	require.Equal(t, "* first  * second", compound.Description)
}

func TestParse_TextWithoutBufferOwnerDropped(t *testing.T) {
	g := parseString(t, `<doxygen>
<compounddef id="classA" kind="class">
<compoundname>A</compoundname>
<basecompoundref refid="classB">text outside any buffer</basecompoundref>
</compounddef>
</doxygen>`)

	compound, _ := g.Get("classA")
	require.Empty(t, compound.Summary)
	require.Equal(t, []string{"classB"}, compound.Inheritance)
}

func TestParse_DuplicateUIDLastWriteWins(t *testing.T) {
	g := parseString(t, `<doxygen>
<compounddef id="classA" kind="class"><compoundname>First</compoundname></compounddef>
<compounddef id="classA" kind="struct"><compoundname>Second</compoundname></compounddef>
</doxygen>`)

	require.Equal(t, 1, g.Len())
	compound, _ := g.Get("classA")
	require.Equal(t, "struct", compound.Type)
	require.Equal(t, "Second", compound.Name)
}

func TestParse_MalformedXMLFatal(t *testing.T) {
	g := NewItemGraph()
	err := Parse(strings.NewReader("<doxygen><compounddef id=\"x\""), g)
	require.Error(t, err)
}
