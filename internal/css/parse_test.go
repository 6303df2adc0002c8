package css

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStyleRule(t *testing.T) {
	sheet, diags := Parse(`div { color: red; margin: 0 auto; }`)

	require.Empty(t, diags)
	require.Len(t, sheet.Rules, 1)

	rule := sheet.Rules[0]
	assert.Equal(t, []string{"div"}, rule.Selectors)
	require.Len(t, rule.Declarations, 2)
	assert.Equal(t, Declaration{Property: "color", Value: "red"}, rule.Declarations[0])
	assert.Equal(t, Declaration{Property: "margin", Value: "0 auto"}, rule.Declarations[1])
}

func TestParseSelectorList(t *testing.T) {
	sheet, diags := Parse(`h1, h2.title, [data-x="a,b"] { font-weight: bold }`)

	require.Empty(t, diags)
	require.Len(t, sheet.Rules, 1)
	// The comma inside the attribute string must not split the list.
	assert.Equal(t, []string{"h1", "h2.title", `[data-x="a,b"]`}, sheet.Rules[0].Selectors)
}

func TestParseImportant(t *testing.T) {
	sheet, diags := Parse(`.a { color: blue !important; width: 10px ! IMPORTANT }`)

	require.Empty(t, diags)
	require.Len(t, sheet.Rules, 1)
	decls := sheet.Rules[0].Declarations
	require.Len(t, decls, 2)
	assert.Equal(t, Declaration{Property: "color", Value: "blue", Important: true}, decls[0])
	assert.Equal(t, Declaration{Property: "width", Value: "10px", Important: true}, decls[1])
}

func TestParseImports(t *testing.T) {
	sheet, diags := Parse(`
		@import "base.css";
		@import url(theme.css) screen;
		@import url("quoted.css");
		div { color: red }
	`)

	require.Empty(t, diags)
	assert.Equal(t, []string{"base.css", "theme.css", "quoted.css"}, sheet.Imports)
	require.Len(t, sheet.Rules, 4)
	assert.Equal(t, "import", sheet.Rules[0].AtKeyword)
}

func TestParseConditionalAtRule(t *testing.T) {
	sheet, diags := Parse(`@media screen and (min-width: 600px) { div { color: red } span { x: y } }`)

	require.Empty(t, diags)
	require.Len(t, sheet.Rules, 1)

	media := sheet.Rules[0]
	assert.Equal(t, "media", media.AtKeyword)
	assert.Equal(t, "screen and (min-width: 600px)", media.Prelude)
	require.Len(t, media.Children, 2)
	assert.Equal(t, []string{"div"}, media.Children[0].Selectors)
	assert.Equal(t, []string{"span"}, media.Children[1].Selectors)
}

func TestParseDeclarationAtRule(t *testing.T) {
	sheet, diags := Parse(`@font-face { font-family: "Mono"; src: url(mono.woff2) }`)

	require.Empty(t, diags)
	require.Len(t, sheet.Rules, 1)
	ff := sheet.Rules[0]
	assert.Equal(t, "font-face", ff.AtKeyword)
	require.Len(t, ff.Declarations, 2)
	assert.Equal(t, "src", ff.Declarations[1].Property)
}

func TestParseCommentsIgnored(t *testing.T) {
	sheet, diags := Parse(`/* head */ div /* mid */ { color: /* in value */ red }`)

	require.Empty(t, diags)
	require.Len(t, sheet.Rules, 1)
	assert.Equal(t, []string{"div"}, sheet.Rules[0].Selectors)
	assert.Equal(t, "red", sheet.Rules[0].Declarations[0].Value)
}

func TestParseEmptyInput(t *testing.T) {
	sheet, diags := Parse("")

	assert.Empty(t, diags)
	assert.True(t, sheet.Empty())
}

func TestParseDiagnostics(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code string
	}{
		{"unterminated comment", "/* never closed", WarnUnterminatedComment},
		{"unterminated string", "div { content: \"oops\n; }", WarnUnterminatedString},
		{"unexpected close", "}", WarnUnexpectedClose},
		{"empty selector", "div, { color: red }", WarnEmptySelector},
		{"missing colon", "div { color red }", WarnMissingColon},
		{"unclosed block", "div { color: red;", WarnUnterminatedBlock},
		{"bad import", "@import ;", WarnBadImport},
		{"dangling selector", "div ;", WarnDanglingSelector},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, diags := Parse(tt.src)
			require.NotEmpty(t, diags)
			assert.Equal(t, tt.code, diags[0].Code)
		})
	}
}

func TestParseDiagnosticOrder(t *testing.T) {
	// Two problems on separate lines come back in source order.
	src := "div { color red }\nspan, { x: y }\n"
	_, diags := Parse(src)

	require.Len(t, diags, 2)
	assert.Equal(t, WarnMissingColon, diags[0].Code)
	assert.Equal(t, 1, diags[0].Line)
	assert.Equal(t, WarnEmptySelector, diags[1].Code)
	assert.Equal(t, 2, diags[1].Line)
}

func TestParseRecoversAfterDiagnostic(t *testing.T) {
	// A malformed rule must not swallow the rules after it.
	sheet, diags := Parse("} div { color: red }")

	require.Len(t, diags, 1)
	require.Len(t, sheet.Rules, 1)
	assert.Equal(t, []string{"div"}, sheet.Rules[0].Selectors)
}

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{Code: WarnMissingColon, Message: "declaration \"color red\" is missing ':'", Line: 3}
	assert.Equal(t, `[W104] line 3: declaration "color red" is missing ':'`, d.String())
}
