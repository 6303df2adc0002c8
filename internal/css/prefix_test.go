package css

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefixSelector(t *testing.T) {
	tests := []struct {
		sel  string
		want string
	}{
		{"div", "x-div"},
		{"div.foo > span:hover", "x-div.foo > x-span:hover"},
		{".bar em", ".bar x-em"},
		{"#id", "#id"},
		{"*", "*"},
		{"ul li + li", "x-ul x-li + x-li"},
		{"[data-kind] p", "[data-kind] x-p"},
		{"h1::before", "x-h1::before"},
	}

	for _, tt := range tests {
		t.Run(tt.sel, func(t *testing.T) {
			assert.Equal(t, tt.want, prefixSelector(tt.sel, "x-"))
		})
	}
}

func TestPrefixTypeSelectorsWalksNestedRules(t *testing.T) {
	sheet, diags := Parse(`div { a: b } @media screen { span { c: d } }`)
	require.Empty(t, diags)

	sheet.PrefixTypeSelectors("ns-")

	assert.Equal(t, []string{"ns-div"}, sheet.Rules[0].Selectors)
	assert.Equal(t, []string{"ns-span"}, sheet.Rules[1].Children[0].Selectors)
}

func TestPrefixEmptyIsNoop(t *testing.T) {
	sheet, _ := Parse(`div { a: b }`)
	sheet.PrefixTypeSelectors("")
	assert.Equal(t, []string{"div"}, sheet.Rules[0].Selectors)
}
