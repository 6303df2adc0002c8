package css

import "strings"

// PrefixTypeSelectors rewrites every top-level type selector in the sheet
// to carry the given name-scope prefix. "div" becomes prefix+"div", while
// class, id, attribute, pseudo and universal selectors are untouched.
// Rules nested in conditional at-rules are rewritten too. A previously
// applied prefix is not detected; callers apply a prefix at most once.
func (s *Sheet) PrefixTypeSelectors(prefix string) {
	if prefix == "" {
		return
	}
	for i := range s.Rules {
		prefixRule(&s.Rules[i], prefix)
	}
}

func prefixRule(r *Rule, prefix string) {
	for i, sel := range r.Selectors {
		r.Selectors[i] = prefixSelector(sel, prefix)
	}
	for i := range r.Children {
		prefixRule(&r.Children[i], prefix)
	}
}

// prefixSelector prefixes identifiers that open a compound selector: at
// the start of the selector or after a combinator. Identifiers reached
// through '.', '#', ':', '[' or inside functional pseudo-classes are left
// alone.
func prefixSelector(sel, prefix string) string {
	var b strings.Builder
	atCompoundStart := true
	for i := 0; i < len(sel); {
		c := sel[i]
		switch {
		case c == ' ' || c == '\t' || c == '>' || c == '+' || c == '~':
			atCompoundStart = true
			b.WriteByte(c)
			i++
		case atCompoundStart && isIdentStart(c):
			j := i
			for j < len(sel) && isIdentChar(sel[j]) {
				j++
			}
			b.WriteString(prefix)
			b.WriteString(sel[i:j])
			i = j
			atCompoundStart = false
		default:
			atCompoundStart = false
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}
