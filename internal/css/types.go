package css

import "fmt"

// Diagnostic codes (W100-W199).
const (
	WarnUnterminatedComment = "W100" // comment not closed before EOF
	WarnUnterminatedString  = "W101" // string not closed before newline/EOF
	WarnUnexpectedClose     = "W102" // '}' with no open block
	WarnEmptySelector       = "W103" // empty selector in a selector list
	WarnMissingColon        = "W104" // declaration without ':'
	WarnUnterminatedBlock   = "W105" // '{' not closed before EOF
	WarnBadImport           = "W106" // @import without a usable target
	WarnDanglingSelector    = "W107" // selector text with no following block
)

// Diagnostic is a non-fatal problem found while parsing a stylesheet.
// Diagnostics carry the source line they were raised on; column tracking
// is intentionally omitted.
type Diagnostic struct {
	Code    string
	Message string
	Line    int
}

// String renders the diagnostic in the form "[W104] line 3: message".
func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s", d.Code, d.Line, d.Message)
	}
	return fmt.Sprintf("[%s] %s", d.Code, d.Message)
}

// Declaration is a single property declaration inside a rule block.
type Declaration struct {
	Property  string
	Value     string
	Important bool
}

// Rule is either a style rule (Selectors non-empty, AtKeyword empty) or an
// at-rule (AtKeyword non-empty). At-rules with a conditional block (@media,
// @supports, @layer, @container) carry nested rules in Children; other
// block at-rules (@font-face, @page) carry Declarations directly.
type Rule struct {
	Selectors    []string
	AtKeyword    string
	Prelude      string
	Declarations []Declaration
	Children     []Rule
}

// IsAtRule reports whether the rule is an at-rule.
func (r *Rule) IsAtRule() bool { return r.AtKeyword != "" }

// Sheet is one parsed stylesheet. Imports lists @import targets verbatim,
// in source order, including targets that resolve to nothing.
type Sheet struct {
	Rules   []Rule
	Imports []string
}

// Empty reports whether the sheet compiled to nothing: no rules and no
// imports. Empty sheets produce no artifact.
func (s *Sheet) Empty() bool {
	return len(s.Rules) == 0 && len(s.Imports) == 0
}
