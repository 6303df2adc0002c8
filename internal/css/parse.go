package css

import "strings"

// Parse parses src into a Sheet and the ordered diagnostics raised along
// the way. Parse never fails: malformed input degrades to diagnostics and
// the parser resynchronizes at the next rule boundary.
func Parse(src string) (*Sheet, []Diagnostic) {
	p := &parser{src: src, line: 1}
	rules := p.parseRules(false)
	return &Sheet{Rules: rules, Imports: p.imports}, p.diags
}

type parser struct {
	src     string
	pos     int
	line    int
	imports []string
	diags   []Diagnostic

	// lastBlockClosed records whether the most recent nested parseRules
	// call ended on '}' rather than EOF.
	lastBlockClosed bool
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte { return p.src[p.pos] }

// peekAt returns the byte at offset n from the cursor, or 0 past EOF.
func (p *parser) peekAt(n int) byte {
	if p.pos+n >= len(p.src) {
		return 0
	}
	return p.src[p.pos+n]
}

func (p *parser) advance() byte {
	c := p.src[p.pos]
	p.pos++
	if c == '\n' {
		p.line++
	}
	return c
}

func (p *parser) warn(code, message string, line int) {
	p.diags = append(p.diags, Diagnostic{Code: code, Message: message, Line: line})
}

// parseRules parses rules until EOF, or until the closing '}' of the
// enclosing block when inBlock is true.
func (p *parser) parseRules(inBlock bool) []Rule {
	var rules []Rule
	for {
		p.skipSpaceAndComments()
		if p.eof() {
			if inBlock {
				p.lastBlockClosed = false
			}
			return rules
		}
		switch p.peek() {
		case '}':
			line := p.line
			p.advance()
			if inBlock {
				p.lastBlockClosed = true
				return rules
			}
			p.warn(WarnUnexpectedClose, "unexpected '}'", line)
		case '@':
			if r, ok := p.parseAtRule(); ok {
				rules = append(rules, r)
			}
		default:
			if r, ok := p.parseStyleRule(); ok {
				rules = append(rules, r)
			}
		}
	}
}

// conditionalAtRules have blocks containing nested rules rather than
// declarations.
var conditionalAtRules = map[string]bool{
	"media":     true,
	"supports":  true,
	"layer":     true,
	"container": true,
}

func (p *parser) parseAtRule() (Rule, bool) {
	line := p.line
	p.advance() // '@'
	keyword := p.readIdent()
	prelude, term := p.readComponentText("{;}")
	prelude = strings.TrimSpace(prelude)

	rule := Rule{AtKeyword: keyword, Prelude: prelude}
	switch term {
	case ';', 0:
		if term == ';' {
			p.advance()
		}
		if keyword == "import" {
			p.recordImport(prelude, line)
		}
		return rule, true
	case '}':
		// Stray close; leave it for the caller.
		return rule, true
	}

	p.advance() // '{'
	if conditionalAtRules[keyword] {
		rule.Children = p.parseRules(true)
		p.checkBlockClosed(line)
	} else {
		rule.Declarations = p.parseDeclarations(line)
	}
	return rule, true
}

func (p *parser) parseStyleRule() (Rule, bool) {
	line := p.line
	text, term := p.readComponentText("{;}")
	selText := strings.TrimSpace(text)

	switch term {
	case ';', 0:
		if term == ';' {
			p.advance()
		}
		if selText != "" {
			p.warn(WarnDanglingSelector, "selector "+quote(selText)+" has no declaration block", line)
		}
		return Rule{}, false
	case '}':
		if selText != "" {
			p.warn(WarnDanglingSelector, "selector "+quote(selText)+" has no declaration block", line)
		}
		return Rule{}, false
	}

	p.advance() // '{'
	var selectors []string
	for _, s := range splitSelectors(selText) {
		s = strings.TrimSpace(s)
		if s == "" {
			p.warn(WarnEmptySelector, "empty selector in selector list", line)
			continue
		}
		selectors = append(selectors, s)
	}
	decls := p.parseDeclarations(line)
	return Rule{Selectors: selectors, Declarations: decls}, true
}

// parseDeclarations parses a declaration block after its '{' has been
// consumed. startLine is the line the block opened on, used for the
// unclosed-block diagnostic.
func (p *parser) parseDeclarations(startLine int) []Declaration {
	var decls []Declaration
	for {
		p.skipSpaceAndComments()
		if p.eof() {
			p.warn(WarnUnterminatedBlock, "unclosed block", startLine)
			return decls
		}
		switch p.peek() {
		case '}':
			p.advance()
			return decls
		case ';':
			p.advance()
			continue
		}

		declLine := p.line
		text, term := p.readComponentText(":;}")
		prop := strings.TrimSpace(text)
		if term != ':' {
			if prop != "" {
				p.warn(WarnMissingColon, "declaration "+quote(prop)+" is missing ':'", declLine)
			}
			if term == ';' {
				p.advance()
			}
			continue
		}
		p.advance() // ':'

		valText, _ := p.readComponentText(";}")
		value := strings.TrimSpace(valText)
		value, important := stripImportant(value)
		if prop == "" {
			p.warn(WarnMissingColon, "declaration is missing a property name", declLine)
			continue
		}
		decls = append(decls, Declaration{Property: prop, Value: value, Important: important})
	}
}

// checkBlockClosed warns when a conditional at-rule block ran into EOF.
// parseRules(true) returns on either '}' or EOF; lastBlockClosed tells the
// cases apart.
func (p *parser) checkBlockClosed(startLine int) {
	if !p.lastBlockClosed {
		p.warn(WarnUnterminatedBlock, "unclosed block", startLine)
	}
}

func (p *parser) recordImport(prelude string, line int) {
	target, ok := parseImportTarget(prelude)
	if !ok {
		p.warn(WarnBadImport, "@import with no usable target", line)
		return
	}
	p.imports = append(p.imports, target)
}

// parseImportTarget extracts the import target from an @import prelude:
// a quoted string or a url() wrapper, with any media query tail ignored.
func parseImportTarget(prelude string) (string, bool) {
	s := strings.TrimSpace(prelude)
	if s == "" {
		return "", false
	}
	if s[0] == '"' || s[0] == '\'' {
		q := s[0]
		i := strings.IndexByte(s[1:], q)
		if i < 0 {
			return "", false
		}
		target := s[1 : 1+i]
		return target, target != ""
	}
	if len(s) >= 4 && strings.EqualFold(s[:4], "url(") {
		rest := s[4:]
		i := strings.IndexByte(rest, ')')
		if i < 0 {
			return "", false
		}
		target := strings.Trim(strings.TrimSpace(rest[:i]), `"'`)
		return target, target != ""
	}
	return "", false
}

// readComponentText reads raw text until one of the stop bytes appears at
// the top level (outside strings, comments, parens and brackets). The stop
// byte is not consumed; the returned terminator is 0 at EOF. Comments are
// replaced with a single space.
func (p *parser) readComponentText(stops string) (string, byte) {
	var b strings.Builder
	depth := 0
	for !p.eof() {
		c := p.peek()
		if depth == 0 && strings.IndexByte(stops, c) >= 0 {
			return b.String(), c
		}
		switch c {
		case '(', '[':
			depth++
			b.WriteByte(c)
			p.advance()
		case ')', ']':
			if depth > 0 {
				depth--
			}
			b.WriteByte(c)
			p.advance()
		case '"', '\'':
			p.advance()
			content, closed := p.scanString(c)
			b.WriteByte(c)
			b.WriteString(content)
			if closed {
				b.WriteByte(c)
			}
		case '/':
			if p.peekAt(1) == '*' {
				p.skipComment()
				b.WriteByte(' ')
			} else {
				b.WriteByte(c)
				p.advance()
			}
		default:
			b.WriteByte(c)
			p.advance()
		}
	}
	return b.String(), 0
}

// scanString reads a string after its opening quote has been consumed.
// Returns the raw content (escapes preserved) and whether the closing
// quote was found. A bare newline terminates the string with a diagnostic,
// matching CSS error recovery.
func (p *parser) scanString(quote byte) (string, bool) {
	line := p.line
	var b strings.Builder
	for !p.eof() {
		c := p.peek()
		switch {
		case c == quote:
			p.advance()
			return b.String(), true
		case c == '\n':
			p.warn(WarnUnterminatedString, "unterminated string", line)
			return b.String(), false
		case c == '\\':
			p.advance()
			if p.eof() {
				p.warn(WarnUnterminatedString, "unterminated string", line)
				return b.String(), false
			}
			b.WriteByte('\\')
			b.WriteByte(p.peek())
			p.advance()
		default:
			b.WriteByte(c)
			p.advance()
		}
	}
	p.warn(WarnUnterminatedString, "unterminated string", line)
	return b.String(), false
}

// skipComment consumes a comment starting at "/*".
func (p *parser) skipComment() {
	line := p.line
	p.advance() // '/'
	p.advance() // '*'
	for !p.eof() {
		if p.peek() == '*' && p.peekAt(1) == '/' {
			p.advance()
			p.advance()
			return
		}
		p.advance()
	}
	p.warn(WarnUnterminatedComment, "unterminated comment", line)
}

func (p *parser) skipSpaceAndComments() {
	for !p.eof() {
		c := p.peek()
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f':
			p.advance()
		case c == '/' && p.peekAt(1) == '*':
			p.skipComment()
		default:
			return
		}
	}
}

func (p *parser) readIdent() string {
	start := p.pos
	for !p.eof() {
		c := p.peek()
		if isIdentChar(c) {
			p.advance()
			continue
		}
		break
	}
	return p.src[start:p.pos]
}

// splitSelectors splits a selector list on top-level commas, respecting
// parens, brackets and strings.
func splitSelectors(text string) []string {
	var (
		parts []string
		depth int
		quote byte
		start int
	)
	for i := 0; i < len(text); i++ {
		c := text[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '(', '[':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, text[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, text[start:])
}

// stripImportant removes a trailing "!important" (any case, any interior
// whitespace) from a declaration value.
func stripImportant(value string) (string, bool) {
	i := strings.LastIndexByte(value, '!')
	if i < 0 {
		return value, false
	}
	if strings.EqualFold(strings.TrimSpace(value[i+1:]), "important") {
		return strings.TrimSpace(value[:i]), true
	}
	return value, false
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || c == '-' || (c >= '0' && c <= '9')
}

func quote(s string) string {
	const max = 40
	if len(s) > max {
		s = s[:max] + "..."
	}
	return "\"" + s + "\""
}
