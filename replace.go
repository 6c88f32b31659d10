package ncre

import (
	"fmt"
	"strings"
)

const (
	replLiteral = iota
	replGroupName
	replGroupNumber
	replWholeMatch
	replPreceding
	replFollowing
	replWholeInput
	replLastGroup
)

type replacementPart struct {
	kind int
	text string
}

// replacement is a parsed template. Substitutions: $$ $& $` $' $_ $+,
// $digits, ${name}. Tokens that resolve to nothing stay literal.
type replacement struct {
	parts []replacementPart
}

var (
	reReplLiteral = mustPattern(`[^$]+`)
	reReplBrace   = mustPattern(`\{([A-Za-z_]\w*|\d+)\}`)
)

func parseReplacement(template string) *replacement {
	sc := newScanner(template)
	repl := &replacement{}
	for !sc.atEnd() {
		switch {
		case sc.consumePattern(reReplLiteral):
			repl.add(replLiteral, sc.token)
		case sc.consumeString("$$"):
			repl.add(replLiteral, "$")
		case sc.consumeString("$&"):
			repl.add(replWholeMatch, "")
		case sc.consumeString("$`"):
			repl.add(replPreceding, "")
		case sc.consumeString("$'"):
			repl.add(replFollowing, "")
		case sc.consumeString("$_"):
			repl.add(replWholeInput, "")
		case sc.consumeString("$+"):
			repl.add(replLastGroup, "")
		default:
			sc.consumeString("$")
			switch {
			case sc.consumePattern(reReplBrace):
				repl.add(replGroupName, sc.groups[1])
			case sc.consumePattern(reDigits):
				repl.add(replGroupNumber, sc.token)
			default:
				repl.add(replLiteral, "$")
			}
		}
	}
	return repl
}

func (r *replacement) add(kind int, text string) {
	r.parts = append(r.parts, replacementPart{kind: kind, text: text})
}

func (r *replacement) expand(m *Match) string {
	var b strings.Builder
	for _, part := range r.parts {
		switch part.kind {
		case replLiteral:
			b.WriteString(part.text)
		case replGroupName:
			if g, ok := m.byName[part.text]; ok {
				b.WriteString(g.Value())
			} else {
				b.WriteString("${" + part.text + "}")
			}
		case replGroupNumber:
			b.WriteString(m.expandNumber(part.text))
		case replWholeMatch:
			b.WriteString(m.Value())
		case replPreceding:
			b.WriteString(m.precedingText())
		case replFollowing:
			b.WriteString(m.followingText())
		case replWholeInput:
			b.WriteString(m.wholeText())
		case replLastGroup:
			b.WriteString(m.lastGroup().Value())
		}
	}
	return b.String()
}

// expandNumber resolves $digits: the longest digit prefix naming an
// existing group wins, trailing digits stay literal. With no such prefix
// the whole token is literal.
func (m *Match) expandNumber(digits string) string {
	for l := len(digits); l >= 1; l-- {
		if g, ok := m.byName[normalizeGroupName(digits[:l])]; ok {
			return g.Value() + digits[l:]
		}
	}
	return "$" + digits
}

// Replace substitutes the template for up to count matches, searching
// from the start offset. A count of -1 replaces every match; 0 leaves
// input unchanged.
func (re *Regex) Replace(input, template string, count, start int) (string, error) {
	repl := parseReplacement(template)
	return re.replaceMatches(input, count, start, repl.expand)
}

// ReplaceFunc is Replace with a callback computing each substitution.
func (re *Regex) ReplaceFunc(input string, fn func(*Match) string, count, start int) (string, error) {
	return re.replaceMatches(input, count, start, fn)
}

func (re *Regex) replaceMatches(input string, count, start int, eval func(*Match) string) (string, error) {
	if count < -1 {
		return "", fmt.Errorf("replace count %d out of range", count)
	}
	if count == 0 {
		return input, nil
	}
	runes := []rune(input)
	ms := re.collect(runes, start, count)
	if re.RightToLeft() {
		for i, j := 0, len(ms)-1; i < j; i, j = i+1, j-1 {
			ms[i], ms[j] = ms[j], ms[i]
		}
	}

	var b strings.Builder
	prev := 0
	for _, m := range ms {
		b.WriteString(runesToString(runes[prev:m.Index()]))
		b.WriteString(eval(m))
		prev = m.Index() + m.Length()
	}
	b.WriteString(runesToString(runes[prev:]))
	return b.String(), nil
}

// Split cuts input around matches, interleaving the values of successful
// capture groups. A count of -1 or 0 splits at every match; count is
// otherwise the maximum number of pieces. Pieces follow discovery order,
// so right-to-left patterns yield right-to-left pieces.
func (re *Regex) Split(input string, count, start int) ([]string, error) {
	if count < -1 {
		return nil, fmt.Errorf("split count %d out of range", count)
	}
	if count == 1 {
		return []string{input}, nil
	}
	maxMatches := -1
	if count > 1 {
		maxMatches = count - 1
	}
	runes := []rune(input)
	ms := re.collect(runes, start, maxMatches)
	if len(ms) == 0 {
		return []string{input}, nil
	}

	pieces := []string{}
	if re.RightToLeft() {
		prev := len(runes)
		for _, m := range ms {
			pieces = append(pieces, runesToString(runes[m.Index()+m.Length():prev]))
			pieces = appendGroupValues(pieces, m)
			prev = m.Index()
		}
		pieces = append(pieces, runesToString(runes[:prev]))
	} else {
		prev := 0
		for _, m := range ms {
			pieces = append(pieces, runesToString(runes[prev:m.Index()]))
			pieces = appendGroupValues(pieces, m)
			prev = m.Index() + m.Length()
		}
		pieces = append(pieces, runesToString(runes[prev:]))
	}
	return pieces, nil
}

func appendGroupValues(pieces []string, m *Match) []string {
	for _, g := range m.Groups()[1:] {
		if g.Success() {
			pieces = append(pieces, g.Value())
		}
	}
	return pieces
}

// Escape backslash-escapes every metacharacter in s so the result matches
// s literally.
func Escape(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\', '*', '+', '?', '|', '{', '[', '(', ')', '^', '$', '.', '#', ' ':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '\t':
			b.WriteString(`\t`)
		case '\n':
			b.WriteString(`\n`)
		case '\f':
			b.WriteString(`\f`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

var reUnescapeLiteral = mustPattern(`[^\\]+`)

// Unescape reverses Escape, decoding the full escape table as the class
// parser does.
func Unescape(s string) (string, error) {
	p := &parser{sc: newScanner(s)}
	var b strings.Builder
	for !p.sc.atEnd() {
		if p.sc.consumePattern(reUnescapeLiteral) {
			b.WriteString(p.sc.token)
			continue
		}
		p.sc.consumeString(`\`)
		if p.sc.atEnd() {
			return "", newSyntaxError(p.sc.pos, "escape at end of string")
		}
		if p.sc.consumeString("b") {
			b.WriteRune('\b')
			continue
		}
		r, err := p.parseCharEscape()
		if err != nil {
			return "", err
		}
		b.WriteRune(r)
	}
	return b.String(), nil
}
