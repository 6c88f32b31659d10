// Package ncre is a backtracking regular expression engine implementing
// the .NET regex dialect: named and numbered groups with capture
// histories, balancing groups, conditionals, variable-length lookbehind,
// atomic groups, and right-to-left matching.
package ncre

import (
	"fmt"
	"strings"
)

// Flag is a set of pattern options.
type Flag uint8

const (
	// FlagIgnoreCase enables case-insensitive matching.
	FlagIgnoreCase Flag = 1 << iota
	// FlagMultiline makes ^ and $ match at line boundaries.
	FlagMultiline
	// FlagExplicitCapture makes bare (...) groups non-capturing.
	FlagExplicitCapture
	// FlagSingleline makes . match any character including newline.
	FlagSingleline
	// FlagIgnoreWhitespace ignores unescaped whitespace and # comments
	// in the pattern.
	FlagIgnoreWhitespace
	// FlagRightToLeft matches from the end of the input towards the
	// start.
	FlagRightToLeft
)

// ParseFlags converts a flag string such as "im" into a Flag set. Letters
// are case-insensitive and duplicates coalesce.
func ParseFlags(s string) (Flag, error) {
	var f Flag
	for _, r := range strings.ToLower(s) {
		switch r {
		case 'i':
			f |= FlagIgnoreCase
		case 'm':
			f |= FlagMultiline
		case 'n':
			f |= FlagExplicitCapture
		case 's':
			f |= FlagSingleline
		case 'x':
			f |= FlagIgnoreWhitespace
		case 'r':
			f |= FlagRightToLeft
		default:
			return 0, fmt.Errorf("unknown flag %q", r)
		}
	}
	return f, nil
}

// SyntaxError reports an invalid pattern, carrying the byte offset of the
// offending syntax.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e SyntaxError) Error() string {
	return fmt.Sprintf("%s at position %d", e.Msg, e.Pos)
}

func newSyntaxError(pos int, msg string) error {
	return SyntaxError{Pos: pos, Msg: msg}
}

// Regex is a compiled pattern. It is immutable and safe for sequential
// reuse; a single match attempt carries all mutable state in its own
// state value.
type Regex struct {
	pattern string
	flags   Flag
	root    expression
	groups  *groupTable
	ordered []*group
	empty   *Match
}

// Compile parses a pattern into a Regex.
func Compile(pattern string, flags Flag) (*Regex, error) {
	root, groups, err := parsePattern(pattern, flags)
	if err != nil {
		return nil, err
	}
	if flags&FlagRightToLeft != 0 {
		root.invert()
	}
	re := &Regex{
		pattern: pattern,
		flags:   flags,
		root:    root,
		groups:  groups,
		ordered: groups.collapsedOrder(),
	}
	re.empty = &Match{re: re}
	return re, nil
}

// MustCompile is Compile that panics on error, for patterns known good at
// program start.
func MustCompile(pattern string, flags Flag) *Regex {
	re, err := Compile(pattern, flags)
	if err != nil {
		panic(err)
	}
	return re
}

func (re *Regex) String() string {
	return re.pattern
}

func (re *Regex) RightToLeft() bool {
	return re.flags&FlagRightToLeft != 0
}

// GroupNames returns the group names in reporting order: numbered groups
// ascending with named groups interleaved into the gaps.
func (re *Regex) GroupNames() []string {
	names := make([]string, len(re.ordered))
	for i, g := range re.ordered {
		names[i] = g.name
	}
	return names
}

func (re *Regex) direction() int {
	if re.RightToLeft() {
		return -1
	}
	return 1
}

// Match returns the first match in input, or an unsuccessful Match.
func (re *Regex) Match(input string) *Match {
	runes := []rune(input)
	start := 0
	if re.RightToLeft() {
		start = len(runes)
	}
	return re.find(runes, 0, len(runes), start, start)
}

// MatchStartingAt matches from the given rune offset: rightwards of it in
// LTR mode, leftwards of it in RTL mode.
func (re *Regex) MatchStartingAt(input string, start int) *Match {
	runes := []rune(input)
	if re.RightToLeft() {
		return re.find(runes, 0, start, start, start)
	}
	return re.find(runes, start, len(runes), start, start)
}

// MatchWindow matches within the window of length runes beginning at
// start. Boundary anchors observe the window, not the whole input.
func (re *Regex) MatchWindow(input string, start, length int) *Match {
	runes := []rune(input)
	cursor := start
	if re.RightToLeft() {
		cursor = start + length
	}
	return re.find(runes, start, start+length, cursor, cursor)
}

// find runs the engine loop: attempt the root at each position in
// direction until a match or the window bound.
func (re *Regex) find(input []rune, leftBound, rightBound, start, prevEnd int) *Match {
	dir := re.direction()
	if start < leftBound || start > rightBound {
		return re.empty
	}
	s := newState(input, leftBound, rightBound, start, dir)
	s.previousMatchEnd = prevEnd
	for {
		attempt := s.index
		if _, ok := re.root.match(s); ok {
			return re.buildMatch(s, attempt)
		}
		if dir > 0 && attempt >= rightBound {
			return re.empty
		}
		if dir < 0 && attempt <= leftBound {
			return re.empty
		}
		s.index = attempt + dir
	}
}

func makeCapture(input []rune, lo, hi int) Capture {
	return Capture{Index: lo, Length: hi - lo, Value: runesToString(input[lo:hi])}
}

func (re *Regex) buildMatch(s *state, attempt int) *Match {
	lo, hi := attempt, s.index
	if lo > hi {
		lo, hi = hi, lo
	}

	m := &Match{
		re:         re,
		input:      s.input,
		success:    true,
		leftBound:  s.leftBound,
		rightBound: s.rightBound,
		byName:     map[string]*Group{},
	}
	for _, g := range re.ordered {
		grp := &Group{Name: g.name}
		if g.name == "0" {
			grp.Captures = []Capture{makeCapture(s.input, lo, hi)}
		} else if st, ok := s.captures[g]; ok {
			for _, cv := range *st {
				grp.Captures = append(grp.Captures, makeCapture(s.input, cv.start, cv.end))
			}
		}
		m.ordered = append(m.ordered, grp)
		m.byName[g.name] = grp
	}

	s.finishMatch()
	m.nextStart = s.index
	m.prevEnd = s.previousMatchEnd
	return m
}

// Matches returns all non-overlapping matches.
func (re *Regex) Matches(input string) []*Match {
	runes := []rune(input)
	start := 0
	if re.RightToLeft() {
		start = len(runes)
	}
	return re.collect(runes, start, -1)
}

// MatchesStartingAt returns all non-overlapping matches from the given
// rune offset.
func (re *Regex) MatchesStartingAt(input string, start int) []*Match {
	return re.collect([]rune(input), start, -1)
}

func (re *Regex) collect(runes []rune, start, count int) []*Match {
	var out []*Match
	var m *Match
	if re.RightToLeft() {
		m = re.find(runes, 0, start, start, start)
	} else {
		m = re.find(runes, start, len(runes), start, start)
	}
	for m.Success() && count != 0 {
		out = append(out, m)
		if count > 0 {
			count--
		}
		m = m.NextMatch()
	}
	return out
}

// IsMatch reports whether the pattern matches anywhere in input.
func (re *Regex) IsMatch(input string) bool {
	return re.Match(input).Success()
}
