package ncre

import (
	"errors"
	"strconv"
)

// Capture is one recorded span of a group, in rune offsets.
type Capture struct {
	Index  int
	Length int
	Value  string
}

// Group is the result of one capture group within a match. Captures holds
// the group's full history in temporal order; the group's reported value
// is the most recent capture.
type Group struct {
	Name     string
	Captures []Capture
}

func (g *Group) Success() bool {
	return len(g.Captures) > 0
}

func (g *Group) last() Capture {
	return g.Captures[len(g.Captures)-1]
}

func (g *Group) Value() string {
	if !g.Success() {
		return ""
	}
	return g.last().Value
}

func (g *Group) Index() int {
	if !g.Success() {
		return 0
	}
	return g.last().Index
}

func (g *Group) Length() int {
	if !g.Success() {
		return 0
	}
	return g.last().Length
}

// Match is the result of a single match attempt. An unsuccessful Match
// has Success() == false and empty groups; NextMatch on it returns the
// match itself.
type Match struct {
	re      *Regex
	input   []rune
	success bool

	byName  map[string]*Group
	ordered []*Group

	leftBound  int
	rightBound int
	nextStart  int
	prevEnd    int
}

func (m *Match) Success() bool {
	return m.success
}

// Group returns the named group's result. Numeric names tolerate leading
// zeros. Unknown names yield an unsuccessful group.
func (m *Match) Group(name string) *Group {
	if g, ok := m.byName[normalizeGroupName(name)]; ok {
		return g
	}
	return &Group{Name: name}
}

func (m *Match) GroupByNumber(n int) *Group {
	return m.Group(strconv.Itoa(n))
}

// Groups returns all groups in the collapsed reporting order, whole-match
// group first.
func (m *Match) Groups() []*Group {
	return m.ordered
}

func (m *Match) Value() string {
	return m.Group("0").Value()
}

func (m *Match) Index() int {
	return m.Group("0").Index()
}

func (m *Match) Length() int {
	return m.Group("0").Length()
}

// NextMatch continues the search after this match. A zero-width match
// advances one position first so the walk cannot stall.
func (m *Match) NextMatch() *Match {
	if !m.success {
		return m
	}
	start := m.nextStart
	if m.Length() == 0 {
		start += m.re.direction()
	}
	next := m.re.find(m.input, m.leftBound, m.rightBound, start, m.prevEnd)
	return next
}

// Result expands a replacement template against this match.
func (m *Match) Result(template string) (string, error) {
	if !m.success {
		return "", errors.New("no match to expand")
	}
	return parseReplacement(template).expand(m), nil
}

// lastGroup returns the last successful group in reporting order, which
// is what $+ refers to. Group 0 serves as the fallback since it is always
// successful.
func (m *Match) lastGroup() *Group {
	for i := len(m.ordered) - 1; i >= 0; i-- {
		if m.ordered[i].Success() {
			return m.ordered[i]
		}
	}
	return m.Group("0")
}

// precedingText and followingText are the input outside the match, used
// by $` and $'.
func (m *Match) precedingText() string {
	return runesToString(m.input[:m.Index()])
}

func (m *Match) followingText() string {
	return runesToString(m.input[m.Index()+m.Length():])
}

func (m *Match) wholeText() string {
	return runesToString(m.input)
}
